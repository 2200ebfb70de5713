package database

import (
	"os"
	"path/filepath"
	"testing"

	"jrename/internal/config"
)

func TestNewJournalFromConfig(t *testing.T) {
	t.Run("memory journal", func(t *testing.T) {
		got, err := NewJournalFromConfig(config.JournalConfig{Type: "memory"})
		if err != nil {
			t.Fatalf("NewJournalFromConfig() unexpected error: %v", err)
		}
		if got == nil {
			t.Fatal("NewJournalFromConfig() returned nil")
		}
		got.Close()
	})

	t.Run("sqlite journal creates data dir", func(t *testing.T) {
		dataDir := filepath.Join(t.TempDir(), "db")
		got, err := NewJournalFromConfig(config.JournalConfig{Type: "sqlite", DataDir: dataDir})
		if err != nil {
			t.Fatalf("NewJournalFromConfig() unexpected error: %v", err)
		}
		defer got.Close()

		if _, err := os.Stat(filepath.Join(dataDir, journalFileName)); err != nil {
			t.Errorf("journal file not created: %v", err)
		}
		if err := got.CheckMigrations(); err != nil {
			t.Errorf("CheckMigrations() error = %v", err)
		}
	})

	t.Run("sqlite journal without data_dir", func(t *testing.T) {
		got, err := NewJournalFromConfig(config.JournalConfig{Type: "sqlite"})
		if err == nil {
			t.Error("NewJournalFromConfig() expected error for missing data_dir, got nil")
		}
		if got != nil {
			t.Error("NewJournalFromConfig() should return nil on error")
			got.Close()
		}
	})

	t.Run("none disables the journal", func(t *testing.T) {
		got, err := NewJournalFromConfig(config.JournalConfig{Type: "none"})
		if err != nil {
			t.Fatalf("NewJournalFromConfig() unexpected error: %v", err)
		}
		if got != nil {
			t.Error("NewJournalFromConfig() should return nil for type none")
		}
	})

	t.Run("unknown journal type", func(t *testing.T) {
		got, err := NewJournalFromConfig(config.JournalConfig{Type: "unknown"})
		if err == nil {
			t.Error("NewJournalFromConfig() expected error for unknown type, got nil")
		}
		if got != nil {
			t.Error("NewJournalFromConfig() should return nil on error")
		}
	})
}
