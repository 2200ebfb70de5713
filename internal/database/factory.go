package database

import (
	"fmt"
	"os"
	"path/filepath"

	"jrename/internal/config"
)

// journalFileName is the SQLite file created inside data_dir.
const journalFileName = "journal.db"

// NewJournalFromConfig creates a Journal implementation based on the journal config type.
// Type "none" returns a nil journal: nothing is recorded and history is unavailable.
func NewJournalFromConfig(cfg config.JournalConfig) (*SQLiteJournal, error) {
	switch cfg.Type {
	case "sqlite":
		if cfg.DataDir == "" {
			return nil, fmt.Errorf("data_dir required for sqlite journal")
		}
		if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
			return nil, fmt.Errorf("creating journal directory: %w", err)
		}
		return NewSQLiteJournal(filepath.Join(cfg.DataDir, journalFileName))
	case "memory":
		return NewSQLiteJournal(":memory:")
	case "none":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown journal type: %s", cfg.Type)
	}
}
