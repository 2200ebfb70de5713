package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestManager_ReadWrite_RoundTrip(t *testing.T) {
	original := &Config{
		BaseDir:  "/home/user/.local/share/jrename",
		LogDir:   "/home/user/.local/share/jrename/log",
		LogLevel: "debug",
		Confirm:  true,
		Rename: RenameConfig{
			TrimLength: 4,
			Delimiter:  " - ",
			Extension:  ".png",
			Mode:       "full",
			ShortNames: "skip",
		},
		Journal: JournalConfig{Type: "sqlite", DataDir: "/home/user/.local/share/jrename/db"},
		Filesystem: FilesystemConfig{
			Ignore: []string{"*.py", "thumbs.db"},
		},
	}

	var buf bytes.Buffer
	m := &Manager{}

	if err := m.Write(&buf, original); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	got, err := m.Read(&buf, &Config{})
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	if got.LogDir != original.LogDir {
		t.Errorf("LogDir = %q, want %q", got.LogDir, original.LogDir)
	}
	if got.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want %q", got.LogLevel, "debug")
	}
	if !got.Confirm {
		t.Error("Confirm = false, want true")
	}
	if got.Rename != original.Rename {
		t.Errorf("Rename = %+v, want %+v", got.Rename, original.Rename)
	}
	if got.Journal != original.Journal {
		t.Errorf("Journal = %+v, want %+v", got.Journal, original.Journal)
	}
	if len(got.Filesystem.Ignore) != 2 {
		t.Fatalf("len(Filesystem.Ignore) = %d, want 2", len(got.Filesystem.Ignore))
	}
}

func TestManager_Read_KeepsBaseForMissingKeys(t *testing.T) {
	m := &Manager{}
	input := "log_level = \"warn\"\n\n[rename]\nmode = \"full\"\n"

	got, err := m.Read(strings.NewReader(input), NewConfig("/data/jrename"))
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	if got.LogLevel != "warn" {
		t.Errorf("LogLevel = %q, want %q", got.LogLevel, "warn")
	}
	if got.Rename.Mode != "full" {
		t.Errorf("Rename.Mode = %q, want %q", got.Rename.Mode, "full")
	}
	if got.Rename.Delimiter != " - " {
		t.Errorf("Rename.Delimiter = %q, want default %q", got.Rename.Delimiter, " - ")
	}
	if got.Rename.TrimLength != 4 {
		t.Errorf("Rename.TrimLength = %d, want default 4", got.Rename.TrimLength)
	}
	if got.Journal.Type != "sqlite" {
		t.Errorf("Journal.Type = %q, want default %q", got.Journal.Type, "sqlite")
	}
}

func TestNewConfig(t *testing.T) {
	cfg := NewConfig("/data/jrename")

	if cfg.BaseDir != "/data/jrename" {
		t.Errorf("BaseDir = %q, want %q", cfg.BaseDir, "/data/jrename")
	}
	if cfg.LogDir != "/data/jrename/log" {
		t.Errorf("LogDir = %q, want %q", cfg.LogDir, "/data/jrename/log")
	}
	if cfg.Journal.DataDir != "/data/jrename/db" {
		t.Errorf("Journal.DataDir = %q, want %q", cfg.Journal.DataDir, "/data/jrename/db")
	}
	if cfg.Rename.Extension != ".png" {
		t.Errorf("Rename.Extension = %q, want %q", cfg.Rename.Extension, ".png")
	}
	if cfg.Rename.Mode != "first-char" {
		t.Errorf("Rename.Mode = %q, want %q", cfg.Rename.Mode, "first-char")
	}
}

func TestInit(t *testing.T) {
	t.Run("creates config file", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "nested", "jrename.toml")

		if err := Init(path, NewConfig(dir)); err != nil {
			t.Fatalf("Init() error = %v", err)
		}
		if _, err := os.Stat(path); err != nil {
			t.Fatalf("config file not created: %v", err)
		}
	})

	t.Run("fails if file already exists", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "jrename.toml")
		cfg := NewConfig(dir)

		if err := Init(path, cfg); err != nil {
			t.Fatalf("first Init() error = %v", err)
		}
		if err := Init(path, cfg); err == nil {
			t.Fatal("second Init() expected error")
		}
	})
}

func TestReadFromFile(t *testing.T) {
	t.Run("reads valid config", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "jrename.toml")
		cfg := NewConfig(dir)
		cfg.Journal = JournalConfig{Type: "memory"}

		if err := Init(path, cfg); err != nil {
			t.Fatalf("Init() error = %v", err)
		}

		got, err := ReadFromFile(path, "/unused")
		if err != nil {
			t.Fatalf("ReadFromFile() error = %v", err)
		}
		if got.Journal.Type != "memory" {
			t.Errorf("Journal.Type = %q, want %q", got.Journal.Type, "memory")
		}
		if got.BaseDir != dir {
			t.Errorf("BaseDir = %q, want %q", got.BaseDir, dir)
		}
	})

	t.Run("missing file yields defaults", func(t *testing.T) {
		got, err := ReadFromFile("/nonexistent/path/jrename.toml", "/data/jrename")
		if err != nil {
			t.Fatalf("ReadFromFile() error = %v", err)
		}
		if got.LogDir != "/data/jrename/log" {
			t.Errorf("LogDir = %q, want %q", got.LogDir, "/data/jrename/log")
		}
	})

	t.Run("returns error for malformed file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "jrename.toml")
		if err := os.WriteFile(path, []byte("log_level = ["), 0644); err != nil {
			t.Fatalf("writing config: %v", err)
		}
		if _, err := ReadFromFile(path, "/data/jrename"); err == nil {
			t.Fatal("ReadFromFile() expected error for malformed file")
		}
	})
}
