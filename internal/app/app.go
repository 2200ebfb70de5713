package app

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"jrename/internal/config"
	"jrename/internal/database"
	"jrename/internal/fs"
	"jrename/internal/jr"
	"jrename/internal/model"
)

// JRApp is the application layer between the CLI and JRService.
// It constructs all dependencies from config, exposes high-level operations
// that accept raw string paths, and finalizes the journal on Close.
type JRApp struct {
	cfg     *config.Config
	journal *database.SQLiteJournal
	fsmgr   jr.FilesystemManager
	service *jr.JRService
	op      *Operation
	logFile *os.File
}

// NewJRApp creates a fully wired JRApp from the given config.
// operation identifies the CLI command being run (e.g. "Rename", "GetHistory").
// Log warnings go to stderr. The caller must call Close when done.
func NewJRApp(cfg *config.Config, operation string, stderr io.Writer) (*JRApp, error) {
	rules := rulesFromConfig(cfg.Rename)
	if err := rules.Validate(); err != nil {
		return nil, fmt.Errorf("invalid rename rules: %w", err)
	}

	j, err := database.NewJournalFromConfig(cfg.Journal)
	if err != nil {
		return nil, fmt.Errorf("opening journal: %w", err)
	}
	var journal jr.Journal
	if j != nil {
		if err := j.CheckMigrations(); err != nil {
			j.Close()
			return nil, fmt.Errorf("journal schema out of date: %w", err)
		}
		journal = j
	}

	opID := time.Now().UTC().Format("20060102T150405Z")
	logger, logFile, err := newLogger(cfg.LogDir, opID, cfg.LogLevel, stderr)
	if err != nil {
		if j != nil {
			j.Close()
		}
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	fsmgr := fs.NewOSFilesystemManager()
	svc := jr.NewJRService(journal, fsmgr, rules, &slogAdapter{l: logger}, jr.RealClock{}, jr.UUIDGenerator{})

	return &JRApp{
		cfg:     cfg,
		journal: j,
		fsmgr:   fsmgr,
		service: svc,
		op:      NewOperation(operation, ""),
		logFile: logFile,
	}, nil
}

func rulesFromConfig(c config.RenameConfig) jr.NameRules {
	return jr.NameRules{
		TrimLength: c.TrimLength,
		Delimiter:  c.Delimiter,
		Extension:  c.Extension,
		Mode:       c.Mode,
		ShortNames: c.ShortNames,
	}
}

// persistOperation saves the operation to the journal, giving it an auto-increment ID.
// This should only be called for mutating commands. Without a journal it does nothing.
func (a *JRApp) persistOperation(parameters string) error {
	if a.journal == nil || a.op.Persisted() {
		return nil
	}
	a.op.Parameters = parameters
	rec, err := a.journal.CreateOperation(a.op.Operation, parameters)
	if err != nil {
		return fmt.Errorf("persisting operation: %w", err)
	}
	a.op.ID = rec.ID
	return nil
}

// Rename resolves rawPath and runs one rename pass over it.
// Entries matched by the configured ignore patterns, the directory's .jrignore
// file or the extra patterns are skipped.
func (a *JRApp) Rename(rawPath string, dryRun bool, extraIgnore ...string) (*jr.RenameResult, error) {
	dir, err := a.fsmgr.Resolve(rawPath)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	ignore, err := fs.LoadIgnoreMatcher(dir.String(), a.cfg.Filesystem.Ignore)
	if err != nil {
		return nil, fmt.Errorf("loading ignore patterns: %w", err)
	}
	ignore.Add(extraIgnore...)

	opts := jr.RenameOptions{DryRun: dryRun}
	if !dryRun {
		if err := a.persistOperation(dir.String()); err != nil {
			return nil, err
		}
		opts.OperationID = a.op.ID
	}

	result, err := a.service.Rename(dir, ignore, opts)
	if err != nil {
		a.op.Fail()
		return result, err
	}
	return result, nil
}

// Preview reports what Rename would do without changing anything.
func (a *JRApp) Preview(rawPath string, extraIgnore ...string) (*jr.RenameResult, error) {
	return a.Rename(rawPath, true, extraIgnore...)
}

// GetHistory returns the most recent operations.
func (a *JRApp) GetHistory(limit int) ([]*model.Operation, error) {
	return a.service.GetHistory(limit)
}

// GetOperationRenames returns the renames recorded for one operation.
func (a *JRApp) GetOperationRenames(operationID int64) ([]*model.Rename, error) {
	return a.service.GetOperationRenames(operationID)
}

// GetNameHistory resolves rawDir and returns the renames involving name there.
// The directory is resolved with filepath.Abs only, so history stays readable
// after the directory is gone.
func (a *JRApp) GetNameHistory(rawDir, name string) ([]*model.Rename, error) {
	absDir, err := filepath.Abs(rawDir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}
	return a.service.GetNameHistory(jr.NewPath(absDir, true, nil), name)
}

// Close finalizes the operation and closes all resources.
// For persisted operations the final status and finish time are recorded.
func (a *JRApp) Close() error {
	var firstErr error

	if a.journal != nil {
		if a.op.Persisted() {
			if err := a.journal.FinishOperation(a.op.ID, a.op.Status); err != nil {
				firstErr = fmt.Errorf("finishing operation: %w", err)
			}
		}
		if err := a.journal.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("closing journal: %w", err)
		}
	}

	if a.logFile != nil {
		a.logFile.Close()
	}
	return firstErr
}
