package jr

import (
	"errors"
	"fmt"

	"jrename/internal/model"
)

// ErrNotDirectory is returned when a rename pass targets something other than a directory.
var ErrNotDirectory = errors.New("path is not a directory")

// Outcome describes what happened to one directory entry during a pass.
type Outcome string

const (
	OutcomeRenamed      Outcome = "renamed"
	OutcomeWouldRename  Outcome = "would-rename"
	OutcomeTargetExists Outcome = "target-exists"
	OutcomeIgnored      Outcome = "ignored"
	OutcomeTooShort     Outcome = "too-short"
)

// EntryResult is the fate of a single entry.
type EntryResult struct {
	OldName string
	NewName string // empty for ignored and too-short entries
	Outcome Outcome

	// InertSplit is set when first-char mode discarded a delimiter in OldName.
	InertSplit bool
}

// RenameResult summarizes a pass over one directory.
type RenameResult struct {
	Directory string
	Entries   []EntryResult
	Renamed   int // entries renamed, or that would be renamed in a dry run
	Skipped   int

	// InertSplits counts names whose delimiter was discarded by first-char mode.
	InertSplits int
}

// RenameOptions controls a single pass.
type RenameOptions struct {
	// DryRun reports what would happen without touching the disk or the journal.
	DryRun bool
	// OperationID links recorded renames to a journal operation.
	// Zero disables recording.
	OperationID int64
}

// Matcher decides whether an entry name is excluded from the pass.
type Matcher interface {
	Match(relativePath string) bool
}

// JRService is the orchestration layer that coordinates the filesystem,
// naming rules and journal to perform the operations needed by the CLI.
type JRService struct {
	journal Journal
	fsmgr   FilesystemManager
	rules   NameRules
	logger  Logger
	clock   Clock
	idgen   IDGenerator
}

// NewJRService creates a new JRService with the provided dependencies.
// journal may be nil when nothing is recorded, e.g. for dry runs.
func NewJRService(journal Journal, fsmgr FilesystemManager, rules NameRules, logger Logger, clock Clock, idgen IDGenerator) *JRService {
	return &JRService{
		journal: journal,
		fsmgr:   fsmgr,
		rules:   rules,
		logger:  logger,
		clock:   clock,
		idgen:   idgen,
	}
}

// Rename makes one pass over dir, renaming every entry whose candidate name is free.
// Entries matched by ignore are left alone. ignore may be nil.
//
// The first failure aborts the pass. Renames done before it are kept.
func (s *JRService) Rename(dir *Path, ignore Matcher, opts RenameOptions) (*RenameResult, error) {
	if !dir.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotDirectory, dir.String())
	}

	names, err := s.fsmgr.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("listing directory: %w", err)
	}
	s.logger.Debug("directory listed", "path", dir.String(), "entries", len(names))

	// In a dry run nothing moves, so existence is tracked here instead.
	var planned map[string]bool
	if opts.DryRun {
		planned = make(map[string]bool, len(names))
		for _, name := range names {
			planned[name] = true
		}
	}

	result := &RenameResult{Directory: dir.String()}
	for _, name := range names {
		entry, err := s.renameEntry(dir, name, ignore, planned, opts)
		if err != nil {
			return result, err
		}
		result.Entries = append(result.Entries, *entry)
		if entry.InertSplit {
			result.InertSplits++
		}
		switch entry.Outcome {
		case OutcomeRenamed, OutcomeWouldRename:
			result.Renamed++
		default:
			result.Skipped++
		}
	}

	if result.InertSplits > 0 {
		s.logger.Warn("delimiter ignored in first-char mode; use full mode to split whole names", "path", dir.String(), "entries", result.InertSplits)
	}
	s.logger.Info("rename pass finished", "path", dir.String(), "renamed", result.Renamed, "skipped", result.Skipped, "dry_run", opts.DryRun)
	return result, nil
}

func (s *JRService) renameEntry(dir *Path, name string, ignore Matcher, planned map[string]bool, opts RenameOptions) (*EntryResult, error) {
	if ignore != nil && ignore.Match(name) {
		s.logger.Debug("entry ignored", "name", name)
		return &EntryResult{OldName: name, Outcome: OutcomeIgnored}, nil
	}

	candidate, err := s.rules.Candidate(name)
	if err != nil {
		if errors.Is(err, ErrNameTooShort) && s.rules.ShortNames == ShortNameSkip {
			s.logger.Warn("entry name too short, skipped", "name", name)
			return &EntryResult{OldName: name, Outcome: OutcomeTooShort}, nil
		}
		return nil, fmt.Errorf("deriving name for %s: %w", name, err)
	}
	inert := s.rules.SplitIsInert(name)
	if inert {
		s.logger.Debug("delimiter ignored in first-char mode", "name", name, "candidate", candidate)
	}

	var exists bool
	if planned != nil {
		exists = planned[candidate]
	} else {
		exists, err = s.fsmgr.Exists(dir.Child(candidate))
		if err != nil {
			return nil, fmt.Errorf("checking %s: %w", candidate, err)
		}
	}
	if exists {
		s.logger.Debug("target exists, entry left", "name", name, "candidate", candidate)
		return &EntryResult{OldName: name, NewName: candidate, Outcome: OutcomeTargetExists, InertSplit: inert}, nil
	}

	if opts.DryRun {
		delete(planned, name)
		planned[candidate] = true
		return &EntryResult{OldName: name, NewName: candidate, Outcome: OutcomeWouldRename, InertSplit: inert}, nil
	}

	if err := s.fsmgr.Rename(dir.Child(name), dir.Child(candidate)); err != nil {
		return nil, fmt.Errorf("renaming %s to %s: %w", name, candidate, err)
	}
	s.logger.Info("entry renamed", "from", name, "to", candidate)

	if err := s.record(dir, name, candidate, opts.OperationID); err != nil {
		return nil, err
	}
	return &EntryResult{OldName: name, NewName: candidate, Outcome: OutcomeRenamed, InertSplit: inert}, nil
}

// record stores a completed rename in the journal, if there is one.
func (s *JRService) record(dir *Path, oldName, newName string, operationID int64) error {
	if s.journal == nil || operationID == 0 {
		return nil
	}
	err := s.journal.RecordRename(&model.Rename{
		ID:          s.idgen.New(),
		OperationID: operationID,
		Directory:   dir.String(),
		OldName:     oldName,
		NewName:     newName,
		RenamedAt:   s.clock.Now(),
	})
	if err != nil {
		return fmt.Errorf("recording rename of %s: %w", oldName, err)
	}
	return nil
}
