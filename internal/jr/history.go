package jr

import (
	"errors"
	"fmt"

	"jrename/internal/model"
)

// ErrNoJournal is returned by history queries when the service has no journal.
var ErrNoJournal = errors.New("no journal configured")

// GetHistory returns the most recent operations, ordered newest first.
func (s *JRService) GetHistory(limit int) ([]*model.Operation, error) {
	if s.journal == nil {
		return nil, ErrNoJournal
	}
	ops, err := s.journal.ListOperations(limit)
	if err != nil {
		return nil, fmt.Errorf("listing operations: %w", err)
	}
	return ops, nil
}

// GetOperationRenames returns the renames performed by one operation.
func (s *JRService) GetOperationRenames(operationID int64) ([]*model.Rename, error) {
	if s.journal == nil {
		return nil, ErrNoJournal
	}
	renames, err := s.journal.FindRenamesForOperation(operationID)
	if err != nil {
		return nil, fmt.Errorf("finding renames for operation %d: %w", operationID, err)
	}
	return renames, nil
}

// GetNameHistory returns the renames that produced or consumed name in dir,
// newest first.
func (s *JRService) GetNameHistory(dir *Path, name string) ([]*model.Rename, error) {
	s.logger.Debug("fetching name history", "path", dir.String(), "name", name)

	if s.journal == nil {
		return nil, ErrNoJournal
	}
	if !dir.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotDirectory, dir.String())
	}

	renames, err := s.journal.FindRenamesForName(dir.String(), name)
	if err != nil {
		return nil, fmt.Errorf("finding renames for %s: %w", name, err)
	}

	// Reverse to newest first
	for i, j := 0, len(renames)-1; i < j; i, j = i+1, j-1 {
		renames[i], renames[j] = renames[j], renames[i]
	}
	return renames, nil
}
