package jr

import "jrename/internal/model"

// Journal records rename operations so they can be inspected later.
// It never reverses a rename.
type Journal interface {
	// Operation records

	// CreateOperation starts a new operation record and returns it with its assigned ID.
	CreateOperation(operation, parameters string) (*model.Operation, error)

	// FinishOperation sets the final status and finish time of an operation.
	FinishOperation(id int64, status string) error

	// ListOperations returns the most recent operations, newest first.
	ListOperations(limit int) ([]*model.Operation, error)

	// Rename records

	// RecordRename stores a single completed rename.
	RecordRename(r *model.Rename) error

	// FindRenamesForOperation returns the renames of one operation in the order they happened.
	FindRenamesForOperation(operationID int64) ([]*model.Rename, error)

	// FindRenamesForName returns renames in directory whose old or new name is name,
	// oldest first.
	FindRenamesForName(directory, name string) ([]*model.Rename, error)

	// Close closes the journal.
	Close() error
}
