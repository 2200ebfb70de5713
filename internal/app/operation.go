package app

// Operation tracks a CLI invocation that may mutate a directory.
// Operations start in memory with ID=0. Only mutating commands persist
// them, which gives them an auto-increment ID from the journal.
type Operation struct {
	ID         int64
	Operation  string
	Parameters string
	Status     string // "success" or "error"
}

// NewOperation creates a new in-memory operation.
func NewOperation(operation, parameters string) *Operation {
	return &Operation{
		Operation:  operation,
		Parameters: parameters,
		Status:     "success",
	}
}

// Persisted returns true if this operation has been saved to the journal.
func (op *Operation) Persisted() bool {
	return op.ID != 0
}

// Fail marks the operation as failed; Close records the status.
func (op *Operation) Fail() {
	op.Status = "error"
}
