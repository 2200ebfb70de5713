package model

import (
	"database/sql"
	"time"
)

// Operation is one CLI invocation that mutated a directory.
type Operation struct {
	ID         int64  // auto-increment, assigned by the journal
	Operation  string // e.g. "Rename"
	Parameters string // the directory the operation ran against
	Status     string // "success" or "error"
	StartedAt  time.Time
	FinishedAt sql.NullTime
}

// Rename records a single entry moved from OldName to NewName within Directory.
type Rename struct {
	ID          string // UUID
	OperationID int64  // Foreign key to Operation
	Directory   string // Absolute path of the scanned directory
	OldName     string
	NewName     string
	RenamedAt   time.Time
}
