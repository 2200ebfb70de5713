package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"jrename/internal/database/migrations"
	"jrename/internal/jr"
	"jrename/internal/model"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteJournal implements the Journal interface using SQLite.
type SQLiteJournal struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

// NewSQLiteJournal opens the journal at path, creating and migrating it as needed.
// path can be a file path or ":memory:" for an in-memory journal.
func NewSQLiteJournal(path string) (*SQLiteJournal, error) {
	db, err := OpenConnection(path)
	if err != nil {
		return nil, err
	}

	if err := migrations.Up(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating journal: %w", err)
	}

	return NewSQLiteJournalFromDB(db, path), nil
}

// NewSQLiteJournalFromDB wraps an existing, already migrated connection.
func NewSQLiteJournalFromDB(db *sql.DB, path string) *SQLiteJournal {
	return &SQLiteJournal{
		db:   db,
		path: path,
		now:  time.Now,
	}
}

// OpenConnection opens and configures a SQLite connection with appropriate PRAGMAs.
// path can be a file path or ":memory:" for an in-memory database.
func OpenConnection(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}

	// One writer at a time; also keeps ":memory:" on a single database.
	db.SetMaxOpenConns(1)

	// Enable foreign key constraints (SQLite default is OFF for backward compatibility)
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	return db, nil
}

// CheckMigrations verifies the journal schema is at the latest version.
func (s *SQLiteJournal) CheckMigrations() error {
	return migrations.Check(s.db)
}

// Operation records

func (s *SQLiteJournal) CreateOperation(operation, parameters string) (*model.Operation, error) {
	op := &model.Operation{
		Operation:  operation,
		Parameters: parameters,
		Status:     "running",
		StartedAt:  s.now().UTC(),
	}

	res, err := s.db.ExecContext(context.Background(),
		`INSERT INTO operations (operation, parameters, status, started_at) VALUES (?, ?, ?, ?)`,
		op.Operation, op.Parameters, op.Status, op.StartedAt)
	if err != nil {
		return nil, fmt.Errorf("inserting operation: %w", err)
	}

	op.ID, err = res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("reading operation id: %w", err)
	}
	return op, nil
}

func (s *SQLiteJournal) FinishOperation(id int64, status string) error {
	res, err := s.db.ExecContext(context.Background(),
		`UPDATE operations SET status = ?, finished_at = ? WHERE id = ?`,
		status, s.now().UTC(), id)
	if err != nil {
		return fmt.Errorf("finishing operation: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("finishing operation: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("operation %d not found", id)
	}
	return nil
}

func (s *SQLiteJournal) ListOperations(limit int) ([]*model.Operation, error) {
	rows, err := s.db.QueryContext(context.Background(),
		`SELECT id, operation, parameters, status, started_at, finished_at
		 FROM operations ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing operations: %w", err)
	}
	defer rows.Close()

	var ops []*model.Operation
	for rows.Next() {
		var op model.Operation
		if err := rows.Scan(&op.ID, &op.Operation, &op.Parameters, &op.Status, &op.StartedAt, &op.FinishedAt); err != nil {
			return nil, fmt.Errorf("scanning operation: %w", err)
		}
		ops = append(ops, &op)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing operations: %w", err)
	}
	return ops, nil
}

// Rename records

func (s *SQLiteJournal) RecordRename(r *model.Rename) error {
	_, err := s.db.ExecContext(context.Background(),
		`INSERT INTO renames (id, operation_id, directory, old_name, new_name, renamed_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		r.ID, r.OperationID, r.Directory, r.OldName, r.NewName, r.RenamedAt.UTC())
	if err != nil {
		return fmt.Errorf("inserting rename: %w", err)
	}
	return nil
}

func (s *SQLiteJournal) FindRenamesForOperation(operationID int64) ([]*model.Rename, error) {
	return s.queryRenames(
		`SELECT id, operation_id, directory, old_name, new_name, renamed_at
		 FROM renames WHERE operation_id = ? ORDER BY renamed_at, rowid`, operationID)
}

func (s *SQLiteJournal) FindRenamesForName(directory, name string) ([]*model.Rename, error) {
	return s.queryRenames(
		`SELECT id, operation_id, directory, old_name, new_name, renamed_at
		 FROM renames WHERE directory = ? AND (old_name = ? OR new_name = ?)
		 ORDER BY renamed_at, rowid`, directory, name, name)
}

func (s *SQLiteJournal) queryRenames(query string, args ...any) ([]*model.Rename, error) {
	rows, err := s.db.QueryContext(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying renames: %w", err)
	}
	defer rows.Close()

	var renames []*model.Rename
	for rows.Next() {
		var r model.Rename
		if err := rows.Scan(&r.ID, &r.OperationID, &r.Directory, &r.OldName, &r.NewName, &r.RenamedAt); err != nil {
			return nil, fmt.Errorf("scanning rename: %w", err)
		}
		renames = append(renames, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("querying renames: %w", err)
	}
	return renames, nil
}

// Close closes the database connection.
func (s *SQLiteJournal) Close() error {
	return s.db.Close()
}

// Compile-time check that SQLiteJournal implements jr.Journal interface
var _ jr.Journal = (*SQLiteJournal)(nil)
