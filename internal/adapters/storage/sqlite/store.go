// Package sqlite implements the local durable store: the serialized
// document and the sync folder handle, each in its own table of a single
// embedded database. Durable across restarts, local to this machine, never
// shared across devices.
package sqlite

import (
	"context"
	"database/sql"

	_ "modernc.org/sqlite"
)

// Store wraps the embedded database connection.
type Store struct {
	db  *sql.DB
	dsn string
}

// NewStore opens (creating if needed) the database at dsn.
func NewStore(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	// Single writer; the document row is rewritten whole on every mutation.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(context.Background(), `PRAGMA journal_mode = WAL;`); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db, dsn: dsn}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Ping verifies the database connection is still alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
