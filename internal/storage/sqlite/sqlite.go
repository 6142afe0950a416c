// Package sqlite provides a SQLite-backed implementation of the storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/ThaiKG/personal-accounting-bot/internal/ledger"
	"github.com/ThaiKG/personal-accounting-bot/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	// Create parent directory if it doesn't exist
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// Open database with pure Go driver
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	// Writers queue instead of failing with SQLITE_BUSY, so concurrent
	// operations on the same balances serialize.
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	// SQLite allows one writer at a time; funneling all access through a
	// single connection makes concurrent transactions queue instead of
	// racing for the write lock.
	db.SetMaxOpenConns(1)

	// Run migrations
	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// RunInTx runs fn within a single database transaction. Any error from fn,
// or from the commit itself, rolls every mutation back. Domain rejections
// from the ledger taxonomy pass through untouched; everything else is an
// infrastructure failure and gets wrapped in ledger.ErrTransactionAborted so
// no untyped error crosses the core boundary.
func (s *SQLiteStore) RunInTx(ctx context.Context, fn func(tx storage.Tx) error) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin: %v", ledger.ErrTransactionAborted, err)
	}
	defer dbTx.Rollback()

	if err := fn(&sqliteTx{tx: dbTx}); err != nil {
		if ledger.IsDomainError(err) {
			return err
		}
		return fmt.Errorf("%w: %w", ledger.ErrTransactionAborted, err)
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %v", ledger.ErrTransactionAborted, err)
	}
	return nil
}

// sqliteTx implements storage.Tx on top of a *sql.Tx.
type sqliteTx struct {
	tx *sql.Tx
}

var _ storage.Tx = (*sqliteTx)(nil)

// querier is the read surface shared by *sql.DB and *sql.Tx, so expense
// hydration can run both on the pool and inside a transaction.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

var (
	_ querier = (*sql.DB)(nil)
	_ querier = (*sql.Tx)(nil)
)
