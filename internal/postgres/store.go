// Package postgres is the pgx-backed bookstore.Repository.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/ariefcatur/go-bookstore/internal/bookstore"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	uniqueViolation   = "23505"
	numericOutOfRange = "22003"
)

var _ bookstore.Repository = (*Store)(nil)

type Store struct{ DB *pgxpool.Pool }

func NewStore(db *pgxpool.Pool) *Store { return &Store{DB: db} }

// dbtx is satisfied by both *pgxpool.Pool and pgx.Tx.
type dbtx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type queries struct{ db dbtx }

var _ bookstore.Queries = (*queries)(nil)

func (s *Store) InTx(ctx context.Context, fn func(q bookstore.Queries) error) error {
	return s.run(ctx, pgx.TxOptions{}, fn)
}

// View runs fn in a read-only repeatable-read transaction so multi-statement
// reads see one snapshot.
func (s *Store) View(ctx context.Context, fn func(q bookstore.Queries) error) error {
	return s.run(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly}, fn)
}

func (s *Store) run(ctx context.Context, opts pgx.TxOptions, fn func(q bookstore.Queries) error) error {
	tx, err := s.DB.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(&queries{db: tx}); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	return hasCode(err, uniqueViolation)
}

func isOutOfRange(err error) bool {
	return hasCode(err, numericOutOfRange)
}

func hasCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}

func noRecord(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return bookstore.ErrNoRecord
	}
	return err
}
