// Package store provides database access for all linkkeep entities. Each
// store struct wraps a querier (either the shared *sql.DB pool or a
// transaction) and exposes typed query methods.
package store

import (
	"context"
	"database/sql"
	"fmt"

	"linkkeep/internal/category"
)

// querier is the subset of *sql.DB / *sql.Tx the stores need. Binding
// stores to this interface lets the same code run inside and outside a
// transaction.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// TxRunner executes multi-step mutations atomically. It implements
// category.TxRunner over database/sql transactions.
type TxRunner struct {
	db *sql.DB
}

// NewTxRunner creates a TxRunner over the shared pool.
func NewTxRunner(db *sql.DB) *TxRunner {
	return &TxRunner{db: db}
}

// InTx begins a transaction, hands transaction-bound stores to fn, and
// commits if fn succeeds. Any error (or panic unwinding) rolls back.
func (r *TxRunner) InTx(ctx context.Context, fn func(cats category.Store, contents category.ContentStore) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&CategoryStore{q: tx}, &ContentStore{q: tx}); err != nil {
		return err
	}
	return tx.Commit()
}
