package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// TransactionManager defines methods for transaction management
type TransactionManager interface {
	// Begin starts a new database transaction
	Begin(ctx context.Context) (pgx.Tx, error)

	// Commit commits a transaction
	Commit(ctx context.Context, tx pgx.Tx) error

	// Rollback rolls back a transaction
	Rollback(ctx context.Context, tx pgx.Tx) error
}

// TxRunner executes fn inside a single database transaction. The transaction
// commits when fn returns nil and rolls back otherwise. Serialization failures
// and deadlocks are reported as apperrors.ErrConcurrency.
type TxRunner interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx pgx.Tx) error) error
}

// SequenceRepository hands out per-(prefix, year) document sequence numbers.
type SequenceRepository interface {
	// NextSequenceInTx increments and returns the counter for prefix and year.
	// The counter row stays locked until tx ends, so numbers are gap-free per commit order.
	NextSequenceInTx(ctx context.Context, tx pgx.Tx, prefix string, year int) (int64, error)
}
