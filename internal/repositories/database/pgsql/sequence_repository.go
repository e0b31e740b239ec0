package pgsql

import (
	"context"
	"fmt"

	portsrepo "github.com/ALANAK777/erp_finance_system/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxSequenceRepository hands out document numbers from the document_sequences table.
type PgxSequenceRepository struct {
	BaseRepository
}

func newPgxSequenceRepository(pool *pgxpool.Pool) *PgxSequenceRepository {
	return &PgxSequenceRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.SequenceRepository = (*PgxSequenceRepository)(nil)

// NextSequenceInTx upserts the (prefix, year) counter. The row lock taken by
// the update is held until tx ends.
func (r *PgxSequenceRepository) NextSequenceInTx(ctx context.Context, tx pgx.Tx, prefix string, year int) (int64, error) {
	query := `
		INSERT INTO document_sequences (prefix, year, last_value)
		VALUES ($1, $2, 1)
		ON CONFLICT (prefix, year) DO UPDATE SET last_value = document_sequences.last_value + 1
		RETURNING last_value;
	`
	var next int64
	if err := tx.QueryRow(ctx, query, prefix, year).Scan(&next); err != nil {
		return 0, translateError(err, fmt.Sprintf("next %s sequence for %d", prefix, year))
	}
	return next, nil
}
