package pgsql

import (
	"context"
	"time"

	portsrepo "github.com/ALANAK777/erp_finance_system/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// reportingRepository aggregates ledger history for the read model.
type reportingRepository struct {
	BaseRepository
}

// newReportingRepository creates a new reporting repository
func newReportingRepository(db *pgxpool.Pool) portsrepo.ReportingRepository {
	return &reportingRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

// SumPostingsByAccount sums posting deltas per account, optionally restricted
// to entries dated on or before asOf.
func (r *reportingRepository) SumPostingsByAccount(ctx context.Context, asOf *time.Time) (map[string]decimal.Decimal, error) {
	query := `
		SELECT p.account_id, COALESCE(SUM(p.delta), 0)
		FROM ledger_postings p
		JOIN journal_entries j ON j.entry_id = p.entry_id
		WHERE ($1::date IS NULL OR j.entry_date <= $1::date)
		GROUP BY p.account_id;
	`
	rows, err := r.Pool.Query(ctx, query, asOf)
	if err != nil {
		return nil, translateError(err, "sum postings by account")
	}
	return collectSums(rows)
}

// SumApprovedLinesByAccount recomputes each account's signed balance from the
// lines of APPROVED entries, using the account type's normal side.
func (r *reportingRepository) SumApprovedLinesByAccount(ctx context.Context) (map[string]decimal.Decimal, error) {
	query := `
		SELECT l.account_id,
		       COALESCE(SUM(CASE WHEN a.account_type IN ('ASSET', 'EXPENSE')
		                         THEN l.debit - l.credit
		                         ELSE l.credit - l.debit END), 0)
		FROM journal_lines l
		JOIN journal_entries j ON j.entry_id = l.entry_id
		JOIN accounts a ON a.account_id = l.account_id
		WHERE j.status = 'APPROVED'
		GROUP BY l.account_id;
	`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, translateError(err, "sum approved lines by account")
	}
	return collectSums(rows)
}

func collectSums(rows pgx.Rows) (map[string]decimal.Decimal, error) {
	defer rows.Close()
	sums := make(map[string]decimal.Decimal)
	for rows.Next() {
		var accountID string
		var sum decimal.Decimal
		if err := rows.Scan(&accountID, &sum); err != nil {
			return nil, translateError(err, "scan account sum")
		}
		sums[accountID] = sum
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(err, "iterate account sums")
	}
	return sums, nil
}
