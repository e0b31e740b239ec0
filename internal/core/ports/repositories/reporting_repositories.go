package repositories

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// ReportingRepository aggregates ledger history for the read model
type ReportingRepository interface {
	// SumPostingsByAccount sums ledger posting deltas per account. With asOf set,
	// only postings of entries dated on or before asOf are included.
	SumPostingsByAccount(ctx context.Context, asOf *time.Time) (map[string]decimal.Decimal, error)

	// SumApprovedLinesByAccount recomputes signed balances per account directly
	// from the lines of APPROVED entries.
	SumApprovedLinesByAccount(ctx context.Context) (map[string]decimal.Decimal, error)
}
