package repositories

import (
	"context"
	"time"

	"github.com/ALANAK777/erp_finance_system/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// CashFlowRepository stores the append-only cash movement log
type CashFlowRepository interface {
	SaveCashFlow(ctx context.Context, record domain.CashFlowRecord) error
	SaveCashFlowInTx(ctx context.Context, tx pgx.Tx, record domain.CashFlowRecord) error

	// ListCashFlows returns records with flow_date in [from, to]; nil bounds are open
	ListCashFlows(ctx context.Context, from, to *time.Time) ([]domain.CashFlowRecord, error)
}
