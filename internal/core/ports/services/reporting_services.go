package services

import (
	"context"
	"time"

	"github.com/ALANAK777/erp_finance_system/internal/core/domain"
)

// ReportingService builds financial statements from the ledger read model
type ReportingService interface {
	// GetBalanceSheet classifies balances into the accounting equation. With asOf
	// nil it reads cached balances; otherwise balances are rebuilt from postings.
	GetBalanceSheet(ctx context.Context, asOf *time.Time) (*domain.BalanceSheetReport, error)

	// GetProfitLoss reports revenue, cost of goods sold and operating expenses.
	GetProfitLoss(ctx context.Context, start, end *time.Time) (*domain.ProfitLossReport, error)

	// GetCashFlowStatement totals cash-flow records per category within the period.
	GetCashFlowStatement(ctx context.Context, start, end *time.Time) (*domain.CashFlowStatement, error)

	// GetTrialBalance lists every active account's balance on its debit or credit column.
	GetTrialBalance(ctx context.Context) (*domain.TrialBalanceReport, error)

	// ReconcileBalances compares cached balances against posting history and approved lines.
	ReconcileBalances(ctx context.Context) (*domain.ReconciliationReport, error)
}
