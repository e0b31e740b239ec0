package services

import (
	"context"

	"github.com/ALANAK777/erp_finance_system/internal/core/domain"
	"github.com/ALANAK777/erp_finance_system/internal/dto"
)

// CashFlowSvc manages the cash movement log
type CashFlowSvc interface {
	RecordCashFlow(ctx context.Context, req dto.CreateCashFlowRequest, userID string) (*domain.CashFlowRecord, error)
	ListCashFlows(ctx context.Context, params dto.PeriodParams) ([]domain.CashFlowRecord, error)
}
