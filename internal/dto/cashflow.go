package dto

import (
	"time"

	"github.com/ALANAK777/erp_finance_system/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateCashFlowRequest records a cash movement that did not come from an invoice payment.
type CreateCashFlowRequest struct {
	FlowDate    time.Time               `json:"flowDate" binding:"required"`
	FlowType    domain.CashFlowType     `json:"flowType" binding:"required,oneof=INFLOW OUTFLOW"`
	Category    domain.CashFlowCategory `json:"category" binding:"required,oneof=OPERATING INVESTING FINANCING"`
	Amount      decimal.Decimal         `json:"amount" binding:"decimal_gt0"`
	Description string                  `json:"description" binding:"required,max=500"`
	ProjectID   *string                 `json:"projectID" binding:"omitempty,uuid"`
}

// PeriodParams bounds a report or listing by date. Either end may be open.
type PeriodParams struct {
	Start *time.Time `form:"start" time_format:"2006-01-02"`
	End   *time.Time `form:"end" time_format:"2006-01-02"`
}

// ListCashFlowsResponse wraps cash-flow records.
type ListCashFlowsResponse struct {
	CashFlows []domain.CashFlowRecord `json:"cashFlows"`
}
