package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CashFlowType is the direction of a cash movement.
type CashFlowType string

const (
	CashInflow  CashFlowType = "INFLOW"
	CashOutflow CashFlowType = "OUTFLOW"
)

// CashFlowCategory is the cash-flow statement section a movement belongs to.
type CashFlowCategory string

const (
	CashFlowOperating CashFlowCategory = "OPERATING"
	CashFlowInvesting CashFlowCategory = "INVESTING"
	CashFlowFinancing CashFlowCategory = "FINANCING"
)

// CashFlowCategories lists categories in statement order.
var CashFlowCategories = []CashFlowCategory{CashFlowOperating, CashFlowInvesting, CashFlowFinancing}

// CashFlowRecord is an entry in the append-only cash movement log. It is
// independent of journal entries and account balances.
type CashFlowRecord struct {
	CashFlowID  string           `json:"cashFlowID"`
	FlowDate    time.Time        `json:"flowDate"`
	FlowType    CashFlowType     `json:"flowType"`
	Category    CashFlowCategory `json:"category"`
	Amount      decimal.Decimal  `json:"amount"`
	Description string           `json:"description"`
	PaymentID   *string          `json:"paymentID,omitempty"`
	ProjectID   *string          `json:"projectID,omitempty"`
	CreatedAt   time.Time        `json:"createdAt"`
	CreatedBy   string           `json:"createdBy"`
}

// SignedAmount is positive for inflows and negative for outflows.
func (r CashFlowRecord) SignedAmount() decimal.Decimal {
	if r.FlowType == CashOutflow {
		return r.Amount.Neg()
	}
	return r.Amount
}
