package domain_test

import (
	"testing"

	"github.com/ALANAK777/erp_finance_system/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestDerivePaymentStatus(t *testing.T) {
	total := decimal.NewFromInt(1000)

	tests := []struct {
		name    string
		current domain.InvoiceStatus
		paid    decimal.Decimal
		want    domain.InvoiceStatus
	}{
		{name: "nothing paid keeps status", current: domain.InvoiceSent, paid: decimal.Zero, want: domain.InvoiceSent},
		{name: "partial payment", current: domain.InvoiceSent, paid: decimal.NewFromInt(400), want: domain.InvoicePartial},
		{name: "overdue partial payment", current: domain.InvoiceOverdue, paid: decimal.NewFromInt(1), want: domain.InvoicePartial},
		{name: "fully paid", current: domain.InvoicePartial, paid: decimal.NewFromInt(1000), want: domain.InvoicePaid},
		{name: "paid within tolerance", current: domain.InvoicePartial, paid: decimal.RequireFromString("999.995"), want: domain.InvoicePaid},
		{name: "just outside tolerance", current: domain.InvoicePartial, paid: decimal.RequireFromString("999.98"), want: domain.InvoicePartial},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.DerivePaymentStatus(tt.current, total, tt.paid))
		})
	}
}

func TestInvoiceStatus_AcceptsPayments(t *testing.T) {
	assert.True(t, domain.InvoiceSent.AcceptsPayments())
	assert.True(t, domain.InvoicePartial.AcceptsPayments())
	assert.True(t, domain.InvoiceOverdue.AcceptsPayments())
	assert.True(t, domain.InvoiceDraft.AcceptsPayments())
	assert.False(t, domain.InvoicePaid.AcceptsPayments())
	assert.False(t, domain.InvoiceCancelled.AcceptsPayments())
}

func TestInvoiceType_NumberPrefix(t *testing.T) {
	assert.Equal(t, "INV", domain.Receivable.NumberPrefix())
	assert.Equal(t, "BILL", domain.Payable.NumberPrefix())
}

func TestCashFlowRecord_SignedAmount(t *testing.T) {
	in := domain.CashFlowRecord{FlowType: domain.CashInflow, Amount: decimal.NewFromInt(50)}
	out := domain.CashFlowRecord{FlowType: domain.CashOutflow, Amount: decimal.NewFromInt(50)}
	assert.True(t, in.SignedAmount().Equal(decimal.NewFromInt(50)))
	assert.True(t, out.SignedAmount().Equal(decimal.NewFromInt(-50)))
}
