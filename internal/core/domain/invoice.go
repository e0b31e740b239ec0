package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceType distinguishes money owed to us from money we owe.
type InvoiceType string

const (
	Receivable InvoiceType = "RECEIVABLE"
	Payable    InvoiceType = "PAYABLE"
)

// IsValid reports whether t is a known invoice type.
func (t InvoiceType) IsValid() bool {
	return t == Receivable || t == Payable
}

// NumberPrefix returns the invoice numbering prefix for t.
func (t InvoiceType) NumberPrefix() string {
	if t == Payable {
		return "BILL"
	}
	return "INV"
}

// InvoiceStatus is the lifecycle state of an invoice.
type InvoiceStatus string

const (
	InvoiceDraft     InvoiceStatus = "DRAFT"
	InvoiceSent      InvoiceStatus = "SENT"
	InvoicePartial   InvoiceStatus = "PARTIAL"
	InvoicePaid      InvoiceStatus = "PAID"
	InvoiceOverdue   InvoiceStatus = "OVERDUE"
	InvoiceCancelled InvoiceStatus = "CANCELLED"
)

// AcceptsPayments reports whether a payment may be recorded against an invoice in status s.
func (s InvoiceStatus) AcceptsPayments() bool {
	return s != InvoicePaid && s != InvoiceCancelled
}

// Invoice is a customer invoice (RECEIVABLE) or vendor bill (PAYABLE).
type Invoice struct {
	InvoiceID      string          `json:"invoiceID"`
	InvoiceNumber  string          `json:"invoiceNumber"`
	InvoiceType    InvoiceType     `json:"invoiceType"`
	CustomerID     *string         `json:"customerID,omitempty"`
	VendorID       *string         `json:"vendorID,omitempty"`
	ProjectID      *string         `json:"projectID,omitempty"`
	IssueDate      time.Time       `json:"issueDate"`
	DueDate        time.Time       `json:"dueDate"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	Tax            decimal.Decimal `json:"tax"`
	Total          decimal.Decimal `json:"total"`
	PaidAmount     decimal.Decimal `json:"paidAmount"`
	CurrencyCode   string          `json:"currencyCode"`
	Status         InvoiceStatus   `json:"status"`
	Notes          string          `json:"notes"`
	JournalEntryID *string         `json:"journalEntryID,omitempty"`
	Items          []InvoiceItem   `json:"items"`
	AuditFields
}

// Outstanding is the amount still payable on the invoice.
func (i Invoice) Outstanding() decimal.Decimal {
	return i.Total.Sub(i.PaidAmount)
}

// InvoiceItem is a single billed line on an invoice.
type InvoiceItem struct {
	ItemID      string          `json:"itemID"`
	InvoiceID   string          `json:"invoiceID"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Amount      decimal.Decimal `json:"amount"`
}

// InvoiceFilter narrows ListInvoices. Nil fields are not applied.
type InvoiceFilter struct {
	InvoiceType *InvoiceType
	Status      *InvoiceStatus
	ProjectID   *string
}

// DerivePaymentStatus returns the status an invoice takes after cumulative
// payments of paid against total: PAID when fully settled within tolerance,
// PARTIAL when something but not everything is paid, otherwise current.
func DerivePaymentStatus(current InvoiceStatus, total, paid decimal.Decimal) InvoiceStatus {
	if paid.IsPositive() && WithinTolerance(paid, total) {
		return InvoicePaid
	}
	if paid.IsPositive() && paid.LessThan(total) {
		return InvoicePartial
	}
	return current
}

// PaymentMethod is how a payment was settled.
type PaymentMethod string

const (
	PaymentCash         PaymentMethod = "CASH"
	PaymentBankTransfer PaymentMethod = "BANK_TRANSFER"
	PaymentCheck        PaymentMethod = "CHECK"
	PaymentCard         PaymentMethod = "CARD"
	PaymentOther        PaymentMethod = "OTHER"
)

// PaymentNumberPrefix is the numbering prefix for payments.
const PaymentNumberPrefix = "PAY"

// Payment is money received against a receivable or paid against a payable.
type Payment struct {
	PaymentID      string          `json:"paymentID"`
	PaymentNumber  string          `json:"paymentNumber"`
	InvoiceID      string          `json:"invoiceID"`
	Amount         decimal.Decimal `json:"amount"`
	PaymentDate    time.Time       `json:"paymentDate"`
	Method         PaymentMethod   `json:"method"`
	Reference      *string         `json:"reference,omitempty"`
	JournalEntryID *string         `json:"journalEntryID,omitempty"`
	AuditFields
}
