package dto

import (
	"time"

	"github.com/ALANAK777/erp_finance_system/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateInvoiceItemRequest is one billable line of an invoice.
type CreateInvoiceItemRequest struct {
	Description string          `json:"description" binding:"required,max=500"`
	Quantity    decimal.Decimal `json:"quantity" binding:"decimal_gt0"`
	UnitPrice   decimal.Decimal `json:"unitPrice" binding:"decimal_gte0"`
}

// CreateInvoiceRequest defines the data needed to issue an invoice or a vendor bill.
// InvoiceNumber is generated when empty.
type CreateInvoiceRequest struct {
	InvoiceNumber string                     `json:"invoiceNumber" binding:"omitempty,max=50"`
	InvoiceType   domain.InvoiceType         `json:"invoiceType" binding:"required,oneof=RECEIVABLE PAYABLE"`
	CustomerID    *string                    `json:"customerID" binding:"omitempty,max=64"`
	VendorID      *string                    `json:"vendorID" binding:"omitempty,max=64"`
	ProjectID     *string                    `json:"projectID" binding:"omitempty,uuid"`
	IssueDate     time.Time                  `json:"issueDate" binding:"required"`
	DueDate       time.Time                  `json:"dueDate" binding:"required,gtefield=IssueDate"`
	Tax           decimal.Decimal            `json:"tax" binding:"decimal_gte0"`
	CurrencyCode  string                     `json:"currencyCode" binding:"omitempty,len=3,uppercase"`
	Notes         string                     `json:"notes" binding:"max=2000"`
	Items         []CreateInvoiceItemRequest `json:"items" binding:"required,min=1,dive"`
}

// UpdateInvoiceStatusRequest moves an invoice between the non-payment states.
type UpdateInvoiceStatusRequest struct {
	Status domain.InvoiceStatus `json:"status" binding:"required,oneof=SENT OVERDUE"`
}

// CancelInvoiceRequest carries an optional cancellation note.
type CancelInvoiceRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

// InvoiceResponse is an invoice plus its outstanding amount.
type InvoiceResponse struct {
	domain.Invoice
	Outstanding decimal.Decimal `json:"outstanding"`
}

// ToInvoiceResponse converts a domain.Invoice to its response DTO.
func ToInvoiceResponse(inv *domain.Invoice) InvoiceResponse {
	return InvoiceResponse{Invoice: *inv, Outstanding: inv.Outstanding()}
}

// ListInvoicesParams defines query parameters for listing invoices.
type ListInvoicesParams struct {
	InvoiceType string `form:"type" binding:"omitempty,oneof=RECEIVABLE PAYABLE"`
	Status      string `form:"status" binding:"omitempty,oneof=DRAFT SENT PARTIAL PAID OVERDUE CANCELLED"`
	ProjectID   string `form:"projectID" binding:"omitempty,uuid"`
	Limit       int    `form:"limit,default=20" binding:"min=0,max=200"`
	Offset      int    `form:"offset,default=0" binding:"min=0"`
}

// ToFilter converts query parameters to a domain filter.
func (p ListInvoicesParams) ToFilter() domain.InvoiceFilter {
	var filter domain.InvoiceFilter
	if p.InvoiceType != "" {
		t := domain.InvoiceType(p.InvoiceType)
		filter.InvoiceType = &t
	}
	if p.Status != "" {
		s := domain.InvoiceStatus(p.Status)
		filter.Status = &s
	}
	if p.ProjectID != "" {
		filter.ProjectID = &p.ProjectID
	}
	return filter
}

// ListInvoicesResponse wraps a page of invoices.
type ListInvoicesResponse struct {
	Invoices []InvoiceResponse `json:"invoices"`
}

// InvoiceResult is returned by operations that post to the ledger on behalf of an invoice.
type InvoiceResult struct {
	Invoice      InvoiceResponse       `json:"invoice"`
	JournalEntry *JournalEntryResponse `json:"journalEntry,omitempty"`
}

// CreatePaymentRequest defines the data needed to record a payment against an invoice.
type CreatePaymentRequest struct {
	Amount      decimal.Decimal      `json:"amount" binding:"decimal_gt0"`
	PaymentDate time.Time            `json:"paymentDate" binding:"required"`
	Method      domain.PaymentMethod `json:"method" binding:"required,oneof=CASH BANK_TRANSFER CHECK CARD OTHER"`
	Reference   *string              `json:"reference" binding:"omitempty,max=100"`
}

// PaymentResult is the recorded payment with the invoice state after it.
type PaymentResult struct {
	Payment      domain.Payment        `json:"payment"`
	Invoice      InvoiceResponse       `json:"invoice"`
	JournalEntry *JournalEntryResponse `json:"journalEntry,omitempty"`
}

// ListPaymentsResponse wraps the payments of one invoice.
type ListPaymentsResponse struct {
	Payments []domain.Payment `json:"payments"`
}
