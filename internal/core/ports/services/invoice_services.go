package services

import (
	"context"

	"github.com/ALANAK777/erp_finance_system/internal/core/domain"
	"github.com/ALANAK777/erp_finance_system/internal/dto"
)

// InvoiceReaderSvc defines read operations for invoices
type InvoiceReaderSvc interface {
	GetInvoice(ctx context.Context, invoiceID string) (*domain.Invoice, error)
	ListInvoices(ctx context.Context, params dto.ListInvoicesParams) ([]domain.Invoice, error)
}

// InvoiceWriterSvc defines invoice operations that may post to the ledger
type InvoiceWriterSvc interface {
	// CreateInvoice stores the invoice and posts its issuance entry atomically.
	CreateInvoice(ctx context.Context, req dto.CreateInvoiceRequest, userID string) (*dto.InvoiceResult, error)

	// UpdateInvoiceStatus moves an invoice between SENT and OVERDUE.
	UpdateInvoiceStatus(ctx context.Context, invoiceID string, req dto.UpdateInvoiceStatusRequest, userID string) (*domain.Invoice, error)

	// CancelInvoice cancels an unpaid invoice and posts a reversing entry.
	CancelInvoice(ctx context.Context, invoiceID string, req dto.CancelInvoiceRequest, userID string) (*dto.InvoiceResult, error)
}

// InvoiceSvcFacade combines all invoice-related service interfaces
type InvoiceSvcFacade interface {
	InvoiceReaderSvc
	InvoiceWriterSvc
}

// PaymentSvc records payments against invoices
type PaymentSvc interface {
	// RecordPayment stores the payment, advances the invoice status, posts the
	// cash entry and appends a cash-flow record in one transaction.
	RecordPayment(ctx context.Context, invoiceID string, req dto.CreatePaymentRequest, userID string) (*dto.PaymentResult, error)

	// ListPayments returns the payments of an invoice, oldest first.
	ListPayments(ctx context.Context, invoiceID string) ([]domain.Payment, error)
}
