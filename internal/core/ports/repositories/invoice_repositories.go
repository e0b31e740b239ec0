package repositories

import (
	"context"

	"github.com/ALANAK777/erp_finance_system/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// InvoiceReader defines read operations for invoices and their payments
type InvoiceReader interface {
	// FindInvoiceByID retrieves an invoice with its items
	FindInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error)

	// ListInvoices retrieves invoices (without items), newest issue date first
	ListInvoices(ctx context.Context, filter domain.InvoiceFilter, limit int, offset int) ([]domain.Invoice, error)

	// ListPaymentsByInvoice retrieves the payments recorded against an invoice, oldest first
	ListPaymentsByInvoice(ctx context.Context, invoiceID string) ([]domain.Payment, error)
}

// InvoiceWriter defines transactional write operations for invoices and payments
type InvoiceWriter interface {
	// SaveInvoiceInTx inserts an invoice and its items
	SaveInvoiceInTx(ctx context.Context, tx pgx.Tx, invoice domain.Invoice) error

	// FindInvoiceByIDForUpdate locks the invoice row and returns it with its items
	FindInvoiceByIDForUpdate(ctx context.Context, tx pgx.Tx, invoiceID string) (*domain.Invoice, error)

	// UpdateInvoiceInTx persists status, paid amount and journal linkage
	UpdateInvoiceInTx(ctx context.Context, tx pgx.Tx, invoice domain.Invoice) error

	// SavePaymentInTx inserts a payment
	SavePaymentInTx(ctx context.Context, tx pgx.Tx, payment domain.Payment) error

	// SumPaymentsInTx returns the cumulative amount paid against an invoice
	SumPaymentsInTx(ctx context.Context, tx pgx.Tx, invoiceID string) (decimal.Decimal, error)
}

// InvoiceRepositoryFacade combines all invoice-related repository interfaces
type InvoiceRepositoryFacade interface {
	InvoiceReader
	InvoiceWriter
}
