package pgsql

import (
	"context"
	"fmt"
	"strings"

	"github.com/ALANAK777/erp_finance_system/internal/apperrors"
	"github.com/ALANAK777/erp_finance_system/internal/core/domain"
	portsrepo "github.com/ALANAK777/erp_finance_system/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const invoiceColumns = `invoice_id, invoice_number, invoice_type, customer_id, vendor_id, project_id,
	issue_date, due_date, subtotal, tax, total, paid_amount, currency_code, status, notes, journal_entry_id,
	created_at, created_by, last_updated_at, last_updated_by`

const paymentColumns = `payment_id, payment_number, invoice_id, amount, payment_date, method, reference,
	journal_entry_id, created_at, created_by, last_updated_at, last_updated_by`

// PgxInvoiceRepository stores invoices, their items and payments.
type PgxInvoiceRepository struct {
	BaseRepository
}

func newPgxInvoiceRepository(pool *pgxpool.Pool) *PgxInvoiceRepository {
	return &PgxInvoiceRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.InvoiceRepositoryFacade = (*PgxInvoiceRepository)(nil)

func scanInvoice(row pgx.Row) (domain.Invoice, error) {
	var inv domain.Invoice
	var invoiceType, status string
	err := row.Scan(
		&inv.InvoiceID,
		&inv.InvoiceNumber,
		&invoiceType,
		&inv.CustomerID,
		&inv.VendorID,
		&inv.ProjectID,
		&inv.IssueDate,
		&inv.DueDate,
		&inv.Subtotal,
		&inv.Tax,
		&inv.Total,
		&inv.PaidAmount,
		&inv.CurrencyCode,
		&status,
		&inv.Notes,
		&inv.JournalEntryID,
		&inv.CreatedAt,
		&inv.CreatedBy,
		&inv.LastUpdatedAt,
		&inv.LastUpdatedBy,
	)
	inv.InvoiceType = domain.InvoiceType(invoiceType)
	inv.Status = domain.InvoiceStatus(status)
	return inv, err
}

func (r *PgxInvoiceRepository) findItems(ctx context.Context, q querier, invoiceID string) ([]domain.InvoiceItem, error) {
	query := `
		SELECT item_id, invoice_id, description, quantity, unit_price, amount
		FROM invoice_items WHERE invoice_id = $1 ORDER BY position;
	`
	rows, err := q.Query(ctx, query, invoiceID)
	if err != nil {
		return nil, translateError(err, "query items of invoice "+invoiceID)
	}
	defer rows.Close()

	items := make([]domain.InvoiceItem, 0)
	for rows.Next() {
		var item domain.InvoiceItem
		if err := rows.Scan(&item.ItemID, &item.InvoiceID, &item.Description, &item.Quantity, &item.UnitPrice, &item.Amount); err != nil {
			return nil, translateError(err, "scan invoice item")
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(err, "iterate invoice items")
	}
	return items, nil
}

func (r *PgxInvoiceRepository) findInvoice(ctx context.Context, q querier, invoiceID string, forUpdate bool) (*domain.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE invoice_id = $1`
	if forUpdate {
		query += " FOR UPDATE"
	}
	inv, err := scanInvoice(q.QueryRow(ctx, query, invoiceID))
	if err != nil {
		return nil, translateError(err, "invoice "+invoiceID)
	}
	items, err := r.findItems(ctx, q, invoiceID)
	if err != nil {
		return nil, err
	}
	inv.Items = items
	return &inv, nil
}

// FindInvoiceByID retrieves an invoice with its items.
func (r *PgxInvoiceRepository) FindInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	return r.findInvoice(ctx, r.Pool, invoiceID, false)
}

// FindInvoiceByIDForUpdate locks the invoice row and returns it with its items.
func (r *PgxInvoiceRepository) FindInvoiceByIDForUpdate(ctx context.Context, tx pgx.Tx, invoiceID string) (*domain.Invoice, error) {
	return r.findInvoice(ctx, tx, invoiceID, true)
}

// ListInvoices retrieves invoices without items, newest issue date first.
func (r *PgxInvoiceRepository) ListInvoices(ctx context.Context, filter domain.InvoiceFilter, limit int, offset int) ([]domain.Invoice, error) {
	conditions := make([]string, 0, 3)
	args := make([]any, 0, 5)
	if filter.InvoiceType != nil {
		args = append(args, string(*filter.InvoiceType))
		conditions = append(conditions, fmt.Sprintf("invoice_type = $%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.ProjectID != nil {
		args = append(args, *filter.ProjectID)
		conditions = append(conditions, fmt.Sprintf("project_id = $%d", len(args)))
	}

	query := `SELECT ` + invoiceColumns + ` FROM invoices`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	args = append(args, limit, offset)
	query += fmt.Sprintf(" ORDER BY issue_date DESC, invoice_number DESC LIMIT $%d OFFSET $%d;", len(args)-1, len(args))

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, translateError(err, "list invoices")
	}
	defer rows.Close()

	invoices := make([]domain.Invoice, 0)
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, translateError(err, "scan invoice")
		}
		invoices = append(invoices, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(err, "iterate invoices")
	}
	return invoices, nil
}

// SaveInvoiceInTx inserts the invoice header and batches the item inserts.
func (r *PgxInvoiceRepository) SaveInvoiceInTx(ctx context.Context, tx pgx.Tx, invoice domain.Invoice) error {
	query := `
		INSERT INTO invoices (` + invoiceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20);
	`
	_, err := tx.Exec(ctx, query,
		invoice.InvoiceID,
		invoice.InvoiceNumber,
		string(invoice.InvoiceType),
		invoice.CustomerID,
		invoice.VendorID,
		invoice.ProjectID,
		invoice.IssueDate,
		invoice.DueDate,
		invoice.Subtotal,
		invoice.Tax,
		invoice.Total,
		invoice.PaidAmount,
		invoice.CurrencyCode,
		string(invoice.Status),
		invoice.Notes,
		invoice.JournalEntryID,
		invoice.CreatedAt,
		invoice.CreatedBy,
		invoice.LastUpdatedAt,
		invoice.LastUpdatedBy,
	)
	if err != nil {
		return translateError(err, "insert invoice "+invoice.InvoiceNumber)
	}

	if len(invoice.Items) == 0 {
		return nil
	}
	itemQuery := `
		INSERT INTO invoice_items (item_id, invoice_id, position, description, quantity, unit_price, amount)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	batch := &pgx.Batch{}
	for i, item := range invoice.Items {
		batch.Queue(itemQuery, item.ItemID, invoice.InvoiceID, i+1, item.Description, item.Quantity, item.UnitPrice, item.Amount)
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return translateError(err, "insert items of invoice "+invoice.InvoiceNumber)
	}
	return nil
}

// UpdateInvoiceInTx persists status, paid amount and journal linkage.
func (r *PgxInvoiceRepository) UpdateInvoiceInTx(ctx context.Context, tx pgx.Tx, invoice domain.Invoice) error {
	query := `
		UPDATE invoices
		SET status = $2, paid_amount = $3, journal_entry_id = $4, notes = $5,
		    last_updated_at = $6, last_updated_by = $7
		WHERE invoice_id = $1;
	`
	cmdTag, err := tx.Exec(ctx, query,
		invoice.InvoiceID,
		string(invoice.Status),
		invoice.PaidAmount,
		invoice.JournalEntryID,
		invoice.Notes,
		invoice.LastUpdatedAt,
		invoice.LastUpdatedBy,
	)
	if err != nil {
		return translateError(err, "update invoice "+invoice.InvoiceID)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: invoice %s", apperrors.ErrNotFound, invoice.InvoiceID)
	}
	return nil
}

// SavePaymentInTx inserts a payment.
func (r *PgxInvoiceRepository) SavePaymentInTx(ctx context.Context, tx pgx.Tx, payment domain.Payment) error {
	query := `
		INSERT INTO payments (` + paymentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := tx.Exec(ctx, query,
		payment.PaymentID,
		payment.PaymentNumber,
		payment.InvoiceID,
		payment.Amount,
		payment.PaymentDate,
		string(payment.Method),
		payment.Reference,
		payment.JournalEntryID,
		payment.CreatedAt,
		payment.CreatedBy,
		payment.LastUpdatedAt,
		payment.LastUpdatedBy,
	)
	if err != nil {
		return translateError(err, "insert payment "+payment.PaymentNumber)
	}
	return nil
}

// SumPaymentsInTx returns the cumulative amount paid against an invoice.
func (r *PgxInvoiceRepository) SumPaymentsInTx(ctx context.Context, tx pgx.Tx, invoiceID string) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := tx.QueryRow(ctx, `SELECT COALESCE(SUM(amount), 0) FROM payments WHERE invoice_id = $1;`, invoiceID).Scan(&total)
	if err != nil {
		return decimal.Zero, translateError(err, "sum payments of invoice "+invoiceID)
	}
	return total, nil
}

// ListPaymentsByInvoice retrieves payments recorded against an invoice, oldest first.
func (r *PgxInvoiceRepository) ListPaymentsByInvoice(ctx context.Context, invoiceID string) ([]domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE invoice_id = $1 ORDER BY created_at, payment_number;`
	rows, err := r.Pool.Query(ctx, query, invoiceID)
	if err != nil {
		return nil, translateError(err, "list payments of invoice "+invoiceID)
	}
	defer rows.Close()

	payments := make([]domain.Payment, 0)
	for rows.Next() {
		var p domain.Payment
		var method string
		if err := rows.Scan(
			&p.PaymentID,
			&p.PaymentNumber,
			&p.InvoiceID,
			&p.Amount,
			&p.PaymentDate,
			&method,
			&p.Reference,
			&p.JournalEntryID,
			&p.CreatedAt,
			&p.CreatedBy,
			&p.LastUpdatedAt,
			&p.LastUpdatedBy,
		); err != nil {
			return nil, translateError(err, "scan payment")
		}
		p.Method = domain.PaymentMethod(method)
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(err, "iterate payments")
	}
	return payments, nil
}
