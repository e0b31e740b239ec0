package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ALANAK777/erp_finance_system/internal/apperrors"
	"github.com/ALANAK777/erp_finance_system/internal/core/domain"
	portsrepo "github.com/ALANAK777/erp_finance_system/internal/core/ports/repositories"
	portssvc "github.com/ALANAK777/erp_finance_system/internal/core/ports/services"
	"github.com/ALANAK777/erp_finance_system/internal/core/posting"
	"github.com/ALANAK777/erp_finance_system/internal/dto"
	"github.com/ALANAK777/erp_finance_system/internal/utils/numbering"
	"github.com/ALANAK777/erp_finance_system/internal/utils/pagination"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// invoiceService issues and cancels invoices. Every issuance and cancellation
// posts to the ledger in the same transaction as the invoice write.
type invoiceService struct {
	BaseService
	tx              portsrepo.TxRunner
	invoiceRepo     portsrepo.InvoiceRepositoryFacade
	projectRepo     portsrepo.ProjectReader
	sequenceRepo    portsrepo.SequenceRepository
	poster          portssvc.LedgerPoster
	rules           *posting.Rules
	defaultCurrency string
}

// InvoiceServiceOption is a functional option for configuring the invoice service
type InvoiceServiceOption func(*invoiceService)

// WithInvoiceProjectReader enables project link validation.
func WithInvoiceProjectReader(repo portsrepo.ProjectReader) InvoiceServiceOption {
	return func(s *invoiceService) {
		s.projectRepo = repo
	}
}

// WithInvoiceDefaultCurrency sets the currency used when a request omits one.
func WithInvoiceDefaultCurrency(code string) InvoiceServiceOption {
	return func(s *invoiceService) {
		s.defaultCurrency = code
	}
}

// WithInvoiceAuditSink sets the audit sink for the invoice service.
func WithInvoiceAuditSink(sink portssvc.AuditSink) InvoiceServiceOption {
	return func(s *invoiceService) {
		s.Audit = sink
	}
}

// NewInvoiceService creates a new invoice service.
func NewInvoiceService(
	tx portsrepo.TxRunner,
	invoiceRepo portsrepo.InvoiceRepositoryFacade,
	sequenceRepo portsrepo.SequenceRepository,
	poster portssvc.LedgerPoster,
	rules *posting.Rules,
	options ...InvoiceServiceOption,
) portssvc.InvoiceSvcFacade {
	svc := &invoiceService{
		tx:              tx,
		invoiceRepo:     invoiceRepo,
		sequenceRepo:    sequenceRepo,
		poster:          poster,
		rules:           rules,
		defaultCurrency: "USD",
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.InvoiceSvcFacade = (*invoiceService)(nil)

func (s *invoiceService) CreateInvoice(ctx context.Context, req dto.CreateInvoiceRequest, userID string) (*dto.InvoiceResult, error) {
	inv, err := s.buildInvoice(ctx, req, userID)
	if err != nil {
		return nil, err
	}

	var entry *domain.JournalEntry
	err = s.tx.WithinTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if inv.InvoiceNumber == "" {
			year := inv.IssueDate.Year()
			prefix := inv.InvoiceType.NumberPrefix()
			seq, err := s.sequenceRepo.NextSequenceInTx(ctx, tx, prefix, year)
			if err != nil {
				return fmt.Errorf("failed to allocate invoice number: %w", err)
			}
			inv.InvoiceNumber = numbering.Format(prefix, year, seq)
		}

		tmpl, err := s.rules.InvoiceIssued(*inv)
		if err != nil {
			return err
		}
		entry, err = s.poster.PostInTx(ctx, tx, tmpl, userID)
		if err != nil {
			return err
		}
		inv.JournalEntryID = &entry.EntryID

		return s.invoiceRepo.SaveInvoiceInTx(ctx, tx, *inv)
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("%w: invoice number %s already exists", apperrors.ErrDuplicate, inv.InvoiceNumber)
		}
		s.logWriteError(ctx, err, "Failed to create invoice", inv.InvoiceID)
		return nil, err
	}

	s.LogInfo(ctx, "Invoice issued",
		slog.String("invoice_id", inv.InvoiceID),
		slog.String("invoice_number", inv.InvoiceNumber),
		slog.String("entry_number", entry.EntryNumber))
	s.RecordAudit(ctx, domain.EntityInvoice, inv.InvoiceID, domain.AuditCreate, userID, map[string]any{
		"invoiceNumber":  inv.InvoiceNumber,
		"invoiceType":    string(inv.InvoiceType),
		"total":          inv.Total.String(),
		"journalEntryID": entry.EntryID,
	})

	entryRes := dto.ToJournalEntryResponse(entry)
	return &dto.InvoiceResult{Invoice: dto.ToInvoiceResponse(inv), JournalEntry: &entryRes}, nil
}

// buildInvoice validates the request and computes item amounts and totals.
func (s *invoiceService) buildInvoice(ctx context.Context, req dto.CreateInvoiceRequest, userID string) (*domain.Invoice, error) {
	if !req.InvoiceType.IsValid() {
		return nil, fmt.Errorf("%w: unknown invoice type '%s'", apperrors.ErrValidation, req.InvoiceType)
	}
	hasCustomer := req.CustomerID != nil && *req.CustomerID != ""
	hasVendor := req.VendorID != nil && *req.VendorID != ""
	switch {
	case req.InvoiceType == domain.Receivable && (!hasCustomer || hasVendor):
		return nil, fmt.Errorf("%w: a receivable invoice needs a customer and no vendor", apperrors.ErrValidation)
	case req.InvoiceType == domain.Payable && (!hasVendor || hasCustomer):
		return nil, fmt.Errorf("%w: a payable invoice needs a vendor and no customer", apperrors.ErrValidation)
	}
	if req.DueDate.Before(req.IssueDate) {
		return nil, fmt.Errorf("%w: due date is before issue date", apperrors.ErrValidation)
	}
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("%w: an invoice needs at least one item", apperrors.ErrValidation)
	}
	if req.Tax.IsNegative() || !domain.FitsAmountScale(req.Tax) {
		return nil, fmt.Errorf("%w: tax must be non-negative with at most %d decimal places", apperrors.ErrValidation, domain.AmountScale)
	}

	if req.ProjectID != nil && s.projectRepo != nil {
		if _, err := s.projectRepo.FindProjectByID(ctx, *req.ProjectID); err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()
	inv := &domain.Invoice{
		InvoiceID:     uuid.NewString(),
		InvoiceNumber: strings.TrimSpace(req.InvoiceNumber),
		InvoiceType:   req.InvoiceType,
		CustomerID:    req.CustomerID,
		VendorID:      req.VendorID,
		ProjectID:     req.ProjectID,
		IssueDate:     req.IssueDate,
		DueDate:       req.DueDate,
		Tax:           req.Tax,
		PaidAmount:    decimal.Zero,
		CurrencyCode:  req.CurrencyCode,
		Status:        domain.InvoiceSent,
		Notes:         req.Notes,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	if inv.CurrencyCode == "" {
		inv.CurrencyCode = s.defaultCurrency
	}

	subtotal := decimal.Zero
	inv.Items = make([]domain.InvoiceItem, len(req.Items))
	for i, item := range req.Items {
		if !item.Quantity.IsPositive() || item.UnitPrice.IsNegative() {
			return nil, fmt.Errorf("%w: item %d needs a positive quantity and a non-negative unit price", apperrors.ErrValidation, i+1)
		}
		if !domain.FitsAmountScale(item.Quantity) || !domain.FitsAmountScale(item.UnitPrice) {
			return nil, fmt.Errorf("%w: item %d has more than %d decimal places", apperrors.ErrValidation, i+1, domain.AmountScale)
		}
		amount := item.Quantity.Mul(item.UnitPrice).Round(2)
		inv.Items[i] = domain.InvoiceItem{
			ItemID:      uuid.NewString(),
			InvoiceID:   inv.InvoiceID,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Amount:      amount,
		}
		subtotal = subtotal.Add(amount)
	}
	inv.Subtotal = subtotal
	inv.Total = subtotal.Add(req.Tax)
	if !inv.Total.IsPositive() {
		return nil, fmt.Errorf("%w: invoice total must be positive", apperrors.ErrValidation)
	}
	return inv, nil
}

func (s *invoiceService) GetInvoice(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	inv, err := s.invoiceRepo.FindInvoiceByID(ctx, invoiceID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find invoice", slog.String("invoice_id", invoiceID))
		}
		return nil, err
	}
	return inv, nil
}

func (s *invoiceService) ListInvoices(ctx context.Context, params dto.ListInvoicesParams) ([]domain.Invoice, error) {
	limit := pagination.NormalizeLimit(params.Limit)
	invoices, err := s.invoiceRepo.ListInvoices(ctx, params.ToFilter(), limit, params.Offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list invoices")
		return nil, err
	}
	if invoices == nil {
		return []domain.Invoice{}, nil
	}
	return invoices, nil
}

// UpdateInvoiceStatus marks an invoice OVERDUE or moves it back to SENT.
// Payment-driven states (PARTIAL, PAID) are owned by the payment flow.
func (s *invoiceService) UpdateInvoiceStatus(ctx context.Context, invoiceID string, req dto.UpdateInvoiceStatusRequest, userID string) (*domain.Invoice, error) {
	var inv *domain.Invoice
	var previous domain.InvoiceStatus
	err := s.tx.WithinTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		var err error
		inv, err = s.invoiceRepo.FindInvoiceByIDForUpdate(ctx, tx, invoiceID)
		if err != nil {
			return err
		}
		previous = inv.Status

		switch req.Status {
		case domain.InvoiceOverdue:
			if inv.Status != domain.InvoiceSent && inv.Status != domain.InvoicePartial {
				return fmt.Errorf("%w: invoice %s is %s and cannot become OVERDUE", apperrors.ErrInvalidTransition, inv.InvoiceNumber, inv.Status)
			}
			inv.Status = domain.InvoiceOverdue
		case domain.InvoiceSent:
			if inv.Status != domain.InvoiceDraft && inv.Status != domain.InvoiceOverdue {
				return fmt.Errorf("%w: invoice %s is %s and cannot become SENT", apperrors.ErrInvalidTransition, inv.InvoiceNumber, inv.Status)
			}
			inv.Status = domain.DerivePaymentStatus(domain.InvoiceSent, inv.Total, inv.PaidAmount)
		default:
			return fmt.Errorf("%w: status %s cannot be set directly", apperrors.ErrValidation, req.Status)
		}

		inv.LastUpdatedAt = time.Now().UTC()
		inv.LastUpdatedBy = userID
		return s.invoiceRepo.UpdateInvoiceInTx(ctx, tx, *inv)
	})
	if err != nil {
		s.logWriteError(ctx, err, "Failed to update invoice status", invoiceID)
		return nil, err
	}

	s.LogInfo(ctx, "Invoice status updated", slog.String("invoice_id", invoiceID), slog.String("status", string(inv.Status)))
	s.RecordAudit(ctx, domain.EntityInvoice, invoiceID, domain.AuditUpdate, userID, map[string]any{
		"from": string(previous),
		"to":   string(inv.Status),
	})
	return inv, nil
}

// CancelInvoice cancels an invoice with no payments and reverses its issuance posting.
func (s *invoiceService) CancelInvoice(ctx context.Context, invoiceID string, req dto.CancelInvoiceRequest, userID string) (*dto.InvoiceResult, error) {
	var inv *domain.Invoice
	var entry *domain.JournalEntry
	err := s.tx.WithinTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		var err error
		inv, err = s.invoiceRepo.FindInvoiceByIDForUpdate(ctx, tx, invoiceID)
		if err != nil {
			return err
		}
		if inv.Status == domain.InvoiceCancelled {
			return fmt.Errorf("%w: invoice %s is already cancelled", apperrors.ErrInvalidTransition, inv.InvoiceNumber)
		}
		paid, err := s.invoiceRepo.SumPaymentsInTx(ctx, tx, invoiceID)
		if err != nil {
			return err
		}
		if paid.IsPositive() {
			return fmt.Errorf("%w: invoice %s has payments of %s", apperrors.ErrInvalidTransition, inv.InvoiceNumber, paid.StringFixed(2))
		}

		now := time.Now().UTC()
		if inv.JournalEntryID != nil {
			tmpl, err := s.rules.InvoiceCancelled(*inv, now)
			if err != nil {
				return err
			}
			if reason := strings.TrimSpace(req.Reason); reason != "" {
				tmpl.Description = tmpl.Description + ": " + reason
			}
			entry, err = s.poster.PostInTx(ctx, tx, tmpl, userID)
			if err != nil {
				return err
			}
		}

		inv.Status = domain.InvoiceCancelled
		inv.LastUpdatedAt = now
		inv.LastUpdatedBy = userID
		return s.invoiceRepo.UpdateInvoiceInTx(ctx, tx, *inv)
	})
	if err != nil {
		s.logWriteError(ctx, err, "Failed to cancel invoice", invoiceID)
		return nil, err
	}

	payload := map[string]any{"reason": req.Reason}
	result := &dto.InvoiceResult{Invoice: dto.ToInvoiceResponse(inv)}
	if entry != nil {
		entryRes := dto.ToJournalEntryResponse(entry)
		result.JournalEntry = &entryRes
		payload["reversalEntryID"] = entry.EntryID
	}
	s.LogInfo(ctx, "Invoice cancelled", slog.String("invoice_id", invoiceID))
	s.RecordAudit(ctx, domain.EntityInvoice, invoiceID, domain.AuditCancel, userID, payload)
	return result, nil
}

func (s *invoiceService) logWriteError(ctx context.Context, err error, msg, invoiceID string) {
	if errors.Is(err, apperrors.ErrValidation) || errors.Is(err, apperrors.ErrNotFound) || errors.Is(err, apperrors.ErrInvalidTransition) {
		s.LogDebug(ctx, msg, slog.String("invoice_id", invoiceID), slog.String("reason", err.Error()))
		return
	}
	s.LogError(ctx, err, msg, slog.String("invoice_id", invoiceID))
}
