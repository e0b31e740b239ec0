package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ALANAK777/erp_finance_system/internal/apperrors"
	"github.com/ALANAK777/erp_finance_system/internal/core/domain"
	portsrepo "github.com/ALANAK777/erp_finance_system/internal/core/ports/repositories"
	portssvc "github.com/ALANAK777/erp_finance_system/internal/core/ports/services"
	"github.com/ALANAK777/erp_finance_system/internal/core/posting"
	"github.com/ALANAK777/erp_finance_system/internal/dto"
	"github.com/ALANAK777/erp_finance_system/internal/utils/numbering"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// paymentService records payments against invoices.
type paymentService struct {
	BaseService
	tx           portsrepo.TxRunner
	invoiceRepo  portsrepo.InvoiceRepositoryFacade
	cashFlowRepo portsrepo.CashFlowRepository
	sequenceRepo portsrepo.SequenceRepository
	poster       portssvc.LedgerPoster
	rules        *posting.Rules
}

// PaymentServiceOption is a functional option for configuring the payment service
type PaymentServiceOption func(*paymentService)

// WithPaymentAuditSink sets the audit sink for the payment service.
func WithPaymentAuditSink(sink portssvc.AuditSink) PaymentServiceOption {
	return func(s *paymentService) {
		s.Audit = sink
	}
}

// NewPaymentService creates a new payment service.
func NewPaymentService(
	tx portsrepo.TxRunner,
	invoiceRepo portsrepo.InvoiceRepositoryFacade,
	cashFlowRepo portsrepo.CashFlowRepository,
	sequenceRepo portsrepo.SequenceRepository,
	poster portssvc.LedgerPoster,
	rules *posting.Rules,
	options ...PaymentServiceOption,
) portssvc.PaymentSvc {
	svc := &paymentService{
		tx:           tx,
		invoiceRepo:  invoiceRepo,
		cashFlowRepo: cashFlowRepo,
		sequenceRepo: sequenceRepo,
		poster:       poster,
		rules:        rules,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.PaymentSvc = (*paymentService)(nil)

// RecordPayment locks the invoice, checks the payment against what is still
// outstanding and then writes the payment, its ledger entry, the new invoice
// status and an operating cash-flow record in one transaction.
func (s *paymentService) RecordPayment(ctx context.Context, invoiceID string, req dto.CreatePaymentRequest, userID string) (*dto.PaymentResult, error) {
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: payment amount must be positive", apperrors.ErrValidation)
	}
	if !domain.FitsAmountScale(req.Amount) {
		return nil, fmt.Errorf("%w: payment amount has more than %d decimal places", apperrors.ErrValidation, domain.AmountScale)
	}

	var (
		inv      *domain.Invoice
		payment  domain.Payment
		entry    *domain.JournalEntry
		previous domain.InvoiceStatus
	)
	err := s.tx.WithinTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		var err error
		inv, err = s.invoiceRepo.FindInvoiceByIDForUpdate(ctx, tx, invoiceID)
		if err != nil {
			return err
		}
		previous = inv.Status
		if !inv.Status.AcceptsPayments() {
			return fmt.Errorf("%w: invoice %s is %s and accepts no further payments", apperrors.ErrInvalidTransition, inv.InvoiceNumber, inv.Status)
		}

		paid, err := s.invoiceRepo.SumPaymentsInTx(ctx, tx, invoiceID)
		if err != nil {
			return err
		}
		newPaid := paid.Add(req.Amount)
		if newPaid.GreaterThan(inv.Total) {
			return fmt.Errorf("%w: payment of %s exceeds the outstanding %s on invoice %s",
				apperrors.ErrInvalidTransition, req.Amount.StringFixed(2), inv.Total.Sub(paid).StringFixed(2), inv.InvoiceNumber)
		}

		now := time.Now().UTC()
		year := req.PaymentDate.Year()
		seq, err := s.sequenceRepo.NextSequenceInTx(ctx, tx, domain.PaymentNumberPrefix, year)
		if err != nil {
			return fmt.Errorf("failed to allocate payment number: %w", err)
		}
		payment = domain.Payment{
			PaymentID:     uuid.NewString(),
			PaymentNumber: numbering.Format(domain.PaymentNumberPrefix, year, seq),
			InvoiceID:     inv.InvoiceID,
			Amount:        req.Amount,
			PaymentDate:   req.PaymentDate,
			Method:        req.Method,
			Reference:     req.Reference,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     userID,
				LastUpdatedAt: now,
				LastUpdatedBy: userID,
			},
		}

		tmpl, err := s.rules.PaymentRecorded(*inv, payment)
		if err != nil {
			return err
		}
		entry, err = s.poster.PostInTx(ctx, tx, tmpl, userID)
		if err != nil {
			return err
		}
		payment.JournalEntryID = &entry.EntryID
		if err := s.invoiceRepo.SavePaymentInTx(ctx, tx, payment); err != nil {
			return err
		}

		inv.PaidAmount = newPaid
		inv.Status = domain.DerivePaymentStatus(inv.Status, inv.Total, newPaid)
		inv.LastUpdatedAt = now
		inv.LastUpdatedBy = userID
		if err := s.invoiceRepo.UpdateInvoiceInTx(ctx, tx, *inv); err != nil {
			return err
		}

		flow := domain.CashFlowRecord{
			CashFlowID:  uuid.NewString(),
			FlowDate:    payment.PaymentDate,
			FlowType:    domain.CashInflow,
			Category:    domain.CashFlowOperating,
			Amount:      payment.Amount,
			Description: fmt.Sprintf("Payment %s on %s", payment.PaymentNumber, inv.InvoiceNumber),
			PaymentID:   &payment.PaymentID,
			ProjectID:   inv.ProjectID,
			CreatedAt:   now,
			CreatedBy:   userID,
		}
		if inv.InvoiceType == domain.Payable {
			flow.FlowType = domain.CashOutflow
		}
		return s.cashFlowRepo.SaveCashFlowInTx(ctx, tx, flow)
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidTransition) || errors.Is(err, apperrors.ErrNotFound) {
			s.LogDebug(ctx, "Payment refused", slog.String("invoice_id", invoiceID), slog.String("reason", err.Error()))
		} else {
			s.LogError(ctx, err, "Failed to record payment", slog.String("invoice_id", invoiceID))
		}
		return nil, err
	}

	s.LogInfo(ctx, "Payment recorded",
		slog.String("payment_id", payment.PaymentID),
		slog.String("invoice_id", invoiceID),
		slog.String("invoice_status", string(inv.Status)))
	s.RecordAudit(ctx, domain.EntityPayment, payment.PaymentID, domain.AuditCreate, userID, map[string]any{
		"paymentNumber":  payment.PaymentNumber,
		"invoiceID":      invoiceID,
		"amount":         payment.Amount.String(),
		"journalEntryID": entry.EntryID,
	})
	if previous != inv.Status {
		s.RecordAudit(ctx, domain.EntityInvoice, invoiceID, domain.AuditUpdate, userID, map[string]any{
			"from": string(previous),
			"to":   string(inv.Status),
		})
	}

	entryRes := dto.ToJournalEntryResponse(entry)
	return &dto.PaymentResult{
		Payment:      payment,
		Invoice:      dto.ToInvoiceResponse(inv),
		JournalEntry: &entryRes,
	}, nil
}

func (s *paymentService) ListPayments(ctx context.Context, invoiceID string) ([]domain.Payment, error) {
	if _, err := s.invoiceRepo.FindInvoiceByID(ctx, invoiceID); err != nil {
		return nil, err
	}
	payments, err := s.invoiceRepo.ListPaymentsByInvoice(ctx, invoiceID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list payments", slog.String("invoice_id", invoiceID))
		return nil, err
	}
	if payments == nil {
		return []domain.Payment{}, nil
	}
	return payments, nil
}
