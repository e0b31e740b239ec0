package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/ALANAK777/erp_finance_system/internal/apperrors"
	"github.com/ALANAK777/erp_finance_system/internal/core/domain"
	portsrepo "github.com/ALANAK777/erp_finance_system/internal/core/ports/repositories"
	portssvc "github.com/ALANAK777/erp_finance_system/internal/core/ports/services"
	"github.com/ALANAK777/erp_finance_system/internal/dto"
	"github.com/ALANAK777/erp_finance_system/internal/utils/accounting"
	"github.com/ALANAK777/erp_finance_system/internal/utils/numbering"
	"github.com/ALANAK777/erp_finance_system/internal/utils/pagination"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/oklog/ulid/v2"
)

// journalService validates, numbers and posts journal entries.
type journalService struct {
	BaseService
	tx           portsrepo.TxRunner
	journalRepo  portsrepo.JournalRepositoryFacade
	accountRepo  portsrepo.AccountRepositoryFacade
	sequenceRepo portsrepo.SequenceRepository
}

// JournalServiceOption is a functional option for configuring the journal service
type JournalServiceOption func(*journalService)

// WithJournalAuditSink sets the audit sink for the journal service.
func WithJournalAuditSink(sink portssvc.AuditSink) JournalServiceOption {
	return func(s *journalService) {
		s.Audit = sink
	}
}

// NewJournalService creates a new JournalService.
func NewJournalService(
	tx portsrepo.TxRunner,
	journalRepo portsrepo.JournalRepositoryFacade,
	accountRepo portsrepo.AccountRepositoryFacade,
	sequenceRepo portsrepo.SequenceRepository,
	options ...JournalServiceOption,
) portssvc.JournalSvcFacade {
	svc := &journalService{
		tx:           tx,
		journalRepo:  journalRepo,
		accountRepo:  accountRepo,
		sequenceRepo: sequenceRepo,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

// Ensure journalService implements the portssvc.JournalSvcFacade interface
var _ portssvc.JournalSvcFacade = (*journalService)(nil)

// CreateEntry validates a manual entry and persists it as DRAFT, or as
// APPROVED with balances applied when req.AutoApprove is set.
func (s *journalService) CreateEntry(ctx context.Context, req dto.CreateJournalEntryRequest, userID string) (*domain.JournalEntry, error) {
	description := strings.TrimSpace(req.Description)
	if description == "" {
		return nil, fmt.Errorf("%w: description is required", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	entry := domain.JournalEntry{
		EntryID:     uuid.NewString(),
		EntryDate:   req.EntryDate,
		Description: description,
		SourceType:  domain.SourceManual,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	entry.Lines = make([]domain.JournalLine, len(req.Lines))
	for i, l := range req.Lines {
		entry.Lines[i] = domain.JournalLine{
			LineID:      uuid.NewString(),
			EntryID:     entry.EntryID,
			LineNumber:  i + 1,
			AccountID:   l.AccountID,
			Debit:       l.Debit,
			Credit:      l.Credit,
			Description: l.Description,
			CreatedAt:   now,
		}
	}

	// Balance and shape are checked before anything touches the database.
	if err := accounting.ValidateLines(entry.Lines); err != nil {
		s.LogDebug(ctx, "Rejected journal entry", slog.String("reason", err.Error()))
		return nil, err
	}
	entry.TotalAmount, _ = accounting.Totals(entry.Lines)

	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, lineAccountIDs(entry.Lines))
	if err != nil {
		s.LogError(ctx, err, "Failed to load accounts for journal entry")
		return nil, err
	}
	for _, line := range entry.Lines {
		acc, ok := accounts[line.AccountID]
		if !ok {
			return nil, fmt.Errorf("%w: account %s referenced by line %d", apperrors.ErrNotFound, line.AccountID, line.LineNumber)
		}
		if !acc.IsActive {
			return nil, fmt.Errorf("%w: account %s is inactive", apperrors.ErrValidation, acc.Code)
		}
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		return s.createInTx(ctx, tx, &entry, req.AutoApprove, userID)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to create journal entry", slog.String("entry_id", entry.EntryID))
		return nil, err
	}

	s.LogInfo(ctx, "Journal entry created",
		slog.String("entry_id", entry.EntryID),
		slog.String("entry_number", entry.EntryNumber),
		slog.String("status", string(entry.Status)))
	s.RecordAudit(ctx, domain.EntityJournalEntry, entry.EntryID, domain.AuditCreate, userID, map[string]any{
		"entryNumber": entry.EntryNumber,
		"status":      string(entry.Status),
		"totalAmount": entry.TotalAmount.String(),
	})
	return &entry, nil
}

// PostInTx resolves a posting template against the chart of accounts and
// stores it as an auto-approved entry inside the caller's transaction.
func (s *journalService) PostInTx(ctx context.Context, tx pgx.Tx, tmpl domain.PostingTemplate, userID string) (*domain.JournalEntry, error) {
	codes := make([]string, 0, len(tmpl.Lines))
	for _, l := range tmpl.Lines {
		codes = append(codes, l.AccountCode)
	}
	byCode, err := s.accountRepo.FindAccountsByCodes(ctx, codes)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	entry := domain.JournalEntry{
		EntryID:     uuid.NewString(),
		EntryDate:   tmpl.EntryDate,
		Description: tmpl.Description,
		SourceType:  tmpl.SourceType,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	if tmpl.SourceID != "" {
		sourceID := tmpl.SourceID
		entry.SourceID = &sourceID
	}

	entry.Lines = make([]domain.JournalLine, len(tmpl.Lines))
	for i, l := range tmpl.Lines {
		acc, ok := byCode[l.AccountCode]
		if !ok {
			return nil, fmt.Errorf("%w: posting account %s is not in the chart of accounts", apperrors.ErrMissingConfiguration, l.AccountCode)
		}
		if !acc.IsActive {
			return nil, fmt.Errorf("%w: posting account %s is inactive", apperrors.ErrMissingConfiguration, l.AccountCode)
		}
		entry.Lines[i] = domain.JournalLine{
			LineID:      uuid.NewString(),
			EntryID:     entry.EntryID,
			LineNumber:  i + 1,
			AccountID:   acc.AccountID,
			Debit:       l.Debit,
			Credit:      l.Credit,
			Description: l.Description,
			CreatedAt:   now,
		}
	}
	if err := accounting.ValidateLines(entry.Lines); err != nil {
		return nil, err
	}
	entry.TotalAmount, _ = accounting.Totals(entry.Lines)

	if err := s.createInTx(ctx, tx, &entry, true, userID); err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "System posting recorded",
		slog.String("entry_id", entry.EntryID),
		slog.String("entry_number", entry.EntryNumber),
		slog.String("source_type", string(entry.SourceType)),
		slog.String("source_id", tmpl.SourceID))
	return &entry, nil
}

// SubmitEntry moves a DRAFT entry to PENDING review.
func (s *journalService) SubmitEntry(ctx context.Context, entryID string, userID string) (*domain.JournalEntry, error) {
	var entry *domain.JournalEntry
	err := s.tx.WithinTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		var err error
		entry, err = s.journalRepo.FindEntryByIDForUpdate(ctx, tx, entryID)
		if err != nil {
			return err
		}
		if entry.Status != domain.JournalDraft {
			return fmt.Errorf("%w: entry %s is %s, only DRAFT entries can be submitted",
				apperrors.ErrInvalidTransition, entry.EntryNumber, entry.Status)
		}
		entry.Status = domain.JournalPending
		entry.LastUpdatedAt = time.Now().UTC()
		entry.LastUpdatedBy = userID
		return s.journalRepo.UpdateEntryStatusInTx(ctx, tx, *entry)
	})
	if err != nil {
		s.logTransitionError(ctx, err, "submit", entryID)
		return nil, err
	}

	s.LogInfo(ctx, "Journal entry submitted", slog.String("entry_id", entryID))
	s.RecordAudit(ctx, domain.EntityJournalEntry, entryID, domain.AuditSubmit, userID, nil)
	return entry, nil
}

// ApproveEntry applies the entry's lines to account balances exactly once.
// The entry row is locked for the whole transaction, so a concurrent second
// approval observes the terminal status and fails without touching balances.
func (s *journalService) ApproveEntry(ctx context.Context, entryID string, userID string) (*domain.JournalEntry, error) {
	var entry *domain.JournalEntry
	err := s.tx.WithinTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		var err error
		entry, err = s.journalRepo.FindEntryByIDForUpdate(ctx, tx, entryID)
		if err != nil {
			return err
		}
		if !entry.Status.CanTransitionTo(domain.JournalApproved) {
			return fmt.Errorf("%w: entry %s is already %s", apperrors.ErrInvalidTransition, entry.EntryNumber, entry.Status)
		}

		now := time.Now().UTC()
		entry.Status = domain.JournalApproved
		entry.ApprovedAt = &now
		entry.ApprovedBy = &userID
		entry.LastUpdatedAt = now
		entry.LastUpdatedBy = userID
		if err := s.journalRepo.UpdateEntryStatusInTx(ctx, tx, *entry); err != nil {
			return err
		}
		return s.applyBalancesInTx(ctx, tx, entry, userID, now)
	})
	if err != nil {
		s.logTransitionError(ctx, err, "approve", entryID)
		return nil, err
	}

	s.LogInfo(ctx, "Journal entry approved", slog.String("entry_id", entryID), slog.String("entry_number", entry.EntryNumber))
	s.RecordAudit(ctx, domain.EntityJournalEntry, entryID, domain.AuditApprove, userID, map[string]any{
		"entryNumber": entry.EntryNumber,
		"totalAmount": entry.TotalAmount.String(),
	})
	return entry, nil
}

// RejectEntry marks a non-terminal entry REJECTED. Balances are not touched.
func (s *journalService) RejectEntry(ctx context.Context, entryID string, reason string, userID string) (*domain.JournalEntry, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, fmt.Errorf("%w: rejection reason is required", apperrors.ErrValidation)
	}

	var entry *domain.JournalEntry
	err := s.tx.WithinTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		var err error
		entry, err = s.journalRepo.FindEntryByIDForUpdate(ctx, tx, entryID)
		if err != nil {
			return err
		}
		if !entry.Status.CanTransitionTo(domain.JournalRejected) {
			return fmt.Errorf("%w: entry %s is already %s", apperrors.ErrInvalidTransition, entry.EntryNumber, entry.Status)
		}

		now := time.Now().UTC()
		entry.Status = domain.JournalRejected
		entry.RejectedAt = &now
		entry.RejectionReason = &reason
		entry.LastUpdatedAt = now
		entry.LastUpdatedBy = userID
		return s.journalRepo.UpdateEntryStatusInTx(ctx, tx, *entry)
	})
	if err != nil {
		s.logTransitionError(ctx, err, "reject", entryID)
		return nil, err
	}

	s.LogInfo(ctx, "Journal entry rejected", slog.String("entry_id", entryID))
	s.RecordAudit(ctx, domain.EntityJournalEntry, entryID, domain.AuditReject, userID, map[string]any{"reason": reason})
	return entry, nil
}

// GetEntry retrieves a journal entry with its lines.
func (s *journalService) GetEntry(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	entry, err := s.journalRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find journal entry", slog.String("entry_id", entryID))
		}
		return nil, err
	}
	return entry, nil
}

// ListEntries retrieves a page of journal entries, newest first.
func (s *journalService) ListEntries(ctx context.Context, params dto.ListJournalEntriesParams) (*dto.ListJournalEntriesResponse, error) {
	limit := pagination.NormalizeLimit(params.Limit)
	entries, nextToken, err := s.journalRepo.ListEntries(ctx, params.ToFilter(), limit, params.NextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list journal entries", slog.Int("limit", limit))
		return nil, err
	}

	res := &dto.ListJournalEntriesResponse{
		Entries:   make([]dto.JournalEntryResponse, len(entries)),
		NextToken: nextToken,
	}
	for i := range entries {
		res.Entries[i] = dto.ToJournalEntryResponse(&entries[i])
	}
	return res, nil
}

// ListPostingsByAccount retrieves the balance history of one account.
func (s *journalService) ListPostingsByAccount(ctx context.Context, accountID string, params dto.ListPostingsParams) (*dto.ListPostingsResponse, error) {
	if _, err := s.accountRepo.FindAccountByID(ctx, accountID); err != nil {
		return nil, err
	}

	limit := pagination.NormalizeLimit(params.Limit)
	postings, nextToken, err := s.journalRepo.ListPostingsByAccount(ctx, accountID, limit, params.NextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list postings", slog.String("account_id", accountID))
		return nil, err
	}
	if postings == nil {
		postings = []domain.LedgerPosting{}
	}
	return &dto.ListPostingsResponse{Postings: postings, NextToken: nextToken}, nil
}

// createInTx numbers and stores a validated entry. Auto-approved entries get
// their balances applied before the transaction commits.
func (s *journalService) createInTx(ctx context.Context, tx pgx.Tx, entry *domain.JournalEntry, autoApprove bool, userID string) error {
	year := entry.EntryDate.Year()
	seq, err := s.sequenceRepo.NextSequenceInTx(ctx, tx, domain.EntryNumberPrefix, year)
	if err != nil {
		return fmt.Errorf("failed to allocate entry number: %w", err)
	}
	entry.EntryNumber = numbering.Format(domain.EntryNumberPrefix, year, seq)

	entry.Status = domain.JournalDraft
	if autoApprove {
		approvedAt := entry.CreatedAt
		entry.Status = domain.JournalApproved
		entry.ApprovedAt = &approvedAt
		entry.ApprovedBy = &userID
	}

	if err := s.journalRepo.SaveEntryInTx(ctx, tx, *entry); err != nil {
		return err
	}
	if autoApprove {
		return s.applyBalancesInTx(ctx, tx, entry, userID, entry.CreatedAt)
	}
	return nil
}

// applyBalancesInTx is the balance-application step: lock the affected
// accounts, compute each line's signed delta in line order, append one ledger
// posting per line and add the net delta to each stored balance.
func (s *journalService) applyBalancesInTx(ctx context.Context, tx pgx.Tx, entry *domain.JournalEntry, userID string, at time.Time) error {
	ids := lineAccountIDs(entry.Lines)
	accounts, err := s.accountRepo.FindAccountsByIDsForUpdate(ctx, tx, ids)
	if err != nil {
		return err
	}
	for _, id := range ids {
		if acc, ok := accounts[id]; ok && !acc.IsActive {
			return fmt.Errorf("%w: account %s is inactive", apperrors.ErrValidation, acc.Code)
		}
	}

	postings, deltas, err := accounting.BuildPostings(entry.Lines, accounts)
	if err != nil {
		return err
	}
	for i := range postings {
		postings[i].PostingID = ulid.Make().String()
		postings[i].EntryID = entry.EntryID
		postings[i].PostedAt = at
	}

	if err := s.journalRepo.SavePostingsInTx(ctx, tx, postings); err != nil {
		return err
	}
	return s.accountRepo.UpdateAccountBalancesInTx(ctx, tx, deltas, userID, at)
}

func (s *journalService) logTransitionError(ctx context.Context, err error, op, entryID string) {
	if errors.Is(err, apperrors.ErrNotFound) || errors.Is(err, apperrors.ErrInvalidTransition) || errors.Is(err, apperrors.ErrValidation) {
		s.LogDebug(ctx, "Journal transition refused", slog.String("op", op), slog.String("entry_id", entryID), slog.String("reason", err.Error()))
		return
	}
	s.LogError(ctx, err, "Journal transition failed", slog.String("op", op), slog.String("entry_id", entryID))
}

// lineAccountIDs returns the distinct account IDs of lines in sorted order.
func lineAccountIDs(lines []domain.JournalLine) []string {
	seen := make(map[string]struct{}, len(lines))
	ids := make([]string, 0, len(lines))
	for _, l := range lines {
		if _, ok := seen[l.AccountID]; ok {
			continue
		}
		seen[l.AccountID] = struct{}{}
		ids = append(ids, l.AccountID)
	}
	sort.Strings(ids)
	return ids
}
