package services

import (
	"context"

	"github.com/ALANAK777/erp_finance_system/internal/core/domain"
	"github.com/ALANAK777/erp_finance_system/internal/dto"
	"github.com/jackc/pgx/v5"
)

// JournalReaderSvc defines read operations for journal data
type JournalReaderSvc interface {
	// GetEntry retrieves a journal entry with its lines.
	GetEntry(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// ListEntries retrieves a page of journal entries, newest first.
	ListEntries(ctx context.Context, params dto.ListJournalEntriesParams) (*dto.ListJournalEntriesResponse, error)

	// ListPostingsByAccount retrieves the balance history of one account.
	ListPostingsByAccount(ctx context.Context, accountID string, params dto.ListPostingsParams) (*dto.ListPostingsResponse, error)
}

// JournalWriterSvc defines the journal lifecycle operations
type JournalWriterSvc interface {
	// CreateEntry validates and stores a manual entry as DRAFT, or as APPROVED
	// with balances applied when req.AutoApprove is set.
	CreateEntry(ctx context.Context, req dto.CreateJournalEntryRequest, userID string) (*domain.JournalEntry, error)

	// SubmitEntry moves a DRAFT entry to PENDING.
	SubmitEntry(ctx context.Context, entryID string, userID string) (*domain.JournalEntry, error)

	// ApproveEntry applies the entry's lines to account balances and marks it APPROVED.
	ApproveEntry(ctx context.Context, entryID string, userID string) (*domain.JournalEntry, error)

	// RejectEntry marks a non-terminal entry REJECTED without touching balances.
	RejectEntry(ctx context.Context, entryID string, reason string, userID string) (*domain.JournalEntry, error)
}

// LedgerPoster is the auto-approve fast path used by business triggers. It runs
// inside the caller's transaction so that the business record and its ledger
// effect commit or roll back together.
type LedgerPoster interface {
	PostInTx(ctx context.Context, tx pgx.Tx, tmpl domain.PostingTemplate, userID string) (*domain.JournalEntry, error)
}

// JournalSvcFacade combines all journal-related service interfaces
type JournalSvcFacade interface {
	JournalReaderSvc
	JournalWriterSvc
	LedgerPoster
}
