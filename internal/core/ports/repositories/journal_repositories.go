package repositories

import (
	"context"

	"github.com/ALANAK777/erp_finance_system/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// JournalReader defines read operations for journal data
type JournalReader interface {
	// FindEntryByID retrieves a journal entry with its lines in line order.
	FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// ListEntries retrieves a page of entries (without lines), newest first, using keyset pagination.
	// It returns the entries, a token for the next page, and an error.
	ListEntries(ctx context.Context, filter domain.JournalEntryFilter, limit int, nextToken *string) ([]domain.JournalEntry, *string, error)

	// ListPostingsByAccount retrieves the balance history of one account, newest first.
	ListPostingsByAccount(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.LedgerPosting, *string, error)
}

// JournalWriter defines write operations for journal data. All of them run
// inside a caller-owned transaction.
type JournalWriter interface {
	// SaveEntryInTx inserts the entry and all of its lines.
	SaveEntryInTx(ctx context.Context, tx pgx.Tx, entry domain.JournalEntry) error

	// FindEntryByIDForUpdate locks the entry row and returns it with its lines.
	FindEntryByIDForUpdate(ctx context.Context, tx pgx.Tx, entryID string) (*domain.JournalEntry, error)

	// UpdateEntryStatusInTx persists status, approval and rejection fields.
	UpdateEntryStatusInTx(ctx context.Context, tx pgx.Tx, entry domain.JournalEntry) error

	// SavePostingsInTx appends ledger postings.
	SavePostingsInTx(ctx context.Context, tx pgx.Tx, postings []domain.LedgerPosting) error
}

// JournalRepositoryFacade combines all journal-related repository interfaces
type JournalRepositoryFacade interface {
	JournalReader
	JournalWriter
}
