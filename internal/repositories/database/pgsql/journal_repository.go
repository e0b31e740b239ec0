package pgsql

import (
	"context"
	"fmt"
	"strings"

	"github.com/ALANAK777/erp_finance_system/internal/apperrors"
	"github.com/ALANAK777/erp_finance_system/internal/core/domain"
	portsrepo "github.com/ALANAK777/erp_finance_system/internal/core/ports/repositories"
	"github.com/ALANAK777/erp_finance_system/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const entryColumns = `entry_id, entry_number, entry_date, description, status, source_type, source_id,
	total_amount, approved_at, approved_by, rejected_at, rejection_reason,
	created_at, created_by, last_updated_at, last_updated_by`

const lineColumns = `line_id, entry_id, line_number, account_id, debit, credit, description, created_at`

const postingColumns = `posting_id, entry_id, line_id, account_id, delta, balance_after, posted_at`

// PgxJournalRepository stores journal entries, their lines and ledger postings.
type PgxJournalRepository struct {
	BaseRepository
}

// newPgxJournalRepository creates a new repository for journal data.
func newPgxJournalRepository(pool *pgxpool.Pool) *PgxJournalRepository {
	return &PgxJournalRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.JournalRepositoryFacade = (*PgxJournalRepository)(nil)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func scanEntry(row pgx.Row) (domain.JournalEntry, error) {
	var entry domain.JournalEntry
	var status, sourceType string
	err := row.Scan(
		&entry.EntryID,
		&entry.EntryNumber,
		&entry.EntryDate,
		&entry.Description,
		&status,
		&sourceType,
		&entry.SourceID,
		&entry.TotalAmount,
		&entry.ApprovedAt,
		&entry.ApprovedBy,
		&entry.RejectedAt,
		&entry.RejectionReason,
		&entry.CreatedAt,
		&entry.CreatedBy,
		&entry.LastUpdatedAt,
		&entry.LastUpdatedBy,
	)
	entry.Status = domain.JournalStatus(status)
	entry.SourceType = domain.SourceType(sourceType)
	return entry, err
}

func (r *PgxJournalRepository) findLines(ctx context.Context, q querier, entryID string) ([]domain.JournalLine, error) {
	query := `SELECT ` + lineColumns + ` FROM journal_lines WHERE entry_id = $1 ORDER BY line_number;`
	rows, err := q.Query(ctx, query, entryID)
	if err != nil {
		return nil, translateError(err, "query lines of entry "+entryID)
	}
	defer rows.Close()

	lines := make([]domain.JournalLine, 0)
	for rows.Next() {
		var line domain.JournalLine
		if err := rows.Scan(
			&line.LineID,
			&line.EntryID,
			&line.LineNumber,
			&line.AccountID,
			&line.Debit,
			&line.Credit,
			&line.Description,
			&line.CreatedAt,
		); err != nil {
			return nil, translateError(err, "scan journal line")
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(err, "iterate journal lines")
	}
	return lines, nil
}

func (r *PgxJournalRepository) findEntry(ctx context.Context, q querier, entryID string, forUpdate bool) (*domain.JournalEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE entry_id = $1`
	if forUpdate {
		query += " FOR UPDATE"
	}
	entry, err := scanEntry(q.QueryRow(ctx, query, entryID))
	if err != nil {
		return nil, translateError(err, "journal entry "+entryID)
	}

	lines, err := r.findLines(ctx, q, entryID)
	if err != nil {
		return nil, err
	}
	entry.Lines = lines
	return &entry, nil
}

// FindEntryByID retrieves a journal entry with its lines in line order.
func (r *PgxJournalRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	return r.findEntry(ctx, r.Pool, entryID, false)
}

// FindEntryByIDForUpdate locks the entry row and returns it with its lines.
func (r *PgxJournalRepository) FindEntryByIDForUpdate(ctx context.Context, tx pgx.Tx, entryID string) (*domain.JournalEntry, error) {
	return r.findEntry(ctx, tx, entryID, true)
}

// SaveEntryInTx inserts the entry header and batches the line inserts.
func (r *PgxJournalRepository) SaveEntryInTx(ctx context.Context, tx pgx.Tx, entry domain.JournalEntry) error {
	entryQuery := `
		INSERT INTO journal_entries (` + entryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16);
	`
	_, err := tx.Exec(ctx, entryQuery,
		entry.EntryID,
		entry.EntryNumber,
		entry.EntryDate,
		entry.Description,
		string(entry.Status),
		string(entry.SourceType),
		entry.SourceID,
		entry.TotalAmount,
		entry.ApprovedAt,
		entry.ApprovedBy,
		entry.RejectedAt,
		entry.RejectionReason,
		entry.CreatedAt,
		entry.CreatedBy,
		entry.LastUpdatedAt,
		entry.LastUpdatedBy,
	)
	if err != nil {
		return translateError(err, "insert journal entry "+entry.EntryNumber)
	}

	if len(entry.Lines) == 0 {
		return nil
	}

	lineQuery := `
		INSERT INTO journal_lines (` + lineColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	batch := &pgx.Batch{}
	for _, line := range entry.Lines {
		batch.Queue(lineQuery,
			line.LineID,
			entry.EntryID,
			line.LineNumber,
			line.AccountID,
			line.Debit,
			line.Credit,
			line.Description,
			line.CreatedAt,
		)
	}

	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return translateError(err, "insert lines of journal entry "+entry.EntryNumber)
	}
	return nil
}

// UpdateEntryStatusInTx persists status, approval and rejection fields.
func (r *PgxJournalRepository) UpdateEntryStatusInTx(ctx context.Context, tx pgx.Tx, entry domain.JournalEntry) error {
	query := `
		UPDATE journal_entries
		SET status = $2, approved_at = $3, approved_by = $4, rejected_at = $5, rejection_reason = $6,
		    last_updated_at = $7, last_updated_by = $8
		WHERE entry_id = $1;
	`
	cmdTag, err := tx.Exec(ctx, query,
		entry.EntryID,
		string(entry.Status),
		entry.ApprovedAt,
		entry.ApprovedBy,
		entry.RejectedAt,
		entry.RejectionReason,
		entry.LastUpdatedAt,
		entry.LastUpdatedBy,
	)
	if err != nil {
		return translateError(err, "update journal entry "+entry.EntryID)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: journal entry %s", apperrors.ErrNotFound, entry.EntryID)
	}
	return nil
}

// SavePostingsInTx appends ledger postings in one batch.
func (r *PgxJournalRepository) SavePostingsInTx(ctx context.Context, tx pgx.Tx, postings []domain.LedgerPosting) error {
	if len(postings) == 0 {
		return nil
	}

	query := `
		INSERT INTO ledger_postings (` + postingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	batch := &pgx.Batch{}
	for _, p := range postings {
		batch.Queue(query, p.PostingID, p.EntryID, p.LineID, p.AccountID, p.Delta, p.BalanceAfter, p.PostedAt)
	}

	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return translateError(err, "insert ledger postings")
	}
	return nil
}

// ListEntries retrieves a page of entries without lines, newest first.
// Pages are keyed on (created_at, entry_id); one extra row is fetched to
// detect whether another page exists.
func (r *PgxJournalRepository) ListEntries(ctx context.Context, filter domain.JournalEntryFilter, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	limit = pagination.NormalizeLimit(limit)
	fetchLimit := limit + 1

	conditions := make([]string, 0, 5)
	args := make([]any, 0, 7)
	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.SourceType != nil {
		args = append(args, string(*filter.SourceType))
		conditions = append(conditions, fmt.Sprintf("source_type = $%d", len(args)))
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		conditions = append(conditions, fmt.Sprintf("entry_date >= $%d", len(args)))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		conditions = append(conditions, fmt.Sprintf("entry_date <= $%d", len(args)))
	}
	if nextToken != nil && *nextToken != "" {
		cursor, err := pagination.DecodeCursor(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: invalid nextToken: %v", apperrors.ErrValidation, err)
		}
		args = append(args, cursor.SortTime, cursor.ID)
		conditions = append(conditions, fmt.Sprintf("(created_at, entry_id) < ($%d, $%d)", len(args)-1, len(args)))
	}

	query := `SELECT ` + entryColumns + ` FROM journal_entries`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	args = append(args, fetchLimit)
	query += fmt.Sprintf(" ORDER BY created_at DESC, entry_id DESC LIMIT $%d;", len(args))

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, translateError(err, "list journal entries")
	}
	defer rows.Close()

	entries := make([]domain.JournalEntry, 0, fetchLimit)
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, nil, translateError(err, "scan journal entry")
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, translateError(err, "iterate journal entries")
	}

	var nextTokenVal *string
	if len(entries) > limit {
		last := entries[limit-1]
		token := pagination.EncodeCursor(last.CreatedAt, last.EntryID)
		nextTokenVal = &token
		entries = entries[:limit]
	}
	return entries, nextTokenVal, nil
}

// ListPostingsByAccount returns the balance history of one account, newest
// first, keyed on (posted_at, posting_id).
func (r *PgxJournalRepository) ListPostingsByAccount(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.LedgerPosting, *string, error) {
	limit = pagination.NormalizeLimit(limit)
	fetchLimit := limit + 1

	args := []any{accountID}
	query := `SELECT ` + postingColumns + ` FROM ledger_postings WHERE account_id = $1`
	if nextToken != nil && *nextToken != "" {
		cursor, err := pagination.DecodeCursor(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: invalid nextToken: %v", apperrors.ErrValidation, err)
		}
		args = append(args, cursor.SortTime, cursor.ID)
		query += " AND (posted_at, posting_id) < ($2, $3)"
	}
	args = append(args, fetchLimit)
	query += fmt.Sprintf(" ORDER BY posted_at DESC, posting_id DESC LIMIT $%d;", len(args))

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, translateError(err, "list postings of account "+accountID)
	}
	defer rows.Close()

	postings := make([]domain.LedgerPosting, 0, fetchLimit)
	for rows.Next() {
		var p domain.LedgerPosting
		if err := rows.Scan(&p.PostingID, &p.EntryID, &p.LineID, &p.AccountID, &p.Delta, &p.BalanceAfter, &p.PostedAt); err != nil {
			return nil, nil, translateError(err, "scan ledger posting")
		}
		postings = append(postings, p)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, translateError(err, "iterate ledger postings")
	}

	var nextTokenVal *string
	if len(postings) > limit {
		last := postings[limit-1]
		token := pagination.EncodeCursor(last.PostedAt, last.PostingID)
		nextTokenVal = &token
		postings = postings[:limit]
	}
	return postings, nextTokenVal, nil
}
