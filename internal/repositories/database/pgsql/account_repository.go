package pgsql

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/ALANAK777/erp_finance_system/internal/apperrors"
	"github.com/ALANAK777/erp_finance_system/internal/core/domain"
	portsrepo "github.com/ALANAK777/erp_finance_system/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const accountColumns = `account_id, code, name, account_type, currency_code, parent_account_id,
	description, is_active, balance, created_at, created_by, last_updated_at, last_updated_by`

// PgxAccountRepository implements portsrepo.AccountRepositoryFacade using pgx.
type PgxAccountRepository struct {
	BaseRepository
}

// newPgxAccountRepository creates a new repository for account data.
func newPgxAccountRepository(pool *pgxpool.Pool) *PgxAccountRepository {
	return &PgxAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

func scanAccount(row pgx.Row) (domain.Account, error) {
	var acc domain.Account
	var accountType string
	err := row.Scan(
		&acc.AccountID,
		&acc.Code,
		&acc.Name,
		&accountType,
		&acc.CurrencyCode,
		&acc.ParentAccountID,
		&acc.Description,
		&acc.IsActive,
		&acc.Balance,
		&acc.CreatedAt,
		&acc.CreatedBy,
		&acc.LastUpdatedAt,
		&acc.LastUpdatedBy,
	)
	acc.AccountType = domain.AccountType(accountType)
	return acc, err
}

func collectAccounts(rows pgx.Rows) ([]domain.Account, error) {
	defer rows.Close()
	accounts := make([]domain.Account, 0)
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, acc)
	}
	return accounts, rows.Err()
}

// SaveAccount inserts a new account.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err := r.Pool.Exec(ctx, query,
		account.AccountID,
		account.Code,
		account.Name,
		string(account.AccountType),
		account.CurrencyCode,
		account.ParentAccountID,
		account.Description,
		account.IsActive,
		account.Balance,
		account.CreatedAt,
		account.CreatedBy,
		account.LastUpdatedAt,
		account.LastUpdatedBy,
	)
	if err != nil {
		return translateError(err, "account code "+account.Code)
	}
	return nil
}

// FindAccountByID retrieves an account by its ID.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = $1;`
	acc, err := scanAccount(r.Pool.QueryRow(ctx, query, accountID))
	if err != nil {
		return nil, translateError(err, "account "+accountID)
	}
	return &acc, nil
}

// FindAccountByCode retrieves an account by its chart-of-accounts code.
func (r *PgxAccountRepository) FindAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE code = $1;`
	acc, err := scanAccount(r.Pool.QueryRow(ctx, query, code))
	if err != nil {
		return nil, translateError(err, "account code "+code)
	}
	return &acc, nil
}

// FindAccountsByIDs retrieves the accounts that exist among accountIDs.
func (r *PgxAccountRepository) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	if len(accountIDs) == 0 {
		return map[string]domain.Account{}, nil
	}
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = ANY($1);`
	rows, err := r.Pool.Query(ctx, query, accountIDs)
	if err != nil {
		return nil, translateError(err, "query accounts by id")
	}
	accounts, err := collectAccounts(rows)
	if err != nil {
		return nil, translateError(err, "scan accounts")
	}

	accountsMap := make(map[string]domain.Account, len(accounts))
	for _, acc := range accounts {
		accountsMap[acc.AccountID] = acc
	}
	return accountsMap, nil
}

// FindAccountsByCodes retrieves the accounts that exist among codes, keyed by code.
func (r *PgxAccountRepository) FindAccountsByCodes(ctx context.Context, codes []string) (map[string]domain.Account, error) {
	if len(codes) == 0 {
		return map[string]domain.Account{}, nil
	}
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE code = ANY($1);`
	rows, err := r.Pool.Query(ctx, query, codes)
	if err != nil {
		return nil, translateError(err, "query accounts by code")
	}
	accounts, err := collectAccounts(rows)
	if err != nil {
		return nil, translateError(err, "scan accounts")
	}

	accountsMap := make(map[string]domain.Account, len(accounts))
	for _, acc := range accounts {
		accountsMap[acc.Code] = acc
	}
	return accountsMap, nil
}

// ListAccounts retrieves accounts ordered by code.
func (r *PgxAccountRepository) ListAccounts(ctx context.Context, filter domain.AccountFilter) ([]domain.Account, error) {
	conditions := make([]string, 0, 2)
	args := make([]any, 0, 2)
	if filter.AccountType != nil {
		args = append(args, string(*filter.AccountType))
		conditions = append(conditions, fmt.Sprintf("account_type = $%d", len(args)))
	}
	if filter.IsActive != nil {
		args = append(args, *filter.IsActive)
		conditions = append(conditions, fmt.Sprintf("is_active = $%d", len(args)))
	}

	query := `SELECT ` + accountColumns + ` FROM accounts`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY code;"

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, translateError(err, "list accounts")
	}
	accounts, err := collectAccounts(rows)
	if err != nil {
		return nil, translateError(err, "scan accounts")
	}
	return accounts, nil
}

// UpdateAccountInTx updates the mutable fields of an account. The balance is
// only ever changed by UpdateAccountBalancesInTx.
func (r *PgxAccountRepository) UpdateAccountInTx(ctx context.Context, tx pgx.Tx, account domain.Account) error {
	query := `
		UPDATE accounts
		SET name = $2, account_type = $3, parent_account_id = $4, description = $5,
		    is_active = $6, last_updated_at = $7, last_updated_by = $8
		WHERE account_id = $1;
	`
	cmdTag, err := tx.Exec(ctx, query,
		account.AccountID,
		account.Name,
		string(account.AccountType),
		account.ParentAccountID,
		account.Description,
		account.IsActive,
		account.LastUpdatedAt,
		account.LastUpdatedBy,
	)
	if err != nil {
		return translateError(err, "update account "+account.AccountID)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, account.AccountID)
	}
	return nil
}

// DeleteAccount hard-deletes an account. Foreign keys from journal lines and
// child accounts surface as ErrHasDependents.
func (r *PgxAccountRepository) DeleteAccount(ctx context.Context, accountID string) error {
	cmdTag, err := r.Pool.Exec(ctx, `DELETE FROM accounts WHERE account_id = $1;`, accountID)
	if err != nil {
		return translateError(err, "delete account "+accountID)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
	}
	return nil
}

// CountJournalLines returns the number of journal lines referencing the account.
func (r *PgxAccountRepository) CountJournalLines(ctx context.Context, accountID string) (int64, error) {
	return countJournalLines(r.Pool.QueryRow(ctx, countJournalLinesQuery, accountID))
}

// CountJournalLinesInTx counts lines inside the caller's transaction. Run it
// after locking the account so no line can be inserted until commit.
func (r *PgxAccountRepository) CountJournalLinesInTx(ctx context.Context, tx pgx.Tx, accountID string) (int64, error) {
	return countJournalLines(tx.QueryRow(ctx, countJournalLinesQuery, accountID))
}

const countJournalLinesQuery = `SELECT COUNT(*) FROM journal_lines WHERE account_id = $1;`

func countJournalLines(row pgx.Row) (int64, error) {
	var count int64
	if err := row.Scan(&count); err != nil {
		return 0, translateError(err, "count journal lines")
	}
	return count, nil
}

// CountChildAccounts returns the number of direct children of the account.
func (r *PgxAccountRepository) CountChildAccounts(ctx context.Context, accountID string) (int64, error) {
	var count int64
	err := r.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM accounts WHERE parent_account_id = $1;`, accountID).Scan(&count)
	if err != nil {
		return 0, translateError(err, "count child accounts")
	}
	return count, nil
}

// FindAccountsByIDsForUpdate locks the rows in account_id order so concurrent
// postings touching overlapping accounts cannot deadlock.
func (r *PgxAccountRepository) FindAccountsByIDsForUpdate(ctx context.Context, tx pgx.Tx, accountIDs []string) (map[string]domain.Account, error) {
	if len(accountIDs) == 0 {
		return map[string]domain.Account{}, nil
	}

	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE account_id = ANY($1)
		ORDER BY account_id
		FOR UPDATE;
	`
	rows, err := tx.Query(ctx, query, accountIDs)
	if err != nil {
		return nil, translateError(err, "lock accounts")
	}
	accounts, err := collectAccounts(rows)
	if err != nil {
		return nil, translateError(err, "lock accounts")
	}

	accountsMap := make(map[string]domain.Account, len(accounts))
	for _, acc := range accounts {
		accountsMap[acc.AccountID] = acc
	}

	if len(accountsMap) != len(accountIDs) {
		missing := make([]string, 0)
		for _, id := range accountIDs {
			if _, ok := accountsMap[id]; !ok {
				missing = append(missing, id)
			}
		}
		if len(missing) > 0 {
			slog.WarnContext(ctx, "Some accounts requested for update lock were not found", "missing_accounts", missing)
			return nil, fmt.Errorf("%w: could not find or lock all requested accounts, missing: %v", apperrors.ErrNotFound, missing)
		}
	}

	return accountsMap, nil
}

// UpdateAccountBalancesInTx adds each delta to the stored balance.
func (r *PgxAccountRepository) UpdateAccountBalancesInTx(ctx context.Context, tx pgx.Tx, deltas map[string]decimal.Decimal, userID string, updatedAt time.Time) error {
	if len(deltas) == 0 {
		return nil
	}

	query := `
		UPDATE accounts
		SET balance = balance + $2, last_updated_at = $3, last_updated_by = $4
		WHERE account_id = $1;
	`

	accountIDs := make([]string, 0, len(deltas))
	for accountID, delta := range deltas {
		if !delta.IsZero() {
			accountIDs = append(accountIDs, accountID)
		}
	}
	if len(accountIDs) == 0 {
		return nil
	}
	sort.Strings(accountIDs)

	batch := &pgx.Batch{}
	for _, accountID := range accountIDs {
		batch.Queue(query, accountID, deltas[accountID], updatedAt, userID)
	}

	br := tx.SendBatch(ctx, batch)
	var batchErr error
	for _, accountID := range accountIDs {
		ct, err := br.Exec()
		if err != nil {
			if batchErr == nil {
				batchErr = translateError(err, "update balance for account "+accountID)
			}
		} else if ct.RowsAffected() == 0 && batchErr == nil {
			batchErr = fmt.Errorf("%w: account %s not found during balance update", apperrors.ErrNotFound, accountID)
		}
	}

	if err := br.Close(); err != nil && batchErr == nil {
		batchErr = translateError(err, "close balance update batch")
	}
	return batchErr
}
