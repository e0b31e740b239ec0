package repositories

import (
	"context"
	"time"

	"github.com/ALANAK777/erp_finance_system/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// AccountReader defines read operations for account data
type AccountReader interface {
	// FindAccountByID retrieves an account by its unique identifier
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// FindAccountByCode retrieves an account by its chart-of-accounts code
	FindAccountByCode(ctx context.Context, code string) (*domain.Account, error)

	// FindAccountsByIDs retrieves multiple accounts keyed by account ID
	FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)

	// FindAccountsByCodes retrieves multiple accounts keyed by code
	FindAccountsByCodes(ctx context.Context, codes []string) (map[string]domain.Account, error)

	// ListAccounts retrieves accounts ordered by code
	ListAccounts(ctx context.Context, filter domain.AccountFilter) ([]domain.Account, error)
}

// AccountWriter defines write operations for account data
type AccountWriter interface {
	// SaveAccount inserts a new account
	SaveAccount(ctx context.Context, account domain.Account) error

	// DeleteAccount hard-deletes an account
	DeleteAccount(ctx context.Context, accountID string) error
}

// AccountDependencyReader reports what references an account
type AccountDependencyReader interface {
	// CountJournalLines returns the number of journal lines referencing the account
	CountJournalLines(ctx context.Context, accountID string) (int64, error)

	// CountChildAccounts returns the number of accounts whose parent is the account
	CountChildAccounts(ctx context.Context, accountID string) (int64, error)
}

// AccountTransactionSupport defines the balance-application operations that
// must run inside a caller-owned transaction
type AccountTransactionSupport interface {
	// FindAccountsByIDsForUpdate locks the accounts (in account_id order) and returns them keyed by ID
	FindAccountsByIDsForUpdate(ctx context.Context, tx pgx.Tx, accountIDs []string) (map[string]domain.Account, error)

	// CountJournalLinesInTx counts journal lines referencing the account within the transaction
	CountJournalLinesInTx(ctx context.Context, tx pgx.Tx, accountID string) (int64, error)

	// UpdateAccountInTx updates mutable account fields (not the balance)
	UpdateAccountInTx(ctx context.Context, tx pgx.Tx, account domain.Account) error

	// UpdateAccountBalancesInTx adds each delta to the stored balance
	UpdateAccountBalancesInTx(ctx context.Context, tx pgx.Tx, deltas map[string]decimal.Decimal, userID string, updatedAt time.Time) error
}

// AccountRepositoryFacade combines all account-related repository interfaces
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
	AccountDependencyReader
	AccountTransactionSupport
}
