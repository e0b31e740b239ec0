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
	"github.com/ALANAK777/erp_finance_system/internal/dto"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// accountService implements the AccountSvcFacade interface
type accountService struct {
	BaseService
	tx              portsrepo.TxRunner
	accountRepo     portsrepo.AccountRepositoryFacade
	defaultCurrency string
}

// AccountServiceOption is a functional option for configuring the account service
type AccountServiceOption func(*accountService)

// WithDefaultCurrency sets the currency assigned to accounts created without one.
func WithDefaultCurrency(code string) AccountServiceOption {
	return func(s *accountService) {
		s.defaultCurrency = code
	}
}

// WithAccountAuditSink sets the audit sink for the account service.
func WithAccountAuditSink(sink portssvc.AuditSink) AccountServiceOption {
	return func(s *accountService) {
		s.Audit = sink
	}
}

// NewAccountService creates a new account service with the provided options
func NewAccountService(tx portsrepo.TxRunner, repo portsrepo.AccountRepositoryFacade, options ...AccountServiceOption) portssvc.AccountSvcFacade {
	svc := &accountService{
		tx:              tx,
		accountRepo:     repo,
		defaultCurrency: "USD",
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

// Ensure accountService implements the AccountSvcFacade interface
var _ portssvc.AccountSvcFacade = (*accountService)(nil)

func (s *accountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, userID string) (*domain.Account, error) {
	if !req.AccountType.IsValid() {
		return nil, fmt.Errorf("%w: unknown account type '%s'", apperrors.ErrValidation, req.AccountType)
	}
	code := strings.TrimSpace(req.Code)
	if code == "" {
		return nil, fmt.Errorf("%w: account code is required", apperrors.ErrValidation)
	}

	if req.ParentAccountID != nil {
		if _, err := s.accountRepo.FindAccountByID(ctx, *req.ParentAccountID); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: parent account %s", apperrors.ErrNotFound, *req.ParentAccountID)
			}
			s.LogError(ctx, err, "Failed to find parent account", slog.String("parent_id", *req.ParentAccountID))
			return nil, err
		}
	}

	currency := req.CurrencyCode
	if currency == "" {
		currency = s.defaultCurrency
	}

	now := time.Now().UTC()
	account := domain.Account{
		AccountID:       uuid.NewString(),
		Code:            code,
		Name:            strings.TrimSpace(req.Name),
		AccountType:     req.AccountType,
		CurrencyCode:    currency,
		ParentAccountID: req.ParentAccountID,
		Description:     req.Description,
		IsActive:        true,
		Balance:         decimal.Zero,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("%w: account code %s already exists", apperrors.ErrDuplicate, code)
		}
		s.LogError(ctx, err, "Failed to save account", slog.String("code", code))
		return nil, err
	}

	s.LogInfo(ctx, "Account created", slog.String("account_id", account.AccountID), slog.String("code", code))
	s.RecordAudit(ctx, domain.EntityAccount, account.AccountID, domain.AuditCreate, userID, map[string]any{
		"code":        account.Code,
		"accountType": string(account.AccountType),
	})
	return &account, nil
}

func (s *accountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find account by ID", slog.String("account_id", accountID))
		}
		return nil, err
	}
	return account, nil
}

func (s *accountService) GetAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByCode(ctx, code)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find account by code", slog.String("code", code))
		}
		return nil, err
	}
	return account, nil
}

func (s *accountService) ListAccounts(ctx context.Context, filter domain.AccountFilter) ([]domain.Account, error) {
	accounts, err := s.accountRepo.ListAccounts(ctx, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts")
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	if accounts == nil {
		return []domain.Account{}, nil
	}
	return accounts, nil
}

func (s *accountService) GetAccountTree(ctx context.Context) ([]*domain.AccountNode, error) {
	accounts, err := s.ListAccounts(ctx, domain.AccountFilter{})
	if err != nil {
		return nil, err
	}
	return domain.BuildAccountTree(accounts), nil
}

// UpdateAccount applies the changes to the locked account row. Locking first
// blocks new journal lines on the account, so the type check cannot race a posting.
func (s *accountService) UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error) {
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return nil, fmt.Errorf("%w: account name cannot be empty", apperrors.ErrValidation)
	}
	if req.AccountType != nil && !req.AccountType.IsValid() {
		return nil, fmt.Errorf("%w: unknown account type '%s'", apperrors.ErrValidation, *req.AccountType)
	}
	if !req.ClearParent && req.ParentAccountID != nil {
		if err := s.checkParent(ctx, accountID, *req.ParentAccountID); err != nil {
			return nil, err
		}
	}

	var account domain.Account
	changed := map[string]any{}
	err := s.tx.WithinTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		locked, err := s.accountRepo.FindAccountsByIDsForUpdate(ctx, tx, []string{accountID})
		if err != nil {
			return err
		}
		account = locked[accountID]

		if req.Name != nil {
			account.Name = strings.TrimSpace(*req.Name)
			changed["name"] = account.Name
		}
		if req.Description != nil {
			account.Description = *req.Description
			changed["description"] = *req.Description
		}
		if req.IsActive != nil {
			account.IsActive = *req.IsActive
			changed["isActive"] = *req.IsActive
		}

		if req.AccountType != nil && *req.AccountType != account.AccountType {
			lines, err := s.accountRepo.CountJournalLinesInTx(ctx, tx, accountID)
			if err != nil {
				return err
			}
			if lines > 0 {
				return fmt.Errorf("%w: account %s has journal lines, its type cannot change", apperrors.ErrValidation, account.Code)
			}
			account.AccountType = *req.AccountType
			changed["accountType"] = string(*req.AccountType)
		}

		switch {
		case req.ClearParent:
			account.ParentAccountID = nil
			changed["parentAccountID"] = nil
		case req.ParentAccountID != nil:
			parentID := *req.ParentAccountID
			account.ParentAccountID = &parentID
			changed["parentAccountID"] = parentID
		}

		account.LastUpdatedAt = time.Now().UTC()
		account.LastUpdatedBy = userID
		return s.accountRepo.UpdateAccountInTx(ctx, tx, account)
	})
	if err != nil {
		if !errors.Is(err, apperrors.ErrValidation) && !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to update account", slog.String("account_id", accountID))
		}
		return nil, err
	}

	s.LogInfo(ctx, "Account updated", slog.String("account_id", accountID))
	s.RecordAudit(ctx, domain.EntityAccount, accountID, domain.AuditUpdate, userID, changed)
	return &account, nil
}

// checkParent rejects a parent that does not exist or would create a cycle.
func (s *accountService) checkParent(ctx context.Context, accountID, parentID string) error {
	if parentID == accountID {
		return fmt.Errorf("%w: an account cannot be its own parent", apperrors.ErrValidation)
	}
	all, err := s.accountRepo.ListAccounts(ctx, domain.AccountFilter{})
	if err != nil {
		return err
	}
	parents := make(map[string]*string, len(all))
	for _, acc := range all {
		parents[acc.AccountID] = acc.ParentAccountID
	}
	if _, ok := parents[parentID]; !ok {
		return fmt.Errorf("%w: parent account %s", apperrors.ErrNotFound, parentID)
	}
	for cur := parents[parentID]; cur != nil; cur = parents[*cur] {
		if *cur == accountID {
			return fmt.Errorf("%w: parent account %s is a descendant of %s", apperrors.ErrValidation, parentID, accountID)
		}
	}
	return nil
}

func (s *accountService) DeleteAccount(ctx context.Context, accountID string, userID string) error {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return err
	}

	lines, err := s.accountRepo.CountJournalLines(ctx, accountID)
	if err != nil {
		s.LogError(ctx, err, "Failed to count journal lines", slog.String("account_id", accountID))
		return err
	}
	if lines > 0 {
		return fmt.Errorf("%w: account %s is referenced by %d journal lines", apperrors.ErrHasDependents, account.Code, lines)
	}
	children, err := s.accountRepo.CountChildAccounts(ctx, accountID)
	if err != nil {
		s.LogError(ctx, err, "Failed to count child accounts", slog.String("account_id", accountID))
		return err
	}
	if children > 0 {
		return fmt.Errorf("%w: account %s has %d child accounts", apperrors.ErrHasDependents, account.Code, children)
	}

	if err := s.accountRepo.DeleteAccount(ctx, accountID); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) && !errors.Is(err, apperrors.ErrHasDependents) {
			s.LogError(ctx, err, "Failed to delete account", slog.String("account_id", accountID))
		}
		return err
	}

	s.LogInfo(ctx, "Account deleted", slog.String("account_id", accountID), slog.String("code", account.Code))
	s.RecordAudit(ctx, domain.EntityAccount, accountID, domain.AuditDelete, userID, map[string]any{"code": account.Code})
	return nil
}
