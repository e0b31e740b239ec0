package accounting

import (
	"fmt"

	"github.com/ALANAK777/erp_finance_system/internal/apperrors"
	"github.com/ALANAK777/erp_finance_system/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SignedDelta applies the normal-balance rule to one journal line.
// ASSET/EXPENSE: debit - credit. LIABILITY/EQUITY/REVENUE: credit - debit.
func SignedDelta(accountType domain.AccountType, debit, credit decimal.Decimal) (decimal.Decimal, error) {
	switch accountType {
	case domain.Asset, domain.Expense:
		return debit.Sub(credit), nil
	case domain.Liability, domain.Equity, domain.Revenue:
		return credit.Sub(debit), nil
	default:
		return decimal.Zero, fmt.Errorf("unknown account type '%s'", accountType)
	}
}

// Totals returns the sum of debits and the sum of credits across lines.
func Totals(lines []domain.JournalLine) (decimal.Decimal, decimal.Decimal) {
	debits := decimal.Zero
	credits := decimal.Zero
	for _, line := range lines {
		debits = debits.Add(line.Debit)
		credits = credits.Add(line.Credit)
	}
	return debits, credits
}

// ValidateLines checks the double-entry rules for a set of journal lines:
// at least two lines, non-negative one-sided amounts that fit
// domain.AmountScale, and debits equal to credits within domain.BalanceTolerance.
func ValidateLines(lines []domain.JournalLine) error {
	if len(lines) < 2 {
		return fmt.Errorf("%w: journal entry must have at least two lines", apperrors.ErrValidation)
	}

	for i, line := range lines {
		if line.AccountID == "" {
			return fmt.Errorf("%w: line %d has no account", apperrors.ErrValidation, i+1)
		}
		if line.Debit.IsNegative() || line.Credit.IsNegative() {
			return fmt.Errorf("%w: line %d has a negative amount", apperrors.ErrValidation, i+1)
		}
		if line.Debit.IsPositive() && line.Credit.IsPositive() {
			return fmt.Errorf("%w: line %d carries both a debit and a credit", apperrors.ErrValidation, i+1)
		}
		if !domain.FitsAmountScale(line.Debit) || !domain.FitsAmountScale(line.Credit) {
			return fmt.Errorf("%w: line %d has more than %d decimal places", apperrors.ErrValidation, i+1, domain.AmountScale)
		}
		if line.Debit.IsZero() && line.Credit.IsZero() {
			return fmt.Errorf("%w: line %d has neither a debit nor a credit", apperrors.ErrValidation, i+1)
		}
	}

	debits, credits := Totals(lines)
	if !domain.WithinTolerance(debits, credits) {
		return fmt.Errorf("%w: entry is unbalanced, debits %s and credits %s",
			apperrors.ErrValidation, debits.StringFixed(2), credits.StringFixed(2))
	}
	return nil
}

// BuildPostings computes the balance mutation for every line, in line order,
// starting from the given opening balances. It returns one posting per line
// (without IDs or timestamps) and the net delta per account.
func BuildPostings(lines []domain.JournalLine, accounts map[string]domain.Account) ([]domain.LedgerPosting, map[string]decimal.Decimal, error) {
	running := make(map[string]decimal.Decimal, len(accounts))
	for id, acc := range accounts {
		running[id] = acc.Balance
	}

	postings := make([]domain.LedgerPosting, 0, len(lines))
	deltas := make(map[string]decimal.Decimal)
	for _, line := range lines {
		acc, ok := accounts[line.AccountID]
		if !ok {
			return nil, nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, line.AccountID)
		}
		delta, err := SignedDelta(acc.AccountType, line.Debit, line.Credit)
		if err != nil {
			return nil, nil, fmt.Errorf("line %d: %w", line.LineNumber, err)
		}

		running[line.AccountID] = running[line.AccountID].Add(delta)
		deltas[line.AccountID] = deltas[line.AccountID].Add(delta)
		postings = append(postings, domain.LedgerPosting{
			EntryID:      line.EntryID,
			LineID:       line.LineID,
			AccountID:    line.AccountID,
			Delta:        delta,
			BalanceAfter: running[line.AccountID],
		})
	}
	return postings, deltas, nil
}

// NormalSide splits a balance into trial-balance debit and credit columns.
// A positive balance sits on the account's normal side; a negative one on the other.
func NormalSide(accountType domain.AccountType, balance decimal.Decimal) (debit, credit decimal.Decimal) {
	debit, credit = decimal.Zero, decimal.Zero
	positiveOnDebit := accountType.IsDebitNormal()
	if balance.IsNegative() {
		positiveOnDebit = !positiveOnDebit
		balance = balance.Abs()
	}
	if positiveOnDebit {
		return balance, credit
	}
	return debit, balance
}
