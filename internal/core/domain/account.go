package domain

import (
	"github.com/shopspring/decimal"
)

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// IsValid reports whether t is one of the five known account types.
func (t AccountType) IsValid() bool {
	switch t {
	case Asset, Liability, Equity, Revenue, Expense:
		return true
	}
	return false
}

// IsDebitNormal reports whether debits increase the balance of this account type.
func (t AccountType) IsDebitNormal() bool {
	return t == Asset || t == Expense
}

// Account represents a chart-of-accounts entry.
// Balance is a cached aggregate of every applied ledger posting for the account.
type Account struct {
	AccountID       string          `json:"accountID"`
	Code            string          `json:"code"`
	Name            string          `json:"name"`
	AccountType     AccountType     `json:"accountType"`
	CurrencyCode    string          `json:"currencyCode"`
	ParentAccountID *string         `json:"parentAccountID,omitempty"`
	Description     string          `json:"description"`
	IsActive        bool            `json:"isActive"`
	Balance         decimal.Decimal `json:"balance"`
	AuditFields
}

// AccountFilter narrows ListAccounts. Nil fields are not applied.
type AccountFilter struct {
	AccountType *AccountType
	IsActive    *bool
}

// AccountNode is an account with its children, used for the chart-of-accounts tree.
type AccountNode struct {
	Account
	Children []*AccountNode `json:"children"`
}

// BuildAccountTree groups accounts by parent. Accounts whose parent is not in
// the input are treated as roots. Input order is preserved among siblings.
func BuildAccountTree(accounts []Account) []*AccountNode {
	nodes := make(map[string]*AccountNode, len(accounts))
	for _, acc := range accounts {
		nodes[acc.AccountID] = &AccountNode{Account: acc, Children: []*AccountNode{}}
	}

	roots := make([]*AccountNode, 0)
	for _, acc := range accounts {
		node := nodes[acc.AccountID]
		if acc.ParentAccountID != nil {
			if parent, ok := nodes[*acc.ParentAccountID]; ok {
				parent.Children = append(parent.Children, node)
				continue
			}
		}
		roots = append(roots, node)
	}
	return roots
}
