package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountAmount represents an account with its amount for financial reports
type AccountAmount struct {
	AccountID string          `json:"accountID"`
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	Amount    decimal.Decimal `json:"amount"`
}

// ReportSection is a titled group of accounts with their total.
type ReportSection struct {
	Accounts []AccountAmount `json:"accounts"`
	Total    decimal.Decimal `json:"total"`
}

// BalanceSheetReport partitions asset, liability and equity balances.
type BalanceSheetReport struct {
	AsOf                      *time.Time      `json:"asOf,omitempty"`
	CurrentAssets             ReportSection   `json:"currentAssets"`
	FixedAssets               ReportSection   `json:"fixedAssets"`
	CurrentLiabilities        ReportSection   `json:"currentLiabilities"`
	LongTermLiabilities       ReportSection   `json:"longTermLiabilities"`
	Equity                    ReportSection   `json:"equity"`
	TotalAssets               decimal.Decimal `json:"totalAssets"`
	TotalLiabilities          decimal.Decimal `json:"totalLiabilities"`
	TotalEquity               decimal.Decimal `json:"totalEquity"`
	NetIncome                 decimal.Decimal `json:"netIncome"`
	TotalLiabilitiesAndEquity decimal.Decimal `json:"totalLiabilitiesAndEquity"`
	IsBalanced                bool            `json:"isBalanced"`
}

// ProfitLossReport sums revenue and expense balances. The period is echoed
// back; balances are all-time since the registry has no period closing.
type ProfitLossReport struct {
	PeriodStart       *time.Time      `json:"periodStart,omitempty"`
	PeriodEnd         *time.Time      `json:"periodEnd,omitempty"`
	Revenue           ReportSection   `json:"revenue"`
	CostOfGoodsSold   ReportSection   `json:"costOfGoodsSold"`
	OperatingExpenses ReportSection   `json:"operatingExpenses"`
	GrossProfit       decimal.Decimal `json:"grossProfit"`
	TotalExpenses     decimal.Decimal `json:"totalExpenses"`
	NetIncome         decimal.Decimal `json:"netIncome"`
}

// CashFlowCategoryTotal summarises one cash-flow statement section.
type CashFlowCategoryTotal struct {
	Category CashFlowCategory `json:"category"`
	Inflows  decimal.Decimal  `json:"inflows"`
	Outflows decimal.Decimal  `json:"outflows"`
	Net      decimal.Decimal  `json:"net"`
}

// CashFlowStatement sums cash-flow log records by category within a range.
type CashFlowStatement struct {
	PeriodStart   *time.Time              `json:"periodStart,omitempty"`
	PeriodEnd     *time.Time              `json:"periodEnd,omitempty"`
	Categories    []CashFlowCategoryTotal `json:"categories"`
	TotalInflows  decimal.Decimal         `json:"totalInflows"`
	TotalOutflows decimal.Decimal         `json:"totalOutflows"`
	NetCashFlow   decimal.Decimal         `json:"netCashFlow"`
}

// TrialBalanceRow represents a single row in a trial balance report
type TrialBalanceRow struct {
	AccountID   string          `json:"accountID"`
	Code        string          `json:"code"`
	AccountName string          `json:"accountName"`
	AccountType AccountType     `json:"accountType"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

// TrialBalanceReport lists every account on its normal side.
type TrialBalanceReport struct {
	Rows        []TrialBalanceRow `json:"rows"`
	TotalDebit  decimal.Decimal   `json:"totalDebit"`
	TotalCredit decimal.Decimal   `json:"totalCredit"`
	IsBalanced  bool              `json:"isBalanced"`
}

// ReconciliationReport lists accounts whose cached balance disagrees with history.
type ReconciliationReport struct {
	CheckedAccounts int                  `json:"checkedAccounts"`
	Discrepancies   []BalanceDiscrepancy `json:"discrepancies"`
	IsConsistent    bool                 `json:"isConsistent"`
}
