package dto

import "time"

// BalanceSheetParams selects the balance sheet date. Empty means current balances.
type BalanceSheetParams struct {
	AsOf *time.Time `form:"asOf" time_format:"2006-01-02"`
}
