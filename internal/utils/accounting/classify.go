package accounting

import (
	"strings"

	"github.com/ALANAK777/erp_finance_system/internal/core/domain"
)

// Name fragments and code prefixes used to split statement sections. These
// are approximations: the chart of accounts carries no explicit sub-type.
var (
	currentAssetHints     = []string{"cash", "bank", "receivable", "inventory", "prepaid", "retention receivable", "short-term"}
	fixedAssetHints       = []string{"equipment", "machinery", "vehicle", "building", "land", "property", "depreciation", "fixed"}
	currentLiabilityHints = []string{"payable", "accrued", "short-term", "current", "tax", "wages", "retention payable"}
	longTermHints         = []string{"long-term", "loan", "mortgage", "bond", "note payable"}
	costOfGoodsHints      = []string{"cost of goods", "cogs", "cost of sales", "material", "subcontract", "direct labor", "equipment rental"}
)

func containsAny(name string, hints []string) bool {
	lower := strings.ToLower(name)
	for _, hint := range hints {
		if strings.Contains(lower, hint) {
			return true
		}
	}
	return false
}

// IsCurrentAsset classifies an ASSET account as current (true) or fixed (false).
// Explicit fixed-asset names win; otherwise codes 1000-1499 and current-asset
// names are current, and everything else is fixed.
func IsCurrentAsset(acc domain.Account) bool {
	if containsAny(acc.Name, fixedAssetHints) {
		return false
	}
	if containsAny(acc.Name, currentAssetHints) {
		return true
	}
	return codeInRange(acc.Code, "10", "14")
}

// IsCurrentLiability classifies a LIABILITY account as current (true) or long-term (false).
func IsCurrentLiability(acc domain.Account) bool {
	if containsAny(acc.Name, longTermHints) {
		return false
	}
	if containsAny(acc.Name, currentLiabilityHints) {
		return true
	}
	return codeInRange(acc.Code, "20", "24")
}

// IsCostOfGoodsSold classifies an EXPENSE account as COGS-like (true) or operating (false).
func IsCostOfGoodsSold(acc domain.Account) bool {
	if containsAny(acc.Name, costOfGoodsHints) {
		return true
	}
	return strings.HasPrefix(acc.Code, "50")
}

// codeInRange reports whether the two-character prefix of code lies in [lo, hi].
func codeInRange(code, lo, hi string) bool {
	if len(code) < 2 {
		return false
	}
	prefix := code[:2]
	return prefix >= lo && prefix <= hi
}
