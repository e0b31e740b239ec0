package accounting_test

import (
	"testing"

	"github.com/ALANAK777/erp_finance_system/internal/core/domain"
	"github.com/ALANAK777/erp_finance_system/internal/utils/accounting"
	"github.com/stretchr/testify/assert"
)

func TestIsCurrentAsset(t *testing.T) {
	assert.True(t, accounting.IsCurrentAsset(domain.Account{Code: "1000", Name: "Cash"}))
	assert.True(t, accounting.IsCurrentAsset(domain.Account{Code: "1100", Name: "Accounts Receivable"}))
	assert.True(t, accounting.IsCurrentAsset(domain.Account{Code: "1450", Name: "Misc"}))
	assert.False(t, accounting.IsCurrentAsset(domain.Account{Code: "1500", Name: "Heavy Equipment"}))
	assert.False(t, accounting.IsCurrentAsset(domain.Account{Code: "1200", Name: "Site Vehicles"}))
	assert.False(t, accounting.IsCurrentAsset(domain.Account{Code: "1800", Name: "Misc"}))
}

func TestIsCurrentLiability(t *testing.T) {
	assert.True(t, accounting.IsCurrentLiability(domain.Account{Code: "2100", Name: "Accounts Payable"}))
	assert.False(t, accounting.IsCurrentLiability(domain.Account{Code: "2100", Name: "Long-Term Equipment Loan"}))
	assert.False(t, accounting.IsCurrentLiability(domain.Account{Code: "2700", Name: "Other"}))
}

func TestIsCostOfGoodsSold(t *testing.T) {
	assert.True(t, accounting.IsCostOfGoodsSold(domain.Account{Code: "5000", Name: "Cost of Goods Sold"}))
	assert.True(t, accounting.IsCostOfGoodsSold(domain.Account{Code: "6100", Name: "Subcontractor Costs"}))
	assert.False(t, accounting.IsCostOfGoodsSold(domain.Account{Code: "6000", Name: "Office Rent"}))
}
