package handlers

import (
	"regexp"
	"sync"

	"github.com/ALANAK777/erp_finance_system/internal/core/domain"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var accountCodePattern = regexp.MustCompile(`^[0-9A-Za-z][0-9A-Za-z.\-]{0,19}$`)

var registerValidatorsOnce sync.Once

// RegisterValidators adds the custom binding tags used by the request DTOs.
func RegisterValidators() {
	registerValidatorsOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("decimal_gte0", decimalGTE0)
		_ = v.RegisterValidation("decimal_gt0", decimalGT0)
		_ = v.RegisterValidation("account_code", accountCode)
	})
}

func decimalFromField(fl validator.FieldLevel) (decimal.Decimal, bool) {
	switch d := fl.Field().Interface().(type) {
	case decimal.Decimal:
		return d, true
	case *decimal.Decimal:
		if d == nil {
			return decimal.Zero, false
		}
		return *d, true
	}
	return decimal.Zero, false
}

func decimalGTE0(fl validator.FieldLevel) bool {
	d, ok := decimalFromField(fl)
	return ok && !d.IsNegative() && domain.FitsAmountScale(d)
}

func decimalGT0(fl validator.FieldLevel) bool {
	d, ok := decimalFromField(fl)
	return ok && d.IsPositive() && domain.FitsAmountScale(d)
}

func accountCode(fl validator.FieldLevel) bool {
	return accountCodePattern.MatchString(fl.Field().String())
}
