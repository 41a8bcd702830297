package terminal

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcfinanceiro/jcfinanceiro/internal/model"
)

func fee(method model.PaymentMethod, brand string, from, to int, rate string) model.TerminalFee {
	return model.TerminalFee{
		ID:               brand + rate,
		Method:           method,
		Brand:            brand,
		InstallmentsFrom: from,
		InstallmentsTo:   to,
		RatePercent:      decimal.RequireFromString(rate),
		FixedFee:         decimal.Zero,
		SettlementDays:   30,
	}
}

func TestFeeTableFind(t *testing.T) {
	table := FeeTable{
		fee(model.MethodDebit, model.AnyBrand, 1, 1, "1.99"),
		fee(model.MethodCredit, model.AnyBrand, 1, 12, "4.99"),
		fee(model.MethodCredit, model.AnyBrand, 1, 1, "3.19"),
		fee(model.MethodCredit, "elo", 1, 12, "5.49"),
	}

	tests := []struct {
		name   string
		method model.PaymentMethod
		brand  string
		n      int
		rate   string
		found  bool
	}{
		{"debit any brand", model.MethodDebit, "visa", 1, "1.99", true},
		{"narrowest credit range", model.MethodCredit, "visa", 1, "3.19", true},
		{"wide credit range", model.MethodCredit, "master", 6, "4.99", true},
		{"exact brand wins", model.MethodCredit, "ELO", 1, "5.49", true},
		{"out of range", model.MethodCredit, "visa", 13, "", false},
		{"no row for method", model.MethodPix, "", 1, "", false},
	}
	for _, tt := range tests {
		got, ok := table.Find(tt.method, tt.brand, tt.n)
		require.Equal(t, tt.found, ok, tt.name)
		if ok {
			assert.Equal(t, tt.rate, got.RatePercent.String(), tt.name)
		}
	}
}

func TestValidateFees(t *testing.T) {
	ok := []model.TerminalFee{
		fee(model.MethodDebit, "*", 1, 1, "1.99"),
		fee(model.MethodCredit, "*", 1, 1, "3.19"),
		fee(model.MethodCredit, "*", 2, 12, "4.99"),
	}
	assert.Empty(t, ValidateFees(ok))

	bad := []model.TerminalFee{
		fee(model.MethodPix, "*", 1, 1, "1"),
		fee(model.MethodDebit, "*", 1, 3, "1"),
		fee(model.MethodCredit, "*", 3, 2, "1"),
		fee(model.MethodCredit, "*", 1, 13, "1"),
		fee(model.MethodCredit, "visa", 1, 1, "101"),
		fee(model.MethodCredit, "visa", 1, 6, "2"),
	}
	errs := ValidateFees(bad)
	assert.True(t, errs.Has("fees[0].method"))
	assert.True(t, errs.Has("fees[1].installments"))
	assert.True(t, errs.Has("fees[2].installments"))
	assert.True(t, errs.Has("fees[3].installments"))
	assert.True(t, errs.Has("fees[4].rate_percent"))
	assert.True(t, errs.Has("fees[5].installments"), "overlaps row 5")
}

func TestNormalizeBrand(t *testing.T) {
	assert.Equal(t, "visa", NormalizeBrand(" VISA "))
	assert.Equal(t, model.AnyBrand, NormalizeBrand(""))
}
