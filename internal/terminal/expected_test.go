package terminal

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcfinanceiro/jcfinanceiro/internal/model"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestExpectedCredit(t *testing.T) {
	credit := fee(model.MethodCredit, "*", 2, 12, "3.5")
	credit.FixedFee = decimal.RequireFromString("0.50")
	sale := model.Sale{
		ID:           "s1",
		TerminalID:   "t1",
		Date:         date(2025, 1, 10),
		Gross:        decimal.NewFromInt(300),
		Discount:     decimal.Zero,
		Method:       model.MethodCredit,
		Installments: 3,
	}

	got, err := Expected(sale, FeeTable{credit})
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, date(2025, 2, 9), got[0].Date)
	assert.Equal(t, date(2025, 3, 11), got[1].Date)
	assert.Equal(t, date(2025, 4, 10), got[2].Date)
	assert.Equal(t, "4.00", got[0].Fee.StringFixed(2))
	assert.Equal(t, "96.00", got[0].Net.StringFixed(2))
	assert.Equal(t, "96.50", got[1].Net.StringFixed(2))
	assert.Equal(t, "289.00", TotalNet(got).StringFixed(2))
	assert.Equal(t, 3, got[2].Of)
}

func TestExpectedDebit(t *testing.T) {
	debit := fee(model.MethodDebit, "*", 1, 1, "1.99")
	debit.SettlementDays = 1
	sale := model.Sale{
		ID:       "s2",
		Date:     date(2025, 1, 31),
		Gross:    decimal.NewFromInt(110),
		Discount: decimal.NewFromInt(10),
		Method:   model.MethodDebit,
	}

	got, err := Expected(sale, FeeTable{debit})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, date(2025, 2, 1), got[0].Date)
	assert.Equal(t, "100.00", got[0].Gross.StringFixed(2))
	assert.Equal(t, "98.01", got[0].Net.StringFixed(2))
}

func TestExpectedErrors(t *testing.T) {
	_, err := Expected(model.Sale{Method: model.MethodPix}, nil)
	assert.Error(t, err)

	_, err = Expected(model.Sale{Method: model.MethodCredit, Installments: 2, Gross: decimal.NewFromInt(10)}, FeeTable{
		fee(model.MethodCredit, "*", 1, 1, "3"),
	})
	assert.Error(t, err, "no row covers two installments")
}

func TestFeeTableHorizon(t *testing.T) {
	table := FeeTable{
		fee(model.MethodDebit, "*", 1, 1, "1"),
		fee(model.MethodCredit, "*", 1, 12, "1"),
	}
	assert.Equal(t, 30+30*11, table.Horizon())
}
