package installments

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

func plan(total string, count int, first time.Time) Plan {
	return Plan{
		Kind:        model.EntryPayable,
		Description: "Compra de estoque",
		Total:       decimal.RequireFromString(total),
		Count:       count,
		FirstDue:    first,
	}
}

func TestGenerateSplitsTotal(t *testing.T) {
	tests := []struct {
		total string
		count int
		first string
		rest  string
	}{
		{"100.00", 3, "33.34", "33.33"},
		{"1000.00", 4, "250.00", "250.00"},
		{"10.00", 7, "1.48", "1.42"},
		{"0.05", 2, "0.03", "0.02"},
	}
	for _, tt := range tests {
		insts := Generate(plan(tt.total, tt.count, date(2025, 1, 10)))
		require.Len(t, insts, tt.count)
		assert.Equal(t, tt.first, insts[0].Amount.StringFixed(2), "total %s / %d", tt.total, tt.count)
		for _, inst := range insts[1:] {
			assert.Equal(t, tt.rest, inst.Amount.StringFixed(2))
		}
		assert.True(t, Sum(insts).Equal(decimal.RequireFromString(tt.total)), "sum of %s / %d", tt.total, tt.count)
	}
}

func TestGenerateMonthlyDates(t *testing.T) {
	insts := Generate(plan("400", 4, date(2025, 1, 31)))
	require.Len(t, insts, 4)
	assert.Equal(t, date(2025, 1, 31), insts[0].DueDate)
	assert.Equal(t, date(2025, 2, 28), insts[1].DueDate)
	assert.Equal(t, date(2025, 3, 31), insts[2].DueDate)
	assert.Equal(t, date(2025, 4, 30), insts[3].DueDate)
	for i, inst := range insts {
		assert.Equal(t, i+1, inst.Number)
	}

	leap := Generate(plan("200", 2, date(2024, 1, 30)))
	assert.Equal(t, date(2024, 2, 29), leap[1].DueDate)

	yearEnd := Generate(plan("200", 2, date(2025, 12, 15)))
	assert.Equal(t, date(2026, 1, 15), yearEnd[1].DueDate)
}

func TestGenerateOutOfRange(t *testing.T) {
	assert.Nil(t, Generate(plan("100", 0, date(2025, 1, 1))))
	assert.Nil(t, Generate(plan("100", 101, date(2025, 1, 1))))
	assert.Len(t, Generate(plan("100", 100, date(2025, 1, 1))), 100)
}

func TestValidate(t *testing.T) {
	today := date(2025, 1, 10)

	ok := plan("300", 3, today)
	assert.Empty(t, Validate(ok, Generate(ok), today))

	tests := []struct {
		name  string
		p     Plan
		edit  func([]Installment) []Installment
		field string
	}{
		{"one installment", plan("100", 1, today), nil, "count"},
		{"too many", plan("1000", 101, today), nil, "count"},
		{"zero total", plan("0", 2, today), nil, "total"},
		{"three places", plan("10.005", 2, today), nil, "total"},
		{"past date", plan("100", 2, date(2025, 1, 9)), nil, "installments[0].due_date"},
		{"no description", Plan{Kind: model.EntryPayable, Total: decimal.NewFromInt(10), Count: 2, FirstDue: today}, nil, "description"},
		{"bad kind", Plan{Kind: "transfer", Description: "x", Total: decimal.NewFromInt(10), Count: 2, FirstDue: today}, nil, "kind"},
		{"zero installment", plan("100", 2, today), func(in []Installment) []Installment {
			in[1].Amount = decimal.Zero
			return in
		}, "installments[1].amount"},
		{"edited into the past", plan("100", 2, today), func(in []Installment) []Installment {
			in[1].DueDate = date(2024, 12, 31)
			return in
		}, "installments[1].due_date"},
		{"dropped installment", plan("100", 3, today), func(in []Installment) []Installment {
			return in[:2]
		}, "installments"},
	}
	for _, tt := range tests {
		insts := Generate(tt.p)
		if tt.edit != nil {
			insts = tt.edit(insts)
		}
		errs := Validate(tt.p, insts, today)
		assert.True(t, errs.Has(tt.field), "%s: %v", tt.name, errs)
	}
}

func TestEntries(t *testing.T) {
	p := plan("100", 3, date(2025, 2, 5))
	p.CategoryID = "cat"
	p.ContactID = "sup"
	now := time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)

	entries := Entries(p, Generate(p), "batch-1", now)
	require.Len(t, entries, 3)
	assert.Equal(t, "Compra de estoque (1/3)", entries[0].Description)
	assert.Equal(t, "Compra de estoque (3/3)", entries[2].Description)
	for i, e := range entries {
		assert.Equal(t, "batch-1", e.BatchID)
		assert.Equal(t, i+1, e.InstallmentNumber)
		assert.Equal(t, 3, e.InstallmentTotal)
		assert.Equal(t, model.StatusPending, e.Status)
		assert.Equal(t, "cat", e.CategoryID)
		assert.Equal(t, e.DueDate, e.CompetenceDate)
		assert.NotEmpty(t, e.ID)
	}
	assert.NotEqual(t, entries[0].ID, entries[1].ID)
}
