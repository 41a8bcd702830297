package categories

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcfinanceiro/jcfinanceiro/internal/id"
	"github.com/jcfinanceiro/jcfinanceiro/internal/model"
)

func TestRoundTrip(t *testing.T) {
	cats := []model.Category{
		{Code: "4", Name: "Despesas Operacionais", Type: model.CategoryExpense, DREGroup: model.DREOperatingExpenses},
		{Code: "4.1.01", Name: "Aluguel, condomínio", Type: model.CategoryExpense, DREGroup: model.DREOperatingExpenses},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCategories(&buf, cats))

	got, err := ReadCategories(&buf)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "4.1.01", got[1].Code)
	assert.Equal(t, "Aluguel, condomínio", got[1].Name)
	assert.Equal(t, model.CategoryExpense, got[1].Type)
	assert.Equal(t, model.DREOperatingExpenses, got[1].DREGroup)
	assert.True(t, got[1].Active)
}

func TestReadCategoriesErrors(t *testing.T) {
	tests := []struct {
		name string
		csv  string
	}{
		{"bad code", "code,name,type,dre_group\n4.x,Aluguel,expense,none\n"},
		{"bad type", "code,name,type,dre_group\n4,Aluguel,asset,none\n"},
		{"bad group", "code,name,type,dre_group\n4,Aluguel,expense,ebitda\n"},
		{"wrong fields", "code,name,type,dre_group\n4,Aluguel\n"},
	}
	for _, tt := range tests {
		_, err := ReadCategories(strings.NewReader(tt.csv))
		assert.Error(t, err, tt.name)
	}
}

func TestEmptyGroupDefaultsToNone(t *testing.T) {
	got, err := ReadCategories(strings.NewReader("code,name,type,dre_group\n9,Transferências,expense,\n"))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, model.DRENone, got[0].DREGroup)
}

func TestDefaultChart(t *testing.T) {
	chart := DefaultChart()
	require.NotEmpty(t, chart)

	codes := make(map[string]model.Category)
	for _, c := range chart {
		segments, err := id.ParseCode(c.Code)
		require.NoError(t, err, c.Code)
		assert.Equal(t, c.Code, id.FormatCode(segments), "code %s is not canonical", c.Code)
		assert.True(t, c.DREGroup.Valid(), c.Code)
		if gt := c.DREGroup.CategoryType(); gt != "" {
			assert.Equal(t, c.Type, gt, "group of %s", c.Code)
		}
		codes[c.Code] = c
	}
	for _, c := range chart {
		if pc := id.ParentCode(c.Code); pc != "" {
			parent, ok := codes[pc]
			require.True(t, ok, "parent of %s", c.Code)
			assert.Equal(t, parent.Type, c.Type, "type of %s", c.Code)
		}
	}

	for _, g := range []model.DREGroup{
		model.DREGrossRevenue, model.DREDeductions, model.DRECosts, model.DREOperatingExpenses,
		model.DREFinancialIncome, model.DREFinancialExpenses, model.DREOtherIncome,
		model.DREOtherExpenses, model.DREIncomeTax,
	} {
		found := false
		for _, c := range chart {
			if c.DREGroup == g {
				found = true
			}
		}
		assert.True(t, found, "no category for %s", g)
	}
}
