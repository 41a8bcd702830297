// Package report builds the income statement (DRE), cash-flow and dashboard
// figures from entries.
package report

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jcfinanceiro/jcfinanceiro/internal/categories"
	"github.com/jcfinanceiro/jcfinanceiro/internal/dateutil"
	"github.com/jcfinanceiro/jcfinanceiro/internal/model"
)

var hundred = decimal.NewFromInt(100)

// Basis selects which date and amount an entry contributes with.
type Basis string

const (
	// BasisCompetence uses the competence date and the entry amount of
	// pending, overdue and paid entries.
	BasisCompetence Basis = "competence"
	// BasisCash uses the payment date and the paid amount of paid entries.
	BasisCash Basis = "cash"
)

// Valid reports whether b is a known basis.
func (b Basis) Valid() bool {
	return b == BasisCompetence || b == BasisCash
}

// Period is an inclusive date range.
type Period struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// Validate checks that both bounds are set and ordered.
func (p Period) Validate() error {
	if p.From.IsZero() || p.To.IsZero() {
		return fmt.Errorf("period needs both bounds")
	}
	if p.To.Before(p.From) {
		return fmt.Errorf("period ends before it starts")
	}
	return nil
}

// Contribution returns the date and amount e contributes under basis, and
// whether it contributes at all.
func Contribution(e model.Entry, basis Basis) (time.Time, decimal.Decimal, bool) {
	switch basis {
	case BasisCash:
		if e.Status != model.StatusPaid || e.PaidAt == nil {
			return time.Time{}, decimal.Zero, false
		}
		return *e.PaidAt, e.PaidAmount, true
	default:
		if e.Status == model.StatusCancelled {
			return time.Time{}, decimal.Zero, false
		}
		return e.CompetenceDate, e.Amount, true
	}
}

// LineKind tells group lines from computed subtotals.
type LineKind string

const (
	LineGroup    LineKind = "group"
	LineSubtotal LineKind = "subtotal"
)

// CategoryAmount is the detail of one category within a group line.
type CategoryAmount struct {
	CategoryID string                     `json:"category_id"`
	Code       string                     `json:"code"`
	Name       string                     `json:"name"`
	Total      decimal.Decimal            `json:"total"`
	Months     map[string]decimal.Decimal `json:"months"`
}

// Line is one row of the income statement.
type Line struct {
	Key        string                     `json:"key"`
	Label      string                     `json:"label"`
	Kind       LineKind                   `json:"kind"`
	Total      decimal.Decimal            `json:"total"`
	Months     map[string]decimal.Decimal `json:"months"`
	Categories []CategoryAmount           `json:"categories,omitempty"`
}

// DRE is an income statement over a period.
type DRE struct {
	Period       Period          `json:"period"`
	Basis        Basis           `json:"basis"`
	Months       []string        `json:"months"`
	Lines        []Line          `json:"lines"`
	GrossMargin  decimal.Decimal `json:"gross_margin"` // percent of net revenue
	NetMargin    decimal.Decimal `json:"net_margin"`
	Unclassified decimal.Decimal `json:"unclassified"` // net of entries without a DRE group, payables negative
}

// Line returns the line with key, or a zero Line.
func (d DRE) Line(key string) Line {
	for _, l := range d.Lines {
		if l.Key == key {
			return l
		}
	}
	return Line{}
}

// Line keys of computed subtotals.
const (
	KeyNetRevenue      = "net_revenue"
	KeyGrossProfit     = "gross_profit"
	KeyResultBeforeTax = "result_before_tax"
	KeyNetIncome       = "net_income"
)

type term struct {
	key  string
	sign int64
}

// layout is the statement, top to bottom. Subtotals list their terms.
var layout = []struct {
	key   string
	label string
	terms []term
}{
	{key: string(model.DREGrossRevenue), label: "Receita Bruta"},
	{key: string(model.DREDeductions), label: "(-) Deduções"},
	{key: KeyNetRevenue, label: "= Receita Líquida", terms: []term{{string(model.DREGrossRevenue), 1}, {string(model.DREDeductions), -1}}},
	{key: string(model.DRECosts), label: "(-) Custos"},
	{key: KeyGrossProfit, label: "= Lucro Bruto", terms: []term{{KeyNetRevenue, 1}, {string(model.DRECosts), -1}}},
	{key: string(model.DREOperatingExpenses), label: "(-) Despesas Operacionais"},
	{key: string(model.DREFinancialIncome), label: "(+) Receitas Financeiras"},
	{key: string(model.DREFinancialExpenses), label: "(-) Despesas Financeiras"},
	{key: string(model.DREOtherIncome), label: "(+) Outras Receitas"},
	{key: string(model.DREOtherExpenses), label: "(-) Outras Despesas"},
	{key: KeyResultBeforeTax, label: "= Resultado antes do IR/CSLL", terms: []term{
		{KeyGrossProfit, 1},
		{string(model.DREOperatingExpenses), -1},
		{string(model.DREFinancialIncome), 1},
		{string(model.DREFinancialExpenses), -1},
		{string(model.DREOtherIncome), 1},
		{string(model.DREOtherExpenses), -1},
	}},
	{key: string(model.DREIncomeTax), label: "(-) IR/CSLL"},
	{key: KeyNetIncome, label: "= Lucro Líquido", terms: []term{{KeyResultBeforeTax, 1}, {string(model.DREIncomeTax), -1}}},
}

// BuildDRE builds the income statement of entries over p. Group lines hold
// positive amounts per category; subtotals combine them with their signs.
// An entry whose kind runs against its group (a receivable booked on an
// expense group) reduces that group.
func BuildDRE(entries []model.Entry, tree *categories.Tree, p Period, basis Basis) DRE {
	months := monthKeys(p)
	d := DRE{Period: p, Basis: basis, Months: months, Unclassified: decimal.Zero}

	type acc struct {
		total  decimal.Decimal
		months map[string]decimal.Decimal
	}
	groups := make(map[string]map[string]*acc) // group -> category -> amounts

	for _, e := range entries {
		date, amount, ok := Contribution(e, basis)
		if !ok || !dateutil.Within(date, p.From, p.To) {
			continue
		}
		group := tree.GroupOf(e.CategoryID)
		if e.CategoryID == "" || group == model.DRENone || group == "" {
			d.Unclassified = d.Unclassified.Add(e.SignedAmount(amount))
			continue
		}
		if e.Kind.CategoryType() != group.CategoryType() {
			amount = amount.Neg()
		}
		cats := groups[string(group)]
		if cats == nil {
			cats = make(map[string]*acc)
			groups[string(group)] = cats
		}
		a := cats[e.CategoryID]
		if a == nil {
			a = &acc{total: decimal.Zero, months: zeroMonths(months)}
			cats[e.CategoryID] = a
		}
		a.total = a.total.Add(amount)
		key := dateutil.MonthKey(date)
		a.months[key] = a.months[key].Add(amount)
	}

	byKey := make(map[string]Line)
	for _, row := range layout {
		line := Line{Key: row.key, Label: row.label, Total: decimal.Zero, Months: zeroMonths(months)}
		if row.terms == nil {
			line.Kind = LineGroup
			for catID, a := range groups[row.key] {
				cat, _ := tree.Get(catID)
				line.Categories = append(line.Categories, CategoryAmount{
					CategoryID: catID, Code: cat.Code, Name: cat.Name, Total: a.total, Months: a.months,
				})
				line.Total = line.Total.Add(a.total)
				for k, v := range a.months {
					line.Months[k] = line.Months[k].Add(v)
				}
			}
			sort.Slice(line.Categories, func(i, j int) bool {
				return line.Categories[i].Code < line.Categories[j].Code
			})
		} else {
			line.Kind = LineSubtotal
			for _, t := range row.terms {
				src := byKey[t.key]
				sign := decimal.NewFromInt(t.sign)
				line.Total = line.Total.Add(src.Total.Mul(sign))
				for k, v := range src.Months {
					line.Months[k] = line.Months[k].Add(v.Mul(sign))
				}
			}
		}
		byKey[row.key] = line
		d.Lines = append(d.Lines, line)
	}

	d.GrossMargin = percent(byKey[KeyGrossProfit].Total, byKey[KeyNetRevenue].Total)
	d.NetMargin = percent(byKey[KeyNetIncome].Total, byKey[KeyNetRevenue].Total)
	return d
}

func percent(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return part.Mul(hundred).Div(whole).Round(2)
}

func monthKeys(p Period) []string {
	var keys []string
	for _, m := range dateutil.Months(p.From, p.To) {
		keys = append(keys, dateutil.MonthKey(m))
	}
	return keys
}

func zeroMonths(keys []string) map[string]decimal.Decimal {
	m := make(map[string]decimal.Decimal, len(keys))
	for _, k := range keys {
		m[k] = decimal.Zero
	}
	return m
}
