package model

// CategoryType splits the chart into income and expense branches.
type CategoryType string

const (
	CategoryIncome  CategoryType = "income"
	CategoryExpense CategoryType = "expense"
)

// Valid reports whether t is a known category type.
func (t CategoryType) Valid() bool {
	return t == CategoryIncome || t == CategoryExpense
}

// DREGroup places a category on a line of the income statement.
type DREGroup string

const (
	DREGrossRevenue      DREGroup = "gross_revenue"
	DREDeductions        DREGroup = "deductions"
	DRECosts             DREGroup = "costs"
	DREOperatingExpenses DREGroup = "operating_expenses"
	DREFinancialIncome   DREGroup = "financial_income"
	DREFinancialExpenses DREGroup = "financial_expenses"
	DREOtherIncome       DREGroup = "other_income"
	DREOtherExpenses     DREGroup = "other_expenses"
	DREIncomeTax         DREGroup = "income_tax"
	DRENone              DREGroup = "none"
)

// CategoryType returns the category type a group belongs to, or "" for DRENone.
func (g DREGroup) CategoryType() CategoryType {
	switch g {
	case DREGrossRevenue, DREFinancialIncome, DREOtherIncome:
		return CategoryIncome
	case DREDeductions, DRECosts, DREOperatingExpenses, DREFinancialExpenses, DREOtherExpenses, DREIncomeTax:
		return CategoryExpense
	}
	return ""
}

// Valid reports whether g is a known group.
func (g DREGroup) Valid() bool {
	return g == DRENone || g.CategoryType() != ""
}

// Category is a node of the chart of categories (plano de contas).
type Category struct {
	ID       string       `json:"id"`
	Code     string       `json:"code"` // "3.1.02"
	Name     string       `json:"name"`
	Type     CategoryType `json:"type"`
	ParentID string       `json:"parent_id,omitempty"` // "" = top-level
	DREGroup DREGroup     `json:"dre_group"`
	Active   bool         `json:"active"`
}
