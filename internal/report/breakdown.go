package report

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jcfinanceiro/jcfinanceiro/internal/categories"
	"github.com/jcfinanceiro/jcfinanceiro/internal/dateutil"
	"github.com/jcfinanceiro/jcfinanceiro/internal/model"
)

// CategoryTotal is one row of a breakdown by category.
type CategoryTotal struct {
	CategoryID string          `json:"category_id"`
	Code       string          `json:"code"`
	Name       string          `json:"name"`
	Total      decimal.Decimal `json:"total"`
	Count      int             `json:"count"`
	Share      decimal.Decimal `json:"share"` // percent of the breakdown total
}

// Breakdown totals entries of one kind per category.
type Breakdown struct {
	Kind       model.EntryKind `json:"kind"`
	Period     Period          `json:"period"`
	Basis      Basis           `json:"basis"`
	Total      decimal.Decimal `json:"total"`
	Categories []CategoryTotal `json:"categories"`
}

// ByCategory totals entries of kind per category over p, largest first.
// Entries without a category are reported under an empty CategoryID.
func ByCategory(entries []model.Entry, tree *categories.Tree, kind model.EntryKind, p Period, basis Basis) Breakdown {
	b := Breakdown{Kind: kind, Period: p, Basis: basis, Total: decimal.Zero}
	rows := make(map[string]*CategoryTotal)
	for _, e := range entries {
		if e.Kind != kind {
			continue
		}
		date, amount, ok := Contribution(e, basis)
		if !ok || !dateutil.Within(date, p.From, p.To) {
			continue
		}
		row := rows[e.CategoryID]
		if row == nil {
			row = &CategoryTotal{CategoryID: e.CategoryID, Name: "Sem categoria", Total: decimal.Zero}
			if cat, ok := tree.Get(e.CategoryID); ok {
				row.Code, row.Name = cat.Code, cat.Name
			}
			rows[e.CategoryID] = row
		}
		row.Total = row.Total.Add(amount)
		row.Count++
		b.Total = b.Total.Add(amount)
	}

	for _, row := range rows {
		row.Share = percent(row.Total, b.Total)
		b.Categories = append(b.Categories, *row)
	}
	sort.Slice(b.Categories, func(i, j int) bool {
		if c := b.Categories[i].Total.Cmp(b.Categories[j].Total); c != 0 {
			return c > 0
		}
		return b.Categories[i].Code < b.Categories[j].Code
	})
	return b
}

// Dashboard holds the headline figures of the home screen.
type Dashboard struct {
	Today                  time.Time       `json:"today"`
	PayablePending         decimal.Decimal `json:"payable_pending"`
	ReceivablePending      decimal.Decimal `json:"receivable_pending"`
	PayableOverdue         decimal.Decimal `json:"payable_overdue"`
	ReceivableOverdue      decimal.Decimal `json:"receivable_overdue"`
	PayableOverdueCount    int             `json:"payable_overdue_count"`
	ReceivableOverdueCount int             `json:"receivable_overdue_count"`
	PayableDueSoon         decimal.Decimal `json:"payable_due_soon"` // next 7 days
	ReceivableDueSoon      decimal.Decimal `json:"receivable_due_soon"`
	PaidThisMonth          decimal.Decimal `json:"paid_this_month"`
	ReceivedThisMonth      decimal.Decimal `json:"received_this_month"`
}

// DueSoonDays is the horizon of the "due soon" totals.
const DueSoonDays = 7

// BuildDashboard computes the dashboard as of today. Pending totals cover
// every open entry, overdue ones included.
func BuildDashboard(entries []model.Entry, today time.Time) Dashboard {
	today = dateutil.Day(today)
	soon := today.AddDate(0, 0, DueSoonDays)
	monthStart, monthEnd := dateutil.StartOfMonth(today), dateutil.EndOfMonth(today)

	d := Dashboard{
		Today:             today,
		PayablePending:    decimal.Zero,
		ReceivablePending: decimal.Zero,
		PayableOverdue:    decimal.Zero,
		ReceivableOverdue: decimal.Zero,
		PayableDueSoon:    decimal.Zero,
		ReceivableDueSoon: decimal.Zero,
		PaidThisMonth:     decimal.Zero,
		ReceivedThisMonth: decimal.Zero,
	}
	for _, e := range entries {
		recv := e.Kind == model.EntryReceivable
		switch status := e.StatusAt(today); {
		case status == model.StatusPaid:
			if e.PaidAt == nil || !dateutil.Within(*e.PaidAt, monthStart, monthEnd) {
				continue
			}
			if recv {
				d.ReceivedThisMonth = d.ReceivedThisMonth.Add(e.PaidAmount)
			} else {
				d.PaidThisMonth = d.PaidThisMonth.Add(e.PaidAmount)
			}
		case status.Open():
			if recv {
				d.ReceivablePending = d.ReceivablePending.Add(e.Amount)
			} else {
				d.PayablePending = d.PayablePending.Add(e.Amount)
			}
			if status == model.StatusOverdue {
				if recv {
					d.ReceivableOverdue = d.ReceivableOverdue.Add(e.Amount)
					d.ReceivableOverdueCount++
				} else {
					d.PayableOverdue = d.PayableOverdue.Add(e.Amount)
					d.PayableOverdueCount++
				}
			} else if !e.DueDate.After(soon) {
				if recv {
					d.ReceivableDueSoon = d.ReceivableDueSoon.Add(e.Amount)
				} else {
					d.PayableDueSoon = d.PayableDueSoon.Add(e.Amount)
				}
			}
		}
	}
	return d
}
