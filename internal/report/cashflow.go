package report

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jcfinanceiro/jcfinanceiro/internal/dateutil"
	"github.com/jcfinanceiro/jcfinanceiro/internal/model"
	"github.com/jcfinanceiro/jcfinanceiro/internal/validation"
)

// Granularity is the bucket size of a cash-flow report.
type Granularity string

const (
	Daily   Granularity = "day"
	Monthly Granularity = "month"
)

// Valid reports whether g is a known granularity.
func (g Granularity) Valid() bool {
	return g == Daily || g == Monthly
}

// maxDailyBuckets bounds daily reports.
const maxDailyBuckets = 366

// CashFlowRow is one bucket of the cash flow. Realized columns come from
// paid entries by payment date; projected columns from open entries by due
// date. ProjectedBalance is the realized balance plus everything projected
// so far.
type CashFlowRow struct {
	Key              string          `json:"key"`
	Start            time.Time       `json:"start"`
	Inflow           decimal.Decimal `json:"inflow"`
	Outflow          decimal.Decimal `json:"outflow"`
	Net              decimal.Decimal `json:"net"`
	Balance          decimal.Decimal `json:"balance"`
	ProjectedInflow  decimal.Decimal `json:"projected_inflow"`
	ProjectedOutflow decimal.Decimal `json:"projected_outflow"`
	ProjectedNet     decimal.Decimal `json:"projected_net"`
	ProjectedBalance decimal.Decimal `json:"projected_balance"`
}

// CashFlow is a cash-flow statement.
type CashFlow struct {
	Period           Period          `json:"period"`
	Granularity      Granularity     `json:"granularity"`
	OpeningBalance   decimal.Decimal `json:"opening_balance"`
	Rows             []CashFlowRow   `json:"rows"`
	TotalInflow      decimal.Decimal `json:"total_inflow"`
	TotalOutflow     decimal.Decimal `json:"total_outflow"`
	ClosingBalance   decimal.Decimal `json:"closing_balance"`
	ProjectedClosing decimal.Decimal `json:"projected_closing"`
}

// BuildCashFlow buckets entries between from and to.
func BuildCashFlow(entries []model.Entry, opening decimal.Decimal, from, to time.Time, g Granularity) (CashFlow, error) {
	p := Period{From: dateutil.Day(from), To: dateutil.Day(to)}
	if err := p.Validate(); err != nil {
		return CashFlow{}, err
	}
	if !g.Valid() {
		return CashFlow{}, fmt.Errorf("unknown granularity %q", g)
	}

	starts := bucketStarts(p, g)
	if g == Daily && len(starts) > maxDailyBuckets {
		var errs validation.Errors
		errs.Add("period", "fluxo diário limitado a %d dias", maxDailyBuckets)
		return CashFlow{}, errs
	}
	rows := make([]CashFlowRow, len(starts))
	index := make(map[string]int, len(starts))
	for i, s := range starts {
		k := bucketKey(s, g)
		rows[i] = CashFlowRow{
			Key: k, Start: s,
			Inflow: decimal.Zero, Outflow: decimal.Zero, Net: decimal.Zero, Balance: decimal.Zero,
			ProjectedInflow: decimal.Zero, ProjectedOutflow: decimal.Zero, ProjectedNet: decimal.Zero, ProjectedBalance: decimal.Zero,
		}
		index[k] = i
	}

	for _, e := range entries {
		switch {
		case e.Status == model.StatusPaid && e.PaidAt != nil:
			if !dateutil.Within(*e.PaidAt, p.From, p.To) {
				continue
			}
			r := &rows[index[bucketKey(*e.PaidAt, g)]]
			if e.Kind == model.EntryReceivable {
				r.Inflow = r.Inflow.Add(e.PaidAmount)
			} else {
				r.Outflow = r.Outflow.Add(e.PaidAmount)
			}
		case e.Status.Open():
			if !dateutil.Within(e.DueDate, p.From, p.To) {
				continue
			}
			r := &rows[index[bucketKey(e.DueDate, g)]]
			if e.Kind == model.EntryReceivable {
				r.ProjectedInflow = r.ProjectedInflow.Add(e.Amount)
			} else {
				r.ProjectedOutflow = r.ProjectedOutflow.Add(e.Amount)
			}
		}
	}

	cf := CashFlow{
		Period:         p,
		Granularity:    g,
		OpeningBalance: opening,
		TotalInflow:    decimal.Zero,
		TotalOutflow:   decimal.Zero,
	}
	balance, projected := opening, opening
	for i := range rows {
		r := &rows[i]
		r.Net = r.Inflow.Sub(r.Outflow)
		r.ProjectedNet = r.ProjectedInflow.Sub(r.ProjectedOutflow)
		balance = balance.Add(r.Net)
		projected = projected.Add(r.Net).Add(r.ProjectedNet)
		r.Balance = balance
		r.ProjectedBalance = projected
		cf.TotalInflow = cf.TotalInflow.Add(r.Inflow)
		cf.TotalOutflow = cf.TotalOutflow.Add(r.Outflow)
	}
	cf.Rows = rows
	cf.ClosingBalance = balance
	cf.ProjectedClosing = projected
	return cf, nil
}

func bucketStarts(p Period, g Granularity) []time.Time {
	if g == Monthly {
		return dateutil.Months(p.From, p.To)
	}
	var out []time.Time
	for d := p.From; !d.After(p.To); d = d.AddDate(0, 0, 1) {
		out = append(out, d)
	}
	return out
}

func bucketKey(t time.Time, g Granularity) string {
	if g == Monthly {
		return dateutil.MonthKey(t)
	}
	return dateutil.Format(t)
}
