package terminal

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jcfinanceiro/jcfinanceiro/internal/dateutil"
	"github.com/jcfinanceiro/jcfinanceiro/internal/model"
)

// divergenceLimit bounds how far a deposit may be from its settlement and
// still be reported as divergent rather than unrelated.
var divergenceLimit = decimal.RequireFromString("0.10")

// Options tunes the matcher.
type Options struct {
	ToleranceDays   int
	ToleranceAmount decimal.Decimal
	GroupByDay      bool // match same-day settlements to one summed deposit
}

// Match pairs expected settlements with the deposit that paid them.
type Match struct {
	Expected   []Settlement          `json:"expected"`
	Deposit    model.BankTransaction `json:"deposit"`
	Difference decimal.Decimal       `json:"difference"` // deposit minus expected net
	DaysOff    int                   `json:"days_off"`
	Grouped    bool                  `json:"grouped"`
}

// Result is the outcome of a reconciliation.
type Result struct {
	Matched        []Match                 `json:"matched"`
	Divergent      []Match                 `json:"divergent"`
	Missing        []Settlement            `json:"missing"`
	Unexpected     []model.BankTransaction `json:"unexpected"`
	TotalExpected  decimal.Decimal         `json:"total_expected"`
	TotalDeposited decimal.Decimal         `json:"total_deposited"`
	Difference     decimal.Decimal         `json:"difference"`
}

// unit is one or more settlements matched as a whole.
type unit struct {
	idx  []int
	date time.Time
	net  decimal.Decimal
}

type candidate struct {
	unit, deposit int
	amountOff     decimal.Decimal
	daysOff       int
}

// Reconcile matches expected settlements against deposits. Settlements are
// first matched one to one, preferring the closest amount and then the
// closest date. With GroupByDay, the remaining settlements of the same
// terminal and date are then summed and matched to a single deposit. What is
// left is checked for divergence: a deposit within the date tolerance whose
// amount differs by more than the tolerance but no more than 10%.
func Reconcile(expected []Settlement, deposits []model.BankTransaction, opt Options) Result {
	res := Result{
		TotalExpected:  TotalNet(expected),
		TotalDeposited: decimal.Zero,
	}
	for _, d := range deposits {
		res.TotalDeposited = res.TotalDeposited.Add(d.Amount)
	}
	res.Difference = res.TotalDeposited.Sub(res.TotalExpected)

	usedExp := make([]bool, len(expected))
	usedDep := make([]bool, len(deposits))

	within := func(u unit, d model.BankTransaction) (decimal.Decimal, int, bool) {
		days := dateutil.AbsDays(u.date, d.Date)
		return d.Amount.Sub(u.net).Abs(), days, days <= opt.ToleranceDays
	}
	exact := func(u unit, d model.BankTransaction) (decimal.Decimal, int, bool) {
		off, days, ok := within(u, d)
		return off, days, ok && off.LessThanOrEqual(opt.ToleranceAmount)
	}
	divergent := func(u unit, d model.BankTransaction) (decimal.Decimal, int, bool) {
		off, days, ok := within(u, d)
		limit := u.net.Abs().Mul(divergenceLimit)
		return off, days, ok && off.GreaterThan(opt.ToleranceAmount) && off.LessThanOrEqual(limit)
	}

	pass := func(units []unit, accept func(unit, model.BankTransaction) (decimal.Decimal, int, bool), grouped bool) []Match {
		var cands []candidate
		for ui, u := range units {
			for di, d := range deposits {
				if usedDep[di] {
					continue
				}
				if off, days, ok := accept(u, d); ok {
					cands = append(cands, candidate{unit: ui, deposit: di, amountOff: off, daysOff: days})
				}
			}
		}
		sort.SliceStable(cands, func(i, j int) bool {
			if c := cands[i].amountOff.Cmp(cands[j].amountOff); c != 0 {
				return c < 0
			}
			return cands[i].daysOff < cands[j].daysOff
		})

		var out []Match
		usedUnit := make([]bool, len(units))
		for _, c := range cands {
			if usedUnit[c.unit] || usedDep[c.deposit] {
				continue
			}
			usedUnit[c.unit], usedDep[c.deposit] = true, true
			u, d := units[c.unit], deposits[c.deposit]
			m := Match{Deposit: d, Difference: d.Amount.Sub(u.net), DaysOff: c.daysOff, Grouped: grouped}
			for _, i := range u.idx {
				usedExp[i] = true
				m.Expected = append(m.Expected, expected[i])
			}
			out = append(out, m)
		}
		return out
	}

	singles := func() []unit {
		var units []unit
		for i, s := range expected {
			if !usedExp[i] {
				units = append(units, unit{idx: []int{i}, date: s.Date, net: s.Net})
			}
		}
		return units
	}

	res.Matched = pass(singles(), exact, false)
	if opt.GroupByDay {
		res.Matched = append(res.Matched, pass(groups(expected, usedExp), exact, true)...)
		res.Divergent = pass(groups(expected, usedExp), divergent, true)
	}
	res.Divergent = append(res.Divergent, pass(singles(), divergent, false)...)

	for i, s := range expected {
		if !usedExp[i] {
			res.Missing = append(res.Missing, s)
		}
	}
	for i, d := range deposits {
		if !usedDep[i] {
			res.Unexpected = append(res.Unexpected, d)
		}
	}
	return res
}

// groups collects unused settlements sharing terminal and date, keeping only
// groups of two or more.
func groups(expected []Settlement, used []bool) []unit {
	type key struct {
		terminal string
		date     string
	}
	var (
		order []key
		byKey = make(map[key]*unit)
	)
	for i, s := range expected {
		if used[i] {
			continue
		}
		k := key{s.TerminalID, dateutil.Format(s.Date)}
		u, ok := byKey[k]
		if !ok {
			u = &unit{date: s.Date, net: decimal.Zero}
			byKey[k] = u
			order = append(order, k)
		}
		u.idx = append(u.idx, i)
		u.net = u.net.Add(s.Net)
	}
	var out []unit
	for _, k := range order {
		if u := byKey[k]; len(u.idx) > 1 {
			out = append(out, *u)
		}
	}
	return out
}
