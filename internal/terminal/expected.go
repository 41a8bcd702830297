package terminal

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jcfinanceiro/jcfinanceiro/internal/model"
	"github.com/jcfinanceiro/jcfinanceiro/internal/money"
)

// InstallmentInterval is the spacing, in days, between the settlements of a
// credit sale paid in installments.
const InstallmentInterval = 30

// Settlement is a payment the terminal acquirer is expected to deposit.
type Settlement struct {
	SaleID      string          `json:"sale_id"`
	TerminalID  string          `json:"terminal_id"`
	Installment int             `json:"installment"`
	Of          int             `json:"of"`
	Date        time.Time       `json:"date"`
	Gross       decimal.Decimal `json:"gross"`
	Fee         decimal.Decimal `json:"fee"`
	Net         decimal.Decimal `json:"net"`
}

// Expected returns the settlements a card sale produces under table. A debit
// sale settles once, SettlementDays after the sale. A credit sale in N
// installments settles installment i at SettlementDays + 30*(i-1) days. The
// percentage fee applies to every installment and the fixed fee only to the
// first.
func Expected(sale model.Sale, table FeeTable) ([]Settlement, error) {
	if !sale.Method.IsCard() {
		return nil, fmt.Errorf("sale %s: method %q does not settle through a terminal", sale.ID, sale.Method)
	}
	n := sale.Installments
	if n < 1 || sale.Method == model.MethodDebit {
		n = 1
	}
	fee, ok := table.Find(sale.Method, sale.CardBrand, n)
	if !ok {
		return nil, fmt.Errorf("sale %s: no %s fee for brand %q in %d installments", sale.ID, sale.Method, sale.CardBrand, n)
	}

	parts := money.Split(sale.Net(), n)
	out := make([]Settlement, n)
	for i, gross := range parts {
		cost := gross.Mul(fee.RatePercent).Div(hundred).Round(2)
		if i == 0 {
			cost = cost.Add(fee.FixedFee)
		}
		out[i] = Settlement{
			SaleID:      sale.ID,
			TerminalID:  sale.TerminalID,
			Installment: i + 1,
			Of:          n,
			Date:        sale.Date.AddDate(0, 0, fee.SettlementDays+InstallmentInterval*i),
			Gross:       gross,
			Fee:         cost,
			Net:         gross.Sub(cost),
		}
	}
	return out, nil
}

// TotalNet sums the net value of settlements.
func TotalNet(ss []Settlement) decimal.Decimal {
	total := decimal.Zero
	for _, s := range ss {
		total = total.Add(s.Net)
	}
	return total
}

// Horizon returns the number of days between a sale and its last possible
// settlement under table.
func (t FeeTable) Horizon() int {
	longest := 0
	for _, f := range t {
		if d := f.SettlementDays + InstallmentInterval*(f.InstallmentsTo-1); d > longest {
			longest = d
		}
	}
	return longest
}
