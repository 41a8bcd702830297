// Package terminal handles card payment terminals (maquininhas): their fee
// tables, the settlements a card sale should produce and the reconciliation
// of those settlements against bank deposits.
package terminal

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jcfinanceiro/jcfinanceiro/internal/model"
	"github.com/jcfinanceiro/jcfinanceiro/internal/validation"
)

// MaxCardInstallments is the largest installment count a credit sale may use.
const MaxCardInstallments = 12

var hundred = decimal.NewFromInt(100)

// FeeTable is the fee table of one terminal.
type FeeTable []model.TerminalFee

// Find returns the row that applies to a sale paid with method and brand in
// n installments. A row for the exact brand wins over one for AnyBrand; among
// rows of the same brand, the narrowest installment range wins.
func (t FeeTable) Find(method model.PaymentMethod, brand string, n int) (model.TerminalFee, bool) {
	brand = NormalizeBrand(brand)
	var (
		best  model.TerminalFee
		found bool
	)
	for _, f := range t {
		if f.Method != method || !f.Covers(n) {
			continue
		}
		if f.Brand != brand && f.Brand != model.AnyBrand {
			continue
		}
		if !found || better(f, best, brand) {
			best, found = f, true
		}
	}
	return best, found
}

func better(f, cur model.TerminalFee, brand string) bool {
	fExact, curExact := f.Brand == brand, cur.Brand == brand
	if fExact != curExact {
		return fExact
	}
	return f.InstallmentsTo-f.InstallmentsFrom < cur.InstallmentsTo-cur.InstallmentsFrom
}

// NormalizeBrand lowercases a card brand; an empty brand means any brand.
func NormalizeBrand(brand string) string {
	brand = strings.ToLower(strings.TrimSpace(brand))
	if brand == "" {
		return model.AnyBrand
	}
	return brand
}

// ValidateFees checks a fee table. Rows must be debit or credit, debit rows
// cover exactly one installment, and two rows for the same method and brand
// may not cover the same installment count.
func ValidateFees(fees []model.TerminalFee) validation.Errors {
	var errs validation.Errors
	for i, f := range fees {
		field := fmt.Sprintf("fees[%d]", i)
		if !f.Method.IsCard() {
			errs.Add(field+".method", "forma de pagamento deve ser débito ou crédito")
		}
		switch {
		case f.InstallmentsFrom < 1 || f.InstallmentsTo < f.InstallmentsFrom:
			errs.Add(field+".installments", "faixa de parcelas inválida: %d a %d", f.InstallmentsFrom, f.InstallmentsTo)
		case f.InstallmentsTo > MaxCardInstallments:
			errs.Add(field+".installments", "máximo de %d parcelas", MaxCardInstallments)
		case f.Method == model.MethodDebit && f.InstallmentsTo != 1:
			errs.Add(field+".installments", "débito não é parcelado")
		}
		if f.RatePercent.IsNegative() || f.RatePercent.GreaterThan(hundred) {
			errs.Add(field+".rate_percent", "taxa deve estar entre 0 e 100%%")
		}
		if f.FixedFee.IsNegative() {
			errs.Add(field+".fixed_fee", "tarifa fixa não pode ser negativa")
		}
		if f.SettlementDays < 0 || f.SettlementDays > 365 {
			errs.Add(field+".settlement_days", "prazo de repasse deve estar entre 0 e 365 dias")
		}
		for j := 0; j < i; j++ {
			g := fees[j]
			if g.Method == f.Method && NormalizeBrand(g.Brand) == NormalizeBrand(f.Brand) &&
				f.InstallmentsFrom <= g.InstallmentsTo && g.InstallmentsFrom <= f.InstallmentsTo {
				errs.Add(field+".installments", "faixa sobreposta à linha %d", j+1)
				break
			}
		}
	}
	return errs
}
