// Package installments splits a total into monthly installments (lançamento
// em lote) and validates the result before it becomes a batch of entries.
package installments

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jcfinanceiro/jcfinanceiro/internal/dateutil"
	"github.com/jcfinanceiro/jcfinanceiro/internal/id"
	"github.com/jcfinanceiro/jcfinanceiro/internal/model"
	"github.com/jcfinanceiro/jcfinanceiro/internal/money"
	"github.com/jcfinanceiro/jcfinanceiro/internal/validation"
)

// Bounds on the number of installments in a batch.
const (
	MinCount = 2
	MaxCount = 100
)

// Plan describes a batch to generate.
type Plan struct {
	Kind           model.EntryKind `json:"kind"`
	Description    string          `json:"description"`
	Total          decimal.Decimal `json:"total"`
	Count          int             `json:"count"`
	FirstDue       time.Time       `json:"first_due"`
	ContactID      string          `json:"contact_id,omitempty"`
	CategoryID     string          `json:"category_id,omitempty"`
	BankAccountID  string          `json:"bank_account_id,omitempty"`
	DocumentNumber string          `json:"document_number,omitempty"`
	Notes          string          `json:"notes,omitempty"`
}

// Installment is one dated, valued parcel of a plan.
type Installment struct {
	Number  int             `json:"number"`
	DueDate time.Time       `json:"due_date"`
	Amount  decimal.Decimal `json:"amount"`
}

// Generate returns Count installments due monthly from FirstDue. The
// day of month is kept from FirstDue and clamped to each month's last day.
// Values are Total/Count truncated to cents with the remainder on the first
// installment. Counts outside 1..MaxCount yield nothing.
func Generate(p Plan) []Installment {
	if p.Count < 1 || p.Count > MaxCount {
		return nil
	}
	amounts := money.Split(p.Total, p.Count)
	first := dateutil.Day(p.FirstDue)

	out := make([]Installment, p.Count)
	for i := range out {
		out[i] = Installment{
			Number:  i + 1,
			DueDate: dateutil.AddMonths(first, i),
			Amount:  amounts[i],
		}
	}
	return out
}

// Validate checks a plan and its (possibly edited) installments on day today.
func Validate(p Plan, insts []Installment, today time.Time) validation.Errors {
	var errs validation.Errors
	if !p.Kind.Valid() {
		errs.Add("kind", "tipo de lançamento inválido: %q", p.Kind)
	}
	if strings.TrimSpace(p.Description) == "" {
		errs.Add("description", "descrição é obrigatória")
	}
	switch {
	case !p.Total.IsPositive():
		errs.Add("total", "valor total deve ser maior que zero")
	case !money.HasAtMostTwoPlaces(p.Total):
		errs.Add("total", "valor total deve ter no máximo duas casas decimais")
	}
	if p.Count < MinCount || p.Count > MaxCount {
		errs.Add("count", "número de parcelas deve estar entre %d e %d", MinCount, MaxCount)
	}
	if len(insts) != p.Count {
		errs.Add("installments", "esperadas %d parcelas, recebidas %d", p.Count, len(insts))
	}

	today = dateutil.Day(today)
	for i, inst := range insts {
		field := fmt.Sprintf("installments[%d]", i)
		if !inst.Amount.IsPositive() {
			errs.Add(field+".amount", "parcela %s deve ter valor maior que zero", id.InstallmentLabel(i+1, len(insts)))
		} else if !money.HasAtMostTwoPlaces(inst.Amount) {
			errs.Add(field+".amount", "parcela %s deve ter no máximo duas casas decimais", id.InstallmentLabel(i+1, len(insts)))
		}
		if inst.DueDate.IsZero() {
			errs.Add(field+".due_date", "parcela %s sem vencimento", id.InstallmentLabel(i+1, len(insts)))
		} else if dateutil.Day(inst.DueDate).Before(today) {
			errs.Add(field+".due_date", "parcela %s vence em %s, data no passado",
				id.InstallmentLabel(i+1, len(insts)), dateutil.Day(inst.DueDate).Format(dateutil.LayoutBR))
		}
	}
	return errs
}

// Sum returns the total of insts.
func Sum(insts []Installment) decimal.Decimal {
	total := decimal.Zero
	for _, inst := range insts {
		total = total.Add(inst.Amount)
	}
	return total
}

// Entries converts installments into pending entries sharing batchID. Each
// description gets an "(n/N)" suffix.
func Entries(p Plan, insts []Installment, batchID string, now time.Time) []model.Entry {
	out := make([]model.Entry, len(insts))
	for i, inst := range insts {
		due := dateutil.Day(inst.DueDate)
		out[i] = model.Entry{
			ID:                id.New(),
			Kind:              p.Kind,
			Description:       fmt.Sprintf("%s (%s)", strings.TrimSpace(p.Description), id.InstallmentLabel(i+1, len(insts))),
			Amount:            inst.Amount,
			DueDate:           due,
			CompetenceDate:    due,
			Status:            model.StatusPending,
			PaidAmount:        decimal.Zero,
			ContactID:         p.ContactID,
			CategoryID:        p.CategoryID,
			BankAccountID:     p.BankAccountID,
			DocumentNumber:    p.DocumentNumber,
			BatchID:           batchID,
			InstallmentNumber: i + 1,
			InstallmentTotal:  len(insts),
			Notes:             p.Notes,
			CreatedAt:         now,
			UpdatedAt:         now,
		}
	}
	return out
}
