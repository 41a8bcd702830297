package entries

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jcfinanceiro/jcfinanceiro/internal/model"
	"github.com/jcfinanceiro/jcfinanceiro/internal/money"
	"github.com/jcfinanceiro/jcfinanceiro/internal/store"
	"github.com/jcfinanceiro/jcfinanceiro/internal/validation"
)

// References resolves the records an entry points at.
type References interface {
	GetContact(ctx context.Context, id string) (model.Contact, error)
	GetCategory(ctx context.Context, id string) (model.Category, error)
	GetBankAccount(ctx context.Context, id string) (model.BankAccount, error)
}

// ValidateAmount checks that a value is positive and representable in cents.
func ValidateAmount(errs *validation.Errors, field string, d decimal.Decimal) {
	switch {
	case !d.IsPositive():
		errs.Add(field, "valor deve ser maior que zero")
	case !money.HasAtMostTwoPlaces(d):
		errs.Add(field, "valor deve ter no máximo duas casas decimais")
	}
}

// ValidateFields checks the stand-alone rules of an entry.
func ValidateFields(errs *validation.Errors, e model.Entry) {
	if !e.Kind.Valid() {
		errs.Add("kind", "tipo de lançamento inválido: %q", e.Kind)
	}
	if strings.TrimSpace(e.Description) == "" {
		errs.Add("description", "descrição é obrigatória")
	}
	ValidateAmount(errs, "amount", e.Amount)
	if e.DueDate.IsZero() {
		errs.Add("due_date", "data de vencimento é obrigatória")
	}
}

// ValidateReferences checks that the contact, category and bank account of
// e exist, and that the category type matches the entry kind: payables use
// expense categories and receivables income categories.
func ValidateReferences(ctx context.Context, refs References, errs *validation.Errors, e model.Entry) error {
	if e.ContactID != "" {
		if _, err := refs.GetContact(ctx, e.ContactID); err != nil {
			if !errors.Is(err, store.ErrNotFound) {
				return fmt.Errorf("looking up contact: %w", err)
			}
			errs.Add("contact_id", "contato não encontrado")
		}
	}
	if e.CategoryID != "" {
		cat, err := refs.GetCategory(ctx, e.CategoryID)
		switch {
		case errors.Is(err, store.ErrNotFound):
			errs.Add("category_id", "categoria não encontrada")
		case err != nil:
			return fmt.Errorf("looking up category: %w", err)
		case e.Kind.Valid() && cat.Type != e.Kind.CategoryType():
			errs.Add("category_id", "categoria %s é de %s, incompatível com %s", cat.Code, typeLabel(cat.Type), kindLabel(e.Kind))
		}
	}
	if e.BankAccountID != "" {
		if _, err := refs.GetBankAccount(ctx, e.BankAccountID); err != nil {
			if !errors.Is(err, store.ErrNotFound) {
				return fmt.Errorf("looking up bank account: %w", err)
			}
			errs.Add("bank_account_id", "conta bancária não encontrada")
		}
	}
	return nil
}

func typeLabel(t model.CategoryType) string {
	if t == model.CategoryIncome {
		return "receita"
	}
	return "despesa"
}

func kindLabel(k model.EntryKind) string {
	if k == model.EntryReceivable {
		return "conta a receber"
	}
	return "conta a pagar"
}
