// Package banking manages banks, bank accounts and their computed balances.
package banking

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/jcfinanceiro/jcfinanceiro/internal/id"
	"github.com/jcfinanceiro/jcfinanceiro/internal/model"
	"github.com/jcfinanceiro/jcfinanceiro/internal/store"
	"github.com/jcfinanceiro/jcfinanceiro/internal/validation"
)

var bankCodeRe = regexp.MustCompile(`^\d{3}$`)

// DefaultBanks returns the institutions most Brazilian small businesses
// use, keyed by COMPE code. IDs are left empty.
func DefaultBanks() []model.Bank {
	return []model.Bank{
		{Code: "001", Name: "Banco do Brasil"},
		{Code: "033", Name: "Santander"},
		{Code: "077", Name: "Banco Inter"},
		{Code: "104", Name: "Caixa Econômica Federal"},
		{Code: "212", Name: "Banco Original"},
		{Code: "237", Name: "Bradesco"},
		{Code: "260", Name: "Nu Pagamentos (Nubank)"},
		{Code: "336", Name: "Banco C6"},
		{Code: "341", Name: "Itaú Unibanco"},
		{Code: "422", Name: "Banco Safra"},
		{Code: "748", Name: "Sicredi"},
		{Code: "756", Name: "Sicoob"},
	}
}

// BankParams holds the editable fields of a bank.
type BankParams struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

func (p BankParams) validate() error {
	var errs validation.Errors
	if !bankCodeRe.MatchString(strings.TrimSpace(p.Code)) {
		errs.Add("code", "código do banco deve ter 3 dígitos")
	}
	if strings.TrimSpace(p.Name) == "" {
		errs.Add("name", "nome é obrigatório")
	}
	return errs.Err()
}

// SeedBanks inserts the default banks whose codes are not registered yet and
// returns how many were added.
func (s *Service) SeedBanks(ctx context.Context) (int, error) {
	added := 0
	for _, b := range DefaultBanks() {
		_, err := s.store.GetBankByCode(ctx, b.Code)
		if err == nil {
			continue
		}
		if !errors.Is(err, store.ErrNotFound) {
			return added, fmt.Errorf("looking up bank %s: %w", b.Code, err)
		}
		b.ID = id.New()
		if err := s.store.CreateBank(ctx, b); err != nil {
			return added, err
		}
		added++
	}
	return added, nil
}

// ListBanks returns every bank.
func (s *Service) ListBanks(ctx context.Context) ([]model.Bank, error) {
	return s.store.ListBanks(ctx)
}

// GetBank returns a bank by ID.
func (s *Service) GetBank(ctx context.Context, bankID string) (model.Bank, error) {
	return s.store.GetBank(ctx, bankID)
}

// CreateBank validates and stores a new bank.
func (s *Service) CreateBank(ctx context.Context, p BankParams) (model.Bank, error) {
	if err := p.validate(); err != nil {
		return model.Bank{}, err
	}
	b := model.Bank{ID: id.New(), Code: strings.TrimSpace(p.Code), Name: strings.TrimSpace(p.Name)}
	if err := s.store.CreateBank(ctx, b); err != nil {
		return model.Bank{}, err
	}
	return b, nil
}

// UpdateBank replaces a bank's code and name.
func (s *Service) UpdateBank(ctx context.Context, bankID string, p BankParams) (model.Bank, error) {
	if err := p.validate(); err != nil {
		return model.Bank{}, err
	}
	b := model.Bank{ID: bankID, Code: strings.TrimSpace(p.Code), Name: strings.TrimSpace(p.Name)}
	if err := s.store.UpdateBank(ctx, b); err != nil {
		return model.Bank{}, err
	}
	return b, nil
}

// DeleteBank removes a bank not referenced by any account.
func (s *Service) DeleteBank(ctx context.Context, bankID string) error {
	return s.store.DeleteBank(ctx, bankID)
}
