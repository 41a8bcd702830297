// Package settings holds company-wide preferences.
package settings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jcfinanceiro/jcfinanceiro/internal/document"
	"github.com/jcfinanceiro/jcfinanceiro/internal/model"
	"github.com/jcfinanceiro/jcfinanceiro/internal/store"
	"github.com/jcfinanceiro/jcfinanceiro/internal/validation"
)

// MaxGraceDays bounds OverdueGraceDays.
const MaxGraceDays = 30

// Store is the persistence the settings service needs.
type Store interface {
	GetSettings(ctx context.Context) (model.Settings, error)
	SaveSettings(ctx context.Context, s model.Settings) error
	GetBankAccount(ctx context.Context, id string) (model.BankAccount, error)
}

// Service reads and writes settings.
type Service struct {
	store    Store
	defaults model.Settings
	logger   *zap.Logger
}

// NewService creates a settings Service. defaults is returned by Get until
// settings are saved.
func NewService(st Store, defaults model.Settings, logger *zap.Logger) *Service {
	return &Service{store: st, defaults: defaults, logger: logger}
}

// Get returns the saved settings, or the defaults when none were saved.
func (s *Service) Get(ctx context.Context) (model.Settings, error) {
	st, err := s.store.GetSettings(ctx)
	if errors.Is(err, store.ErrNotFound) {
		return s.defaults, nil
	}
	return st, err
}

// Save validates and stores settings.
func (s *Service) Save(ctx context.Context, in model.Settings) (model.Settings, error) {
	var errs validation.Errors
	in.CompanyName = strings.TrimSpace(in.CompanyName)
	if in.CompanyName == "" {
		errs.Add("company_name", "nome da empresa é obrigatório")
	}
	if doc := strings.TrimSpace(in.CompanyDocument); doc != "" {
		digits, _, err := document.Normalize(doc)
		if err != nil {
			errs.Add("company_document", "CPF/CNPJ da empresa inválido")
		}
		in.CompanyDocument = digits
	}
	if in.OverdueGraceDays < 0 || in.OverdueGraceDays > MaxGraceDays {
		errs.Add("overdue_grace_days", "carência deve estar entre 0 e %d dias", MaxGraceDays)
	}
	if in.DefaultBankAccountID != "" {
		if _, err := s.store.GetBankAccount(ctx, in.DefaultBankAccountID); err != nil {
			if !errors.Is(err, store.ErrNotFound) {
				return model.Settings{}, fmt.Errorf("looking up bank account: %w", err)
			}
			errs.Add("default_bank_account_id", "conta bancária não encontrada")
		}
	}
	if err := errs.Err(); err != nil {
		return model.Settings{}, err
	}

	in.UpdatedAt = time.Now().UTC()
	if err := s.store.SaveSettings(ctx, in); err != nil {
		return model.Settings{}, err
	}
	s.logger.Info("settings saved", zap.String("company", in.CompanyName))
	return in, nil
}
