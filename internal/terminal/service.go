package terminal

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jcfinanceiro/jcfinanceiro/internal/dateutil"
	"github.com/jcfinanceiro/jcfinanceiro/internal/id"
	"github.com/jcfinanceiro/jcfinanceiro/internal/model"
	"github.com/jcfinanceiro/jcfinanceiro/internal/store"
	"github.com/jcfinanceiro/jcfinanceiro/internal/validation"
)

// Store is the persistence the terminal service needs.
type Store interface {
	ListTerminals(ctx context.Context) ([]model.Terminal, error)
	GetTerminal(ctx context.Context, id string) (model.Terminal, error)
	CreateTerminal(ctx context.Context, t model.Terminal) error
	UpdateTerminal(ctx context.Context, t model.Terminal) error
	DeleteTerminal(ctx context.Context, id string) error
	ListTerminalFees(ctx context.Context, terminalID string) ([]model.TerminalFee, error)
	ReplaceTerminalFees(ctx context.Context, terminalID string, fees []model.TerminalFee) error
	GetBankAccount(ctx context.Context, id string) (model.BankAccount, error)
	ListSales(ctx context.Context, f store.SaleFilter) ([]model.Sale, error)
	ListTransactions(ctx context.Context, f store.TransactionFilter) ([]model.BankTransaction, error)
}

// Service manages terminals and runs reconciliations.
type Service struct {
	store  Store
	logger *zap.Logger
	opts   Options
}

// NewService creates a terminal Service reconciling with opts.
func NewService(st Store, logger *zap.Logger, opts Options) *Service {
	return &Service{store: st, logger: logger, opts: opts}
}

// Params holds the editable fields of a terminal.
type Params struct {
	Name          string
	Provider      string
	BankAccountID string
	Active        bool
}

func (s *Service) validate(ctx context.Context, p Params) error {
	var errs validation.Errors
	if strings.TrimSpace(p.Name) == "" {
		errs.Add("name", "nome é obrigatório")
	}
	if p.BankAccountID == "" {
		errs.Add("bank_account_id", "conta de repasse é obrigatória")
	} else if _, err := s.store.GetBankAccount(ctx, p.BankAccountID); err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("looking up bank account: %w", err)
		}
		errs.Add("bank_account_id", "conta bancária não encontrada")
	}
	return errs.Err()
}

// Create stores a new terminal.
func (s *Service) Create(ctx context.Context, p Params) (model.Terminal, error) {
	if err := s.validate(ctx, p); err != nil {
		return model.Terminal{}, err
	}
	t := model.Terminal{
		ID:            id.New(),
		Name:          strings.TrimSpace(p.Name),
		Provider:      strings.TrimSpace(p.Provider),
		BankAccountID: p.BankAccountID,
		Active:        p.Active,
	}
	if err := s.store.CreateTerminal(ctx, t); err != nil {
		return model.Terminal{}, err
	}
	s.logger.Info("terminal created", zap.String("id", t.ID), zap.String("name", t.Name))
	return t, nil
}

// Update replaces the fields of a terminal.
func (s *Service) Update(ctx context.Context, terminalID string, p Params) (model.Terminal, error) {
	t, err := s.store.GetTerminal(ctx, terminalID)
	if err != nil {
		return model.Terminal{}, err
	}
	if err := s.validate(ctx, p); err != nil {
		return model.Terminal{}, err
	}
	t.Name = strings.TrimSpace(p.Name)
	t.Provider = strings.TrimSpace(p.Provider)
	t.BankAccountID = p.BankAccountID
	t.Active = p.Active
	if err := s.store.UpdateTerminal(ctx, t); err != nil {
		return model.Terminal{}, err
	}
	return t, nil
}

// Get returns a terminal.
func (s *Service) Get(ctx context.Context, terminalID string) (model.Terminal, error) {
	return s.store.GetTerminal(ctx, terminalID)
}

// List returns every terminal.
func (s *Service) List(ctx context.Context) ([]model.Terminal, error) {
	return s.store.ListTerminals(ctx)
}

// Delete removes a terminal and its fee table.
func (s *Service) Delete(ctx context.Context, terminalID string) error {
	return s.store.DeleteTerminal(ctx, terminalID)
}

// Fees returns the fee table of a terminal.
func (s *Service) Fees(ctx context.Context, terminalID string) (FeeTable, error) {
	if _, err := s.store.GetTerminal(ctx, terminalID); err != nil {
		return nil, err
	}
	fees, err := s.store.ListTerminalFees(ctx, terminalID)
	if err != nil {
		return nil, err
	}
	return FeeTable(fees), nil
}

// SetFees validates and replaces the fee table of a terminal.
func (s *Service) SetFees(ctx context.Context, terminalID string, fees []model.TerminalFee) (FeeTable, error) {
	if _, err := s.store.GetTerminal(ctx, terminalID); err != nil {
		return nil, err
	}
	table := make(FeeTable, len(fees))
	for i, f := range fees {
		f.ID = id.New()
		f.TerminalID = terminalID
		f.Brand = NormalizeBrand(f.Brand)
		table[i] = f
	}
	if err := ValidateFees(table).Err(); err != nil {
		return nil, err
	}
	if err := s.store.ReplaceTerminalFees(ctx, terminalID, table); err != nil {
		return nil, err
	}
	s.logger.Info("terminal fees replaced", zap.String("terminal_id", terminalID), zap.Int("rows", len(table)))
	return table, nil
}

// ExpectedFor returns the settlements of a card sale on its terminal.
func (s *Service) ExpectedFor(ctx context.Context, sale model.Sale) ([]Settlement, error) {
	table, err := s.Fees(ctx, sale.TerminalID)
	if err != nil {
		return nil, err
	}
	return Expected(sale, table)
}

// Reconcile compares the settlements a terminal should have deposited
// between from and to with the credit lines imported for its bank account.
// Deposits are loaded with the date tolerance added on both sides.
func (s *Service) Reconcile(ctx context.Context, terminalID string, from, to time.Time) (Result, error) {
	var errs validation.Errors
	if from.IsZero() || to.IsZero() {
		errs.Add("period", "período é obrigatório")
	} else if to.Before(from) {
		errs.Add("period", "data final anterior à inicial")
	}
	if err := errs.Err(); err != nil {
		return Result{}, err
	}

	term, err := s.store.GetTerminal(ctx, terminalID)
	if err != nil {
		return Result{}, err
	}
	table, err := s.Fees(ctx, terminalID)
	if err != nil {
		return Result{}, err
	}
	from, to = dateutil.Day(from), dateutil.Day(to)

	sales, err := s.store.ListSales(ctx, store.SaleFilter{
		From:       from.AddDate(0, 0, -table.Horizon()),
		To:         to,
		TerminalID: terminalID,
	})
	if err != nil {
		return Result{}, fmt.Errorf("loading sales: %w", err)
	}

	var expected []Settlement
	for _, sale := range sales {
		if !sale.Method.IsCard() {
			continue
		}
		ss, err := Expected(sale, table)
		if err != nil {
			s.logger.Warn("skipping sale without fee", zap.String("sale_id", sale.ID), zap.Error(err))
			continue
		}
		for _, st := range ss {
			if dateutil.Within(st.Date, from, to) {
				expected = append(expected, st)
			}
		}
	}

	deposits, err := s.store.ListTransactions(ctx, store.TransactionFilter{
		BankAccountID: term.BankAccountID,
		From:          from.AddDate(0, 0, -s.opts.ToleranceDays),
		To:            to.AddDate(0, 0, s.opts.ToleranceDays),
		CreditsOnly:   true,
	})
	if err != nil {
		return Result{}, fmt.Errorf("loading deposits: %w", err)
	}

	res := Reconcile(expected, deposits, s.opts)
	s.logger.Info("terminal reconciled",
		zap.String("terminal_id", terminalID),
		zap.Int("matched", len(res.Matched)),
		zap.Int("divergent", len(res.Divergent)),
		zap.Int("missing", len(res.Missing)),
		zap.Int("unexpected", len(res.Unexpected)))
	return res, nil
}
