package report

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/jcfinanceiro/jcfinanceiro/internal/banking"
	"github.com/jcfinanceiro/jcfinanceiro/internal/categories"
	"github.com/jcfinanceiro/jcfinanceiro/internal/model"
	"github.com/jcfinanceiro/jcfinanceiro/internal/store"
	"github.com/jcfinanceiro/jcfinanceiro/internal/validation"
)

// Store is the persistence the report service needs.
type Store interface {
	ListEntries(ctx context.Context, f store.EntryFilter) ([]model.Entry, error)
	ListCategories(ctx context.Context) ([]model.Category, error)
}

// Balancer computes bank account balances.
type Balancer interface {
	Balance(ctx context.Context, accountID string, asOf time.Time) (decimal.Decimal, error)
	Balances(ctx context.Context, asOf time.Time) (banking.BalanceReport, error)
}

// Service loads entries and builds reports.
type Service struct {
	store    Store
	balances Balancer
	logger   *zap.Logger
	now      func() time.Time
}

// NewService creates a report Service.
func NewService(st Store, balances Balancer, logger *zap.Logger) *Service {
	return &Service{store: st, balances: balances, logger: logger, now: time.Now}
}

func checkPeriod(p Period, basis Basis) error {
	var errs validation.Errors
	if err := p.Validate(); err != nil {
		errs.Add("period", "período inválido")
	}
	if !basis.Valid() {
		errs.Add("basis", "regime inválido: %q (use competence ou cash)", basis)
	}
	return errs.Err()
}

func (s *Service) tree(ctx context.Context) (*categories.Tree, error) {
	cats, err := s.store.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading categories: %w", err)
	}
	return categories.NewTree(cats), nil
}

// entriesFor loads the entries that may contribute to p under basis.
func (s *Service) entriesFor(ctx context.Context, p Period, basis Basis, kind model.EntryKind) ([]model.Entry, error) {
	f := store.EntryFilter{Kind: kind}
	if basis == BasisCash {
		f.Statuses = []model.EntryStatus{model.StatusPaid}
		f.PaidFrom, f.PaidTo = p.From, p.To
	} else {
		f.CompetenceFrom, f.CompetenceTo = p.From, p.To
	}
	return s.store.ListEntries(ctx, f)
}

// DRE builds the income statement over p.
func (s *Service) DRE(ctx context.Context, p Period, basis Basis) (DRE, error) {
	if err := checkPeriod(p, basis); err != nil {
		return DRE{}, err
	}
	tree, err := s.tree(ctx)
	if err != nil {
		return DRE{}, err
	}
	entries, err := s.entriesFor(ctx, p, basis, "")
	if err != nil {
		return DRE{}, err
	}
	return BuildDRE(entries, tree, p, basis), nil
}

// ByCategory totals entries of kind per category over p.
func (s *Service) ByCategory(ctx context.Context, kind model.EntryKind, p Period, basis Basis) (Breakdown, error) {
	if err := checkPeriod(p, basis); err != nil {
		return Breakdown{}, err
	}
	if !kind.Valid() {
		var errs validation.Errors
		errs.Add("kind", "tipo de lançamento inválido: %q", kind)
		return Breakdown{}, errs
	}
	tree, err := s.tree(ctx)
	if err != nil {
		return Breakdown{}, err
	}
	entries, err := s.entriesFor(ctx, p, basis, kind)
	if err != nil {
		return Breakdown{}, err
	}
	return ByCategory(entries, tree, kind, p, basis), nil
}

// CashFlow builds the cash flow of one bank account, or of all accounts when
// bankAccountID is empty. The opening balance is the balance on the day
// before from.
func (s *Service) CashFlow(ctx context.Context, bankAccountID string, from, to time.Time, g Granularity) (CashFlow, error) {
	var errs validation.Errors
	if err := (Period{From: from, To: to}).Validate(); err != nil {
		errs.Add("period", "período inválido")
	}
	if !g.Valid() {
		errs.Add("granularity", "granularidade inválida: %q (use day ou month)", g)
	}
	if err := errs.Err(); err != nil {
		return CashFlow{}, err
	}

	eve := from.AddDate(0, 0, -1)
	var opening decimal.Decimal
	if bankAccountID != "" {
		b, err := s.balances.Balance(ctx, bankAccountID, eve)
		if err != nil {
			return CashFlow{}, err
		}
		opening = b
	} else {
		rep, err := s.balances.Balances(ctx, eve)
		if err != nil {
			return CashFlow{}, err
		}
		opening = rep.Total
	}

	entries, err := s.store.ListEntries(ctx, store.EntryFilter{BankAccountID: bankAccountID})
	if err != nil {
		return CashFlow{}, err
	}
	return BuildCashFlow(entries, opening, from, to, g)
}

// Dashboard computes the dashboard as of today.
func (s *Service) Dashboard(ctx context.Context) (Dashboard, error) {
	entries, err := s.store.ListEntries(ctx, store.EntryFilter{})
	if err != nil {
		return Dashboard{}, err
	}
	return BuildDashboard(entries, s.now()), nil
}
