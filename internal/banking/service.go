package banking

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/jcfinanceiro/jcfinanceiro/internal/dateutil"
	"github.com/jcfinanceiro/jcfinanceiro/internal/id"
	"github.com/jcfinanceiro/jcfinanceiro/internal/model"
	"github.com/jcfinanceiro/jcfinanceiro/internal/money"
	"github.com/jcfinanceiro/jcfinanceiro/internal/store"
	"github.com/jcfinanceiro/jcfinanceiro/internal/validation"
)

var (
	branchRe = regexp.MustCompile(`^\d{1,5}$`)
	numberRe = regexp.MustCompile(`^\d{1,12}$`)
	digitRe  = regexp.MustCompile(`^[0-9Xx]{0,2}$`)
)

// Store is the persistence the banking service needs.
type Store interface {
	ListBanks(ctx context.Context) ([]model.Bank, error)
	GetBank(ctx context.Context, id string) (model.Bank, error)
	GetBankByCode(ctx context.Context, code string) (model.Bank, error)
	CreateBank(ctx context.Context, b model.Bank) error
	UpdateBank(ctx context.Context, b model.Bank) error
	DeleteBank(ctx context.Context, id string) error

	ListBankAccounts(ctx context.Context, activeOnly bool) ([]model.BankAccount, error)
	GetBankAccount(ctx context.Context, id string) (model.BankAccount, error)
	CreateBankAccount(ctx context.Context, a model.BankAccount) error
	UpdateBankAccount(ctx context.Context, a model.BankAccount) error
	DeleteBankAccount(ctx context.Context, id string) error

	ListEntries(ctx context.Context, f store.EntryFilter) ([]model.Entry, error)
}

// Service provides business logic for banks and bank accounts.
type Service struct {
	store  Store
	logger *zap.Logger
}

// NewService creates a banking Service.
func NewService(st Store, logger *zap.Logger) *Service {
	return &Service{store: st, logger: logger}
}

// AccountParams holds the editable fields of a bank account.
type AccountParams struct {
	BankID             string
	Name               string
	Type               model.BankAccountType
	Branch             string
	Number             string
	Digit              string
	InitialBalance     decimal.Decimal
	InitialBalanceDate time.Time
	Active             bool
}

func (s *Service) validateAccount(ctx context.Context, p AccountParams) error {
	var errs validation.Errors
	if strings.TrimSpace(p.Name) == "" {
		errs.Add("name", "nome é obrigatório")
	}
	if !p.Type.Valid() {
		errs.Add("type", "tipo de conta inválido: %q", p.Type)
	}
	if p.InitialBalance.IsNegative() {
		errs.Add("initial_balance", "saldo inicial não pode ser negativo")
	} else if !money.HasAtMostTwoPlaces(p.InitialBalance) {
		errs.Add("initial_balance", "saldo inicial deve ter no máximo duas casas decimais")
	}

	// a cash box has no bank, branch or number
	if p.Type != model.BankAccountCash {
		if p.BankID == "" {
			errs.Add("bank_id", "banco é obrigatório")
		} else if _, err := s.store.GetBank(ctx, p.BankID); err != nil {
			if !errors.Is(err, store.ErrNotFound) {
				return fmt.Errorf("looking up bank: %w", err)
			}
			errs.Add("bank_id", "banco não encontrado")
		}
		if !branchRe.MatchString(p.Branch) {
			errs.Add("branch", "agência deve conter de 1 a 5 dígitos")
		}
		if !numberRe.MatchString(p.Number) {
			errs.Add("number", "número da conta deve conter apenas dígitos")
		}
		if !digitRe.MatchString(p.Digit) {
			errs.Add("digit", "dígito inválido")
		}
	}
	return errs.Err()
}

func (p AccountParams) apply(a *model.BankAccount) {
	a.BankID = p.BankID
	a.Name = strings.TrimSpace(p.Name)
	a.Type = p.Type
	a.Branch = p.Branch
	a.Number = p.Number
	a.Digit = strings.ToUpper(p.Digit)
	a.InitialBalance = p.InitialBalance
	a.InitialBalanceDate = dateutil.Day(p.InitialBalanceDate)
	a.Active = p.Active
}

// CreateAccount validates and stores a new bank account.
func (s *Service) CreateAccount(ctx context.Context, p AccountParams) (model.BankAccount, error) {
	if err := s.validateAccount(ctx, p); err != nil {
		return model.BankAccount{}, err
	}
	a := model.BankAccount{ID: id.New()}
	p.apply(&a)
	if err := s.store.CreateBankAccount(ctx, a); err != nil {
		return model.BankAccount{}, err
	}
	s.logger.Info("bank account created", zap.String("id", a.ID), zap.String("name", a.Name))
	return a, nil
}

// UpdateAccount replaces the editable fields of an account.
func (s *Service) UpdateAccount(ctx context.Context, accountID string, p AccountParams) (model.BankAccount, error) {
	a, err := s.store.GetBankAccount(ctx, accountID)
	if err != nil {
		return model.BankAccount{}, err
	}
	if err := s.validateAccount(ctx, p); err != nil {
		return model.BankAccount{}, err
	}
	p.apply(&a)
	if err := s.store.UpdateBankAccount(ctx, a); err != nil {
		return model.BankAccount{}, err
	}
	return a, nil
}

// GetAccount returns an account by ID.
func (s *Service) GetAccount(ctx context.Context, accountID string) (model.BankAccount, error) {
	return s.store.GetBankAccount(ctx, accountID)
}

// ListAccounts returns accounts, optionally only active ones.
func (s *Service) ListAccounts(ctx context.Context, activeOnly bool) ([]model.BankAccount, error) {
	return s.store.ListBankAccounts(ctx, activeOnly)
}

// DeleteAccount removes an account that nothing references.
func (s *Service) DeleteAccount(ctx context.Context, accountID string) error {
	return s.store.DeleteBankAccount(ctx, accountID)
}

// AccountBalance pairs an account with its balance.
type AccountBalance struct {
	Account model.BankAccount `json:"account"`
	Balance decimal.Decimal   `json:"balance"`
}

// BalanceReport lists balances of active accounts.
type BalanceReport struct {
	AsOf     time.Time        `json:"as_of"`
	Accounts []AccountBalance `json:"accounts"`
	Total    decimal.Decimal  `json:"total"`
}

// Balance returns the initial balance plus paid receivables minus paid
// payables settled into the account between the initial balance date and asOf.
func (s *Service) Balance(ctx context.Context, accountID string, asOf time.Time) (decimal.Decimal, error) {
	a, err := s.store.GetBankAccount(ctx, accountID)
	if err != nil {
		return decimal.Zero, err
	}
	return s.balance(ctx, a, asOf)
}

func (s *Service) balance(ctx context.Context, a model.BankAccount, asOf time.Time) (decimal.Decimal, error) {
	entries, err := s.store.ListEntries(ctx, store.EntryFilter{
		BankAccountID: a.ID,
		Statuses:      []model.EntryStatus{model.StatusPaid},
		PaidFrom:      a.InitialBalanceDate,
		PaidTo:        asOf,
	})
	if err != nil {
		return decimal.Zero, fmt.Errorf("loading settled entries: %w", err)
	}
	total := a.InitialBalance
	for _, e := range entries {
		total = total.Add(e.SignedAmount(e.PaidAmount))
	}
	return total, nil
}

// Balances computes the balance of every active account and their total.
func (s *Service) Balances(ctx context.Context, asOf time.Time) (BalanceReport, error) {
	accounts, err := s.store.ListBankAccounts(ctx, true)
	if err != nil {
		return BalanceReport{}, err
	}
	report := BalanceReport{AsOf: asOf, Accounts: []AccountBalance{}, Total: decimal.Zero}
	for _, a := range accounts {
		b, err := s.balance(ctx, a, asOf)
		if err != nil {
			return BalanceReport{}, fmt.Errorf("account %s: %w", a.Name, err)
		}
		report.Accounts = append(report.Accounts, AccountBalance{Account: a, Balance: b})
		report.Total = report.Total.Add(b)
	}
	return report, nil
}
