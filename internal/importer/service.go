package importer

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/jcfinanceiro/jcfinanceiro/internal/id"
	"github.com/jcfinanceiro/jcfinanceiro/internal/model"
	"github.com/jcfinanceiro/jcfinanceiro/internal/store"
	"github.com/jcfinanceiro/jcfinanceiro/internal/validation"
)

// Store is the persistence the import service needs.
type Store interface {
	GetBankAccount(ctx context.Context, id string) (model.BankAccount, error)
	TransactionReferences(ctx context.Context, bankAccountID string) (map[string]bool, error)
	CreateTransactions(ctx context.Context, txns []model.BankTransaction) error
}

// Service imports statements into a bank account.
type Service struct {
	store    Store
	registry *Registry
	logger   *zap.Logger
}

// NewService creates an import Service using the parsers in reg.
func NewService(st Store, reg *Registry, logger *zap.Logger) *Service {
	return &Service{store: st, registry: reg, logger: logger}
}

// Result summarizes an import.
type Result struct {
	Parsed       int                     `json:"parsed"`
	Imported     int                     `json:"imported"`
	Duplicates   int                     `json:"duplicates"`
	Transactions []model.BankTransaction `json:"transactions"`
}

// Import parses r with the parser for format and stores the lines whose
// reference is new for the account, in one transaction.
func (s *Service) Import(ctx context.Context, bankAccountID, format string, r io.Reader) (Result, error) {
	var errs validation.Errors
	parser := s.registry.Get(format)
	if parser == nil {
		errs.Add("format", "formato de extrato não suportado: %q", format)
	}
	if _, err := s.store.GetBankAccount(ctx, bankAccountID); err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			return Result{}, fmt.Errorf("looking up bank account: %w", err)
		}
		errs.Add("bank_account_id", "conta bancária não encontrada")
	}
	if err := errs.Err(); err != nil {
		return Result{}, err
	}

	txns, err := parser.Parse(r)
	if err != nil {
		errs.Add("file", "arquivo inválido: %v", err)
		return Result{}, errs
	}
	existing, err := s.store.TransactionReferences(ctx, bankAccountID)
	if err != nil {
		return Result{}, err
	}

	res := Result{Parsed: len(txns)}
	for _, txn := range txns {
		if existing[txn.Reference] {
			res.Duplicates++
			continue
		}
		existing[txn.Reference] = true
		txn.ID = id.New()
		txn.BankAccountID = bankAccountID
		res.Transactions = append(res.Transactions, txn)
	}
	if len(res.Transactions) > 0 {
		if err := s.store.CreateTransactions(ctx, res.Transactions); err != nil {
			return Result{}, fmt.Errorf("storing transactions: %w", err)
		}
	}
	res.Imported = len(res.Transactions)
	s.logger.Info("statement imported",
		zap.String("bank_account_id", bankAccountID),
		zap.String("format", parser.Format()),
		zap.Int("imported", res.Imported),
		zap.Int("duplicates", res.Duplicates))
	return res, nil
}
