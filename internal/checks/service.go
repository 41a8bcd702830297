// Package checks tracks paper checks received and issued through their
// status lifecycle.
package checks

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
	"github.com/jcfinanceiro/jcfinanceiro/internal/document"
	"github.com/jcfinanceiro/jcfinanceiro/internal/entries"
	"github.com/jcfinanceiro/jcfinanceiro/internal/id"
	"github.com/jcfinanceiro/jcfinanceiro/internal/model"
	"github.com/jcfinanceiro/jcfinanceiro/internal/store"
	"github.com/jcfinanceiro/jcfinanceiro/internal/validation"
)

var (
	numberRe   = regexp.MustCompile(`^\d{1,10}$`)
	bankCodeRe = regexp.MustCompile(`^\d{3}$`)
)

// Store is the persistence the checks service needs.
type Store interface {
	entries.References
	GetEntry(ctx context.Context, id string) (model.Entry, error)
	CreateCheck(ctx context.Context, c model.Check) error
	GetCheck(ctx context.Context, id string) (model.Check, error)
	UpdateCheck(ctx context.Context, c model.Check) error
	UpdateCheckAndEntry(ctx context.Context, c model.Check, e model.Entry) error
	DeleteCheck(ctx context.Context, id string) error
	ListChecks(ctx context.Context, f store.CheckFilter) ([]model.Check, error)
}

// Settler marks an entry as paid without storing it.
type Settler interface {
	Settle(ctx context.Context, e model.Entry, p entries.PayParams) (model.Entry, error)
}

// Service provides business logic for checks.
type Service struct {
	store   Store
	settler Settler
	logger  *zap.Logger
	now     func() time.Time
}

// NewService creates a checks Service. Clearing a check pays its linked
// entry through settler.
func NewService(st Store, settler Settler, logger *zap.Logger) *Service {
	return &Service{store: st, settler: settler, logger: logger, now: time.Now}
}

// Params holds the editable fields of a check.
type Params struct {
	Direction      model.CheckDirection
	Number         string
	BankCode       string
	Branch         string
	Account        string
	Holder         string
	HolderDocument string
	Amount         decimal.Decimal
	IssueDate      time.Time
	GoodFor        time.Time // defaults to IssueDate
	ContactID      string
	EntryID        string
	BankAccountID  string
	Notes          string
}

func (s *Service) build(ctx context.Context, c *model.Check, p Params) error {
	var errs validation.Errors

	c.Direction = p.Direction
	c.Number = strings.TrimSpace(p.Number)
	c.BankCode = strings.TrimSpace(p.BankCode)
	c.Branch = strings.TrimSpace(p.Branch)
	c.Account = strings.TrimSpace(p.Account)
	c.Holder = strings.TrimSpace(p.Holder)
	c.Amount = p.Amount
	c.IssueDate = dateutil.Day(p.IssueDate)
	c.GoodFor = dateutil.Day(p.GoodFor)
	if p.GoodFor.IsZero() {
		c.GoodFor = c.IssueDate
	}
	c.ContactID = p.ContactID
	c.EntryID = p.EntryID
	c.BankAccountID = p.BankAccountID
	c.Notes = strings.TrimSpace(p.Notes)

	if !c.Direction.Valid() {
		errs.Add("direction", "direção inválida: %q", c.Direction)
	}
	if !numberRe.MatchString(c.Number) {
		errs.Add("number", "número do cheque deve ter de 1 a 10 dígitos")
	}
	if c.BankCode != "" && !bankCodeRe.MatchString(c.BankCode) {
		errs.Add("bank_code", "código do banco deve ter 3 dígitos")
	}
	entries.ValidateAmount(&errs, "amount", c.Amount)
	if c.IssueDate.IsZero() {
		errs.Add("issue_date", "data de emissão é obrigatória")
	} else if c.GoodFor.Before(c.IssueDate) {
		errs.Add("good_for", "bom para não pode ser anterior à emissão")
	}
	c.HolderDocument = ""
	if doc := strings.TrimSpace(p.HolderDocument); doc != "" {
		digits, _, err := document.Normalize(doc)
		if err != nil {
			errs.Add("holder_document", "documento do emitente inválido")
		}
		c.HolderDocument = digits
	}

	probe := model.Entry{ContactID: c.ContactID, BankAccountID: c.BankAccountID}
	if err := entries.ValidateReferences(ctx, s.store, &errs, probe); err != nil {
		return err
	}
	if c.EntryID != "" {
		e, err := s.store.GetEntry(ctx, c.EntryID)
		switch {
		case errors.Is(err, store.ErrNotFound):
			errs.Add("entry_id", "lançamento não encontrado")
		case err != nil:
			return fmt.Errorf("looking up entry: %w", err)
		case c.Direction == model.CheckReceived && e.Kind != model.EntryReceivable:
			errs.Add("entry_id", "cheque recebido deve quitar uma conta a receber")
		case c.Direction == model.CheckIssued && e.Kind != model.EntryPayable:
			errs.Add("entry_id", "cheque emitido deve quitar uma conta a pagar")
		}
	}
	return errs.Err()
}

// Create validates and stores a new pending check.
func (s *Service) Create(ctx context.Context, p Params) (model.Check, error) {
	c := model.Check{ID: id.New(), Status: model.CheckPending, UpdatedAt: s.now()}
	if err := s.build(ctx, &c, p); err != nil {
		return model.Check{}, err
	}
	if err := s.store.CreateCheck(ctx, c); err != nil {
		return model.Check{}, err
	}
	s.logger.Info("check created",
		zap.String("id", c.ID), zap.String("direction", string(c.Direction)), zap.String("number", c.Number))
	return c, nil
}

// Update replaces the fields of a pending check. The direction cannot change.
func (s *Service) Update(ctx context.Context, checkID string, p Params) (model.Check, error) {
	c, err := s.store.GetCheck(ctx, checkID)
	if err != nil {
		return model.Check{}, err
	}
	if c.Status != model.CheckPending {
		return model.Check{}, fieldError("status", "apenas cheques pendentes podem ser alterados")
	}
	if p.Direction != c.Direction {
		return model.Check{}, fieldError("direction", "a direção do cheque não pode ser alterada")
	}
	if err := s.build(ctx, &c, p); err != nil {
		return model.Check{}, err
	}
	c.UpdatedAt = s.now()
	if err := s.store.UpdateCheck(ctx, c); err != nil {
		return model.Check{}, err
	}
	return c, nil
}

// Get returns a check.
func (s *Service) Get(ctx context.Context, checkID string) (model.Check, error) {
	return s.store.GetCheck(ctx, checkID)
}

// List returns checks matching f, ordered by good-for date.
func (s *Service) List(ctx context.Context, f store.CheckFilter) ([]model.Check, error) {
	return s.store.ListChecks(ctx, f)
}

// Delete removes a pending or cancelled check.
func (s *Service) Delete(ctx context.Context, checkID string) error {
	c, err := s.store.GetCheck(ctx, checkID)
	if err != nil {
		return err
	}
	if c.Status != model.CheckPending && c.Status != model.CheckCancelled {
		return fmt.Errorf("%w: check %s is %s", store.ErrConflict, c.Number, c.Status)
	}
	return s.store.DeleteCheck(ctx, checkID)
}

// StatusParams describes a status change.
type StatusParams struct {
	Status        model.CheckStatus
	Date          time.Time // clearing date; defaults to today
	BankAccountID string    // account deposited into or drawn from
}

// ChangeStatus moves a check along its lifecycle. Clearing a check linked
// to an open entry pays that entry on the clearing date into the check's
// bank account, in the same transaction.
func (s *Service) ChangeStatus(ctx context.Context, checkID string, p StatusParams) (model.Check, error) {
	c, err := s.store.GetCheck(ctx, checkID)
	if err != nil {
		return model.Check{}, err
	}
	if !CanTransition(c.Direction, c.Status, p.Status) {
		return model.Check{}, fieldError("status", "transição de %s para %s não permitida", c.Status, p.Status)
	}
	if p.BankAccountID != "" {
		if _, err := s.store.GetBankAccount(ctx, p.BankAccountID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return model.Check{}, fieldError("bank_account_id", "conta bancária não encontrada")
			}
			return model.Check{}, fmt.Errorf("looking up bank account: %w", err)
		}
		c.BankAccountID = p.BankAccountID
	}
	from := c.Status
	c.Status = p.Status
	c.UpdatedAt = s.now()

	if c.Status == model.CheckCleared && c.EntryID != "" {
		e, err := s.store.GetEntry(ctx, c.EntryID)
		if err != nil {
			return model.Check{}, fmt.Errorf("loading linked entry: %w", err)
		}
		if e.Status.Open() {
			paid, err := s.settler.Settle(ctx, e, entries.PayParams{
				Date:          p.Date,
				Amount:        c.Amount,
				BankAccountID: c.BankAccountID,
			})
			if err != nil {
				return model.Check{}, err
			}
			if err := s.store.UpdateCheckAndEntry(ctx, c, paid); err != nil {
				return model.Check{}, err
			}
			s.logger.Info("check cleared", zap.String("id", c.ID), zap.String("entry_id", paid.ID))
			return c, nil
		}
	}

	if err := s.store.UpdateCheck(ctx, c); err != nil {
		return model.Check{}, err
	}
	s.logger.Info("check status changed",
		zap.String("id", c.ID), zap.String("from", string(from)), zap.String("to", string(c.Status)))
	return c, nil
}

func fieldError(field, format string, args ...any) error {
	var errs validation.Errors
	errs.Add(field, format, args...)
	return errs
}
