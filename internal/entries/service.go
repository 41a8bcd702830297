// Package entries implements accounts payable and receivable: single
// entries, their payment lifecycle and batches of installments.
package entries

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/jcfinanceiro/jcfinanceiro/internal/dateutil"
	"github.com/jcfinanceiro/jcfinanceiro/internal/id"
	"github.com/jcfinanceiro/jcfinanceiro/internal/installments"
	"github.com/jcfinanceiro/jcfinanceiro/internal/model"
	"github.com/jcfinanceiro/jcfinanceiro/internal/store"
	"github.com/jcfinanceiro/jcfinanceiro/internal/validation"
)

// Store is the persistence the entries service needs.
type Store interface {
	References
	CreateEntry(ctx context.Context, e model.Entry) error
	CreateEntries(ctx context.Context, entries []model.Entry) error
	GetEntry(ctx context.Context, id string) (model.Entry, error)
	UpdateEntry(ctx context.Context, e model.Entry) error
	DeleteEntry(ctx context.Context, id string) error
	ListEntries(ctx context.Context, f store.EntryFilter) ([]model.Entry, error)
	MarkOverdue(ctx context.Context, today time.Time) (int64, error)
	CancelBatch(ctx context.Context, batchID string, now time.Time) (int64, error)
	GetSettings(ctx context.Context) (model.Settings, error)
}

// Service provides business logic for payables and receivables.
type Service struct {
	store  Store
	logger *zap.Logger
	now    func() time.Time
}

// NewService creates an entries Service.
func NewService(st Store, logger *zap.Logger) *Service {
	return &Service{store: st, logger: logger, now: time.Now}
}

// Params holds the editable fields of an entry.
type Params struct {
	Kind           model.EntryKind
	Description    string
	Amount         decimal.Decimal
	DueDate        time.Time
	CompetenceDate time.Time // defaults to DueDate
	ContactID      string
	CategoryID     string
	BankAccountID  string
	DocumentNumber string
	Notes          string
}

func (p Params) apply(e *model.Entry) {
	e.Kind = p.Kind
	e.Description = strings.TrimSpace(p.Description)
	e.Amount = p.Amount
	e.DueDate = dateutil.Day(p.DueDate)
	e.CompetenceDate = dateutil.Day(p.CompetenceDate)
	if p.CompetenceDate.IsZero() {
		e.CompetenceDate = e.DueDate
	}
	e.ContactID = p.ContactID
	e.CategoryID = p.CategoryID
	e.BankAccountID = p.BankAccountID
	e.DocumentNumber = strings.TrimSpace(p.DocumentNumber)
	e.Notes = strings.TrimSpace(p.Notes)
}

// settings returns the saved settings or the defaults.
func (s *Service) settings(ctx context.Context) (model.Settings, error) {
	st, err := s.store.GetSettings(ctx)
	if errors.Is(err, store.ErrNotFound) {
		return model.Settings{}, nil
	}
	return st, err
}

// overdueCutoff is the day before which open entries count as overdue.
func (s *Service) overdueCutoff(ctx context.Context) (time.Time, error) {
	st, err := s.settings(ctx)
	if err != nil {
		return time.Time{}, err
	}
	return dateutil.Day(s.now()).AddDate(0, 0, -st.OverdueGraceDays), nil
}

func (s *Service) validate(ctx context.Context, e model.Entry) error {
	var errs validation.Errors
	ValidateFields(&errs, e)
	if err := ValidateReferences(ctx, s.store, &errs, e); err != nil {
		return err
	}
	return errs.Err()
}

// Create validates and stores a new pending entry.
func (s *Service) Create(ctx context.Context, p Params) (model.Entry, error) {
	now := s.now()
	e := model.Entry{ID: id.New(), Status: model.StatusPending, PaidAmount: decimal.Zero, CreatedAt: now, UpdatedAt: now}
	p.apply(&e)
	if err := s.validate(ctx, e); err != nil {
		return model.Entry{}, err
	}
	cutoff, err := s.overdueCutoff(ctx)
	if err != nil {
		return model.Entry{}, err
	}
	e.Status = e.StatusAt(cutoff)
	if err := s.store.CreateEntry(ctx, e); err != nil {
		return model.Entry{}, err
	}
	s.logger.Info("entry created",
		zap.String("id", e.ID), zap.String("kind", string(e.Kind)), zap.String("amount", e.Amount.StringFixed(2)))
	return e, nil
}

// Get returns an entry with its status as of today.
func (s *Service) Get(ctx context.Context, entryID string) (model.Entry, error) {
	e, err := s.store.GetEntry(ctx, entryID)
	if err != nil {
		return model.Entry{}, err
	}
	cutoff, err := s.overdueCutoff(ctx)
	if err != nil {
		return model.Entry{}, err
	}
	e.Status = e.StatusAt(cutoff)
	return e, nil
}

// Update replaces the editable fields of an open entry.
func (s *Service) Update(ctx context.Context, entryID string, p Params) (model.Entry, error) {
	e, err := s.store.GetEntry(ctx, entryID)
	if err != nil {
		return model.Entry{}, err
	}
	if !e.Status.Open() {
		return model.Entry{}, statusError("status", "apenas lançamentos em aberto podem ser alterados")
	}
	p.apply(&e)
	if err := s.validate(ctx, e); err != nil {
		return model.Entry{}, err
	}
	cutoff, err := s.overdueCutoff(ctx)
	if err != nil {
		return model.Entry{}, err
	}
	e.Status = e.StatusAt(cutoff)
	e.UpdatedAt = s.now()
	if err := s.store.UpdateEntry(ctx, e); err != nil {
		return model.Entry{}, err
	}
	return e, nil
}

// Delete removes an entry. Paid entries must be cancelled instead, and
// receivables of a sale go away with the sale.
func (s *Service) Delete(ctx context.Context, entryID string) error {
	e, err := s.store.GetEntry(ctx, entryID)
	if err != nil {
		return err
	}
	if e.Status == model.StatusPaid {
		return fmt.Errorf("%w: paid entries cannot be deleted, cancel instead", store.ErrConflict)
	}
	if e.SaleID != "" {
		return fmt.Errorf("%w: entry belongs to sale %s", store.ErrConflict, e.SaleID)
	}
	return s.store.DeleteEntry(ctx, entryID)
}

// PayParams describes a settlement.
type PayParams struct {
	Date          time.Time       // defaults to today
	Amount        decimal.Decimal // defaults to the entry amount
	BankAccountID string          // defaults to the entry's, then the settings default
}

// Pay settles a pending or overdue entry.
func (s *Service) Pay(ctx context.Context, entryID string, p PayParams) (model.Entry, error) {
	e, err := s.store.GetEntry(ctx, entryID)
	if err != nil {
		return model.Entry{}, err
	}
	paid, err := s.settle(ctx, e, p)
	if err != nil {
		return model.Entry{}, err
	}
	if err := s.store.UpdateEntry(ctx, paid); err != nil {
		return model.Entry{}, err
	}
	s.logger.Info("entry paid", zap.String("id", paid.ID), zap.String("amount", paid.PaidAmount.StringFixed(2)))
	return paid, nil
}

// Settle returns e marked as paid per p without storing it.
func (s *Service) Settle(ctx context.Context, e model.Entry, p PayParams) (model.Entry, error) {
	return s.settle(ctx, e, p)
}

func (s *Service) settle(ctx context.Context, e model.Entry, p PayParams) (model.Entry, error) {
	if !e.Status.Open() {
		return model.Entry{}, statusError("status", "apenas lançamentos em aberto podem ser baixados (situação atual: %s)", e.Status)
	}

	var errs validation.Errors
	date := dateutil.Day(p.Date)
	if p.Date.IsZero() {
		date = dateutil.Day(s.now())
	}
	amount := p.Amount
	if amount.IsZero() {
		amount = e.Amount
	}
	ValidateAmount(&errs, "amount", amount)

	accountID := p.BankAccountID
	if accountID == "" {
		accountID = e.BankAccountID
	}
	if accountID == "" {
		st, err := s.settings(ctx)
		if err != nil {
			return model.Entry{}, err
		}
		accountID = st.DefaultBankAccountID
	}
	if accountID == "" {
		errs.Add("bank_account_id", "conta bancária é obrigatória para a baixa")
	} else if _, err := s.store.GetBankAccount(ctx, accountID); err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			return model.Entry{}, fmt.Errorf("looking up bank account: %w", err)
		}
		errs.Add("bank_account_id", "conta bancária não encontrada")
	}
	if err := errs.Err(); err != nil {
		return model.Entry{}, err
	}

	e.Status = model.StatusPaid
	e.PaidAt = &date
	e.PaidAmount = amount
	e.BankAccountID = accountID
	e.UpdatedAt = s.now()
	return e, nil
}

// Cancel cancels an entry that is not cancelled yet, discarding any payment.
func (s *Service) Cancel(ctx context.Context, entryID string) (model.Entry, error) {
	e, err := s.store.GetEntry(ctx, entryID)
	if err != nil {
		return model.Entry{}, err
	}
	if e.Status == model.StatusCancelled {
		return model.Entry{}, statusError("status", "lançamento já está cancelado")
	}
	e.Status = model.StatusCancelled
	e.PaidAt = nil
	e.PaidAmount = decimal.Zero
	e.UpdatedAt = s.now()
	if err := s.store.UpdateEntry(ctx, e); err != nil {
		return model.Entry{}, err
	}
	return e, nil
}

// Reopen returns a paid or cancelled entry to pending (or overdue, by due date).
func (s *Service) Reopen(ctx context.Context, entryID string) (model.Entry, error) {
	e, err := s.store.GetEntry(ctx, entryID)
	if err != nil {
		return model.Entry{}, err
	}
	if e.Status.Open() {
		return model.Entry{}, statusError("status", "lançamento já está em aberto")
	}
	cutoff, err := s.overdueCutoff(ctx)
	if err != nil {
		return model.Entry{}, err
	}
	e.Status = model.StatusPending
	e.Status = e.StatusAt(cutoff)
	e.PaidAt = nil
	e.PaidAmount = decimal.Zero
	e.UpdatedAt = s.now()
	if err := s.store.UpdateEntry(ctx, e); err != nil {
		return model.Entry{}, err
	}
	return e, nil
}

// List returns entries matching f, with statuses computed as of today. A
// status filter on pending or overdue uses the computed status.
func (s *Service) List(ctx context.Context, f store.EntryFilter) ([]model.Entry, error) {
	cutoff, err := s.overdueCutoff(ctx)
	if err != nil {
		return nil, err
	}
	wanted := make(map[model.EntryStatus]bool, len(f.Statuses))
	for _, st := range f.Statuses {
		wanted[st] = true
	}
	if wanted[model.StatusPending] || wanted[model.StatusOverdue] {
		f.Statuses = append(f.Statuses, model.StatusPending, model.StatusOverdue)
	}

	found, err := s.store.ListEntries(ctx, f)
	if err != nil {
		return nil, err
	}
	out := make([]model.Entry, 0, len(found))
	for _, e := range found {
		e.Status = e.StatusAt(cutoff)
		if len(wanted) > 0 && !wanted[e.Status] {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

// RefreshOverdue persists the overdue status of open entries and returns how
// many became overdue.
func (s *Service) RefreshOverdue(ctx context.Context) (int64, error) {
	cutoff, err := s.overdueCutoff(ctx)
	if err != nil {
		return 0, err
	}
	n, err := s.store.MarkOverdue(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	s.logger.Info("overdue entries refreshed", zap.Int64("count", n))
	return n, nil
}

// PreviewBatch generates the installments of a plan and reports the
// validation problems, without storing anything.
func (s *Service) PreviewBatch(ctx context.Context, p installments.Plan) ([]installments.Installment, validation.Errors, error) {
	insts := installments.Generate(p)
	errs, err := s.validateBatch(ctx, p, insts)
	return insts, errs, err
}

func (s *Service) validateBatch(ctx context.Context, p installments.Plan, insts []installments.Installment) (validation.Errors, error) {
	errs := installments.Validate(p, insts, dateutil.Day(s.now()))
	probe := model.Entry{Kind: p.Kind, ContactID: p.ContactID, CategoryID: p.CategoryID, BankAccountID: p.BankAccountID}
	if err := ValidateReferences(ctx, s.store, &errs, probe); err != nil {
		return nil, err
	}
	return errs, nil
}

// AddBatch validates a plan with its installments (generated when insts is
// nil, or as edited by the user) and stores all of them atomically. It
// returns the batch ID and the stored entries.
func (s *Service) AddBatch(ctx context.Context, p installments.Plan, insts []installments.Installment) (string, []model.Entry, error) {
	if insts == nil {
		insts = installments.Generate(p)
	}
	errs, err := s.validateBatch(ctx, p, insts)
	if err != nil {
		return "", nil, err
	}
	if err := errs.Err(); err != nil {
		return "", nil, err
	}

	batchID := id.New()
	entries := installments.Entries(p, insts, batchID, s.now())
	if err := s.store.CreateEntries(ctx, entries); err != nil {
		return "", nil, fmt.Errorf("storing batch: %w", err)
	}
	s.logger.Info("batch created",
		zap.String("batch_id", batchID), zap.Int("installments", len(entries)),
		zap.String("total", installments.Sum(insts).StringFixed(2)))
	return batchID, entries, nil
}

// CancelBatch cancels the open installments of a batch.
func (s *Service) CancelBatch(ctx context.Context, batchID string) (int64, error) {
	existing, err := s.store.ListEntries(ctx, store.EntryFilter{BatchID: batchID})
	if err != nil {
		return 0, err
	}
	if batchID == "" || len(existing) == 0 {
		return 0, store.ErrNotFound
	}
	return s.store.CancelBatch(ctx, batchID, s.now())
}

func statusError(field, format string, args ...any) error {
	var errs validation.Errors
	errs.Add(field, format, args...)
	return errs
}
