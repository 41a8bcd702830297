package entries

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jcfinanceiro/jcfinanceiro/internal/installments"
	"github.com/jcfinanceiro/jcfinanceiro/internal/model"
	"github.com/jcfinanceiro/jcfinanceiro/internal/store"
	"github.com/jcfinanceiro/jcfinanceiro/internal/validation"
)

type fixture struct {
	svc     *Service
	db      *store.DB
	account model.BankAccount
	income  model.Category
	expense model.Category
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	db, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	f := fixture{
		db:      db,
		account: model.BankAccount{ID: "acc-1", Name: "Caixa", Type: model.BankAccountCash, InitialBalance: decimal.Zero, InitialBalanceDate: date(2025, 1, 1), Active: true},
		income:  model.Category{ID: "cat-in", Code: "1", Name: "Receitas", Type: model.CategoryIncome, DREGroup: model.DREGrossRevenue, Active: true},
		expense: model.Category{ID: "cat-out", Code: "4", Name: "Despesas", Type: model.CategoryExpense, DREGroup: model.DREOperatingExpenses, Active: true},
	}
	require.NoError(t, db.CreateBankAccount(ctx, f.account))
	require.NoError(t, db.CreateCategory(ctx, f.income))
	require.NoError(t, db.CreateCategory(ctx, f.expense))

	f.svc = NewService(db, zap.NewNop())
	f.svc.now = func() time.Time { return time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC) }
	return f
}

func rent(f fixture) Params {
	return Params{
		Kind:        model.EntryPayable,
		Description: "Aluguel",
		Amount:      decimal.RequireFromString("1500.00"),
		DueDate:     date(2025, 3, 15),
		CategoryID:  f.expense.ID,
	}
}

func TestCreate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	e, err := f.svc.Create(ctx, rent(f))
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, e.Status)
	assert.Equal(t, e.DueDate, e.CompetenceDate)

	got, err := f.svc.Get(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, "Aluguel", got.Description)
	assert.Equal(t, "1500.00", got.Amount.StringFixed(2))
}

func TestCreatePastDueIsOverdue(t *testing.T) {
	f := newFixture(t)
	p := rent(f)
	p.DueDate = date(2025, 3, 1)
	e, err := f.svc.Create(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, model.StatusOverdue, e.Status)
}

func TestCreateValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*Params)
		field  string
	}{
		{"bad kind", func(p *Params) { p.Kind = "loan" }, "kind"},
		{"no description", func(p *Params) { p.Description = "  " }, "description"},
		{"zero amount", func(p *Params) { p.Amount = decimal.Zero }, "amount"},
		{"three places", func(p *Params) { p.Amount = decimal.RequireFromString("1.005") }, "amount"},
		{"no due date", func(p *Params) { p.DueDate = time.Time{} }, "due_date"},
		{"unknown contact", func(p *Params) { p.ContactID = "nope" }, "contact_id"},
		{"unknown account", func(p *Params) { p.BankAccountID = "nope" }, "bank_account_id"},
		{"income category on payable", func(p *Params) { p.CategoryID = f.income.ID }, "category_id"},
	}
	for _, tt := range tests {
		p := rent(f)
		tt.mutate(&p)
		_, err := f.svc.Create(ctx, p)
		verrs, ok := validation.As(err)
		require.True(t, ok, tt.name)
		assert.True(t, verrs.Has(tt.field), "%s: %v", tt.name, verrs)
	}
}

func TestPay(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	e, err := f.svc.Create(ctx, rent(f))
	require.NoError(t, err)

	_, err = f.svc.Pay(ctx, e.ID, PayParams{})
	verrs, ok := validation.As(err)
	require.True(t, ok)
	assert.True(t, verrs.Has("bank_account_id"))

	paid, err := f.svc.Pay(ctx, e.ID, PayParams{BankAccountID: f.account.ID})
	require.NoError(t, err)
	assert.Equal(t, model.StatusPaid, paid.Status)
	require.NotNil(t, paid.PaidAt)
	assert.Equal(t, date(2025, 3, 10), *paid.PaidAt)
	assert.True(t, paid.PaidAmount.Equal(e.Amount))

	_, err = f.svc.Pay(ctx, e.ID, PayParams{BankAccountID: f.account.ID})
	_, ok = validation.As(err)
	assert.True(t, ok, "paying twice must fail")
}

func TestPayUsesDefaultAccount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.db.SaveSettings(ctx, model.Settings{CompanyName: "JC", DefaultBankAccountID: f.account.ID}))

	e, err := f.svc.Create(ctx, rent(f))
	require.NoError(t, err)
	paid, err := f.svc.Pay(ctx, e.ID, PayParams{Amount: decimal.RequireFromString("1490.00"), Date: date(2025, 3, 12)})
	require.NoError(t, err)
	assert.Equal(t, f.account.ID, paid.BankAccountID)
	assert.Equal(t, "1490.00", paid.PaidAmount.StringFixed(2))
}

func TestCancelAndReopen(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := rent(f)
	p.DueDate = date(2025, 3, 5)
	e, err := f.svc.Create(ctx, p)
	require.NoError(t, err)

	_, err = f.svc.Reopen(ctx, e.ID)
	assert.Error(t, err, "open entries cannot be reopened")

	cancelled, err := f.svc.Cancel(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCancelled, cancelled.Status)

	_, err = f.svc.Cancel(ctx, e.ID)
	assert.Error(t, err)

	reopened, err := f.svc.Reopen(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusOverdue, reopened.Status)
}

func TestUpdate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	e, err := f.svc.Create(ctx, rent(f))
	require.NoError(t, err)

	p := rent(f)
	p.Amount = decimal.RequireFromString("1600")
	p.DueDate = date(2025, 4, 15)
	updated, err := f.svc.Update(ctx, e.ID, p)
	require.NoError(t, err)
	assert.Equal(t, "1600.00", updated.Amount.StringFixed(2))

	_, err = f.svc.Pay(ctx, e.ID, PayParams{BankAccountID: f.account.ID})
	require.NoError(t, err)
	_, err = f.svc.Update(ctx, e.ID, p)
	_, ok := validation.As(err)
	assert.True(t, ok, "paid entries are not editable")
}

func TestDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	open, err := f.svc.Create(ctx, rent(f))
	require.NoError(t, err)
	require.NoError(t, f.svc.Delete(ctx, open.ID))
	_, err = f.svc.Get(ctx, open.ID)
	assert.True(t, errors.Is(err, store.ErrNotFound))

	paid, err := f.svc.Create(ctx, rent(f))
	require.NoError(t, err)
	_, err = f.svc.Pay(ctx, paid.ID, PayParams{BankAccountID: f.account.ID})
	require.NoError(t, err)
	assert.True(t, errors.Is(f.svc.Delete(ctx, paid.ID), store.ErrConflict))
}

func TestListComputesStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	late := rent(f)
	late.DueDate = date(2025, 3, 1)
	_, err := f.svc.Create(ctx, late)
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, rent(f))
	require.NoError(t, err)

	overdue, err := f.svc.List(ctx, store.EntryFilter{Statuses: []model.EntryStatus{model.StatusOverdue}})
	require.NoError(t, err)
	require.Len(t, overdue, 1)
	assert.Equal(t, date(2025, 3, 1), overdue[0].DueDate)

	all, err := f.svc.List(ctx, store.EntryFilter{Kind: model.EntryPayable})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestGraceDays(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.db.SaveSettings(ctx, model.Settings{CompanyName: "JC", OverdueGraceDays: 5}))

	p := rent(f)
	p.DueDate = date(2025, 3, 7)
	e, err := f.svc.Create(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, e.Status)
}

func TestRefreshOverdue(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	e, err := f.svc.Create(ctx, rent(f))
	require.NoError(t, err)

	f.svc.now = func() time.Time { return date(2025, 3, 20) }
	n, err := f.svc.RefreshOverdue(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	stored, err := f.db.GetEntry(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusOverdue, stored.Status)
}

func batchPlan(f fixture) installments.Plan {
	return installments.Plan{
		Kind:        model.EntryReceivable,
		Description: "Contrato",
		Total:       decimal.RequireFromString("1000.00"),
		Count:       3,
		FirstDue:    date(2025, 3, 31),
		CategoryID:  f.income.ID,
	}
}

func TestAddBatch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	batchID, created, err := f.svc.AddBatch(ctx, batchPlan(f), nil)
	require.NoError(t, err)
	require.Len(t, created, 3)
	assert.Equal(t, "Contrato (1/3)", created[0].Description)
	assert.Equal(t, "333.34", created[0].Amount.StringFixed(2))
	assert.Equal(t, date(2025, 4, 30), created[1].DueDate)

	stored, err := f.svc.List(ctx, store.EntryFilter{BatchID: batchID})
	require.NoError(t, err)
	assert.Len(t, stored, 3)

	n, err := f.svc.CancelBatch(ctx, batchID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	_, err = f.svc.CancelBatch(ctx, "missing")
	assert.True(t, errors.Is(err, store.ErrNotFound))
}

func TestAddBatchEditedInstallments(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := batchPlan(f)

	insts := installments.Generate(p)
	insts[1].DueDate = date(2025, 3, 1)
	_, _, err := f.svc.AddBatch(ctx, p, insts)
	verrs, ok := validation.As(err)
	require.True(t, ok)
	assert.True(t, verrs.Has("installments[1].due_date"))

	stored, err := f.svc.List(ctx, store.EntryFilter{Kind: model.EntryReceivable})
	require.NoError(t, err)
	assert.Empty(t, stored, "nothing stored on validation failure")
}

func TestPreviewBatch(t *testing.T) {
	f := newFixture(t)
	p := batchPlan(f)
	p.Count = 1
	p.CategoryID = f.expense.ID

	insts, verrs, err := f.svc.PreviewBatch(context.Background(), p)
	require.NoError(t, err)
	assert.Len(t, insts, 1)
	assert.True(t, verrs.Has("count"))
	assert.True(t, verrs.Has("category_id"))
}
