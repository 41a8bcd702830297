package checks

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

	"github.com/jcfinanceiro/jcfinanceiro/internal/entries"
	"github.com/jcfinanceiro/jcfinanceiro/internal/model"
	"github.com/jcfinanceiro/jcfinanceiro/internal/store"
	"github.com/jcfinanceiro/jcfinanceiro/internal/validation"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newTestService(t *testing.T) (*Service, *store.DB) {
	t.Helper()
	db, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	require.NoError(t, db.CreateBankAccount(ctx, model.BankAccount{ID: "acc-1", Name: "Itaú", Type: model.BankAccountChecking, Branch: "1234", Number: "56789", InitialBalance: decimal.Zero, InitialBalanceDate: date(2025, 1, 1), Active: true}))

	svc := NewService(db, entries.NewService(db, zap.NewNop()), zap.NewNop())
	svc.now = func() time.Time { return date(2025, 2, 1) }
	return svc, db
}

func received() Params {
	return Params{
		Direction:      model.CheckReceived,
		Number:         "000123",
		BankCode:       "341",
		Holder:         "Maria Silva",
		HolderDocument: "529.982.247-25",
		Amount:         decimal.RequireFromString("850.00"),
		IssueDate:      date(2025, 2, 1),
		GoodFor:        date(2025, 3, 1),
	}
}

func TestCreate(t *testing.T) {
	svc, _ := newTestService(t)
	c, err := svc.Create(context.Background(), received())
	require.NoError(t, err)
	assert.Equal(t, model.CheckPending, c.Status)
	assert.Equal(t, "52998224725", c.HolderDocument)

	p := received()
	p.GoodFor = time.Time{}
	c, err = svc.Create(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, c.IssueDate, c.GoodFor)
}

func TestCreateValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*Params)
		field  string
	}{
		{"bad direction", func(p *Params) { p.Direction = "lost" }, "direction"},
		{"no number", func(p *Params) { p.Number = "" }, "number"},
		{"letters in number", func(p *Params) { p.Number = "12a" }, "number"},
		{"bank code", func(p *Params) { p.BankCode = "34" }, "bank_code"},
		{"zero amount", func(p *Params) { p.Amount = decimal.Zero }, "amount"},
		{"no issue date", func(p *Params) { p.IssueDate = time.Time{} }, "issue_date"},
		{"good for before issue", func(p *Params) { p.GoodFor = date(2025, 1, 1) }, "good_for"},
		{"bad holder document", func(p *Params) { p.HolderDocument = "529.982.247-24" }, "holder_document"},
		{"unknown entry", func(p *Params) { p.EntryID = "nope" }, "entry_id"},
		{"unknown account", func(p *Params) { p.BankAccountID = "nope" }, "bank_account_id"},
	}
	for _, tt := range tests {
		p := received()
		tt.mutate(&p)
		_, err := svc.Create(ctx, p)
		verrs, ok := validation.As(err)
		require.True(t, ok, tt.name)
		assert.True(t, verrs.Has(tt.field), "%s: %v", tt.name, verrs)
	}
}

func TestEntryKindMustMatchDirection(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	require.NoError(t, db.CreateEntry(ctx, model.Entry{
		ID: "e1", Kind: model.EntryPayable, Description: "Fornecedor", Amount: decimal.NewFromInt(850),
		DueDate: date(2025, 3, 1), CompetenceDate: date(2025, 3, 1), Status: model.StatusPending, PaidAmount: decimal.Zero,
	}))

	p := received()
	p.EntryID = "e1"
	_, err := svc.Create(ctx, p)
	verrs, ok := validation.As(err)
	require.True(t, ok)
	assert.True(t, verrs.Has("entry_id"))
}

func TestClearingPaysEntry(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	require.NoError(t, db.CreateEntry(ctx, model.Entry{
		ID: "e1", Kind: model.EntryReceivable, Description: "Venda a prazo", Amount: decimal.NewFromInt(850),
		DueDate: date(2025, 3, 1), CompetenceDate: date(2025, 2, 1), Status: model.StatusPending, PaidAmount: decimal.Zero,
	}))

	p := received()
	p.EntryID = "e1"
	c, err := svc.Create(ctx, p)
	require.NoError(t, err)

	_, err = svc.ChangeStatus(ctx, c.ID, StatusParams{Status: model.CheckCleared})
	_, ok := validation.As(err)
	require.True(t, ok, "pending received checks must be deposited first")

	c, err = svc.ChangeStatus(ctx, c.ID, StatusParams{Status: model.CheckDeposited, BankAccountID: "acc-1"})
	require.NoError(t, err)
	assert.Equal(t, "acc-1", c.BankAccountID)

	c, err = svc.ChangeStatus(ctx, c.ID, StatusParams{Status: model.CheckCleared, Date: date(2025, 3, 3)})
	require.NoError(t, err)
	assert.Equal(t, model.CheckCleared, c.Status)

	e, err := db.GetEntry(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, model.StatusPaid, e.Status)
	assert.Equal(t, "acc-1", e.BankAccountID)
	require.NotNil(t, e.PaidAt)
	assert.Equal(t, date(2025, 3, 3), *e.PaidAt)
	assert.Equal(t, "850.00", e.PaidAmount.StringFixed(2))

	stored, err := db.GetCheck(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, model.CheckCleared, stored.Status)
}

func TestReturnedCheckRedeposit(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	c, err := svc.Create(ctx, received())
	require.NoError(t, err)

	for _, st := range []model.CheckStatus{model.CheckDeposited, model.CheckReturned, model.CheckDeposited} {
		c, err = svc.ChangeStatus(ctx, c.ID, StatusParams{Status: st})
		require.NoError(t, err, st)
	}
	assert.Equal(t, model.CheckDeposited, c.Status)

	assert.True(t, errors.Is(svc.Delete(ctx, c.ID), store.ErrConflict))
}

func TestUpdateAndDelete(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	c, err := svc.Create(ctx, received())
	require.NoError(t, err)

	p := received()
	p.Amount = decimal.RequireFromString("900")
	c, err = svc.Update(ctx, c.ID, p)
	require.NoError(t, err)
	assert.Equal(t, "900.00", c.Amount.StringFixed(2))

	p.Direction = model.CheckIssued
	_, err = svc.Update(ctx, c.ID, p)
	_, ok := validation.As(err)
	assert.True(t, ok)

	require.NoError(t, svc.Delete(ctx, c.ID))
	_, err = svc.Get(ctx, c.ID)
	assert.True(t, errors.Is(err, store.ErrNotFound))
}
