package terminal

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jcfinanceiro/jcfinanceiro/internal/model"
	"github.com/jcfinanceiro/jcfinanceiro/internal/store"
	"github.com/jcfinanceiro/jcfinanceiro/internal/validation"
)

func newTestService(t *testing.T) (*Service, *store.DB) {
	t.Helper()
	db, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	acc := model.BankAccount{ID: "acc-1", Name: "Conta Stone", Type: model.BankAccountChecking, InitialBalance: decimal.Zero, InitialBalanceDate: date(2025, 1, 1), Active: true}
	require.NoError(t, db.CreateBankAccount(context.Background(), acc))
	return NewService(db, zap.NewNop(), opts(true)), db
}

func TestTerminalCRUD(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, Params{Name: "", BankAccountID: "nope"})
	verrs, ok := validation.As(err)
	require.True(t, ok)
	assert.True(t, verrs.Has("name"))
	assert.True(t, verrs.Has("bank_account_id"))

	term, err := svc.Create(ctx, Params{Name: "Stone balcão", Provider: "Stone", BankAccountID: "acc-1", Active: true})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, term.ID, Params{Name: "Stone loja", Provider: "Stone", BankAccountID: "acc-1"})
	require.NoError(t, err)
	assert.False(t, updated.Active)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, svc.Delete(ctx, term.ID))
	_, err = svc.Get(ctx, term.ID)
	assert.True(t, errors.Is(err, store.ErrNotFound))
}

func TestSetFees(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	term, err := svc.Create(ctx, Params{Name: "Cielo", BankAccountID: "acc-1", Active: true})
	require.NoError(t, err)

	_, err = svc.SetFees(ctx, term.ID, []model.TerminalFee{fee(model.MethodPix, "", 1, 1, "1")})
	_, ok := validation.As(err)
	assert.True(t, ok)

	table, err := svc.SetFees(ctx, term.ID, []model.TerminalFee{
		fee(model.MethodDebit, "", 1, 1, "1.99"),
		fee(model.MethodCredit, "Visa", 1, 12, "3.1234"),
	})
	require.NoError(t, err)
	assert.Equal(t, model.AnyBrand, table[0].Brand)

	stored, err := svc.Fees(ctx, term.ID)
	require.NoError(t, err)
	require.Len(t, stored, 2)
	got, ok := stored.Find(model.MethodCredit, "visa", 3)
	require.True(t, ok)
	assert.Equal(t, "3.1234", got.RatePercent.String())

	_, err = svc.SetFees(ctx, "missing", nil)
	assert.True(t, errors.Is(err, store.ErrNotFound))
}

func TestServiceReconcile(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	term, err := svc.Create(ctx, Params{Name: "Stone", BankAccountID: "acc-1", Active: true})
	require.NoError(t, err)
	debit := fee(model.MethodDebit, "*", 1, 1, "2")
	debit.SettlementDays = 1
	_, err = svc.SetFees(ctx, term.ID, []model.TerminalFee{debit})
	require.NoError(t, err)

	for i, gross := range []string{"100.00", "50.00"} {
		sale := model.Sale{
			ID:           []string{"s1", "s2"}[i],
			Date:         date(2025, 5, 5),
			Description:  "Venda balcão",
			Gross:        decimal.RequireFromString(gross),
			Discount:     decimal.Zero,
			Method:       model.MethodDebit,
			Installments: 1,
			TerminalID:   term.ID,
		}
		require.NoError(t, db.CreateSaleWithEntries(ctx, sale, nil))
	}
	require.NoError(t, db.CreateTransactions(ctx, []model.BankTransaction{
		{ID: "d1", BankAccountID: "acc-1", Date: date(2025, 5, 6), Description: "STONE PAGAMENTOS", Amount: decimal.RequireFromString("147.00"), Reference: "r1"},
		{ID: "d2", BankAccountID: "acc-1", Date: date(2025, 5, 6), Description: "TARIFA", Amount: decimal.RequireFromString("-12.00"), Reference: "r2"},
	}))

	res, err := svc.Reconcile(ctx, term.ID, date(2025, 5, 1), date(2025, 5, 31))
	require.NoError(t, err)
	require.Len(t, res.Matched, 1)
	assert.True(t, res.Matched[0].Grouped)
	assert.Empty(t, res.Unexpected, "debits are not deposits")
	assert.Equal(t, "147.00", res.TotalExpected.StringFixed(2))

	_, err = svc.Reconcile(ctx, term.ID, date(2025, 5, 31), date(2025, 5, 1))
	_, ok := validation.As(err)
	assert.True(t, ok)
}
