package report

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jcfinanceiro/jcfinanceiro/internal/banking"
	"github.com/jcfinanceiro/jcfinanceiro/internal/model"
	"github.com/jcfinanceiro/jcfinanceiro/internal/store"
	"github.com/jcfinanceiro/jcfinanceiro/internal/validation"
)

func newTestService(t *testing.T) (*Service, *store.DB) {
	t.Helper()
	db, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	require.NoError(t, db.CreateBankAccount(ctx, model.BankAccount{
		ID: "caixa", Name: "Caixa", Type: model.BankAccountCash,
		InitialBalance: decimal.NewFromInt(1000), InitialBalanceDate: date(2025, 1, 1), Active: true,
	}))
	for _, c := range testTree().All() {
		require.NoError(t, db.CreateCategory(ctx, c))
	}
	for _, e := range sampleEntries() {
		e.ID = "e-" + e.CategoryID + "-" + e.Amount.String()
		e.BankAccountID = "caixa"
		require.NoError(t, db.CreateEntry(ctx, e))
	}

	svc := NewService(db, banking.NewService(db, zap.NewNop()), zap.NewNop())
	svc.now = func() time.Time { return date(2025, 3, 10) }
	return svc, db
}

func TestServiceDRE(t *testing.T) {
	svc, _ := newTestService(t)
	d, err := svc.DRE(context.Background(), Period{From: date(2025, 1, 1), To: date(2025, 2, 28)}, BasisCompetence)
	require.NoError(t, err)
	assert.Equal(t, "720.00", d.Line(KeyNetIncome).Total.StringFixed(2))

	_, err = svc.DRE(context.Background(), Period{From: date(2025, 1, 1)}, "accrual")
	verrs, ok := validation.As(err)
	require.True(t, ok)
	assert.True(t, verrs.Has("period"))
	assert.True(t, verrs.Has("basis"))
}

func TestServiceCashFlowOpening(t *testing.T) {
	svc, _ := newTestService(t)
	cf, err := svc.CashFlow(context.Background(), "caixa", date(2025, 3, 1), date(2025, 3, 31), Monthly)
	require.NoError(t, err)
	assert.Equal(t, "1000.00", cf.OpeningBalance.StringFixed(2))
	assert.Equal(t, "1500.00", cf.ClosingBalance.StringFixed(2))

	all, err := svc.CashFlow(context.Background(), "", date(2025, 3, 1), date(2025, 3, 31), Monthly)
	require.NoError(t, err)
	assert.True(t, all.ClosingBalance.Equal(cf.ClosingBalance))
}

func TestServiceByCategoryAndDashboard(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	b, err := svc.ByCategory(ctx, model.EntryReceivable, Period{From: date(2025, 1, 1), To: date(2025, 12, 31)}, BasisCompetence)
	require.NoError(t, err)
	assert.Equal(t, "1550.00", b.Total.StringFixed(2))

	_, err = svc.ByCategory(ctx, "loan", Period{From: date(2025, 1, 1), To: date(2025, 12, 31)}, BasisCompetence)
	_, ok := validation.As(err)
	assert.True(t, ok)

	d, err := svc.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, "500.00", d.ReceivedThisMonth.StringFixed(2))
}
