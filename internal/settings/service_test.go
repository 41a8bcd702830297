package settings

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jcfinanceiro/jcfinanceiro/internal/model"
	"github.com/jcfinanceiro/jcfinanceiro/internal/store"
	"github.com/jcfinanceiro/jcfinanceiro/internal/validation"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	db, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.CreateBankAccount(context.Background(), model.BankAccount{
		ID: "caixa", Name: "Caixa", Type: model.BankAccountCash, InitialBalance: decimal.Zero,
		InitialBalanceDate: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), Active: true,
	}))
	return NewService(db, model.Settings{CompanyName: "Padaria JC"}, zap.NewNop())
}

func TestGetDefaults(t *testing.T) {
	svc := newTestService(t)
	st, err := svc.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Padaria JC", st.CompanyName)
}

func TestSave(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	saved, err := svc.Save(ctx, model.Settings{
		CompanyName:          " Padaria JC Ltda ",
		CompanyDocument:      "11.222.333/0001-81",
		DefaultBankAccountID: "caixa",
		OverdueGraceDays:     3,
	})
	require.NoError(t, err)
	assert.Equal(t, "11222333000181", saved.CompanyDocument)

	got, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Padaria JC Ltda", got.CompanyName)
	assert.Equal(t, 3, got.OverdueGraceDays)
	assert.Equal(t, "caixa", got.DefaultBankAccountID)
}

func TestSaveValidation(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.Save(context.Background(), model.Settings{
		CompanyDocument:      "11.222.333/0001-80",
		DefaultBankAccountID: "nope",
		OverdueGraceDays:     31,
	})
	verrs, ok := validation.As(err)
	require.True(t, ok)
	for _, f := range []string{"company_name", "company_document", "default_bank_account_id", "overdue_grace_days"} {
		assert.True(t, verrs.Has(f), f)
	}
}
