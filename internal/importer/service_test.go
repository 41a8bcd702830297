package importer

import (
	"bytes"
	"context"
	"os"
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

func newTestService(t *testing.T) (*Service, *store.DB) {
	t.Helper()
	db, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.CreateBankAccount(context.Background(), model.BankAccount{
		ID: "itau", Name: "Itaú", Type: model.BankAccountChecking, Branch: "1234", Number: "56789",
		InitialBalance: decimal.Zero, InitialBalanceDate: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), Active: true,
	}))
	return NewService(db, DefaultRegistry(), zap.NewNop()), db
}

func TestImportDeduplicates(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	data, err := os.ReadFile("../../testdata/extrato_itau.csv")
	require.NoError(t, err)

	res, err := svc.Import(ctx, "itau", "csv", bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 5, res.Parsed)
	assert.Equal(t, 5, res.Imported)
	assert.Zero(t, res.Duplicates)

	res, err = svc.Import(ctx, "itau", "CSV", bytes.NewReader(data))
	require.NoError(t, err)
	assert.Zero(t, res.Imported)
	assert.Equal(t, 5, res.Duplicates)

	stored, err := db.ListTransactions(ctx, store.TransactionFilter{BankAccountID: "itau", CreditsOnly: true})
	require.NoError(t, err)
	assert.Len(t, stored, 3)
}

func TestImportValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Import(ctx, "nope", "ofx", bytes.NewReader(nil))
	verrs, ok := validation.As(err)
	require.True(t, ok)
	assert.True(t, verrs.Has("format"))
	assert.True(t, verrs.Has("bank_account_id"))

	_, err = svc.Import(ctx, "itau", "csv", bytes.NewReader([]byte("nada;aqui\n")))
	verrs, ok = validation.As(err)
	require.True(t, ok)
	assert.True(t, verrs.Has("file"))
}
