package contacts

import (
	"context"
	"path/filepath"
	"testing"

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
	return NewService(db, zap.NewNop())
}

func TestCreateNormalizesDocument(t *testing.T) {
	svc := newTestService(t)
	c, err := svc.Create(context.Background(), Params{
		Kind: model.ContactSupplier, Name: " Distribuidora Sul ", Document: "11.222.333/0001-81",
		Email: "Compras@DistSul.com.br", Phone: "(11) 98765-4321", Active: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "Distribuidora Sul", c.Name)
	assert.Equal(t, "11222333000181", c.Document)
	assert.Equal(t, "compras@distsul.com.br", c.Email)
	assert.Equal(t, "11987654321", c.Phone)
	assert.NotEmpty(t, c.ID)
}

func TestCreateValidation(t *testing.T) {
	svc := newTestService(t)
	tests := []struct {
		name  string
		p     Params
		field string
	}{
		{"name", Params{Kind: model.ContactCustomer}, "name"},
		{"kind", Params{Kind: "vendor", Name: "X"}, "kind"},
		{"bad cpf", Params{Kind: model.ContactCustomer, Name: "X", Document: "529.982.247-24"}, "document"},
		{"bad cnpj", Params{Kind: model.ContactCustomer, Name: "X", Document: "11.222.333/0001-80"}, "document"},
		{"short document", Params{Kind: model.ContactCustomer, Name: "X", Document: "1234"}, "document"},
		{"email", Params{Kind: model.ContactCustomer, Name: "X", Email: "not-an-email"}, "email"},
		{"phone", Params{Kind: model.ContactCustomer, Name: "X", Phone: "1234"}, "phone"},
	}
	for _, tt := range tests {
		_, err := svc.Create(context.Background(), tt.p)
		verrs, ok := validation.As(err)
		require.True(t, ok, tt.name)
		assert.True(t, verrs.Has(tt.field), tt.name)
	}
}

func TestDuplicateDocumentConflict(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	p := Params{Kind: model.ContactCustomer, Name: "Maria", Document: "529.982.247-25", Active: true}
	first, err := svc.Create(ctx, p)
	require.NoError(t, err)

	_, err = svc.Create(ctx, p)
	assert.ErrorIs(t, err, store.ErrConflict)

	// updating the owner of the document is fine
	p.Name = "Maria Silva"
	updated, err := svc.Update(ctx, first.ID, p)
	require.NoError(t, err)
	assert.Equal(t, "Maria Silva", updated.Name)

	// a supplier may share the document
	p.Kind = model.ContactSupplier
	_, err = svc.Create(ctx, p)
	require.NoError(t, err)
}

func TestSearch(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	_, err := svc.Create(ctx, Params{Kind: model.ContactCustomer, Name: "João Conceição", Document: "52998224725", Active: true})
	require.NoError(t, err)
	_, err = svc.Create(ctx, Params{Kind: model.ContactCustomer, Name: "Mercado Bom Preço", TradeName: "Bom Preço", Active: true})
	require.NoError(t, err)
	_, err = svc.Create(ctx, Params{Kind: model.ContactSupplier, Name: "Joao Fornecedor", Active: true})
	require.NoError(t, err)

	got, err := svc.Search(ctx, "joao", model.ContactCustomer)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "João Conceição", got[0].Name)

	got, err = svc.Search(ctx, "PRECO", "")
	require.NoError(t, err)
	assert.Len(t, got, 1)

	got, err = svc.Search(ctx, "529.982", "")
	require.NoError(t, err)
	assert.Len(t, got, 1)

	got, err = svc.Search(ctx, "joão", "")
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestSuggest(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	_, err := svc.Create(ctx, Params{Kind: model.ContactSupplier, Name: "Companhia Energética", TradeName: "Energisa", Active: true})
	require.NoError(t, err)
	_, err = svc.Create(ctx, Params{Kind: model.ContactSupplier, Name: "Padaria Central", Active: true})
	require.NoError(t, err)

	c, ok, err := svc.Suggest(ctx, "ENERGISA", model.ContactSupplier)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Companhia Energética", c.Name)

	_, ok, err = svc.Suggest(ctx, "", model.ContactSupplier)
	require.NoError(t, err)
	assert.False(t, ok)
}
