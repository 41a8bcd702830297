package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jcfinanceiro/jcfinanceiro/internal/auditlog"
	"github.com/jcfinanceiro/jcfinanceiro/internal/auth"
	"github.com/jcfinanceiro/jcfinanceiro/internal/banking"
	"github.com/jcfinanceiro/jcfinanceiro/internal/categories"
	"github.com/jcfinanceiro/jcfinanceiro/internal/checks"
	"github.com/jcfinanceiro/jcfinanceiro/internal/contacts"
	"github.com/jcfinanceiro/jcfinanceiro/internal/entries"
	"github.com/jcfinanceiro/jcfinanceiro/internal/importer"
	"github.com/jcfinanceiro/jcfinanceiro/internal/model"
	"github.com/jcfinanceiro/jcfinanceiro/internal/report"
	"github.com/jcfinanceiro/jcfinanceiro/internal/sales"
	"github.com/jcfinanceiro/jcfinanceiro/internal/settings"
	"github.com/jcfinanceiro/jcfinanceiro/internal/store"
	"github.com/jcfinanceiro/jcfinanceiro/internal/terminal"
	"github.com/jcfinanceiro/jcfinanceiro/internal/validation"
)

const password = "Segredo123"

type envelope struct {
	Status  string                  `json:"status"`
	Data    json.RawMessage         `json:"data"`
	Message string                  `json:"message"`
	Errors  []validation.FieldError `json:"errors"`
}

type testAPI struct {
	t      *testing.T
	router *gin.Engine
	auth   *auth.Service
	audit  *auditlog.Log
	token  string
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)
	dir := t.TempDir()
	db, err := store.Open(filepath.Join(dir, "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	logger := zap.NewNop()
	authSvc, err := auth.NewService(db, []byte("test-secret"), time.Hour, logger)
	require.NoError(t, err)
	bankSvc := banking.NewService(db, logger)
	entrySvc := entries.NewService(db, logger)
	audit := auditlog.New(dir)

	router := NewRouter(Services{
		Auth:       authSvc,
		Banking:    bankSvc,
		Contacts:   contacts.NewService(db, logger),
		Categories: categories.NewService(db, logger),
		Entries:    entrySvc,
		Sales:      sales.NewService(db, logger),
		Checks:     checks.NewService(db, entrySvc, logger),
		Terminals:  terminal.NewService(db, logger, terminal.Options{ToleranceDays: 2}),
		Importer:   importer.NewService(db, importer.DefaultRegistry(), logger),
		Reports:    report.NewService(db, bankSvc, logger),
		Settings:   settings.NewService(db, model.Settings{CompanyName: "Padaria JC"}, logger),
		Audit:      audit,
	}, logger)

	_, err = authSvc.Register(context.Background(), "dono@padaria.com.br", "Dono", password, "")
	require.NoError(t, err)

	api := &testAPI{t: t, router: router, auth: authSvc, audit: audit}
	api.token = api.login("dono@padaria.com.br")
	return api
}

func (a *testAPI) login(email string) string {
	code, env := a.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{"email": email, "password": password})
	require.Equal(a.t, http.StatusOK, code, env.Message)
	var out struct {
		Token string `json:"token"`
	}
	require.NoError(a.t, json.Unmarshal(env.Data, &out))
	return out.Token
}

func (a *testAPI) send(req *http.Request, token string) (int, envelope) {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	var env envelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w.Code, env
}

func (a *testAPI) do(method, path, token string, body any) (int, envelope) {
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(a.t, err)
		r = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	return a.send(req, token)
}

// create posts body and returns the new record's id.
func (a *testAPI) create(path string, body any) string {
	code, env := a.do(http.MethodPost, path, a.token, body)
	require.Equal(a.t, http.StatusCreated, code, "%s: %s %v", path, env.Message, env.Errors)
	var out struct {
		ID string `json:"id"`
	}
	require.NoError(a.t, json.Unmarshal(env.Data, &out))
	return out.ID
}

func (a *testAPI) cashAccount() string {
	return a.create("/api/v1/bank-accounts", map[string]any{
		"name":                 "Caixa",
		"type":                 "cash",
		"initial_balance":      "500.00",
		"initial_balance_date": "2025-01-01",
	})
}

func TestHealth(t *testing.T) {
	a := newTestAPI(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"UP"`)
}

func TestAuthRequired(t *testing.T) {
	a := newTestAPI(t)
	code, env := a.do(http.MethodGet, "/api/v1/entries", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "error", env.Status)

	code, _ = a.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{"email": "dono@padaria.com.br", "password": "Errada123"})
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestEntryLifecycle(t *testing.T) {
	a := newTestAPI(t)
	accountID := a.cashAccount()

	entryID := a.create("/api/v1/entries", map[string]any{
		"kind":            "payable",
		"description":     "Aluguel",
		"amount":          "1500.00",
		"due_date":        "10/01/2099",
		"bank_account_id": accountID,
	})

	code, env := a.do(http.MethodPost, "/api/v1/entries/"+entryID+"/pay", a.token, nil)
	require.Equal(t, http.StatusOK, code, env.Message)
	var paid model.Entry
	require.NoError(t, json.Unmarshal(env.Data, &paid))
	assert.Equal(t, model.StatusPaid, paid.Status)
	assert.Equal(t, "1500", paid.PaidAmount.String())

	code, _ = a.do(http.MethodDelete, "/api/v1/entries/"+entryID, a.token, nil)
	assert.Equal(t, http.StatusConflict, code)

	code, env = a.do(http.MethodGet, "/api/v1/entries?status=paid", a.token, nil)
	require.Equal(t, http.StatusOK, code)
	var list []model.Entry
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Len(t, list, 1)

	recs, err := a.audit.Read()
	require.NoError(t, err)
	var actions []string
	for _, r := range recs {
		actions = append(actions, r.Action+" "+r.Entity)
		assert.Equal(t, "dono@padaria.com.br", r.User)
	}
	assert.Equal(t, []string{"create bank_account", "create entry", "pay entry"}, actions)
}

func TestErrorMapping(t *testing.T) {
	a := newTestAPI(t)

	code, env := a.do(http.MethodPost, "/api/v1/entries", a.token, map[string]any{
		"kind":        "payable",
		"description": "Sem valor",
		"amount":      "0",
		"due_date":    "2099-01-10",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	require.NotEmpty(t, env.Errors)
	assert.Equal(t, "amount", env.Errors[0].Field)

	code, env = a.do(http.MethodPost, "/api/v1/entries", a.token, map[string]any{
		"kind": "payable", "description": "x", "amount": "10", "due_date": "amanhã",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.True(t, validation.Errors(env.Errors).Has("due_date"))

	code, _ = a.do(http.MethodGet, "/api/v1/entries/nope", a.token, nil)
	assert.Equal(t, http.StatusNotFound, code)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/entries", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	code, _ = a.send(req, a.token)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestBatch(t *testing.T) {
	a := newTestAPI(t)
	plan := map[string]any{
		"kind":        "receivable",
		"description": "Encomenda",
		"total":       "1000.00",
		"count":       3,
		"first_due":   "2099-01-31",
	}

	code, env := a.do(http.MethodPost, "/api/v1/entries/batch/preview", a.token, plan)
	require.Equal(t, http.StatusOK, code)
	var preview struct {
		Installments []struct {
			Amount string `json:"amount"`
		} `json:"installments"`
		Valid bool `json:"valid"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &preview))
	assert.True(t, preview.Valid)
	require.Len(t, preview.Installments, 3)
	assert.Equal(t, "333.34", preview.Installments[0].Amount)

	code, env = a.do(http.MethodPost, "/api/v1/entries/batch", a.token, plan)
	require.Equal(t, http.StatusCreated, code, env.Message)
	var created struct {
		BatchID string        `json:"batch_id"`
		Entries []model.Entry `json:"entries"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	require.Len(t, created.Entries, 3)

	code, _ = a.do(http.MethodDelete, "/api/v1/entries/batch/"+created.BatchID, a.token, nil)
	assert.Equal(t, http.StatusOK, code)

	code, env = a.do(http.MethodGet, "/api/v1/entries?batch_id="+created.BatchID+"&status=cancelled", a.token, nil)
	require.Equal(t, http.StatusOK, code)
	var list []model.Entry
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Len(t, list, 3)
}

func TestAdminOnlyRoutes(t *testing.T) {
	a := newTestAPI(t)
	_, err := a.auth.Register(context.Background(), "caixa@padaria.com.br", "Caixa", password, auth.RoleUser)
	require.NoError(t, err)
	userToken := a.login("caixa@padaria.com.br")

	body := map[string]any{"company_name": "Padaria JC Ltda", "overdue_grace_days": 2}
	code, _ := a.do(http.MethodPut, "/api/v1/settings", userToken, body)
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = a.do(http.MethodPut, "/api/v1/settings", a.token, body)
	assert.Equal(t, http.StatusOK, code)

	code, env := a.do(http.MethodGet, "/api/v1/settings", userToken, nil)
	require.Equal(t, http.StatusOK, code)
	var st model.Settings
	require.NoError(t, json.Unmarshal(env.Data, &st))
	assert.Equal(t, "Padaria JC Ltda", st.CompanyName)
	assert.Equal(t, 2, st.OverdueGraceDays)
}

func TestValidateEndpoints(t *testing.T) {
	a := newTestAPI(t)

	code, env := a.do(http.MethodPost, "/api/v1/validate/document", a.token, map[string]string{"document": "11222333000181"})
	require.Equal(t, http.StatusOK, code)
	var doc struct {
		Valid     bool   `json:"valid"`
		Type      string `json:"type"`
		Formatted string `json:"formatted"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &doc))
	assert.True(t, doc.Valid)
	assert.Equal(t, "cnpj", doc.Type)
	assert.Equal(t, "11.222.333/0001-81", doc.Formatted)

	code, env = a.do(http.MethodPost, "/api/v1/validate/amount", a.token, map[string]string{"amount": "R$ 1.234,56"})
	require.Equal(t, http.StatusOK, code)
	var amt struct {
		Valid     bool   `json:"valid"`
		Value     string `json:"value"`
		Formatted string `json:"formatted"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &amt))
	assert.True(t, amt.Valid)
	assert.Equal(t, "1234.56", amt.Value)
	assert.Equal(t, "R$ 1.234,56", amt.Formatted)
}

func TestStatementImport(t *testing.T) {
	a := newTestAPI(t)
	accountID := a.cashAccount()

	data, err := os.ReadFile(filepath.Join("..", "..", "testdata", "extrato_itau.csv"))
	require.NoError(t, err)

	upload := func() (int, envelope) {
		var body bytes.Buffer
		mw := multipart.NewWriter(&body)
		require.NoError(t, mw.WriteField("bank_account_id", accountID))
		fw, err := mw.CreateFormFile("file", "extrato_itau.csv")
		require.NoError(t, err)
		_, err = fw.Write(data)
		require.NoError(t, err)
		require.NoError(t, mw.Close())

		req := httptest.NewRequest(http.MethodPost, "/api/v1/statements/import", &body)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		return a.send(req, a.token)
	}

	code, env := upload()
	require.Equal(t, http.StatusOK, code, env.Message)
	var res importer.Result
	require.NoError(t, json.Unmarshal(env.Data, &res))
	assert.Equal(t, 5, res.Imported)

	code, env = upload()
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(env.Data, &res))
	assert.Equal(t, 0, res.Imported)
	assert.Equal(t, 5, res.Duplicates)
}

func TestReports(t *testing.T) {
	a := newTestAPI(t)
	a.cashAccount()

	for _, path := range []string{
		"/api/v1/reports/dashboard",
		"/api/v1/reports/dre?from=2025-01-01&to=2025-12-31",
		"/api/v1/reports/cashflow?from=2025-01-01&to=2025-03-31",
		"/api/v1/reports/categories?kind=receivable&from=2025-01-01&to=2025-12-31&basis=cash",
		"/api/v1/bank-accounts/balances",
	} {
		code, env := a.do(http.MethodGet, path, a.token, nil)
		assert.Equal(t, http.StatusOK, code, "%s: %s %v", path, env.Message, env.Errors)
	}

	code, _ := a.do(http.MethodGet, "/api/v1/reports/dre?from=2025-12-31&to=2025-01-01", a.token, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, code)
}
