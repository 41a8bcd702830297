package responses

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcfinanceiro/jcfinanceiro/internal/store"
	"github.com/jcfinanceiro/jcfinanceiro/internal/validation"
)

func init() { gin.SetMode(gin.TestMode) }

func run(h gin.HandlerFunc) (*httptest.ResponseRecorder, APIResponse) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/x", nil)
	h(c)
	var resp APIResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	return w, resp
}

func TestSuccess(t *testing.T) {
	w, resp := run(func(c *gin.Context) { Success(c, map[string]int{"n": 1}, "ok") })
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, "ok", resp.Message)
	assert.Equal(t, map[string]any{"n": float64(1)}, resp.Data)
}

func TestCreated(t *testing.T) {
	w, resp := run(func(c *gin.Context) { Created(c, nil, "") })
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "success", resp.Status)
}

func TestFail(t *testing.T) {
	var verrs validation.Errors
	verrs.Add("amount", "valor deve ser maior que zero")

	tests := []struct {
		name string
		err  error
		code int
	}{
		{"validation", verrs, http.StatusUnprocessableEntity},
		{"wrapped validation", fmt.Errorf("creating: %w", verrs.Err()), http.StatusUnprocessableEntity},
		{"not found", fmt.Errorf("loading: %w", store.ErrNotFound), http.StatusNotFound},
		{"conflict", fmt.Errorf("%w: entry is paid", store.ErrConflict), http.StatusConflict},
		{"other", errors.New("disk full"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, resp := run(func(c *gin.Context) { Fail(c, tt.err) })
			assert.Equal(t, tt.code, w.Code)
			assert.Equal(t, "error", resp.Status)
			assert.NotContains(t, resp.Message, "disk full")
		})
	}

	_, resp := run(func(c *gin.Context) { Fail(c, verrs) })
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, "amount", resp.Errors[0].Field)
}

func TestError(t *testing.T) {
	w, resp := run(func(c *gin.Context) { Error(c, http.StatusBadRequest, "requisição inválida", "corpo vazio") })
	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, "corpo vazio", resp.Errors[0].Message)
}
