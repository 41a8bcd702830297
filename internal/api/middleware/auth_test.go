package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/jcfinanceiro/jcfinanceiro/internal/auth"
)

type stubVerifier map[string]*auth.Claims

func (s stubVerifier) Verify(token string) (*auth.Claims, error) {
	if c, ok := s[token]; ok {
		return c, nil
	}
	return nil, errors.New("token inválido ou expirado")
}

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	v := stubVerifier{
		"admin-token": {Email: "dono@padaria.com.br", Role: auth.RoleAdmin},
		"user-token":  {Email: "caixa@padaria.com.br", Role: auth.RoleUser},
	}
	g := r.Group("/", RequireAuth(v))
	g.GET("/me", func(c *gin.Context) { c.String(http.StatusOK, User(c)) })
	g.GET("/admin", RequireRole(auth.RoleAdmin), func(c *gin.Context) { c.Status(http.StatusNoContent) })
	return r
}

func get(r http.Handler, path, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireAuth(t *testing.T) {
	r := newRouter()

	tests := []struct {
		name   string
		header string
		code   int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"empty bearer", "Bearer ", http.StatusUnauthorized},
		{"unknown token", "Bearer nope", http.StatusUnauthorized},
		{"valid", "Bearer user-token", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, get(r, "/me", tt.header).Code)
		})
	}

	w := get(r, "/me", "Bearer user-token")
	assert.Equal(t, "caixa@padaria.com.br", w.Body.String())
}

func TestRequireRole(t *testing.T) {
	r := newRouter()
	assert.Equal(t, http.StatusForbidden, get(r, "/admin", "Bearer user-token").Code)
	assert.Equal(t, http.StatusNoContent, get(r, "/admin", "Bearer admin-token").Code)
}
