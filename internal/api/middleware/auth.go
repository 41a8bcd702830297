// Package middleware holds gin middleware for the API.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jcfinanceiro/jcfinanceiro/internal/api/responses"
	"github.com/jcfinanceiro/jcfinanceiro/internal/auth"
)

const claimsKey = "auth.claims"

// Verifier checks a bearer token.
type Verifier interface {
	Verify(token string) (*auth.Claims, error)
}

// RequireAuth rejects requests without a valid "Authorization: Bearer"
// token and stores the token claims in the context.
func RequireAuth(v Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			responses.Error(c, http.StatusUnauthorized, "autenticação necessária")
			return
		}
		claims, err := v.Verify(strings.TrimSpace(token))
		if err != nil {
			responses.Error(c, http.StatusUnauthorized, err.Error())
			return
		}
		c.Set(claimsKey, claims)
		c.Next()
	}
}

// RequireRole rejects authenticated requests whose role differs from role.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := Claims(c)
		if claims == nil || claims.Role != role {
			responses.Error(c, http.StatusForbidden, "acesso negado")
			return
		}
		c.Next()
	}
}

// Claims returns the claims stored by RequireAuth, or nil.
func Claims(c *gin.Context) *auth.Claims {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*auth.Claims)
	return claims
}

// User returns the authenticated user's email, or "anonymous".
func User(c *gin.Context) string {
	if claims := Claims(c); claims != nil {
		return claims.Email
	}
	return "anonymous"
}
