package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jcfinanceiro/jcfinanceiro/internal/api/middleware"
	"github.com/jcfinanceiro/jcfinanceiro/internal/api/responses"
	"github.com/jcfinanceiro/jcfinanceiro/internal/auth"
)

// AuthHandler signs users in and registers new ones.
type AuthHandler struct {
	service *auth.Service
	audit   *Audit
}

func NewAuthHandler(service *auth.Service, audit *Audit) *AuthHandler {
	return &AuthHandler{service: service, audit: audit}
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !bind(c, &req) {
		return
	}
	token, user, err := h.service.Login(c.Request.Context(), req.Email, req.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		responses.Error(c, http.StatusUnauthorized, err.Error())
		return
	}
	if err != nil {
		responses.Fail(c, err)
		return
	}
	responses.Success(c, gin.H{"token": token, "user": user}, "")
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if !bind(c, &req) {
		return
	}
	u, err := h.service.Register(c.Request.Context(), req.Email, req.Name, req.Password, req.Role)
	if err != nil {
		responses.Fail(c, err)
		return
	}
	h.audit.record(c, "create", "user", u.ID, u.Email)
	responses.Created(c, u, "usuário criado")
}

func (h *AuthHandler) Me(c *gin.Context) {
	claims := middleware.Claims(c)
	responses.Success(c, gin.H{"id": claims.Subject, "email": claims.Email, "role": claims.Role}, "")
}
