// Package responses writes the JSON envelope shared by every API endpoint.
package responses

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jcfinanceiro/jcfinanceiro/internal/store"
	"github.com/jcfinanceiro/jcfinanceiro/internal/validation"
)

var logger = zap.NewNop()

// APIResponse defines the standard envelope for API responses.
type APIResponse struct {
	Status  string                  `json:"status"` // "success" or "error"
	Data    any                     `json:"data,omitempty"`
	Message string                  `json:"message,omitempty"`
	Errors  []validation.FieldError `json:"errors,omitempty"`
}

// SetLogger sets the logger used for one line per response.
func SetLogger(l *zap.Logger) {
	if l != nil {
		logger = l
	}
}

// Success sends a 200 response with data.
func Success(c *gin.Context, data any, message string) {
	send(c, http.StatusOK, data, message)
}

// Created sends a 201 response with data.
func Created(c *gin.Context, data any, message string) {
	send(c, http.StatusCreated, data, message)
}

func send(c *gin.Context, code int, data any, message string) {
	c.JSON(code, APIResponse{Status: "success", Data: data, Message: message})
	logger.Info("API success", zap.String("path", c.Request.URL.Path), zap.Int("status", code))
}

// Error sends an error response with the provided code, message and optional
// details.
func Error(c *gin.Context, code int, message string, errs ...string) {
	fields := make([]validation.FieldError, len(errs))
	for i, e := range errs {
		fields[i] = validation.FieldError{Message: e}
	}
	abort(c, code, message, fields)
}

func abort(c *gin.Context, code int, message string, fields []validation.FieldError) {
	c.AbortWithStatusJSON(code, APIResponse{Status: "error", Message: message, Errors: fields})
	logger.Error("API error", zap.String("path", c.Request.URL.Path), zap.Int("status", code),
		zap.String("message", message), zap.Int("errors", len(fields)))
}

// Fail maps a service error to its status code: validation errors are 422,
// store.ErrNotFound 404, store.ErrConflict 409 and anything else 500.
func Fail(c *gin.Context, err error) {
	if verrs, ok := validation.As(err); ok {
		abort(c, http.StatusUnprocessableEntity, "dados inválidos", verrs)
		return
	}
	switch {
	case errors.Is(err, store.ErrNotFound):
		abort(c, http.StatusNotFound, "registro não encontrado", nil)
	case errors.Is(err, store.ErrConflict):
		abort(c, http.StatusConflict, "operação não permitida no estado atual do registro", nil)
	default:
		logger.Error("internal error", zap.String("path", c.Request.URL.Path), zap.Error(err))
		abort(c, http.StatusInternalServerError, "erro interno", nil)
	}
}
