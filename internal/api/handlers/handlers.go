// Package handlers implements the HTTP endpoints of the API on top of the
// domain services.
package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jcfinanceiro/jcfinanceiro/internal/api/middleware"
	"github.com/jcfinanceiro/jcfinanceiro/internal/api/responses"
	"github.com/jcfinanceiro/jcfinanceiro/internal/dateutil"
	"github.com/jcfinanceiro/jcfinanceiro/internal/validation"
)

// Auditor records successful mutations.
type Auditor interface {
	Record(user, action, entity, entityID, details string) error
}

// Audit wraps an Auditor so handlers can record a mutation in one call.
// A failed write is logged and never fails the request.
type Audit struct {
	log    Auditor
	logger *zap.Logger
}

// NewAudit returns an Audit writing to log. A nil log disables auditing.
func NewAudit(log Auditor, logger *zap.Logger) *Audit {
	return &Audit{log: log, logger: logger}
}

func (a *Audit) record(c *gin.Context, action, entity, entityID, details string) {
	if a == nil || a.log == nil {
		return
	}
	if err := a.log.Record(middleware.User(c), action, entity, entityID, details); err != nil {
		a.logger.Warn("audit log write failed", zap.String("entity", entity),
			zap.String("entity_id", entityID), zap.Error(err))
	}
}

// bind decodes the JSON body into req, answering 400 on malformed input.
func bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		responses.Error(c, http.StatusBadRequest, "requisição inválida", err.Error())
		return false
	}
	return true
}

// form collects conversion problems of request fields so they surface as
// one 422 response alongside the service's own validation.
type form struct {
	errs validation.Errors
}

// day parses an optional date field.
func (f *form) day(field, s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	d, err := dateutil.Parse(s)
	if err != nil {
		f.errs.Add(field, "data inválida: %q", s)
		return time.Time{}
	}
	return d
}

// integer parses an optional integer field.
func (f *form) integer(field, s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		f.errs.Add(field, "número inválido: %q", s)
	}
	return n
}

// ok answers 422 and returns false when any field failed to convert.
func (f *form) ok(c *gin.Context) bool {
	if err := f.errs.Err(); err != nil {
		responses.Fail(c, err)
		return false
	}
	return true
}

// boolOr reads an optional boolean.
func boolOr(b *bool, def bool) bool {
	if b == nil {
		return def
	}
	return *b
}
