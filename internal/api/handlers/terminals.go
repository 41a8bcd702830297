package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/jcfinanceiro/jcfinanceiro/internal/api/responses"
	"github.com/jcfinanceiro/jcfinanceiro/internal/model"
	"github.com/jcfinanceiro/jcfinanceiro/internal/terminal"
)

// TerminalHandler serves card terminals, their fee tables and
// reconciliation.
type TerminalHandler struct {
	service *terminal.Service
	audit   *Audit
}

func NewTerminalHandler(service *terminal.Service, audit *Audit) *TerminalHandler {
	return &TerminalHandler{service: service, audit: audit}
}

type TerminalRequest struct {
	Name          string `json:"name"`
	Provider      string `json:"provider"`
	BankAccountID string `json:"bank_account_id"`
	Active        *bool  `json:"active"`
}

func (r TerminalRequest) params() terminal.Params {
	return terminal.Params{
		Name:          r.Name,
		Provider:      r.Provider,
		BankAccountID: r.BankAccountID,
		Active:        boolOr(r.Active, true),
	}
}

func (h *TerminalHandler) List(c *gin.Context) {
	list, err := h.service.List(c.Request.Context())
	if err != nil {
		responses.Fail(c, err)
		return
	}
	responses.Success(c, list, "")
}

func (h *TerminalHandler) Get(c *gin.Context) {
	t, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		responses.Fail(c, err)
		return
	}
	responses.Success(c, t, "")
}

func (h *TerminalHandler) Create(c *gin.Context) {
	var req TerminalRequest
	if !bind(c, &req) {
		return
	}
	t, err := h.service.Create(c.Request.Context(), req.params())
	if err != nil {
		responses.Fail(c, err)
		return
	}
	h.audit.record(c, "create", "terminal", t.ID, t.Name)
	responses.Created(c, t, "maquininha cadastrada")
}

func (h *TerminalHandler) Update(c *gin.Context) {
	var req TerminalRequest
	if !bind(c, &req) {
		return
	}
	t, err := h.service.Update(c.Request.Context(), c.Param("id"), req.params())
	if err != nil {
		responses.Fail(c, err)
		return
	}
	h.audit.record(c, "update", "terminal", t.ID, "")
	responses.Success(c, t, "maquininha atualizada")
}

func (h *TerminalHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		responses.Fail(c, err)
		return
	}
	h.audit.record(c, "delete", "terminal", c.Param("id"), "")
	responses.Success(c, nil, "maquininha excluída")
}

func (h *TerminalHandler) Fees(c *gin.Context) {
	fees, err := h.service.Fees(c.Request.Context(), c.Param("id"))
	if err != nil {
		responses.Fail(c, err)
		return
	}
	responses.Success(c, fees, "")
}

// SetFees replaces the whole fee table.
func (h *TerminalHandler) SetFees(c *gin.Context) {
	var fees []model.TerminalFee
	if !bind(c, &fees) {
		return
	}
	saved, err := h.service.SetFees(c.Request.Context(), c.Param("id"), fees)
	if err != nil {
		responses.Fail(c, err)
		return
	}
	h.audit.record(c, "update", "terminal_fees", c.Param("id"), "")
	responses.Success(c, saved, "taxas atualizadas")
}

// Reconcile matches expected settlements against deposits in ?from= to ?to=.
func (h *TerminalHandler) Reconcile(c *gin.Context) {
	var f form
	from := f.day("from", c.Query("from"))
	to := f.day("to", c.Query("to"))
	if !f.ok(c) {
		return
	}
	res, err := h.service.Reconcile(c.Request.Context(), c.Param("id"), from, to)
	if err != nil {
		responses.Fail(c, err)
		return
	}
	responses.Success(c, res, "")
}
