package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/jcfinanceiro/jcfinanceiro/internal/api/responses"
	"github.com/jcfinanceiro/jcfinanceiro/internal/checks"
	"github.com/jcfinanceiro/jcfinanceiro/internal/model"
	"github.com/jcfinanceiro/jcfinanceiro/internal/store"
)

// CheckHandler serves received and issued cheques.
type CheckHandler struct {
	service *checks.Service
	audit   *Audit
}

func NewCheckHandler(service *checks.Service, audit *Audit) *CheckHandler {
	return &CheckHandler{service: service, audit: audit}
}

type CheckRequest struct {
	Direction      model.CheckDirection `json:"direction"`
	Number         string               `json:"number"`
	BankCode       string               `json:"bank_code"`
	Branch         string               `json:"branch"`
	Account        string               `json:"account"`
	Holder         string               `json:"holder"`
	HolderDocument string               `json:"holder_document"`
	Amount         decimal.Decimal      `json:"amount"`
	IssueDate      string               `json:"issue_date"`
	GoodFor        string               `json:"good_for"`
	ContactID      string               `json:"contact_id"`
	EntryID        string               `json:"entry_id"`
	BankAccountID  string               `json:"bank_account_id"`
	Notes          string               `json:"notes"`
}

func (r CheckRequest) params(f *form) checks.Params {
	return checks.Params{
		Direction:      r.Direction,
		Number:         r.Number,
		BankCode:       r.BankCode,
		Branch:         r.Branch,
		Account:        r.Account,
		Holder:         r.Holder,
		HolderDocument: r.HolderDocument,
		Amount:         r.Amount,
		IssueDate:      f.day("issue_date", r.IssueDate),
		GoodFor:        f.day("good_for", r.GoodFor),
		ContactID:      r.ContactID,
		EntryID:        r.EntryID,
		BankAccountID:  r.BankAccountID,
		Notes:          r.Notes,
	}
}

func (h *CheckHandler) List(c *gin.Context) {
	list, err := h.service.List(c.Request.Context(), store.CheckFilter{
		Direction: model.CheckDirection(c.Query("direction")),
		Status:    model.CheckStatus(c.Query("status")),
		ContactID: c.Query("contact_id"),
	})
	if err != nil {
		responses.Fail(c, err)
		return
	}
	responses.Success(c, list, "")
}

func (h *CheckHandler) Get(c *gin.Context) {
	ch, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		responses.Fail(c, err)
		return
	}
	responses.Success(c, ch, "")
}

func (h *CheckHandler) Create(c *gin.Context) {
	var req CheckRequest
	if !bind(c, &req) {
		return
	}
	var f form
	p := req.params(&f)
	if !f.ok(c) {
		return
	}
	ch, err := h.service.Create(c.Request.Context(), p)
	if err != nil {
		responses.Fail(c, err)
		return
	}
	h.audit.record(c, "create", "check", ch.ID, ch.Number+" "+ch.Amount.String())
	responses.Created(c, ch, "cheque cadastrado")
}

func (h *CheckHandler) Update(c *gin.Context) {
	var req CheckRequest
	if !bind(c, &req) {
		return
	}
	var f form
	p := req.params(&f)
	if !f.ok(c) {
		return
	}
	ch, err := h.service.Update(c.Request.Context(), c.Param("id"), p)
	if err != nil {
		responses.Fail(c, err)
		return
	}
	h.audit.record(c, "update", "check", ch.ID, "")
	responses.Success(c, ch, "cheque atualizado")
}

func (h *CheckHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		responses.Fail(c, err)
		return
	}
	h.audit.record(c, "delete", "check", c.Param("id"), "")
	responses.Success(c, nil, "cheque excluído")
}

type CheckStatusRequest struct {
	Status        model.CheckStatus `json:"status" binding:"required"`
	Date          string            `json:"date"`
	BankAccountID string            `json:"bank_account_id"`
}

func (h *CheckHandler) ChangeStatus(c *gin.Context) {
	var req CheckStatusRequest
	if !bind(c, &req) {
		return
	}
	var f form
	p := checks.StatusParams{
		Status:        req.Status,
		Date:          f.day("date", req.Date),
		BankAccountID: req.BankAccountID,
	}
	if !f.ok(c) {
		return
	}
	ch, err := h.service.ChangeStatus(c.Request.Context(), c.Param("id"), p)
	if err != nil {
		responses.Fail(c, err)
		return
	}
	h.audit.record(c, "status", "check", ch.ID, string(ch.Status))
	responses.Success(c, ch, "situação do cheque atualizada")
}
