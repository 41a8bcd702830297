package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/jcfinanceiro/jcfinanceiro/internal/api/responses"
	"github.com/jcfinanceiro/jcfinanceiro/internal/banking"
	"github.com/jcfinanceiro/jcfinanceiro/internal/dateutil"
	"github.com/jcfinanceiro/jcfinanceiro/internal/model"
)

// BankHandler serves banks, bank accounts and balances.
type BankHandler struct {
	service *banking.Service
	audit   *Audit
}

func NewBankHandler(service *banking.Service, audit *Audit) *BankHandler {
	return &BankHandler{service: service, audit: audit}
}

func (h *BankHandler) ListBanks(c *gin.Context) {
	banks, err := h.service.ListBanks(c.Request.Context())
	if err != nil {
		responses.Fail(c, err)
		return
	}
	responses.Success(c, banks, "")
}

func (h *BankHandler) GetBank(c *gin.Context) {
	b, err := h.service.GetBank(c.Request.Context(), c.Param("id"))
	if err != nil {
		responses.Fail(c, err)
		return
	}
	responses.Success(c, b, "")
}

func (h *BankHandler) CreateBank(c *gin.Context) {
	var req banking.BankParams
	if !bind(c, &req) {
		return
	}
	b, err := h.service.CreateBank(c.Request.Context(), req)
	if err != nil {
		responses.Fail(c, err)
		return
	}
	h.audit.record(c, "create", "bank", b.ID, b.Code+" "+b.Name)
	responses.Created(c, b, "banco cadastrado")
}

func (h *BankHandler) UpdateBank(c *gin.Context) {
	var req banking.BankParams
	if !bind(c, &req) {
		return
	}
	b, err := h.service.UpdateBank(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		responses.Fail(c, err)
		return
	}
	h.audit.record(c, "update", "bank", b.ID, "")
	responses.Success(c, b, "banco atualizado")
}

func (h *BankHandler) DeleteBank(c *gin.Context) {
	if err := h.service.DeleteBank(c.Request.Context(), c.Param("id")); err != nil {
		responses.Fail(c, err)
		return
	}
	h.audit.record(c, "delete", "bank", c.Param("id"), "")
	responses.Success(c, nil, "banco excluído")
}

type AccountRequest struct {
	BankID             string                `json:"bank_id"`
	Name               string                `json:"name"`
	Type               model.BankAccountType `json:"type"`
	Branch             string                `json:"branch"`
	Number             string                `json:"number"`
	Digit              string                `json:"digit"`
	InitialBalance     decimal.Decimal       `json:"initial_balance"`
	InitialBalanceDate string                `json:"initial_balance_date"`
	Active             *bool                 `json:"active"`
}

func (h *BankHandler) accountParams(c *gin.Context) (banking.AccountParams, bool) {
	var req AccountRequest
	if !bind(c, &req) {
		return banking.AccountParams{}, false
	}
	var f form
	p := banking.AccountParams{
		BankID:             req.BankID,
		Name:               req.Name,
		Type:               req.Type,
		Branch:             req.Branch,
		Number:             req.Number,
		Digit:              req.Digit,
		InitialBalance:     req.InitialBalance,
		InitialBalanceDate: f.day("initial_balance_date", req.InitialBalanceDate),
		Active:             boolOr(req.Active, true),
	}
	return p, f.ok(c)
}

func (h *BankHandler) ListAccounts(c *gin.Context) {
	accounts, err := h.service.ListAccounts(c.Request.Context(), c.Query("active") == "true")
	if err != nil {
		responses.Fail(c, err)
		return
	}
	responses.Success(c, accounts, "")
}

func (h *BankHandler) GetAccount(c *gin.Context) {
	a, err := h.service.GetAccount(c.Request.Context(), c.Param("id"))
	if err != nil {
		responses.Fail(c, err)
		return
	}
	responses.Success(c, a, "")
}

func (h *BankHandler) CreateAccount(c *gin.Context) {
	p, ok := h.accountParams(c)
	if !ok {
		return
	}
	a, err := h.service.CreateAccount(c.Request.Context(), p)
	if err != nil {
		responses.Fail(c, err)
		return
	}
	h.audit.record(c, "create", "bank_account", a.ID, a.Name)
	responses.Created(c, a, "conta cadastrada")
}

func (h *BankHandler) UpdateAccount(c *gin.Context) {
	p, ok := h.accountParams(c)
	if !ok {
		return
	}
	a, err := h.service.UpdateAccount(c.Request.Context(), c.Param("id"), p)
	if err != nil {
		responses.Fail(c, err)
		return
	}
	h.audit.record(c, "update", "bank_account", a.ID, "")
	responses.Success(c, a, "conta atualizada")
}

func (h *BankHandler) DeleteAccount(c *gin.Context) {
	if err := h.service.DeleteAccount(c.Request.Context(), c.Param("id")); err != nil {
		responses.Fail(c, err)
		return
	}
	h.audit.record(c, "delete", "bank_account", c.Param("id"), "")
	responses.Success(c, nil, "conta excluída")
}

// asOf reads ?as_of=, defaulting to today.
func asOf(c *gin.Context, f *form) time.Time {
	if d := f.day("as_of", c.Query("as_of")); !d.IsZero() {
		return d
	}
	return dateutil.Today()
}

func (h *BankHandler) Balances(c *gin.Context) {
	var f form
	day := asOf(c, &f)
	if !f.ok(c) {
		return
	}
	rep, err := h.service.Balances(c.Request.Context(), day)
	if err != nil {
		responses.Fail(c, err)
		return
	}
	responses.Success(c, rep, "")
}

func (h *BankHandler) Balance(c *gin.Context) {
	var f form
	day := asOf(c, &f)
	if !f.ok(c) {
		return
	}
	bal, err := h.service.Balance(c.Request.Context(), c.Param("id"), day)
	if err != nil {
		responses.Fail(c, err)
		return
	}
	responses.Success(c, gin.H{"account_id": c.Param("id"), "as_of": day, "balance": bal}, "")
}
