package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/jcfinanceiro/jcfinanceiro/internal/api/responses"
	"github.com/jcfinanceiro/jcfinanceiro/internal/model"
	"github.com/jcfinanceiro/jcfinanceiro/internal/sales"
	"github.com/jcfinanceiro/jcfinanceiro/internal/store"
)

// SaleHandler serves sales and the receivables they generate.
type SaleHandler struct {
	service *sales.Service
	audit   *Audit
}

func NewSaleHandler(service *sales.Service, audit *Audit) *SaleHandler {
	return &SaleHandler{service: service, audit: audit}
}

type SaleRequest struct {
	Date          string              `json:"date"`
	ContactID     string              `json:"contact_id"`
	Description   string              `json:"description"`
	Gross         decimal.Decimal     `json:"gross"`
	Discount      decimal.Decimal     `json:"discount"`
	Method        model.PaymentMethod `json:"method"`
	Installments  int                 `json:"installments"`
	TerminalID    string              `json:"terminal_id"`
	CardBrand     string              `json:"card_brand"`
	CategoryID    string              `json:"category_id"`
	BankAccountID string              `json:"bank_account_id"`
}

func (h *SaleHandler) List(c *gin.Context) {
	var f form
	filter := store.SaleFilter{
		From:       f.day("from", c.Query("from")),
		To:         f.day("to", c.Query("to")),
		TerminalID: c.Query("terminal_id"),
		Method:     model.PaymentMethod(c.Query("method")),
	}
	if !f.ok(c) {
		return
	}
	list, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		responses.Fail(c, err)
		return
	}
	responses.Success(c, list, "")
}

func (h *SaleHandler) Get(c *gin.Context) {
	d, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		responses.Fail(c, err)
		return
	}
	responses.Success(c, d, "")
}

func (h *SaleHandler) Create(c *gin.Context) {
	var req SaleRequest
	if !bind(c, &req) {
		return
	}
	var f form
	p := sales.Params{
		Date:          f.day("date", req.Date),
		ContactID:     req.ContactID,
		Description:   req.Description,
		Gross:         req.Gross,
		Discount:      req.Discount,
		Method:        req.Method,
		Installments:  req.Installments,
		TerminalID:    req.TerminalID,
		CardBrand:     req.CardBrand,
		CategoryID:    req.CategoryID,
		BankAccountID: req.BankAccountID,
	}
	if !f.ok(c) {
		return
	}
	d, err := h.service.Create(c.Request.Context(), p)
	if err != nil {
		responses.Fail(c, err)
		return
	}
	h.audit.record(c, "create", "sale", d.ID, string(d.Method)+" "+d.Gross.String())
	responses.Created(c, d, "venda registrada")
}

func (h *SaleHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		responses.Fail(c, err)
		return
	}
	h.audit.record(c, "delete", "sale", c.Param("id"), "")
	responses.Success(c, nil, "venda excluída")
}
