package handlers

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/jcfinanceiro/jcfinanceiro/internal/api/responses"
	"github.com/jcfinanceiro/jcfinanceiro/internal/entries"
	"github.com/jcfinanceiro/jcfinanceiro/internal/installments"
	"github.com/jcfinanceiro/jcfinanceiro/internal/model"
	"github.com/jcfinanceiro/jcfinanceiro/internal/store"
)

// EntryHandler serves payables and receivables, including batches.
type EntryHandler struct {
	service *entries.Service
	audit   *Audit
}

func NewEntryHandler(service *entries.Service, audit *Audit) *EntryHandler {
	return &EntryHandler{service: service, audit: audit}
}

type EntryRequest struct {
	Kind           model.EntryKind `json:"kind"`
	Description    string          `json:"description"`
	Amount         decimal.Decimal `json:"amount"`
	DueDate        string          `json:"due_date"`
	CompetenceDate string          `json:"competence_date"`
	ContactID      string          `json:"contact_id"`
	CategoryID     string          `json:"category_id"`
	BankAccountID  string          `json:"bank_account_id"`
	DocumentNumber string          `json:"document_number"`
	Notes          string          `json:"notes"`
}

func (r EntryRequest) params(f *form) entries.Params {
	return entries.Params{
		Kind:           r.Kind,
		Description:    r.Description,
		Amount:         r.Amount,
		DueDate:        f.day("due_date", r.DueDate),
		CompetenceDate: f.day("competence_date", r.CompetenceDate),
		ContactID:      r.ContactID,
		CategoryID:     r.CategoryID,
		BankAccountID:  r.BankAccountID,
		DocumentNumber: r.DocumentNumber,
		Notes:          r.Notes,
	}
}

// List filters by ?kind=, ?status= (comma separated), ?from=/?to= on the
// due date and the reference ids.
func (h *EntryHandler) List(c *gin.Context) {
	var f form
	filter := store.EntryFilter{
		Kind:          model.EntryKind(c.Query("kind")),
		From:          f.day("from", c.Query("from")),
		To:            f.day("to", c.Query("to")),
		ContactID:     c.Query("contact_id"),
		CategoryID:    c.Query("category_id"),
		BankAccountID: c.Query("bank_account_id"),
		BatchID:       c.Query("batch_id"),
		SaleID:        c.Query("sale_id"),
	}
	if s := c.Query("status"); s != "" {
		for _, st := range strings.Split(s, ",") {
			status := model.EntryStatus(strings.TrimSpace(st))
			if !status.Valid() {
				f.errs.Add("status", "situação inválida: %q", st)
				continue
			}
			filter.Statuses = append(filter.Statuses, status)
		}
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

func (h *EntryHandler) Get(c *gin.Context) {
	e, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		responses.Fail(c, err)
		return
	}
	responses.Success(c, e, "")
}

func (h *EntryHandler) Create(c *gin.Context) {
	var req EntryRequest
	if !bind(c, &req) {
		return
	}
	var f form
	p := req.params(&f)
	if !f.ok(c) {
		return
	}
	e, err := h.service.Create(c.Request.Context(), p)
	if err != nil {
		responses.Fail(c, err)
		return
	}
	h.audit.record(c, "create", "entry", e.ID, fmt.Sprintf("%s %s %s", e.Kind, e.Description, e.Amount))
	responses.Created(c, e, "lançamento criado")
}

func (h *EntryHandler) Update(c *gin.Context) {
	var req EntryRequest
	if !bind(c, &req) {
		return
	}
	var f form
	p := req.params(&f)
	if !f.ok(c) {
		return
	}
	e, err := h.service.Update(c.Request.Context(), c.Param("id"), p)
	if err != nil {
		responses.Fail(c, err)
		return
	}
	h.audit.record(c, "update", "entry", e.ID, "")
	responses.Success(c, e, "lançamento atualizado")
}

func (h *EntryHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		responses.Fail(c, err)
		return
	}
	h.audit.record(c, "delete", "entry", c.Param("id"), "")
	responses.Success(c, nil, "lançamento excluído")
}

type PayRequest struct {
	Date          string          `json:"date"`
	Amount        decimal.Decimal `json:"amount"`
	BankAccountID string          `json:"bank_account_id"`
}

func (h *EntryHandler) Pay(c *gin.Context) {
	var req PayRequest
	if c.Request.ContentLength != 0 && !bind(c, &req) {
		return
	}
	var f form
	p := entries.PayParams{
		Date:          f.day("date", req.Date),
		Amount:        req.Amount,
		BankAccountID: req.BankAccountID,
	}
	if !f.ok(c) {
		return
	}
	e, err := h.service.Pay(c.Request.Context(), c.Param("id"), p)
	if err != nil {
		responses.Fail(c, err)
		return
	}
	h.audit.record(c, "pay", "entry", e.ID, e.PaidAmount.String())
	responses.Success(c, e, "baixa registrada")
}

func (h *EntryHandler) Cancel(c *gin.Context) {
	e, err := h.service.Cancel(c.Request.Context(), c.Param("id"))
	if err != nil {
		responses.Fail(c, err)
		return
	}
	h.audit.record(c, "cancel", "entry", e.ID, "")
	responses.Success(c, e, "lançamento cancelado")
}

func (h *EntryHandler) Reopen(c *gin.Context) {
	e, err := h.service.Reopen(c.Request.Context(), c.Param("id"))
	if err != nil {
		responses.Fail(c, err)
		return
	}
	h.audit.record(c, "reopen", "entry", e.ID, "")
	responses.Success(c, e, "lançamento reaberto")
}

type PlanRequest struct {
	Kind           model.EntryKind `json:"kind"`
	Description    string          `json:"description"`
	Total          decimal.Decimal `json:"total"`
	Count          int             `json:"count"`
	FirstDue       string          `json:"first_due"`
	ContactID      string          `json:"contact_id"`
	CategoryID     string          `json:"category_id"`
	BankAccountID  string          `json:"bank_account_id"`
	DocumentNumber string          `json:"document_number"`
	Notes          string          `json:"notes"`
}

func (r PlanRequest) plan(f *form) installments.Plan {
	return installments.Plan{
		Kind:           r.Kind,
		Description:    r.Description,
		Total:          r.Total,
		Count:          r.Count,
		FirstDue:       f.day("first_due", r.FirstDue),
		ContactID:      r.ContactID,
		CategoryID:     r.CategoryID,
		BankAccountID:  r.BankAccountID,
		DocumentNumber: r.DocumentNumber,
		Notes:          r.Notes,
	}
}

type InstallmentRequest struct {
	Number  int             `json:"number"`
	DueDate string          `json:"due_date"`
	Amount  decimal.Decimal `json:"amount"`
}

type BatchRequest struct {
	PlanRequest
	// Installments, when present, replace the generated ones.
	Installments []InstallmentRequest `json:"installments"`
}

// PreviewBatch returns the generated installments and any problems without
// saving anything.
func (h *EntryHandler) PreviewBatch(c *gin.Context) {
	var req PlanRequest
	if !bind(c, &req) {
		return
	}
	var f form
	plan := req.plan(&f)
	if !f.ok(c) {
		return
	}
	insts, problems, err := h.service.PreviewBatch(c.Request.Context(), plan)
	if err != nil {
		responses.Fail(c, err)
		return
	}
	responses.Success(c, gin.H{"installments": insts, "problems": problems, "valid": len(problems) == 0}, "")
}

func (h *EntryHandler) CreateBatch(c *gin.Context) {
	var req BatchRequest
	if !bind(c, &req) {
		return
	}
	var f form
	plan := req.plan(&f)
	var insts []installments.Installment
	for i, in := range req.Installments {
		insts = append(insts, installments.Installment{
			Number:  in.Number,
			DueDate: f.day(fmt.Sprintf("installments[%d].due_date", i), in.DueDate),
			Amount:  in.Amount,
		})
	}
	if !f.ok(c) {
		return
	}
	batchID, created, err := h.service.AddBatch(c.Request.Context(), plan, insts)
	if err != nil {
		responses.Fail(c, err)
		return
	}
	h.audit.record(c, "create", "batch", batchID, fmt.Sprintf("%d parcelas, total %s", len(created), plan.Total))
	responses.Created(c, gin.H{"batch_id": batchID, "entries": created}, "lote criado")
}

func (h *EntryHandler) CancelBatch(c *gin.Context) {
	n, err := h.service.CancelBatch(c.Request.Context(), c.Param("batchID"))
	if err != nil {
		responses.Fail(c, err)
		return
	}
	h.audit.record(c, "cancel", "batch", c.Param("batchID"), fmt.Sprintf("%d lançamentos", n))
	responses.Success(c, gin.H{"cancelled": n}, "lote cancelado")
}

// RefreshOverdue marks past-due entries as overdue.
func (h *EntryHandler) RefreshOverdue(c *gin.Context) {
	n, err := h.service.RefreshOverdue(c.Request.Context())
	if err != nil {
		responses.Fail(c, err)
		return
	}
	responses.Success(c, gin.H{"updated": n}, "")
}
