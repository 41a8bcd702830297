package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/jcfinanceiro/jcfinanceiro/internal/api/responses"
	"github.com/jcfinanceiro/jcfinanceiro/internal/contacts"
	"github.com/jcfinanceiro/jcfinanceiro/internal/model"
)

// ContactHandler serves customers, suppliers and payers.
type ContactHandler struct {
	service *contacts.Service
	audit   *Audit
}

func NewContactHandler(service *contacts.Service, audit *Audit) *ContactHandler {
	return &ContactHandler{service: service, audit: audit}
}

type ContactRequest struct {
	Kind      model.ContactKind `json:"kind"`
	Name      string            `json:"name"`
	TradeName string            `json:"trade_name"`
	Document  string            `json:"document"`
	Email     string            `json:"email"`
	Phone     string            `json:"phone"`
	Notes     string            `json:"notes"`
	Active    *bool             `json:"active"`
}

func (r ContactRequest) params() contacts.Params {
	return contacts.Params{
		Kind:      r.Kind,
		Name:      r.Name,
		TradeName: r.TradeName,
		Document:  r.Document,
		Email:     r.Email,
		Phone:     r.Phone,
		Notes:     r.Notes,
		Active:    boolOr(r.Active, true),
	}
}

// List returns contacts of ?kind=, filtered by ?q= when present.
func (h *ContactHandler) List(c *gin.Context) {
	kind := model.ContactKind(c.Query("kind"))
	var (
		list []model.Contact
		err  error
	)
	if q := c.Query("q"); q != "" {
		list, err = h.service.Search(c.Request.Context(), q, kind)
	} else {
		list, err = h.service.List(c.Request.Context(), kind)
	}
	if err != nil {
		responses.Fail(c, err)
		return
	}
	responses.Success(c, list, "")
}

// Suggest returns the contact whose name best matches ?text=.
func (h *ContactHandler) Suggest(c *gin.Context) {
	ct, found, err := h.service.Suggest(c.Request.Context(), c.Query("text"), model.ContactKind(c.Query("kind")))
	if err != nil {
		responses.Fail(c, err)
		return
	}
	if !found {
		responses.Success(c, nil, "nenhum contato semelhante")
		return
	}
	responses.Success(c, ct, "")
}

func (h *ContactHandler) Get(c *gin.Context) {
	ct, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		responses.Fail(c, err)
		return
	}
	responses.Success(c, ct, "")
}

func (h *ContactHandler) Create(c *gin.Context) {
	var req ContactRequest
	if !bind(c, &req) {
		return
	}
	ct, err := h.service.Create(c.Request.Context(), req.params())
	if err != nil {
		responses.Fail(c, err)
		return
	}
	h.audit.record(c, "create", "contact", ct.ID, ct.Name)
	responses.Created(c, ct, "contato cadastrado")
}

func (h *ContactHandler) Update(c *gin.Context) {
	var req ContactRequest
	if !bind(c, &req) {
		return
	}
	ct, err := h.service.Update(c.Request.Context(), c.Param("id"), req.params())
	if err != nil {
		responses.Fail(c, err)
		return
	}
	h.audit.record(c, "update", "contact", ct.ID, "")
	responses.Success(c, ct, "contato atualizado")
}

func (h *ContactHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		responses.Fail(c, err)
		return
	}
	h.audit.record(c, "delete", "contact", c.Param("id"), "")
	responses.Success(c, nil, "contato excluído")
}
