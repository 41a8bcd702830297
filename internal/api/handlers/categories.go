package handlers

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jcfinanceiro/jcfinanceiro/internal/api/responses"
	"github.com/jcfinanceiro/jcfinanceiro/internal/categories"
	"github.com/jcfinanceiro/jcfinanceiro/internal/model"
	"github.com/jcfinanceiro/jcfinanceiro/internal/store"
)

// CategoryHandler serves the chart of categories.
type CategoryHandler struct {
	service *categories.Service
	audit   *Audit
}

func NewCategoryHandler(service *categories.Service, audit *Audit) *CategoryHandler {
	return &CategoryHandler{service: service, audit: audit}
}

type CategoryRequest struct {
	Code     string             `json:"code"`
	Name     string             `json:"name"`
	Type     model.CategoryType `json:"type"`
	DREGroup model.DREGroup     `json:"dre_group"`
	Active   *bool              `json:"active"`
}

func (r CategoryRequest) params() categories.Params {
	return categories.Params{
		Code:     r.Code,
		Name:     r.Name,
		Type:     r.Type,
		DREGroup: r.DREGroup,
		Active:   boolOr(r.Active, true),
	}
}

// List returns the flat chart ordered by code, optionally only ?type=.
func (h *CategoryHandler) List(c *gin.Context) {
	tree, err := h.service.Tree(c.Request.Context())
	if err != nil {
		responses.Fail(c, err)
		return
	}
	if t := model.CategoryType(c.Query("type")); t != "" {
		responses.Success(c, tree.ByType(t), "")
		return
	}
	responses.Success(c, tree.All(), "")
}

func (h *CategoryHandler) Tree(c *gin.Context) {
	tree, err := h.service.Tree(c.Request.Context())
	if err != nil {
		responses.Fail(c, err)
		return
	}
	responses.Success(c, tree.Nodes(), "")
}

func (h *CategoryHandler) Get(c *gin.Context) {
	tree, err := h.service.Tree(c.Request.Context())
	if err != nil {
		responses.Fail(c, err)
		return
	}
	cat, ok := tree.Get(c.Param("id"))
	if !ok {
		responses.Fail(c, store.ErrNotFound)
		return
	}
	responses.Success(c, gin.H{"category": cat, "path": tree.Path(cat.ID), "dre_group": tree.GroupOf(cat.ID)}, "")
}

func (h *CategoryHandler) Create(c *gin.Context) {
	var req CategoryRequest
	if !bind(c, &req) {
		return
	}
	cat, err := h.service.Create(c.Request.Context(), req.params())
	if err != nil {
		responses.Fail(c, err)
		return
	}
	h.audit.record(c, "create", "category", cat.ID, cat.Code+" "+cat.Name)
	responses.Created(c, cat, "categoria cadastrada")
}

func (h *CategoryHandler) Update(c *gin.Context) {
	var req CategoryRequest
	if !bind(c, &req) {
		return
	}
	cat, err := h.service.Update(c.Request.Context(), c.Param("id"), req.params())
	if err != nil {
		responses.Fail(c, err)
		return
	}
	h.audit.record(c, "update", "category", cat.ID, "")
	responses.Success(c, cat, "categoria atualizada")
}

func (h *CategoryHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		responses.Fail(c, err)
		return
	}
	h.audit.record(c, "delete", "category", c.Param("id"), "")
	responses.Success(c, nil, "categoria excluída")
}

// Export downloads the chart as CSV.
func (h *CategoryHandler) Export(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.service.Export(c.Request.Context(), &buf); err != nil {
		responses.Fail(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="categorias.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// Import seeds categories from an uploaded CSV in the export format.
func (h *CategoryHandler) Import(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		responses.Error(c, http.StatusBadRequest, "arquivo não encontrado ou inválido")
		return
	}
	f, err := fh.Open()
	if err != nil {
		responses.Error(c, http.StatusInternalServerError, "não foi possível abrir o arquivo")
		return
	}
	defer f.Close()

	n, err := h.service.Import(c.Request.Context(), f)
	if err != nil {
		responses.Fail(c, err)
		return
	}
	h.audit.record(c, "import", "category", "", fh.Filename)
	responses.Success(c, gin.H{"added": n}, "")
}
