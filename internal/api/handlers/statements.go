package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jcfinanceiro/jcfinanceiro/internal/api/responses"
	"github.com/jcfinanceiro/jcfinanceiro/internal/importer"
)

// StatementHandler imports bank statement files.
type StatementHandler struct {
	service *importer.Service
	audit   *Audit
}

func NewStatementHandler(service *importer.Service, audit *Audit) *StatementHandler {
	return &StatementHandler{service: service, audit: audit}
}

// Import reads a multipart upload: "file", "bank_account_id" and an optional
// "format" (csv, xlsx, xls) that defaults to the file extension.
func (h *StatementHandler) Import(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		responses.Error(c, http.StatusBadRequest, "arquivo de extrato (.csv, .xls, .xlsx) não encontrado ou inválido")
		return
	}
	format := c.PostForm("format")
	if format == "" {
		format = importer.FormatOf(fh.Filename)
	}

	f, err := fh.Open()
	if err != nil {
		responses.Error(c, http.StatusInternalServerError, "não foi possível abrir o arquivo de extrato")
		return
	}
	defer f.Close()

	accountID := c.PostForm("bank_account_id")
	res, err := h.service.Import(c.Request.Context(), accountID, format, f)
	if err != nil {
		responses.Fail(c, err)
		return
	}
	h.audit.record(c, "import", "statement", accountID,
		fmt.Sprintf("%s: %d importadas, %d duplicadas", fh.Filename, res.Imported, res.Duplicates))
	responses.Success(c, res, fmt.Sprintf("%d lançamentos importados", res.Imported))
}
