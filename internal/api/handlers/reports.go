package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/jcfinanceiro/jcfinanceiro/internal/api/responses"
	"github.com/jcfinanceiro/jcfinanceiro/internal/model"
	"github.com/jcfinanceiro/jcfinanceiro/internal/report"
)

// ReportHandler serves the DRE, cash flow, category breakdown and
// dashboard.
type ReportHandler struct {
	service *report.Service
}

func NewReportHandler(service *report.Service) *ReportHandler {
	return &ReportHandler{service: service}
}

// period reads ?from=, ?to= and ?basis= (competence by default).
func period(c *gin.Context, f *form) (report.Period, report.Basis) {
	p := report.Period{
		From: f.day("from", c.Query("from")),
		To:   f.day("to", c.Query("to")),
	}
	return p, report.Basis(c.DefaultQuery("basis", string(report.BasisCompetence)))
}

func (h *ReportHandler) DRE(c *gin.Context) {
	var f form
	p, basis := period(c, &f)
	if !f.ok(c) {
		return
	}
	dre, err := h.service.DRE(c.Request.Context(), p, basis)
	if err != nil {
		responses.Fail(c, err)
		return
	}
	responses.Success(c, dre, "")
}

func (h *ReportHandler) CashFlow(c *gin.Context) {
	var f form
	p, _ := period(c, &f)
	if !f.ok(c) {
		return
	}
	g := report.Granularity(c.DefaultQuery("granularity", string(report.Monthly)))
	cf, err := h.service.CashFlow(c.Request.Context(), c.Query("bank_account_id"), p.From, p.To, g)
	if err != nil {
		responses.Fail(c, err)
		return
	}
	responses.Success(c, cf, "")
}

func (h *ReportHandler) Categories(c *gin.Context) {
	var f form
	p, basis := period(c, &f)
	if !f.ok(c) {
		return
	}
	kind := model.EntryKind(c.DefaultQuery("kind", string(model.EntryPayable)))
	b, err := h.service.ByCategory(c.Request.Context(), kind, p, basis)
	if err != nil {
		responses.Fail(c, err)
		return
	}
	responses.Success(c, b, "")
}

func (h *ReportHandler) Dashboard(c *gin.Context) {
	d, err := h.service.Dashboard(c.Request.Context())
	if err != nil {
		responses.Fail(c, err)
		return
	}
	responses.Success(c, d, "")
}
