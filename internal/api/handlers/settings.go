package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/jcfinanceiro/jcfinanceiro/internal/api/responses"
	"github.com/jcfinanceiro/jcfinanceiro/internal/model"
	"github.com/jcfinanceiro/jcfinanceiro/internal/settings"
)

// SettingsHandler reads and saves company settings.
type SettingsHandler struct {
	service *settings.Service
	audit   *Audit
}

func NewSettingsHandler(service *settings.Service, audit *Audit) *SettingsHandler {
	return &SettingsHandler{service: service, audit: audit}
}

func (h *SettingsHandler) Get(c *gin.Context) {
	s, err := h.service.Get(c.Request.Context())
	if err != nil {
		responses.Fail(c, err)
		return
	}
	responses.Success(c, s, "")
}

func (h *SettingsHandler) Save(c *gin.Context) {
	var req model.Settings
	if !bind(c, &req) {
		return
	}
	s, err := h.service.Save(c.Request.Context(), req)
	if err != nil {
		responses.Fail(c, err)
		return
	}
	h.audit.record(c, "update", "settings", "", s.CompanyName)
	responses.Success(c, s, "configurações salvas")
}
