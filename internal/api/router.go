// Package api wires the HTTP routes of the JC Financeiro API.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jcfinanceiro/jcfinanceiro/internal/api/handlers"
	"github.com/jcfinanceiro/jcfinanceiro/internal/api/middleware"
	"github.com/jcfinanceiro/jcfinanceiro/internal/api/responses"
	"github.com/jcfinanceiro/jcfinanceiro/internal/auditlog"
	"github.com/jcfinanceiro/jcfinanceiro/internal/auth"
	"github.com/jcfinanceiro/jcfinanceiro/internal/banking"
	"github.com/jcfinanceiro/jcfinanceiro/internal/buildinfo"
	"github.com/jcfinanceiro/jcfinanceiro/internal/categories"
	"github.com/jcfinanceiro/jcfinanceiro/internal/checks"
	"github.com/jcfinanceiro/jcfinanceiro/internal/contacts"
	"github.com/jcfinanceiro/jcfinanceiro/internal/entries"
	"github.com/jcfinanceiro/jcfinanceiro/internal/importer"
	"github.com/jcfinanceiro/jcfinanceiro/internal/report"
	"github.com/jcfinanceiro/jcfinanceiro/internal/sales"
	"github.com/jcfinanceiro/jcfinanceiro/internal/settings"
	"github.com/jcfinanceiro/jcfinanceiro/internal/terminal"
)

// Services are the domain services behind the routes.
type Services struct {
	Auth       *auth.Service
	Banking    *banking.Service
	Contacts   *contacts.Service
	Categories *categories.Service
	Entries    *entries.Service
	Sales      *sales.Service
	Checks     *checks.Service
	Terminals  *terminal.Service
	Importer   *importer.Service
	Reports    *report.Service
	Settings   *settings.Service
	Audit      *auditlog.Log
}

// NewRouter builds the gin engine.
func NewRouter(s Services, logger *zap.Logger) *gin.Engine {
	responses.SetLogger(logger)
	var auditor handlers.Auditor
	if s.Audit != nil {
		auditor = s.Audit
	}
	audit := handlers.NewAudit(auditor, logger)

	authH := handlers.NewAuthHandler(s.Auth, audit)
	bankH := handlers.NewBankHandler(s.Banking, audit)
	contactH := handlers.NewContactHandler(s.Contacts, audit)
	categoryH := handlers.NewCategoryHandler(s.Categories, audit)
	entryH := handlers.NewEntryHandler(s.Entries, audit)
	saleH := handlers.NewSaleHandler(s.Sales, audit)
	checkH := handlers.NewCheckHandler(s.Checks, audit)
	terminalH := handlers.NewTerminalHandler(s.Terminals, audit)
	statementH := handlers.NewStatementHandler(s.Importer, audit)
	reportH := handlers.NewReportHandler(s.Reports)
	settingsH := handlers.NewSettingsHandler(s.Settings, audit)

	router := gin.New()
	router.Use(gin.Recovery())
	router.NoRoute(func(c *gin.Context) {
		responses.Error(c, http.StatusNotFound, "rota não encontrada")
	})

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP", "service": "jcfinanceiro", "version": buildinfo.Version})
	})

	apiV1 := router.Group("/api/v1")
	apiV1.POST("/auth/login", authH.Login)

	authed := apiV1.Group("", middleware.RequireAuth(s.Auth))
	admin := middleware.RequireRole(auth.RoleAdmin)
	{
		authed.GET("/auth/me", authH.Me)
		authed.POST("/users", admin, authH.Register)
		if s.Audit != nil {
			authed.GET("/audit", admin, handlers.AuditHandler(s.Audit))
		}

		authed.GET("/banks", bankH.ListBanks)
		authed.POST("/banks", bankH.CreateBank)
		authed.GET("/banks/:id", bankH.GetBank)
		authed.PUT("/banks/:id", bankH.UpdateBank)
		authed.DELETE("/banks/:id", bankH.DeleteBank)

		authed.GET("/bank-accounts", bankH.ListAccounts)
		authed.POST("/bank-accounts", bankH.CreateAccount)
		authed.GET("/bank-accounts/balances", bankH.Balances)
		authed.GET("/bank-accounts/:id", bankH.GetAccount)
		authed.PUT("/bank-accounts/:id", bankH.UpdateAccount)
		authed.DELETE("/bank-accounts/:id", bankH.DeleteAccount)
		authed.GET("/bank-accounts/:id/balance", bankH.Balance)

		authed.GET("/contacts", contactH.List)
		authed.POST("/contacts", contactH.Create)
		authed.GET("/contacts/suggest", contactH.Suggest)
		authed.GET("/contacts/:id", contactH.Get)
		authed.PUT("/contacts/:id", contactH.Update)
		authed.DELETE("/contacts/:id", contactH.Delete)

		authed.GET("/categories", categoryH.List)
		authed.POST("/categories", categoryH.Create)
		authed.GET("/categories/tree", categoryH.Tree)
		authed.GET("/categories/export", categoryH.Export)
		authed.POST("/categories/import", categoryH.Import)
		authed.GET("/categories/:id", categoryH.Get)
		authed.PUT("/categories/:id", categoryH.Update)
		authed.DELETE("/categories/:id", categoryH.Delete)

		authed.GET("/entries", entryH.List)
		authed.POST("/entries", entryH.Create)
		authed.POST("/entries/batch", entryH.CreateBatch)
		authed.POST("/entries/batch/preview", entryH.PreviewBatch)
		authed.DELETE("/entries/batch/:batchID", entryH.CancelBatch)
		authed.POST("/entries/refresh-overdue", entryH.RefreshOverdue)
		authed.GET("/entries/:id", entryH.Get)
		authed.PUT("/entries/:id", entryH.Update)
		authed.DELETE("/entries/:id", entryH.Delete)
		authed.POST("/entries/:id/pay", entryH.Pay)
		authed.POST("/entries/:id/cancel", entryH.Cancel)
		authed.POST("/entries/:id/reopen", entryH.Reopen)

		authed.GET("/sales", saleH.List)
		authed.POST("/sales", saleH.Create)
		authed.GET("/sales/:id", saleH.Get)
		authed.DELETE("/sales/:id", saleH.Delete)

		authed.GET("/checks", checkH.List)
		authed.POST("/checks", checkH.Create)
		authed.GET("/checks/:id", checkH.Get)
		authed.PUT("/checks/:id", checkH.Update)
		authed.DELETE("/checks/:id", checkH.Delete)
		authed.POST("/checks/:id/status", checkH.ChangeStatus)

		authed.GET("/terminals", terminalH.List)
		authed.POST("/terminals", terminalH.Create)
		authed.GET("/terminals/:id", terminalH.Get)
		authed.PUT("/terminals/:id", terminalH.Update)
		authed.DELETE("/terminals/:id", terminalH.Delete)
		authed.GET("/terminals/:id/fees", terminalH.Fees)
		authed.PUT("/terminals/:id/fees", terminalH.SetFees)
		authed.GET("/terminals/:id/reconcile", terminalH.Reconcile)

		authed.POST("/statements/import", statementH.Import)

		authed.GET("/reports/dre", reportH.DRE)
		authed.GET("/reports/cashflow", reportH.CashFlow)
		authed.GET("/reports/categories", reportH.Categories)
		authed.GET("/reports/dashboard", reportH.Dashboard)

		authed.GET("/settings", settingsH.Get)
		authed.PUT("/settings", admin, settingsH.Save)

		authed.POST("/validate/document", handlers.ValidateDocument)
		authed.POST("/validate/amount", handlers.ValidateAmount)
	}

	return router
}
