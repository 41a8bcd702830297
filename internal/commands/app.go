package commands

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/jcfinanceiro/jcfinanceiro/internal/api"
	"github.com/jcfinanceiro/jcfinanceiro/internal/auditlog"
	"github.com/jcfinanceiro/jcfinanceiro/internal/auth"
	"github.com/jcfinanceiro/jcfinanceiro/internal/banking"
	"github.com/jcfinanceiro/jcfinanceiro/internal/categories"
	"github.com/jcfinanceiro/jcfinanceiro/internal/checks"
	"github.com/jcfinanceiro/jcfinanceiro/internal/config"
	"github.com/jcfinanceiro/jcfinanceiro/internal/contacts"
	"github.com/jcfinanceiro/jcfinanceiro/internal/entries"
	"github.com/jcfinanceiro/jcfinanceiro/internal/importer"
	"github.com/jcfinanceiro/jcfinanceiro/internal/logging"
	"github.com/jcfinanceiro/jcfinanceiro/internal/model"
	"github.com/jcfinanceiro/jcfinanceiro/internal/report"
	"github.com/jcfinanceiro/jcfinanceiro/internal/sales"
	"github.com/jcfinanceiro/jcfinanceiro/internal/settings"
	"github.com/jcfinanceiro/jcfinanceiro/internal/store"
	"github.com/jcfinanceiro/jcfinanceiro/internal/terminal"
)

// app holds the configuration, database and services a command needs.
type app struct {
	cfg    *config.Config
	logger *zap.Logger
	db     *store.DB
	audit  *auditlog.Log

	banking    *banking.Service
	contacts   *contacts.Service
	categories *categories.Service
	entries    *entries.Service
	sales      *sales.Service
	checks     *checks.Service
	terminals  *terminal.Service
	importer   *importer.Service
	reports    *report.Service
	settings   *settings.Service
}

// openApp loads configuration from configPath and opens the database.
// Relative paths in the file are taken relative to the file itself.
func openApp(configPath string) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if configPath != "" {
		cfg.Resolve(filepath.Dir(configPath))
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, err
	}
	db, err := store.Open(cfg.Database.Path)
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg:    cfg,
		logger: logger,
		db:     db,
		audit:  auditlog.New(cfg.Data.Dir),
	}
	a.banking = banking.NewService(db, logger)
	a.contacts = contacts.NewService(db, logger)
	a.categories = categories.NewService(db, logger)
	a.entries = entries.NewService(db, logger)
	a.sales = sales.NewService(db, logger)
	a.checks = checks.NewService(db, a.entries, logger)
	a.terminals = terminal.NewService(db, logger, terminal.Options{
		ToleranceDays:   cfg.Reconcile.ToleranceDays,
		ToleranceAmount: decimal.NewFromFloat(cfg.Reconcile.ToleranceAmount).Round(2),
		GroupByDay:      cfg.Reconcile.GroupByDay,
	})
	a.importer = importer.NewService(db, importer.DefaultRegistry(), logger)
	a.reports = report.NewService(db, a.banking, logger)
	a.settings = settings.NewService(db, model.Settings{
		CompanyName:     cfg.Company.Name,
		CompanyDocument: cfg.Company.Document,
	}, logger)
	return a, nil
}

// authService needs the JWT secret, which only serve and user commands use.
func (a *app) authService() (*auth.Service, error) {
	ttl := time.Duration(a.cfg.Auth.TokenTTLHours) * time.Hour
	svc, err := auth.NewService(a.db, []byte(a.cfg.Auth.JWTSecret), ttl, a.logger)
	if err != nil {
		return nil, fmt.Errorf("%w (set %s_AUTH_JWT_SECRET)", err, config.EnvPrefix)
	}
	return svc, nil
}

func (a *app) apiServices(authSvc *auth.Service) api.Services {
	return api.Services{
		Auth:       authSvc,
		Banking:    a.banking,
		Contacts:   a.contacts,
		Categories: a.categories,
		Entries:    a.entries,
		Sales:      a.sales,
		Checks:     a.checks,
		Terminals:  a.terminals,
		Importer:   a.importer,
		Reports:    a.reports,
		Settings:   a.settings,
		Audit:      a.audit,
	}
}

func (a *app) Close() {
	_ = a.logger.Sync()
	_ = a.db.Close()
}
