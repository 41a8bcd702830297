package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jcfinanceiro/jcfinanceiro/internal/api"
)

const (
	overdueRefreshInterval = time.Hour
	shutdownTimeout        = 10 * time.Second
)

func newServeCommand(open func() (*app, error)) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := open()
			if err != nil {
				return err
			}
			defer a.Close()
			if addr != "" {
				a.cfg.Server.Address = addr
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, a)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.address)")

	return cmd
}

func runServe(ctx context.Context, a *app) error {
	authSvc, err := a.authService()
	if err != nil {
		return err
	}
	gin.SetMode(a.cfg.Server.Mode)
	router := api.NewRouter(a.apiServices(authSvc), a.logger)

	srv := &http.Server{
		Addr:              a.cfg.Server.Address,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go refreshOverdue(ctx, a)

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("API listening", zap.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serving: %w", err)
	case <-ctx.Done():
	}

	a.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// refreshOverdue marks past-due entries as overdue at startup and then
// hourly until ctx is done.
func refreshOverdue(ctx context.Context, a *app) {
	ticker := time.NewTicker(overdueRefreshInterval)
	defer ticker.Stop()
	for {
		n, err := a.entries.RefreshOverdue(ctx)
		if err != nil && ctx.Err() == nil {
			a.logger.Warn("overdue refresh failed", zap.Error(err))
		} else if n > 0 {
			a.logger.Info("entries marked overdue", zap.Int64("count", n))
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
