package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/dukerupert/behaviorchart/internal/auth"
	"github.com/dukerupert/behaviorchart/internal/behavior"
	"github.com/dukerupert/behaviorchart/internal/calendar"
	"github.com/dukerupert/behaviorchart/internal/seed"
	"github.com/dukerupert/behaviorchart/internal/server"
)

func newServeCommand(rootOpts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the web server",
		Long: `Run the web server. On first start the datastore is seeded with the
points record, the default rewards and the default PINs.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), rootOpts)
		},
	}
}

func serve(ctx context.Context, rootOpts *rootOptions) error {
	e, err := rootOpts.load(ctx)
	if err != nil {
		return err
	}
	defer e.store.Close()
	cfg, logger := e.cfg, e.logger

	cal, err := calendar.Load(cfg.Timezone)
	if err != nil {
		return err
	}

	pins := seed.PINs{User: cfg.DefaultUserPIN, Admin: cfg.DefaultAdminPIN}
	if err := seed.Setup(ctx, e.store, pins, logger.With("component", "seed")); err != nil {
		return err
	}

	ledger := behavior.NewLedger(e.store, behavior.NewCatalog(behavior.DefaultTasks), cal, logger.With("component", "ledger"))
	sessions := auth.NewSessions(cfg.SessionSecret, cfg.SessionTTL)

	srv, err := server.New(e.store, ledger, sessions, logger, server.WithTrustedProxy(cfg.TrustedProxy))
	if err != nil {
		return err
	}

	// Login rate limiter cleanup
	scheduler := cron.New()
	if _, err := scheduler.AddFunc("@every 5m", func() {
		if n := srv.RateLimiter().Cleanup(); n > 0 {
			logger.Debug("rate limiter cleanup", "removed", n, "remaining", srv.RateLimiter().Len())
		}
	}); err != nil {
		return fmt.Errorf("schedule cleanup: %w", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	httpServer := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      srv.Router(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("behavior chart running", "addr", httpServer.Addr, "backend", cfg.Backend, "timezone", cfg.Timezone)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-quit:
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
