package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/rezkam/quadrant/internal/application/todo"
	"github.com/rezkam/quadrant/internal/config"
	httpserver "github.com/rezkam/quadrant/internal/http"
	"github.com/rezkam/quadrant/internal/http/handler"
	"github.com/rezkam/quadrant/internal/reminder"
	"github.com/rezkam/quadrant/internal/storage"
	"github.com/rezkam/quadrant/pkg/observability"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to run: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	level, err := cfg.Observability.Level()
	if err != nil {
		return err
	}
	providers, err := observability.Setup(ctx, observability.Config{
		Enabled:     cfg.Observability.OTelEnabled,
		ServiceName: cfg.Observability.ServiceName,
		Level:       level,
	})
	if err != nil {
		return err
	}
	defer func() {
		// collector may be unreachable
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := providers.Shutdown(shutdownCtx); err != nil {
			slog.ErrorContext(shutdownCtx, "failed to shutdown telemetry", "error", err)
		}
	}()

	store, err := storage.Open(ctx, cfg.Storage)
	if err != nil {
		return err
	}
	defer store.Close()

	if !reminder.TemplateConfigured(cfg.Reminder.TemplateID) {
		slog.InfoContext(ctx, "reminder template is not configured, no reminders will be queued",
			"env", "QUADRANT_REMINDER_TEMPLATE_ID")
	}
	queue := reminder.NewQueue(store, reminder.Config{TemplateID: cfg.Reminder.TemplateID, Page: cfg.Reminder.Page})

	api := handler.New(store, todo.Config{}, queue)
	server := httpserver.NewAPIServer(api.Routes(), cfg.HTTP)
	server.WrapHandler(func(h http.Handler) http.Handler {
		return otelhttp.NewHandler(h, "quadrant-api")
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.InfoContext(ctx, "shutdown requested")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shutdown http server: %w", err)
	}
	return <-errCh
}
