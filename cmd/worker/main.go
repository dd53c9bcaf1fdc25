package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rezkam/quadrant/internal/application/worker"
	"github.com/rezkam/quadrant/internal/config"
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
		slog.WarnContext(ctx, "reminder template is not configured, nothing will be queued",
			"env", "QUADRANT_REMINDER_TEMPLATE_ID")
	}

	var sender reminder.Sender = reminder.LogSender{Logger: providers.Logger}
	if cfg.Reminder.WebhookURL != "" {
		sender = reminder.NewWebhookSender(cfg.Reminder.WebhookURL, cfg.Reminder.Timeout)
		slog.InfoContext(ctx, "delivering reminders to webhook", "url", cfg.Reminder.WebhookURL)
	}

	w := worker.New(store, sender,
		reminder.Config{TemplateID: cfg.Reminder.TemplateID, Page: cfg.Reminder.Page},
		worker.WithSchedule(cfg.Reminder.Schedule),
		worker.WithOperationTimeout(cfg.Reminder.Timeout),
	)
	return w.Start(ctx)
}
