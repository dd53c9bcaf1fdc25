package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/rezkam/quadrant/internal/application/todo"
	"github.com/rezkam/quadrant/internal/config"
	"github.com/rezkam/quadrant/internal/reminder"
	"github.com/rezkam/quadrant/internal/storage"
	"github.com/rezkam/quadrant/pkg/observability"
)

var Version = "dev"

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "quadrant: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	a := &app{}
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetOut(out)

	err := root.ExecuteContext(ctx)
	return errors.Join(err, a.close())
}

// app holds what every subcommand needs once the root has opened it.
type app struct {
	envFile string
	asJSON  bool

	cfg       *config.Config
	providers *observability.Providers
	store     storage.Store
	svc       *todo.Service
	queue     *reminder.Queue
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "quadrant",
		Short:         "Eisenhower-matrix task manager with recurring tasks",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.open(cmd.Context())
		},
	}

	root.PersistentFlags().StringVar(&a.envFile, "env-file", ".env", "dotenv file loaded before the environment")
	root.PersistentFlags().BoolVar(&a.asJSON, "json", false, "output as JSON")

	root.AddCommand(addCmd(a))
	root.AddCommand(listCmd(a))
	root.AddCommand(showCmd(a))
	root.AddCommand(updateCmd(a))
	root.AddCommand(completeCmd(a, true))
	root.AddCommand(completeCmd(a, false))
	root.AddCommand(deleteCmd(a))
	root.AddCommand(scoresCmd(a))
	root.AddCommand(validateCmd(a))
	root.AddCommand(upcomingCmd(a))
	root.AddCommand(matrixCmd(a))
	root.AddCommand(statsCmd(a))
	root.AddCommand(categoriesCmd(a))
	root.AddCommand(remindersCmd(a))

	return root
}

func (a *app) open(ctx context.Context) error {
	cfg, err := config.Load(a.envFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	a.cfg = cfg

	level, err := cfg.Observability.Level()
	if err != nil {
		return err
	}
	a.providers, err = observability.Setup(ctx, observability.Config{
		Enabled:     cfg.Observability.OTelEnabled,
		ServiceName: cfg.Observability.ServiceName,
		Level:       level,
	})
	if err != nil {
		return err
	}

	a.store, err = storage.Open(ctx, cfg.Storage)
	if err != nil {
		return err
	}

	a.svc = todo.NewService(a.store, todo.Config{})
	if err := a.svc.Open(ctx); err != nil {
		return fmt.Errorf("failed to open task store: %w", err)
	}

	a.queue = reminder.NewQueue(a.store, reminder.Config{
		TemplateID: cfg.Reminder.TemplateID,
		Page:       cfg.Reminder.Page,
	})
	return nil
}

func (a *app) close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var errs []error
	if a.svc != nil {
		errs = append(errs, a.svc.Close(ctx))
	}
	if a.store != nil {
		errs = append(errs, a.store.Close())
	}
	if a.providers != nil {
		errs = append(errs, a.providers.Shutdown(ctx))
	}
	return errors.Join(errs...)
}

// syncReminders mirrors the task list into the reminder queue. The mutation
// that triggered it has already been stored, so a failure is only logged.
func (a *app) syncReminders(ctx context.Context) {
	tasks, err := a.svc.ListTasks(ctx)
	if err != nil {
		slog.WarnContext(ctx, "failed to list tasks for reminder sync", "error", err)
		return
	}
	if _, err := a.queue.Sync(ctx, tasks); err != nil {
		slog.WarnContext(ctx, "failed to sync reminders", "error", err)
	}
}
