// Package worker delivers due task reminders on a cron schedule.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"

	"github.com/rezkam/quadrant/internal/application/todo"
	"github.com/rezkam/quadrant/internal/domain"
	"github.com/rezkam/quadrant/internal/reminder"
)

const meterName = "github.com/rezkam/quadrant/internal/application/worker"

// Repository is the document store holding tasks, categories and the
// reminder queue.
type Repository interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, data []byte) error
}

// Summary reports what a single pass did.
type Summary struct {
	Upserted int
	Removed  int
	Sent     int
	Failed   int
}

// Worker runs reminder passes. Each pass opens the task store, mirrors the
// tasks into the reminder queue, sends what is due and records the delivery
// status back on the tasks. Passes never overlap.
type Worker struct {
	repo             Repository
	sender           reminder.Sender
	reminders        reminder.Config
	schedule         string
	operationTimeout time.Duration
	now              func() time.Time

	mu        sync.Mutex
	delivered metric.Int64Counter
}

// Option is a functional option for configuring Worker.
type Option func(*Worker)

// WithSchedule sets the cron expression (with a seconds field) passes run on.
func WithSchedule(spec string) Option {
	return func(w *Worker) {
		w.schedule = spec
	}
}

// WithOperationTimeout bounds a single pass.
func WithOperationTimeout(d time.Duration) Option {
	return func(w *Worker) {
		w.operationTimeout = d
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(w *Worker) {
		w.now = now
	}
}

// New creates a Worker delivering through sender.
func New(repo Repository, sender reminder.Sender, reminders reminder.Config, opts ...Option) *Worker {
	w := &Worker{
		repo:             repo,
		sender:           sender,
		reminders:        reminders,
		schedule:         "0 * * * * *", // every minute
		operationTimeout: 30 * time.Second,
		now:              time.Now,
	}

	for _, opt := range opts {
		opt(w)
	}
	w.reminders.Now = w.now

	counter, err := otel.Meter(meterName).Int64Counter("quadrant.reminders.delivered",
		metric.WithDescription("Reminder delivery attempts by outcome"),
		metric.WithUnit("{reminder}"))
	if err != nil {
		otel.Handle(err)
		counter = noop.Int64Counter{}
	}
	w.delivered = counter

	return w
}

// Start runs one pass immediately and then on the schedule until ctx is
// cancelled. On shutdown it waits for a running pass to finish.
func (w *Worker) Start(ctx context.Context) error {
	c := cron.New(cron.WithSeconds())
	if _, err := c.AddFunc(w.schedule, func() { w.tick(ctx) }); err != nil {
		return fmt.Errorf("invalid reminder schedule %q: %w", w.schedule, err)
	}

	slog.InfoContext(ctx, "reminder worker started", "schedule", w.schedule)
	w.tick(ctx)
	c.Start()

	<-ctx.Done()
	slog.InfoContext(ctx, "shutdown requested, waiting for in-flight pass")
	<-c.Stop().Done()
	slog.InfoContext(ctx, "reminder worker stopped")
	return nil
}

func (w *Worker) tick(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if !w.mu.TryLock() {
		slog.WarnContext(ctx, "previous reminder pass still running, skipping")
		return
	}
	defer w.mu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			slog.ErrorContext(ctx, "reminder pass panicked",
				slog.Any("panic_value", r),
				slog.String("stack_trace", string(debug.Stack())),
			)
		}
	}()

	// a pass already underway finishes its writes even when shutdown begins
	opCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), w.operationTimeout)
	defer cancel()

	summary, err := w.RunOnce(opCtx)
	if err != nil {
		slog.ErrorContext(opCtx, "reminder pass failed", "error", err)
		return
	}
	if summary != (Summary{}) {
		slog.InfoContext(opCtx, "reminder pass finished",
			"upserted", summary.Upserted,
			"removed", summary.Removed,
			"sent", summary.Sent,
			"failed", summary.Failed,
		)
	}
}

// RunOnce executes a single pass.
func (w *Worker) RunOnce(ctx context.Context) (summary Summary, err error) {
	svc := todo.NewService(w.repo, todo.Config{Now: w.now})
	if err := svc.Open(ctx); err != nil {
		return Summary{}, fmt.Errorf("failed to open task store: %w", err)
	}
	defer func() {
		if closeErr := svc.Close(ctx); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("failed to close task store: %w", closeErr))
		}
	}()

	tasks, err := svc.ListTasks(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to list tasks: %w", err)
	}

	queue := reminder.NewQueue(w.repo, w.reminders)
	synced, err := queue.Sync(ctx, tasks)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to sync reminders: %w", err)
	}
	summary.Upserted, summary.Removed = synced.Upserted, synced.Removed

	results, err := queue.Process(ctx, w.now(), w.sender)
	if err != nil {
		return summary, fmt.Errorf("failed to process reminders: %w", err)
	}

	for _, r := range results {
		w.delivered.Add(ctx, 1, metric.WithAttributes(attribute.String("status", string(r.Status))))
		if r.Status == domain.ReminderSent {
			summary.Sent++
		} else {
			summary.Failed++
		}

		status := r.Status
		if _, err := svc.UpdateTask(ctx, r.TaskID, domain.TaskPatch{ReminderStatus: &status}); err != nil {
			if errors.Is(err, domain.ErrTaskNotFound) {
				continue
			}
			return summary, fmt.Errorf("failed to record reminder status for %s: %w", r.TaskID, err)
		}
	}

	return summary, nil
}
