// Package handler adapts HTTP requests to the task store.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/rezkam/quadrant/internal/application/todo"
	"github.com/rezkam/quadrant/internal/reminder"
)

// Handler serves the /v1 API. Every request loads the task store, works on
// it and writes it back, like a CLI invocation or a worker pass, so changes
// made by other processes are picked up. Requests in this process are
// serialized by mu.
type Handler struct {
	mu     sync.Mutex
	repo   todo.Repository
	config todo.Config
	queue  *reminder.Queue
	now    func() time.Time
}

// New creates a Handler over repo. queue may be nil, in which case the
// reminder queue is not kept in step with the tasks.
func New(repo todo.Repository, config todo.Config, queue *reminder.Queue) *Handler {
	if config.Now == nil {
		config.Now = time.Now
	}
	return &Handler{
		repo:   repo,
		config: config,
		queue:  queue,
		now:    config.Now,
	}
}

// session locks the handler and opens the task store. done writes the store
// back and unlocks.
func (h *Handler) session(ctx context.Context) (*todo.Service, func(), error) {
	h.mu.Lock()
	svc := todo.NewService(h.repo, h.config)
	if err := svc.Open(ctx); err != nil {
		h.mu.Unlock()
		return nil, nil, fmt.Errorf("failed to open task store: %w", err)
	}
	return svc, func() {
		defer h.mu.Unlock()
		// the response may already be written; a failed write-back is logged
		if err := svc.Close(context.WithoutCancel(ctx)); err != nil {
			slog.ErrorContext(ctx, "failed to close task store", "error", err)
		}
	}, nil
}

// Routes returns the API router.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()

	r.Route("/v1", func(r chi.Router) {
		r.Route("/tasks", func(r chi.Router) {
			r.Get("/", h.listTasks)
			r.Post("/", h.createTask)
			r.Post("/validate", h.validateTask)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.getTask)
				r.Patch("/", h.updateTask)
				r.Delete("/", h.deleteTask)
				r.Post("/complete", h.setCompleted(true))
				r.Post("/reopen", h.setCompleted(false))
				r.Put("/scores", h.setScores)
				r.Get("/occurrences", h.occurrences)
			})
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", h.listCategories)
			r.Post("/", h.createCategory)
			r.Patch("/{id}", h.updateCategory)
			r.Delete("/{id}", h.deleteCategory)
		})

		r.Get("/stats", h.stats)
		r.Get("/matrix", h.matrix)
		r.Get("/reminders", h.reminders)
	})

	return r
}

// syncReminders mirrors the task list into the reminder queue. Failures are
// logged; the task mutation has already been stored.
func (h *Handler) syncReminders(ctx context.Context, svc *todo.Service) {
	if h.queue == nil {
		return
	}
	tasks, err := svc.ListTasks(ctx)
	if err != nil {
		slog.WarnContext(ctx, "failed to list tasks for reminder sync", "error", err)
		return
	}
	if _, err := h.queue.Sync(ctx, tasks); err != nil {
		slog.WarnContext(ctx, "failed to sync reminders", "error", err)
	}
}

var errEmptyBody = errors.New("request body is empty")

// decode reads a single JSON object from the body, rejecting unknown fields.
func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errEmptyBody
		}
		return fmt.Errorf("invalid JSON: %w", err)
	}
	return nil
}
