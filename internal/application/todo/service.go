package todo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"slices"
	"time"

	"github.com/rezkam/quadrant/internal/datetime"
	"github.com/rezkam/quadrant/internal/domain"
	"github.com/rezkam/quadrant/internal/normalize"
	"github.com/rezkam/quadrant/internal/ptr"
	"github.com/rezkam/quadrant/internal/quadrant"
	"github.com/rezkam/quadrant/internal/recurring"
	"go.opentelemetry.io/otel/metric"
)

// Config holds configuration for the Service.
type Config struct {
	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
	// NewID generates task and category ids. Defaults to recurring.NewTaskID.
	NewID func() string
	// Meter records store metrics. Defaults to the global meter provider.
	Meter metric.Meter
}

// Service owns the task and category collections and keeps them consistent:
// every mutation normalizes the touched record, reconciles recurring series
// and writes the collections through to the Repository.
//
// A Service is not safe for concurrent use.
type Service struct {
	repo       Repository
	reconciler *recurring.Reconciler
	config     Config
	metrics    *metrics

	tasks      []*domain.Task
	categories []domain.Category
}

// NewService creates a new task store. Call Open before use.
func NewService(repo Repository, config Config) *Service {
	if config.Now == nil {
		config.Now = time.Now
	}
	if config.NewID == nil {
		config.NewID = recurring.NewTaskID
	}

	return &Service{
		repo:       repo,
		reconciler: recurring.NewReconciler(recurring.NewOccurrenceGenerator(config.NewID)),
		config:     config,
		metrics:    newMetrics(config.Meter),
	}
}

// Open loads both collections. Categories are normalized and seeded with the
// defaults when none survive; tasks are normalized against them and
// reconciled. Load failures fall back to empty collections.
func (s *Service) Open(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	now := s.config.Now()

	rawCategories := s.loadCategories(ctx)
	s.categories = normalize.Categories(rawCategories, now)
	if len(s.categories) == 0 {
		s.categories = domain.DefaultCategories(now)
	}
	if !sameCategories(rawCategories, s.categories) {
		s.persistCategories(ctx)
	}

	rawTasks := s.loadTasks(ctx)
	s.tasks = make([]*domain.Task, 0, len(rawTasks))
	changed := false
	for _, raw := range rawTasks {
		t := normalize.Task(raw, s.categories, now)
		if t == nil {
			continue
		}
		if !reflect.DeepEqual(raw, t) {
			changed = true
		}
		s.tasks = append(s.tasks, t)
	}
	if len(s.tasks) != len(rawTasks) {
		changed = true
	}

	if s.reconcile(ctx, now).Changed || changed {
		s.persistTasks(ctx)
	}

	slog.DebugContext(ctx, "task store opened",
		"tasks", len(s.tasks),
		"categories", len(s.categories))
	return nil
}

// Close writes both collections and releases them.
func (s *Service) Close(ctx context.Context) error {
	var errs []error
	if s.categories != nil {
		if err := s.save(ctx, KeyCategories, s.categories); err != nil {
			errs = append(errs, err)
		}
	}
	if s.tasks != nil {
		if err := s.save(ctx, KeyTasks, s.tasks); err != nil {
			errs = append(errs, err)
		}
	}
	s.tasks = nil
	s.categories = nil
	return errors.Join(errs...)
}

// CreateTask stores a new task built from raw. The task receives a fresh id
// and timestamps, is normalized and reconciled, and is returned as stored.
func (s *Service) CreateTask(ctx context.Context, raw *domain.Task) (*domain.Task, error) {
	if raw == nil {
		return nil, domain.ErrInvalidTask
	}
	now := s.config.Now()
	stamp := datetime.FormatInstant(now)

	t := raw.Clone()
	t.ID = s.config.NewID()
	t.CreatedAt = stamp
	t.UpdatedAt = stamp
	// scores supplied on creation are user-set
	t.ImportanceExplicit = t.ImportanceScore != nil
	t.UrgencyExplicit = t.UrgencyScore != nil
	if t.RecurrenceEnabled {
		t.RecurrenceSeriesID = t.ID
		t.RecurrenceOccurrence = 0
	}

	s.tasks = append(s.tasks, normalize.Task(t, s.categories, now))
	s.metrics.created.Add(ctx, 1)
	s.reconcile(ctx, now)
	s.persistTasks(ctx)

	return s.GetTask(ctx, t.ID)
}

// UpdateTask merges patch onto the stored task, then normalizes, reconciles
// and persists. Returns domain.ErrTaskNotFound if the task doesn't exist.
func (s *Service) UpdateTask(ctx context.Context, id string, patch domain.TaskPatch) (*domain.Task, error) {
	i := s.indexOf(id)
	if i < 0 {
		return nil, domain.ErrTaskNotFound
	}
	if patch.IsEmpty() {
		return s.tasks[i].Clone(), nil
	}
	now := s.config.Now()

	s.tasks[i] = normalize.Task(patch.Apply(s.tasks[i], now), s.categories, now)
	s.reconcile(ctx, now)
	s.persistTasks(ctx)

	return s.GetTask(ctx, id)
}

// DeleteTask removes a single task. Other occurrences of its series are kept
// and renumbered. Returns domain.ErrTaskNotFound if the task doesn't exist.
func (s *Service) DeleteTask(ctx context.Context, id string) error {
	i := s.indexOf(id)
	if i < 0 {
		return domain.ErrTaskNotFound
	}

	s.tasks = slices.Delete(s.tasks, i, i+1)
	s.reconcile(ctx, s.config.Now())
	s.persistTasks(ctx)
	return nil
}

// GetTask returns a copy of the stored task.
// Returns domain.ErrTaskNotFound if the task doesn't exist.
func (s *Service) GetTask(ctx context.Context, id string) (*domain.Task, error) {
	i := s.indexOf(id)
	if i < 0 {
		return nil, domain.ErrTaskNotFound
	}
	return s.tasks[i].Clone(), nil
}

// ListTasks re-derives inferred scores and reconciles recurring series
// against the current time, persisting when either changed anything, and
// returns every task.
func (s *Service) ListTasks(ctx context.Context) ([]*domain.Task, error) {
	now := s.config.Now()
	rescored := s.rescore(now)
	if s.reconcile(ctx, now).Changed || rescored {
		s.persistTasks(ctx)
	}

	out := make([]*domain.Task, len(s.tasks))
	for i, t := range s.tasks {
		out[i] = t.Clone()
	}
	return out, nil
}

// SetScores replaces both scores of a task and recomputes its quadrant.
// Returns domain.ErrInvalidScore for values outside 0-100.
func (s *Service) SetScores(ctx context.Context, id string, importance, urgency int) (*domain.Task, error) {
	imp, err := domain.NewScore(importance)
	if err != nil {
		return nil, fmt.Errorf("importance: %w", err)
	}
	urg, err := domain.NewScore(urgency)
	if err != nil {
		return nil, fmt.Errorf("urgency: %w", err)
	}

	return s.UpdateTask(ctx, id, domain.TaskPatch{
		ImportanceScore: &imp,
		UrgencyScore:    &urg,
	})
}

// PreviewOccurrences lists the due instants a recurring task's rule yields
// after its own due instant up to until, bounded by the series end date.
// Nothing is stored. Non-recurring or undated tasks yield no instants.
func (s *Service) PreviewOccurrences(ctx context.Context, id string, until time.Time) ([]time.Time, error) {
	t, err := s.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}
	if !t.RecurrenceEnabled {
		return nil, nil
	}
	due, ok := t.DueInstant()
	if !ok {
		return nil, nil
	}
	calc := recurring.GetCalculator(t.RecurrenceType)
	if calc == nil {
		return nil, nil
	}

	rule := recurring.RuleOf(t)
	if end, ok := datetime.ParseDate(rule.EndDate); ok {
		endOfDay := end.AddDate(0, 0, 1).Add(-time.Nanosecond)
		if endOfDay.Before(until) {
			until = endOfDay
		}
	}

	var out []time.Time
	for _, at := range calc.OccurrencesBetween(due, until, rule) {
		if at.After(due) {
			out = append(out, at)
		}
	}
	return out, nil
}

// Categories returns a copy of the category collection.
func (s *Service) Categories() []domain.Category {
	return slices.Clone(s.categories)
}

func (s *Service) indexOf(id string) int {
	if id == "" {
		return -1
	}
	return slices.IndexFunc(s.tasks, func(t *domain.Task) bool { return t.ID == id })
}

// rescore recomputes scores and quadrants at now and reports whether any
// task moved.
func (s *Service) rescore(now time.Time) bool {
	changed := false
	for _, t := range s.tasks {
		importance, urgency, q := ptr.Deref(t.ImportanceScore, -1), ptr.Deref(t.UrgencyScore, -1), t.Quadrant
		quadrant.Score(t, now)
		if *t.ImportanceScore != importance || *t.UrgencyScore != urgency || t.Quadrant != q {
			changed = true
		}
	}
	return changed
}

func (s *Service) reconcile(ctx context.Context, now time.Time) recurring.Result {
	tasks, res := s.reconciler.Reconcile(s.tasks, s.categories, now)
	if res.Changed {
		s.tasks = tasks
	}
	if res.Generated > 0 {
		s.metrics.generated.Add(ctx, int64(res.Generated))
		slog.DebugContext(ctx, "generated recurring occurrences", "count", res.Generated)
	}
	return res
}

func (s *Service) loadTasks(ctx context.Context) []*domain.Task {
	data, ok := s.load(ctx, KeyTasks)
	if !ok {
		return nil
	}
	tasks, problems, err := domain.DecodeTasks(data)
	if err != nil {
		s.metrics.persistenceFailure(ctx, "decode", KeyTasks)
		slog.WarnContext(ctx, "failed to decode stored tasks, starting empty", "error", err)
		return nil
	}
	s.reportRecordErrors(ctx, KeyTasks, problems)
	return tasks
}

func (s *Service) loadCategories(ctx context.Context) []*domain.Category {
	data, ok := s.load(ctx, KeyCategories)
	if !ok {
		return nil
	}
	categories, problems, err := domain.DecodeCategories(data)
	if err != nil {
		s.metrics.persistenceFailure(ctx, "decode", KeyCategories)
		slog.WarnContext(ctx, "failed to decode stored categories, using defaults", "error", err)
		return nil
	}
	s.reportRecordErrors(ctx, KeyCategories, problems)
	return categories
}

// reportRecordErrors logs stored fields that were dropped during decoding.
// The records themselves still load.
func (s *Service) reportRecordErrors(ctx context.Context, key string, problems []*domain.RecordError) {
	for _, p := range problems {
		s.metrics.persistenceFailure(ctx, "decode_record", key)
		slog.WarnContext(ctx, "stored record has fields that could not be decoded",
			"key", key,
			"index", p.Index,
			"id", p.ID,
			"error", p.Err)
	}
}

func (s *Service) load(ctx context.Context, key string) ([]byte, bool) {
	data, err := s.repo.Load(ctx, key)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, false
	}
	if err != nil {
		s.metrics.persistenceFailure(ctx, "load", key)
		slog.ErrorContext(ctx, "failed to load collection", "key", key, "error", err)
		return nil, false
	}
	return data, true
}

// persistTasks and persistCategories write through after a mutation. Failures
// are logged and counted; the in-memory state stays authoritative.
func (s *Service) persistTasks(ctx context.Context) {
	_ = s.save(ctx, KeyTasks, s.tasks)
}

func (s *Service) persistCategories(ctx context.Context) {
	_ = s.save(ctx, KeyCategories, s.categories)
}

func (s *Service) save(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err == nil {
		err = s.repo.Save(ctx, key, data)
	}
	if err != nil {
		s.metrics.persistenceFailure(ctx, "save", key)
		slog.ErrorContext(ctx, "failed to save collection", "key", key, "error", err)
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	return nil
}

func sameCategories(raw []*domain.Category, normalized []domain.Category) bool {
	if len(raw) != len(normalized) {
		return false
	}
	for i, c := range raw {
		if c == nil || *c != normalized[i] {
			return false
		}
	}
	return true
}
