package reminder

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/rezkam/quadrant/internal/datetime"
	"github.com/rezkam/quadrant/internal/domain"
)

// StorageKey is the document the queue is persisted under.
const StorageKey = "reminders"

// ErrTaskIDRequired is returned when an entry has no task id.
var ErrTaskIDRequired = errors.New("taskId is required")

// Entry is a scheduled reminder for a single task.
type Entry struct {
	TaskID           string                `json:"taskId"`
	TemplateID       string                `json:"templateId"`
	Page             string                `json:"page"`
	Title            string                `json:"title"`
	Priority         string                `json:"priority"`
	ReminderDateTime string                `json:"reminderDateTime"`
	DueDateTime      string                `json:"dueDateTime"`
	MessageData      Message               `json:"messageData"`
	Status           domain.ReminderStatus `json:"status"`
	FailReason       string                `json:"failReason,omitempty"`
	SentAt           string                `json:"sentAt,omitempty"`
	CreatedAt        string                `json:"createdAt"`
	UpdatedAt        string                `json:"updatedAt"`
}

// Store persists the queue document.
type Store interface {
	// Load returns domain.ErrNotFound when nothing has been saved under key.
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, data []byte) error
}

// Sender delivers a due reminder.
type Sender interface {
	Send(ctx context.Context, entry Entry) error
}

// Result reports the outcome of one delivery attempt.
type Result struct {
	TaskID string
	Status domain.ReminderStatus
	Error  string
}

// SyncResult counts the queue changes made by Sync.
type SyncResult struct {
	Upserted int
	Removed  int
}

// Config holds configuration for the Queue.
type Config struct {
	// TemplateID is the message template reminders are sent with.
	TemplateID string
	// Page is opened from a delivered reminder. Defaults to TargetPage.
	Page string
	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// Queue is the persisted set of reminder entries, at most one per task.
//
// A Queue is not safe for concurrent use.
type Queue struct {
	store  Store
	config Config
}

// NewQueue creates a queue backed by store.
func NewQueue(store Store, config Config) *Queue {
	if config.Page == "" {
		config.Page = TargetPage
	}
	if config.Now == nil {
		config.Now = time.Now
	}
	return &Queue{store: store, config: config}
}

// EntryFor builds the queue entry for task. It reports false when the task
// should have no entry: reminder off, task completed, no reminder instant or
// no usable template.
func (q *Queue) EntryFor(task *domain.Task) (Entry, bool) {
	if task.Completed || !TemplateConfigured(q.config.TemplateID) {
		return Entry{}, false
	}
	at, ok := task.ReminderInstant()
	if !ok {
		return Entry{}, false
	}

	status := domain.ReminderPending
	if task.ReminderStatus == domain.ReminderSent || task.ReminderStatus == domain.ReminderFailed {
		status = task.ReminderStatus
	}

	return Entry{
		TaskID:           task.ID,
		TemplateID:       q.config.TemplateID,
		Page:             q.config.Page,
		Title:            task.Title,
		Priority:         string(task.Priority),
		ReminderDateTime: datetime.FormatInstant(at),
		DueDateTime:      task.DueDateTime,
		MessageData:      BuildMessage(task),
		Status:           status,
	}, true
}

// Entries returns the persisted entries.
func (q *Queue) Entries(ctx context.Context) ([]Entry, error) {
	data, err := q.store.Load(ctx, StorageKey)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load reminders: %w", err)
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode reminders: %w", err)
	}
	return entries, nil
}

// Upsert replaces the entry for e.TaskID. An entry without a reminder instant
// or template only removes the previous one. Rescheduling to the same instant
// keeps the existing delivery status.
func (q *Queue) Upsert(ctx context.Context, e Entry) error {
	if e.TaskID == "" {
		return ErrTaskIDRequired
	}

	entries, err := q.Entries(ctx)
	if err != nil {
		return err
	}
	entries, _ = upsert(entries, e, q.config.Now())
	return q.save(ctx, entries)
}

// Remove drops the entry for taskID, if any.
func (q *Queue) Remove(ctx context.Context, taskID string) error {
	if taskID == "" {
		return ErrTaskIDRequired
	}

	entries, err := q.Entries(ctx)
	if err != nil {
		return err
	}
	before := len(entries)
	entries = slices.DeleteFunc(entries, func(e Entry) bool { return e.TaskID == taskID })
	if len(entries) == before {
		return nil
	}
	return q.save(ctx, entries)
}

// Sync makes the queue mirror tasks: every task with a deliverable reminder
// gets an entry and every other entry is dropped.
func (q *Queue) Sync(ctx context.Context, tasks []*domain.Task) (SyncResult, error) {
	entries, err := q.Entries(ctx)
	if err != nil {
		return SyncResult{}, err
	}
	now := q.config.Now()

	var result SyncResult
	wanted := make(map[string]bool, len(tasks))
	for _, task := range tasks {
		e, ok := q.EntryFor(task)
		if !ok {
			continue
		}
		wanted[task.ID] = true
		var changed bool
		if entries, changed = upsert(entries, e, now); changed {
			result.Upserted++
		}
	}

	entries = slices.DeleteFunc(entries, func(e Entry) bool {
		if wanted[e.TaskID] {
			return false
		}
		result.Removed++
		return true
	})

	if result == (SyncResult{}) {
		return result, nil
	}
	if err := q.save(ctx, entries); err != nil {
		return SyncResult{}, err
	}
	slog.DebugContext(ctx, "reminders synced", "upserted", result.Upserted, "removed", result.Removed)
	return result, nil
}

// Process sends every pending entry whose reminder instant is not after now
// and records the outcome on the entry.
func (q *Queue) Process(ctx context.Context, now time.Time, sender Sender) ([]Result, error) {
	entries, err := q.Entries(ctx)
	if err != nil {
		return nil, err
	}

	var results []Result
	for i := range entries {
		e := &entries[i]
		if e.Status != domain.ReminderPending {
			continue
		}
		at, ok := datetime.ParseInstant(e.ReminderDateTime)
		if !ok || at.After(now) {
			continue
		}
		if ctx.Err() != nil {
			break
		}

		stamp := datetime.FormatInstant(q.config.Now())
		if err := sender.Send(ctx, *e); err != nil {
			reason := err.Error()
			if reason == "" {
				reason = "unknown error"
			}
			slog.ErrorContext(ctx, "failed to send reminder", "task_id", e.TaskID, "error", err)
			e.Status = domain.ReminderFailed
			e.FailReason = reason
			e.UpdatedAt = stamp
			results = append(results, Result{TaskID: e.TaskID, Status: domain.ReminderFailed, Error: reason})
			continue
		}

		e.Status = domain.ReminderSent
		e.SentAt = stamp
		e.UpdatedAt = stamp
		results = append(results, Result{TaskID: e.TaskID, Status: domain.ReminderSent})
	}

	if len(results) == 0 {
		return nil, nil
	}
	if err := q.save(ctx, entries); err != nil {
		return results, err
	}
	return results, nil
}

func (q *Queue) save(ctx context.Context, entries []Entry) error {
	if entries == nil {
		entries = []Entry{}
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to encode reminders: %w", err)
	}
	if err := q.store.Save(ctx, StorageKey, data); err != nil {
		return fmt.Errorf("failed to save reminders: %w", err)
	}
	return nil
}

// upsert replaces the entry for e.TaskID and reports whether the queue changed.
func upsert(entries []Entry, e Entry, now time.Time) ([]Entry, bool) {
	i := slices.IndexFunc(entries, func(x Entry) bool { return x.TaskID == e.TaskID })

	if e.ReminderDateTime == "" || e.TemplateID == "" {
		if i < 0 {
			return entries, false
		}
		return slices.Delete(entries, i, i+1), true
	}

	stamp := datetime.FormatInstant(now)
	if e.Page == "" {
		e.Page = TargetPage
	}
	if e.Status == "" {
		e.Status = domain.ReminderPending
	}
	e.CreatedAt = stamp
	e.UpdatedAt = stamp

	if i < 0 {
		return append(entries, e), true
	}

	prev := entries[i]
	if prev.ReminderDateTime == e.ReminderDateTime {
		e.Status = prev.Status
		e.SentAt = prev.SentAt
		e.FailReason = prev.FailReason
		e.CreatedAt = prev.CreatedAt
		e.UpdatedAt = prev.UpdatedAt
		if sameContent(prev, e) {
			return entries, false
		}
		e.UpdatedAt = stamp
	}
	entries[i] = e
	return entries, true
}

func sameContent(a, b Entry) bool {
	if a.TemplateID != b.TemplateID || a.Page != b.Page || a.Title != b.Title ||
		a.Priority != b.Priority || a.DueDateTime != b.DueDateTime || len(a.MessageData) != len(b.MessageData) {
		return false
	}
	for k, v := range a.MessageData {
		if b.MessageData[k] != v {
			return false
		}
	}
	return true
}
