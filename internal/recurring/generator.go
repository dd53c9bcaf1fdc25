package recurring

import (
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/rezkam/quadrant/internal/datetime"
	"github.com/rezkam/quadrant/internal/domain"
)

// IDFunc returns a fresh task id.
type IDFunc func() string

// NewTaskID returns a time-ordered UUIDv7 string.
func NewTaskID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// OccurrenceGenerator builds the next occurrence of a series from the
// series' latest task.
type OccurrenceGenerator struct {
	newID IDFunc
}

// NewOccurrenceGenerator creates a generator. A nil newID uses NewTaskID.
func NewOccurrenceGenerator(newID IDFunc) *OccurrenceGenerator {
	if newID == nil {
		newID = NewTaskID
	}
	return &OccurrenceGenerator{newID: newID}
}

// createOccurrence clones the template fields of pointer into a new,
// incomplete task due at due. The result still needs normalization.
func (g *OccurrenceGenerator) createOccurrence(pointer *domain.Task, due time.Time, occurrence int, now time.Time) *domain.Task {
	dueDate, dueTime := datetime.Split(due)
	ts := datetime.FormatInstant(now)

	task := &domain.Task{
		ID:          g.newID(),
		Title:       pointer.Title,
		Description: pointer.Description,
		Priority:    pointer.Priority,
		CategoryID:  pointer.CategoryID,
		Tags:        slices.Clone(pointer.Tags),

		DueDate:     dueDate,
		DueTime:     dueTime,
		DueDateTime: datetime.FormatInstant(due),

		RecurrenceEnabled:    true,
		RecurrenceType:       pointer.RecurrenceType,
		RecurrenceInterval:   pointer.RecurrenceInterval,
		RecurrenceWeekdays:   slices.Clone(pointer.RecurrenceWeekdays),
		RecurrenceEndDate:    pointer.RecurrenceEndDate,
		RecurrenceSeriesID:   pointer.RecurrenceSeriesID,
		RecurrenceOccurrence: occurrence,
		RecurrenceStatus:     domain.RecurrenceActive,

		CreatedAt: ts,
		UpdatedAt: ts,
	}

	if offset, ok := reminderOffset(pointer); ok {
		remindAt := due.Add(-offset)
		task.ReminderEnabled = true
		task.ReminderDate, task.ReminderTime = datetime.Split(remindAt)
		task.ReminderDateTime = datetime.FormatInstant(remindAt)
		task.ReminderStatus = domain.ReminderPending
	}

	return task
}

// reminderOffset is how long before its due instant the pointer reminds.
// A reminder after the due instant, or a task without a due instant, yields
// no offset and the new occurrence gets no reminder.
func reminderOffset(t *domain.Task) (time.Duration, bool) {
	remindAt, ok := t.ReminderInstant()
	if !ok {
		return 0, false
	}
	due, ok := t.DueInstant()
	if !ok {
		return 0, false
	}
	offset := due.Sub(remindAt)
	if offset < 0 {
		return 0, false
	}
	return offset, true
}
