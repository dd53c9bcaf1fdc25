// Package normalize derives every dependent task field so that a task from a
// form, from storage or from the recurrence engine ends up in one canonical
// shape. Normalization is total: malformed input degrades to defaults instead
// of failing.
package normalize

import (
	"strings"
	"time"

	"github.com/rezkam/quadrant/internal/datetime"
	"github.com/rezkam/quadrant/internal/domain"
	"github.com/rezkam/quadrant/internal/quadrant"
)

// Task returns the canonical form of raw. It returns nil only for nil input
// and never modifies raw. Steps run in order; later steps read fields that
// earlier steps derived.
func Task(raw *domain.Task, categories []domain.Category, now time.Time) *domain.Task {
	if raw == nil {
		return nil
	}

	t := raw.Clone()
	content(t)
	completion(t, now)
	due(t)
	reminder(t)
	category(t, categories)
	timestamps(t, now)
	recurrence(t)
	quadrant.Score(t, now)
	return t
}

func content(t *domain.Task) {
	t.ID = strings.TrimSpace(t.ID)
	t.Title = strings.TrimSpace(t.Title)

	priority, err := domain.NewPriority(string(t.Priority))
	if err != nil {
		priority = domain.PriorityMedium
	}
	t.Priority = priority
	t.Tags = domain.NormalizeTags(t.Tags)
}

// completion resolves the completion timestamp from an ordered candidate
// list, accepting the first that parses.
func completion(t *domain.Task, now time.Time) {
	if !t.Completed {
		t.CompletedAt = ""
		return
	}

	for _, candidate := range []string{t.CompletedAt, t.UpdatedAt, t.CreatedAt} {
		if at := datetime.CanonicalInstant(candidate); at != "" {
			t.CompletedAt = at
			return
		}
	}
	t.CompletedAt = datetime.FormatInstant(now)
}

func due(t *domain.Task) {
	fallbackDate, fallbackClock := datetime.SplitInstant(t.DueDateTime)

	date := firstNonEmpty(t.DueDate, fallbackDate)
	if !datetime.ValidDate(date) {
		t.DueDate, t.DueTime, t.DueDateTime = "", "", ""
		return
	}

	clock := firstNonEmpty(t.DueTime, fallbackClock, datetime.EndOfDay)
	if !datetime.ValidClock(clock) {
		clock = datetime.EndOfDay
	}

	t.DueDate = strings.TrimSpace(date)
	t.DueTime = strings.TrimSpace(clock)
	t.DueDateTime = datetime.CombineInstant(t.DueDate, t.DueTime)
}

func reminder(t *domain.Task) {
	fallbackDate, fallbackClock := datetime.SplitInstant(t.ReminderDateTime)
	date := strings.TrimSpace(firstNonEmpty(t.ReminderDate, fallbackDate))
	clock := strings.TrimSpace(firstNonEmpty(t.ReminderTime, fallbackClock))

	instant := ""
	if t.ReminderEnabled && date != "" && clock != "" {
		instant = datetime.CombineInstant(date, clock)
	}
	if instant == "" {
		t.ReminderEnabled = false
		t.ReminderDate, t.ReminderTime, t.ReminderDateTime = "", "", ""
		t.ReminderStatus = domain.ReminderDisabled
		return
	}

	t.ReminderDate, t.ReminderTime, t.ReminderDateTime = date, clock, instant
	switch t.ReminderStatus {
	case domain.ReminderPending, domain.ReminderSent, domain.ReminderFailed:
	default:
		t.ReminderStatus = domain.ReminderPending
	}
}

func category(t *domain.Task, categories []domain.Category) {
	if domain.FindCategory(categories, t.CategoryID) != nil {
		return
	}
	if len(categories) == 0 {
		t.CategoryID = ""
		return
	}
	t.CategoryID = categories[0].ID
}

func timestamps(t *domain.Task, now time.Time) {
	t.CreatedAt = datetime.CanonicalInstant(t.CreatedAt)
	if t.CreatedAt == "" {
		t.CreatedAt = datetime.FormatInstant(now)
	}
	t.UpdatedAt = datetime.CanonicalInstant(t.UpdatedAt)
	if t.UpdatedAt == "" {
		t.UpdatedAt = t.CreatedAt
	}
}

func recurrence(t *domain.Task) {
	if !t.RecurrenceEnabled {
		ResetRecurrence(t)
		return
	}

	rt, err := domain.NewRecurrenceType(string(t.RecurrenceType))
	if err != nil || rt == domain.RecurrenceNone {
		rt = domain.RecurrenceDaily
	}
	t.RecurrenceType = rt

	if t.RecurrenceInterval < 1 {
		t.RecurrenceInterval = 1
	}

	weekdays := domain.NormalizeWeekdays(t.RecurrenceWeekdays)
	if rt.UsesWeekdays() && len(weekdays) == 0 {
		if wd, ok := datetime.Weekday(t.DueDate); ok {
			weekdays = []int{wd}
		}
	}
	t.RecurrenceWeekdays = weekdays

	t.RecurrenceEndDate = strings.TrimSpace(t.RecurrenceEndDate)
	t.RecurrenceSeriesID = strings.TrimSpace(t.RecurrenceSeriesID)
	if t.RecurrenceSeriesID == "" {
		t.RecurrenceSeriesID = t.ID
	}
	if t.RecurrenceOccurrence < 1 {
		t.RecurrenceOccurrence = 1
	}
	if t.RecurrenceStatus != domain.RecurrenceInactive {
		t.RecurrenceStatus = domain.RecurrenceActive
	}
}

// ResetRecurrence puts every recurrence field at its inactive default.
func ResetRecurrence(t *domain.Task) {
	t.RecurrenceEnabled = false
	t.RecurrenceType = domain.RecurrenceNone
	t.RecurrenceInterval = 1
	t.RecurrenceWeekdays = []int{}
	t.RecurrenceEndDate = ""
	t.RecurrenceSeriesID = ""
	t.RecurrenceOccurrence = 0
	t.RecurrenceStatus = domain.RecurrenceInactive
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
