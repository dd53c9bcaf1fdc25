package domain

import (
	"slices"
	"time"

	"github.com/rezkam/quadrant/internal/datetime"
)

// Task is a single to-do entry. Date and clock fields are kept as strings in
// the local calendar; instant fields use the ISO-8601 UTC persisted format.
type Task struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`

	DueDate     string `json:"dueDate"`
	DueTime     string `json:"dueTime"`
	DueDateTime string `json:"dueDateTime"`

	// Scores are derived from priority and time-to-due on every
	// normalization unless the matching Explicit flag marks a user-set value.
	Priority               Priority `json:"priority"`
	ImportanceScore        *int     `json:"importanceScore,omitempty"`
	UrgencyScore           *int     `json:"urgencyScore,omitempty"`
	ImportanceExplicit     bool     `json:"importanceExplicit,omitempty"`
	UrgencyExplicit        bool     `json:"urgencyExplicit,omitempty"`
	Quadrant               int      `json:"quadrant"`
	QuadrantRecommendation string   `json:"quadrantRecommendation"`

	Completed   bool   `json:"completed"`
	CompletedAt string `json:"completedAt"`

	CategoryID string   `json:"categoryId"`
	Tags       []string `json:"tags"`

	ReminderEnabled  bool           `json:"reminderEnabled"`
	ReminderDate     string         `json:"reminderDate"`
	ReminderTime     string         `json:"reminderTime"`
	ReminderDateTime string         `json:"reminderDateTime"`
	ReminderStatus   ReminderStatus `json:"reminderStatus"`

	RecurrenceEnabled    bool             `json:"recurrenceEnabled"`
	RecurrenceType       RecurrenceType   `json:"recurrenceType"`
	RecurrenceInterval   int              `json:"recurrenceInterval"`
	RecurrenceWeekdays   []int            `json:"recurrenceWeekdays"`
	RecurrenceEndDate    string           `json:"recurrenceEndDate"`
	RecurrenceSeriesID   string           `json:"recurrenceSeriesId"`
	RecurrenceOccurrence int              `json:"recurrenceOccurrence"`
	RecurrenceStatus     RecurrenceStatus `json:"recurrenceStatus"`

	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// Clone returns a deep copy of the task.
func (t *Task) Clone() *Task {
	if t == nil {
		return nil
	}
	c := *t
	c.Tags = slices.Clone(t.Tags)
	c.RecurrenceWeekdays = slices.Clone(t.RecurrenceWeekdays)
	if t.ImportanceScore != nil {
		v := *t.ImportanceScore
		c.ImportanceScore = &v
	}
	if t.UrgencyScore != nil {
		v := *t.UrgencyScore
		c.UrgencyScore = &v
	}
	return &c
}

// DueInstant returns the due instant, preferring the discrete date and clock.
func (t *Task) DueInstant() (time.Time, bool) {
	if t.DueDate != "" {
		if due, ok := datetime.CombineOr(t.DueDate, t.DueTime, datetime.EndOfDay); ok {
			return due, true
		}
	}
	return datetime.ParseInstant(t.DueDateTime)
}

// ReminderInstant returns the reminder instant when the reminder is enabled.
func (t *Task) ReminderInstant() (time.Time, bool) {
	if !t.ReminderEnabled {
		return time.Time{}, false
	}
	if at, ok := datetime.Combine(t.ReminderDate, t.ReminderTime); ok {
		return at, true
	}
	return datetime.ParseInstant(t.ReminderDateTime)
}

// HasTag reports whether the task carries tag.
func (t *Task) HasTag(tag string) bool {
	return slices.Contains(t.Tags, tag)
}

// Category groups tasks.
type Category struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Color     string `json:"color"`
	Icon      string `json:"icon"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// Category presentation defaults.
const UnnamedCategory = "未命名分类"

// ColorOptions is the category color palette. The first entry is the fallback.
var ColorOptions = []string{
	"#6366F1",
	"#F97316",
	"#22C55E",
	"#EC4899",
	"#0EA5E9",
	"#FACC15",
	"#10B981",
	"#8B5CF6",
}

// IconOptions is the category icon set. The first entry is the fallback.
var IconOptions = []string{"📚", "💼", "🏡", "🧠", "📈", "🛠️", "💡", "🎯", "📝", "✅"}

// DefaultCategories returns the categories seeded into an empty store.
func DefaultCategories(now time.Time) []Category {
	ts := datetime.FormatInstant(now)
	return []Category{
		{ID: "study", Name: "学习", Color: "#6366F1", Icon: "📚", CreatedAt: ts, UpdatedAt: ts},
		{ID: "work", Name: "工作", Color: "#F97316", Icon: "💼", CreatedAt: ts, UpdatedAt: ts},
		{ID: "life", Name: "生活", Color: "#22C55E", Icon: "🏡", CreatedAt: ts, UpdatedAt: ts},
	}
}

// FindCategory returns the category with id, or nil.
func FindCategory(categories []Category, id string) *Category {
	for i := range categories {
		if categories[i].ID == id {
			return &categories[i]
		}
	}
	return nil
}
