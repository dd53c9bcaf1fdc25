package domain

import (
	"time"

	"github.com/rezkam/quadrant/internal/datetime"
)

// TaskPatch is a partial task update. A nil field is left untouched; a non-nil
// field replaces the stored value, including with its zero value.
type TaskPatch struct {
	Title       *string
	Description *string

	DueDate     *string
	DueTime     *string
	DueDateTime *string

	Priority        *Priority
	ImportanceScore *int
	UrgencyScore    *int

	Completed   *bool
	CompletedAt *string

	CategoryID *string
	Tags       *[]string

	ReminderEnabled  *bool
	ReminderDate     *string
	ReminderTime     *string
	ReminderDateTime *string
	ReminderStatus   *ReminderStatus

	RecurrenceEnabled  *bool
	RecurrenceType     *RecurrenceType
	RecurrenceInterval *int
	RecurrenceWeekdays *[]int
	RecurrenceEndDate  *string
}

// IsEmpty reports whether the patch changes nothing.
func (p TaskPatch) IsEmpty() bool {
	return p == TaskPatch{}
}

func (p TaskPatch) touchesDue() bool {
	return p.DueDate != nil || p.DueTime != nil || p.DueDateTime != nil
}

func (p TaskPatch) touchesReminder() bool {
	return p.ReminderEnabled != nil || p.ReminderDate != nil || p.ReminderTime != nil || p.ReminderDateTime != nil
}

// Apply merges the patch onto a copy of task and returns the copy. The result
// is not normalized.
//
// Completion is coupled to its timestamp: a false to true transition stamps
// CompletedAt with the supplied value when parseable, otherwise now; a
// transition to false clears it. Derived values that the patch invalidates
// (the due instant, inferred scores, reminder delivery status) are cleared so
// normalization recomputes them.
func (p TaskPatch) Apply(task *Task, now time.Time) *Task {
	out := task.Clone()

	setString(&out.Title, p.Title)
	setString(&out.Description, p.Description)
	setString(&out.CategoryID, p.CategoryID)
	if p.Tags != nil {
		out.Tags = append([]string(nil), (*p.Tags)...)
	}

	if p.touchesDue() {
		setString(&out.DueDate, p.DueDate)
		setString(&out.DueTime, p.DueTime)
		if p.DueDateTime != nil {
			out.DueDateTime = *p.DueDateTime
			if p.DueDate == nil && p.DueTime == nil {
				out.DueDate, out.DueTime = "", ""
			}
		} else {
			out.DueDateTime = ""
		}
		if p.UrgencyScore == nil && !out.UrgencyExplicit {
			out.UrgencyScore = nil
		}
	}

	if p.Priority != nil {
		out.Priority = *p.Priority
		if p.ImportanceScore == nil && !out.ImportanceExplicit {
			out.ImportanceScore = nil
		}
	}
	if p.ImportanceScore != nil {
		v := *p.ImportanceScore
		out.ImportanceScore = &v
		out.ImportanceExplicit = true
	}
	if p.UrgencyScore != nil {
		v := *p.UrgencyScore
		out.UrgencyScore = &v
		out.UrgencyExplicit = true
	}

	p.applyCompletion(task, out, now)

	if p.touchesReminder() {
		if p.ReminderEnabled != nil {
			out.ReminderEnabled = *p.ReminderEnabled
		}
		setString(&out.ReminderDate, p.ReminderDate)
		setString(&out.ReminderTime, p.ReminderTime)
		if p.ReminderDateTime != nil {
			out.ReminderDateTime = *p.ReminderDateTime
			if p.ReminderDate == nil && p.ReminderTime == nil {
				out.ReminderDate, out.ReminderTime = "", ""
			}
		} else {
			out.ReminderDateTime = ""
		}
		if p.ReminderStatus == nil {
			out.ReminderStatus = ""
		}
	}
	if p.ReminderStatus != nil {
		out.ReminderStatus = *p.ReminderStatus
	}

	if p.RecurrenceEnabled != nil {
		out.RecurrenceEnabled = *p.RecurrenceEnabled
	}
	if p.RecurrenceType != nil {
		out.RecurrenceType = *p.RecurrenceType
	}
	if p.RecurrenceInterval != nil {
		out.RecurrenceInterval = *p.RecurrenceInterval
	}
	if p.RecurrenceWeekdays != nil {
		out.RecurrenceWeekdays = append([]int(nil), (*p.RecurrenceWeekdays)...)
	}
	setString(&out.RecurrenceEndDate, p.RecurrenceEndDate)

	out.UpdatedAt = datetime.FormatInstant(now)
	return out
}

func (p TaskPatch) applyCompletion(prev, out *Task, now time.Time) {
	explicit := ""
	if p.CompletedAt != nil {
		explicit = datetime.CanonicalInstant(*p.CompletedAt)
	}

	switch {
	case p.Completed != nil && *p.Completed && !prev.Completed:
		out.Completed = true
		out.CompletedAt = explicit
		if out.CompletedAt == "" {
			out.CompletedAt = datetime.FormatInstant(now)
		}
	case p.Completed != nil && !*p.Completed:
		out.Completed = false
		out.CompletedAt = ""
	case out.Completed && explicit != "":
		out.CompletedAt = explicit
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
