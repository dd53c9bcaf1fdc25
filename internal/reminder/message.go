// Package reminder keeps the queue of scheduled task reminders and delivers
// the ones that fall due.
package reminder

import (
	"strings"

	"github.com/rezkam/quadrant/internal/domain"
)

// TargetPage is opened when the recipient taps a delivered reminder.
const TargetPage = "pages/index/index"

const (
	fieldLimit         = 20
	defaultTitle       = "任务提醒"
	defaultDescription = "请及时关注任务进度"
)

// Field is a single template value.
type Field struct {
	Value string `json:"value"`
}

// Message is the template payload keyed by template field name.
type Message map[string]Field

// TemplateConfigured reports whether id names a real message template rather
// than an unfilled placeholder.
func TemplateConfigured(id string) bool {
	return id != "" && !strings.HasPrefix(id, "请在此填写") && id != "YOUR_TEMPLATE_ID"
}

// BuildMessage renders the template payload for task.
func BuildMessage(task *domain.Task) Message {
	title := truncate(task.Title, fieldLimit)
	if title == "" {
		title = defaultTitle
	}

	description := task.Description
	if description == "" {
		description = defaultDescription
	}

	when := dateTimeLabel(task.ReminderDate, task.ReminderTime)
	if when == "" {
		when = dateTimeLabel(task.DueDate, task.DueTime)
	}

	return Message{
		"thing1": {Value: title},
		"time2":  {Value: when},
		"thing3": {Value: truncate(description, fieldLimit)},
	}
}

func dateTimeLabel(date, clock string) string {
	if date == "" {
		return ""
	}
	if clock == "" {
		return date
	}
	return date + " " + clock
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
