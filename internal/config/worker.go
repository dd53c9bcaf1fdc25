package config

import (
	"errors"
	"time"
)

// ReminderConfig configures reminder delivery and the worker schedule.
type ReminderConfig struct {
	// TemplateID is the message template reminders are rendered into.
	TemplateID string `env:"QUADRANT_REMINDER_TEMPLATE_ID"`
	// Page is the landing page attached to delivered reminders.
	Page string `env:"QUADRANT_REMINDER_PAGE" default:"pages/index/index"`
	// WebhookURL receives reminders as JSON. Empty logs them instead.
	WebhookURL string `env:"QUADRANT_REMINDER_WEBHOOK_URL"`
	// Schedule is a cron expression with a seconds field.
	Schedule string `env:"QUADRANT_REMINDER_SCHEDULE" default:"0 * * * * *"`
	// Timeout bounds one worker pass, delivery included.
	Timeout time.Duration `env:"QUADRANT_REMINDER_TIMEOUT" default:"30s"`
}

// Validate checks the worker settings.
func (c *ReminderConfig) Validate() error {
	if c.Schedule == "" {
		return errors.New("QUADRANT_REMINDER_SCHEDULE is required")
	}
	if c.Timeout <= 0 {
		return errors.New("QUADRANT_REMINDER_TIMEOUT must be positive")
	}
	return nil
}
