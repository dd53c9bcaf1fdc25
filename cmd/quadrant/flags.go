package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rezkam/quadrant/internal/domain"
)

// taskFlags are the editable task fields shared by add, update and validate.
type taskFlags struct {
	title       string
	description string
	dueDate     string
	dueTime     string
	priority    string
	importance  int
	urgency     int
	category    string
	tags        []string

	remind       bool
	reminderDate string
	reminderTime string

	repeat   string
	interval int
	weekdays []int
	endDate  string
}

func (f *taskFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVarP(&f.title, "title", "t", "", "task title")
	fs.StringVarP(&f.description, "description", "d", "", "task description")
	fs.StringVar(&f.dueDate, "due", "", "due date (YYYY-MM-DD)")
	fs.StringVar(&f.dueTime, "at", "", "due time (HH:mm)")
	fs.StringVarP(&f.priority, "priority", "p", "", "priority (high, medium, low)")
	fs.IntVar(&f.importance, "importance", 0, "importance score 0-100")
	fs.IntVar(&f.urgency, "urgency", 0, "urgency score 0-100")
	fs.StringVarP(&f.category, "category", "c", "", "category id or name")
	fs.StringSliceVar(&f.tags, "tag", nil, "tag (repeatable)")
	fs.BoolVar(&f.remind, "remind", false, "enable the reminder")
	fs.StringVar(&f.reminderDate, "remind-date", "", "reminder date (YYYY-MM-DD)")
	fs.StringVar(&f.reminderTime, "remind-at", "", "reminder time (HH:mm)")
	fs.StringVar(&f.repeat, "repeat", "", "recurrence (none, daily, weekly, monthly, custom)")
	fs.IntVar(&f.interval, "every", 1, "recurrence interval")
	fs.IntSliceVar(&f.weekdays, "weekdays", nil, "weekdays for weekly and custom rules, Sunday=0")
	fs.StringVar(&f.endDate, "until", "", "recurrence end date (YYYY-MM-DD)")
}

// task builds a new task from every flag, changed or not.
func (f *taskFlags) task(cmd *cobra.Command, categories []domain.Category) (*domain.Task, error) {
	t := &domain.Task{
		Title:              f.title,
		Description:        f.description,
		DueDate:            f.dueDate,
		DueTime:            f.dueTime,
		Priority:           domain.Priority(strings.ToLower(f.priority)),
		Tags:               f.tags,
		ReminderEnabled:    f.remind || f.reminderDate != "" || f.reminderTime != "",
		ReminderDate:       f.reminderDate,
		ReminderTime:       f.reminderTime,
		RecurrenceInterval: f.interval,
		RecurrenceWeekdays: f.weekdays,
		RecurrenceEndDate:  f.endDate,
	}

	if cmd.Flags().Changed("importance") {
		t.ImportanceScore = &f.importance
	}
	if cmd.Flags().Changed("urgency") {
		t.UrgencyScore = &f.urgency
	}

	t.CategoryID = categories[0].ID
	if f.category != "" {
		c, err := resolveCategory(categories, f.category)
		if err != nil {
			return nil, err
		}
		t.CategoryID = c.ID
	}

	if f.repeat != "" {
		rt, err := domain.NewRecurrenceType(f.repeat)
		if err != nil {
			return nil, err
		}
		t.RecurrenceEnabled = rt != domain.RecurrenceNone
		t.RecurrenceType = rt
	}

	return t, nil
}

// patch builds an update from the flags the user actually passed.
func (f *taskFlags) patch(cmd *cobra.Command, categories []domain.Category) (domain.TaskPatch, error) {
	var p domain.TaskPatch
	changed := cmd.Flags().Changed

	if changed("title") {
		p.Title = &f.title
	}
	if changed("description") {
		p.Description = &f.description
	}
	if changed("due") {
		p.DueDate = &f.dueDate
	}
	if changed("at") {
		p.DueTime = &f.dueTime
	}
	if changed("priority") {
		priority, err := domain.NewPriority(f.priority)
		if err != nil {
			return p, err
		}
		p.Priority = &priority
	}
	if changed("importance") {
		p.ImportanceScore = &f.importance
	}
	if changed("urgency") {
		p.UrgencyScore = &f.urgency
	}
	if changed("category") {
		c, err := resolveCategory(categories, f.category)
		if err != nil {
			return p, err
		}
		p.CategoryID = &c.ID
	}
	if changed("tag") {
		p.Tags = &f.tags
	}

	if changed("remind") {
		p.ReminderEnabled = &f.remind
	}
	if changed("remind-date") {
		p.ReminderDate = &f.reminderDate
	}
	if changed("remind-at") {
		p.ReminderTime = &f.reminderTime
	}
	if (changed("remind-date") || changed("remind-at")) && !changed("remind") {
		enabled := true
		p.ReminderEnabled = &enabled
	}

	if changed("repeat") {
		rt, err := domain.NewRecurrenceType(f.repeat)
		if err != nil {
			return p, err
		}
		enabled := rt != domain.RecurrenceNone
		p.RecurrenceEnabled = &enabled
		p.RecurrenceType = &rt
	}
	if changed("every") {
		p.RecurrenceInterval = &f.interval
	}
	if changed("weekdays") {
		p.RecurrenceWeekdays = &f.weekdays
	}
	if changed("until") {
		p.RecurrenceEndDate = &f.endDate
	}

	return p, nil
}

func resolveCategory(categories []domain.Category, ref string) (*domain.Category, error) {
	ref = strings.TrimSpace(ref)
	if c := domain.FindCategory(categories, ref); c != nil {
		return c, nil
	}
	for i := range categories {
		if categories[i].Name == ref {
			return &categories[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrCategoryNotFound, ref)
}
