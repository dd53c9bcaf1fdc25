package domain

// Priority is the user assigned priority of a task.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Rank orders priorities for sorting, high first.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

// RecurrenceType is the repetition rule of a recurring series.
type RecurrenceType string

const (
	RecurrenceNone    RecurrenceType = "none"
	RecurrenceDaily   RecurrenceType = "daily"
	RecurrenceWeekly  RecurrenceType = "weekly"
	RecurrenceMonthly RecurrenceType = "monthly"
	RecurrenceCustom  RecurrenceType = "custom"
)

// UsesWeekdays reports whether the rule is driven by a weekday set.
func (r RecurrenceType) UsesWeekdays() bool {
	return r == RecurrenceWeekly || r == RecurrenceCustom
}

// ReminderStatus tracks the delivery state of a task reminder.
type ReminderStatus string

const (
	ReminderPending  ReminderStatus = "pending"
	ReminderDisabled ReminderStatus = "disabled"
	ReminderSent     ReminderStatus = "sent"
	ReminderFailed   ReminderStatus = "failed"
)

// RecurrenceStatus is the lifecycle state of a task's recurrence.
type RecurrenceStatus string

const (
	RecurrenceActive   RecurrenceStatus = "active"
	RecurrenceInactive RecurrenceStatus = "inactive"
)

// Field limits enforced by Validate.
const (
	MaxTitleLength       = 100
	MaxDescriptionLength = 500
)

// TaskSort selects the ordering applied by FindTasks.
type TaskSort string

const (
	SortByCreated  TaskSort = "created"
	SortByDue      TaskSort = "due"
	SortByPriority TaskSort = "priority"
)

// TaskQuery filters and orders a task listing.
//
// Common use cases:
//   - "Open work tasks": Completed=false, CategoryID=work
//   - "Search": Keyword matches title or description, case-insensitive
//   - "Upcoming": Sort=SortByDue, undated tasks last
type TaskQuery struct {
	Completed  *bool    // nil = any
	Keyword    string   // matched against title and description
	CategoryID string   // empty = any
	Tags       []string // task must carry every tag
	Quadrant   int      // 0 = any
	Sort       TaskSort // empty keeps storage order
}

// StatsRange selects the window used by completion statistics.
type StatsRange string

const (
	RangeToday StatsRange = "today"
	RangeWeek  StatsRange = "week"
	RangeMonth StatsRange = "month"
)
