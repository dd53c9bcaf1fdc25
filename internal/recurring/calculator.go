package recurring

import (
	"time"

	"github.com/rezkam/quadrant/internal/domain"
)

// Rule is the recurrence configuration shared by every occurrence of a series.
type Rule struct {
	Type     domain.RecurrenceType
	Interval int
	Weekdays []int  // Sunday=0; used by weekly and custom
	EndDate  string // YYYY-MM-DD, empty = open ended
}

// RuleOf extracts the recurrence rule carried by a task.
func RuleOf(t *domain.Task) Rule {
	return Rule{
		Type:     t.RecurrenceType,
		Interval: t.RecurrenceInterval,
		Weekdays: t.RecurrenceWeekdays,
		EndDate:  t.RecurrenceEndDate,
	}
}

func (r Rule) interval() int {
	if r.Interval < 1 {
		return 1
	}
	return r.Interval
}

// PatternCalculator calculates occurrence instants for a recurrence type.
type PatternCalculator interface {
	// NextOccurrence returns the first occurrence after the given instant.
	// Returns nil if there is no next occurrence.
	NextOccurrence(after time.Time, rule Rule) *time.Time

	// OccurrencesBetween returns all occurrences within [start, end], starting at start.
	OccurrencesBetween(start, end time.Time, rule Rule) []time.Time
}

// GetCalculator returns the calculator for the given recurrence type, or nil
// when the type has no computable next occurrence.
func GetCalculator(rt domain.RecurrenceType) PatternCalculator {
	switch rt {
	case domain.RecurrenceDaily:
		return &DailyCalculator{}
	case domain.RecurrenceWeekly, domain.RecurrenceCustom:
		return &WeeklyCalculator{}
	case domain.RecurrenceMonthly:
		return &MonthlyCalculator{}
	default:
		return nil
	}
}

// Next computes the occurrence following after under rule, or false when the
// rule cannot produce one.
func Next(after time.Time, rule Rule) (time.Time, bool) {
	calc := GetCalculator(rule.Type)
	if calc == nil {
		return time.Time{}, false
	}
	next := calc.NextOccurrence(after, rule)
	if next == nil {
		return time.Time{}, false
	}
	return *next, true
}

func between(start, end time.Time, next func(time.Time) *time.Time) []time.Time {
	var occurrences []time.Time
	current := start

	for !current.After(end) {
		occurrences = append(occurrences, current)
		n := next(current)
		if n == nil || !n.After(current) {
			break
		}
		current = *n
	}

	return occurrences
}
