package recurring

import (
	"time"

	"github.com/rezkam/quadrant/internal/datetime"
)

// DailyCalculator generates daily recurrences.
type DailyCalculator struct{}

func (c *DailyCalculator) NextOccurrence(after time.Time, rule Rule) *time.Time {
	next := after.In(time.Local).AddDate(0, 0, rule.interval())
	return &next
}

func (c *DailyCalculator) OccurrencesBetween(start, end time.Time, rule Rule) []time.Time {
	return between(start, end, func(t time.Time) *time.Time { return c.NextOccurrence(t, rule) })
}

// WeeklyCalculator generates recurrences on a set of weekdays every
// interval weeks. It serves both the weekly and custom types.
type WeeklyCalculator struct{}

// NextOccurrence picks the smallest configured weekday after the reference
// weekday in the same week. Otherwise it wraps to the first configured weekday
// interval weeks later, counting from that weekday of the reference week.
func (c *WeeklyCalculator) NextOccurrence(after time.Time, rule Rule) *time.Time {
	ref := after.In(time.Local)
	current := int(ref.Weekday())

	weekdays := rule.Weekdays
	if len(weekdays) == 0 {
		weekdays = []int{current}
	}

	for _, wd := range weekdays {
		if wd > current {
			next := ref.AddDate(0, 0, wd-current)
			return &next
		}
	}

	first := weekdays[0]
	next := ref.AddDate(0, 0, rule.interval()*7-(current-first))
	return &next
}

func (c *WeeklyCalculator) OccurrencesBetween(start, end time.Time, rule Rule) []time.Time {
	return between(start, end, func(t time.Time) *time.Time { return c.NextOccurrence(t, rule) })
}

// MonthlyCalculator generates monthly recurrences on the reference
// day-of-month, clamped to the last day of shorter months.
type MonthlyCalculator struct{}

func (c *MonthlyCalculator) NextOccurrence(after time.Time, rule Rule) *time.Time {
	ref := after.In(time.Local)
	target := time.Date(ref.Year(), ref.Month()+time.Month(rule.interval()), 1, 0, 0, 0, 0, time.Local)

	day := min(ref.Day(), datetime.DaysIn(target.Year(), target.Month()))
	next := time.Date(target.Year(), target.Month(), day, ref.Hour(), ref.Minute(), 0, 0, time.Local)
	return &next
}

func (c *MonthlyCalculator) OccurrencesBetween(start, end time.Time, rule Rule) []time.Time {
	return between(start, end, func(t time.Time) *time.Time { return c.NextOccurrence(t, rule) })
}
