// Package datetime converts between calendar (date, clock) pairs in the host's
// local calendar and the absolute instants persisted on tasks.
package datetime

import (
	"strings"
	"time"
)

const (
	// DateLayout is the calendar date format (YYYY-MM-DD).
	DateLayout = "2006-01-02"
	// ClockLayout is the time-of-day format (HH:MM).
	ClockLayout = "15:04"
	// InstantLayout is the persisted instant format: ISO-8601 UTC with milliseconds.
	InstantLayout = "2006-01-02T15:04:05.000Z"

	// StartOfDay is the clock used when Combine receives no time.
	StartOfDay = "00:00"
	// EndOfDay is the default due clock for tasks that only carry a date.
	EndOfDay = "23:59"
)

// Accepted instant layouts, tried in order. Layouts without a zone are read in
// the local calendar.
var instantLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.000",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	DateLayout,
}

// ParseDate parses a strict YYYY-MM-DD calendar date in the local calendar.
// Dates that do not exist, such as 2024-02-30, are rejected.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if len(s) != len(DateLayout) {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(DateLayout, s, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// ParseClock parses a strict HH:MM clock (00-23:00-59) and returns hour and minute.
func ParseClock(s string) (hour, minute int, ok bool) {
	s = strings.TrimSpace(s)
	if len(s) != len(ClockLayout) {
		return 0, 0, false
	}
	t, err := time.Parse(ClockLayout, s)
	if err != nil {
		return 0, 0, false
	}
	return t.Hour(), t.Minute(), true
}

// ValidDate reports whether s is an existing YYYY-MM-DD date.
func ValidDate(s string) bool {
	_, ok := ParseDate(s)
	return ok
}

// ValidClock reports whether s is a HH:MM clock.
func ValidClock(s string) bool {
	_, _, ok := ParseClock(s)
	return ok
}

// Combine joins a date and a clock into a local instant. An empty clock means
// midnight. It fails when either part is malformed.
func Combine(date, clock string) (time.Time, bool) {
	return CombineOr(date, clock, StartOfDay)
}

// CombineOr is Combine with a caller supplied default clock for an empty clock.
func CombineOr(date, clock, defaultClock string) (time.Time, bool) {
	day, ok := ParseDate(date)
	if !ok {
		return time.Time{}, false
	}
	if strings.TrimSpace(clock) == "" {
		clock = defaultClock
	}
	hour, minute, ok := ParseClock(clock)
	if !ok {
		return time.Time{}, false
	}
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, time.Local), true
}

// Split returns the local date and clock of t. The zero time splits to ("", "").
func Split(t time.Time) (date, clock string) {
	if t.IsZero() {
		return "", ""
	}
	local := t.In(time.Local)
	return local.Format(DateLayout), local.Format(ClockLayout)
}

// SplitInstant parses an instant string and splits it. Invalid or empty input
// returns ("", "").
func SplitInstant(s string) (date, clock string) {
	t, ok := ParseInstant(s)
	if !ok {
		return "", ""
	}
	return Split(t)
}

// FormatInstant renders t in the persisted instant format.
func FormatInstant(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(InstantLayout)
}

// ParseInstant parses a persisted or user supplied instant.
func ParseInstant(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range instantLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// CanonicalInstant reformats s into the persisted instant format, or returns
// "" when s is not an instant.
func CanonicalInstant(s string) string {
	t, ok := ParseInstant(s)
	if !ok {
		return ""
	}
	return FormatInstant(t)
}

// CombineInstant combines date and clock and formats the result, or returns "".
func CombineInstant(date, clock string) string {
	t, ok := Combine(date, clock)
	if !ok {
		return ""
	}
	return FormatInstant(t)
}

// Weekday returns the weekday (Sunday=0) of a YYYY-MM-DD date.
func Weekday(date string) (int, bool) {
	t, ok := ParseDate(date)
	if !ok {
		return 0, false
	}
	return int(t.Weekday()), true
}

// DaysIn returns the number of days in the given month.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// StartOfDayOf truncates t to local midnight.
func StartOfDayOf(t time.Time) time.Time {
	local := t.In(time.Local)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.Local)
}
