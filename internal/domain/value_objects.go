package domain

import (
	"fmt"
	"slices"
	"strings"
)

// NewPriority validates and creates a Priority. Empty input means medium.
func NewPriority(s string) (Priority, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return PriorityMedium, nil
	}

	priority := Priority(strings.ToLower(s))

	switch priority {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return priority, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrInvalidPriority, s)
	}
}

// NewRecurrenceType validates and creates a RecurrenceType.
func NewRecurrenceType(s string) (RecurrenceType, error) {
	rt := RecurrenceType(strings.ToLower(strings.TrimSpace(s)))

	switch rt {
	case RecurrenceNone, RecurrenceDaily, RecurrenceWeekly, RecurrenceMonthly, RecurrenceCustom:
		return rt, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrInvalidRecurrenceType, s)
	}
}

// NormalizeWeekdays drops values outside 0-6, removes duplicates and sorts.
// The result is never nil.
func NormalizeWeekdays(days []int) []int {
	out := make([]int, 0, len(days))
	for _, d := range days {
		if d < 0 || d > 6 || slices.Contains(out, d) {
			continue
		}
		out = append(out, d)
	}
	slices.Sort(out)
	return out
}

// NormalizeTags trims tags and removes empty and duplicate entries, keeping
// first-seen order. The result is never nil.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" || slices.Contains(out, tag) {
			continue
		}
		out = append(out, tag)
	}
	return out
}

// NewScore validates a 0-100 score.
func NewScore(v int) (int, error) {
	if v < 0 || v > 100 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidScore, v)
	}
	return v, nil
}
