package todo

import (
	"context"
	"time"

	"github.com/rezkam/quadrant/internal/datetime"
	"github.com/rezkam/quadrant/internal/domain"
	"github.com/rezkam/quadrant/internal/quadrant"
)

// Stats summarizes completions over a range of days.
type Stats struct {
	Range domain.StatsRange
	Start time.Time
	End   time.Time

	// Completed counts tasks whose completion day falls in the range.
	Completed int
	// Streak counts consecutive days with a completion, ending today.
	Streak int
	// BusiestDay is the date in the range with the most completions, the
	// later one on ties. Empty when nothing was completed in the range.
	BusiestDay   string
	BusiestCount int

	// Quadrants counts incomplete tasks per quadrant.
	Quadrants quadrant.Stats
}

// Stats computes completion statistics over every stored task.
func (s *Service) Stats(ctx context.Context, r domain.StatsRange) (*Stats, error) {
	tasks, err := s.ListTasks(ctx)
	if err != nil {
		return nil, err
	}
	stats := ComputeStats(tasks, r, s.config.Now())
	return &stats, nil
}

// ComputeStats derives Stats for tasks as of now. An unknown range is
// treated as a week.
func ComputeStats(tasks []*domain.Task, r domain.StatsRange, now time.Time) Stats {
	if r != domain.RangeToday && r != domain.RangeMonth {
		r = domain.RangeWeek
	}
	start, end := RangeBounds(r, now)
	stats := Stats{
		Range:     r,
		Start:     start,
		End:       end,
		Quadrants: quadrant.Summarize(tasks),
	}

	days := make(map[string]int)
	perDay := make(map[string]int)
	for _, t := range tasks {
		day, ok := completionDay(t)
		if !ok {
			continue
		}
		key := dateKey(day)
		days[key]++
		if day.Before(start) || day.After(end) {
			continue
		}
		stats.Completed++
		perDay[key]++
	}

	for key, count := range perDay {
		if count > stats.BusiestCount || (count == stats.BusiestCount && key > stats.BusiestDay) {
			stats.BusiestDay = key
			stats.BusiestCount = count
		}
	}

	for day := datetime.StartOfDayOf(now); days[dateKey(day)] > 0; day = day.AddDate(0, 0, -1) {
		stats.Streak++
	}
	return stats
}

// RangeBounds returns the first and last instant of the range containing
// now. Weeks run Monday to Sunday.
func RangeBounds(r domain.StatsRange, now time.Time) (start, end time.Time) {
	today := datetime.StartOfDayOf(now)
	switch r {
	case domain.RangeToday:
		return today, endOfDay(today)
	case domain.RangeMonth:
		start = time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.Local)
		last := time.Date(today.Year(), today.Month()+1, 0, 0, 0, 0, 0, time.Local)
		return start, endOfDay(last)
	default:
		offset := (int(today.Weekday()) + 6) % 7
		start = today.AddDate(0, 0, -offset)
		return start, endOfDay(start.AddDate(0, 0, 6))
	}
}

// HighlightLabel describes a day's completion count.
func HighlightLabel(count int) string {
	switch {
	case count >= 5:
		return "🚀 能量满格"
	case count >= 3:
		return "💪 高效一天"
	case count >= 1:
		return "🌿 温柔推进"
	default:
		return ""
	}
}

// completionDay returns the local day a completed task was finished on.
// The completion stamp falls back to the update stamp and then to the due
// instant; when none parse, the update and creation stamps are tried.
func completionDay(t *domain.Task) (time.Time, bool) {
	if !t.Completed {
		return time.Time{}, false
	}

	candidates := [][]string{
		{t.CompletedAt, t.UpdatedAt, t.DueDateTime},
		{t.UpdatedAt, t.CreatedAt},
	}
	for _, chain := range candidates {
		if at, ok := datetime.ParseInstant(firstNonEmpty(chain...)); ok {
			return datetime.StartOfDayOf(at), true
		}
	}
	return time.Time{}, false
}

func endOfDay(day time.Time) time.Time {
	return day.AddDate(0, 0, 1).Add(-time.Millisecond)
}

func dateKey(t time.Time) string {
	key, _ := datetime.Split(t)
	return key
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
