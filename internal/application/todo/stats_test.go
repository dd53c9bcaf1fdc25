package todo

import (
	"context"
	"testing"
	"time"

	"github.com/rezkam/quadrant/internal/datetime"
	"github.com/rezkam/quadrant/internal/domain"
	"github.com/rezkam/quadrant/internal/quadrant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completedOn(day, hour int) *domain.Task {
	at := time.Date(2024, 1, day, hour, 0, 0, 0, time.Local)
	return &domain.Task{Completed: true, CompletedAt: datetime.FormatInstant(at)}
}

func TestRangeBounds(t *testing.T) {
	now := baseNow

	start, end := RangeBounds(domain.RangeToday, now)
	assert.Equal(t, time.Date(2024, 1, 10, 0, 0, 0, 0, time.Local), start)
	assert.Equal(t, "2024-01-10", dateKey(end))

	start, end = RangeBounds(domain.RangeWeek, now)
	assert.Equal(t, time.Date(2024, 1, 8, 0, 0, 0, 0, time.Local), start)
	assert.Equal(t, "2024-01-14", dateKey(end))

	// Sunday belongs to the week that started the previous Monday
	start, _ = RangeBounds(domain.RangeWeek, time.Date(2024, 1, 14, 20, 0, 0, 0, time.Local))
	assert.Equal(t, time.Date(2024, 1, 8, 0, 0, 0, 0, time.Local), start)

	start, end = RangeBounds(domain.RangeMonth, time.Date(2024, 2, 10, 0, 0, 0, 0, time.Local))
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.Local), start)
	assert.Equal(t, "2024-02-29", dateKey(end))
}

func TestComputeStats(t *testing.T) {
	tasks := []*domain.Task{
		completedOn(10, 8),
		completedOn(10, 9),
		completedOn(9, 15),
		completedOn(8, 7),
		completedOn(8, 22),
		completedOn(5, 12),
		{Title: "open", Quadrant: quadrant.DoFirst},
	}

	tests := []struct {
		name         string
		r            domain.StatsRange
		completed    int
		busiestDay   string
		busiestCount int
	}{
		{"today", domain.RangeToday, 2, "2024-01-10", 2},
		{"week picks the later day on ties", domain.RangeWeek, 5, "2024-01-10", 2},
		{"month", domain.RangeMonth, 6, "2024-01-10", 2},
		{"unknown range is a week", "fortnight", 5, "2024-01-10", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stats := ComputeStats(tasks, tt.r, baseNow)
			assert.Equal(t, tt.completed, stats.Completed)
			assert.Equal(t, tt.busiestDay, stats.BusiestDay)
			assert.Equal(t, tt.busiestCount, stats.BusiestCount)
			assert.Equal(t, 3, stats.Streak)
			assert.Equal(t, 1, stats.Quadrants.Counts[quadrant.DoFirst])
		})
	}
}

func TestComputeStats_StreakNeedsToday(t *testing.T) {
	stats := ComputeStats([]*domain.Task{completedOn(9, 10), completedOn(8, 10)}, domain.RangeWeek, baseNow)
	assert.Zero(t, stats.Streak)
	assert.Equal(t, 2, stats.Completed)
}

func TestCompletionDay_Fallbacks(t *testing.T) {
	updated := datetime.FormatInstant(time.Date(2024, 1, 3, 12, 0, 0, 0, time.Local))
	created := datetime.FormatInstant(time.Date(2024, 1, 1, 12, 0, 0, 0, time.Local))

	tests := []struct {
		name     string
		task     *domain.Task
		expected string
		ok       bool
	}{
		{"not completed", &domain.Task{UpdatedAt: updated}, "", false},
		{"update stamp", &domain.Task{Completed: true, UpdatedAt: updated}, "2024-01-03", true},
		{"unparseable first chain falls back", &domain.Task{Completed: true, CompletedAt: "soon", CreatedAt: created}, "2024-01-01", true},
		{"nothing parses", &domain.Task{Completed: true}, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			day, ok := completionDay(tt.task)
			assert.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, tt.expected, dateKey(day))
			}
		})
	}
}

func TestHighlightLabel(t *testing.T) {
	assert.Equal(t, "", HighlightLabel(0))
	assert.Equal(t, "🌿 温柔推进", HighlightLabel(2))
	assert.Equal(t, "💪 高效一天", HighlightLabel(3))
	assert.Equal(t, "🚀 能量满格", HighlightLabel(7))
}

func TestServiceStats(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, newMemoryRepo())

	_, err := svc.CreateTask(ctx, &domain.Task{Title: "Done", Completed: true})
	require.NoError(t, err)

	stats, err := svc.Stats(ctx, domain.RangeToday)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Completed)
	assert.Equal(t, 1, stats.Streak)
}
