// Package quadrant scores tasks on importance and urgency and places them in
// one of the four quadrants of the importance/urgency plane.
package quadrant

import (
	"math"
	"time"

	"github.com/rezkam/quadrant/internal/domain"
	"github.com/rezkam/quadrant/internal/ptr"
)

// DefaultThreshold splits each axis; a score at or above it counts as high.
const DefaultThreshold = 50

// Quadrants, numbered as stored on tasks.
const (
	DoFirst  = 1 // important and urgent
	Schedule = 2 // important, not urgent
	Delegate = 3 // urgent, not important
	Drop     = 4 // neither
)

// Inferred scores.
const (
	importanceHigh   = 85
	importanceMedium = 60
	importanceLow    = 35

	urgencyNoDue = 40
)

// urgencyBands maps hours until due to an urgency score. Overdue tasks have a
// negative distance and land in the first band.
var urgencyBands = []struct {
	maxHours float64
	score    int
}{
	{12, 90},
	{24, 75},
	{72, 60},
	{168, 45},
}

const urgencyFar = 30

var labels = map[int]string{
	DoFirst:  "立即处理",
	Schedule: "计划安排",
	Delegate: "尽量委托",
	Drop:     "可以舍弃",
}

// Clamp rounds v and limits it to 0-100.
func Clamp(v float64) int {
	if math.IsNaN(v) {
		return 0
	}
	return int(math.Round(math.Max(0, math.Min(100, v))))
}

// Importance returns the explicit score when set, otherwise infers it from priority.
func Importance(explicit *int, priority domain.Priority) int {
	if explicit != nil {
		return Clamp(float64(*explicit))
	}
	switch priority {
	case domain.PriorityHigh:
		return importanceHigh
	case domain.PriorityLow:
		return importanceLow
	default:
		return importanceMedium
	}
}

// Urgency returns the explicit score when set, otherwise infers it from the
// time left until due.
func Urgency(explicit *int, due time.Time, hasDue bool, now time.Time) int {
	if explicit != nil {
		return Clamp(float64(*explicit))
	}
	if !hasDue {
		return urgencyNoDue
	}
	hours := due.Sub(now).Hours()
	for _, band := range urgencyBands {
		if hours <= band.maxHours {
			return band.score
		}
	}
	return urgencyFar
}

// Classify places a score pair into a quadrant. Both comparisons are >= threshold.
func Classify(importance, urgency, threshold int) int {
	important := importance >= threshold
	urgent := urgency >= threshold
	switch {
	case important && urgent:
		return DoFirst
	case important:
		return Schedule
	case urgent:
		return Delegate
	default:
		return Drop
	}
}

// Recommendation returns the advisory label for a quadrant.
func Recommendation(q int) string {
	return labels[q]
}

// Score fills the importance, urgency, quadrant and recommendation fields of
// task. Scores flagged explicit are kept; the others are inferred again from
// the priority and the time left until due, so urgency rises as due nears.
func Score(task *domain.Task, now time.Time) {
	task.ImportanceExplicit = task.ImportanceExplicit && task.ImportanceScore != nil
	task.UrgencyExplicit = task.UrgencyExplicit && task.UrgencyScore != nil

	due, hasDue := task.DueInstant()
	importance := Importance(explicit(task.ImportanceScore, task.ImportanceExplicit), task.Priority)
	urgency := Urgency(explicit(task.UrgencyScore, task.UrgencyExplicit), due, hasDue, now)

	task.ImportanceScore = &importance
	task.UrgencyScore = &urgency
	task.Quadrant = Classify(importance, urgency, DefaultThreshold)
	task.QuadrantRecommendation = Recommendation(task.Quadrant)
}

func explicit(score *int, set bool) *int {
	if !set {
		return nil
	}
	return score
}

// Stats counts active tasks per quadrant.
type Stats struct {
	Total  int
	Counts map[int]int
}

// Summarize counts incomplete tasks by quadrant.
func Summarize(tasks []*domain.Task) Stats {
	stats := Stats{Counts: map[int]int{DoFirst: 0, Schedule: 0, Delegate: 0, Drop: 0}}
	for _, task := range tasks {
		if task.Completed {
			continue
		}
		stats.Counts[quadrantOf(task)]++
		stats.Total++
	}
	return stats
}

// Buckets groups incomplete tasks by quadrant, preserving input order.
func Buckets(tasks []*domain.Task) map[int][]*domain.Task {
	buckets := map[int][]*domain.Task{DoFirst: {}, Schedule: {}, Delegate: {}, Drop: {}}
	for _, task := range tasks {
		if task.Completed {
			continue
		}
		q := quadrantOf(task)
		buckets[q] = append(buckets[q], task)
	}
	return buckets
}

// quadrantOf trusts the stored quadrant and reclassifies unscored records.
func quadrantOf(task *domain.Task) int {
	if task.Quadrant >= DoFirst && task.Quadrant <= Drop {
		return task.Quadrant
	}
	return Classify(ptr.Deref(task.ImportanceScore, 0), ptr.Deref(task.UrgencyScore, 0), DefaultThreshold)
}
