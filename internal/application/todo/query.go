package todo

import (
	"cmp"
	"context"
	"slices"
	"strings"

	"github.com/rezkam/quadrant/internal/datetime"
	"github.com/rezkam/quadrant/internal/domain"
)

// FindTasks lists tasks matching q in the order q selects.
// Reconciliation runs first, as in ListTasks.
func (s *Service) FindTasks(ctx context.Context, q domain.TaskQuery) ([]*domain.Task, error) {
	tasks, err := s.ListTasks(ctx)
	if err != nil {
		return nil, err
	}

	keyword := strings.ToLower(strings.TrimSpace(q.Keyword))
	tags := domain.NormalizeTags(q.Tags)

	matched := tasks[:0]
	for _, t := range tasks {
		if q.Completed != nil && t.Completed != *q.Completed {
			continue
		}
		if q.CategoryID != "" && t.CategoryID != q.CategoryID {
			continue
		}
		if q.Quadrant != 0 && t.Quadrant != q.Quadrant {
			continue
		}
		if keyword != "" && !matchesKeyword(t, keyword) {
			continue
		}
		if !hasAllTags(t, tags) {
			continue
		}
		matched = append(matched, t)
	}

	sortTasks(matched, q.Sort)
	return matched, nil
}

func matchesKeyword(t *domain.Task, keyword string) bool {
	return strings.Contains(strings.ToLower(t.Title), keyword) ||
		strings.Contains(strings.ToLower(t.Description), keyword)
}

func hasAllTags(t *domain.Task, tags []string) bool {
	for _, tag := range tags {
		if !t.HasTag(tag) {
			return false
		}
	}
	return true
}

// sortTasks orders tasks in place. Created sorts newest first, due sorts
// soonest first with undated tasks last, priority sorts high first and then
// by due. Ties keep their stored order.
func sortTasks(tasks []*domain.Task, by domain.TaskSort) {
	switch by {
	case domain.SortByCreated:
		slices.SortStableFunc(tasks, func(a, b *domain.Task) int {
			return compareInstants(b.CreatedAt, a.CreatedAt)
		})
	case domain.SortByDue:
		slices.SortStableFunc(tasks, compareDue)
	case domain.SortByPriority:
		slices.SortStableFunc(tasks, func(a, b *domain.Task) int {
			if c := cmp.Compare(b.Priority.Rank(), a.Priority.Rank()); c != 0 {
				return c
			}
			return compareDue(a, b)
		})
	}
}

func compareDue(a, b *domain.Task) int {
	da, okA := a.DueInstant()
	db, okB := b.DueInstant()
	switch {
	case !okA && !okB:
		return 0
	case !okA:
		return 1
	case !okB:
		return -1
	default:
		return da.Compare(db)
	}
}

func compareInstants(a, b string) int {
	ta, okA := datetime.ParseInstant(a)
	tb, okB := datetime.ParseInstant(b)
	switch {
	case !okA && !okB:
		return 0
	case !okA:
		return -1
	case !okB:
		return 1
	default:
		return ta.Compare(tb)
	}
}
