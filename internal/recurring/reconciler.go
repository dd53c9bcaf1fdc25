package recurring

import (
	"sort"
	"time"

	"github.com/rezkam/quadrant/internal/datetime"
	"github.com/rezkam/quadrant/internal/domain"
	"github.com/rezkam/quadrant/internal/normalize"
)

// MaxGeneratedPerPass bounds how many occurrences a single reconcile pass
// generates across all series.
const MaxGeneratedPerPass = 10

// Result describes what a reconcile pass did.
type Result struct {
	Changed   bool // any task was modified or added
	Generated int  // occurrences added across all series
}

// Reconciler keeps recurring series numbered and materialized.
type Reconciler struct {
	generator  *OccurrenceGenerator
	maxPerPass int
}

// NewReconciler creates a reconciler using generator for new occurrences.
func NewReconciler(generator *OccurrenceGenerator) *Reconciler {
	if generator == nil {
		generator = NewOccurrenceGenerator(nil)
	}
	return &Reconciler{generator: generator, maxPerPass: MaxGeneratedPerPass}
}

// Reconcile renumbers every series by due order and generates the
// occurrences that follow completed or overdue series ends. It returns a new
// collection: the input tasks (copied, in input order) followed by generated
// ones. Generated tasks are normalized against categories.
//
// A series stops growing when its next occurrence cannot be computed, falls
// after its end date or already exists. Series share the per-pass cap
// round-robin, one occurrence each per round; what the cap cuts off waits for
// a later pass.
func (r *Reconciler) Reconcile(tasks []*domain.Task, categories []domain.Category, now time.Time) ([]*domain.Task, Result) {
	out := make([]*domain.Task, 0, len(tasks))
	var res Result

	var order []string
	series := make(map[string][]*domain.Task)

	for _, src := range tasks {
		if src == nil {
			continue
		}
		t := src.Clone()
		out = append(out, t)

		if !t.RecurrenceEnabled {
			if t.RecurrenceStatus != domain.RecurrenceInactive {
				normalize.ResetRecurrence(t)
				res.Changed = true
			}
			continue
		}

		if t.RecurrenceSeriesID == "" {
			t.RecurrenceSeriesID = t.ID
			res.Changed = true
		}
		id := t.RecurrenceSeriesID
		if _, ok := series[id]; !ok {
			order = append(order, id)
		}
		series[id] = append(series[id], t)
	}

	for _, id := range order {
		if renumber(series[id], id) {
			res.Changed = true
		}
	}

	added := r.generate(series, order, categories, now)
	for _, id := range order {
		n := added[id]
		if n == 0 {
			continue
		}
		members := series[id]
		out = append(out, members[len(members)-n:]...)
		res.Generated += n
		res.Changed = true
		renumber(members, id)
	}

	return out, res
}

// generate extends the series one occurrence per series per round until the
// pass budget is spent or no series can grow, and returns how many
// occurrences each series gained.
func (r *Reconciler) generate(series map[string][]*domain.Task, order []string, categories []domain.Category, now time.Time) map[string]int {
	added := make(map[string]int)
	budget := r.maxPerPass
	growing := order
	for budget > 0 && len(growing) > 0 {
		var next []string
		for _, id := range growing {
			if budget == 0 {
				break
			}
			members := series[id]
			if r.extend(&members, categories, now, 1) == 0 {
				continue
			}
			series[id] = members
			added[id]++
			budget--
			next = append(next, id)
		}
		growing = next
	}
	return added
}

// extend appends at most limit generated occurrences to the series and
// returns how many.
func (r *Reconciler) extend(members *[]*domain.Task, categories []domain.Category, now time.Time, limit int) int {
	pointer := (*members)[len(*members)-1]
	rule := RuleOf(pointer)
	rule.Weekdays = domain.NormalizeWeekdays(rule.Weekdays)
	endDate := ""
	if datetime.ValidDate(rule.EndDate) {
		endDate = rule.EndDate
	}

	generated := 0
	for generated < limit {
		due, ok := pointer.DueInstant()
		if !ok {
			break
		}
		if !pointer.Completed && !due.Before(now) {
			break
		}

		next, ok := Next(due, rule)
		if !ok {
			break
		}
		nextDate, nextClock := datetime.Split(next)
		if endDate != "" && nextDate > endDate {
			break
		}
		if hasOccurrenceAt(*members, nextDate, nextClock) {
			break
		}

		occ := r.generator.createOccurrence(pointer, next, len(*members)+1, now)
		occ = normalize.Task(occ, categories, now)
		*members = append(*members, occ)
		pointer = occ
		generated++
	}
	return generated
}

// renumber sorts members by due instant, undated first, and rewrites the
// occurrence number, status and series id. It reports whether anything changed.
func renumber(members []*domain.Task, seriesID string) bool {
	sort.SliceStable(members, func(i, j int) bool {
		return dueBefore(members[i], members[j])
	})

	changed := false
	for i, t := range members {
		if t.RecurrenceOccurrence != i+1 {
			t.RecurrenceOccurrence = i + 1
			changed = true
		}
		if t.RecurrenceStatus != domain.RecurrenceActive {
			t.RecurrenceStatus = domain.RecurrenceActive
			changed = true
		}
		if t.RecurrenceSeriesID != seriesID {
			t.RecurrenceSeriesID = seriesID
			changed = true
		}
	}
	return changed
}

func dueBefore(a, b *domain.Task) bool {
	da, okA := a.DueInstant()
	db, okB := b.DueInstant()
	switch {
	case !okA && !okB:
		return false
	case !okA:
		return true
	case !okB:
		return false
	default:
		return da.Before(db)
	}
}

func hasOccurrenceAt(members []*domain.Task, date, clock string) bool {
	for _, t := range members {
		if t.DueDate == date && t.DueTime == clock {
			return true
		}
	}
	return false
}
