package handler

import (
	"net/http"
	"strconv"

	"github.com/rezkam/quadrant/internal/application/todo"
	"github.com/rezkam/quadrant/internal/domain"
	"github.com/rezkam/quadrant/internal/http/response"
	"github.com/rezkam/quadrant/internal/quadrant"
	"github.com/rezkam/quadrant/internal/reminder"
)

type statsView struct {
	Range        domain.StatsRange `json:"range"`
	Start        string            `json:"start"`
	End          string            `json:"end"`
	Completed    int               `json:"completed"`
	Streak       int               `json:"streak"`
	BusiestDay   string            `json:"busiestDay,omitempty"`
	BusiestCount int               `json:"busiestCount"`
	Highlight    string            `json:"highlight,omitempty"`
	Open         int               `json:"open"`
	Quadrants    map[string]int    `json:"quadrants"`
}

type matrixCell struct {
	Quadrant       int            `json:"quadrant"`
	Recommendation string         `json:"recommendation"`
	Tasks          []*domain.Task `json:"tasks"`
}

func (h *Handler) stats(w http.ResponseWriter, r *http.Request) {
	rng := domain.StatsRange(r.URL.Query().Get("range"))
	switch rng {
	case "":
		rng = domain.RangeWeek
	case domain.RangeToday, domain.RangeWeek, domain.RangeMonth:
	default:
		response.ValidationError(w, "range", "must be today, week or month")
		return
	}

	svc, done, err := h.session(r.Context())
	if err != nil {
		response.InternalError(w, r, err)
		return
	}
	defer done()

	s, err := svc.Stats(r.Context(), rng)
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	view := statsView{
		Range:        s.Range,
		Start:        s.Start.Format("2006-01-02"),
		End:          s.End.Format("2006-01-02"),
		Completed:    s.Completed,
		Streak:       s.Streak,
		BusiestDay:   s.BusiestDay,
		BusiestCount: s.BusiestCount,
		Open:         s.Quadrants.Total,
		Quadrants:    make(map[string]int, len(s.Quadrants.Counts)),
	}
	if s.BusiestDay != "" {
		view.Highlight = todo.HighlightLabel(s.BusiestCount)
	}
	for q, n := range s.Quadrants.Counts {
		view.Quadrants[strconv.Itoa(q)] = n
	}
	response.OK(w, view)
}

func (h *Handler) matrix(w http.ResponseWriter, r *http.Request) {
	svc, done, err := h.session(r.Context())
	if err != nil {
		response.InternalError(w, r, err)
		return
	}
	defer done()

	tasks, err := svc.ListTasks(r.Context())
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	buckets := quadrant.Buckets(tasks)
	out := make([]matrixCell, 0, len(buckets))
	for q := quadrant.DoFirst; q <= quadrant.Drop; q++ {
		out = append(out, matrixCell{
			Quadrant:       q,
			Recommendation: quadrant.Recommendation(q),
			Tasks:          buckets[q],
		})
	}
	response.OK(w, out)
}

func (h *Handler) reminders(w http.ResponseWriter, r *http.Request) {
	if h.queue == nil {
		response.OK(w, []reminder.Entry{})
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	entries, err := h.queue.Entries(r.Context())
	if err != nil {
		response.InternalError(w, r, err)
		return
	}
	if entries == nil {
		entries = []reminder.Entry{}
	}
	response.OK(w, entries)
}
