package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/rezkam/quadrant/internal/datetime"
	"github.com/rezkam/quadrant/internal/domain"
	"github.com/rezkam/quadrant/internal/http/response"
)

// maxPreviewDays bounds GET /occurrences.
const maxPreviewDays = 366

// taskPatchRequest is the PATCH body. Absent fields are left untouched.
type taskPatchRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`

	DueDate *string `json:"dueDate"`
	DueTime *string `json:"dueTime"`

	Priority        *string `json:"priority"`
	ImportanceScore *int    `json:"importanceScore"`
	UrgencyScore    *int    `json:"urgencyScore"`

	Completed  *bool     `json:"completed"`
	CategoryID *string   `json:"categoryId"`
	Tags       *[]string `json:"tags"`

	ReminderEnabled *bool   `json:"reminderEnabled"`
	ReminderDate    *string `json:"reminderDate"`
	ReminderTime    *string `json:"reminderTime"`

	RecurrenceEnabled  *bool   `json:"recurrenceEnabled"`
	RecurrenceType     *string `json:"recurrenceType"`
	RecurrenceInterval *int    `json:"recurrenceInterval"`
	RecurrenceWeekdays *[]int  `json:"recurrenceWeekdays"`
	RecurrenceEndDate  *string `json:"recurrenceEndDate"`
}

func (req taskPatchRequest) toPatch(categories []domain.Category) (domain.TaskPatch, error) {
	patch := domain.TaskPatch{
		Title:              req.Title,
		Description:        req.Description,
		DueDate:            req.DueDate,
		DueTime:            req.DueTime,
		Completed:          req.Completed,
		Tags:               req.Tags,
		ReminderEnabled:    req.ReminderEnabled,
		ReminderDate:       req.ReminderDate,
		ReminderTime:       req.ReminderTime,
		RecurrenceEnabled:  req.RecurrenceEnabled,
		RecurrenceInterval: req.RecurrenceInterval,
		RecurrenceWeekdays: req.RecurrenceWeekdays,
		RecurrenceEndDate:  req.RecurrenceEndDate,
	}

	if req.Priority != nil {
		p, err := domain.NewPriority(*req.Priority)
		if err != nil {
			return domain.TaskPatch{}, err
		}
		patch.Priority = &p
	}
	if req.ImportanceScore != nil {
		if _, err := domain.NewScore(*req.ImportanceScore); err != nil {
			return domain.TaskPatch{}, err
		}
		patch.ImportanceScore = req.ImportanceScore
	}
	if req.UrgencyScore != nil {
		if _, err := domain.NewScore(*req.UrgencyScore); err != nil {
			return domain.TaskPatch{}, err
		}
		patch.UrgencyScore = req.UrgencyScore
	}
	if req.RecurrenceType != nil {
		rt, err := domain.NewRecurrenceType(*req.RecurrenceType)
		if err != nil {
			return domain.TaskPatch{}, err
		}
		patch.RecurrenceType = &rt
	}
	if req.CategoryID != nil {
		if domain.FindCategory(categories, *req.CategoryID) == nil {
			return domain.TaskPatch{}, domain.ErrCategoryNotFound
		}
		patch.CategoryID = req.CategoryID
	}
	return patch, nil
}

type scoresRequest struct {
	Importance *int `json:"importance"`
	Urgency    *int `json:"urgency"`
}

// validationResult is the POST /validate response.
type validationResult struct {
	Valid    bool     `json:"valid"`
	Problems []string `json:"problems"`
}

func (h *Handler) listTasks(w http.ResponseWriter, r *http.Request) {
	q, err := parseTaskQuery(r.URL.Query())
	if err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	svc, done, err := h.session(r.Context())
	if err != nil {
		response.InternalError(w, r, err)
		return
	}
	defer done()

	tasks, err := svc.FindTasks(r.Context(), q)
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	if tasks == nil {
		tasks = []*domain.Task{}
	}
	response.OK(w, tasks)
}

func (h *Handler) createTask(w http.ResponseWriter, r *http.Request) {
	var raw domain.Task
	if err := decode(r, &raw); err != nil {
		response.BadRequest(w, err.Error())
		return
	}
	force, _ := strconv.ParseBool(r.URL.Query().Get("force"))

	svc, done, err := h.session(r.Context())
	if err != nil {
		response.InternalError(w, r, err)
		return
	}
	defer done()

	categories := svc.Categories()
	defaultCategory(&raw, categories)
	if problems := raw.Validate(categories, h.now()); len(problems) > 0 && !force {
		response.Problems(w, problems)
		return
	}

	task, err := svc.CreateTask(r.Context(), &raw)
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	h.syncReminders(r.Context(), svc)
	response.Created(w, task)
}

func (h *Handler) validateTask(w http.ResponseWriter, r *http.Request) {
	var raw domain.Task
	if err := decode(r, &raw); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	svc, done, err := h.session(r.Context())
	if err != nil {
		response.InternalError(w, r, err)
		return
	}
	categories := svc.Categories()
	done()

	defaultCategory(&raw, categories)
	problems := raw.Validate(categories, h.now())

	if problems == nil {
		problems = []string{}
	}
	response.OK(w, validationResult{Valid: len(problems) == 0, Problems: problems})
}

// defaultCategory files a task sent without a category under the first one,
// as the store would. An unknown id is left for Validate to report.
func defaultCategory(raw *domain.Task, categories []domain.Category) {
	if raw.CategoryID == "" && len(categories) > 0 {
		raw.CategoryID = categories[0].ID
	}
}

func (h *Handler) getTask(w http.ResponseWriter, r *http.Request) {
	svc, done, err := h.session(r.Context())
	if err != nil {
		response.InternalError(w, r, err)
		return
	}
	defer done()

	task, err := svc.GetTask(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	response.OK(w, task)
}

func (h *Handler) updateTask(w http.ResponseWriter, r *http.Request) {
	var req taskPatchRequest
	if err := decode(r, &req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	svc, done, err := h.session(r.Context())
	if err != nil {
		response.InternalError(w, r, err)
		return
	}
	defer done()

	patch, err := req.toPatch(svc.Categories())
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	task, err := svc.UpdateTask(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	h.syncReminders(r.Context(), svc)
	response.OK(w, task)
}

func (h *Handler) deleteTask(w http.ResponseWriter, r *http.Request) {
	svc, done, err := h.session(r.Context())
	if err != nil {
		response.InternalError(w, r, err)
		return
	}
	defer done()

	if err := svc.DeleteTask(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	h.syncReminders(r.Context(), svc)
	response.NoContent(w)
}

func (h *Handler) setCompleted(completed bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		svc, done, err := h.session(r.Context())
		if err != nil {
			response.InternalError(w, r, err)
			return
		}
		defer done()

		task, err := svc.UpdateTask(r.Context(), chi.URLParam(r, "id"), domain.TaskPatch{Completed: &completed})
		if err != nil {
			response.FromDomainError(w, r, err)
			return
		}
		h.syncReminders(r.Context(), svc)
		response.OK(w, task)
	}
}

func (h *Handler) setScores(w http.ResponseWriter, r *http.Request) {
	var req scoresRequest
	if err := decode(r, &req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}
	if req.Importance == nil || req.Urgency == nil {
		response.ValidationError(w, "score", "importance and urgency are both required")
		return
	}

	svc, done, err := h.session(r.Context())
	if err != nil {
		response.InternalError(w, r, err)
		return
	}
	defer done()

	task, err := svc.SetScores(r.Context(), chi.URLParam(r, "id"), *req.Importance, *req.Urgency)
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	response.OK(w, task)
}

func (h *Handler) occurrences(w http.ResponseWriter, r *http.Request) {
	days := 30
	if v := r.URL.Query().Get("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > maxPreviewDays {
			response.ValidationError(w, "days", "must be between 1 and 366")
			return
		}
		days = n
	}

	svc, done, err := h.session(r.Context())
	if err != nil {
		response.InternalError(w, r, err)
		return
	}
	defer done()

	dates, err := svc.PreviewOccurrences(r.Context(), chi.URLParam(r, "id"), h.now().AddDate(0, 0, days))
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	out := make([]string, 0, len(dates))
	for _, d := range dates {
		date, clock := datetime.Split(d)
		out = append(out, date+" "+clock)
	}
	response.OK(w, out)
}
