package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezkam/quadrant/internal/application/todo"
	"github.com/rezkam/quadrant/internal/domain"
	"github.com/rezkam/quadrant/internal/http/response"
	"github.com/rezkam/quadrant/internal/quadrant"
	"github.com/rezkam/quadrant/internal/reminder"
	"github.com/rezkam/quadrant/internal/storage/fs"
)

// 2024-01-10 is a Wednesday.
var baseNow = time.Date(2024, 1, 10, 10, 0, 0, 0, time.Local)

type api struct {
	t       *testing.T
	store   *fs.Store
	handler http.Handler
}

func newAPI(t *testing.T) *api {
	t.Helper()
	store, err := fs.NewStore(t.TempDir())
	require.NoError(t, err)

	clock := func() time.Time { return baseNow }
	queue := reminder.NewQueue(store, reminder.Config{TemplateID: "tmpl", Now: clock})

	return &api{t: t, store: store, handler: New(store, todo.Config{Now: clock}, queue).Routes()}
}

func (a *api) do(method, path string, body any) *httptest.ResponseRecorder {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	w := httptest.NewRecorder()
	a.handler.ServeHTTP(w, httptest.NewRequest(method, path, &buf))
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func (a *api) create(body map[string]any) domain.Task {
	a.t.Helper()
	w := a.do(http.MethodPost, "/v1/tasks", body)
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())
	return decodeBody[domain.Task](a.t, w)
}

func TestCreateAndGetTask(t *testing.T) {
	a := newAPI(t)

	task := a.create(map[string]any{
		"title":    "写周报",
		"dueDate":  "2024-01-10",
		"dueTime":  "18:00",
		"priority": "high",
		"tags":     []string{"work", " work "},
	})
	assert.NotEmpty(t, task.ID)
	assert.Equal(t, quadrant.DoFirst, task.Quadrant)
	assert.Equal(t, []string{"work"}, task.Tags)
	assert.Equal(t, "study", task.CategoryID)

	w := a.do(http.MethodGet, "/v1/tasks/"+task.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, task.ID, decodeBody[domain.Task](t, w).ID)

	w = a.do(http.MethodGet, "/v1/tasks/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateTask_Validation(t *testing.T) {
	a := newAPI(t)

	w := a.do(http.MethodPost, "/v1/tasks", map[string]any{"dueDate": "2024-13-40"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeBody[response.ErrorResponse](t, w)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
	assert.NotEmpty(t, resp.Error.Details)

	w = a.do(http.MethodPost, "/v1/tasks?force=true", map[string]any{"title": "later", "dueDate": "2024-13-40"})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Empty(t, decodeBody[domain.Task](t, w).DueDate)

	w = a.do(http.MethodPost, "/v1/tasks", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = a.do(http.MethodPost, "/v1/tasks", map[string]any{"title": "x", "colour": "red"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateTask_DefaultsCategory(t *testing.T) {
	a := newAPI(t)

	w := a.do(http.MethodPost, "/v1/tasks", map[string]any{"title": "no category"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "study", decodeBody[domain.Task](t, w).CategoryID)

	w = a.do(http.MethodPost, "/v1/tasks/validate", map[string]any{"title": "no category"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decodeBody[validationResult](t, w).Valid)

	w = a.do(http.MethodPost, "/v1/tasks", map[string]any{"title": "unknown", "categoryId": "nope"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), domain.MsgInvalidCategory)

	w = a.do(http.MethodPost, "/v1/tasks/validate", map[string]any{"title": "unknown", "categoryId": "nope"})
	require.Equal(t, http.StatusOK, w.Code)
	result := decodeBody[validationResult](t, w)
	assert.False(t, result.Valid)
	assert.Contains(t, result.Problems, domain.MsgInvalidCategory)
}

func TestValidateTask(t *testing.T) {
	a := newAPI(t)

	w := a.do(http.MethodPost, "/v1/tasks/validate", map[string]any{"title": "ok"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"valid":true,"problems":[]}`, w.Body.String())

	w = a.do(http.MethodPost, "/v1/tasks/validate", map[string]any{"title": ""})
	require.Equal(t, http.StatusOK, w.Code)
	result := decodeBody[validationResult](t, w)
	assert.False(t, result.Valid)
	assert.Contains(t, result.Problems, domain.MsgTitleRequired)
}

func TestUpdateTask(t *testing.T) {
	a := newAPI(t)
	task := a.create(map[string]any{"title": "draft"})

	w := a.do(http.MethodPatch, "/v1/tasks/"+task.ID, map[string]any{"title": "final", "categoryId": "work"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decodeBody[domain.Task](t, w)
	assert.Equal(t, "final", updated.Title)
	assert.Equal(t, "work", updated.CategoryID)

	w = a.do(http.MethodPatch, "/v1/tasks/"+task.ID, map[string]any{"priority": "urgent"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = a.do(http.MethodPatch, "/v1/tasks/"+task.ID, map[string]any{"categoryId": "nope"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = a.do(http.MethodPost, "/v1/tasks/"+task.ID+"/complete", nil)
	require.Equal(t, http.StatusOK, w.Code)
	done := decodeBody[domain.Task](t, w)
	assert.True(t, done.Completed)
	assert.NotEmpty(t, done.CompletedAt)

	w = a.do(http.MethodPost, "/v1/tasks/"+task.ID+"/reopen", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decodeBody[domain.Task](t, w).CompletedAt)
}

func TestSetScores(t *testing.T) {
	a := newAPI(t)
	task := a.create(map[string]any{"title": "triage"})

	w := a.do(http.MethodPut, "/v1/tasks/"+task.ID+"/scores", map[string]any{"importance": 20, "urgency": 80})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, quadrant.Delegate, decodeBody[domain.Task](t, w).Quadrant)

	w = a.do(http.MethodPut, "/v1/tasks/"+task.ID+"/scores", map[string]any{"importance": 120, "urgency": 80})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = a.do(http.MethodPut, "/v1/tasks/"+task.ID+"/scores", map[string]any{"importance": 10})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListTasks_Filters(t *testing.T) {
	a := newAPI(t)
	a.create(map[string]any{"title": "整理书架", "priority": "low"})
	work := a.create(map[string]any{"title": "写周报", "tags": []string{"work"}, "dueDate": "2024-01-11"})
	a.do(http.MethodPost, "/v1/tasks/"+work.ID+"/complete", nil)

	tests := []struct {
		query string
		want  int
	}{
		{"", 2},
		{"?completed=false", 1},
		{"?completed=true", 1},
		{"?tag=work", 1},
		{"?keyword=" + url.QueryEscape("书架"), 1},
		{"?sort=due", 2},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			w := a.do(http.MethodGet, "/v1/tasks"+tt.query, nil)
			require.Equal(t, http.StatusOK, w.Code)
			assert.Len(t, decodeBody[[]domain.Task](t, w), tt.want)
		})
	}

	for _, bad := range []string{"?sort=size", "?quadrant=7", "?completed=maybe"} {
		w := a.do(http.MethodGet, "/v1/tasks"+bad, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, bad)
	}
}

func TestDeleteTask(t *testing.T) {
	a := newAPI(t)
	task := a.create(map[string]any{"title": "temp"})

	w := a.do(http.MethodDelete, "/v1/tasks/"+task.ID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = a.do(http.MethodDelete, "/v1/tasks/"+task.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestOccurrences(t *testing.T) {
	a := newAPI(t)
	task := a.create(map[string]any{
		"title":              "晨跑",
		"dueDate":            "2024-01-11",
		"dueTime":            "07:00",
		"recurrenceEnabled":  true,
		"recurrenceType":     "daily",
		"recurrenceInterval": 1,
	})

	w := a.do(http.MethodGet, "/v1/tasks/"+task.ID+"/occurrences?days=3", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"2024-01-12 07:00", "2024-01-13 07:00"}, decodeBody[[]string](t, w))

	w = a.do(http.MethodGet, "/v1/tasks/"+task.ID+"/occurrences?days=0", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCategories(t *testing.T) {
	a := newAPI(t)

	w := a.do(http.MethodPost, "/v1/categories", map[string]any{"name": "健身", "icon": "🎯"})
	require.Equal(t, http.StatusCreated, w.Code)
	gym := decodeBody[domain.Category](t, w)

	w = a.do(http.MethodPost, "/v1/categories", map[string]any{"name": "健身"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = a.do(http.MethodPost, "/v1/categories", map[string]any{"color": "#fff"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	task := a.create(map[string]any{"title": "深蹲", "categoryId": gym.ID})

	w = a.do(http.MethodGet, "/v1/categories", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var found bool
	for _, c := range decodeBody[[]categoryView](t, w) {
		if c.ID == gym.ID {
			found = true
			assert.Equal(t, 1, c.TaskCount)
		}
	}
	assert.True(t, found)

	w = a.do(http.MethodPatch, "/v1/categories/"+gym.ID, map[string]any{"name": "运动"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "运动", decodeBody[domain.Category](t, w).Name)

	w = a.do(http.MethodDelete, "/v1/categories/"+gym.ID, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = a.do(http.MethodGet, "/v1/tasks/"+task.ID, nil)
	assert.Equal(t, "study", decodeBody[domain.Task](t, w).CategoryID)

	w = a.do(http.MethodDelete, "/v1/categories/"+gym.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStatsAndMatrix(t *testing.T) {
	a := newAPI(t)
	done := a.create(map[string]any{"title": "done today"})
	a.do(http.MethodPost, "/v1/tasks/"+done.ID+"/complete", nil)
	a.create(map[string]any{"title": "urgent", "priority": "high", "dueDate": "2024-01-10", "dueTime": "18:00"})

	w := a.do(http.MethodGet, "/v1/stats?range=today", nil)
	require.Equal(t, http.StatusOK, w.Code)
	stats := decodeBody[statsView](t, w)
	assert.Equal(t, 1, stats.Completed)
	assert.Equal(t, 1, stats.Streak)
	assert.Equal(t, 1, stats.Open)
	assert.Equal(t, 1, stats.Quadrants["1"])

	w = a.do(http.MethodGet, "/v1/stats?range=year", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = a.do(http.MethodGet, "/v1/matrix", nil)
	require.Equal(t, http.StatusOK, w.Code)
	cells := decodeBody[[]matrixCell](t, w)
	require.Len(t, cells, 4)
	assert.Len(t, cells[0].Tasks, 1)
	assert.Empty(t, cells[3].Tasks)
}

func TestRemindersFollowTasks(t *testing.T) {
	a := newAPI(t)
	task := a.create(map[string]any{
		"title":           "缴费",
		"dueDate":         "2024-01-12",
		"reminderEnabled": true,
		"reminderDate":    "2024-01-11",
		"reminderTime":    "09:00",
	})

	w := a.do(http.MethodGet, "/v1/reminders", nil)
	require.Equal(t, http.StatusOK, w.Code)
	entries := decodeBody[[]reminder.Entry](t, w)
	require.Len(t, entries, 1)
	assert.Equal(t, task.ID, entries[0].TaskID)
	assert.Equal(t, domain.ReminderPending, entries[0].Status)

	a.do(http.MethodPost, "/v1/tasks/"+task.ID+"/complete", nil)

	w = a.do(http.MethodGet, "/v1/reminders", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", strings.TrimSpace(w.Body.String()))
}

func TestRequestsSeeOtherWriters(t *testing.T) {
	a := newAPI(t)
	a.create(map[string]any{"title": "from the api"})

	// another process, such as the CLI, writes to the same store
	ctx := context.Background()
	svc := todo.NewService(a.store, todo.Config{Now: func() time.Time { return baseNow }})
	require.NoError(t, svc.Open(ctx))
	_, err := svc.CreateTask(ctx, &domain.Task{Title: "from the cli"})
	require.NoError(t, err)
	require.NoError(t, svc.Close(ctx))

	w := a.do(http.MethodGet, "/v1/tasks", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeBody[[]domain.Task](t, w), 2)
}
