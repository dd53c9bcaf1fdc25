package todo

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/rezkam/quadrant/internal/datetime"
	"github.com/rezkam/quadrant/internal/domain"
	"github.com/rezkam/quadrant/internal/ptr"
	"github.com/rezkam/quadrant/internal/quadrant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryRepo is an in-memory Repository that can be told to fail.
type memoryRepo struct {
	data    map[string][]byte
	saves   map[string]int
	loadErr error
	saveErr error
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{data: map[string][]byte{}, saves: map[string]int{}}
}

func (m *memoryRepo) Load(ctx context.Context, key string) ([]byte, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	data, ok := m.data[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return data, nil
}

func (m *memoryRepo) Save(ctx context.Context, key string, data []byte) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.data[key] = append([]byte(nil), data...)
	m.saves[key]++
	return nil
}

func (m *memoryRepo) storedTasks(t *testing.T) []*domain.Task {
	t.Helper()
	var tasks []*domain.Task
	require.NoError(t, json.Unmarshal(m.data[KeyTasks], &tasks))
	return tasks
}

type testClock struct{ now time.Time }

func (c *testClock) Now() time.Time { return c.now }

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

// 2024-01-10 is a Wednesday.
var baseNow = time.Date(2024, 1, 10, 10, 0, 0, 0, time.Local)

func newTestService(t *testing.T, repo *memoryRepo) (*Service, *testClock) {
	t.Helper()
	clock := &testClock{now: baseNow}
	svc := NewService(repo, Config{Now: clock.Now, NewID: sequentialIDs()})
	require.NoError(t, svc.Open(context.Background()))
	return svc, clock
}

func TestOpen_SeedsDefaultCategories(t *testing.T) {
	repo := newMemoryRepo()
	svc, _ := newTestService(t, repo)

	cats, err := svc.ListCategories(context.Background())
	require.NoError(t, err)
	require.Len(t, cats, 3)
	assert.Equal(t, []string{"study", "work", "life"}, []string{cats[0].ID, cats[1].ID, cats[2].ID})
	assert.Equal(t, 1, repo.saves[KeyCategories])

	tasks, err := svc.ListTasks(context.Background())
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestOpen_NormalizesStoredRecords(t *testing.T) {
	repo := newMemoryRepo()
	repo.data[KeyTasks] = []byte(`[
		{"id":"a","title":"  Pay rent ","priority":"urgent","completed":"true","categoryId":"missing","updatedAt":"2024-01-09T08:00:00.000Z"},
		"garbage"
	]`)

	svc, _ := newTestService(t, repo)

	task, err := svc.GetTask(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, "Pay rent", task.Title)
	assert.Equal(t, domain.PriorityMedium, task.Priority)
	assert.True(t, task.Completed)
	assert.Equal(t, "2024-01-09T08:00:00.000Z", task.CompletedAt)
	assert.Equal(t, "study", task.CategoryID)
	assert.Equal(t, 1, repo.saves[KeyTasks])
}

func TestOpen_LogsUndecodableFields(t *testing.T) {
	var logs bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&logs, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	repo := newMemoryRepo()
	repo.data[KeyTasks] = []byte(`[{"id":"a","title":"Legacy","importanceScore":"very"}]`)

	svc, _ := newTestService(t, repo)

	task, err := svc.GetTask(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, "Legacy", task.Title)
	assert.Equal(t, 60, ptr.Deref(task.ImportanceScore, 0))

	assert.Contains(t, logs.String(), "stored record has fields that could not be decoded")
	assert.Contains(t, logs.String(), `"id":"a"`)
	assert.Contains(t, logs.String(), "importanceScore")
}

func TestOpen_LoadFailureStartsEmpty(t *testing.T) {
	repo := newMemoryRepo()
	repo.loadErr = errors.New("disk on fire")

	svc, _ := newTestService(t, repo)

	tasks, err := svc.ListTasks(context.Background())
	require.NoError(t, err)
	assert.Empty(t, tasks)
	assert.Len(t, svc.Categories(), 3)
}

func TestOpen_CorruptDocumentStartsEmpty(t *testing.T) {
	repo := newMemoryRepo()
	repo.data[KeyTasks] = []byte(`{not json`)

	svc, _ := newTestService(t, repo)

	tasks, err := svc.ListTasks(context.Background())
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestCreateTask(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryRepo()
	svc, _ := newTestService(t, repo)

	created, err := svc.CreateTask(ctx, &domain.Task{
		ID:         "ignored",
		Title:      "Submit report",
		Priority:   domain.PriorityHigh,
		CategoryID: "work",
		DueDate:    "2024-01-10",
		DueTime:    "18:00",
	})
	require.NoError(t, err)

	assert.Equal(t, "id-1", created.ID)
	assert.Equal(t, datetime.FormatInstant(baseNow), created.CreatedAt)
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)
	assert.NotEmpty(t, created.DueDateTime)
	assert.Equal(t, 85, ptr.Deref(created.ImportanceScore, 0))
	assert.Equal(t, 90, ptr.Deref(created.UrgencyScore, 0))
	assert.Equal(t, quadrant.DoFirst, created.Quadrant)

	stored := repo.storedTasks(t)
	require.Len(t, stored, 1)
	assert.Equal(t, created.ID, stored[0].ID)

	t.Run("nil input", func(t *testing.T) {
		_, err := svc.CreateTask(ctx, nil)
		assert.ErrorIs(t, err, domain.ErrInvalidTask)
	})
}

func TestCreateTask_ReturnsCopy(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, newMemoryRepo())

	created, err := svc.CreateTask(ctx, &domain.Task{Title: "Original"})
	require.NoError(t, err)
	created.Title = "Mutated"

	stored, err := svc.GetTask(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Original", stored.Title)
}

func TestCreateTask_RecurringCatchesUp(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, newMemoryRepo())

	created, err := svc.CreateTask(ctx, &domain.Task{
		Title:              "Stretch",
		DueDate:            "2024-01-09",
		DueTime:            "09:00",
		RecurrenceEnabled:  true,
		RecurrenceType:     domain.RecurrenceDaily,
		RecurrenceInterval: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, created.ID, created.RecurrenceSeriesID)
	assert.Equal(t, 1, created.RecurrenceOccurrence)

	tasks, err := svc.ListTasks(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 3)

	var dates []string
	for _, task := range tasks {
		assert.Equal(t, created.ID, task.RecurrenceSeriesID)
		dates = append(dates, fmt.Sprintf("%s#%d", task.DueDate, task.RecurrenceOccurrence))
	}
	assert.Equal(t, []string{"2024-01-09#1", "2024-01-10#2", "2024-01-11#3"}, dates)
}

func TestSaveFailureIsSwallowed(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryRepo()
	svc, _ := newTestService(t, repo)
	repo.saveErr = errors.New("read-only filesystem")

	created, err := svc.CreateTask(ctx, &domain.Task{Title: "Still here"})
	require.NoError(t, err)

	got, err := svc.GetTask(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Still here", got.Title)

	assert.Error(t, svc.Close(ctx))
}

func TestUpdateTask(t *testing.T) {
	ctx := context.Background()
	svc, clock := newTestService(t, newMemoryRepo())

	created, err := svc.CreateTask(ctx, &domain.Task{Title: "Draft", Priority: domain.PriorityLow})
	require.NoError(t, err)

	t.Run("merges present fields only", func(t *testing.T) {
		clock.now = baseNow.Add(time.Hour)
		updated, err := svc.UpdateTask(ctx, created.ID, domain.TaskPatch{
			Title:    ptr.To("Final"),
			Priority: ptr.To(domain.PriorityHigh),
		})
		require.NoError(t, err)
		assert.Equal(t, "Final", updated.Title)
		assert.Equal(t, domain.PriorityHigh, updated.Priority)
		assert.Equal(t, 85, ptr.Deref(updated.ImportanceScore, 0))
		assert.Equal(t, created.CreatedAt, updated.CreatedAt)
		assert.NotEqual(t, created.UpdatedAt, updated.UpdatedAt)
	})

	t.Run("completion stamps and clears completedAt", func(t *testing.T) {
		done, err := svc.UpdateTask(ctx, created.ID, domain.TaskPatch{Completed: ptr.To(true)})
		require.NoError(t, err)
		assert.True(t, done.Completed)
		assert.NotEmpty(t, done.CompletedAt)

		reopened, err := svc.UpdateTask(ctx, created.ID, domain.TaskPatch{Completed: ptr.To(false)})
		require.NoError(t, err)
		assert.False(t, reopened.Completed)
		assert.Empty(t, reopened.CompletedAt)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := svc.UpdateTask(ctx, "nope", domain.TaskPatch{Title: ptr.To("x")})
		assert.ErrorIs(t, err, domain.ErrTaskNotFound)
	})
}

func TestUpdateTask_CompletingLatestOccurrenceGeneratesNext(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, newMemoryRepo())

	_, err := svc.CreateTask(ctx, &domain.Task{
		Title:              "Stretch",
		DueDate:            "2024-01-09",
		DueTime:            "09:00",
		RecurrenceEnabled:  true,
		RecurrenceType:     domain.RecurrenceDaily,
		RecurrenceInterval: 1,
	})
	require.NoError(t, err)

	_, err = svc.UpdateTask(ctx, "id-3", domain.TaskPatch{Completed: ptr.To(true)})
	require.NoError(t, err)

	next, err := svc.GetTask(ctx, "id-4")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-12", next.DueDate)
	assert.Equal(t, 4, next.RecurrenceOccurrence)
	assert.False(t, next.Completed)
}

func TestUpdateTask_DisablingRecurrenceResetsFields(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, newMemoryRepo())

	created, err := svc.CreateTask(ctx, &domain.Task{
		Title:              "Weekly sync",
		DueDate:            "2024-01-20",
		RecurrenceEnabled:  true,
		RecurrenceType:     domain.RecurrenceWeekly,
		RecurrenceInterval: 1,
	})
	require.NoError(t, err)

	updated, err := svc.UpdateTask(ctx, created.ID, domain.TaskPatch{RecurrenceEnabled: ptr.To(false)})
	require.NoError(t, err)
	assert.Equal(t, domain.RecurrenceNone, updated.RecurrenceType)
	assert.Equal(t, domain.RecurrenceInactive, updated.RecurrenceStatus)
	assert.Empty(t, updated.RecurrenceSeriesID)
	assert.Zero(t, updated.RecurrenceOccurrence)
}

func TestDeleteTask_RenumbersSeriesWithoutCascade(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryRepo()
	svc, _ := newTestService(t, repo)

	_, err := svc.CreateTask(ctx, &domain.Task{
		Title:              "Stretch",
		DueDate:            "2024-01-09",
		DueTime:            "09:00",
		RecurrenceEnabled:  true,
		RecurrenceType:     domain.RecurrenceDaily,
		RecurrenceInterval: 1,
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteTask(ctx, "id-2"))

	tasks, err := svc.ListTasks(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "id-1", tasks[0].ID)
	assert.Equal(t, 1, tasks[0].RecurrenceOccurrence)
	assert.Equal(t, "id-3", tasks[1].ID)
	assert.Equal(t, 2, tasks[1].RecurrenceOccurrence)
	assert.Len(t, repo.storedTasks(t), 2)

	assert.ErrorIs(t, svc.DeleteTask(ctx, "id-2"), domain.ErrTaskNotFound)
}

func TestListTasks_LazyGenerationPersists(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryRepo()
	svc, clock := newTestService(t, repo)

	_, err := svc.CreateTask(ctx, &domain.Task{
		Title:              "Stretch",
		DueDate:            "2024-01-10",
		DueTime:            "12:00",
		RecurrenceEnabled:  true,
		RecurrenceType:     domain.RecurrenceDaily,
		RecurrenceInterval: 1,
	})
	require.NoError(t, err)
	saves := repo.saves[KeyTasks]

	tasks, err := svc.ListTasks(ctx)
	require.NoError(t, err)
	assert.Len(t, tasks, 1)
	assert.Equal(t, saves, repo.saves[KeyTasks])

	clock.now = baseNow.AddDate(0, 0, 1)
	tasks, err = svc.ListTasks(ctx)
	require.NoError(t, err)
	assert.Len(t, tasks, 2)
	assert.Equal(t, saves+1, repo.saves[KeyTasks])
}

func TestSetScores(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, newMemoryRepo())

	created, err := svc.CreateTask(ctx, &domain.Task{Title: "Plan trip", Priority: domain.PriorityHigh})
	require.NoError(t, err)
	assert.Equal(t, quadrant.Schedule, created.Quadrant)

	moved, err := svc.SetScores(ctx, created.ID, 20, 80)
	require.NoError(t, err)
	assert.Equal(t, 20, ptr.Deref(moved.ImportanceScore, 0))
	assert.Equal(t, 80, ptr.Deref(moved.UrgencyScore, 0))
	assert.Equal(t, quadrant.Delegate, moved.Quadrant)

	_, err = svc.SetScores(ctx, created.ID, 101, 50)
	assert.ErrorIs(t, err, domain.ErrInvalidScore)
}

func TestUrgencyRisesAsDueApproaches(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryRepo()
	svc, clock := newTestService(t, repo)

	created, err := svc.CreateTask(ctx, &domain.Task{
		Title:    "File taxes",
		Priority: domain.PriorityHigh,
		DueDate:  "2024-01-20",
		DueTime:  "10:00",
	})
	require.NoError(t, err)
	assert.Equal(t, 30, ptr.Deref(created.UrgencyScore, 0))
	assert.Equal(t, quadrant.Schedule, created.Quadrant)

	clock.now = time.Date(2024, 1, 20, 8, 0, 0, 0, time.Local)

	t.Run("reopening the store re-derives urgency", func(t *testing.T) {
		reopened := NewService(repo, Config{Now: clock.Now})
		require.NoError(t, reopened.Open(ctx))
		got, err := reopened.GetTask(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, 90, ptr.Deref(got.UrgencyScore, 0))
		assert.Equal(t, quadrant.DoFirst, got.Quadrant)
	})

	t.Run("list re-derives urgency", func(t *testing.T) {
		saves := repo.saves[KeyTasks]
		tasks, err := svc.ListTasks(ctx)
		require.NoError(t, err)
		require.Len(t, tasks, 1)
		assert.Equal(t, 90, ptr.Deref(tasks[0].UrgencyScore, 0))
		assert.Equal(t, quadrant.DoFirst, tasks[0].Quadrant)
		assert.Equal(t, saves+1, repo.saves[KeyTasks])
	})

	t.Run("explicit scores stay put", func(t *testing.T) {
		_, err := svc.SetScores(ctx, created.ID, 85, 20)
		require.NoError(t, err)

		clock.now = time.Date(2024, 1, 20, 9, 30, 0, 0, time.Local)
		tasks, err := svc.ListTasks(ctx)
		require.NoError(t, err)
		assert.Equal(t, 20, ptr.Deref(tasks[0].UrgencyScore, 0))
		assert.Equal(t, quadrant.Schedule, tasks[0].Quadrant)
	})
}

func TestPreviewOccurrences(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, newMemoryRepo())

	created, err := svc.CreateTask(ctx, &domain.Task{
		Title:              "Gym",
		DueDate:            "2024-01-15",
		DueTime:            "07:00",
		RecurrenceEnabled:  true,
		RecurrenceType:     domain.RecurrenceWeekly,
		RecurrenceInterval: 1,
		RecurrenceWeekdays: []int{1, 4},
		RecurrenceEndDate:  "2024-01-25",
	})
	require.NoError(t, err)

	at, err := svc.PreviewOccurrences(ctx, created.ID, baseNow.AddDate(0, 1, 0))
	require.NoError(t, err)
	require.Len(t, at, 3)
	assert.Equal(t, time.Date(2024, 1, 18, 7, 0, 0, 0, time.Local), at[0])
	assert.Equal(t, time.Date(2024, 1, 22, 7, 0, 0, 0, time.Local), at[1])
	assert.Equal(t, time.Date(2024, 1, 25, 7, 0, 0, 0, time.Local), at[2])

	plain, err := svc.CreateTask(ctx, &domain.Task{Title: "Once"})
	require.NoError(t, err)
	at, err = svc.PreviewOccurrences(ctx, plain.ID, baseNow.AddDate(0, 1, 0))
	require.NoError(t, err)
	assert.Empty(t, at)
}

func TestClose_Flushes(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryRepo()
	svc, _ := newTestService(t, repo)

	_, err := svc.CreateTask(ctx, &domain.Task{Title: "Flush me"})
	require.NoError(t, err)
	delete(repo.data, KeyTasks)

	require.NoError(t, svc.Close(ctx))
	assert.Len(t, repo.storedTasks(t), 1)
}
