package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeTasks_Lenient(t *testing.T) {
	data := []byte(`[
		{
			"id": "t1",
			"title": "Legacy",
			"completed": "true",
			"importanceScore": 72.6,
			"urgencyScore": "40",
			"recurrenceInterval": "2",
			"recurrenceWeekdays": [1, 3.0],
			"tags": ["a", "b"],
			"unknownField": {"nested": true}
		},
		"not an object",
		null,
		{"id": "t2", "title": "Plain", "completed": false, "importanceScore": null}
	]`)

	tasks, problems, err := DecodeTasks(data)
	require.NoError(t, err)
	assert.Empty(t, problems)
	require.Len(t, tasks, 2)

	legacy := tasks[0]
	assert.Equal(t, "t1", legacy.ID)
	assert.True(t, legacy.Completed)
	require.NotNil(t, legacy.ImportanceScore)
	assert.Equal(t, 73, *legacy.ImportanceScore)
	require.NotNil(t, legacy.UrgencyScore)
	assert.Equal(t, 40, *legacy.UrgencyScore)
	assert.Equal(t, 2, legacy.RecurrenceInterval)
	assert.Equal(t, []int{1, 3}, legacy.RecurrenceWeekdays)
	assert.Equal(t, []string{"a", "b"}, legacy.Tags)

	assert.Equal(t, "t2", tasks[1].ID)
	assert.Nil(t, tasks[1].ImportanceScore)
}

func TestDecodeTasks_MalformedJSON(t *testing.T) {
	_, _, err := DecodeTasks([]byte(`{"id":`))
	assert.Error(t, err)
}

func TestDecodeTasks_ReportsUncoercibleFields(t *testing.T) {
	data := []byte(`[
		{"id": "ok", "title": "Fine"},
		"skipped",
		{"id": "t3", "title": "Half broken", "completed": "maybe", "importanceScore": "high"}
	]`)

	tasks, problems, err := DecodeTasks(data)
	require.NoError(t, err)
	require.Len(t, tasks, 2)

	broken := tasks[1]
	assert.Equal(t, "t3", broken.ID)
	assert.Equal(t, "Half broken", broken.Title)
	assert.False(t, broken.Completed)
	assert.Nil(t, broken.ImportanceScore)

	require.Len(t, problems, 1)
	assert.Equal(t, 2, problems[0].Index)
	assert.Equal(t, "t3", problems[0].ID)
	assert.Contains(t, problems[0].Error(), "completed")
	assert.Contains(t, problems[0].Error(), "importanceScore")
}

func TestDecodeCategories(t *testing.T) {
	cats, problems, err := DecodeCategories([]byte(`[{"id":"c1","name":"Work","color":"#F97316"}, 5, {"id":"c2","name":["not","a","name"]}]`))
	require.NoError(t, err)
	require.Len(t, problems, 1)
	assert.Equal(t, "c2", problems[0].ID)
	require.Len(t, cats, 2)
	assert.Equal(t, "Work", cats[0].Name)
	assert.Equal(t, "c2", cats[1].ID)
	assert.Empty(t, cats[1].Name)
}
