package reminder

import (
	"strings"
	"testing"

	"github.com/rezkam/quadrant/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestTemplateConfigured(t *testing.T) {
	tests := []struct {
		id       string
		expected bool
	}{
		{"", false},
		{"请在此填写你的订阅消息模板ID", false},
		{"YOUR_TEMPLATE_ID", false},
		{"a1B2c3", true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, TemplateConfigured(tt.id), tt.id)
	}
}

func TestBuildMessage(t *testing.T) {
	tests := []struct {
		name     string
		task     *domain.Task
		expected Message
	}{
		{
			name: "defaults",
			task: &domain.Task{},
			expected: Message{
				"thing1": {Value: "任务提醒"},
				"time2":  {Value: ""},
				"thing3": {Value: "请及时关注任务进度"},
			},
		},
		{
			name: "reminder label wins over due label",
			task: &domain.Task{
				Title:        "写周报",
				Description:  "整理本周进展",
				ReminderDate: "2024-01-10",
				ReminderTime: "09:00",
				DueDate:      "2024-01-12",
				DueTime:      "18:00",
			},
			expected: Message{
				"thing1": {Value: "写周报"},
				"time2":  {Value: "2024-01-10 09:00"},
				"thing3": {Value: "整理本周进展"},
			},
		},
		{
			name: "due date without clock",
			task: &domain.Task{Title: "缴费", DueDate: "2024-01-12"},
			expected: Message{
				"thing1": {Value: "缴费"},
				"time2":  {Value: "2024-01-12"},
				"thing3": {Value: "请及时关注任务进度"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, BuildMessage(tt.task))
		})
	}
}

func TestBuildMessage_TruncatesByCharacter(t *testing.T) {
	title := strings.Repeat("任", 25)
	msg := BuildMessage(&domain.Task{Title: title, Description: strings.Repeat("a", 30)})

	assert.Equal(t, strings.Repeat("任", 20), msg["thing1"].Value)
	assert.Equal(t, strings.Repeat("a", 20), msg["thing3"].Value)
}
