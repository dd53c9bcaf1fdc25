package reminder

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// LogSender writes reminders to the structured log instead of delivering them.
type LogSender struct {
	Logger *slog.Logger
}

func (s LogSender) Send(ctx context.Context, e Entry) error {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.InfoContext(ctx, "reminder due",
		"task_id", e.TaskID,
		"template_id", e.TemplateID,
		"page", e.Page,
		"reminder_at", e.ReminderDateTime,
		"title", e.MessageData["thing1"].Value,
	)
	return nil
}

// WebhookPayload is the JSON body posted by WebhookSender.
type WebhookPayload struct {
	TaskID     string  `json:"taskId"`
	TemplateID string  `json:"templateId"`
	Page       string  `json:"page"`
	Data       Message `json:"data"`
}

// WebhookSender posts reminders to an HTTP endpoint. Any non-2xx response is
// a delivery failure.
type WebhookSender struct {
	url    string
	client *http.Client
}

// NewWebhookSender creates a sender posting to url with a traced client.
func NewWebhookSender(url string, timeout time.Duration) *WebhookSender {
	return &WebhookSender{
		url: url,
		client: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

func (s *WebhookSender) Send(ctx context.Context, e Entry) error {
	page := e.Page
	if page == "" {
		page = TargetPage
	}
	data := e.MessageData
	if data == nil {
		data = Message{}
	}

	body, err := json.Marshal(WebhookPayload{
		TaskID:     e.TaskID,
		TemplateID: e.TemplateID,
		Page:       page,
		Data:       data,
	})
	if err != nil {
		return fmt.Errorf("failed to encode reminder: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to post reminder: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}
