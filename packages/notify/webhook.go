package notify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// WebhookNotifier POSTs run summaries as JSON to an arbitrary URL.
type WebhookNotifier struct {
	url    string
	client *http.Client
}

// WebhookOption is a functional option for WebhookNotifier.
type WebhookOption func(*WebhookNotifier)

// WithHTTPClient overrides the HTTP client, mainly for tests.
func WithHTTPClient(client *http.Client) WebhookOption {
	return func(w *WebhookNotifier) {
		w.client = client
	}
}

// NewWebhookNotifier creates a notifier posting to url.
func NewWebhookNotifier(url string, opts ...WebhookOption) *WebhookNotifier {
	w := &WebhookNotifier{
		url:    url,
		client: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// webhookPayload is the wire format for webhook notifications.
type webhookPayload struct {
	Status     string     `json:"status"`
	Summary    RunSummary `json:"summary"`
	DurationMS int64      `json:"duration_ms"`
	Timestamp  string     `json:"timestamp"`
}

// Notify sends the summary.
func (w *WebhookNotifier) Notify(summary RunSummary) error {
	status := "passed"
	switch {
	case summary.Cancelled:
		status = "cancelled"
	case summary.Failed > 0:
		status = "failed"
	case summary.Pending > 0:
		status = "pending"
	}

	payload := webhookPayload{
		Status:     status,
		Summary:    summary,
		DurationMS: summary.Duration.Milliseconds(),
		Timestamp:  time.Now().Format(time.RFC3339),
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal webhook payload: %w", err)
	}

	req, err := http.NewRequest("POST", w.url, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send webhook notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("webhook returned status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}
