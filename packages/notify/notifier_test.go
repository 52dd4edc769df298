package notify

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShouldNotify(t *testing.T) {
	passed := RunSummary{Performed: 3}
	failed := RunSummary{Performed: 1, Failed: 2}
	cancelled := RunSummary{Cancelled: true}

	tests := []struct {
		name    string
		on      NotifyOn
		summary RunSummary
		want    bool
	}{
		{"always passed", NotifyAlways, passed, true},
		{"always failed", NotifyAlways, failed, true},
		{"failure only on failure", NotifyFailure, failed, true},
		{"failure skips success", NotifyFailure, passed, false},
		{"failure on cancellation", NotifyFailure, cancelled, true},
		{"success only on success", NotifySuccess, passed, true},
		{"success skips failure", NotifySuccess, failed, false},
		{"unknown policy", NotifyOn("weird"), failed, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ShouldNotify(tt.on, tt.summary))
		})
	}
}

func TestWebhookNotifierPostsPayload(t *testing.T) {
	var body []byte
	var contentType string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		contentType = r.Header.Get("Content-Type")
		body, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	n := NewWebhookNotifier(server.URL)
	err := n.Notify(RunSummary{
		Stories:   2,
		Scenarios: 5,
		Performed: 12,
		Failed:    1,
		Duration:  3 * time.Second,
		Failures:  []string{"When it breaks: boom"},
	})
	require.NoError(t, err)

	assert.Equal(t, "application/json", contentType)
	var payload map[string]any
	require.NoError(t, json.Unmarshal(body, &payload))
	assert.Equal(t, "failed", payload["status"])
	assert.Equal(t, float64(3000), payload["duration_ms"])
}

func TestWebhookNotifierStatusValues(t *testing.T) {
	tests := []struct {
		name    string
		summary RunSummary
		want    string
	}{
		{"passed", RunSummary{Performed: 1}, "passed"},
		{"failed", RunSummary{Failed: 1}, "failed"},
		{"pending", RunSummary{Pending: 1}, "pending"},
		{"cancelled", RunSummary{Cancelled: true, Failed: 1}, "cancelled"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var payload webhookPayload
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_ = json.NewDecoder(r.Body).Decode(&payload)
			}))
			defer server.Close()

			require.NoError(t, NewWebhookNotifier(server.URL).Notify(tt.summary))
			assert.Equal(t, tt.want, payload.Status)
		})
	}
}

func TestWebhookNotifierRejectsErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer server.Close()

	err := NewWebhookNotifier(server.URL).Notify(RunSummary{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}
