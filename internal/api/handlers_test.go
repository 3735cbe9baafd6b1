package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kotan/tally/internal/bot"
	"github.com/kotan/tally/internal/metrics"
	"github.com/kotan/tally/internal/storage/sqlite"
)

func setupServer(t *testing.T) *httptest.Server {
	t.Helper()

	tmpFile, err := os.CreateTemp("", "tally-api-test-*.db")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	tmpFile.Close()

	store, err := sqlite.New(tmpFile.Name())
	if err != nil {
		os.Remove(tmpFile.Name())
		t.Fatalf("failed to create store: %v", err)
	}

	m := metrics.NewWith(prometheus.NewRegistry())
	server := httptest.NewServer(New(bot.New(store, m, 5)).Handler())
	t.Cleanup(func() {
		server.Close()
		store.Close()
		os.Remove(tmpFile.Name())
	})
	return server
}

func postEvent(t *testing.T, server *httptest.Server, body string) (*http.Response, eventResponse) {
	t.Helper()

	resp, err := http.Post(server.URL+"/v1/events", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST failed: %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() })

	var decoded eventResponse
	if resp.StatusCode == http.StatusOK {
		if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
	}
	return resp, decoded
}

func TestHandleEventFlow(t *testing.T) {
	server := setupServer(t)

	resp, out := postEvent(t, server,
		`{"type":"action","group_key":"g1","actor_id":"u1","actor_label":"Alice","action":"select_category","params":{"category":"lunch"}}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if len(out.Replies) == 0 || !strings.Contains(out.Replies[len(out.Replies)-1].Text, "lunch") {
		t.Errorf("replies = %+v, want amount prompt for lunch", out.Replies)
	}

	resp, out = postEvent(t, server,
		`{"type":"text","group_key":"g1","actor_id":"u1","actor_label":"Alice","text":"120"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var sawConfirmation, sawMenu bool
	for _, r := range out.Replies {
		if strings.Contains(r.Text, "lunch") && strings.Contains(r.Text, "120") {
			sawConfirmation = true
		}
		if r.Menu == "main" {
			sawMenu = true
		}
	}
	if !sawConfirmation || !sawMenu {
		t.Errorf("replies = %+v, want confirmation plus main menu", out.Replies)
	}
}

func TestHandleEventValidation(t *testing.T) {
	server := setupServer(t)

	tests := []struct {
		name string
		body string
		want int
	}{
		{"malformed JSON", `{"type":`, http.StatusBadRequest},
		{"missing keys", `{"type":"text","text":"hi"}`, http.StatusBadRequest},
		{"bad type", `{"type":"voice","group_key":"g1","actor_id":"u1"}`, http.StatusBadRequest},
		{"valid text turn", `{"type":"text","group_key":"g1","actor_id":"u1","text":"hi"}`, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, _ := postEvent(t, server, tt.body)
			if resp.StatusCode != tt.want {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.want)
			}
		})
	}
}

func TestTraceIDEchoed(t *testing.T) {
	server := setupServer(t)

	req, err := http.NewRequest(http.MethodGet, server.URL+"/healthz", nil)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	req.Header.Set(TraceIDHeader, "trace-123")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	defer resp.Body.Close()

	if got := resp.Header.Get(TraceIDHeader); got != "trace-123" {
		t.Errorf("trace id = %q, want caller's id echoed", got)
	}

	resp2, err := http.Get(server.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	defer resp2.Body.Close()
	if resp2.Header.Get(TraceIDHeader) == "" {
		t.Error("server should assign a trace id when the caller sends none")
	}
}
