package cli

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestClient_DigestStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/digest/status" {
			t.Errorf("path = %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{
				"run_date":       "2025-06-01",
				"last_sent_date": "2025-05-31",
				"send_lock":      "processing",
			},
		})
	}))
	defer server.Close()

	c := NewClient(server.URL)
	status, err := c.DigestStatus()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status.RunDate != "2025-06-01" || status.SendLock != "processing" {
		t.Fatalf("status = %+v", status)
	}
}

func TestClient_TriggerDigest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/v1/digest/trigger" {
			t.Errorf("%s %s", r.Method, r.URL.Path)
		}
		w.WriteHeader(http.StatusAccepted)
		json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{
				"run_date": "2025-06-01",
				"job":      map[string]any{"id": "daily-news-2025-06-01", "status": "WAITING"},
			},
		})
	}))
	defer server.Close()

	c := NewClient(server.URL)
	result, err := c.TriggerDigest()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Job == nil || result.Job.ID != "daily-news-2025-06-01" {
		t.Fatalf("result = %+v", result)
	}
}

func TestClient_SendWelcome_PostsBody(t *testing.T) {
	var got SendWelcomeRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusAccepted)
		json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{"id": "welcome-email-abc", "kind": "welcome-email", "status": "WAITING"},
		})
	}))
	defer server.Close()

	c := NewClient(server.URL)
	job, err := c.SendWelcome(SendWelcomeRequest{Email: "a@example.com", Name: "A"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Email != "a@example.com" {
		t.Errorf("server received %+v", got)
	}
	if job.ID != "welcome-email-abc" {
		t.Errorf("job = %+v", job)
	}
}

func TestClient_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]string{"code": "NOT_FOUND", "message": "job not found"},
		})
	}))
	defer server.Close()

	c := NewClient(server.URL)
	_, err := c.GetJob("nope")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "NOT_FOUND") || !strings.Contains(err.Error(), "job not found") {
		t.Errorf("error = %v", err)
	}
}

func TestClient_NonJSONError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream down"))
	}))
	defer server.Close()

	c := NewClient(server.URL)
	_, err := c.DigestStatus()
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "502") {
		t.Errorf("error = %v, want HTTP status", err)
	}
}
