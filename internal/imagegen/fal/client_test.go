package fal

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"cardify-backend/internal/imagegen"
	"cardify-backend/internal/llm"
)

// fakeQueue simulates the fal queue API: submit returns status and response
// URLs, status advances through the given sequence on each poll.
type fakeQueue struct {
	mu       sync.Mutex
	statuses []map[string]any
	polls    int
	result   map[string]any
	submits  []map[string]any
}

func (q *fakeQueue) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && strings.HasPrefix(r.URL.Path, "/fal-ai/"):
			if got := r.Header.Get("Authorization"); got != "Key test-key" {
				t.Errorf("unexpected authorization header %q", got)
			}
			var body map[string]any
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				t.Errorf("decode submit: %v", err)
			}
			q.mu.Lock()
			q.submits = append(q.submits, body)
			q.mu.Unlock()
			base := "http://" + r.Host
			_ = json.NewEncoder(w).Encode(map[string]string{
				"request_id":   "req-1",
				"status_url":   base + "/requests/req-1/status",
				"response_url": base + "/requests/req-1",
			})
		case strings.HasSuffix(r.URL.Path, "/status"):
			q.mu.Lock()
			idx := q.polls
			if idx >= len(q.statuses) {
				idx = len(q.statuses) - 1
			}
			status := q.statuses[idx]
			q.polls++
			q.mu.Unlock()
			_ = json.NewEncoder(w).Encode(status)
		default:
			_ = json.NewEncoder(w).Encode(q.result)
		}
	}
}

func newTestRenderer(t *testing.T, q *fakeQueue) *Client {
	t.Helper()
	srv := httptest.NewServer(q.handler(t))
	t.Cleanup(srv.Close)

	client, err := NewClient("test-key")
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	client.baseURL = srv.URL
	client.pollInterval = time.Millisecond
	client.renderWait = 2 * time.Second
	return client
}

func TestRenderFaceCompletes(t *testing.T) {
	queue := &fakeQueue{
		statuses: []map[string]any{
			{"status": "IN_QUEUE"},
			{"status": "IN_PROGRESS", "logs": []map[string]string{{"message": "rendering 50%"}}},
			{"status": "COMPLETED"},
		},
		result: map[string]any{
			"images": []map[string]string{{"url": "https://cdn.example.com/front.png"}},
		},
	}
	client := newTestRenderer(t, queue)

	var progress []string
	client.Progress = func(face imagegen.Face, message string) {
		progress = append(progress, string(face)+": "+message)
	}

	brief := llm.CardBrief{Occasion: "birthday", FrontText: "Happy Birthday"}
	url, err := client.RenderFace(context.Background(), brief, imagegen.FaceFront)
	if err != nil {
		t.Fatalf("RenderFace: %v", err)
	}
	if url != "https://cdn.example.com/front.png" {
		t.Fatalf("unexpected url %q", url)
	}

	if len(queue.submits) != 1 {
		t.Fatalf("expected 1 submit, got %d", len(queue.submits))
	}
	if got := queue.submits[0]["image_size"]; got != "portrait_4_3" {
		t.Fatalf("unexpected image_size %v", got)
	}
	prompt, _ := queue.submits[0]["prompt"].(string)
	if !strings.Contains(prompt, "Happy Birthday") {
		t.Fatalf("expected front text in prompt, got %q", prompt)
	}
	if len(progress) != 1 || !strings.Contains(progress[0], "rendering 50%") {
		t.Fatalf("unexpected progress messages %v", progress)
	}
}

func TestRenderFaceJobFailed(t *testing.T) {
	queue := &fakeQueue{
		statuses: []map[string]any{
			{"status": "FAILED", "error": "content policy"},
		},
	}
	client := newTestRenderer(t, queue)

	_, err := client.RenderFace(context.Background(), llm.CardBrief{}, imagegen.FaceInside)
	if err == nil || !strings.Contains(err.Error(), "content policy") {
		t.Fatalf("expected failure reason in error, got %v", err)
	}
}

func TestRenderFaceMissingOutputImage(t *testing.T) {
	queue := &fakeQueue{
		statuses: []map[string]any{{"status": "COMPLETED"}},
		result:   map[string]any{"images": []any{}},
	}
	client := newTestRenderer(t, queue)

	_, err := client.RenderFace(context.Background(), llm.CardBrief{}, imagegen.FaceFront)
	if err == nil || !strings.Contains(err.Error(), "missing output image") {
		t.Fatalf("expected missing output image error, got %v", err)
	}
}

func TestRenderFaceTimesOut(t *testing.T) {
	queue := &fakeQueue{
		statuses: []map[string]any{{"status": "IN_QUEUE"}},
	}
	client := newTestRenderer(t, queue)
	client.renderWait = 50 * time.Millisecond

	_, err := client.RenderFace(context.Background(), llm.CardBrief{}, imagegen.FaceFront)
	if err == nil || !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline error, got %v", err)
	}
}

func TestNewClientRequiresKey(t *testing.T) {
	if _, err := NewClient(" "); err == nil {
		t.Fatalf("expected error for missing key")
	}
}
