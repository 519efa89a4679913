package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gridironhq/props-api/internal/models"
)

func sampleJSON(t *testing.T, samples []models.GameSample) string {
	t.Helper()
	b, err := json.Marshal(samples)
	if err != nil {
		t.Fatalf("marshal samples: %v", err)
	}
	return string(b)
}

func validSample(playerID string, week int) models.GameSample {
	return models.GameSample{
		PlayerID:   playerID,
		PlayerName: "Test Receiver",
		Position:   "WR",
		TeamID:     "PHI",
		Season:     2025,
		Week:       week,
		Opponent:   "WSH",
		Home:       true,
		GameDate:   "2025-11-02",
		Stats: map[string]float64{
			"receiving_yards": 87,
			"receptions":      7,
			"targets":         10,
		},
	}
}

func TestIngestSamples(t *testing.T) {
	h := newTestHandler()
	queue := &MockIngestQueue{}
	h.pool = queue

	body := sampleJSON(t, []models.GameSample{
		validSample("p1", 8),
		validSample("p1", 9),
	})

	r := httptest.NewRequest("POST", "/ingest/samples", strings.NewReader(body))
	w := httptest.NewRecorder()

	h.IngestSamples(w, r)

	if w.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"accepted":2`) {
		t.Errorf("unexpected body: %s", w.Body.String())
	}
	if len(queue.Enqueued) != 2 {
		t.Errorf("expected 2 enqueued samples, got %d", len(queue.Enqueued))
	}
	if queue.Enqueued[0].Week != 8 || queue.Enqueued[1].Week != 9 {
		t.Errorf("samples enqueued out of order: %+v", queue.Enqueued)
	}
}

func TestIngestSamplesRejectsInvalid(t *testing.T) {
	h := newTestHandler()
	queue := &MockIngestQueue{}
	h.pool = queue

	bad := validSample("p2", 9)
	bad.Stats = nil

	body := sampleJSON(t, []models.GameSample{validSample("p1", 9), bad})

	r := httptest.NewRequest("POST", "/ingest/samples", strings.NewReader(body))
	w := httptest.NewRecorder()

	h.IngestSamples(w, r)

	if w.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"accepted":1`) || !strings.Contains(w.Body.String(), `"rejected":1`) {
		t.Errorf("unexpected body: %s", w.Body.String())
	}
	if len(queue.Enqueued) != 1 {
		t.Errorf("expected 1 enqueued sample, got %d", len(queue.Enqueued))
	}
}

func TestIngestSamplesQueueFull(t *testing.T) {
	h := newTestHandler()
	h.pool = &MockIngestQueue{
		EnqueueFunc: func(sample models.GameSample) bool { return false },
	}

	body := sampleJSON(t, []models.GameSample{
		validSample("p1", 8),
		validSample("p1", 9),
	})

	r := httptest.NewRequest("POST", "/ingest/samples", strings.NewReader(body))
	w := httptest.NewRecorder()

	h.IngestSamples(w, r)

	if w.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"accepted":0`) || !strings.Contains(w.Body.String(), `"dropped":2`) {
		t.Errorf("unexpected body: %s", w.Body.String())
	}
}

func TestIngestSamplesBadRequest(t *testing.T) {
	tests := []struct {
		name         string
		body         string
		expectedBody string
	}{
		{"Invalid JSON", `{not json`, "Invalid JSON body"},
		{"Object Instead Of Array", `{"player_id": "p1"}`, "Invalid JSON body"},
		{"Empty Batch", `[]`, "Empty sample batch"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler()

			r := httptest.NewRequest("POST", "/ingest/samples", strings.NewReader(tt.body))
			w := httptest.NewRecorder()

			h.IngestSamples(w, r)

			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
			}
			if !strings.Contains(w.Body.String(), tt.expectedBody) {
				t.Errorf("expected body to contain %q, got %q", tt.expectedBody, w.Body.String())
			}
		})
	}
}
