package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"nara_fleet/internal/models"
	"nara_fleet/internal/service"
)

func TestLogsHandler_ListAndValidation(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Second)
	events := []models.JournalEntry{
		{EventID: "e1", OccurredAt: now, Type: models.JournalStatus, Description: "P1 Status Updated"},
		{EventID: "e2", OccurredAt: now.Add(1 * time.Second), Type: models.JournalCommand, Description: "PID P1 Flash"},
	}
	logs := &mockEventLog{resp: events}
	s := &service.Service{EventLog: logs}
	r := newTestRouter(s)

	// Missing/invalid 'from' → 400
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/logs/?from=notatime", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 invalid 'from', got %d", w.Code)
	}

	// Valid range and type (lowercase type should be normalized to upper in service call)
	w = httptest.NewRecorder()
	q := "/api/v1/logs/?from=" + now.Format(time.RFC3339) + "&to=" + now.Add(2*time.Second).Format(time.RFC3339) + "&type=command"
	req = httptest.NewRequest(http.MethodGet, q, nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("logs status=%d, body=%s", w.Code, w.Body.String())
	}
	var out struct {
		Count  int                   `json:"count"`
		Events []models.JournalEntry `json:"events"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	if out.Count != 2 || len(out.Events) != 2 {
		t.Fatalf("unexpected response: %+v", out)
	}
	if logs.lastType != models.JournalCommand {
		t.Fatalf("expected lastType COMMAND, got %q", logs.lastType)
	}
}

func TestLogsHandler_DateOnlyToAndRangeError(t *testing.T) {
	logs := &mockEventLog{}
	r := newTestRouter(&service.Service{EventLog: logs})

	w := doRequest(r, http.MethodGet, "/api/v1/logs/?from=2026-10-01&to=2026-10-01", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	wantTo := time.Date(2026, 10, 1, 23, 59, 59, 999999999, time.UTC)
	if !logs.lastTo.Equal(wantTo) {
		t.Fatalf("to=%v want %v", logs.lastTo, wantTo)
	}

	logs.err = service.ErrInvalidTimeRange
	w = doRequest(r, http.MethodGet, "/api/v1/logs/?from=2026-10-02&to=2026-10-01", "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for inverted range, got %d", w.Code)
	}

	logs.err = errors.New("database is locked")
	w = doRequest(r, http.MethodGet, "/api/v1/logs/", "")
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
}
