package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/dmehra/lexassist/internal/audit"
	"github.com/dmehra/lexassist/internal/db"
	"github.com/dmehra/lexassist/internal/dialog"
)

type stubDecider struct {
	resp *dialog.Response
	err  error
}

func (d *stubDecider) Decide(_ context.Context, _ *dialog.Event) (*dialog.Response, error) {
	return d.resp, d.err
}

func delegateResponse() *dialog.Response {
	return &dialog.Response{
		SessionState: dialog.SessionState{
			DialogAction: &dialog.WireAction{Type: "Delegate"},
			Intent:       dialog.Intent{Name: "CheckClaimStatus", State: dialog.StateInProgress},
		},
	}
}

func TestHealthCheck(t *testing.T) {
	srv := New(Config{Port: 0}, &stubDecider{resp: delegateResponse()}, nil, zap.NewNop())

	req := httptest.NewRequest("GET", "/healthz", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("expected status 'ok', got %q", body["status"])
	}
}

func TestTurnDecided(t *testing.T) {
	srv := New(Config{Port: 0}, &stubDecider{resp: delegateResponse()}, nil, zap.NewNop())

	ev := dialog.Event{
		SessionID:       "sess-1",
		InputTranscript: "check my claim",
		InputMode:       dialog.ModeText,
	}
	body, _ := json.Marshal(ev)

	req := httptest.NewRequest("POST", "/v1/turn", bytes.NewReader(body))
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp dialog.Response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.SessionState.DialogAction == nil || resp.SessionState.DialogAction.Type != "Delegate" {
		t.Errorf("unexpected dialog action: %+v", resp.SessionState.DialogAction)
	}
}

func TestTurnMalformedBody(t *testing.T) {
	srv := New(Config{Port: 0}, &stubDecider{resp: delegateResponse()}, nil, zap.NewNop())

	req := httptest.NewRequest("POST", "/v1/turn", bytes.NewReader([]byte("{not json")))
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestTurnDeciderError(t *testing.T) {
	srv := New(Config{Port: 0}, &stubDecider{err: errors.New("model unavailable")}, nil, zap.NewNop())

	req := httptest.NewRequest("POST", "/v1/turn", bytes.NewReader([]byte(`{}`)))
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", w.Code)
	}
}

func TestTurnRecordsDecision(t *testing.T) {
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	defer database.Close()
	store := audit.NewStore(database)

	srv := New(Config{Port: 0}, &stubDecider{resp: delegateResponse()}, store, zap.NewNop())

	ev := dialog.Event{SessionID: "sess-7", InputTranscript: "hello", InputMode: dialog.ModeText}
	body, _ := json.Marshal(ev)

	req := httptest.NewRequest("POST", "/v1/turn", bytes.NewReader(body))
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	decisions, err := store.Query(context.Background(), audit.QueryFilter{SessionID: "sess-7"})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(decisions) != 1 {
		t.Fatalf("expected 1 recorded decision, got %d", len(decisions))
	}
	if decisions[0].Action != "Delegate" {
		t.Errorf("Action = %q, want Delegate", decisions[0].Action)
	}
}

func TestCORSHeaders(t *testing.T) {
	srv := New(Config{Port: 0, AllowAll: true}, &stubDecider{resp: delegateResponse()}, nil, zap.NewNop())

	req := httptest.NewRequest("OPTIONS", "/healthz", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", "GET")
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Error("expected CORS Allow-Origin header")
	}
}

func TestDecisionRoutesMounted(t *testing.T) {
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	defer database.Close()
	store := audit.NewStore(database)

	srv := New(Config{Port: 0}, &stubDecider{resp: delegateResponse()}, store, zap.NewNop())

	req := httptest.NewRequest("GET", "/v1/decisions", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200 from decisions listing, got %d", w.Code)
	}
}
