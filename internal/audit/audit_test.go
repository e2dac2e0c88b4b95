package audit

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmehra/lexassist/internal/db"
)

func setupStore(t *testing.T) *Store {
	t.Helper()
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return NewStore(database)
}

func TestRecordAndGetByID(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	d := Decision{
		ID:           "test-1",
		SessionID:    "sess-42",
		InputMode:    "Text",
		Utterance:    "I want to check my claim",
		Intent:       "CheckClaimStatus",
		Action:       "ElicitSlot",
		SlotToElicit: "ClaimNumber",
		IntentState:  "InProgress",
	}

	if err := store.Record(ctx, d); err != nil {
		t.Fatalf("Record: %v", err)
	}

	got, err := store.GetByID(ctx, "test-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}

	if got.SessionID != "sess-42" {
		t.Errorf("SessionID = %q, want %q", got.SessionID, "sess-42")
	}
	if got.Intent != "CheckClaimStatus" {
		t.Errorf("Intent = %q, want %q", got.Intent, "CheckClaimStatus")
	}
	if got.Action != "ElicitSlot" {
		t.Errorf("Action = %q, want %q", got.Action, "ElicitSlot")
	}
	if got.SlotToElicit != "ClaimNumber" {
		t.Errorf("SlotToElicit = %q, want %q", got.SlotToElicit, "ClaimNumber")
	}
	if got.IntentState != "InProgress" {
		t.Errorf("IntentState = %q, want %q", got.IntentState, "InProgress")
	}
	if got.Timestamp.IsZero() {
		t.Error("expected a populated timestamp")
	}
}

func TestRecordGeneratesUUID(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	d := Decision{
		SessionID: "sess-1",
		Intent:    "FallbackIntent",
		Action:    "ElicitIntent",
	}

	if err := store.Record(ctx, d); err != nil {
		t.Fatalf("Record: %v", err)
	}

	decisions, err := store.Query(ctx, QueryFilter{SessionID: "sess-1"})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(decisions) != 1 {
		t.Fatalf("expected 1 decision, got %d", len(decisions))
	}
	if decisions[0].ID == "" {
		t.Error("expected generated ID, got empty string")
	}
}

func TestQueryFilterBySession(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	for _, sess := range []string{"a", "b", "a"} {
		if err := store.Record(ctx, Decision{
			SessionID: sess,
			Action:    "Delegate",
		}); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	decisions, err := store.Query(ctx, QueryFilter{SessionID: "a"})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(decisions) != 2 {
		t.Errorf("expected 2 decisions for session a, got %d", len(decisions))
	}
}

func TestQueryFilterByAction(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	for _, action := range []string{"Close", "Delegate", "Close"} {
		if err := store.Record(ctx, Decision{
			SessionID: "sess-1",
			Action:    action,
		}); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	decisions, err := store.Query(ctx, QueryFilter{Action: "Close"})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(decisions) != 2 {
		t.Errorf("expected 2 Close decisions, got %d", len(decisions))
	}
}

func TestQueryLimitOffset(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if err := store.Record(ctx, Decision{
			SessionID: "sess-1",
			Action:    "Delegate",
		}); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	decisions, err := store.Query(ctx, QueryFilter{Limit: 2})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(decisions) != 2 {
		t.Errorf("expected 2 decisions with limit, got %d", len(decisions))
	}

	decisions, err = store.Query(ctx, QueryFilter{Limit: 2, Offset: 3})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(decisions) != 2 {
		t.Errorf("expected 2 decisions with offset, got %d", len(decisions))
	}
}

func TestDeleteBefore(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := store.Record(ctx, Decision{
			SessionID: "sess-1",
			Action:    "Delegate",
		}); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	deleted, err := store.DeleteBefore(ctx, time.Now().Add(24*time.Hour))
	if err != nil {
		t.Fatalf("DeleteBefore: %v", err)
	}
	if deleted != 3 {
		t.Errorf("expected 3 deleted, got %d", deleted)
	}

	decisions, err := store.Query(ctx, QueryFilter{})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(decisions) != 0 {
		t.Errorf("expected 0 remaining decisions, got %d", len(decisions))
	}
}

func TestGetByIDNotFound(t *testing.T) {
	store := setupStore(t)

	if _, err := store.GetByID(context.Background(), "nonexistent"); err == nil {
		t.Error("expected error for nonexistent ID, got nil")
	}
}

// --- HTTP handler tests ---

func setupRouter(t *testing.T) (chi.Router, *Store) {
	t.Helper()
	store := setupStore(t)
	r := chi.NewRouter()
	RegisterRoutes(r, store)
	return r, store
}

func TestHTTPGetByID(t *testing.T) {
	r, store := setupRouter(t)
	ctx := context.Background()

	d := Decision{
		ID:          "http-1",
		SessionID:   "sess-9",
		Intent:      "CheckClaimStatus",
		Action:      "Close",
		IntentState: "Fulfilled",
	}
	if err := store.Record(ctx, d); err != nil {
		t.Fatalf("Record: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/decisions/http-1", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var got Decision
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.ID != "http-1" {
		t.Errorf("ID = %q, want %q", got.ID, "http-1")
	}
	if got.Intent != "CheckClaimStatus" {
		t.Errorf("Intent = %q, want %q", got.Intent, "CheckClaimStatus")
	}
}

func TestHTTPGetByIDNotFound(t *testing.T) {
	r, _ := setupRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/decisions/missing", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestHTTPQueryWithFilter(t *testing.T) {
	r, store := setupRouter(t)
	ctx := context.Background()

	for _, sess := range []string{"a", "b", "a"} {
		if err := store.Record(ctx, Decision{
			SessionID: sess,
			Action:    "Delegate",
		}); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/decisions?session=a&limit=10", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var decisions []Decision
	if err := json.NewDecoder(rec.Body).Decode(&decisions); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(decisions) != 2 {
		t.Errorf("expected 2 decisions for session a, got %d", len(decisions))
	}
}
