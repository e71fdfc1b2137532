package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/hitoshi/rightsguardian/internal/model"
)

// mockSessionLogService はSessionLogServiceInterfaceのモック実装。
type mockSessionLogService struct {
	logFn   func(ctx context.Context, userID, action, relatedID string) (*model.SessionLogEntry, error)
	listFn  func(ctx context.Context) ([]model.SessionLogEntry, error)
	statsFn func(ctx context.Context) (*model.SessionLogStats, error)
}

func (m *mockSessionLogService) Log(ctx context.Context, userID, action, relatedID string) (*model.SessionLogEntry, error) {
	if m.logFn != nil {
		return m.logFn(ctx, userID, action, relatedID)
	}
	return &model.SessionLogEntry{
		ID:        "log-1",
		UserID:    userID,
		Timestamp: time.Now().UTC(),
		Action:    action,
		RelatedID: relatedID,
	}, nil
}

func (m *mockSessionLogService) List(ctx context.Context) ([]model.SessionLogEntry, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return []model.SessionLogEntry{}, nil
}

func (m *mockSessionLogService) Stats(ctx context.Context) (*model.SessionLogStats, error) {
	if m.statsFn != nil {
		return m.statsFn(ctx)
	}
	return &model.SessionLogStats{ActionCounts: map[string]int{}}, nil
}

// --- POST /api/logs テスト ---

func TestLogHandler_RecordAction_Success(t *testing.T) {
	var capturedUserID, capturedAction, capturedRelatedID string
	svc := &mockSessionLogService{
		logFn: func(ctx context.Context, userID, action, relatedID string) (*model.SessionLogEntry, error) {
			capturedUserID = userID
			capturedAction = action
			capturedRelatedID = relatedID
			return &model.SessionLogEntry{
				ID:        "log-42",
				UserID:    userID,
				Timestamp: time.Now().UTC(),
				Action:    action,
				RelatedID: relatedID,
			}, nil
		},
	}
	h := NewLogHandler(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/logs",
		strings.NewReader(`{"action":"view_guide","related_id":"police-encounter"}`))
	req = withUserID(req, "0xWALLET1")
	w := httptest.NewRecorder()

	h.RecordAction(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusCreated)
	}

	if capturedUserID != "0xWALLET1" {
		t.Errorf("userID = %q, want %q", capturedUserID, "0xWALLET1")
	}
	if capturedAction != "view_guide" {
		t.Errorf("action = %q, want %q", capturedAction, "view_guide")
	}
	if capturedRelatedID != "police-encounter" {
		t.Errorf("relatedID = %q, want %q", capturedRelatedID, "police-encounter")
	}

	var body logEntryResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body.ID != "log-42" {
		t.Errorf("id = %q, want %q", body.ID, "log-42")
	}
}

func TestLogHandler_RecordAction_Anonymous_Allowed(t *testing.T) {
	var capturedUserID string
	svc := &mockSessionLogService{
		logFn: func(ctx context.Context, userID, action, relatedID string) (*model.SessionLogEntry, error) {
			capturedUserID = userID
			return &model.SessionLogEntry{ID: "log-1", UserID: userID, Action: action}, nil
		},
	}
	h := NewLogHandler(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/logs",
		strings.NewReader(`{"action":"share_snippet"}`))
	w := httptest.NewRecorder()

	h.RecordAction(w, req)

	if w.Result().StatusCode != http.StatusCreated {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusCreated)
	}
	if capturedUserID != model.AnonymousUserID {
		t.Errorf("userID = %q, want %q", capturedUserID, model.AnonymousUserID)
	}
}

func TestLogHandler_RecordAction_EmptyAction_Returns400(t *testing.T) {
	svc := &mockSessionLogService{
		logFn: func(ctx context.Context, userID, action, relatedID string) (*model.SessionLogEntry, error) {
			return nil, model.NewInvalidRequestError("actionは必須です")
		},
	}
	h := NewLogHandler(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/logs", strings.NewReader(`{"action":""}`))
	req = withUserID(req, "0xWALLET1")
	w := httptest.NewRecorder()

	h.RecordAction(w, req)

	if w.Result().StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusBadRequest)
	}
}

func TestLogHandler_RecordAction_InvalidBody_Returns400(t *testing.T) {
	h := NewLogHandler(&mockSessionLogService{})

	req := httptest.NewRequest(http.MethodPost, "/api/logs", strings.NewReader("{invalid"))
	req = withUserID(req, "0xWALLET1")
	w := httptest.NewRecorder()

	h.RecordAction(w, req)

	if w.Result().StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusBadRequest)
	}
}

// --- GET /api/logs テスト ---

func TestLogHandler_ListLogs_NewestFirst(t *testing.T) {
	now := time.Now().UTC()
	svc := &mockSessionLogService{
		listFn: func(ctx context.Context) ([]model.SessionLogEntry, error) {
			return []model.SessionLogEntry{
				{ID: "log-2", UserID: "0xWALLET1", Timestamp: now, Action: "toggle_checklist", RelatedID: "police-encounter"},
				{ID: "log-1", UserID: "anonymous", Timestamp: now.Add(-time.Minute), Action: "view_guide"},
			}, nil
		},
	}
	h := NewLogHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/logs", nil)
	w := httptest.NewRecorder()

	h.ListLogs(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var body logListResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body.Total != 2 {
		t.Errorf("total = %d, want 2", body.Total)
	}
	if len(body.Entries) != 2 || body.Entries[0].ID != "log-2" {
		t.Errorf("entries[0].id = %q, want %q", body.Entries[0].ID, "log-2")
	}
	if body.Entries[1].RelatedID != "" {
		t.Errorf("entries[1].related_id = %q, want empty", body.Entries[1].RelatedID)
	}
}

func TestLogHandler_ListLogs_Empty(t *testing.T) {
	h := NewLogHandler(&mockSessionLogService{})

	req := httptest.NewRequest(http.MethodGet, "/api/logs", nil)
	w := httptest.NewRecorder()

	h.ListLogs(w, req)

	var body logListResponse
	if err := json.NewDecoder(w.Result().Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body.Total != 0 {
		t.Errorf("total = %d, want 0", body.Total)
	}
	if body.Entries == nil {
		t.Error("entries should be an empty array, not null")
	}
}

// --- GET /api/analytics テスト ---

func TestLogHandler_GetAnalytics_Success(t *testing.T) {
	lastActive := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	svc := &mockSessionLogService{
		statsFn: func(ctx context.Context) (*model.SessionLogStats, error) {
			return &model.SessionLogStats{
				TotalActions:       7,
				UniqueGuidesViewed: 3,
				ActionCounts:       map[string]int{"view_guide": 4, "share_snippet": 3},
				LastActiveAt:       &lastActive,
			}, nil
		},
	}
	h := NewLogHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/analytics", nil)
	w := httptest.NewRecorder()

	h.GetAnalytics(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var body analyticsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body.TotalActions != 7 {
		t.Errorf("total_actions = %d, want 7", body.TotalActions)
	}
	if body.UniqueGuidesViewed != 3 {
		t.Errorf("unique_guides_viewed = %d, want 3", body.UniqueGuidesViewed)
	}
	if body.ActionCounts["view_guide"] != 4 {
		t.Errorf("action_counts[view_guide] = %d, want 4", body.ActionCounts["view_guide"])
	}
	if body.LastActiveAt == nil || !body.LastActiveAt.Equal(lastActive) {
		t.Errorf("last_active_at = %v, want %v", body.LastActiveAt, lastActive)
	}
}

func TestLogHandler_GetAnalytics_EmptyLog_OmitsLastActive(t *testing.T) {
	h := NewLogHandler(&mockSessionLogService{})

	req := httptest.NewRequest(http.MethodGet, "/api/analytics", nil)
	w := httptest.NewRecorder()

	h.GetAnalytics(w, req)

	var raw map[string]json.RawMessage
	if err := json.NewDecoder(w.Result().Body).Decode(&raw); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if _, ok := raw["last_active_at"]; ok {
		t.Error("last_active_at should be omitted for an empty log")
	}
}
