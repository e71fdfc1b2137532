package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/hitoshi/rightsguardian/internal/model"
)

// SessionLogServiceInterface はセッションログハンドラーが必要とするサービスインターフェース。
type SessionLogServiceInterface interface {
	// Log はアクションを追記する。
	Log(ctx context.Context, userID, action, relatedID string) (*model.SessionLogEntry, error)
	// List は新しい順のログ一覧を返す。
	List(ctx context.Context) ([]model.SessionLogEntry, error)
	// Stats はログから導出した集計値を返す。
	Stats(ctx context.Context) (*model.SessionLogStats, error)
}

// LogHandler はセッションログと分析のHTTPハンドラー。
type LogHandler struct {
	service SessionLogServiceInterface
}

// NewLogHandler はLogHandlerを生成する。
func NewLogHandler(service SessionLogServiceInterface) *LogHandler {
	return &LogHandler{service: service}
}

// --- リクエスト/レスポンス型 ---

// logRequest はアクション記録リクエストのボディ。
type logRequest struct {
	Action    string `json:"action"`
	RelatedID string `json:"related_id"`
}

// logEntryResponse はログエントリのレスポンス。
type logEntryResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Timestamp time.Time `json:"timestamp"`
	Action    string    `json:"action"`
	RelatedID string    `json:"related_id,omitempty"`
}

// logListResponse はログ一覧のレスポンス。
type logListResponse struct {
	Entries []logEntryResponse `json:"entries"`
	Total   int                `json:"total"`
}

// analyticsResponse はセッションログから導出した集計のレスポンス。
type analyticsResponse struct {
	TotalActions       int            `json:"total_actions"`
	UniqueGuidesViewed int            `json:"unique_guides_viewed"`
	ActionCounts       map[string]int `json:"action_counts"`
	LastActiveAt       *time.Time     `json:"last_active_at,omitempty"`
}

// RecordAction はクライアントが報告したアクションをログに追記する。
// POST /api/logs
func (h *LogHandler) RecordAction(w http.ResponseWriter, r *http.Request) {
	userID := currentUserID(r)

	var req logRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest,
			model.NewInvalidRequestError("リクエストボディの解析に失敗しました"))
		return
	}

	entry, err := h.service.Log(r.Context(), userID, req.Action, req.RelatedID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toLogEntryResponse(*entry))
}

// ListLogs はセッションログ一覧を新しい順で取得する。
// GET /api/logs
func (h *LogHandler) ListLogs(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.List(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	results := make([]logEntryResponse, len(entries))
	for i, entry := range entries {
		results[i] = toLogEntryResponse(entry)
	}

	writeJSON(w, http.StatusOK, logListResponse{Entries: results, Total: len(results)})
}

// GetAnalytics はセッションログから導出した集計値を取得する。
// GET /api/analytics
func (h *LogHandler) GetAnalytics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, analyticsResponse{
		TotalActions:       stats.TotalActions,
		UniqueGuidesViewed: stats.UniqueGuidesViewed,
		ActionCounts:       stats.ActionCounts,
		LastActiveAt:       stats.LastActiveAt,
	})
}

// toLogEntryResponse はドメインのSessionLogEntryをレスポンス型に変換する。
func toLogEntryResponse(entry model.SessionLogEntry) logEntryResponse {
	return logEntryResponse{
		ID:        entry.ID,
		UserID:    entry.UserID,
		Timestamp: entry.Timestamp,
		Action:    entry.Action,
		RelatedID: entry.RelatedID,
	}
}
