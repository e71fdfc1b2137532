package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/rightsguardian/internal/model"
)

// ChecklistServiceInterface はチェックリストハンドラーが必要とするサービスインターフェース。
type ChecklistServiceInterface interface {
	// Get はチェックリストを遅延初期化して進行状態を返す。
	Get(ctx context.Context, userID, guideID string) (*model.ChecklistProgress, error)
	// Toggle は項目の完了状態を反転する。
	Toggle(ctx context.Context, userID, guideID, itemID string) (*model.ChecklistProgress, error)
	// Reset は全項目を未完了に戻す。
	Reset(ctx context.Context, userID, guideID string) (*model.ChecklistProgress, error)
}

// ChecklistHandler はチェックリストのHTTPハンドラー。
type ChecklistHandler struct {
	service ChecklistServiceInterface
	metrics MetricsRecorder
}

// NewChecklistHandler はChecklistHandlerを生成する。
func NewChecklistHandler(service ChecklistServiceInterface, metrics MetricsRecorder) *ChecklistHandler {
	return &ChecklistHandler{
		service: service,
		metrics: metrics,
	}
}

// --- レスポンス型 ---

// checklistItemResponse はチェックリスト項目のレスポンス。
type checklistItemResponse struct {
	ItemID    string `json:"item_id"`
	StepText  string `json:"step_text"`
	Completed bool   `json:"completed"`
	Order     int    `json:"order"`
}

// checklistProgressResponse はチェックリスト進行状態のレスポンス。
type checklistProgressResponse struct {
	GuideID        string                  `json:"guide_id"`
	State          string                  `json:"state"`
	CompletedCount int                     `json:"completed_count"`
	TotalCount     int                     `json:"total_count"`
	Items          []checklistItemResponse `json:"items"`
}

// toggleRequest はチェックリスト項目トグルリクエストのボディ。
type toggleRequest struct {
	ItemID string `json:"item_id"`
}

// GetChecklist はチェックリストを取得する。初回アクセス時に
// ガイドのテンプレートから遅延初期化される。
// GET /api/checklist/:guideId
func (h *ChecklistHandler) GetChecklist(w http.ResponseWriter, r *http.Request) {
	userID := currentUserID(r)
	guideID := chi.URLParam(r, "guideId")

	progress, err := h.service.Get(r.Context(), userID, guideID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toChecklistProgressResponse(progress))
}

// ToggleChecklistItem はチェックリスト項目の完了状態を反転する。
// POST /api/checklist/:guideId/toggle
func (h *ChecklistHandler) ToggleChecklistItem(w http.ResponseWriter, r *http.Request) {
	userID := currentUserID(r)
	guideID := chi.URLParam(r, "guideId")

	var req toggleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest,
			model.NewInvalidRequestError("リクエストボディの解析に失敗しました"))
		return
	}
	if req.ItemID == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest,
			model.NewInvalidRequestError("item_idを指定してください"))
		return
	}

	progress, err := h.service.Toggle(r.Context(), userID, guideID, req.ItemID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	if h.metrics != nil {
		h.metrics.RecordChecklistToggle()
	}

	writeJSON(w, http.StatusOK, toChecklistProgressResponse(progress))
}

// ResetChecklist はチェックリストの全項目を未完了に戻す。
// POST /api/checklist/:guideId/reset
func (h *ChecklistHandler) ResetChecklist(w http.ResponseWriter, r *http.Request) {
	userID := currentUserID(r)
	guideID := chi.URLParam(r, "guideId")

	progress, err := h.service.Reset(r.Context(), userID, guideID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toChecklistProgressResponse(progress))
}

// toChecklistProgressResponse はドメインのChecklistProgressをレスポンス型に変換する。
func toChecklistProgressResponse(p *model.ChecklistProgress) checklistProgressResponse {
	items := make([]checklistItemResponse, len(p.Items))
	for i, item := range p.Items {
		items[i] = checklistItemResponse{
			ItemID:    item.ItemID,
			StepText:  item.StepText,
			Completed: item.Completed,
			Order:     item.Order,
		}
	}
	return checklistProgressResponse{
		GuideID:        p.GuideID,
		State:          string(p.State),
		CompletedCount: p.CompletedCount,
		TotalCount:     p.TotalCount,
		Items:          items,
	}
}
