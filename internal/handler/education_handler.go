package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/rightsguardian/internal/education"
	"github.com/hitoshi/rightsguardian/internal/model"
	"github.com/hitoshi/rightsguardian/internal/search"
)

// EducationServiceInterface は教育スニペットハンドラーが必要とするサービスインターフェース。
type EducationServiceInterface interface {
	// List はフィルタとソートを適用したスニペット一覧を返す。
	List(ctx context.Context, filters search.Filters, sortBy model.SnippetSort, limit int) ([]model.EducationSnippet, error)
	// Ranked はお気に入りIDを先頭に寄せたスニペット一覧を返す。
	Ranked(ctx context.Context, filters search.Filters, favoriteIDs []string) ([]model.EducationSnippet, error)
	// Share は共有カウントを増やし、プラットフォーム別の共有テキストを生成する。
	Share(ctx context.Context, userID, snippetID string, platform model.SharePlatform) (*education.ShareResult, error)
}

// EducationHandler は教育スニペットのHTTPハンドラー。
type EducationHandler struct {
	service EducationServiceInterface
	metrics MetricsRecorder
}

// NewEducationHandler はEducationHandlerを生成する。
func NewEducationHandler(service EducationServiceInterface, metrics MetricsRecorder) *EducationHandler {
	return &EducationHandler{
		service: service,
		metrics: metrics,
	}
}

// --- レスポンス型 ---

// snippetResponse は教育スニペットのレスポンス。
type snippetResponse struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Body       string   `json:"body"`
	Category   string   `json:"category"`
	ShareCount int      `json:"share_count"`
	Tags       []string `json:"tags"`
}

// snippetListResponse はスニペット一覧のレスポンス。
type snippetListResponse struct {
	Snippets []snippetResponse `json:"snippets"`
	Total    int               `json:"total"`
}

// shareRequest はスニペット共有リクエストのボディ。
type shareRequest struct {
	Platform string `json:"platform"`
}

// shareResponse はスニペット共有のレスポンス。
type shareResponse struct {
	Snippet      snippetResponse `json:"snippet"`
	ShareContent string          `json:"share_content"`
	ShareURL     string          `json:"share_url"`
}

// ListSnippets は教育スニペット一覧を取得する。
// GET /api/education?category=&search=&sort=shares|title&limit=&favorites=a,b
func (h *EducationHandler) ListSnippets(w http.ResponseWriter, r *http.Request) {
	filters, favorites, err := parseListQuery(r)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 0 {
			writeAPIErrorResponse(w, http.StatusBadRequest,
				model.NewInvalidRequestError("limitは0以上の整数を指定してください"))
			return
		}
	}

	var snippets []model.EducationSnippet
	if len(favorites) > 0 {
		// お気に入り指定時はお気に入り優先の順位付けを使う
		snippets, err = h.service.Ranked(r.Context(), filters, favorites)
		if err == nil && limit > 0 && len(snippets) > limit {
			snippets = snippets[:limit]
		}
	} else {
		sortBy := model.SnippetSort(r.URL.Query().Get("sort"))
		snippets, err = h.service.List(r.Context(), filters, sortBy, limit)
	}
	if err != nil {
		handleServiceError(w, err)
		return
	}

	if h.metrics != nil {
		h.metrics.RecordListRequest("education")
	}

	results := make([]snippetResponse, len(snippets))
	for i, s := range snippets {
		results[i] = toSnippetResponse(s)
	}

	writeJSON(w, http.StatusOK, snippetListResponse{Snippets: results, Total: len(results)})
}

// ShareSnippet はスニペットを共有し、共有テキストを返す。
// POST /api/education/:id/share
func (h *EducationHandler) ShareSnippet(w http.ResponseWriter, r *http.Request) {
	userID := currentUserID(r)
	snippetID := chi.URLParam(r, "id")

	var req shareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest,
			model.NewInvalidRequestError("リクエストボディの解析に失敗しました"))
		return
	}

	result, err := h.service.Share(r.Context(), userID, snippetID, model.SharePlatform(req.Platform))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	if h.metrics != nil {
		h.metrics.RecordSnippetShare(req.Platform)
	}

	writeJSON(w, http.StatusOK, shareResponse{
		Snippet:      toSnippetResponse(result.Snippet),
		ShareContent: result.ShareContent,
		ShareURL:     result.ShareURL,
	})
}

// toSnippetResponse はドメインのEducationSnippetをレスポンス型に変換する。
func toSnippetResponse(s model.EducationSnippet) snippetResponse {
	tags := s.Tags
	if tags == nil {
		tags = []string{}
	}
	return snippetResponse{
		ID:         s.ID,
		Title:      s.Title,
		Body:       s.Body,
		Category:   s.Category,
		ShareCount: s.ShareCount,
		Tags:       tags,
	}
}
