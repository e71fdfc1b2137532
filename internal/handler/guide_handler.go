package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/rightsguardian/internal/guide"
	"github.com/hitoshi/rightsguardian/internal/model"
	"github.com/hitoshi/rightsguardian/internal/search"
)

// GuideServiceInterface はガイドハンドラーが必要とするサービスインターフェース。
type GuideServiceInterface interface {
	// List はフィルタとお気に入り順位付けを適用したガイド一覧を返す。
	List(ctx context.Context, u *model.User, filters search.Filters, favoriteIDs []string) []guide.GuideSummary
	// Get はガイド詳細を返し、閲覧をログに記録する。
	Get(ctx context.Context, u *model.User, userID, guideID string) (*guide.GuideDetail, error)
}

// UserProviderInterface はユーザープロファイルの取得インターフェース。
// 匿名ユーザーには一時的なデフォルトプロファイルを返す。
type UserProviderInterface interface {
	GetOrCreate(ctx context.Context, userID string) (*model.User, error)
}

// GuideHandler はガイド管理のHTTPハンドラー。
type GuideHandler struct {
	service GuideServiceInterface
	users   UserProviderInterface
	metrics MetricsRecorder
}

// NewGuideHandler はGuideHandlerを生成する。
func NewGuideHandler(service GuideServiceInterface, users UserProviderInterface, metrics MetricsRecorder) *GuideHandler {
	return &GuideHandler{
		service: service,
		users:   users,
		metrics: metrics,
	}
}

// --- レスポンス型 ---

// guideSummaryResponse はガイド一覧のサマリーレスポンス。
type guideSummaryResponse struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Category  string   `json:"category"`
	Keywords  []string `json:"keywords"`
	IsPremium bool     `json:"is_premium"`
	Unlocked  bool     `json:"unlocked"`
	Summary   string   `json:"summary"`
	StepCount int      `json:"step_count"`
}

// guideListResponse はガイド一覧のレスポンス。
type guideListResponse struct {
	Guides []guideSummaryResponse `json:"guides"`
	Total  int                    `json:"total"`
}

// guideSectionResponse はガイド本文の1セクション。
type guideSectionResponse struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Kind  string `json:"kind"`
}

// guideDetailResponse はガイド詳細のレスポンス。
// ロック時はsections/checklistが空になる。
type guideDetailResponse struct {
	ID              string                 `json:"id"`
	Title           string                 `json:"title"`
	Category        string                 `json:"category"`
	Keywords        []string               `json:"keywords"`
	IsPremium       bool                   `json:"is_premium"`
	Locked          bool                   `json:"locked"`
	Summary         string                 `json:"summary"`
	Sections        []guideSectionResponse `json:"sections"`
	RelatedContacts []string               `json:"related_contacts"`
	Checklist       []string               `json:"checklist"`
}

// ListGuides はガイド一覧を取得する。
// GET /api/guides?category=&search=&premium=&favorites=a,b
func (h *GuideHandler) ListGuides(w http.ResponseWriter, r *http.Request) {
	userID := currentUserID(r)

	filters, favorites, err := parseListQuery(r)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	u, err := h.users.GetOrCreate(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	summaries := h.service.List(r.Context(), u, filters, favorites)

	if h.metrics != nil {
		h.metrics.RecordListRequest("guides")
	}

	guides := make([]guideSummaryResponse, len(summaries))
	for i, s := range summaries {
		guides[i] = guideSummaryResponse{
			ID:        s.ID,
			Title:     s.Title,
			Category:  s.Category,
			Keywords:  s.Keywords,
			IsPremium: s.IsPremium,
			Unlocked:  s.Unlocked,
			Summary:   s.Summary,
			StepCount: s.StepCount,
		}
	}

	writeJSON(w, http.StatusOK, guideListResponse{Guides: guides, Total: len(guides)})
}

// GetGuide はガイド詳細を取得する。
// GET /api/guides/:id
func (h *GuideHandler) GetGuide(w http.ResponseWriter, r *http.Request) {
	userID := currentUserID(r)
	guideID := chi.URLParam(r, "id")

	u, err := h.users.GetOrCreate(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	detail, err := h.service.Get(r.Context(), u, userID, guideID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toGuideDetailResponse(detail))
}

// toGuideDetailResponse はドメインのGuideDetailをレスポンス型に変換する。
func toGuideDetailResponse(detail *guide.GuideDetail) guideDetailResponse {
	g := detail.Guide

	sections := make([]guideSectionResponse, len(g.Content.Sections))
	for i, sec := range g.Content.Sections {
		sections[i] = guideSectionResponse{
			Title: sec.Title,
			Body:  sec.Body,
			Kind:  string(sec.Kind),
		}
	}

	resp := guideDetailResponse{
		ID:              g.ID,
		Title:           g.Title,
		Category:        g.Category,
		Keywords:        g.Keywords,
		IsPremium:       g.IsPremium,
		Locked:          detail.Locked,
		Summary:         g.Content.Summary,
		Sections:        sections,
		RelatedContacts: g.Content.RelatedContacts,
		Checklist:       g.Content.Checklist,
	}
	if resp.RelatedContacts == nil {
		resp.RelatedContacts = []string{}
	}
	if resp.Checklist == nil {
		resp.Checklist = []string{}
	}
	if resp.Keywords == nil {
		resp.Keywords = []string{}
	}
	return resp
}
