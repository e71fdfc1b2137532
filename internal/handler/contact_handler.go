package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/rightsguardian/internal/contact"
	"github.com/hitoshi/rightsguardian/internal/model"
	"github.com/hitoshi/rightsguardian/internal/search"
)

// ContactServiceInterface は連絡先ハンドラーが必要とするサービスインターフェース。
type ContactServiceInterface interface {
	// List はフィルタとお気に入り順位付けを適用した連絡先一覧を返す。
	List(ctx context.Context, u *model.User, filters search.Filters, favoriteIDs []string) []contact.ContactView
	// Get はIDで連絡先詳細を返す。
	Get(ctx context.Context, u *model.User, contactID string) (*contact.ContactView, error)
}

// ContactHandler は緊急連絡先のHTTPハンドラー。
type ContactHandler struct {
	service ContactServiceInterface
	users   UserProviderInterface
	metrics MetricsRecorder
}

// NewContactHandler はContactHandlerを生成する。
func NewContactHandler(service ContactServiceInterface, users UserProviderInterface, metrics MetricsRecorder) *ContactHandler {
	return &ContactHandler{
		service: service,
		users:   users,
		metrics: metrics,
	}
}

// contactResponse は連絡先一覧の1件のレスポンス。
// ロック時は電話・メール関連フィールドが空になる。
type contactResponse struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Category       string `json:"category"`
	SituationType  string `json:"situation_type"`
	Description    string `json:"description"`
	IsPremium      bool   `json:"is_premium"`
	Locked         bool   `json:"locked"`
	Phone          string `json:"phone,omitempty"`
	FormattedPhone string `json:"formatted_phone,omitempty"`
	TelURI         string `json:"tel_uri,omitempty"`
	Email          string `json:"email,omitempty"`
	MailtoURI      string `json:"mailto_uri,omitempty"`
}

// contactListResponse は連絡先一覧のレスポンス。
type contactListResponse struct {
	Contacts []contactResponse `json:"contacts"`
	Total    int               `json:"total"`
}

// ListContacts は緊急連絡先一覧を取得する。
// GET /api/contacts?category=&situation=&search=&premium=&favorites=a,b
func (h *ContactHandler) ListContacts(w http.ResponseWriter, r *http.Request) {
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

	views := h.service.List(r.Context(), u, filters, favorites)

	if h.metrics != nil {
		h.metrics.RecordListRequest("contacts")
	}

	contacts := make([]contactResponse, len(views))
	for i, v := range views {
		contacts[i] = toContactResponse(v)
	}

	writeJSON(w, http.StatusOK, contactListResponse{Contacts: contacts, Total: len(contacts)})
}

// GetContact は連絡先詳細を取得する。
// GET /api/contacts/:id
func (h *ContactHandler) GetContact(w http.ResponseWriter, r *http.Request) {
	userID := currentUserID(r)
	contactID := chi.URLParam(r, "id")

	u, err := h.users.GetOrCreate(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	view, err := h.service.Get(r.Context(), u, contactID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toContactResponse(*view))
}

// toContactResponse はドメインのContactViewをレスポンス型に変換する。
func toContactResponse(v contact.ContactView) contactResponse {
	return contactResponse{
		ID:             v.ID,
		Name:           v.Name,
		Category:       v.Category,
		SituationType:  v.SituationType,
		Description:    v.Description,
		IsPremium:      v.IsPremium,
		Locked:         v.Locked,
		Phone:          v.Phone,
		FormattedPhone: v.FormattedPhone,
		TelURI:         v.TelURI,
		Email:          v.Email,
		MailtoURI:      v.MailtoURI,
	}
}
