package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/hitoshi/rightsguardian/internal/model"
	"github.com/hitoshi/rightsguardian/internal/user"
)

// UserServiceInterface はユーザーハンドラーが必要とするサービスインターフェース。
type UserServiceInterface interface {
	// GetOrCreate はユーザーを取得し、存在しない場合はデフォルト設定で作成する。
	GetOrCreate(ctx context.Context, userID string) (*model.User, error)
	// UpdatePreferences は設定の部分更新を行う。
	UpdatePreferences(ctx context.Context, userID string, patch user.PreferencesPatch) (*model.User, error)
}

// PurchaseServiceInterface はプレミアムパック購入のサービスインターフェース。
type PurchaseServiceInterface interface {
	// Purchase はパックを購入済み集合に冪等に追加する。
	Purchase(ctx context.Context, userID, packID, transactionRef string) (*model.User, error)
}

// UserHandler はユーザープロファイルと購入のHTTPハンドラー。
type UserHandler struct {
	service   UserServiceInterface
	purchases PurchaseServiceInterface
	metrics   MetricsRecorder
}

// NewUserHandler はUserHandlerを生成する。
func NewUserHandler(service UserServiceInterface, purchases PurchaseServiceInterface, metrics MetricsRecorder) *UserHandler {
	return &UserHandler{
		service:   service,
		purchases: purchases,
		metrics:   metrics,
	}
}

// --- リクエスト/レスポンス型 ---

// preferencesResponse はユーザー設定のレスポンス。
type preferencesResponse struct {
	Categories    []string `json:"categories"`
	Notifications bool     `json:"notifications"`
	Location      string   `json:"location"`
	Theme         string   `json:"theme"`
}

// userResponse はユーザープロファイルのレスポンス。
type userResponse struct {
	ID             string              `json:"id"`
	Preferences    preferencesResponse `json:"preferences"`
	PurchasedPacks []string            `json:"purchased_packs"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
}

// preferencesRequest はユーザー設定更新リクエストのボディ。
// nilフィールドは変更しない部分更新を行う。
type preferencesRequest struct {
	Categories    *[]string `json:"categories,omitempty"`
	Notifications *bool     `json:"notifications,omitempty"`
	Location      *string   `json:"location,omitempty"`
	Theme         *string   `json:"theme,omitempty"`
}

// purchaseRequest はパック購入リクエストのボディ。
type purchaseRequest struct {
	PackID         string `json:"pack_id"`
	TransactionRef string `json:"transaction_ref"`
}

// GetUser はユーザープロファイルを取得する。存在しない場合は
// デフォルト設定で作成する。
// GET /api/user
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	userID := currentUserID(r)

	u, err := h.service.GetOrCreate(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(u))
}

// UpdatePreferences はユーザー設定を部分更新する。
// PUT /api/user/preferences
func (h *UserHandler) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	userID := currentUserID(r)

	var req preferencesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest,
			model.NewInvalidRequestError("リクエストボディの解析に失敗しました"))
		return
	}

	patch := user.PreferencesPatch{
		Categories:    req.Categories,
		Notifications: req.Notifications,
		Location:      req.Location,
	}
	if req.Theme != nil {
		theme := model.Theme(*req.Theme)
		patch.Theme = &theme
	}

	u, err := h.service.UpdatePreferences(r.Context(), userID, patch)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(u))
}

// Purchase はプレミアムパックを購入する。既購入パックの再購入は
// 冪等に成功する。
// POST /api/user/purchase
func (h *UserHandler) Purchase(w http.ResponseWriter, r *http.Request) {
	userID := currentUserID(r)

	var req purchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest,
			model.NewInvalidRequestError("リクエストボディの解析に失敗しました"))
		return
	}

	u, err := h.purchases.Purchase(r.Context(), userID, req.PackID, req.TransactionRef)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	if h.metrics != nil {
		h.metrics.RecordPackPurchase(req.PackID)
	}

	writeJSON(w, http.StatusOK, toUserResponse(u))
}

// toUserResponse はドメインのUserをレスポンス型に変換する。
func toUserResponse(u *model.User) userResponse {
	categories := u.Preferences.Categories
	if categories == nil {
		categories = []string{}
	}
	packs := u.PurchasedPacks
	if packs == nil {
		packs = []string{}
	}
	return userResponse{
		ID: u.ID,
		Preferences: preferencesResponse{
			Categories:    categories,
			Notifications: u.Preferences.Notifications,
			Location:      u.Preferences.Location,
			Theme:         string(u.Preferences.Theme),
		},
		PurchasedPacks: packs,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}
