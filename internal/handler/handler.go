// Package handler はHTTP APIハンドラーを提供する。
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/hitoshi/rightsguardian/internal/middleware"
	"github.com/hitoshi/rightsguardian/internal/model"
	"github.com/hitoshi/rightsguardian/internal/search"
)

// MetricsRecorder はハンドラーが記録するメトリクスのインターフェース。
// nilの場合は記録をスキップする。
type MetricsRecorder interface {
	RecordHTTPStatus(statusCode int)
	RecordListRequest(resource string)
	RecordSnippetShare(platform string)
	RecordPackPurchase(packID string)
	RecordChecklistToggle()
}

// apiErrorResponse はAPIエラーレスポンスのJSON表現。
type apiErrorResponse struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Category string `json:"category"`
	Action   string `json:"action"`
}

// currentUserID はリクエストコンテキストからユーザーIDを取得する。
// アイデンティティミドルウェアを通過していない場合は匿名として扱う。
func currentUserID(r *http.Request) string {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		return model.AnonymousUserID
	}
	return userID
}

// writeJSON はJSONレスポンスを書き込む。
func writeJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(body)
}

// writeAPIErrorResponse は統一エラーフォーマットでエラーレスポンスを書き込む。
func writeAPIErrorResponse(w http.ResponseWriter, statusCode int, apiErr *model.APIError) {
	writeJSON(w, statusCode, apiErrorResponse{
		Code:     apiErr.Code,
		Message:  apiErr.Message,
		Category: apiErr.Category,
		Action:   apiErr.Action,
	})
}

// handleServiceError はサービス層から返されたエラーを適切なHTTPステータスコードに変換する。
func handleServiceError(w http.ResponseWriter, err error) {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		statusCode := mapAPIErrorToHTTPStatus(apiErr)
		writeAPIErrorResponse(w, statusCode, apiErr)
		return
	}

	// APIError以外のエラーは内部サーバーエラーとして扱う
	slog.Error("internal server error", slog.String("error", err.Error()))
	writeAPIErrorResponse(w, http.StatusInternalServerError, &model.APIError{
		Code:     "INTERNAL_ERROR",
		Message:  "内部エラーが発生しました。",
		Category: "system",
		Action:   "しばらく待ってから再度お試しください。",
	})
}

// mapAPIErrorToHTTPStatus はAPIErrorコードからHTTPステータスコードにマッピングする。
func mapAPIErrorToHTTPStatus(apiErr *model.APIError) int {
	switch apiErr.Code {
	case model.ErrCodeGuideNotFound,
		model.ErrCodeContactNotFound,
		model.ErrCodeSnippetNotFound,
		model.ErrCodeChecklistNotAvailable,
		model.ErrCodeChecklistItemNotFound:
		return http.StatusNotFound
	case model.ErrCodeUserRequired:
		return http.StatusUnauthorized
	case model.ErrCodePremiumLocked:
		return http.StatusForbidden
	case model.ErrCodeInvalidTheme,
		model.ErrCodeInvalidSort,
		model.ErrCodeInvalidPlatform,
		model.ErrCodeInvalidRequest:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// parseListQuery は一覧エンドポイント共通のクエリパラメータを解析する。
// premiumパラメータが真偽値として解析できない場合はエラーを返す。
func parseListQuery(r *http.Request) (search.Filters, []string, error) {
	q := r.URL.Query()

	filters := search.Filters{
		Category:      q.Get("category"),
		SituationType: q.Get("situation"),
		Query:         q.Get("search"),
	}

	if raw := q.Get("premium"); raw != "" {
		premium, err := strconv.ParseBool(raw)
		if err != nil {
			return search.Filters{}, nil, model.NewInvalidRequestError("premiumはtrueまたはfalseを指定してください")
		}
		filters.Premium = &premium
	}

	var favorites []string
	if raw := q.Get("favorites"); raw != "" {
		for _, id := range strings.Split(raw, ",") {
			id = strings.TrimSpace(id)
			if id != "" {
				favorites = append(favorites, id)
			}
		}
	}

	return filters, favorites, nil
}
