// Package middleware はHTTPミドルウェアを提供する。
package middleware

import (
	"context"
	"fmt"
	"net/http"
	"regexp"

	"github.com/hitoshi/rightsguardian/internal/model"
)

const userIDHeaderName = "X-User-ID"

// contextKey はコンテキストに値を格納するための型安全なキー。
type contextKey string

// userIDContextKey はリクエストコンテキストにユーザーIDを格納するためのキー。
var userIDContextKey = contextKey("user_id")

// userIDPattern はヘッダーで受け付けるユーザーIDの形式。
// ウォレットアドレスやUUIDなどの英数字系識別子を想定する。
var userIDPattern = regexp.MustCompile(`^[0-9A-Za-z_.:-]{1,128}$`)

// NewIdentityMiddleware はX-User-IDヘッダーからユーザーIDを読み取り、
// リクエストコンテキストに注入するミドルウェアを返す。
// ヘッダーが無い場合は匿名ユーザーとして扱い、リクエストは拒否しない。
// 形式が不正なヘッダー値は400 Bad Requestを返す。
func NewIdentityMiddleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := r.Header.Get(userIDHeaderName)
			if userID == "" {
				userID = model.AnonymousUserID
			} else if !userIDPattern.MatchString(userID) {
				WriteErrorResponse(w, http.StatusBadRequest,
					model.NewInvalidRequestError("X-User-IDヘッダーの形式が不正です"))
				return
			}

			ctx := context.WithValue(r.Context(), userIDContextKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserIDFromContext はリクエストコンテキストからユーザーIDを取得する。
// アイデンティティミドルウェアを通過したリクエストでのみ有効。
func UserIDFromContext(ctx context.Context) (string, error) {
	userID, ok := ctx.Value(userIDContextKey).(string)
	if !ok || userID == "" {
		return "", fmt.Errorf("user ID not found in context")
	}
	return userID, nil
}

// ContextWithUserID はコンテキストにユーザーIDを注入する。
// テストやミドルウェア以外のコンテキスト生成で使用する。
func ContextWithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDContextKey, userID)
}
