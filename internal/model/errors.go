// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, content, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeGuideNotFound         = "GUIDE_NOT_FOUND"
	ErrCodeContactNotFound       = "CONTACT_NOT_FOUND"
	ErrCodeSnippetNotFound       = "SNIPPET_NOT_FOUND"
	ErrCodeChecklistNotAvailable = "CHECKLIST_NOT_AVAILABLE"
	ErrCodeChecklistItemNotFound = "CHECKLIST_ITEM_NOT_FOUND"
	ErrCodeUserRequired          = "USER_REQUIRED"
	ErrCodeInvalidTheme          = "INVALID_THEME"
	ErrCodeInvalidSort           = "INVALID_SORT"
	ErrCodeInvalidPlatform       = "INVALID_PLATFORM"
	ErrCodeInvalidRequest        = "INVALID_REQUEST"
	ErrCodePremiumLocked         = "PREMIUM_LOCKED"
)

// NewGuideNotFoundError はガイド未検出エラーを生成する。
func NewGuideNotFoundError(guideID string) *APIError {
	return &APIError{
		Code:     ErrCodeGuideNotFound,
		Message:  fmt.Sprintf("指定されたガイドが見つかりません: %s", guideID),
		Category: "content",
		Action:   "ガイドIDを確認してください。",
	}
}

// NewContactNotFoundError は連絡先未検出エラーを生成する。
func NewContactNotFoundError(contactID string) *APIError {
	return &APIError{
		Code:     ErrCodeContactNotFound,
		Message:  fmt.Sprintf("指定された連絡先が見つかりません: %s", contactID),
		Category: "content",
		Action:   "連絡先IDを確認してください。",
	}
}

// NewSnippetNotFoundError はスニペット未検出エラーを生成する。
func NewSnippetNotFoundError(snippetID string) *APIError {
	return &APIError{
		Code:     ErrCodeSnippetNotFound,
		Message:  fmt.Sprintf("指定されたスニペットが見つかりません: %s", snippetID),
		Category: "content",
		Action:   "スニペットIDを確認してください。",
	}
}

// NewChecklistNotAvailableError はチェックリストを持たないガイドへの
// チェックリスト操作エラーを生成する。
func NewChecklistNotAvailableError(guideID string) *APIError {
	return &APIError{
		Code:     ErrCodeChecklistNotAvailable,
		Message:  fmt.Sprintf("このガイドにはチェックリストがありません: %s", guideID),
		Category: "content",
		Action:   "チェックリスト付きのガイドを選択してください。",
	}
}

// NewChecklistItemNotFoundError はチェックリスト項目未検出エラーを生成する。
func NewChecklistItemNotFoundError(itemID string) *APIError {
	return &APIError{
		Code:     ErrCodeChecklistItemNotFound,
		Message:  fmt.Sprintf("指定されたチェックリスト項目が見つかりません: %s", itemID),
		Category: "content",
		Action:   "チェックリストを再取得してから操作してください。",
	}
}

// NewUserRequiredError は匿名ユーザーによる書き込み操作エラーを生成する。
func NewUserRequiredError() *APIError {
	return &APIError{
		Code:     ErrCodeUserRequired,
		Message:  "この操作にはユーザーIDが必要です。",
		Category: "auth",
		Action:   "X-User-IDヘッダーにウォレットアドレスを指定してください。",
	}
}

// NewInvalidThemeError はテーマバリデーションエラーを生成する。
func NewInvalidThemeError(theme string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidTheme,
		Message:  fmt.Sprintf("無効なテーマです: %s", theme),
		Category: "validation",
		Action:   "テーマには light、dark、auto のいずれかを指定してください。",
	}
}

// NewInvalidSortError は無効なソート指定エラーを生成する。
func NewInvalidSortError(sort string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidSort,
		Message:  fmt.Sprintf("無効なソート指定です: %s", sort),
		Category: "validation",
		Action:   "ソートには shares または title を指定してください。",
	}
}

// NewInvalidPlatformError は無効な共有プラットフォームエラーを生成する。
func NewInvalidPlatformError(platform string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidPlatform,
		Message:  fmt.Sprintf("無効な共有プラットフォームです: %s", platform),
		Category: "validation",
		Action:   "プラットフォームには farcaster、twitter、copy のいずれかを指定してください。",
	}
}

// NewInvalidRequestError はリクエスト形式エラーを生成する。
func NewInvalidRequestError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidRequest,
		Message:  fmt.Sprintf("無効なリクエストです: %s", reason),
		Category: "validation",
		Action:   "リクエスト内容を確認してください。",
	}
}

// NewPremiumLockedError はプレミアムコンテンツの未購入エラーを生成する。
func NewPremiumLockedError(contentID string) *APIError {
	return &APIError{
		Code:     ErrCodePremiumLocked,
		Message:  fmt.Sprintf("このコンテンツはプレミアム限定です: %s", contentID),
		Category: "content",
		Action:   "対応するパックまたはpremium-allパックを購入してください。",
	}
}
