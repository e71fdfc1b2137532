// Package model はドメインモデルを定義する。
package model

import "time"

// AnonymousUserID は未認証ユーザーを表すリテラル。
const AnonymousUserID = "anonymous"

// 追跡対象アクションのラベル。任意の自由文字列も許可されるが、
// 分析用の集計はこれらの定義済みラベルを前提とする。
const (
	// ActionViewGuide はガイド閲覧。
	ActionViewGuide = "view_guide"
	// ActionShareSnippet はスニペット共有。
	ActionShareSnippet = "share_snippet"
	// ActionToggleChecklist はチェックリスト項目のトグル。
	ActionToggleChecklist = "toggle_checklist"
	// ActionResetChecklist はチェックリストのリセット。
	ActionResetChecklist = "reset_checklist"
	// ActionPurchasePack はプレミアムパックの購入。
	ActionPurchasePack = "purchase_pack"
	// ActionUpdatePreferences はユーザー設定の更新。
	ActionUpdatePreferences = "update_preferences"
)

// SessionLogEntry はユーザーアクションの追記専用ログエントリを表す。
// ログ全体は新しい順に保持され、容量（既定100件）を超えた分は
// 古いものからFIFOで破棄される。個別の更新・削除は行わない。
type SessionLogEntry struct {
	ID        string
	UserID    string // 未認証の場合は"anonymous"
	Timestamp time.Time
	Action    string
	RelatedID string // 関連するガイド/コンテンツID。任意
}

// SessionLogStats はセッションログから導出される集計値。
type SessionLogStats struct {
	TotalActions      int
	UniqueGuidesViewed int
	ActionCounts      map[string]int
	LastActiveAt      *time.Time
}
