// Package model はドメインモデルを定義する。
package model

// EducationSnippet は短い教育スニペット（豆知識）を表す。
// ShareCountが唯一の可変フィールドで、共有アクションにより単調増加する。
type EducationSnippet struct {
	ID         string
	Title      string
	Body       string
	Category   string
	ShareCount int
	Tags       []string
	SourceGUID string // ニュースインポート由来の場合の重複判定キー。シードデータでは空
}

// SharePlatform はスニペット共有先のプラットフォームを表す。
type SharePlatform string

const (
	// SharePlatformFarcaster はFarcasterへの共有。
	SharePlatformFarcaster SharePlatform = "farcaster"
	// SharePlatformTwitter はTwitterへの共有。
	SharePlatformTwitter SharePlatform = "twitter"
	// SharePlatformCopy はクリップボードコピー用テキストの生成。
	SharePlatformCopy SharePlatform = "copy"
)

// SnippetSort はスニペット一覧のソート種別を表す。
type SnippetSort string

const (
	// SnippetSortShares は共有数降順（人気順）。デフォルト。
	SnippetSortShares SnippetSort = "shares"
	// SnippetSortTitle はタイトル昇順。
	SnippetSortTitle SnippetSort = "title"
)
