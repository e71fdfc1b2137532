// Package model はドメインモデルを定義する。
package model

// SectionKind はガイドセクションの表示種別を表す。
type SectionKind string

const (
	// SectionKindText は通常の本文セクション。
	SectionKindText SectionKind = "text"
	// SectionKindList は箇条書きセクション。
	SectionKindList SectionKind = "list"
	// SectionKindWarning は警告セクション。
	SectionKindWarning SectionKind = "warning"
	// SectionKindTip はヒントセクション。
	SectionKindTip SectionKind = "tip"
)

// ValidSectionKind は既知のセクション種別かどうかを返す。
func ValidSectionKind(k SectionKind) bool {
	switch k {
	case SectionKindText, SectionKindList, SectionKindWarning, SectionKindTip:
		return true
	}
	return false
}

// GuideSection はガイド本文の1セクションを表す。
type GuideSection struct {
	Title string
	Body  string
	Kind  SectionKind
}

// GuideContent はガイドの構造化コンテンツを表す。
// Checklistはステップ文のテンプレートであり、ユーザーごとの完了状態は
// ChecklistItemとして別管理する。Guide側は実行時に変更されない。
type GuideContent struct {
	Summary         string
	Sections        []GuideSection
	RelatedContacts []string // ContactのIDへのソフト参照（存在保証なし）
	Checklist       []string
}

// Guide は緊急時の法的権利ガイドを表す。
// カタログ読み込み時に生成され、実行時は読み取り専用として扱う。
type Guide struct {
	ID        string
	Title     string
	Category  string
	Keywords  []string
	IsPremium bool
	Content   GuideContent
}
