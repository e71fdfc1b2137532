// Package model はドメインモデルを定義する。
package model

import "time"

// Theme はUIテーマの選択肢を表す。
type Theme string

const (
	// ThemeLight はライトテーマ。
	ThemeLight Theme = "light"
	// ThemeDark はダークテーマ。
	ThemeDark Theme = "dark"
	// ThemeAuto はOS設定に追従するテーマ。デフォルト。
	ThemeAuto Theme = "auto"
)

// ValidTheme は既知のテーマ値かどうかを返す。
func ValidTheme(t Theme) bool {
	switch t {
	case ThemeLight, ThemeDark, ThemeAuto:
		return true
	}
	return false
}

// Preferences はユーザーの設定を表す。
type Preferences struct {
	Categories    []string // フォロー中のカテゴリ
	Notifications bool
	Location      string // 任意
	Theme         Theme
}

// DefaultPreferences は初回参照時に割り当てるデフォルト設定を返す。
func DefaultPreferences() Preferences {
	return Preferences{
		Categories:    []string{},
		Notifications: true,
		Theme:         ThemeAuto,
	}
}

// User はサービス利用ユーザーを表す。
// IDはウォレットアドレス形式の不透明な文字列で、初回参照時に
// デフォルト設定で自動生成される。削除されることはない。
type User struct {
	ID             string
	Preferences    Preferences
	PurchasedPacks []string // 集合として扱う。重複は追加時に排除する
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// HasPack は指定パックを購入済みかどうかを返す。
func (u *User) HasPack(packID string) bool {
	for _, p := range u.PurchasedPacks {
		if p == packID {
			return true
		}
	}
	return false
}
