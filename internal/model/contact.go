// Package model はドメインモデルを定義する。
package model

// Contact は緊急連絡先（電話・メール窓口）を表す。
// カタログ読み込み時に生成され、実行時は読み取り専用として扱う。
type Contact struct {
	ID            string
	Name          string
	Phone         string // 数字、スペース、ハイフン、括弧、先頭の"+"のみ許可
	Email         string // 任意。空文字列は未設定を表す
	Category      string
	SituationType string
	Description   string
	IsPremium     bool
}
