// Package security はアプリケーションのセキュリティ機能を提供する。
//
// TextSanitizerService はカタログおよびニュースインポート由来のテキストから
// HTMLマークアップを除去する。ガイド本文・スニペット本文はプレーンテキスト
// として配信する契約のため、許可タグなしのポリシーで全タグを除去する。
package security

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// TextSanitizerService はテキストサニタイズ機能のインターフェースを定義する。
// カタログ読み込み時とニュース記事の取り込み時に使用される。
type TextSanitizerService interface {
	// SanitizeText は入力からHTMLタグを全て除去したプレーンテキストを返す。
	// HTMLエンティティは通常文字に戻し、前後の空白をトリムする。
	// 空文字列の入力には空文字列を返す。同一入力に対して常に同一出力を返す。
	SanitizeText(raw string) string
}

// textSanitizer はTextSanitizerServiceの実装。
// bluemondayのStrictPolicy（許可タグなし）を保持し、スレッドセーフに動作する。
type textSanitizer struct {
	policy *bluemonday.Policy
}

// NewTextSanitizer はTextSanitizerServiceの新しいインスタンスを生成する。
func NewTextSanitizer() *textSanitizer {
	return &textSanitizer{
		policy: bluemonday.StrictPolicy(),
	}
}

// SanitizeText は入力からHTMLタグを全て除去したプレーンテキストを返す。
// StrictPolicyはエンティティ参照（&amp;等）を残すため、除去後に
// アンエスケープしてJSONレスポンスにそのまま載せられる形にする。
func (s *textSanitizer) SanitizeText(raw string) string {
	if raw == "" {
		return ""
	}
	stripped := s.policy.Sanitize(raw)
	return strings.TrimSpace(html.UnescapeString(stripped))
}
