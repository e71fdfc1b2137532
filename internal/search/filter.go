// Package search はガイド・連絡先・スニペットに共通のフィルタ/検索/
// ランキングロジックを提供する。コンテンツ種別ごとの差異はフィールド
// 抽出関数として注入し、フィルタ本体は1つの実装を共有する。
package search

import "strings"

// CategoryAll はカテゴリフィルタを無効化するセンチネル値。
// 空文字列も同様に扱う。
const CategoryAll = "all"

// Filters は一覧取得時の絞り込み条件を表す。
// 未指定の条件（ゼロ値）はその次元についてno-opとなる。
// 指定された離散条件はすべてAND結合で適用される。
type Filters struct {
	Category      string // 大文字小文字を無視した完全一致。空または"all"で無効
	SituationType string // 大文字小文字を無視した完全一致。空で無効
	Premium       *bool  // nil=無効、true=プレミアムのみ、false=無料のみ
	Query         string // 空で無効
}

// Fields はフィルタ対象アイテムから抽出した検索可能フィールドの集合。
type Fields struct {
	Category      string
	SituationType string
	Premium       bool
	Texts         []string // 全文の部分一致対象（タイトル、サマリー等）。空要素は単に非マッチ
	Terms         []string // キーワード/タグ配列。要素単位で部分一致させる
}

// Extractor はコンテンツ種別ごとの検索可能フィールド抽出関数。
type Extractor[T any] func(item T) Fields

// Apply はitemsにフィルタを適用した部分列を新しいスライスで返す。
// 元の相対順序を保持する安定フィルタであり、入力を変更しない。
// 同一入力に対する出力は常に同一で、フィルタの適用順にも依存しない
// （離散条件はAND結合、クエリはフィールド横断のOR結合）。
func Apply[T any](items []T, f Filters, extract Extractor[T]) []T {
	result := make([]T, 0, len(items))

	category := normalizeFilterValue(f.Category)
	situation := strings.ToLower(strings.TrimSpace(f.SituationType))
	query := strings.ToLower(strings.TrimSpace(f.Query))

	for _, item := range items {
		fields := extract(item)

		if category != "" && !strings.EqualFold(fields.Category, category) {
			continue
		}
		if situation != "" && !strings.EqualFold(fields.SituationType, situation) {
			continue
		}
		if f.Premium != nil && fields.Premium != *f.Premium {
			continue
		}
		if query != "" && !matchQuery(fields, query) {
			continue
		}

		result = append(result, item)
	}

	return result
}

// matchQuery はいずれかの検索可能フィールドがクエリ部分文字列を含むかを返す。
// queryは正規化済み（小文字・トリム済み）であることを前提とする。
func matchQuery(fields Fields, query string) bool {
	for _, text := range fields.Texts {
		if strings.Contains(strings.ToLower(text), query) {
			return true
		}
	}
	for _, term := range fields.Terms {
		if strings.Contains(strings.ToLower(term), query) {
			return true
		}
	}
	return false
}

// normalizeFilterValue はカテゴリフィルタ値を正規化する。
// 空および"all"（大文字小文字無視）はフィルタ無効を表す空文字列に畳み込む。
func normalizeFilterValue(v string) string {
	v = strings.TrimSpace(v)
	if strings.EqualFold(v, CategoryAll) {
		return ""
	}
	return v
}
