package search

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// TieBreak はお気に入り同士・非お気に入り同士の二次ソートキーを表す。
type TieBreak int

const (
	// TieBreakTitle はタイトル/名前の辞書順昇順（ガイド・連絡先用）。
	TieBreakTitle TieBreak = iota
	// TieBreakShares は共有数降順（スニペット用）。
	TieBreakShares
)

// Key はランキングに必要なアイテムの属性を表す。
type Key struct {
	ID         string
	Title      string
	ShareCount int
}

// rankEntry はソート中にアイテムとキーの対応を保つための内部構造体。
type rankEntry[T any] struct {
	item     T
	key      Key
	favorite bool
}

// Rank はフィルタ済み一覧をお気に入り優先で並べ替えた新しいスライスを返す。
// お気に入りのアイテムが必ず非お気に入りに先行し、同順位内はtieで指定した
// 二次キーで並ぶ。安定ソートのため二次キーも等しいアイテムは元の相対順序を
// 保持する。入力スライスは変更しない。冪等であり、ランキング済みの一覧に
// 同じお気に入り集合で再適用しても結果は変わらない。
func Rank[T any](items []T, favoriteIDs []string, key func(item T) Key, tie TieBreak) []T {
	favorites := make(map[string]struct{}, len(favoriteIDs))
	for _, id := range favoriteIDs {
		favorites[id] = struct{}{}
	}

	entries := make([]rankEntry[T], len(items))
	for i, item := range items {
		k := key(item)
		_, fav := favorites[k.ID]
		entries[i] = rankEntry[T]{item: item, key: k, favorite: fav}
	}

	// collate.Compareはcollatorの内部バッファを使うため、呼び出しごとに生成する。
	c := collate.New(language.English, collate.Loose)

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].favorite != entries[j].favorite {
			return entries[i].favorite
		}

		switch tie {
		case TieBreakShares:
			return entries[i].key.ShareCount > entries[j].key.ShareCount
		default:
			return c.CompareString(entries[i].key.Title, entries[j].key.Title) < 0
		}
	})

	ranked := make([]T, len(entries))
	for i, e := range entries {
		ranked[i] = e.item
	}
	return ranked
}
