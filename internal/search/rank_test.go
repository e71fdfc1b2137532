package search

import (
	"reflect"
	"testing"
)

type rankDoc struct {
	ID     string
	Title  string
	Shares int
}

func rankKey(d rankDoc) Key {
	return Key{ID: d.ID, Title: d.Title, ShareCount: d.Shares}
}

func rankIDs(docs []rankDoc) []string {
	out := make([]string, len(docs))
	for i, d := range docs {
		out[i] = d.ID
	}
	return out
}

// TestRank_FavoritesFirst はお気に入りが必ず先頭に来ることをテストする。
func TestRank_FavoritesFirst(t *testing.T) {
	docs := []rankDoc{
		{ID: "a", Title: "Arrest Guide"},
		{ID: "b", Title: "Benefits Guide"},
		{ID: "c", Title: "Custody Guide"},
	}

	got := Rank(docs, []string{"c"}, rankKey, TieBreakTitle)

	want := []string{"c", "a", "b"}
	if !reflect.DeepEqual(rankIDs(got), want) {
		t.Errorf("ranked = %v, want %v", rankIDs(got), want)
	}
}

// TestRank_TitleTieBreak はお気に入り同士・非お気に入り同士が
// タイトル昇順で並ぶことをテストする。
func TestRank_TitleTieBreak(t *testing.T) {
	docs := []rankDoc{
		{ID: "z", Title: "Zoning Rights"},
		{ID: "a", Title: "Arrest Rights"},
		{ID: "m", Title: "Medical Rights"},
	}

	got := Rank(docs, []string{"z", "m"}, rankKey, TieBreakTitle)

	want := []string{"m", "z", "a"}
	if !reflect.DeepEqual(rankIDs(got), want) {
		t.Errorf("ranked = %v, want %v", rankIDs(got), want)
	}
}

// TestRank_SharesTieBreak はスニペット用の共有数降順二次キーをテストする。
func TestRank_SharesTieBreak(t *testing.T) {
	docs := []rankDoc{
		{ID: "low", Title: "Low", Shares: 3},
		{ID: "high", Title: "High", Shares: 42},
		{ID: "mid", Title: "Mid", Shares: 17},
	}

	got := Rank(docs, nil, rankKey, TieBreakShares)

	want := []string{"high", "mid", "low"}
	if !reflect.DeepEqual(rankIDs(got), want) {
		t.Errorf("ranked = %v, want %v", rankIDs(got), want)
	}
}

// TestRank_Idempotent はランキング済み一覧への再適用が同じ結果になることをテストする。
func TestRank_Idempotent(t *testing.T) {
	docs := []rankDoc{
		{ID: "a", Title: "Alpha", Shares: 1},
		{ID: "b", Title: "Beta", Shares: 9},
		{ID: "c", Title: "Gamma", Shares: 5},
	}
	favorites := []string{"c"}

	once := Rank(docs, favorites, rankKey, TieBreakShares)
	twice := Rank(once, favorites, rankKey, TieBreakShares)

	if !reflect.DeepEqual(rankIDs(once), rankIDs(twice)) {
		t.Errorf("ranking is not idempotent: once = %v, twice = %v", rankIDs(once), rankIDs(twice))
	}
}

// TestRank_StableForEqualKeys は同一キーのアイテムが元の相対順序を
// 保持することをテストする。
func TestRank_StableForEqualKeys(t *testing.T) {
	docs := []rankDoc{
		{ID: "first", Title: "Same Title"},
		{ID: "second", Title: "Same Title"},
	}

	got := Rank(docs, nil, rankKey, TieBreakTitle)

	want := []string{"first", "second"}
	if !reflect.DeepEqual(rankIDs(got), want) {
		t.Errorf("ranked = %v, want %v (stable order)", rankIDs(got), want)
	}
}

// TestRank_DoesNotMutateInput は入力スライスが変更されないことをテストする。
func TestRank_DoesNotMutateInput(t *testing.T) {
	docs := []rankDoc{
		{ID: "b", Title: "Beta"},
		{ID: "a", Title: "Alpha"},
	}
	before := rankIDs(docs)

	Rank(docs, nil, rankKey, TieBreakTitle)

	if !reflect.DeepEqual(rankIDs(docs), before) {
		t.Error("Rank mutated its input slice")
	}
}
