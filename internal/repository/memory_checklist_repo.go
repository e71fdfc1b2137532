package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/hitoshi/rightsguardian/internal/model"
)

// MemoryChecklistRepo はインメモリのチェックリストリポジトリ。
// （ユーザーID, ガイドID）の複合キーで項目一式を保持する。
type MemoryChecklistRepo struct {
	mu    sync.RWMutex
	items map[string][]model.ChecklistItem // key: userID + "|" + guideID
}

// NewMemoryChecklistRepo はMemoryChecklistRepoを生成する。
func NewMemoryChecklistRepo() *MemoryChecklistRepo {
	return &MemoryChecklistRepo{
		items: make(map[string][]model.ChecklistItem),
	}
}

func checklistKey(userID, guideID string) string {
	return userID + "|" + guideID
}

// ListByUserAndGuide はチェックリスト項目をorder昇順で返す。
// 未初期化の場合は空スライスを返す。
func (r *MemoryChecklistRepo) ListByUserAndGuide(_ context.Context, userID, guideID string) ([]model.ChecklistItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored, ok := r.items[checklistKey(userID, guideID)]
	if !ok {
		return []model.ChecklistItem{}, nil
	}

	out := append([]model.ChecklistItem(nil), stored...)
	sort.Slice(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out, nil
}

// SaveAll は（ユーザー, ガイド）のチェックリスト一式を保存する。
func (r *MemoryChecklistRepo) SaveAll(_ context.Context, userID string, items []model.ChecklistItem) error {
	if len(items) == 0 {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := checklistKey(userID, items[0].GuideID)
	r.items[key] = append([]model.ChecklistItem(nil), items...)
	return nil
}

// UpsertItem は単一項目を冪等にUPSERTする。
func (r *MemoryChecklistRepo) UpsertItem(_ context.Context, userID string, item model.ChecklistItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := checklistKey(userID, item.GuideID)
	stored := r.items[key]

	for i := range stored {
		if stored[i].ItemID == item.ItemID {
			stored[i] = item
			return nil
		}
	}

	r.items[key] = append(stored, item)
	return nil
}

// ResetByUserAndGuide は全項目のcompletedをfalseにする。
func (r *MemoryChecklistRepo) ResetByUserAndGuide(_ context.Context, userID, guideID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := r.items[checklistKey(userID, guideID)]
	for i := range stored {
		stored[i].Completed = false
	}
	return nil
}
