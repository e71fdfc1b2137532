package repository

import (
	"context"
	"sync"

	"github.com/hitoshi/rightsguardian/internal/model"
)

// MemoryUserRepo はインメモリのユーザーリポジトリ。
// プロセス存続期間のみデータを保持する。ハンドラーは並行に実行されるため
// RWMutexで保護し、外部にはコピーのみを返す。
type MemoryUserRepo struct {
	mu    sync.RWMutex
	users map[string]model.User
}

// NewMemoryUserRepo はMemoryUserRepoを生成する。
func NewMemoryUserRepo() *MemoryUserRepo {
	return &MemoryUserRepo{
		users: make(map[string]model.User),
	}
}

// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
func (r *MemoryUserRepo) FindByID(_ context.Context, id string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}

	copied := u
	copied.Preferences.Categories = append([]string(nil), u.Preferences.Categories...)
	copied.PurchasedPacks = append([]string(nil), u.PurchasedPacks...)
	return &copied, nil
}

// Save はユーザーを冪等にUPSERTする。
func (r *MemoryUserRepo) Save(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := *user
	copied.Preferences.Categories = append([]string(nil), user.Preferences.Categories...)
	copied.PurchasedPacks = append([]string(nil), user.PurchasedPacks...)
	r.users[user.ID] = copied
	return nil
}
