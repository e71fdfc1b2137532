package repository

import (
	"context"
	"sync"

	"github.com/hitoshi/rightsguardian/internal/model"
)

// MemorySessionLogRepo はインメモリのセッションログリポジトリ。
// エントリを新しい順に保持し、容量を超えた古いエントリは追記時に
// FIFOで破棄する。
type MemorySessionLogRepo struct {
	mu       sync.RWMutex
	entries  []model.SessionLogEntry // 先頭が最新
	capacity int
}

// NewMemorySessionLogRepo は指定容量のMemorySessionLogRepoを生成する。
// capacityが0以下の場合はデフォルト値100を使用する。
func NewMemorySessionLogRepo(capacity int) *MemorySessionLogRepo {
	if capacity <= 0 {
		capacity = 100
	}
	return &MemorySessionLogRepo{
		entries:  make([]model.SessionLogEntry, 0, capacity),
		capacity: capacity,
	}
}

// Append はエントリを先頭に追記し、容量超過分の最古エントリを破棄する。
func (r *MemorySessionLogRepo) Append(_ context.Context, entry *model.SessionLogEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = append([]model.SessionLogEntry{*entry}, r.entries...)
	if len(r.entries) > r.capacity {
		r.entries = r.entries[:r.capacity]
	}
	return nil
}

// List は全エントリを新しい順に返す。
func (r *MemorySessionLogRepo) List(_ context.Context) ([]model.SessionLogEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]model.SessionLogEntry(nil), r.entries...), nil
}
