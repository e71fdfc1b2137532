package repository

import (
	"context"
	"sync"

	"github.com/hitoshi/rightsguardian/internal/model"
)

// MemorySnippetRepo はインメモリの教育スニペットリポジトリ。
// 投入順を保持するためIDリストとマップを併用する。
type MemorySnippetRepo struct {
	mu       sync.RWMutex
	order    []string
	snippets map[string]model.EducationSnippet
}

// NewMemorySnippetRepo はMemorySnippetRepoを生成する。
func NewMemorySnippetRepo() *MemorySnippetRepo {
	return &MemorySnippetRepo{
		snippets: make(map[string]model.EducationSnippet),
	}
}

// List は全スニペットを投入順に返す。
func (r *MemorySnippetRepo) List(_ context.Context) ([]model.EducationSnippet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.EducationSnippet, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, copySnippet(r.snippets[id]))
	}
	return out, nil
}

// FindByID は指定IDのスニペットを取得する。見つからない場合はnilを返す。
func (r *MemorySnippetRepo) FindByID(_ context.Context, id string) (*model.EducationSnippet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.snippets[id]
	if !ok {
		return nil, nil
	}
	copied := copySnippet(s)
	return &copied, nil
}

// Save はスニペットを冪等にUPSERTする。
func (r *MemorySnippetRepo) Save(_ context.Context, snippet *model.EducationSnippet) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.snippets[snippet.ID]; !exists {
		r.order = append(r.order, snippet.ID)
	}
	r.snippets[snippet.ID] = copySnippet(*snippet)
	return nil
}

// IncrementShareCount は共有カウントを1増やし、更新後のスニペットを返す。
// 見つからない場合はnilを返す。
func (r *MemorySnippetRepo) IncrementShareCount(_ context.Context, id string) (*model.EducationSnippet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.snippets[id]
	if !ok {
		return nil, nil
	}

	s.ShareCount++
	r.snippets[id] = s

	copied := copySnippet(s)
	return &copied, nil
}

// FindBySourceGUID はニュースインポートの重複判定キーでスニペットを検索する。
// 見つからない場合はnilを返す。
func (r *MemorySnippetRepo) FindBySourceGUID(_ context.Context, guid string) (*model.EducationSnippet, error) {
	if guid == "" {
		return nil, nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, id := range r.order {
		s := r.snippets[id]
		if s.SourceGUID == guid {
			copied := copySnippet(s)
			return &copied, nil
		}
	}
	return nil, nil
}

func copySnippet(s model.EducationSnippet) model.EducationSnippet {
	copied := s
	copied.Tags = append([]string(nil), s.Tags...)
	return copied
}
