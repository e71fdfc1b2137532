// Package sessionlog はユーザーアクションの追記専用ログと分析を提供する。
package sessionlog

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/rightsguardian/internal/model"
	"github.com/hitoshi/rightsguardian/internal/repository"
)

// SessionLogService はセッションログの記録と集計のサービス。
type SessionLogService struct {
	repo repository.SessionLogRepository
}

// NewSessionLogService はSessionLogServiceの新しいインスタンスを生成する。
func NewSessionLogService(repo repository.SessionLogRepository) *SessionLogService {
	return &SessionLogService{repo: repo}
}

// Log はアクションを記録する。userIDが空の場合は匿名として記録する。
// relatedIDは任意で、関連するガイドやコンテンツのIDを持つ。
func (s *SessionLogService) Log(ctx context.Context, userID, action, relatedID string) (*model.SessionLogEntry, error) {
	if action == "" {
		return nil, model.NewInvalidRequestError("actionは必須です")
	}
	if userID == "" {
		userID = model.AnonymousUserID
	}

	entry := &model.SessionLogEntry{
		ID:        uuid.New().String(),
		UserID:    userID,
		Timestamp: time.Now().UTC(),
		Action:    action,
		RelatedID: relatedID,
	}
	if err := s.repo.Append(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// List は全エントリを新しい順に返す。
func (s *SessionLogService) List(ctx context.Context) ([]model.SessionLogEntry, error) {
	return s.repo.List(ctx)
}

// Stats はログから分析用の集計値を導出する。
// 集計はログの現在の内容のみに基づくため、容量超過で破棄された
// エントリは反映されない。
func (s *SessionLogService) Stats(ctx context.Context) (*model.SessionLogStats, error) {
	entries, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	stats := &model.SessionLogStats{
		TotalActions: len(entries),
		ActionCounts: make(map[string]int),
	}

	guides := make(map[string]bool)
	for i, entry := range entries {
		stats.ActionCounts[entry.Action]++
		if entry.Action == model.ActionViewGuide && entry.RelatedID != "" {
			guides[entry.RelatedID] = true
		}
		// エントリは新しい順なので先頭が最終アクティビティ
		if i == 0 {
			ts := entry.Timestamp
			stats.LastActiveAt = &ts
		}
	}
	stats.UniqueGuidesViewed = len(guides)

	return stats, nil
}
