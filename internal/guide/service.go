// Package guide は法的権利ガイドの検索・取得とプレミアムロックを提供する。
package guide

import (
	"context"

	"github.com/hitoshi/rightsguardian/internal/model"
	"github.com/hitoshi/rightsguardian/internal/premium"
	"github.com/hitoshi/rightsguardian/internal/search"
	"github.com/hitoshi/rightsguardian/internal/sessionlog"
)

// CatalogSource はガイドカタログの参照先。
type CatalogSource interface {
	Guides() []model.Guide
	GuideByID(id string) *model.Guide
}

// GuideService はガイド一覧・詳細のサービス。
type GuideService struct {
	catalog CatalogSource
	logs    *sessionlog.SessionLogService
}

// NewGuideService はGuideServiceの新しいインスタンスを生成する。
func NewGuideService(catalog CatalogSource, logs *sessionlog.SessionLogService) *GuideService {
	return &GuideService{catalog: catalog, logs: logs}
}

// guideFields はガイドの検索対象フィールドを抽出する。
func guideFields(g model.Guide) search.Fields {
	return search.Fields{
		Category: g.Category,
		Premium:  g.IsPremium,
		Texts:    []string{g.Title, g.Content.Summary, g.Category},
		Terms:    g.Keywords,
	}
}

// GuideSummary はガイド一覧のサマリー情報。本文セクションは含まない。
type GuideSummary struct {
	ID        string
	Title     string
	Category  string
	Keywords  []string
	IsPremium bool
	Unlocked  bool
	Summary   string
	StepCount int
}

// GuideDetail はガイド詳細の戻り値。
// Lockedがtrueの場合、SectionsとChecklistは返さない。
type GuideDetail struct {
	Guide  model.Guide
	Locked bool
}

// List はフィルタとお気に入り順位付けを適用したガイド一覧を返す。
// プレミアムガイドも一覧には現れるが、Unlockedでアクセス可否を示す。
func (s *GuideService) List(
	_ context.Context,
	u *model.User,
	filters search.Filters,
	favoriteIDs []string,
) []GuideSummary {
	filtered := search.Apply(s.catalog.Guides(), filters, guideFields)
	ranked := search.Rank(filtered, favoriteIDs, func(g model.Guide) search.Key {
		return search.Key{ID: g.ID, Title: g.Title}
	}, search.TieBreakTitle)

	summaries := make([]GuideSummary, len(ranked))
	for i, g := range ranked {
		summaries[i] = GuideSummary{
			ID:        g.ID,
			Title:     g.Title,
			Category:  g.Category,
			Keywords:  g.Keywords,
			IsPremium: g.IsPremium,
			Unlocked:  premium.UserUnlocked(g.ID, g.IsPremium, u),
			Summary:   g.Content.Summary,
			StepCount: len(g.Content.Checklist),
		}
	}
	return summaries
}

// Get はガイド詳細を返し、閲覧をログに記録する。
// プレミアム未購入の場合はLocked=trueとし、本文セクションと
// チェックリストを落としたサマリーのみのガイドを返す。
func (s *GuideService) Get(ctx context.Context, u *model.User, userID, guideID string) (*GuideDetail, error) {
	g := s.catalog.GuideByID(guideID)
	if g == nil {
		return nil, model.NewGuideNotFoundError(guideID)
	}

	if _, err := s.logs.Log(ctx, userID, model.ActionViewGuide, guideID); err != nil {
		return nil, err
	}

	if premium.UserUnlocked(g.ID, g.IsPremium, u) {
		return &GuideDetail{Guide: *g}, nil
	}

	locked := *g
	locked.Content = model.GuideContent{
		Summary:         g.Content.Summary,
		RelatedContacts: g.Content.RelatedContacts,
	}
	return &GuideDetail{Guide: locked, Locked: true}, nil
}
