// Package education は教育スニペットの一覧提供と共有機能を提供する。
package education

import (
	"context"
	"fmt"
	"sort"

	"github.com/hitoshi/rightsguardian/internal/model"
	"github.com/hitoshi/rightsguardian/internal/repository"
	"github.com/hitoshi/rightsguardian/internal/search"
	"github.com/hitoshi/rightsguardian/internal/sessionlog"
)

// EducationService はスニペットの検索・共有のサービス。
type EducationService struct {
	repo    repository.SnippetRepository
	logs    *sessionlog.SessionLogService
	baseURL string
}

// NewEducationService はEducationServiceの新しいインスタンスを生成する。
// baseURLは共有テキストに埋め込むリンクの起点になる。
func NewEducationService(
	repo repository.SnippetRepository,
	logs *sessionlog.SessionLogService,
	baseURL string,
) *EducationService {
	return &EducationService{repo: repo, logs: logs, baseURL: baseURL}
}

// snippetFields はスニペットの検索対象フィールドを抽出する。
func snippetFields(s model.EducationSnippet) search.Fields {
	return search.Fields{
		Category: s.Category,
		Texts:    []string{s.Title, s.Body, s.Category},
		Terms:    s.Tags,
	}
}

// List はフィルタとソートを適用したスニペット一覧を返す。
// ソートは既定で共有数降順（人気順）。limitが正の場合は先頭からlimit件に
// 切り詰める。
func (s *EducationService) List(
	ctx context.Context,
	filters search.Filters,
	sortBy model.SnippetSort,
	limit int,
) ([]model.EducationSnippet, error) {
	if sortBy == "" {
		sortBy = model.SnippetSortShares
	}
	if sortBy != model.SnippetSortShares && sortBy != model.SnippetSortTitle {
		return nil, model.NewInvalidSortError(string(sortBy))
	}

	snippets, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	filtered := search.Apply(snippets, filters, snippetFields)

	switch sortBy {
	case model.SnippetSortShares:
		sort.SliceStable(filtered, func(i, j int) bool {
			return filtered[i].ShareCount > filtered[j].ShareCount
		})
	case model.SnippetSortTitle:
		filtered = search.Rank(filtered, nil, func(sn model.EducationSnippet) search.Key {
			return search.Key{ID: sn.ID, Title: sn.Title}
		}, search.TieBreakTitle)
	}

	if limit > 0 && len(filtered) > limit {
		filtered = filtered[:limit]
	}
	return filtered, nil
}

// Ranked はお気に入りIDを先頭に寄せたスニペット一覧を返す。
// 同順位は共有数降順で安定に並ぶ。
func (s *EducationService) Ranked(ctx context.Context, filters search.Filters, favoriteIDs []string) ([]model.EducationSnippet, error) {
	snippets, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	filtered := search.Apply(snippets, filters, snippetFields)
	return search.Rank(filtered, favoriteIDs, func(sn model.EducationSnippet) search.Key {
		return search.Key{ID: sn.ID, Title: sn.Title, ShareCount: sn.ShareCount}
	}, search.TieBreakShares), nil
}

// ShareResult はShareの戻り値。
type ShareResult struct {
	Snippet      model.EducationSnippet
	ShareContent string
	ShareURL     string
}

// Share は共有カウントを1増やし、プラットフォーム別の共有テキストを生成する。
// 共有は匿名ユーザーにも許可される。
func (s *EducationService) Share(
	ctx context.Context,
	userID, snippetID string,
	platform model.SharePlatform,
) (*ShareResult, error) {
	switch platform {
	case model.SharePlatformFarcaster, model.SharePlatformTwitter, model.SharePlatformCopy:
	default:
		return nil, model.NewInvalidPlatformError(string(platform))
	}

	updated, err := s.repo.IncrementShareCount(ctx, snippetID)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, model.NewSnippetNotFoundError(snippetID)
	}

	shareURL := fmt.Sprintf("%s/education/%s", s.baseURL, updated.ID)
	var content string
	switch platform {
	case model.SharePlatformFarcaster:
		content = fmt.Sprintf("💡 Did you know? %s\n\n%s\n\n#RightsGuardian #KnowYourRights\n%s",
			updated.Title, updated.Body, shareURL)
	case model.SharePlatformTwitter:
		content = fmt.Sprintf("💡 %s\n\n%s\n\n#RightsGuardian #KnowYourRights\n%s",
			updated.Title, updated.Body, shareURL)
	case model.SharePlatformCopy:
		content = fmt.Sprintf("%s\n\n%s\n\nShared from RightsGuardian - %s",
			updated.Title, updated.Body, s.baseURL)
	}

	if _, err := s.logs.Log(ctx, userID, model.ActionShareSnippet, updated.ID); err != nil {
		return nil, err
	}

	return &ShareResult{
		Snippet:      *updated,
		ShareContent: content,
		ShareURL:     shareURL,
	}, nil
}
