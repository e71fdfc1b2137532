// Package checklist は（ガイド, ユーザー）ごとのチェックリスト進行管理を提供する。
package checklist

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/hitoshi/rightsguardian/internal/model"
	"github.com/hitoshi/rightsguardian/internal/repository"
	"github.com/hitoshi/rightsguardian/internal/sessionlog"
)

// TemplateSource はガイドのチェックリストテンプレートの参照先。
// カタログが実装する。
type TemplateSource interface {
	GuideByID(id string) *model.Guide
}

// ChecklistService はチェックリストの初期化・トグル・リセットのサービス。
type ChecklistService struct {
	repo      repository.ChecklistRepository
	templates TemplateSource
	logs      *sessionlog.SessionLogService
}

// NewChecklistService はChecklistServiceの新しいインスタンスを生成する。
func NewChecklistService(
	repo repository.ChecklistRepository,
	templates TemplateSource,
	logs *sessionlog.SessionLogService,
) *ChecklistService {
	return &ChecklistService{repo: repo, templates: templates, logs: logs}
}

// itemIDFor はチェックリスト項目の決定的なIDを生成する。
// 項目IDは順序インデックスを埋め込み、未実体化項目のトグルで逆引きに使う。
func itemIDFor(guideID string, order int) string {
	return fmt.Sprintf("%s-%d", guideID, order)
}

// parseOrderIndex は項目IDから順序インデックスを取り出す。
// 期待する形式でない場合は -1 を返す。
func parseOrderIndex(guideID, itemID string) int {
	prefix := guideID + "-"
	if !strings.HasPrefix(itemID, prefix) {
		return -1
	}
	n, err := strconv.Atoi(itemID[len(prefix):])
	if err != nil || n < 0 {
		return -1
	}
	return n
}

// Get はチェックリストを取得する。未初期化の場合はテンプレートから
// 全項目未完了でシードする（遅延初期化、冪等）。
// チェックリストを持たないガイドはCHECKLIST_NOT_AVAILABLEを返す。
func (s *ChecklistService) Get(ctx context.Context, userID, guideID string) (*model.ChecklistProgress, error) {
	if userID == "" || userID == model.AnonymousUserID {
		return nil, model.NewUserRequiredError()
	}

	guide := s.templates.GuideByID(guideID)
	if guide == nil {
		return nil, model.NewGuideNotFoundError(guideID)
	}
	if len(guide.Content.Checklist) == 0 {
		return nil, model.NewChecklistNotAvailableError(guideID)
	}

	items, err := s.ensureSeeded(ctx, userID, guide)
	if err != nil {
		return nil, err
	}
	return progressOf(guideID, items), nil
}

// Toggle は1項目の完了状態を反転する。
// リポジトリに存在しない項目IDでも、順序インデックスがテンプレートの
// 範囲内であればテンプレート文で実体化してから反転する。範囲外は
// CHECKLIST_ITEM_NOT_FOUNDを返す。
func (s *ChecklistService) Toggle(ctx context.Context, userID, guideID, itemID string) (*model.ChecklistProgress, error) {
	if userID == "" || userID == model.AnonymousUserID {
		return nil, model.NewUserRequiredError()
	}
	if itemID == "" {
		return nil, model.NewInvalidRequestError("item_idは必須です")
	}

	guide := s.templates.GuideByID(guideID)
	if guide == nil {
		return nil, model.NewGuideNotFoundError(guideID)
	}
	template := guide.Content.Checklist
	if len(template) == 0 {
		return nil, model.NewChecklistNotAvailableError(guideID)
	}

	items, err := s.ensureSeeded(ctx, userID, guide)
	if err != nil {
		return nil, err
	}

	var target *model.ChecklistItem
	for i := range items {
		if items[i].ItemID == itemID {
			target = &items[i]
			break
		}
	}

	if target == nil {
		// 実体化されていない項目。順序インデックスがテンプレート範囲内なら
		// テンプレート文から生成する。
		order := parseOrderIndex(guideID, itemID)
		if order < 0 || order >= len(template) {
			return nil, model.NewChecklistItemNotFoundError(itemID)
		}
		materialized := model.ChecklistItem{
			ItemID:   itemID,
			GuideID:  guideID,
			StepText: template[order],
			Order:    order,
		}
		items = append(items, materialized)
		target = &items[len(items)-1]
	}

	target.Completed = !target.Completed
	target.UpdatedAt = time.Now().UTC()
	if err := s.repo.UpsertItem(ctx, userID, *target); err != nil {
		return nil, err
	}

	if _, err := s.logs.Log(ctx, userID, model.ActionToggleChecklist, guideID); err != nil {
		return nil, err
	}

	// リポジトリの順序付けに合わせて読み直す
	items, err = s.repo.ListByUserAndGuide(ctx, userID, guideID)
	if err != nil {
		return nil, err
	}
	return progressOf(guideID, items), nil
}

// Reset は全項目を未完了に戻す。項目の削除や並べ替えは行わない。
func (s *ChecklistService) Reset(ctx context.Context, userID, guideID string) (*model.ChecklistProgress, error) {
	if userID == "" || userID == model.AnonymousUserID {
		return nil, model.NewUserRequiredError()
	}

	guide := s.templates.GuideByID(guideID)
	if guide == nil {
		return nil, model.NewGuideNotFoundError(guideID)
	}
	if len(guide.Content.Checklist) == 0 {
		return nil, model.NewChecklistNotAvailableError(guideID)
	}

	if _, err := s.ensureSeeded(ctx, userID, guide); err != nil {
		return nil, err
	}
	if err := s.repo.ResetByUserAndGuide(ctx, userID, guideID); err != nil {
		return nil, err
	}

	if _, err := s.logs.Log(ctx, userID, model.ActionResetChecklist, guideID); err != nil {
		return nil, err
	}

	items, err := s.repo.ListByUserAndGuide(ctx, userID, guideID)
	if err != nil {
		return nil, err
	}
	return progressOf(guideID, items), nil
}

// ensureSeeded は未初期化のチェックリストをテンプレートからシードする。
// 既に項目が存在する場合は進行状態を保持したまま何もしない。
func (s *ChecklistService) ensureSeeded(ctx context.Context, userID string, guide *model.Guide) ([]model.ChecklistItem, error) {
	items, err := s.repo.ListByUserAndGuide(ctx, userID, guide.ID)
	if err != nil {
		return nil, err
	}
	if len(items) > 0 {
		return items, nil
	}

	now := time.Now().UTC()
	seeded := make([]model.ChecklistItem, len(guide.Content.Checklist))
	for i, step := range guide.Content.Checklist {
		seeded[i] = model.ChecklistItem{
			ItemID:    itemIDFor(guide.ID, i),
			GuideID:   guide.ID,
			StepText:  step,
			Completed: false,
			Order:     i,
			UpdatedAt: now,
		}
	}
	if err := s.repo.SaveAll(ctx, userID, seeded); err != nil {
		return nil, err
	}
	return seeded, nil
}

// progressOf は項目一覧から進行状態のスナップショットを作る。
func progressOf(guideID string, items []model.ChecklistItem) *model.ChecklistProgress {
	completed := 0
	for _, item := range items {
		if item.Completed {
			completed++
		}
	}
	return &model.ChecklistProgress{
		GuideID:        guideID,
		Items:          items,
		CompletedCount: completed,
		TotalCount:     len(items),
		State:          model.StateFor(completed, len(items)),
	}
}
