package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/rightsguardian/internal/model"
)

// PostgresChecklistRepo はPostgreSQLを使用したチェックリストリポジトリ。
type PostgresChecklistRepo struct {
	db *sql.DB
}

// NewPostgresChecklistRepo はPostgresChecklistRepoを生成する。
func NewPostgresChecklistRepo(db *sql.DB) *PostgresChecklistRepo {
	return &PostgresChecklistRepo{db: db}
}

// ListByUserAndGuide はチェックリスト項目をorder昇順で返す。
// 未初期化の場合は空スライスを返す。
func (r *PostgresChecklistRepo) ListByUserAndGuide(ctx context.Context, userID, guideID string) ([]model.ChecklistItem, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT item_id, guide_id, step_text, completed, item_order, updated_at
		 FROM checklist_items
		 WHERE user_id = $1 AND guide_id = $2
		 ORDER BY item_order ASC`,
		userID, guideID,
	)
	if err != nil {
		return nil, fmt.Errorf("チェックリストの取得に失敗しました: %w", err)
	}
	defer rows.Close()

	items := []model.ChecklistItem{}
	for rows.Next() {
		var item model.ChecklistItem
		if err := rows.Scan(
			&item.ItemID, &item.GuideID, &item.StepText,
			&item.Completed, &item.Order, &item.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("チェックリスト項目の読み取りに失敗しました: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("チェックリストの走査に失敗しました: %w", err)
	}

	return items, nil
}

// SaveAll は（ユーザー, ガイド）のチェックリスト一式をトランザクションで保存する。
func (r *PostgresChecklistRepo) SaveAll(ctx context.Context, userID string, items []model.ChecklistItem) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("トランザクションの開始に失敗しました: %w", err)
	}
	defer tx.Rollback()

	for _, item := range items {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO checklist_items (user_id, guide_id, item_id, step_text, completed, item_order, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)
			 ON CONFLICT (user_id, guide_id, item_id) DO UPDATE SET
			     step_text = EXCLUDED.step_text,
			     completed = EXCLUDED.completed,
			     item_order = EXCLUDED.item_order,
			     updated_at = EXCLUDED.updated_at`,
			userID, item.GuideID, item.ItemID,
			item.StepText, item.Completed, item.Order, item.UpdatedAt,
		); err != nil {
			return fmt.Errorf("チェックリスト項目の保存に失敗しました: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("トランザクションのコミットに失敗しました: %w", err)
	}
	return nil
}

// UpsertItem は単一項目を冪等にUPSERTする。
func (r *PostgresChecklistRepo) UpsertItem(ctx context.Context, userID string, item model.ChecklistItem) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO checklist_items (user_id, guide_id, item_id, step_text, completed, item_order, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (user_id, guide_id, item_id) DO UPDATE SET
		     completed = EXCLUDED.completed,
		     updated_at = EXCLUDED.updated_at`,
		userID, item.GuideID, item.ItemID,
		item.StepText, item.Completed, item.Order, item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("チェックリスト項目の更新に失敗しました: %w", err)
	}
	return nil
}

// ResetByUserAndGuide は全項目のcompletedをfalseにする。項目の削除は行わない。
func (r *PostgresChecklistRepo) ResetByUserAndGuide(ctx context.Context, userID, guideID string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE checklist_items SET completed = FALSE, updated_at = NOW()
		 WHERE user_id = $1 AND guide_id = $2`,
		userID, guideID,
	)
	if err != nil {
		return fmt.Errorf("チェックリストのリセットに失敗しました: %w", err)
	}
	return nil
}

// compile-time interface check
var _ ChecklistRepository = (*PostgresChecklistRepo)(nil)
