package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/rightsguardian/internal/model"
)

// PostgresSessionLogRepo はPostgreSQLを使用したセッションログリポジトリ。
// 容量超過分の破棄は追記時に同一トランザクションで行う。
type PostgresSessionLogRepo struct {
	db       *sql.DB
	capacity int
}

// NewPostgresSessionLogRepo はPostgresSessionLogRepoを生成する。
// capacityが0以下の場合はデフォルトの100を使用する。
func NewPostgresSessionLogRepo(db *sql.DB, capacity int) *PostgresSessionLogRepo {
	if capacity <= 0 {
		capacity = 100
	}
	return &PostgresSessionLogRepo{db: db, capacity: capacity}
}

// Append はエントリを追記し、容量超過分の最古エントリを破棄する。
func (r *PostgresSessionLogRepo) Append(ctx context.Context, entry *model.SessionLogEntry) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("トランザクションの開始に失敗しました: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO session_logs (id, user_id, action, related_id, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		entry.ID, entry.UserID, entry.Action, entry.RelatedID, entry.Timestamp,
	); err != nil {
		return fmt.Errorf("セッションログの追記に失敗しました: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM session_logs WHERE id NOT IN (
		     SELECT id FROM session_logs ORDER BY created_at DESC, id DESC LIMIT $1
		 )`,
		r.capacity,
	); err != nil {
		return fmt.Errorf("セッションログの間引きに失敗しました: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("トランザクションのコミットに失敗しました: %w", err)
	}
	return nil
}

// List は全エントリを新しい順に返す。
func (r *PostgresSessionLogRepo) List(ctx context.Context) ([]model.SessionLogEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, action, related_id, created_at
		 FROM session_logs
		 ORDER BY created_at DESC, id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("セッションログの取得に失敗しました: %w", err)
	}
	defer rows.Close()

	entries := []model.SessionLogEntry{}
	for rows.Next() {
		var entry model.SessionLogEntry
		var relatedID sql.NullString
		if err := rows.Scan(
			&entry.ID, &entry.UserID, &entry.Action, &relatedID, &entry.Timestamp,
		); err != nil {
			return nil, fmt.Errorf("セッションログの読み取りに失敗しました: %w", err)
		}
		if relatedID.Valid {
			entry.RelatedID = relatedID.String
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("セッションログの走査に失敗しました: %w", err)
	}

	return entries, nil
}

// compile-time interface check
var _ SessionLogRepository = (*PostgresSessionLogRepo)(nil)
