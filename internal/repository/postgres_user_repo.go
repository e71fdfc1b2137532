package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/hitoshi/rightsguardian/internal/model"
)

// PostgresUserRepo はPostgreSQLを使用したユーザーリポジトリ。
type PostgresUserRepo struct {
	db *sql.DB
}

// NewPostgresUserRepo はPostgresUserRepoを生成する。
func NewPostgresUserRepo(db *sql.DB) *PostgresUserRepo {
	return &PostgresUserRepo{db: db}
}

// FindByID はIDでユーザーを取得する。見つからない場合はnilを返す。
func (r *PostgresUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	user := &model.User{}
	var categories, packs pq.StringArray
	var location sql.NullString

	err := r.db.QueryRowContext(ctx,
		`SELECT id, categories, notifications, location, theme, purchased_packs, created_at, updated_at
		 FROM users WHERE id = $1`,
		id,
	).Scan(
		&user.ID, &categories,
		&user.Preferences.Notifications, &location, &user.Preferences.Theme,
		&packs,
		&user.CreatedAt, &user.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}

	user.Preferences.Categories = []string(categories)
	if user.Preferences.Categories == nil {
		user.Preferences.Categories = []string{}
	}
	if location.Valid {
		user.Preferences.Location = location.String
	}
	user.PurchasedPacks = []string(packs)
	if user.PurchasedPacks == nil {
		user.PurchasedPacks = []string{}
	}

	return user, nil
}

// Save はユーザーを冪等にUPSERTする。
func (r *PostgresUserRepo) Save(ctx context.Context, user *model.User) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, categories, notifications, location, theme, purchased_packs, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (id) DO UPDATE SET
		     categories = EXCLUDED.categories,
		     notifications = EXCLUDED.notifications,
		     location = EXCLUDED.location,
		     theme = EXCLUDED.theme,
		     purchased_packs = EXCLUDED.purchased_packs,
		     updated_at = EXCLUDED.updated_at`,
		user.ID,
		pq.Array(user.Preferences.Categories),
		user.Preferences.Notifications,
		user.Preferences.Location,
		string(user.Preferences.Theme),
		pq.Array(user.PurchasedPacks),
		user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("ユーザーの保存に失敗しました: %w", err)
	}
	return nil
}

// compile-time interface check
var _ UserRepository = (*PostgresUserRepo)(nil)
