package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/hitoshi/rightsguardian/internal/model"
)

// PostgresSnippetRepo はPostgreSQLを使用した教育スニペットリポジトリ。
// 投入順はBIGSERIALのposition列で保持する。
type PostgresSnippetRepo struct {
	db *sql.DB
}

// NewPostgresSnippetRepo はPostgresSnippetRepoを生成する。
func NewPostgresSnippetRepo(db *sql.DB) *PostgresSnippetRepo {
	return &PostgresSnippetRepo{db: db}
}

// List は全スニペットを投入順で返す。
func (r *PostgresSnippetRepo) List(ctx context.Context) ([]model.EducationSnippet, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, title, body, category, share_count, tags, source_guid
		 FROM snippets ORDER BY position ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("スニペット一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	snippets := []model.EducationSnippet{}
	for rows.Next() {
		s, err := scanSnippet(rows)
		if err != nil {
			return nil, err
		}
		snippets = append(snippets, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("スニペット一覧の走査に失敗しました: %w", err)
	}

	return snippets, nil
}

// FindByID はIDでスニペットを取得する。見つからない場合はnilを返す。
func (r *PostgresSnippetRepo) FindByID(ctx context.Context, id string) (*model.EducationSnippet, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, title, body, category, share_count, tags, source_guid
		 FROM snippets WHERE id = $1`,
		id,
	)
	return scanSnippetRow(row, "スニペットの取得に失敗しました")
}

// Save はスニペットを冪等にUPSERTする。
func (r *PostgresSnippetRepo) Save(ctx context.Context, snippet *model.EducationSnippet) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO snippets (id, title, body, category, share_count, tags, source_guid)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (id) DO UPDATE SET
		     title = EXCLUDED.title,
		     body = EXCLUDED.body,
		     category = EXCLUDED.category,
		     tags = EXCLUDED.tags,
		     source_guid = EXCLUDED.source_guid`,
		snippet.ID, snippet.Title, snippet.Body, snippet.Category,
		snippet.ShareCount, pq.Array(snippet.Tags), snippet.SourceGUID,
	)
	if err != nil {
		return fmt.Errorf("スニペットの保存に失敗しました: %w", err)
	}
	return nil
}

// IncrementShareCount は共有カウントを1増やし、更新後のスニペットを返す。
// 見つからない場合はnilを返す。
func (r *PostgresSnippetRepo) IncrementShareCount(ctx context.Context, id string) (*model.EducationSnippet, error) {
	row := r.db.QueryRowContext(ctx,
		`UPDATE snippets SET share_count = share_count + 1
		 WHERE id = $1
		 RETURNING id, title, body, category, share_count, tags, source_guid`,
		id,
	)
	return scanSnippetRow(row, "共有カウントの更新に失敗しました")
}

// FindBySourceGUID はニュースインポートの重複判定キーでスニペットを検索する。
// 見つからない場合はnilを返す。空GUIDは常に未検出として扱う。
func (r *PostgresSnippetRepo) FindBySourceGUID(ctx context.Context, guid string) (*model.EducationSnippet, error) {
	if guid == "" {
		return nil, nil
	}
	row := r.db.QueryRowContext(ctx,
		`SELECT id, title, body, category, share_count, tags, source_guid
		 FROM snippets WHERE source_guid = $1`,
		guid,
	)
	return scanSnippetRow(row, "スニペットの検索に失敗しました")
}

func scanSnippet(rows *sql.Rows) (*model.EducationSnippet, error) {
	s := &model.EducationSnippet{}
	var tags pq.StringArray
	var guid sql.NullString
	if err := rows.Scan(&s.ID, &s.Title, &s.Body, &s.Category, &s.ShareCount, &tags, &guid); err != nil {
		return nil, fmt.Errorf("スニペットの読み取りに失敗しました: %w", err)
	}
	s.Tags = []string(tags)
	if guid.Valid {
		s.SourceGUID = guid.String
	}
	return s, nil
}

func scanSnippetRow(row *sql.Row, failMsg string) (*model.EducationSnippet, error) {
	s := &model.EducationSnippet{}
	var tags pq.StringArray
	var guid sql.NullString
	err := row.Scan(&s.ID, &s.Title, &s.Body, &s.Category, &s.ShareCount, &tags, &guid)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", failMsg, err)
	}
	s.Tags = []string(tags)
	if guid.Valid {
		s.SourceGUID = guid.String
	}
	return s, nil
}

// compile-time interface check
var _ SnippetRepository = (*PostgresSnippetRepo)(nil)
