// Package repository はデータ永続化のインターフェースを定義する。
//
// ビジネスロジックにストアの実体を持ち込まないためのストレージポート。
// デフォルトはインメモリ実装で、DATABASE_URLが設定された場合のみ
// PostgreSQL実装に差し替わる。検索系メソッドは未検出時にnilを返し、
// エラーはストア自体の障害のみを表す。
package repository

import (
	"context"

	"github.com/hitoshi/rightsguardian/internal/model"
)

// UserRepository はユーザープロファイルの永続化インターフェース。
type UserRepository interface {
	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.User, error)

	// Save はユーザーを冪等にUPSERTする。
	Save(ctx context.Context, user *model.User) error
}

// ChecklistRepository は（ユーザー, ガイド）ごとのチェックリスト項目の
// 永続化インターフェース。
type ChecklistRepository interface {
	// ListByUserAndGuide はチェックリスト項目をorder昇順で返す。
	// 未初期化の場合は空スライスを返す。
	ListByUserAndGuide(ctx context.Context, userID, guideID string) ([]model.ChecklistItem, error)

	// SaveAll は（ユーザー, ガイド）のチェックリスト一式を保存する。
	// 初期シードで使用する。既存項目は上書きされる。
	SaveAll(ctx context.Context, userID string, items []model.ChecklistItem) error

	// UpsertItem は単一項目を冪等にUPSERTする。トグルと遅延実体化で使用する。
	UpsertItem(ctx context.Context, userID string, item model.ChecklistItem) error

	// ResetByUserAndGuide は全項目のcompletedをfalseにする。
	// 項目の削除や並べ替えは行わない。
	ResetByUserAndGuide(ctx context.Context, userID, guideID string) error
}

// SessionLogRepository はセッションログの永続化インターフェース。
// ログは追記専用で、実装は構築時に指定された容量を超えた古いエントリを
// 追記時にFIFOで破棄する。
type SessionLogRepository interface {
	// Append はエントリを追記し、容量超過分の最古エントリを破棄する。
	Append(ctx context.Context, entry *model.SessionLogEntry) error

	// List は全エントリを新しい順に返す。
	List(ctx context.Context) ([]model.SessionLogEntry, error)
}

// SnippetRepository は教育スニペットの実行時ストアのインターフェース。
// 起動時にカタログシードから投入され、共有カウントの更新と
// ニュースインポートによる追加を受け付ける。
type SnippetRepository interface {
	// List は全スニペットを返す。順序は投入順。
	List(ctx context.Context) ([]model.EducationSnippet, error)

	// FindByID は指定IDのスニペットを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.EducationSnippet, error)

	// Save はスニペットを冪等にUPSERTする。シード投入で使用する。
	Save(ctx context.Context, snippet *model.EducationSnippet) error

	// IncrementShareCount は共有カウントを1増やし、更新後のスニペットを返す。
	// 見つからない場合はnilを返す。
	IncrementShareCount(ctx context.Context, id string) (*model.EducationSnippet, error)

	// FindBySourceGUID はニュースインポートの重複判定キーでスニペットを検索する。
	// 見つからない場合はnilを返す。
	FindBySourceGUID(ctx context.Context, guid string) (*model.EducationSnippet, error)
}
