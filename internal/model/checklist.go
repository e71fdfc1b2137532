// Package model はドメインモデルを定義する。
package model

import "time"

// ChecklistItem は（ガイド, ユーザー）ごとのステップ完了記録を表す。
// StepTextは初期化時にGuideのテンプレートからコピーされ、以後変更されない。
// Orderは0始まりで、同一（ガイド, ユーザー）内で一意かつ連続する。
type ChecklistItem struct {
	ItemID    string
	GuideID   string
	StepText  string
	Completed bool
	Order     int
	UpdatedAt time.Time
}

// ChecklistState はチェックリストの進行状態を表す。
type ChecklistState string

const (
	// ChecklistStateSeeded は全ステップ未完了の初期状態。
	ChecklistStateSeeded ChecklistState = "seeded"
	// ChecklistStateInProgress は一部ステップのみ完了した状態。
	ChecklistStateInProgress ChecklistState = "in_progress"
	// ChecklistStateComplete は全ステップ完了状態。
	// ステップ数0のガイドはCompleteにならない（チェックリストなしとして扱う）。
	ChecklistStateComplete ChecklistState = "complete"
)

// ChecklistProgress はチェックリスト一式と進行状態のスナップショット。
type ChecklistProgress struct {
	GuideID        string
	Items          []ChecklistItem
	CompletedCount int
	TotalCount     int
	State          ChecklistState
}

// StateFor は完了数と総数から進行状態を算出する。
// totalCount == 0 の場合もSeededを返す（呼び出し側で「チェックリストなし」と判定する）。
func StateFor(completedCount, totalCount int) ChecklistState {
	switch {
	case totalCount > 0 && completedCount == totalCount:
		return ChecklistStateComplete
	case completedCount > 0:
		return ChecklistStateInProgress
	default:
		return ChecklistStateSeeded
	}
}
