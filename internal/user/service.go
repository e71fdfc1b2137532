// Package user はユーザープロファイルと設定の管理機能を提供する。
package user

import (
	"context"
	"time"

	"github.com/hitoshi/rightsguardian/internal/model"
	"github.com/hitoshi/rightsguardian/internal/repository"
	"github.com/hitoshi/rightsguardian/internal/sessionlog"
)

// UserService はユーザーの取得・設定更新のサービス。
type UserService struct {
	repo repository.UserRepository
	logs *sessionlog.SessionLogService
}

// NewUserService はUserServiceの新しいインスタンスを生成する。
func NewUserService(repo repository.UserRepository, logs *sessionlog.SessionLogService) *UserService {
	return &UserService{repo: repo, logs: logs}
}

// GetOrCreate はユーザーを取得し、存在しない場合はデフォルト設定で作成する。
// 匿名ユーザーは永続化せず、デフォルト設定のプロファイルを返す。
func (s *UserService) GetOrCreate(ctx context.Context, userID string) (*model.User, error) {
	if userID == "" || userID == model.AnonymousUserID {
		return &model.User{
			ID:             model.AnonymousUserID,
			Preferences:    model.DefaultPreferences(),
			PurchasedPacks: []string{},
		}, nil
	}

	existing, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	now := time.Now().UTC()
	created := &model.User{
		ID:             userID,
		Preferences:    model.DefaultPreferences(),
		PurchasedPacks: []string{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.repo.Save(ctx, created); err != nil {
		return nil, err
	}
	return created, nil
}

// PreferencesPatch は設定の部分更新を表す。nilフィールドは変更しない。
type PreferencesPatch struct {
	Categories    *[]string
	Notifications *bool
	Location      *string
	Theme         *model.Theme
}

// UpdatePreferences はユーザー設定を部分更新する。
// 匿名ユーザーは設定を保存できない。
func (s *UserService) UpdatePreferences(ctx context.Context, userID string, patch PreferencesPatch) (*model.User, error) {
	if userID == "" || userID == model.AnonymousUserID {
		return nil, model.NewUserRequiredError()
	}
	if patch.Theme != nil && !model.ValidTheme(*patch.Theme) {
		return nil, model.NewInvalidThemeError(string(*patch.Theme))
	}

	u, err := s.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	if patch.Categories != nil {
		u.Preferences.Categories = append([]string{}, (*patch.Categories)...)
	}
	if patch.Notifications != nil {
		u.Preferences.Notifications = *patch.Notifications
	}
	if patch.Location != nil {
		u.Preferences.Location = *patch.Location
	}
	if patch.Theme != nil {
		u.Preferences.Theme = *patch.Theme
	}
	u.UpdatedAt = time.Now().UTC()

	if err := s.repo.Save(ctx, u); err != nil {
		return nil, err
	}

	if _, err := s.logs.Log(ctx, userID, model.ActionUpdatePreferences, ""); err != nil {
		return nil, err
	}

	return u, nil
}
