// Package premium はプレミアムコンテンツのアクセス判定と購入処理を提供する。
package premium

import (
	"context"
	"log/slog"
	"time"

	"github.com/hitoshi/rightsguardian/internal/model"
	"github.com/hitoshi/rightsguardian/internal/repository"
	"github.com/hitoshi/rightsguardian/internal/sessionlog"
	"github.com/hitoshi/rightsguardian/internal/user"
)

// SentinelAllPack は全プレミアムコンテンツを解放するパックID。
const SentinelAllPack = "premium-all"

// Unlocked はコンテンツへのアクセス可否を判定する。
// 無料コンテンツは常にtrue。プレミアムコンテンツはコンテンツIDと同名の
// パック、またはpremium-allパックの購入で解放される。
func Unlocked(contentID string, isPremium bool, packs []string) bool {
	if !isPremium {
		return true
	}
	for _, p := range packs {
		if p == contentID || p == SentinelAllPack {
			return true
		}
	}
	return false
}

// UserUnlocked はユーザーに対するアクセス可否を判定する。userがnilの場合は
// 未購入として扱う。
func UserUnlocked(contentID string, isPremium bool, u *model.User) bool {
	if u == nil {
		return Unlocked(contentID, isPremium, nil)
	}
	return Unlocked(contentID, isPremium, u.PurchasedPacks)
}

// PremiumService はパック購入のサービス。
type PremiumService struct {
	repo  repository.UserRepository
	users *user.UserService
	logs  *sessionlog.SessionLogService
}

// NewPremiumService はPremiumServiceの新しいインスタンスを生成する。
func NewPremiumService(
	repo repository.UserRepository,
	users *user.UserService,
	logs *sessionlog.SessionLogService,
) *PremiumService {
	return &PremiumService{repo: repo, users: users, logs: logs}
}

// Purchase はパックを購入済み集合に追加する。冪等であり、購入済みパックの
// 再購入は状態を変えずに成功する。transactionRefは検証せず記録のみ行う
// （実際の決済検証はスコープ外）。
func (s *PremiumService) Purchase(ctx context.Context, userID, packID, transactionRef string) (*model.User, error) {
	if userID == "" || userID == model.AnonymousUserID {
		return nil, model.NewUserRequiredError()
	}
	if packID == "" {
		return nil, model.NewInvalidRequestError("pack_idは必須です")
	}

	u, err := s.users.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	if !u.HasPack(packID) {
		u.PurchasedPacks = append(u.PurchasedPacks, packID)
		u.UpdatedAt = time.Now().UTC()
		if err := s.repo.Save(ctx, u); err != nil {
			return nil, err
		}
	}

	slog.Info("パックを購入しました",
		slog.String("user_id", userID),
		slog.String("pack_id", packID),
		slog.String("transaction_ref", transactionRef),
	)

	if _, err := s.logs.Log(ctx, userID, model.ActionPurchasePack, packID); err != nil {
		return nil, err
	}

	return u, nil
}
