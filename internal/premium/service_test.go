package premium

import (
	"context"
	"testing"

	"github.com/hitoshi/rightsguardian/internal/model"
	"github.com/hitoshi/rightsguardian/internal/sessionlog"
	"github.com/hitoshi/rightsguardian/internal/user"
)

// TestUnlocked はアクセス判定の真理値表をテストする。
func TestUnlocked(t *testing.T) {
	tests := []struct {
		name      string
		contentID string
		isPremium bool
		packs     []string
		want      bool
	}{
		{name: "無料コンテンツは常に可", contentID: "police-encounter", isPremium: false, packs: nil, want: true},
		{name: "プレミアム未購入は不可", contentID: "tenant-rights", isPremium: true, packs: nil, want: false},
		{name: "同名パック購入で可", contentID: "tenant-rights", isPremium: true, packs: []string{"tenant-rights"}, want: true},
		{name: "premium-allで可", contentID: "tenant-rights", isPremium: true, packs: []string{"premium-all"}, want: true},
		{name: "別パックでは不可", contentID: "tenant-rights", isPremium: true, packs: []string{"workplace-rights"}, want: false},
		{name: "アンダースコア表記は対象外", contentID: "tenant-rights", isPremium: true, packs: []string{"premium_all"}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Unlocked(tt.contentID, tt.isPremium, tt.packs); got != tt.want {
				t.Errorf("Unlocked(%q, %v, %v) = %v, want %v", tt.contentID, tt.isPremium, tt.packs, got, tt.want)
			}
		})
	}
}

// TestUserUnlocked_NilUser はnilユーザーが未購入扱いになることをテストする。
func TestUserUnlocked_NilUser(t *testing.T) {
	if UserUnlocked("tenant-rights", true, nil) {
		t.Error("nil user should not unlock premium content")
	}
	if !UserUnlocked("police-encounter", false, nil) {
		t.Error("free content should be accessible without a user")
	}
}

// mockUserRepo はUserRepositoryのモック実装。
type mockUserRepo struct {
	users map[string]*model.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) FindByID(_ context.Context, id string) (*model.User, error) {
	return m.users[id], nil
}

func (m *mockUserRepo) Save(_ context.Context, u *model.User) error {
	m.users[u.ID] = u
	return nil
}

// mockLogRepo は記録されたログを蓄積するSessionLogRepositoryのモック実装。
type mockLogRepo struct {
	entries []model.SessionLogEntry
}

func (m *mockLogRepo) Append(_ context.Context, entry *model.SessionLogEntry) error {
	m.entries = append([]model.SessionLogEntry{*entry}, m.entries...)
	return nil
}

func (m *mockLogRepo) List(_ context.Context) ([]model.SessionLogEntry, error) {
	return m.entries, nil
}

func newTestService() (*PremiumService, *mockUserRepo, *mockLogRepo) {
	repo := newMockUserRepo()
	logRepo := &mockLogRepo{}
	logs := sessionlog.NewSessionLogService(logRepo)
	users := user.NewUserService(repo, logs)
	return NewPremiumService(repo, users, logs), repo, logRepo
}

// TestPurchase_AddsPackAndLogs は購入がパック集合に追加されログが残ることを
// テストする。
func TestPurchase_AddsPackAndLogs(t *testing.T) {
	svc, repo, logRepo := newTestService()

	u, err := svc.Purchase(context.Background(), "0xabc", "tenant-rights", "0xdeadbeef")
	if err != nil {
		t.Fatalf("Purchase returned error: %v", err)
	}

	if !u.HasPack("tenant-rights") {
		t.Error("pack was not added")
	}
	if saved := repo.users["0xabc"]; saved == nil || !saved.HasPack("tenant-rights") {
		t.Error("pack was not persisted")
	}
	if len(logRepo.entries) != 1 {
		t.Fatalf("log entries = %d, want 1", len(logRepo.entries))
	}
	if logRepo.entries[0].Action != model.ActionPurchasePack || logRepo.entries[0].RelatedID != "tenant-rights" {
		t.Errorf("log entry = %+v, want purchase_pack/tenant-rights", logRepo.entries[0])
	}
}

// TestPurchase_Idempotent は再購入でパックが重複しないことをテストする。
func TestPurchase_Idempotent(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.Purchase(ctx, "0xabc", "premium-all", "tx1"); err != nil {
		t.Fatalf("1回目のPurchaseに失敗: %v", err)
	}
	u, err := svc.Purchase(ctx, "0xabc", "premium-all", "tx2")
	if err != nil {
		t.Fatalf("2回目のPurchaseに失敗: %v", err)
	}

	count := 0
	for _, p := range u.PurchasedPacks {
		if p == "premium-all" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("premium-all appears %d times, want 1", count)
	}
	if saved := repo.users["0xabc"]; len(saved.PurchasedPacks) != 1 {
		t.Errorf("persisted packs = %v, want exactly one", saved.PurchasedPacks)
	}
}

// TestPurchase_Validation は匿名ユーザーと空パックIDの拒否をテストする。
func TestPurchase_Validation(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Purchase(ctx, model.AnonymousUserID, "premium-all", "tx")
	if apiErr, ok := err.(*model.APIError); !ok || apiErr.Code != model.ErrCodeUserRequired {
		t.Errorf("anonymous purchase error = %v, want USER_REQUIRED", err)
	}

	_, err = svc.Purchase(ctx, "0xabc", "", "tx")
	if apiErr, ok := err.(*model.APIError); !ok || apiErr.Code != model.ErrCodeInvalidRequest {
		t.Errorf("empty pack error = %v, want INVALID_REQUEST", err)
	}
}
