package contact

import (
	"context"
	"testing"

	"github.com/hitoshi/rightsguardian/internal/model"
	"github.com/hitoshi/rightsguardian/internal/search"
)

// mockDirectory はDirectorySourceのモック実装。
type mockDirectory struct {
	contacts []model.Contact
}

func (m *mockDirectory) Contacts() []model.Contact {
	return m.contacts
}

func (m *mockDirectory) ContactByID(id string) *model.Contact {
	for i := range m.contacts {
		if m.contacts[i].ID == id {
			return &m.contacts[i]
		}
	}
	return nil
}

func testDirectory() *mockDirectory {
	return &mockDirectory{contacts: []model.Contact{
		{ID: "aclu-hotline", Name: "ACLU Rights Hotline", Phone: "1-877-677-6345", Email: "legal@aclu.org", Category: "Legal Aid", SituationType: "Civil Rights", Description: "Free legal advice"},
		{ID: "tenant-union", Name: "Tenants Union Hotline", Phone: "1-800-836-2681", Category: "Housing", SituationType: "Tenant Rights Violation", Description: "Tenant advocacy", IsPremium: true},
		{ID: "eeoc", Name: "EEOC Complaint Line", Phone: "1-800-669-4000", Category: "Employment", SituationType: "Workplace Discrimination", Description: "Discrimination complaints"},
	}}
}

func newTestService() *ContactService {
	return NewContactService(testDirectory())
}

// TestList_LauncherURIs は無料連絡先に発信URIと整形済み電話番号が
// 付くことをテストする。
func TestList_LauncherURIs(t *testing.T) {
	svc := newTestService()

	got := svc.List(context.Background(), nil, search.Filters{Category: "Legal Aid"}, nil)
	if len(got) != 1 {
		t.Fatalf("contacts = %d, want 1", len(got))
	}

	c := got[0]
	if c.TelURI != "tel:18776776345" {
		t.Errorf("TelURI = %q", c.TelURI)
	}
	if c.FormattedPhone != "+1 (877) 677-6345" {
		t.Errorf("FormattedPhone = %q", c.FormattedPhone)
	}
	if c.MailtoURI != "mailto:legal@aclu.org?subject=Legal+assistance+request" {
		t.Errorf("MailtoURI = %q", c.MailtoURI)
	}
}

// TestList_NoEmailNoMailto はメールなしの連絡先にmailto URIが
// 付かないことをテストする。
func TestList_NoEmailNoMailto(t *testing.T) {
	svc := newTestService()
	buyer := &model.User{ID: "u1", PurchasedPacks: []string{"premium-all"}}

	got := svc.List(context.Background(), buyer, search.Filters{Category: "Housing"}, nil)
	if len(got) != 1 {
		t.Fatalf("contacts = %d, want 1", len(got))
	}
	if got[0].MailtoURI != "" || got[0].Email != "" {
		t.Errorf("contact without email should have no mailto, got %+v", got[0])
	}
	if got[0].TelURI == "" {
		t.Error("unlocked premium contact should expose tel URI")
	}
}

// TestList_PremiumLocked は未購入ユーザーにプレミアム連絡先の連絡手段が
// 渡らないことをテストする。
func TestList_PremiumLocked(t *testing.T) {
	svc := newTestService()

	got := svc.List(context.Background(), &model.User{ID: "u1"}, search.Filters{}, nil)

	var union *ContactView
	for i := range got {
		if got[i].ID == "tenant-union" {
			union = &got[i]
		}
	}
	if union == nil {
		t.Fatal("premium contact should still appear in the list")
	}
	if !union.Locked {
		t.Error("premium contact should be locked for non-buyer")
	}
	if union.Phone != "" || union.TelURI != "" || union.FormattedPhone != "" {
		t.Errorf("locked contact must not expose contact details: %+v", union)
	}
	if union.Description == "" {
		t.Error("locked contact should keep its description")
	}
}

// TestGet_ReturnsDetail はID指定の取得が一覧と同じビューを返すことをテストする。
func TestGet_ReturnsDetail(t *testing.T) {
	svc := newTestService()

	got, err := svc.Get(context.Background(), nil, "aclu-hotline")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if got.Name != "ACLU Rights Hotline" {
		t.Errorf("Name = %q", got.Name)
	}
	if got.TelURI != "tel:18776776345" {
		t.Errorf("TelURI = %q", got.TelURI)
	}
	if got.MailtoURI != "mailto:legal@aclu.org?subject=Legal+assistance+request" {
		t.Errorf("MailtoURI = %q", got.MailtoURI)
	}
}

// TestGet_PremiumLocked は未購入ユーザーへの詳細でも連絡手段が
// 渡らないことをテストする。
func TestGet_PremiumLocked(t *testing.T) {
	svc := newTestService()

	got, err := svc.Get(context.Background(), &model.User{ID: "u1"}, "tenant-union")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if !got.Locked {
		t.Error("premium contact should be locked for non-buyer")
	}
	if got.Phone != "" || got.TelURI != "" {
		t.Errorf("locked contact must not expose contact details: %+v", got)
	}
}

// TestGet_NotFound は未知IDがCONTACT_NOT_FOUNDになることをテストする。
func TestGet_NotFound(t *testing.T) {
	svc := newTestService()

	_, err := svc.Get(context.Background(), nil, "missing")
	apiErr, ok := err.(*model.APIError)
	if !ok || apiErr.Code != model.ErrCodeContactNotFound {
		t.Errorf("error = %v, want CONTACT_NOT_FOUND", err)
	}
}

// TestList_SituationFilter は状況種別フィルタをテストする。
func TestList_SituationFilter(t *testing.T) {
	svc := newTestService()

	got := svc.List(context.Background(), nil, search.Filters{SituationType: "workplace discrimination"}, nil)
	if len(got) != 1 || got[0].ID != "eeoc" {
		t.Errorf("situation filter = %+v, want [eeoc]", got)
	}
}

// TestList_FavoritesFirst はお気に入りが先頭に来ることをテストする。
func TestList_FavoritesFirst(t *testing.T) {
	svc := newTestService()

	got := svc.List(context.Background(), nil, search.Filters{}, []string{"tenant-union"})
	if got[0].ID != "tenant-union" {
		t.Errorf("got[0].ID = %q, want favorite first", got[0].ID)
	}
	// 残りは名前昇順
	if got[1].ID != "aclu-hotline" || got[2].ID != "eeoc" {
		t.Errorf("non-favorites order = [%s %s], want name ascending", got[1].ID, got[2].ID)
	}
}
