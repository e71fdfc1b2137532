package contact

import (
	"context"

	"github.com/hitoshi/rightsguardian/internal/model"
	"github.com/hitoshi/rightsguardian/internal/premium"
	"github.com/hitoshi/rightsguardian/internal/search"
)

// DirectorySource は連絡先カタログの参照先。
type DirectorySource interface {
	Contacts() []model.Contact
	ContactByID(id string) *model.Contact
}

// ContactService は緊急連絡先一覧のサービス。
type ContactService struct {
	directory DirectorySource
}

// NewContactService はContactServiceの新しいインスタンスを生成する。
func NewContactService(directory DirectorySource) *ContactService {
	return &ContactService{directory: directory}
}

// contactFields は連絡先の検索対象フィールドを抽出する。
func contactFields(c model.Contact) search.Fields {
	return search.Fields{
		Category:      c.Category,
		SituationType: c.SituationType,
		Premium:       c.IsPremium,
		Texts:         []string{c.Name, c.Description, c.Category, c.SituationType},
	}
}

// ContactView は連絡先一覧の1件。発信用URIと表示用電話番号を含む。
// Lockedがtrueの場合、連絡手段は返さない。
type ContactView struct {
	ID             string
	Name           string
	Category       string
	SituationType  string
	Description    string
	IsPremium      bool
	Locked         bool
	Phone          string
	FormattedPhone string
	TelURI         string
	Email          string
	MailtoURI      string
}

// List はフィルタとお気に入り順位付けを適用した連絡先一覧を返す。
// プレミアム連絡先は未購入ユーザーにも一覧表示されるが、Locked=trueとなり
// 電話番号・メールアドレス・発信URIは返さない。
func (s *ContactService) List(
	_ context.Context,
	u *model.User,
	filters search.Filters,
	favoriteIDs []string,
) []ContactView {
	filtered := search.Apply(s.directory.Contacts(), filters, contactFields)
	ranked := search.Rank(filtered, favoriteIDs, func(c model.Contact) search.Key {
		return search.Key{ID: c.ID, Title: c.Name}
	}, search.TieBreakTitle)

	views := make([]ContactView, len(ranked))
	for i, c := range ranked {
		views[i] = viewOf(c, u)
	}
	return views
}

// Get はIDで連絡先詳細を返す。一覧と同じロック規則を適用する。
func (s *ContactService) Get(_ context.Context, u *model.User, contactID string) (*ContactView, error) {
	c := s.directory.ContactByID(contactID)
	if c == nil {
		return nil, model.NewContactNotFoundError(contactID)
	}
	view := viewOf(*c, u)
	return &view, nil
}

// viewOf は連絡先1件のビューを組み立てる。未購入のプレミアム連絡先は
// Locked=trueとなり連絡手段を含まない。
func viewOf(c model.Contact, u *model.User) ContactView {
	view := ContactView{
		ID:            c.ID,
		Name:          c.Name,
		Category:      c.Category,
		SituationType: c.SituationType,
		Description:   c.Description,
		IsPremium:     c.IsPremium,
	}
	if premium.UserUnlocked(c.ID, c.IsPremium, u) {
		view.Phone = c.Phone
		view.FormattedPhone = FormatPhone(c.Phone)
		view.TelURI = TelLink(c.Phone)
		if c.Email != "" {
			view.Email = c.Email
			view.MailtoURI = MailtoLink(c.Email, "Legal assistance request")
		}
	} else {
		view.Locked = true
	}
	return view
}
