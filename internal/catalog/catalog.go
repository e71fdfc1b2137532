// Package catalog はガイド・連絡先・スニペットの静的カタログを読み込む。
//
// カタログは埋め込みのシードJSONから起動時に一度だけ構築され、以後は
// 読み取り専用として扱う。CATALOG_PATHで外部ファイルに差し替えられる。
package catalog

import (
	"embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/hitoshi/rightsguardian/internal/contact"
	"github.com/hitoshi/rightsguardian/internal/model"
	"github.com/hitoshi/rightsguardian/internal/security"
)

//go:embed seed/catalog.json
var seedFS embed.FS

// Catalog は読み込み済みの静的コンテンツ一式を保持する。
type Catalog struct {
	guides    []model.Guide
	contacts  []model.Contact
	snippets  []model.EducationSnippet
	guideByID map[string]int
	contactByID map[string]int
}

// シードJSONのデコード用構造体。
type seedFile struct {
	Guides   []seedGuide   `json:"guides"`
	Contacts []seedContact `json:"contacts"`
	Snippets []seedSnippet `json:"snippets"`
}

type seedGuide struct {
	ID        string      `json:"id"`
	Title     string      `json:"title"`
	Category  string      `json:"category"`
	IsPremium bool        `json:"is_premium"`
	Keywords  []string    `json:"keywords"`
	Content   seedContent `json:"content"`
}

type seedContent struct {
	Summary         string        `json:"summary"`
	Sections        []seedSection `json:"sections"`
	RelatedContacts []string      `json:"related_contacts"`
	Checklist       []string      `json:"checklist"`
}

type seedSection struct {
	Title string `json:"title"`
	Kind  string `json:"kind"`
	Body  string `json:"body"`
}

type seedContact struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	Category      string `json:"category"`
	SituationType string `json:"situation_type"`
	Description   string `json:"description"`
	IsPremium     bool   `json:"is_premium"`
}

type seedSnippet struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Body       string   `json:"body"`
	Category   string   `json:"category"`
	ShareCount int      `json:"share_count"`
	Tags       []string `json:"tags"`
}

// Load はカタログを読み込んで検証する。
// pathが空の場合は埋め込みシードを使用する。
func Load(path string, sanitizer security.TextSanitizerService) (*Catalog, error) {
	var raw []byte
	var err error
	if path == "" {
		raw, err = seedFS.ReadFile("seed/catalog.json")
	} else {
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("カタログファイルの読み込みに失敗しました: %w", err)
	}

	return Parse(raw, sanitizer)
}

// Parse はカタログJSONをデコードし、検証とサニタイズを行う。
func Parse(raw []byte, sanitizer security.TextSanitizerService) (*Catalog, error) {
	var seed seedFile
	if err := json.Unmarshal(raw, &seed); err != nil {
		return nil, fmt.Errorf("カタログJSONの解析に失敗しました: %w", err)
	}

	c := &Catalog{
		guideByID:   make(map[string]int),
		contactByID: make(map[string]int),
	}

	for _, sg := range seed.Guides {
		if sg.ID == "" {
			return nil, fmt.Errorf("IDが空のガイドがあります")
		}
		if _, dup := c.guideByID[sg.ID]; dup {
			return nil, fmt.Errorf("ガイドIDが重複しています: %s", sg.ID)
		}

		sections := make([]model.GuideSection, 0, len(sg.Content.Sections))
		for _, ss := range sg.Content.Sections {
			kind := model.SectionKind(ss.Kind)
			if !model.ValidSectionKind(kind) {
				return nil, fmt.Errorf("ガイド %s に未知のセクション種別があります: %q", sg.ID, ss.Kind)
			}
			sections = append(sections, model.GuideSection{
				Title: sanitizer.SanitizeText(ss.Title),
				Body:  sanitizer.SanitizeText(ss.Body),
				Kind:  kind,
			})
		}

		checklist := make([]string, 0, len(sg.Content.Checklist))
		for i, step := range sg.Content.Checklist {
			clean := sanitizer.SanitizeText(step)
			if clean == "" {
				return nil, fmt.Errorf("ガイド %s のチェックリスト%d番目が空です", sg.ID, i)
			}
			checklist = append(checklist, clean)
		}

		c.guideByID[sg.ID] = len(c.guides)
		c.guides = append(c.guides, model.Guide{
			ID:        sg.ID,
			Title:     sanitizer.SanitizeText(sg.Title),
			Category:  sg.Category,
			Keywords:  append([]string{}, sg.Keywords...),
			IsPremium: sg.IsPremium,
			Content: model.GuideContent{
				Summary:         sanitizer.SanitizeText(sg.Content.Summary),
				Sections:        sections,
				RelatedContacts: append([]string{}, sg.Content.RelatedContacts...),
				Checklist:       checklist,
			},
		})
	}

	for _, sc := range seed.Contacts {
		if sc.ID == "" {
			return nil, fmt.Errorf("IDが空の連絡先があります")
		}
		if _, dup := c.contactByID[sc.ID]; dup {
			return nil, fmt.Errorf("連絡先IDが重複しています: %s", sc.ID)
		}
		if !contact.ValidPhone(sc.Phone) {
			return nil, fmt.Errorf("連絡先 %s の電話番号が不正です: %q", sc.ID, sc.Phone)
		}
		if sc.Email != "" && !contact.ValidEmail(sc.Email) {
			return nil, fmt.Errorf("連絡先 %s のメールアドレスが不正です: %q", sc.ID, sc.Email)
		}

		c.contactByID[sc.ID] = len(c.contacts)
		c.contacts = append(c.contacts, model.Contact{
			ID:            sc.ID,
			Name:          sanitizer.SanitizeText(sc.Name),
			Phone:         sc.Phone,
			Email:         sc.Email,
			Category:      sc.Category,
			SituationType: sc.SituationType,
			Description:   sanitizer.SanitizeText(sc.Description),
			IsPremium:     sc.IsPremium,
		})
	}

	seenSnippets := make(map[string]bool)
	for _, ss := range seed.Snippets {
		if ss.ID == "" {
			return nil, fmt.Errorf("IDが空のスニペットがあります")
		}
		if seenSnippets[ss.ID] {
			return nil, fmt.Errorf("スニペットIDが重複しています: %s", ss.ID)
		}
		seenSnippets[ss.ID] = true

		c.snippets = append(c.snippets, model.EducationSnippet{
			ID:         ss.ID,
			Title:      sanitizer.SanitizeText(ss.Title),
			Body:       sanitizer.SanitizeText(ss.Body),
			Category:   ss.Category,
			ShareCount: ss.ShareCount,
			Tags:       append([]string{}, ss.Tags...),
		})
	}

	return c, nil
}

// Guides は全ガイドをカタログ記載順で返す。返り値は共有される読み取り専用
// スライスであり、呼び出し側は変更してはならない。
func (c *Catalog) Guides() []model.Guide {
	return c.guides
}

// GuideByID はIDでガイドを検索する。見つからない場合はnilを返す。
func (c *Catalog) GuideByID(id string) *model.Guide {
	i, ok := c.guideByID[id]
	if !ok {
		return nil
	}
	return &c.guides[i]
}

// Contacts は全連絡先をカタログ記載順で返す。
func (c *Catalog) Contacts() []model.Contact {
	return c.contacts
}

// ContactByID はIDで連絡先を検索する。見つからない場合はnilを返す。
func (c *Catalog) ContactByID(id string) *model.Contact {
	i, ok := c.contactByID[id]
	if !ok {
		return nil
	}
	return &c.contacts[i]
}

// Snippets はシードスニペットを返す。起動時のリポジトリ投入に使用する。
func (c *Catalog) Snippets() []model.EducationSnippet {
	return c.snippets
}
