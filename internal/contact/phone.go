// Package contact は緊急連絡先の一覧提供と連絡手段URIの生成を担う。
package contact

import (
	"net/url"
	"regexp"
	"strings"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// digitsOnly は電話番号文字列から数字以外を取り除く。
func digitsOnly(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ValidPhone は電話番号として受理できるかどうかを返す。
// 許可される文字は数字、スペース、ハイフン、括弧、先頭の"+"のみで、
// 数字部分は10桁、または先頭1の11桁でなければならない。
func ValidPhone(phone string) bool {
	for i, r := range phone {
		switch {
		case r >= '0' && r <= '9':
		case r == ' ' || r == '-' || r == '(' || r == ')':
		case r == '+' && i == 0:
		default:
			return false
		}
	}
	digits := digitsOnly(phone)
	return len(digits) == 10 || (len(digits) == 11 && digits[0] == '1')
}

// FormatPhone は電話番号を表示用に整形する。
// 10桁は "(555) 123-4567"、先頭1の11桁は "+1 (555) 123-4567" になる。
// それ以外はそのまま返す。
func FormatPhone(phone string) string {
	digits := digitsOnly(phone)
	if len(digits) == 10 {
		return "(" + digits[0:3] + ") " + digits[3:6] + "-" + digits[6:]
	}
	if len(digits) == 11 && digits[0] == '1' {
		return "+1 (" + digits[1:4] + ") " + digits[4:7] + "-" + digits[7:]
	}
	return phone
}

// ValidEmail はメールアドレスとして受理できるかどうかを返す。
func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// TelLink は電話発信用のtel: URIを生成する。数字のみを含む。
func TelLink(phone string) string {
	return "tel:" + digitsOnly(phone)
}

// MailtoLink はメール作成用のmailto: URIを生成する。
// subjectが空でない場合はURLエンコードしてクエリに付与する。
func MailtoLink(email, subject string) string {
	if subject == "" {
		return "mailto:" + email
	}
	return "mailto:" + email + "?subject=" + url.QueryEscape(subject)
}
