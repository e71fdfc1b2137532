package contact

import "testing"

// TestValidPhone は電話番号バリデーションの受理・拒否をテストする。
func TestValidPhone(t *testing.T) {
	tests := []struct {
		phone string
		want  bool
	}{
		{"5551234567", true},
		{"(555) 123-4567", true},
		{"1-800-799-7233", true},
		{"+1 800 799 7233", true},
		{"1-800-CALL-NOW", false}, // 文字は不可
		{"555-1234", false},       // 桁数不足
		{"25551234567", false},    // 先頭1以外の11桁
		{"555123456789", false},   // 桁数過多
		{"555+1234567890", false}, // "+"は先頭のみ
		{"", false},
	}

	for _, tt := range tests {
		if got := ValidPhone(tt.phone); got != tt.want {
			t.Errorf("ValidPhone(%q) = %v, want %v", tt.phone, got, tt.want)
		}
	}
}

// TestFormatPhone は表示用整形をテストする。
func TestFormatPhone(t *testing.T) {
	tests := []struct {
		phone string
		want  string
	}{
		{"5551234567", "(555) 123-4567"},
		{"555-123-4567", "(555) 123-4567"},
		{"15551234567", "+1 (555) 123-4567"},
		{"1-800-799-7233", "+1 (800) 799-7233"},
		{"12345", "12345"}, // 整形できない場合は原文のまま
	}

	for _, tt := range tests {
		if got := FormatPhone(tt.phone); got != tt.want {
			t.Errorf("FormatPhone(%q) = %q, want %q", tt.phone, got, tt.want)
		}
	}
}

// TestValidEmail はメールアドレスバリデーションをテストする。
func TestValidEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"legal@aclu.org", true},
		{"help@legalaid.org", true},
		{"a@b.co", true},
		{"not-an-email", false},
		{"missing@tld", false},
		{"spaces in@example.com", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := ValidEmail(tt.email); got != tt.want {
			t.Errorf("ValidEmail(%q) = %v, want %v", tt.email, got, tt.want)
		}
	}
}

// TestTelLink はtel: URIが数字のみで生成されることをテストする。
func TestTelLink(t *testing.T) {
	if got := TelLink("1-800-799-7233"); got != "tel:18007997233" {
		t.Errorf("TelLink = %q, want %q", got, "tel:18007997233")
	}
	if got := TelLink("(555) 123-4567"); got != "tel:5551234567" {
		t.Errorf("TelLink = %q, want %q", got, "tel:5551234567")
	}
}

// TestMailtoLink はmailto: URIと件名エンコードをテストする。
func TestMailtoLink(t *testing.T) {
	if got := MailtoLink("legal@aclu.org", ""); got != "mailto:legal@aclu.org" {
		t.Errorf("MailtoLink = %q", got)
	}
	got := MailtoLink("legal@aclu.org", "Legal assistance request")
	want := "mailto:legal@aclu.org?subject=Legal+assistance+request"
	if got != want {
		t.Errorf("MailtoLink = %q, want %q", got, want)
	}
}
