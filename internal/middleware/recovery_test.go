package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// TestRecovery_LogsUserIDHeader はpanic時のログにX-User-IDヘッダーの値が
// 含まれることをテストする。
func TestRecovery_LogsUserIDHeader(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, nil)))
	defer slog.SetDefault(prev)

	h := NewRecoveryMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/guides", nil)
	req.Header.Set("X-User-ID", "0xWALLET1")
	w := httptest.NewRecorder()

	h.ServeHTTP(w, req)

	if w.Result().StatusCode != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", w.Result().StatusCode, http.StatusInternalServerError)
	}
	if !strings.Contains(buf.String(), `"user_id":"0xWALLET1"`) {
		t.Errorf("log should contain user_id attribute: %s", buf.String())
	}
}

// TestRecovery_NoHeaderOmitsUserID はヘッダーなしのpanicログにuser_idが
// 含まれないことをテストする。
func TestRecovery_NoHeaderOmitsUserID(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, nil)))
	defer slog.SetDefault(prev)

	h := NewRecoveryMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/guides", nil))

	if strings.Contains(buf.String(), "user_id") {
		t.Errorf("log should omit user_id without header: %s", buf.String())
	}
}
