package logout_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dalemusser/litego/internal/app/features/logout"
	"github.com/dalemusser/litego/internal/app/system/auth"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*logout.Handler, *auth.SessionManager) {
	t.Helper()
	logger := zap.NewNop()

	sessionMgr, err := auth.NewSessionManager("test-session-key-for-testing-only", "test-session", "", 24*time.Hour, false, logger)
	if err != nil {
		t.Fatalf("NewSessionManager failed: %v", err)
	}
	return logout.NewHandler(sessionMgr, logger), sessionMgr
}

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == "test-session" {
			return c
		}
	}
	return nil
}

func TestServeLogout_RedirectsToHome(t *testing.T) {
	handler, _ := newTestHandler(t)

	rec := httptest.NewRecorder()
	handler.ServeLogout(rec, httptest.NewRequest(http.MethodPost, "/logout", nil))

	if rec.Code != http.StatusSeeOther {
		t.Errorf("expected status %d, got %d", http.StatusSeeOther, rec.Code)
	}
	if location := rec.Header().Get("Location"); location != "/" {
		t.Errorf("Location: got %q, want %q", location, "/")
	}
}

func TestServeLogout_JSONClientGetsNoContent(t *testing.T) {
	handler, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	req.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeLogout(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("expected status %d, got %d", http.StatusNoContent, rec.Code)
	}
}

func TestServeLogout_ClearsExistingSession(t *testing.T) {
	handler, sessionMgr := newTestHandler(t)

	rec1 := httptest.NewRecorder()
	if err := sessionMgr.SignIn(rec1, httptest.NewRequest(http.MethodGet, "/setup", nil), "test-user-id"); err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	c := sessionCookie(rec1)
	if c == nil {
		t.Fatal("expected session cookie after SignIn")
	}

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	req.AddCookie(c)
	rec2 := httptest.NewRecorder()
	handler.ServeLogout(rec2, req)

	out := sessionCookie(rec2)
	if out == nil {
		t.Fatal("expected session cookie to be set for deletion")
	}
	if out.MaxAge >= 0 {
		t.Errorf("cookie MaxAge after logout: got %d, want < 0", out.MaxAge)
	}
}
