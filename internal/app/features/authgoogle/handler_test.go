package authgoogle_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/litego/internal/app/features/authgoogle"
	apierrors "github.com/dalemusser/litego/internal/app/features/errors"
	"github.com/dalemusser/litego/internal/app/store/oauthstate"
	userstore "github.com/dalemusser/litego/internal/app/store/users"
	"github.com/dalemusser/litego/internal/app/system/auth"
	"github.com/dalemusser/litego/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

type fixture struct {
	h      *authgoogle.Handler
	states *oauthstate.Store
	users  *userstore.Store
	sm     *auth.SessionManager
}

func newFixture(t *testing.T, clientID, clientSecret string) fixture {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()

	sm, err := auth.NewSessionManager("test-session-key-for-testing-only", "test-session", "", 24*time.Hour, false, logger)
	if err != nil {
		t.Fatalf("NewSessionManager failed: %v", err)
	}
	states := oauthstate.New(db)
	users := userstore.New(db)

	h := authgoogle.NewHandler(sm, apierrors.NewErrorLogger(logger), states, users,
		clientID, clientSecret, "http://localhost:8080", logger)
	return fixture{h: h, states: states, users: users, sm: sm}
}

// fakeGoogle serves the token and userinfo endpoints.
func fakeGoogle(t *testing.T, profile map[string]string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": "test-access-token",
			"token_type":   "Bearer",
			"expires_in":   3600,
		})
	})
	mux.HandleFunc("/userinfo", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-access-token" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(profile)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestIsConfigured(t *testing.T) {
	if !newFixture(t, "id", "secret").h.IsConfigured() {
		t.Error("IsConfigured() should be true with client ID and secret")
	}
	if newFixture(t, "", "").h.IsConfigured() {
		t.Error("IsConfigured() should be false without credentials")
	}
}

func TestServeLogin_NotConfigured(t *testing.T) {
	f := newFixture(t, "", "")

	rec := httptest.NewRecorder()
	f.h.ServeLogin(rec, httptest.NewRequest(http.MethodGet, "/auth/google/login", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusServiceUnavailable)
	}
}

func TestServeLogin_RedirectsToGoogleAndStoresState(t *testing.T) {
	f := newFixture(t, "test-client-id", "secret")

	rec := httptest.NewRecorder()
	f.h.ServeLogin(rec, httptest.NewRequest(http.MethodGet, "/auth/google/login?return=/orders/abc", nil))

	if rec.Code != http.StatusTemporaryRedirect {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusTemporaryRedirect)
	}
	loc, err := url.Parse(rec.Header().Get("Location"))
	if err != nil {
		t.Fatalf("bad Location: %v", err)
	}
	if !strings.HasPrefix(loc.String(), "https://accounts.google.com/") {
		t.Errorf("Location = %q, want Google auth URL", loc)
	}
	q := loc.Query()
	if q.Get("client_id") != "test-client-id" {
		t.Errorf("client_id = %q", q.Get("client_id"))
	}
	if q.Get("redirect_uri") != "http://localhost:8080/auth/google/callback" {
		t.Errorf("redirect_uri = %q", q.Get("redirect_uri"))
	}

	ctx, cancel := testutil.TestContext()
	defer cancel()
	ret, valid, err := f.states.Validate(ctx, q.Get("state"))
	if err != nil || !valid {
		t.Fatalf("state not stored: valid=%v err=%v", valid, err)
	}
	if ret != "/orders/abc" {
		t.Errorf("return url = %q, want /orders/abc", ret)
	}
}

func TestServeCallback_GoogleError(t *testing.T) {
	f := newFixture(t, "id", "secret")

	rec := httptest.NewRecorder()
	f.h.ServeCallback(rec, httptest.NewRequest(http.MethodGet, "/auth/google/callback?error=access_denied", nil))

	if rec.Code != http.StatusSeeOther {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if got := rec.Header().Get("Location"); got != "/?auth_error=google_denied" {
		t.Errorf("Location = %q", got)
	}
}

func TestServeCallback_UnknownState(t *testing.T) {
	f := newFixture(t, "id", "secret")

	rec := httptest.NewRecorder()
	f.h.ServeCallback(rec, httptest.NewRequest(http.MethodGet, "/auth/google/callback?state=nope&code=c", nil))

	if got := rec.Header().Get("Location"); got != "/?auth_error=invalid_state" {
		t.Errorf("Location = %q", got)
	}
}

func TestServeCallback_SignsInAndCreatesUser(t *testing.T) {
	f := newFixture(t, "id", "secret")
	srv := fakeGoogle(t, map[string]string{
		"id":      "g-123",
		"email":   "Amy@Example.com",
		"name":    "Amy",
		"picture": "https://example.com/amy.png",
	})
	f.h.Endpoint = oauth2.Endpoint{TokenURL: srv.URL + "/token", AuthStyle: oauth2.AuthStyleInParams}
	f.h.UserInfoURL = srv.URL + "/userinfo"

	ctx, cancel := testutil.TestContext()
	defer cancel()
	if err := f.states.Save(ctx, "s1", "/orders/xyz", time.Now().Add(time.Minute)); err != nil {
		t.Fatalf("Save state: %v", err)
	}

	rec := httptest.NewRecorder()
	f.h.ServeCallback(rec, httptest.NewRequest(http.MethodGet, "/auth/google/callback?state=s1&code=abc", nil))

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if got := rec.Header().Get("Location"); got != "/orders/xyz" {
		t.Errorf("Location = %q, want /orders/xyz", got)
	}

	var cookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == "test-session" {
			cookie = c
		}
	}
	if cookie == nil {
		t.Fatal("expected session cookie")
	}

	// The session must identify the upserted user.
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	sess, err := f.sm.GetSession(req)
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	uid, _ := sess.Values["user_id"].(string)

	id, err := primitive.ObjectIDFromHex(uid)
	if err != nil {
		t.Fatalf("session user_id %q: %v", uid, err)
	}
	u, err := f.users.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if u.GoogleID != "g-123" {
		t.Errorf("google id = %q, want g-123", u.GoogleID)
	}
	if u.Email != "amy@example.com" {
		t.Errorf("email = %q, want lower-cased", u.Email)
	}
	if u.Name != "Amy" {
		t.Errorf("name = %q, want Amy", u.Name)
	}

	// State is single use.
	rec2 := httptest.NewRecorder()
	f.h.ServeCallback(rec2, httptest.NewRequest(http.MethodGet, "/auth/google/callback?state=s1&code=abc", nil))
	if got := rec2.Header().Get("Location"); got != "/?auth_error=invalid_state" {
		t.Errorf("replayed state Location = %q", got)
	}
}

func TestServeCallback_UnsafeReturnFallsBackToRoot(t *testing.T) {
	f := newFixture(t, "id", "secret")
	srv := fakeGoogle(t, map[string]string{"id": "g-9", "name": "Ken"})
	f.h.Endpoint = oauth2.Endpoint{TokenURL: srv.URL + "/token", AuthStyle: oauth2.AuthStyleInParams}
	f.h.UserInfoURL = srv.URL + "/userinfo"

	ctx, cancel := testutil.TestContext()
	defer cancel()
	if err := f.states.Save(ctx, "s2", "https://evil.example/steal", time.Now().Add(time.Minute)); err != nil {
		t.Fatalf("Save state: %v", err)
	}

	rec := httptest.NewRecorder()
	f.h.ServeCallback(rec, httptest.NewRequest(http.MethodGet, "/auth/google/callback?state=s2&code=abc", nil))

	if got := rec.Header().Get("Location"); got != "/" {
		t.Errorf("Location = %q, want /", got)
	}
}

func TestServeCallback_UserInfoFailure(t *testing.T) {
	f := newFixture(t, "id", "secret")
	srv := fakeGoogle(t, map[string]string{"id": "g-1"})
	f.h.Endpoint = oauth2.Endpoint{TokenURL: srv.URL + "/token", AuthStyle: oauth2.AuthStyleInParams}
	f.h.UserInfoURL = srv.URL + "/missing"

	ctx, cancel := testutil.TestContext()
	defer cancel()
	if err := f.states.Save(ctx, "s3", "", time.Now().Add(time.Minute)); err != nil {
		t.Fatalf("Save state: %v", err)
	}

	rec := httptest.NewRecorder()
	f.h.ServeCallback(rec, httptest.NewRequest(http.MethodGet, "/auth/google/callback?state=s3&code=abc", nil))

	if got := rec.Header().Get("Location"); got != "/?auth_error=user_info" {
		t.Errorf("Location = %q", got)
	}
}
