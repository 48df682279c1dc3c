// internal/app/features/authgoogle/handler.go
package authgoogle

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	apierrors "github.com/dalemusser/litego/internal/app/features/errors"
	"github.com/dalemusser/litego/internal/app/store/oauthstate"
	userstore "github.com/dalemusser/litego/internal/app/store/users"
	"github.com/dalemusser/litego/internal/app/system/auth"
	"github.com/dalemusser/litego/internal/app/system/i18n"
	"github.com/dalemusser/litego/internal/app/system/timeouts"
	"github.com/dalemusser/litego/internal/domain/locale"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/urlutil"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	// DefaultUserInfoURL is Google's OpenID userinfo endpoint.
	DefaultUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

	stateTTL = 10 * time.Minute
)

// Handler handles Google OAuth sign-in.
type Handler struct {
	Log        *zap.Logger
	SessionMgr *auth.SessionManager
	ErrLog     *apierrors.ErrorLogger
	StateStore *oauthstate.Store
	Users      *userstore.Store

	ClientID     string
	ClientSecret string
	RedirectURL  string // e.g. "https://litego.app/auth/google/callback"

	// Endpoint and UserInfoURL default to Google's; tests point them at
	// a local server.
	Endpoint    oauth2.Endpoint
	UserInfoURL string
}

// NewHandler creates a new Google OAuth handler. baseURL is the public
// origin of the service; the callback path is appended to it.
func NewHandler(
	sessionMgr *auth.SessionManager,
	errLog *apierrors.ErrorLogger,
	stateStore *oauthstate.Store,
	users *userstore.Store,
	clientID, clientSecret, baseURL string,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		Log:          logger,
		SessionMgr:   sessionMgr,
		ErrLog:       errLog,
		StateStore:   stateStore,
		Users:        users,
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  baseURL + "/auth/google/callback",
		Endpoint:     google.Endpoint,
		UserInfoURL:  DefaultUserInfoURL,
	}
}

func (h *Handler) oauth2Config() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     h.ClientID,
		ClientSecret: h.ClientSecret,
		RedirectURL:  h.RedirectURL,
		Scopes: []string{
			"openid",
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
		},
		Endpoint: h.Endpoint,
	}
}

// IsConfigured reports whether client credentials are present.
func (h *Handler) IsConfigured() bool {
	return h.ClientID != "" && h.ClientSecret != ""
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /auth/google/login                                                       |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	if !h.IsConfigured() {
		h.Log.Warn("Google sign-in requested but not configured")
		apierrors.Write(w, http.StatusServiceUnavailable, apierrors.CodeUnavailable,
			locale.T(i18n.Tag(r), locale.KeyServerError))
		return
	}

	state, err := generateState()
	if err != nil {
		h.ErrLog.LogServerError(w, r, "generate oauth state", err)
		return
	}

	returnURL := query.Get(r, "return")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.StateStore.Save(ctx, state, returnURL, time.Now().UTC().Add(stateTTL)); err != nil {
		h.ErrLog.LogServerError(w, r, "save oauth state", err)
		return
	}

	url := h.oauth2Config().AuthCodeURL(state)
	h.Log.Debug("initiating Google OAuth flow", zap.String("return_url", returnURL))
	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /auth/google/callback                                                    |
| Exchanges the code, fetches the profile, upserts the user and signs in.      |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeCallback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if errParam := query.Get(r, "error"); errParam != "" {
		h.Log.Warn("Google OAuth error",
			zap.String("error", errParam),
			zap.String("description", query.Get(r, "error_description")))
		redirectWithError(w, r, "google_denied")
		return
	}

	state := query.Get(r, "state")
	if state == "" {
		h.Log.Warn("missing OAuth state parameter")
		redirectWithError(w, r, "invalid_state")
		return
	}

	stateCtx, cancel := context.WithTimeout(ctx, timeouts.Short())
	defer cancel()

	returnURL, valid, err := h.StateStore.Validate(stateCtx, state)
	if err != nil {
		h.Log.Error("failed to validate OAuth state", zap.Error(err))
		redirectWithError(w, r, "internal")
		return
	}
	if !valid {
		h.Log.Warn("invalid or expired OAuth state")
		redirectWithError(w, r, "invalid_state")
		return
	}

	code := query.Get(r, "code")
	if code == "" {
		h.Log.Warn("missing OAuth code parameter")
		redirectWithError(w, r, "invalid_code")
		return
	}

	exCtx, exCancel := context.WithTimeout(ctx, timeouts.Long())
	defer exCancel()

	token, err := h.oauth2Config().Exchange(exCtx, code)
	if err != nil {
		h.Log.Error("failed to exchange OAuth code", zap.Error(err))
		redirectWithError(w, r, "token_exchange")
		return
	}

	info, err := h.fetchUserInfo(exCtx, token)
	if err != nil {
		h.Log.Error("failed to fetch Google user info", zap.Error(err))
		redirectWithError(w, r, "user_info")
		return
	}

	dbCtx, dbCancel := context.WithTimeout(ctx, timeouts.Short())
	defer dbCancel()

	user, err := h.Users.UpsertGoogle(dbCtx, userstore.GoogleProfile{
		GoogleID:  info.ID,
		Email:     info.Email,
		Name:      info.Name,
		AvatarURL: info.Picture,
	}, locale.T(i18n.Tag(r), locale.KeyDefaultUserName))
	if err != nil {
		h.Log.Error("failed to upsert Google user", zap.Error(err), zap.String("google_id", info.ID))
		redirectWithError(w, r, "internal")
		return
	}

	if err := h.SessionMgr.SignIn(w, r, user.ID.Hex()); err != nil {
		h.Log.Error("save session failed", zap.Error(err), zap.String("user_id", user.ID.Hex()))
		redirectWithError(w, r, "session")
		return
	}

	h.Log.Info("user signed in via Google",
		zap.String("user_id", user.ID.Hex()),
		zap.String("google_id", info.ID))

	http.Redirect(w, r, urlutil.SafeReturn(returnURL, "", "/"), http.StatusSeeOther)
}

// googleUserInfo is the subset of Google's userinfo response we keep.
type googleUserInfo struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

func (h *Handler) fetchUserInfo(ctx context.Context, token *oauth2.Token) (*googleUserInfo, error) {
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(token))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.UserInfoURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("decode user info: %w", err)
	}
	if info.ID == "" {
		return nil, fmt.Errorf("user info has no id")
	}
	return &info, nil
}

func redirectWithError(w http.ResponseWriter, r *http.Request, code string) {
	http.Redirect(w, r, "/?auth_error="+code, http.StatusSeeOther)
}

// generateState creates a cryptographically secure random state string.
func generateState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}
