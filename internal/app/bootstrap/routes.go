// internal/app/bootstrap/routes.go
package bootstrap

import (
	"crypto/sha256"
	"fmt"
	"io"
	"net/http"

	apierrors "github.com/dalemusser/litego/internal/app/features/errors"
	authgooglefeature "github.com/dalemusser/litego/internal/app/features/authgoogle"
	extractfeature "github.com/dalemusser/litego/internal/app/features/extract"
	healthfeature "github.com/dalemusser/litego/internal/app/features/health"
	logoutfeature "github.com/dalemusser/litego/internal/app/features/logout"
	ordersfeature "github.com/dalemusser/litego/internal/app/features/orders"
	"github.com/dalemusser/litego/internal/app/store/oauthstate"
	userstore "github.com/dalemusser/litego/internal/app/store/users"
	"github.com/dalemusser/litego/internal/app/system/auth"
	"github.com/dalemusser/litego/internal/app/system/extract"
	"github.com/dalemusser/litego/internal/app/system/i18n"
	"github.com/dalemusser/litego/internal/app/system/ratelimit"
	"github.com/dalemusser/litego/internal/app/system/tracing"
	"github.com/dalemusser/litego/internal/domain/locale"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/csrf"
	"go.uber.org/zap"
	"golang.org/x/crypto/hkdf"
)

// CSRFHeader carries the token on unsafe API requests.
const CSRFHeader = "X-CSRF-Token"

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed.
//
// Lite Go serves a JSON API under /api, Google sign-in under /auth/google,
// and /health for load balancers. Every state-changing /api call and
// logout go through CSRF protection; clients fetch a token from
// GET /api/csrf and echo it in the X-CSRF-Token header.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, appCfg.SessionMaxAge, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	db := deps.LiteGoMongoDatabase

	// Fetch the user on each request so renamed profiles show up at once.
	sessionMgr.SetUserFetcher(userstore.NewFetcher(db))

	var (
		ai      extract.AI
		limiter *ratelimit.Limiter
	)
	if deps.Runtime != nil {
		ai = deps.Runtime.AI
		limiter = deps.Runtime.ExtractLimiter
	}

	errLog := apierrors.NewErrorLogger(logger)
	defLang, _ := locale.Parse(appCfg.DefaultLocale)

	r := chi.NewRouter()
	r.NotFound(apierrors.NotFoundHandler)
	r.MethodNotAllowed(apierrors.MethodNotAllowedHandler)

	r.Use(tracing.Middleware("litego.http"))
	r.Use(i18n.NewResolver(defLang).Middleware)
	r.Use(sessionMgr.LoadSessionUser)

	healthHandler := healthfeature.NewHandler(deps.LiteGoMongoClient, Version, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Authentication
	googleHandler := authgooglefeature.NewHandler(sessionMgr, errLog,
		oauthstate.New(db), userstore.New(db),
		appCfg.GoogleClientID, appCfg.GoogleClientSecret, appCfg.BaseURL, logger)
	r.Mount("/auth/google", authgooglefeature.Routes(googleHandler))

	protect, err := csrfMiddleware(appCfg.SessionKey, secure)
	if err != nil {
		logger.Error("csrf init failed", zap.Error(err))
		return nil, err
	}

	logoutHandler := logoutfeature.NewHandler(sessionMgr, logger)
	r.With(protect).Mount("/logout", logoutfeature.Routes(logoutHandler))

	pages := extract.NewScraper(extract.ScraperOptions{
		Timeout:  appCfg.ScrapeTimeout,
		MaxBytes: appCfg.ScrapeMaxBytes,
	})
	extractHandler := extractfeature.NewHandler(ai, pages, errLog, logger)
	if appCfg.AIMenuMaxBytes > 0 {
		extractHandler.MaxImage = appCfg.AIMenuMaxBytes
	}
	extractHandler.Limiter = limiter

	ordersHandler := ordersfeature.NewHandler(db, userstore.NewFetcher(db), ai, errLog, logger)

	r.Route("/api", func(api chi.Router) {
		api.NotFound(apierrors.NotFoundHandler)
		api.MethodNotAllowed(apierrors.MethodNotAllowedHandler)
		api.Use(protect)

		api.Get("/csrf", serveCSRFToken)
		api.Mount("/extract", extractfeature.Routes(extractHandler, sessionMgr))
		api.Mount("/", ordersfeature.Routes(ordersHandler, sessionMgr))
	})

	return r, nil
}

// csrfMiddleware guards unsafe methods with gorilla/csrf. The token key is
// derived from the session key so operators configure a single secret.
// Outside prod the service runs on plain http, where the TLS-only
// Referer/Origin checks must be skipped.
func csrfMiddleware(sessionKey string, secure bool) (func(http.Handler) http.Handler, error) {
	key, err := deriveKey(sessionKey, "litego csrf v1")
	if err != nil {
		return nil, err
	}
	protect := csrf.Protect(key,
		csrf.Secure(secure),
		csrf.Path("/"),
		csrf.HttpOnly(true),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.RequestHeader(CSRFHeader),
		csrf.ErrorHandler(http.HandlerFunc(csrfFailed)),
	)
	return func(next http.Handler) http.Handler {
		guarded := protect(next)
		if secure {
			return guarded
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			guarded.ServeHTTP(w, csrf.PlaintextHTTPRequest(r))
		})
	}, nil
}

// deriveKey expands secret into a 32-byte key bound to purpose.
func deriveKey(secret, purpose string) ([]byte, error) {
	key := make([]byte, 32)
	if _, err := io.ReadFull(hkdf.New(sha256.New, []byte(secret), nil, []byte(purpose)), key); err != nil {
		return nil, fmt.Errorf("derive %s key: %w", purpose, err)
	}
	return key, nil
}

func csrfFailed(w http.ResponseWriter, r *http.Request) {
	apierrors.Write(w, http.StatusForbidden, apierrors.CodeCSRFInvalid, locale.T(i18n.Tag(r), locale.KeyCSRFInvalid))
}

type csrfResponse struct {
	Token string `json:"token"`
}

// serveCSRFToken hands the masked token to the client in both the header
// and the body.
func serveCSRFToken(w http.ResponseWriter, r *http.Request) {
	token := csrf.Token(r)
	w.Header().Set(CSRFHeader, token)
	w.Header().Set("Cache-Control", "no-store")
	apierrors.WriteJSON(w, http.StatusOK, csrfResponse{Token: token})
}
