// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/litego/internal/domain/locale"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// devSessionKey is the default session key. It is rejected in prod.
const devSessionKey = "dev-only-change-me-please-0123456789ABCDEF"

// minSessionKeyLen is the shortest session key accepted in prod.
const minSessionKeyLen = 32

// appConfigKeys defines the configuration keys for Lite Go.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, session_name, etc.
//   - Environment variables: LITEGO_MONGO_URI, LITEGO_SESSION_NAME, etc.
//   - Command-line flags: --mongo_uri, --session_name, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "litego", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},
	{Name: "session_key", Default: devSessionKey, Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "litego-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},
	{Name: "session_max_age", Default: "720h", Desc: "Session lifetime (e.g., 720h)"},

	{Name: "base_url", Default: "http://localhost:3000", Desc: "Public origin of the service, used for OAuth callbacks"},

	// Google OAuth configuration
	{Name: "google_client_id", Default: "", Desc: "Google OAuth2 client ID"},
	{Name: "google_client_secret", Default: "", Desc: "Google OAuth2 client secret"},

	{Name: "default_locale", Default: "zh-TW", Desc: "Fallback language: 'zh-TW' or 'en'"},

	// AI extraction
	{Name: "ai_api_key", Default: "", Desc: "API key for an OpenAI-compatible endpoint (blank disables AI features)"},
	{Name: "ai_base_url", Default: "", Desc: "Base URL override for the AI endpoint"},
	{Name: "ai_model", Default: "gpt-4o-mini", Desc: "Model used for menu, link and summary extraction"},
	{Name: "ai_menu_max_bytes", Default: 10 << 20, Desc: "Largest accepted menu photo in bytes"},
	{Name: "extract_rate_limit", Default: 20, Desc: "Import requests allowed per user per minute (0 disables)"},

	// Link import
	{Name: "scrape_max_bytes", Default: 2 << 20, Desc: "Largest product page read during link import, in bytes"},
	{Name: "scrape_timeout", Default: "15s", Desc: "Timeout for fetching a product page"},

	// Background workers
	{Name: "reconcile_interval", Default: "5m", Desc: "How often participant_ids mirrors are checked (0 disables)"},
	{Name: "reconcile_lookback", Default: "24h", Desc: "How far back the first reconcile pass looks"},
	{Name: "oauth_cleanup_interval", Default: "1h", Desc: "How often expired OAuth states are removed"},

	// Tracing
	{Name: "otel_endpoint", Default: "", Desc: "OTLP/HTTP traces endpoint (blank disables tracing)"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, LITEGO_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "LITEGO", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),
		SessionKey:       appValues.String("session_key"),
		SessionName:      appValues.String("session_name"),
		SessionDomain:    appValues.String("session_domain"),
		SessionMaxAge:    appValues.Duration("session_max_age", 30*24*time.Hour),

		BaseURL: strings.TrimRight(appValues.String("base_url"), "/"),

		// Google OAuth
		GoogleClientID:     appValues.String("google_client_id"),
		GoogleClientSecret: appValues.String("google_client_secret"),

		DefaultLocale: appValues.String("default_locale"),

		// AI
		AIAPIKey:       appValues.String("ai_api_key"),
		AIBaseURL:      appValues.String("ai_base_url"),
		AIModel:        appValues.String("ai_model"),
		AIMenuMaxBytes: int64(appValues.Int("ai_menu_max_bytes")),
		ExtractPerMin:  appValues.Int("extract_rate_limit"),

		// Link import
		ScrapeMaxBytes: int64(appValues.Int("scrape_max_bytes")),
		ScrapeTimeout:  appValues.Duration("scrape_timeout", 15*time.Second),

		// Workers
		ReconcileInterval: appValues.Duration("reconcile_interval", 5*time.Minute),
		ReconcileLookback: appValues.Duration("reconcile_lookback", 24*time.Hour),
		OAuthCleanupEvery: appValues.Duration("oauth_cleanup_interval", time.Hour),

		OTelEndpoint: appValues.String("otel_endpoint"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
// Lite Go validates the MongoDB URI format to catch configuration errors
// early, before attempting to connect, and refuses weak session keys in
// production.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	if appCfg.SessionKey == "" {
		return fmt.Errorf("session_key is required")
	}
	if coreCfg != nil && coreCfg.Env == "prod" {
		if appCfg.SessionKey == devSessionKey {
			return fmt.Errorf("session_key must be changed from the development default in prod")
		}
		if len(appCfg.SessionKey) < minSessionKeyLen {
			return fmt.Errorf("session_key must be at least %d characters in prod", minSessionKeyLen)
		}
	}

	if _, ok := locale.Parse(appCfg.DefaultLocale); !ok {
		return fmt.Errorf("default_locale %q is not supported (use zh-TW or en)", appCfg.DefaultLocale)
	}

	if (appCfg.GoogleClientID == "") != (appCfg.GoogleClientSecret == "") {
		return fmt.Errorf("google_client_id and google_client_secret must be set together")
	}
	if appCfg.GoogleClientID == "" {
		logger.Warn("Google sign-in is not configured; /auth/google/login will answer 503")
	}
	if !appCfg.AIEnabled() {
		logger.Info("ai_api_key not set; menu extraction and summaries are disabled")
	}

	return nil
}
