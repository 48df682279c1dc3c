// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). WAFFLE's CoreConfig covers
// ports, TLS, logging and request limits; everything specific to the
// group-buy service lives here.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Session management configuration
	SessionKey    string // Secret key for signing session cookies (must be strong in production)
	SessionName   string // Cookie name for sessions (default: litego-session)
	SessionDomain string // Cookie domain (blank means current host)
	SessionMaxAge time.Duration

	// Public origin, used for the OAuth callback URL
	BaseURL string // e.g., "https://litego.app" or "http://localhost:3000"

	// Google OAuth
	GoogleClientID     string
	GoogleClientSecret string

	// Language used when a request states no preference ("zh-TW" or "en")
	DefaultLocale string

	// OpenAI-compatible model for menu, link and summary extraction.
	// AI features are disabled when AIAPIKey is empty.
	AIAPIKey       string
	AIBaseURL      string
	AIModel        string
	AIMenuMaxBytes int64
	ExtractPerMin  int // import requests per user per minute; 0 disables

	// Link import scraping
	ScrapeMaxBytes int64
	ScrapeTimeout  time.Duration

	// Background workers
	ReconcileInterval time.Duration
	ReconcileLookback time.Duration
	OAuthCleanupEvery time.Duration

	// OTLP/HTTP endpoint for traces; blank disables tracing
	OTelEndpoint string
}

// AIEnabled reports whether an AI key is configured.
func (c AppConfig) AIEnabled() bool {
	return c.AIAPIKey != ""
}
