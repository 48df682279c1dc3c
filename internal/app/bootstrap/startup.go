// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"time"

	orderstore "github.com/dalemusser/litego/internal/app/store/orders"
	"github.com/dalemusser/litego/internal/app/store/oauthstate"
	participantstore "github.com/dalemusser/litego/internal/app/store/participants"
	"github.com/dalemusser/litego/internal/app/system/extract"
	"github.com/dalemusser/litego/internal/app/system/ratelimit"
	"github.com/dalemusser/litego/internal/app/system/timeouts"
	"github.com/dalemusser/litego/internal/app/system/tracing"
	"github.com/dalemusser/litego/internal/app/system/workers"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Version is stamped at build time with -ldflags "-X ...bootstrap.Version=...".
var Version = "dev"

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built. It
// applies timeout overrides, installs tracing, builds the AI client and
// starts the background workers.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if deps.Runtime == nil {
		deps.Runtime = &Runtime{}
	}
	rt := deps.Runtime

	if n := timeouts.ConfigureFromEnv(); n > 0 {
		logger.Info("timeouts configured from environment", zap.Int("count", n))
	}

	shutdown, err := tracing.Setup(ctx, "litego", appCfg.OTelEndpoint, logger)
	if err != nil {
		// Tracing is optional; run without it.
		logger.Warn("tracing setup failed", zap.Error(err))
	}
	rt.ShutdownTracing = shutdown

	rt.AI = newAI(appCfg, logger)
	if appCfg.ExtractPerMin > 0 {
		rt.ExtractLimiter = ratelimit.New(appCfg.ExtractPerMin, time.Minute)
	}

	db := deps.LiteGoMongoDatabase
	if appCfg.ReconcileInterval > 0 {
		rt.Reconcile = workers.NewParticipantReconcile(
			orderstore.New(db), participantstore.New(db), logger,
			appCfg.ReconcileInterval, appCfg.ReconcileLookback)
		rt.Reconcile.Start()
	}
	if appCfg.OAuthCleanupEvery > 0 {
		rt.OAuthCleanup = workers.NewOAuthStateCleanup(oauthstate.New(db), logger, appCfg.OAuthCleanupEvery)
		rt.OAuthCleanup.Start()
	}

	return nil
}

// newAI returns the configured model client, or a nil interface when AI
// is disabled. A nil *extract.OpenAI must never be stored in the interface.
func newAI(appCfg AppConfig, logger *zap.Logger) extract.AI {
	client := extract.NewOpenAI(extract.OpenAIConfig{
		APIKey:  appCfg.AIAPIKey,
		BaseURL: appCfg.AIBaseURL,
		Model:   appCfg.AIModel,
	}, logger)
	if client == nil {
		return nil
	}
	return client
}
