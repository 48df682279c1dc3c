// internal/app/bootstrap/shutdown.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Shutdown stops the workers, flushes traces and disconnects MongoDB.
func Shutdown(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if rt := deps.Runtime; rt != nil {
		if rt.Reconcile != nil {
			rt.Reconcile.Stop()
		}
		if rt.OAuthCleanup != nil {
			rt.OAuthCleanup.Stop()
		}
		if rt.ExtractLimiter != nil {
			rt.ExtractLimiter.Stop()
		}
		if rt.ShutdownTracing != nil {
			if err := rt.ShutdownTracing(ctx); err != nil {
				logger.Warn("tracing shutdown failed", zap.Error(err))
			}
		}
	}

	if deps.LiteGoMongoClient != nil {
		logger.Info("disconnecting Lite Go MongoDB client")
		if err := deps.LiteGoMongoClient.Disconnect(ctx); err != nil {
			logger.Error("MongoDB disconnect failed", zap.Error(err))
			return err
		}
	}
	return nil
}
