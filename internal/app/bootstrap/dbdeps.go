// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/litego/internal/app/system/extract"
	"github.com/dalemusser/litego/internal/app/system/ratelimit"
	"github.com/dalemusser/litego/internal/app/system/workers"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds database/back-end dependencies for the app.
//
// Runtime is allocated in ConnectDB and filled in by Startup, so later
// hooks that receive DBDeps by value still share it.
type DBDeps struct {
	LiteGoMongoClient   *mongo.Client
	LiteGoMongoDatabase *mongo.Database

	Runtime *Runtime
}

// Runtime holds the collaborators created during Startup.
type Runtime struct {
	// AI is nil when no model is configured.
	AI extract.AI

	Reconcile    *workers.ParticipantReconcile
	OAuthCleanup *workers.OAuthStateCleanup

	// ExtractLimiter is nil when import requests are not limited.
	ExtractLimiter *ratelimit.Limiter

	ShutdownTracing func(context.Context) error
}
