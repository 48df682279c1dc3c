// Package txn runs multi-document writes in a MongoDB transaction when the
// deployment supports one.
package txn

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

var warnedFallback atomic.Bool

// Run executes fn inside a transaction on db's client. On a standalone
// server, where transactions are unavailable, fn runs once without one
// and a warning is logged the first time this happens.
//
// fn must use the ctx it is given so its operations join the session.
// It may be retried by the driver on transient transaction errors.
func Run(ctx context.Context, db *mongo.Database, log *zap.Logger, fn func(ctx context.Context) error) error {
	sess, err := db.Client().StartSession()
	if err != nil {
		if IsNotSupported(err) {
			return runWithout(ctx, log, err, fn)
		}
		return err
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	if err != nil && IsNotSupported(err) {
		return runWithout(ctx, log, err, fn)
	}
	return err
}

func runWithout(ctx context.Context, log *zap.Logger, cause error, fn func(ctx context.Context) error) error {
	if log != nil && warnedFallback.CompareAndSwap(false, true) {
		log.Warn("transactions not supported, running writes without one", zap.Error(cause))
	}
	return fn(ctx)
}

// IsNotSupported reports whether err means the server cannot run
// transactions (standalone mongod, or a session-less deployment).
func IsNotSupported(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) {
		switch ce.Code {
		case 20, 51, 263: // IllegalOperation, legacy IllegalOperation, OperationNotSupportedInTransaction
			return true
		}
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "transaction") && strings.Contains(msg, "replica set"):
		return true
	case strings.Contains(msg, "session") && strings.Contains(msg, "not supported"):
		return true
	case strings.Contains(msg, "transaction") && strings.Contains(msg, "session"):
		return true
	case strings.Contains(msg, "illegal operation"):
		return true
	}
	return false
}
