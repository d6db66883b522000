// internal/app/system/txn/txn.go

// Package txn wraps multi-document mutations in a MongoDB transaction.
//
// Standalone mongod deployments (common in dev and CI) do not support
// multi-document transactions, so WithTransaction degrades to running the
// callback outside a session when the server rejects transactions. The
// degradation is logged once per process; production deployments are
// expected to run against a replica set where the transaction path is
// always taken.
package txn

import (
	"context"
	"strings"
	"sync"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Runner executes functions transactionally against a Mongo client.
type Runner struct {
	client *mongo.Client
	log    *zap.Logger

	warnOnce sync.Once
}

// NewRunner creates a Runner. The logger may not be nil.
func NewRunner(client *mongo.Client, logger *zap.Logger) *Runner {
	return &Runner{client: client, log: logger}
}

// WithTransaction runs fn inside a session transaction. All reads and
// writes inside fn must use the context it receives, or they escape the
// transaction. When the deployment does not support transactions, fn is
// re-run once outside a session.
func (r *Runner) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	sess, err := r.client.StartSession()
	if err != nil {
		if IsNotSupported(err) {
			r.warnFallback(err)
			return fn(ctx)
		}
		return err
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	if err != nil && IsNotSupported(err) {
		r.warnFallback(err)
		return fn(ctx)
	}
	return err
}

func (r *Runner) warnFallback(err error) {
	r.warnOnce.Do(func() {
		r.log.Warn("mongodb transactions unavailable, multi-document writes are not atomic",
			zap.Error(err))
	})
}

// Server error codes that indicate the deployment cannot run transactions.
var notSupportedCodes = map[int32]bool{
	20:  true, // IllegalOperation (standalone)
	51:  true,
	263: true, // OperationNotSupportedInTransaction
}

// IsNotSupported reports whether err means the server cannot run
// multi-document transactions (standalone deployment, old server), as
// opposed to the transaction itself failing.
func IsNotSupported(err error) bool {
	if err == nil {
		return false
	}
	var cmdErr mongo.CommandError
	if mongo.IsTimeout(err) {
		return false
	}
	if ok := asCommandError(err, &cmdErr); ok {
		return notSupportedCodes[cmdErr.Code]
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "transaction") && strings.Contains(msg, "replica set"):
		return true
	case strings.Contains(msg, "session") && strings.Contains(msg, "not supported"):
		return true
	case strings.Contains(msg, "transaction") && strings.Contains(msg, "session"):
		return true
	case strings.Contains(msg, "illegal operation") && strings.Contains(msg, "transaction"):
		return true
	}
	return false
}

func asCommandError(err error, target *mongo.CommandError) bool {
	if ce, ok := err.(mongo.CommandError); ok {
		*target = ce
		return true
	}
	return false
}
