// Package txn runs a unit of work inside a MongoDB transaction when the
// deployment supports one, and falls back to running it directly when it
// does not (standalone servers, some DocumentDB versions).
package txn

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Server error codes that mean "transactions are unavailable here".
//
//	20  IllegalOperation (e.g. "Transaction numbers are only allowed on a replica set member")
//	51  IllegalOperation on older servers
//	263 OperationNotSupportedInTransaction
var notSupportedCodes = []int{20, 51, 263}

// Run executes fn in a transaction on db's client. If the server rejects
// transactions, fn is run again without one.
//
// fn must only perform database writes through the ctx it is given, so a
// rejected first attempt leaves nothing behind.
func Run(ctx context.Context, db *mongo.Database, log *zap.Logger, fn func(ctx context.Context) error) error {
	sess, err := db.Client().StartSession()
	if err != nil {
		if IsNotSupported(err) {
			log.Debug("sessions unsupported; running without transaction", zap.Error(err))
			return fn(ctx)
		}
		return err
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (any, error) {
		return nil, fn(sc)
	})
	if err != nil && IsNotSupported(err) {
		log.Debug("transactions unsupported; running without transaction", zap.Error(err))
		return fn(ctx)
	}
	return err
}

// IsNotSupported reports whether err indicates that sessions or
// transactions are not available on the connected deployment.
func IsNotSupported(err error) bool {
	if err == nil {
		return false
	}

	var se mongo.ServerError
	if errors.As(err, &se) {
		for _, code := range notSupportedCodes {
			if se.HasErrorCode(code) {
				return true
			}
		}
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "illegal operation"):
		return true
	case strings.Contains(msg, "transaction") &&
		(strings.Contains(msg, "replica set") || strings.Contains(msg, "session")):
		return true
	case strings.Contains(msg, "session") && strings.Contains(msg, "not supported"):
		return true
	}
	return false
}

// Runner binds Run to a database and logger so callers can depend on the
// small Run(ctx, fn) interface.
type Runner struct {
	DB  *mongo.Database
	Log *zap.Logger
}

// NewRunner returns a Runner for db.
func NewRunner(db *mongo.Database, logger *zap.Logger) *Runner {
	return &Runner{DB: db, Log: logger}
}

// Run executes fn via the package-level Run.
func (r *Runner) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	return Run(ctx, r.DB, r.Log, fn)
}

// Direct runs fn without any transaction. Used by tests and in-memory
// stores.
type Direct struct{}

// Run calls fn.
func (Direct) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
