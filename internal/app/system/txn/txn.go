// internal/app/system/txn/txn.go
package txn

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// IsNotSupported reports whether err means the connected Mongo server
// cannot run multi-document transactions (standalone servers, old
// versions). Detection covers the known server error codes plus a
// keyword check for drivers that flatten the error into a string.
func IsNotSupported(err error) bool {
	if err == nil {
		return false
	}

	var ce mongo.CommandError
	if errors.As(err, &ce) {
		// 20 IllegalOperation (txn numbers need a replica set)
		// 51 IllegalOperation variant, 263 OperationNotSupportedInTransaction
		switch ce.Code {
		case 20, 51, 263:
			return true
		}
	}

	msg := strings.ToLower(err.Error())
	has := func(s string) bool { return strings.Contains(msg, s) }

	if has("transaction") && (has("replica set") || has("session") || has("illegal operation")) {
		return true
	}
	if has("session") && has("not supported") {
		return true
	}
	return false
}

// WithTransaction runs fn inside a Mongo transaction when the server
// supports one. On servers without transaction support (standalone
// mongod, as in most dev and test setups) it runs fn directly, so fn
// must keep its writes safe without a transaction; unique indexes
// carry the invariants in that case.
func WithTransaction(ctx context.Context, client *mongo.Client, log *zap.Logger, fn func(ctx context.Context) error) error {
	session, err := client.StartSession()
	if err != nil {
		if IsNotSupported(err) {
			log.Debug("mongo sessions unavailable; running without transaction")
			return fn(ctx)
		}
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	if err != nil && IsNotSupported(err) {
		log.Debug("transactions unsupported on this server; running without transaction")
		return fn(ctx)
	}
	return err
}
