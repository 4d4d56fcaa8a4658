package db

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const (
	writeConflictCode         = 112
	transientTransactionLabel = "TransientTransactionError"
)

var (
	retryInitialInterval        = 20 * time.Millisecond
	retryMaxInterval            = 500 * time.Millisecond
	retryMaxAttempts     uint64 = 5
)

// IsConflict reports errors caused by a concurrent writer: a unique index
// race between two upserts or a server side write conflict.
func IsConflict(err error) bool {
	if err == nil {
		return false
	}
	if mongo.IsDuplicateKeyError(err) {
		return true
	}
	var se mongo.ServerError
	if errors.As(err, &se) {
		return se.HasErrorCode(writeConflictCode) || se.HasErrorLabel(transientTransactionLabel)
	}
	return false
}

// RetryOnConflict runs op until it succeeds, fails with a non-conflict error
// or the attempts are exhausted. The last error is returned as is.
func RetryOnConflict(ctx context.Context, op func(ctx context.Context) error) error {
	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = retryInitialInterval
	eb.MaxInterval = retryMaxInterval
	eb.MaxElapsedTime = 0
	eb.Reset()
	b := backoff.WithContext(backoff.WithMaxRetries(eb, retryMaxAttempts), ctx)

	attempt := 0
	return backoff.Retry(func() error {
		attempt++
		err := op(ctx)
		if err == nil {
			return nil
		}
		if !IsConflict(err) {
			return backoff.Permanent(err)
		}
		log.Debug("write conflict, retrying", zap.Int("attempt", attempt), zap.Error(err))
		return err
	}, b)
}
