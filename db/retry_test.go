package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
)

var ctx = context.Background()

var errDup = mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000, Message: "E11000 duplicate key"}}}

func init() {
	retryInitialInterval = time.Millisecond
	retryMaxInterval = 2 * time.Millisecond
}

func TestIsConflict(t *testing.T) {
	assert.True(t, IsConflict(errDup))
	assert.True(t, IsConflict(mongo.CommandError{Code: writeConflictCode, Name: "WriteConflict"}))
	assert.True(t, IsConflict(mongo.CommandError{Code: 251, Labels: []string{transientTransactionLabel}}))
	assert.False(t, IsConflict(mongo.CommandError{Code: 2}))
	assert.False(t, IsConflict(errors.New("boom")))
	assert.False(t, IsConflict(nil))
}

func TestRetryOnConflict(t *testing.T) {
	t.Run("succeeds after conflicts", func(t *testing.T) {
		var calls int
		err := RetryOnConflict(ctx, func(ctx context.Context) error {
			calls++
			if calls < 3 {
				return errDup
			}
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 3, calls)
	})
	t.Run("permanent error stops", func(t *testing.T) {
		var calls int
		boom := errors.New("boom")
		err := RetryOnConflict(ctx, func(ctx context.Context) error {
			calls++
			return boom
		})
		require.ErrorIs(t, err, boom)
		assert.Equal(t, 1, calls)
	})
	t.Run("bounded attempts", func(t *testing.T) {
		var calls int
		err := RetryOnConflict(ctx, func(ctx context.Context) error {
			calls++
			return errDup
		})
		require.Error(t, err)
		assert.True(t, IsConflict(err))
		assert.Equal(t, int(retryMaxAttempts)+1, calls)
	})
}
