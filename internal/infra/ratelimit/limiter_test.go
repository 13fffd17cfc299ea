//go:build unit

package ratelimit_test

import (
	"context"
	"testing"
	"time"

	"rewardgate/internal/infra/ratelimit"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimiterAllow(t *testing.T) {
	ctx := context.Background()

	t.Run("nil limiter allows everything", func(t *testing.T) {
		var l *ratelimit.Limiter

		allowed, err := l.Allow(ctx, "sessions", "user-1")

		require.NoError(t, err)
		assert.True(t, allowed)
	})

	t.Run("limiter without redis allows everything", func(t *testing.T) {
		l := ratelimit.New(nil, map[string]ratelimit.Limit{
			"sessions": {Limit: 1, Window: time.Minute},
		})

		allowed, err := l.Allow(ctx, "sessions", "user-1")

		require.NoError(t, err)
		assert.True(t, allowed)
	})

	t.Run("empty bucket or key is rejected", func(t *testing.T) {
		l := ratelimit.New(redis.NewClient(&redis.Options{}), nil)

		_, err := l.Allow(ctx, "", "user-1")
		assert.Error(t, err)

		_, err = l.Allow(ctx, "sessions", "")
		assert.Error(t, err)
	})
}
