package bootstrap

import (
	"context"
	"time"

	"rewardgate/internal/infra/ratelimit"
	"rewardgate/internal/pkg/config"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

var RedisModule = fx.Module("redis",
	fx.Provide(
		NewRedis,
		NewRateLimiter,
	),
)

func NewRedis(lc fx.Lifecycle, cfg config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()
			return client.Ping(pingCtx).Err()
		},
		OnStop: func(_ context.Context) error {
			return client.Close()
		},
	})

	return client, nil
}

func NewRateLimiter(cfg config.Config, client *redis.Client) *ratelimit.Limiter {
	return ratelimit.New(client, map[string]ratelimit.Limit{
		"sessions": {Limit: cfg.RateLimit.SessionLimit, Window: cfg.RateLimit.SessionWindow},
	})
}
