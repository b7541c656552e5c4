package database

import (
	"context"
	"fmt"
	"time"

	"alifbe_backend/internal/config"
	applog "alifbe_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// InitRedis connects to Redis. A failed ping returns nil so callers degrade
// to uncached operation instead of refusing to start.
func InitRedis(cfg *config.RedisConfig) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		applog.Log.Warn("redis unavailable, caching disabled", zap.Error(err))
		return nil
	}
	applog.Log.Info("redis connection established")
	return client
}
