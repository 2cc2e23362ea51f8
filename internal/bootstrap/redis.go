package bootstrap

import (
	"context"

	infragin "github.com/drijfveer/linkmanager/infrastructure/gin"
	infralogger "github.com/drijfveer/linkmanager/infrastructure/logger"
	infraredis "github.com/drijfveer/linkmanager/infrastructure/redis"
	"github.com/drijfveer/linkmanager/internal/config"
	"github.com/drijfveer/linkmanager/internal/events"
)

// SetupEventPublisher creates an optional event publisher if Redis is enabled.
// Returns nil if Redis is disabled or unavailable.
func SetupEventPublisher(ctx context.Context, cfg *config.Config, log infralogger.Logger) (*events.Publisher, infragin.HealthChecker) {
	if !cfg.Redis.Enabled {
		return nil, nil
	}

	redisClient, err := infraredis.NewClient(ctx, infraredis.Config{
		Address:  cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Warn("Redis not available, events disabled",
			infralogger.Error(err),
		)
		return nil, nil
	}

	log.Info("Event publisher initialized",
		infralogger.String("redis_address", cfg.Redis.Address),
		infralogger.String("stream", events.StreamName),
	)
	check := infragin.PingChecker("redis", false, func(ctx context.Context) error {
		return redisClient.Ping(ctx).Err()
	})
	return events.NewPublisher(redisClient, log), check
}
