// Package redis opens go-redis clients with a verified connection.
package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	infracontext "github.com/drijfveer/linkmanager/infrastructure/context"
)

var ErrEmptyAddress = errors.New("redis address is required")

// Config is the connection subset NewClient needs.
type Config struct {
	Address  string
	Password string
	DB       int
}

// NewClient connects and pings; the client is closed again if ping fails.
func NewClient(ctx context.Context, cfg Config) (*redis.Client, error) {
	if cfg.Address == "" {
		return nil, ErrEmptyAddress
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := infracontext.WithPingTimeout(ctx)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Address, err)
	}
	return client, nil
}
