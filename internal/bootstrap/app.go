// Package bootstrap handles application initialization and lifecycle management
// for the link manager API.
package bootstrap

import (
	"context"
	"fmt"

	infralogger "github.com/drijfveer/linkmanager/infrastructure/logger"
)

// Version is stamped at build time.
var Version = "dev"

// Start initializes and runs the link manager API until it is signalled to stop.
func Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := LoadConfig()
	if err != nil {
		return err
	}

	log, err := CreateLogger(cfg, Version)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	// The registry is either the CSV/env file store or PostgreSQL.
	store, err := SetupStorage(ctx, cfg, log)
	if err != nil {
		log.Error("Website registry unavailable", infralogger.Error(err))
		return fmt.Errorf("website storage: %w", err)
	}
	defer store.Close()

	publisher, redisCheck := SetupEventPublisher(ctx, cfg, log)
	if redisCheck != nil {
		store.Checks["redis"] = redisCheck
	}

	server := SetupHTTPServer(cfg, store, publisher, log)

	log.Info("Starting HTTP server",
		infralogger.String("host", cfg.Server.Host),
		infralogger.Int("port", cfg.Server.Port),
		infralogger.String("storage", cfg.Storage.Driver),
	)

	if runErr := server.Run(ctx); runErr != nil {
		log.Error("Server error", infralogger.Error(runErr))
		return fmt.Errorf("server error: %w", runErr)
	}

	log.Info("Link manager stopped")
	return nil
}
