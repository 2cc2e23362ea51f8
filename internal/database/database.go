package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" //nolint:blankimports // PostgreSQL driver

	infraconfig "github.com/drijfveer/linkmanager/infrastructure/config"
	infracontext "github.com/drijfveer/linkmanager/infrastructure/context"
	infralogger "github.com/drijfveer/linkmanager/infrastructure/logger"
	"github.com/drijfveer/linkmanager/infrastructure/retry"
)

// DB owns the service's PostgreSQL pool.
type DB struct {
	db     *sqlx.DB
	logger infralogger.Logger
}

// New opens the pool and waits for PostgreSQL to accept connections,
// retrying transient failures such as a database container still booting.
func New(ctx context.Context, cfg infraconfig.DatabaseConfig, log infralogger.Logger) (*DB, error) {
	db, err := sqlx.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxConnections)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	rc := retry.DefaultConfig()
	rc.MaxAttempts = 5
	rc.OnRetry = func(attempt int, err error, wait time.Duration) {
		log.Warn("Database not ready, retrying",
			infralogger.Int("attempt", attempt),
			infralogger.Duration("wait", wait),
			infralogger.Error(err),
		)
	}
	err = retry.Do(ctx, rc, func(ctx context.Context) error {
		pingCtx, cancel := infracontext.WithPingTimeout(ctx)
		defer cancel()
		return db.PingContext(pingCtx)
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	log.Info("Database connection established",
		infralogger.String("host", cfg.Host),
		infralogger.Int("port", cfg.Port),
		infralogger.String("dbname", cfg.Database),
	)

	return &DB{db: db, logger: log}, nil
}

// NewFromSQLX wraps an existing handle; tests pass a sqlmock-backed one.
func NewFromSQLX(db *sqlx.DB, log infralogger.Logger) *DB {
	return &DB{db: db, logger: log}
}

func (d *DB) SQLX() *sqlx.DB { return d.db }

func (d *DB) Ping(ctx context.Context) error {
	return d.db.PingContext(ctx)
}

func (d *DB) Close() error {
	if d.db == nil {
		return nil
	}
	return d.db.Close()
}
