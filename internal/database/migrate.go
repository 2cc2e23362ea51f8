package database

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file" //nolint:blankimports // file:// source driver

	infralogger "github.com/drijfveer/linkmanager/infrastructure/logger"
)

// Migrate applies every pending migration found at sourceURL
// (for example file://migrations).
func (d *DB) Migrate(sourceURL string) error {
	driver, err := postgres.WithInstance(d.db.DB, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("create postgres migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(sourceURL, "postgres", driver)
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			d.logger.Info("No pending migrations", infralogger.String("source", sourceURL))
			return nil
		}
		return fmt.Errorf("run migrations: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil {
		return fmt.Errorf("read migration version: %w", err)
	}
	d.logger.Info("Migrations applied",
		infralogger.String("source", sourceURL),
		infralogger.Int("version", int(version)),
		infralogger.Bool("dirty", dirty),
	)
	return nil
}
