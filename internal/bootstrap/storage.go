package bootstrap

import (
	"context"
	"fmt"

	infragin "github.com/drijfveer/linkmanager/infrastructure/gin"
	infralogger "github.com/drijfveer/linkmanager/infrastructure/logger"
	"github.com/drijfveer/linkmanager/internal/config"
	"github.com/drijfveer/linkmanager/internal/database"
	"github.com/drijfveer/linkmanager/internal/repository"
)

// Storage is the website registry plus whatever must be released with it.
type Storage struct {
	Repo   repository.WebsiteRepository
	Checks map[string]infragin.HealthChecker
	close  []func()
}

func (s *Storage) Close() {
	for i := len(s.close) - 1; i >= 0; i-- {
		s.close[i]()
	}
}

// SetupStorage opens the registry selected by storage.driver. The file store
// is watched for outside edits while ctx is alive when storage.watch is set.
func SetupStorage(ctx context.Context, cfg *config.Config, log infralogger.Logger) (*Storage, error) {
	s := &Storage{Checks: map[string]infragin.HealthChecker{}}

	switch cfg.Storage.Driver {
	case config.StoragePostgres:
		db, err := database.New(ctx, cfg.Database, log)
		if err != nil {
			return nil, fmt.Errorf("database connection: %w", err)
		}
		if err := db.Migrate(cfg.Database.MigrationsPath); err != nil {
			_ = db.Close()
			return nil, err
		}
		s.close = append(s.close, func() {
			if closeErr := db.Close(); closeErr != nil {
				log.Error("Failed to close database", infralogger.Error(closeErr))
			}
		})
		s.Repo = repository.NewPostgresWebsiteRepository(db.SQLX(), log)
		s.Checks["database"] = infragin.PingChecker("database", true, db.Ping)

	default:
		repo := repository.NewFileWebsiteRepository(cfg.Storage.FilePath, cfg.Storage.WebsitesJSON, log)
		if err := repo.Load(); err != nil {
			return nil, fmt.Errorf("load website registry: %w", err)
		}
		if cfg.Storage.Watch {
			watchCtx, cancel := context.WithCancel(ctx)
			s.close = append(s.close, cancel)
			go func() {
				if err := repo.Watch(watchCtx); err != nil {
					log.Warn("Registry watcher stopped", infralogger.Error(err))
				}
			}()
		}
		s.Repo = repo
	}

	info := s.Repo.Info()
	log.Info("Website registry ready",
		infralogger.String("driver", cfg.Storage.Driver),
		infralogger.String("source", info.Source),
	)
	return s, nil
}
