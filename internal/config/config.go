// Package config holds the link manager service configuration.
package config

import (
	"errors"
	"fmt"
	"time"

	infraconfig "github.com/drijfveer/linkmanager/infrastructure/config"
	"github.com/drijfveer/linkmanager/internal/bulk"
	"github.com/drijfveer/linkmanager/internal/wordpress"
)

// Storage drivers.
const (
	StorageFile     = "file"
	StoragePostgres = "postgres"
)

const (
	defaultFilePath   = "websites_config.csv"
	defaultServerHost = "0.0.0.0"
)

type Config struct {
	Debug     bool                       `env:"APP_DEBUG" yaml:"debug"`
	Server    ServerConfig               `yaml:"server"`
	Storage   StorageConfig              `yaml:"storage"`
	Database  infraconfig.DatabaseConfig `yaml:"database"`
	Redis     infraconfig.RedisConfig    `yaml:"redis"`
	WordPress wordpress.Config           `yaml:"wordpress"`
	Bulk      BulkConfig                 `yaml:"bulk"`
	Logging   infraconfig.LoggingConfig  `yaml:"logging"`
}

type ServerConfig struct {
	infraconfig.ServerConfig `yaml:",inline"`
	CORSOrigins              []string `env:"CORS_ORIGINS" yaml:"cors_origins"`
}

// StorageConfig selects the website registry backend. WebsitesJSON, when
// set, seeds the file store and takes precedence over the CSV file.
type StorageConfig struct {
	Driver       string `env:"STORAGE_DRIVER"  yaml:"driver"`
	FilePath     string `env:"WEBSITES_FILE"   yaml:"file_path"`
	Watch        bool   `env:"WEBSITES_WATCH"  yaml:"watch"`
	WebsitesJSON string `env:"WEBSITES_CONFIG" yaml:"-"`
}

type BulkConfig struct {
	Delay time.Duration `env:"BULK_DELAY" yaml:"delay"`
}

func (c *Config) Validate() error {
	if c.Server.Host == "" {
		return errors.New("server.host is required")
	}
	if err := c.Server.Validate(); err != nil {
		return err
	}
	switch c.Storage.Driver {
	case StorageFile:
		if c.Storage.FilePath == "" {
			return errors.New("storage.file_path is required for the file driver")
		}
	case StoragePostgres:
		if !c.Database.Enabled() {
			return errors.New("database.host is required for the postgres driver")
		}
		if err := c.Database.Validate(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("storage.driver %q must be %q or %q", c.Storage.Driver, StorageFile, StoragePostgres)
	}
	if c.Redis.Enabled && c.Redis.Address == "" {
		return errors.New("redis.address is required when redis is enabled")
	}
	if c.Bulk.Delay < 0 {
		return errors.New("bulk.delay must not be negative")
	}
	return c.Logging.Validate()
}

// Load reads path (optional), applies environment overrides and defaults, and
// validates the result.
func Load(path string) (*Config, error) {
	cfg, err := infraconfig.LoadWithDefaults(path, setDefaults)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func setDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = defaultServerHost
	}
	cfg.Server.SetDefaults()

	if cfg.Storage.Driver == "" {
		cfg.Storage.Driver = StorageFile
		if cfg.Database.Enabled() {
			cfg.Storage.Driver = StoragePostgres
		}
	}
	if cfg.Storage.FilePath == "" {
		cfg.Storage.FilePath = defaultFilePath
	}

	cfg.Database.SetDefaults()
	cfg.Redis.SetDefaults()
	cfg.Logging.SetDefaults()

	if cfg.WordPress.Timeout == 0 {
		cfg.WordPress.Timeout = wordpress.DefaultTimeout
	}
	if cfg.WordPress.UserAgent == "" {
		cfg.WordPress.UserAgent = wordpress.DefaultUserAgent
	}
	if cfg.Bulk.Delay == 0 {
		cfg.Bulk.Delay = bulk.DefaultDelay
	}
}
