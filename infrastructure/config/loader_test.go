package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drijfveer/linkmanager/infrastructure/config"
)

type sample struct {
	Name    string        `env:"SAMPLE_NAME"    yaml:"name"`
	Timeout time.Duration `env:"SAMPLE_TIMEOUT" yaml:"timeout"`
	Tags    []string      `env:"SAMPLE_TAGS"    yaml:"tags"`
	Nested  struct {
		Port    int  `env:"SAMPLE_PORT"    yaml:"port"`
		Enabled bool `env:"SAMPLE_ENABLED" yaml:"enabled"`
	} `yaml:"nested"`
}

func writeYAML(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_YAMLThenEnv(t *testing.T) {
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
	t.Setenv("SAMPLE_PORT", "9090")
	t.Setenv("SAMPLE_TAGS", "a, b ,c")
	t.Setenv("SAMPLE_ENABLED", "yes")

	path := writeYAML(t, "name: from-yaml\ntimeout: 5s\nnested:\n  port: 80\n")
	cfg, err := config.Load[sample](path)
	require.NoError(t, err)

	assert.Equal(t, "from-yaml", cfg.Name)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, 9090, cfg.Nested.Port)
	assert.Equal(t, []string{"a", "b", "c"}, cfg.Tags)
	assert.True(t, cfg.Nested.Enabled)
}

func TestLoad_MissingFile(t *testing.T) {
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))

	_, err := config.Load[sample](filepath.Join(t.TempDir(), "nope.yml"))
	require.Error(t, err)
}

func TestLoadWithDefaults_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
	t.Setenv("SAMPLE_TIMEOUT", "not-a-duration")

	cfg, err := config.LoadWithDefaults(filepath.Join(t.TempDir(), "nope.yml"), func(s *sample) {
		if s.Name == "" {
			s.Name = "default"
		}
		if s.Timeout == 0 {
			s.Timeout = time.Minute
		}
	})
	require.NoError(t, err)
	assert.Equal(t, "default", cfg.Name)
	assert.Equal(t, time.Minute, cfg.Timeout)
}

func TestLoad_DotenvFile(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(envFile, []byte("SAMPLE_NAME=from-dotenv\n"), 0o600))
	t.Setenv("ENV_FILE", envFile)
	t.Setenv("SAMPLE_NAME", "")
	require.NoError(t, os.Unsetenv("SAMPLE_NAME"))

	cfg, err := config.Load[sample](writeYAML(t, "name: from-yaml\n"))
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", cfg.Name)
}

func TestPath(t *testing.T) {
	t.Setenv(config.PathEnv, "")
	assert.Equal(t, "config.yml", config.Path("config.yml"))

	t.Setenv(config.PathEnv, "/etc/linkmanager.yml")
	assert.Equal(t, "/etc/linkmanager.yml", config.Path("config.yml"))
}

func TestDatabaseConfig(t *testing.T) {
	t.Parallel()

	var db config.DatabaseConfig
	require.NoError(t, db.Validate(), "disabled database validates")
	assert.False(t, db.Enabled())

	db.Host = "db"
	db.User = "lm"
	db.Database = "links"
	db.SetDefaults()
	require.NoError(t, db.Validate())
	assert.Equal(t, "host=db port=5432 user=lm password= dbname=links sslmode=disable", db.DSN())
	assert.Equal(t, "postgres://lm:@db:5432/links?sslmode=disable", db.URL())
}

func TestValidateURL(t *testing.T) {
	t.Parallel()

	require.NoError(t, config.ValidateURL("u", "https://example.com"))
	require.Error(t, config.ValidateURL("u", "example.com"))
	require.Error(t, config.ValidateURL("u", "ftp://example.com"))
}
