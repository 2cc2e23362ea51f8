// Package config loads YAML configuration files and overlays values from the
// environment. Fields opt into overrides with an `env:"NAME"` struct tag.
//
// Before overrides are applied, dotenv files are read: ENV_FILE when set,
// otherwise .env.local followed by .env. Variables already present in the
// process environment are never replaced by dotenv values.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// PathEnv names the variable that overrides the config file location.
const PathEnv = "CONFIG_PATH"

func loadDotenv() error {
	files := []string{".env.local", ".env"}
	if explicit := os.Getenv("ENV_FILE"); explicit != "" {
		files = []string{explicit}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// Load decodes the YAML file at path into a new T and applies env overrides.
// A missing file is an error; use LoadWithDefaults for optional files.
func Load[T any](path string) (*T, error) {
	cfg, err := read[T](path, false)
	if err != nil {
		return nil, err
	}
	ApplyEnv(cfg)
	return cfg, nil
}

// LoadWithDefaults decodes path when it exists, runs setDefaults, then applies
// env overrides so the environment always has the last word.
func LoadWithDefaults[T any](path string, setDefaults func(*T)) (*T, error) {
	cfg, err := read[T](path, true)
	if err != nil {
		return nil, err
	}
	ApplyEnv(cfg)
	if setDefaults != nil {
		setDefaults(cfg)
	}
	return cfg, nil
}

func read[T any](path string, allowMissing bool) (*T, error) {
	if err := loadDotenv(); err != nil {
		return nil, fmt.Errorf("load environment files: %w", err)
	}

	var cfg T
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case allowMissing && errors.Is(err, fs.ErrNotExist):
	default:
		return nil, fmt.Errorf("read config file %s: %w", path, err)
	}
	return &cfg, nil
}

// Path returns $CONFIG_PATH or fallback.
func Path(fallback string) string {
	if p := os.Getenv(PathEnv); p != "" {
		return p
	}
	return fallback
}

// ApplyEnv walks cfg (a pointer to struct) and sets every field tagged with
// `env` whose variable is non-empty. Nested structs are visited recursively.
func ApplyEnv(cfg any) {
	v := reflect.ValueOf(cfg)
	if v.Kind() == reflect.Pointer {
		v = v.Elem()
	}
	walk(v)
}

func walk(v reflect.Value) {
	if v.Kind() != reflect.Struct {
		return
	}
	t := v.Type()
	for i := range v.NumField() {
		field := v.Field(i)
		if !field.CanSet() {
			continue
		}
		switch {
		case field.Kind() == reflect.Struct && field.Type() != durationType:
			walk(field)
			continue
		case field.Kind() == reflect.Pointer && field.Type().Elem().Kind() == reflect.Struct:
			if field.IsNil() {
				field.Set(reflect.New(field.Type().Elem()))
			}
			walk(field.Elem())
			continue
		}

		name := t.Field(i).Tag.Get("env")
		if name == "" {
			continue
		}
		if raw := os.Getenv(name); raw != "" {
			assign(field, raw)
		}
	}
}

var durationType = reflect.TypeFor[time.Duration]()

// assign ignores values that do not parse; the YAML or default value stays.
func assign(field reflect.Value, raw string) {
	switch field.Kind() {
	case reflect.String:
		field.SetString(raw)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if field.Type() == durationType {
			if d, err := time.ParseDuration(raw); err == nil {
				field.SetInt(int64(d))
			}
			return
		}
		if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
			field.SetInt(n)
		}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if n, err := strconv.ParseUint(raw, 10, 64); err == nil {
			field.SetUint(n)
		}
	case reflect.Float32, reflect.Float64:
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			field.SetFloat(f)
		}
	case reflect.Bool:
		switch strings.ToLower(strings.TrimSpace(raw)) {
		case "true", "1", "yes", "on":
			field.SetBool(true)
		default:
			field.SetBool(false)
		}
	case reflect.Slice:
		if field.Type().Elem().Kind() != reflect.String {
			return
		}
		parts := strings.Split(raw, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		field.Set(reflect.ValueOf(parts))
	}
}
