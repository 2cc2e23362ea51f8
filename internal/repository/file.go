package repository

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	infralogger "github.com/drijfveer/linkmanager/infrastructure/logger"
	"github.com/drijfveer/linkmanager/internal/importer"
	"github.com/drijfveer/linkmanager/internal/models"
)

// FileWebsiteRepository keeps the registry in memory and persists every
// mutation to a CSV file. At load time a non-empty WEBSITES_CONFIG JSON
// document takes precedence over the file.
type FileWebsiteRepository struct {
	path    string
	envJSON string
	logger  infralogger.Logger

	mu          sync.RWMutex
	sites       []models.Website
	source      string
	loadedAt    time.Time
	lastWritten []byte
}

func NewFileWebsiteRepository(path, envJSON string, log infralogger.Logger) *FileWebsiteRepository {
	return &FileWebsiteRepository{
		path:    filepath.Clean(path),
		envJSON: envJSON,
		logger:  log,
		source:  SourceNotFound,
		sites:   []models.Website{},
	}
}

// Load (re)reads the registry: WEBSITES_CONFIG first, then the CSV file.
// A missing file leaves an empty registry with source not_found. Any other
// failure also leaves it empty, with source error, and is returned.
func (r *FileWebsiteRepository) Load() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.loadedAt = time.Now()

	if r.envJSON != "" {
		sites, err := importer.DecodeWebsitesJSON([]byte(r.envJSON))
		if err == nil {
			r.sites, r.source = sites, SourceEnvironment
			r.logger.Info("Websites loaded from environment", infralogger.Int("count", len(sites)))
			return nil
		}
		r.logger.Error("Invalid WEBSITES_CONFIG, falling back to CSV", infralogger.Error(err))
	}

	sites, err := r.readFile()
	switch {
	case errors.Is(err, fs.ErrNotExist):
		r.sites, r.source = []models.Website{}, SourceNotFound
		r.logger.Warn("No website registry found", infralogger.String("path", r.path))
		return nil
	case err != nil:
		r.sites, r.source = []models.Website{}, SourceError
		return err
	}

	r.sites, r.source = sites, SourceCSVFile
	r.logger.Info("Websites loaded from CSV",
		infralogger.String("path", r.path),
		infralogger.Int("count", len(sites)),
	)
	return nil
}

func (r *FileWebsiteRepository) readFile() ([]models.Website, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		return nil, err
	}
	r.lastWritten = data

	sites, rowErrs, err := importer.DecodeWebsitesCSV(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", r.path, err)
	}
	for _, re := range rowErrs {
		r.logger.Warn("Skipping invalid registry row",
			infralogger.Int("row", re.Row),
			infralogger.String("error", re.Error),
		)
	}
	if sites == nil {
		sites = []models.Website{}
	}
	return sites, nil
}

// save writes the registry atomically. Callers hold r.mu.
func (r *FileWebsiteRepository) save() error {
	var buf bytes.Buffer
	if err := importer.EncodeWebsitesCSV(&buf, r.sites); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(r.path), ".websites-*.csv")
	if err != nil {
		return fmt.Errorf("save registry: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("save registry: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("save registry: %w", err)
	}
	if err := os.Rename(tmp.Name(), r.path); err != nil {
		return fmt.Errorf("save registry: %w", err)
	}

	r.lastWritten = buf.Bytes()
	if r.source == SourceNotFound || r.source == SourceError {
		r.source = SourceCSVFile
	}
	r.logger.Info("Website registry saved",
		infralogger.String("path", r.path),
		infralogger.Int("count", len(r.sites)),
	)
	return nil
}

func (r *FileWebsiteRepository) indexOf(websiteURL string) int {
	return slices.IndexFunc(r.sites, func(w models.Website) bool { return w.WebsiteURL == websiteURL })
}

func (r *FileWebsiteRepository) List(context.Context) ([]models.Website, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.sites), nil
}

func (r *FileWebsiteRepository) Get(_ context.Context, websiteURL string) (*models.Website, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.indexOf(websiteURL)
	if i < 0 {
		return nil, ErrWebsiteNotFound
	}
	site := r.sites[i]
	return &site, nil
}

func (r *FileWebsiteRepository) Create(_ context.Context, w *models.Website) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.indexOf(w.WebsiteURL) >= 0 {
		return ErrWebsiteExists
	}
	now := time.Now()
	w.CreatedAt, w.UpdatedAt = now, now

	prev := r.sites
	r.sites = append(slices.Clone(r.sites), *w)
	if err := r.save(); err != nil {
		r.sites = prev
		return err
	}
	return nil
}

func (r *FileWebsiteRepository) Update(_ context.Context, originalURL string, w *models.Website) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(originalURL)
	if i < 0 {
		return ErrWebsiteNotFound
	}
	if w.WebsiteURL != originalURL && r.indexOf(w.WebsiteURL) >= 0 {
		return ErrWebsiteExists
	}
	w.CreatedAt = r.sites[i].CreatedAt
	w.UpdatedAt = time.Now()

	prev := r.sites
	r.sites = slices.Clone(r.sites)
	r.sites[i] = *w
	if err := r.save(); err != nil {
		r.sites = prev
		return err
	}
	return nil
}

func (r *FileWebsiteRepository) Delete(_ context.Context, websiteURL string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(websiteURL)
	if i < 0 {
		return ErrWebsiteNotFound
	}

	prev := r.sites
	r.sites = slices.Delete(slices.Clone(r.sites), i, i+1)
	if err := r.save(); err != nil {
		r.sites = prev
		return err
	}
	return nil
}

func (r *FileWebsiteRepository) Count(context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sites), nil
}

func (r *FileWebsiteRepository) Info() StoreInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, statErr := os.Stat(r.path)
	return StoreInfo{
		Source:               r.source,
		LoadedAt:             r.loadedAt,
		EnvironmentAvailable: r.envJSON != "",
		CSVFileAvailable:     statErr == nil,
	}
}

// Watch reloads the registry whenever the CSV file is changed by someone
// else. Registries loaded from WEBSITES_CONFIG are not replaced. Watch blocks
// until ctx is done.
func (r *FileWebsiteRepository) Watch(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()

	// Watch the directory: atomic saves replace the file's inode.
	if err := w.Add(filepath.Dir(r.path)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(r.path), err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != r.path || !ev.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			r.reloadIfChanged()
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			r.logger.Warn("Registry watcher error", infralogger.Error(err))
		}
	}
}

func (r *FileWebsiteRepository) reloadIfChanged() {
	data, err := os.ReadFile(r.path)
	if err != nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if bytes.Equal(data, r.lastWritten) || r.source == SourceEnvironment {
		return
	}
	sites, err := r.readFile()
	if err != nil {
		r.logger.Error("Registry reload failed", infralogger.Error(err))
		return
	}
	r.sites, r.source, r.loadedAt = sites, SourceCSVFile, time.Now()
	r.logger.Info("Website registry reloaded", infralogger.Int("count", len(sites)))
}
