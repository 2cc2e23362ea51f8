// Package repository persists the website registry.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/drijfveer/linkmanager/internal/models"
)

var (
	ErrWebsiteNotFound = errors.New("website not found")
	ErrWebsiteExists   = errors.New("website already exists")
)

// Registry sources reported by Info.
const (
	SourceDatabase    = "database"
	SourceEnvironment = "environment_variables"
	SourceCSVFile     = "csv_file"
	SourceNotFound    = "not_found"
	SourceError       = "error"
)

// StoreInfo describes where the registry currently comes from.
type StoreInfo struct {
	Source               string
	LoadedAt             time.Time
	EnvironmentAvailable bool
	CSVFileAvailable     bool
}

// WebsiteRepository stores website records keyed by their exact WebsiteURL.
// List returns records in a stable order so that URL matching, which takes
// the first hit, is deterministic.
type WebsiteRepository interface {
	List(ctx context.Context) ([]models.Website, error)
	Get(ctx context.Context, websiteURL string) (*models.Website, error)
	Create(ctx context.Context, w *models.Website) error
	// Update replaces the record stored under originalURL; w.WebsiteURL may
	// differ to rename it.
	Update(ctx context.Context, originalURL string, w *models.Website) error
	Delete(ctx context.Context, websiteURL string) error
	Count(ctx context.Context) (int, error)
	Info() StoreInfo
}
