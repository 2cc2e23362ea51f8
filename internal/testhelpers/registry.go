// Package testhelpers builds fixtures shared by package tests.
package testhelpers

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	infralogger "github.com/drijfveer/linkmanager/infrastructure/logger"
	"github.com/drijfveer/linkmanager/internal/models"
	"github.com/drijfveer/linkmanager/internal/repository"
)

// NewRegistry returns a file-backed registry in a temp dir holding sites in
// order.
func NewRegistry(t *testing.T, sites ...models.Website) *repository.FileWebsiteRepository {
	t.Helper()

	repo := repository.NewFileWebsiteRepository(filepath.Join(t.TempDir(), "websites_config.csv"), "", infralogger.NewNop())
	require.NoError(t, repo.Load())
	for i := range sites {
		require.NoError(t, repo.Create(context.Background(), &sites[i]))
	}
	return repo
}

// Website returns a fully populated record for url.
func Website(url, name string, pageID int) models.Website {
	return models.Website{
		WebsiteURL:  url,
		SiteName:    name,
		PageID:      pageID,
		Username:    "admin",
		AppPassword: "xxxx yyyy",
	}
}
