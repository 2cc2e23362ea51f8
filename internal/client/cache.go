package client

import (
	"context"
	"slices"
	"sync"

	"github.com/drijfveer/linkmanager/internal/models"
)

// WebsiteCache holds the website list for one session. Mutations made
// through it replace the list on success.
type WebsiteCache struct {
	client *Client

	mu     sync.Mutex
	sites  []models.PublicWebsite
	loaded bool
}

func NewWebsiteCache(c *Client) *WebsiteCache {
	return &WebsiteCache{client: c}
}

// Websites returns the cached list, fetching it on first use.
func (w *WebsiteCache) Websites(ctx context.Context) ([]models.PublicWebsite, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.loaded {
		if err := w.fetchLocked(ctx); err != nil {
			return nil, err
		}
	}
	return slices.Clone(w.sites), nil
}

// Registry returns the cached list as website records for URL matching.
// Credentials are not part of the list.
func (w *WebsiteCache) Registry(ctx context.Context) ([]models.Website, error) {
	sites, err := w.Websites(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.Website, 0, len(sites))
	for _, s := range sites {
		out = append(out, models.Website{WebsiteURL: s.WebsiteURL, SiteName: s.SiteName, PageID: s.PageID})
	}
	return out, nil
}

func (w *WebsiteCache) Invalidate() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.sites, w.loaded = nil, false
}

// Refresh drops and refetches the list.
func (w *WebsiteCache) Refresh(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.sites, w.loaded = nil, false
	return w.fetchLocked(ctx)
}

func (w *WebsiteCache) fetchLocked(ctx context.Context) error {
	sites, err := w.client.ListWebsites(ctx)
	if err != nil {
		return err
	}
	w.sites, w.loaded = sites, true
	return nil
}

func (w *WebsiteCache) Create(ctx context.Context, req models.WebsiteRequest) (*models.WebsiteResponse, error) {
	resp, err := w.client.CreateWebsite(ctx, req)
	if err != nil {
		return nil, err
	}
	return resp, w.Refresh(ctx)
}

func (w *WebsiteCache) Update(ctx context.Context, req models.UpdateWebsiteRequest) (*models.WebsiteResponse, error) {
	resp, err := w.client.UpdateWebsite(ctx, req)
	if err != nil {
		return nil, err
	}
	return resp, w.Refresh(ctx)
}

func (w *WebsiteCache) Delete(ctx context.Context, websiteURL string) (*models.WebsiteResponse, error) {
	resp, err := w.client.DeleteWebsite(ctx, websiteURL)
	if err != nil {
		return nil, err
	}
	return resp, w.Refresh(ctx)
}
