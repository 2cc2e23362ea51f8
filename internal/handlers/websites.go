package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	infralogger "github.com/drijfveer/linkmanager/infrastructure/logger"
	"github.com/drijfveer/linkmanager/internal/events"
	"github.com/drijfveer/linkmanager/internal/importer"
	"github.com/drijfveer/linkmanager/internal/models"
	"github.com/drijfveer/linkmanager/internal/repository"
)

// ListWebsites returns the registry without credentials.
func (h *Handler) ListWebsites(c *gin.Context) {
	sites, err := h.repo.List(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}

	out := make([]models.PublicWebsite, 0, len(sites))
	for _, s := range sites {
		out = append(out, s.Public())
	}
	c.JSON(http.StatusOK, models.WebsiteListResponse{Websites: out, Total: len(out)})
}

func (h *Handler) CreateWebsite(c *gin.Context) {
	var req models.WebsiteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	site := importer.NormalizeWebsite(req.Website())
	if msg := importer.ValidateWebsite(site); msg != "" {
		detail(c, http.StatusBadRequest, msg)
		return
	}

	if err := h.repo.Create(c.Request.Context(), &site); err != nil {
		if errors.Is(err, repository.ErrWebsiteExists) {
			detail(c, http.StatusBadRequest, fmt.Sprintf("Website %s already exists", site.WebsiteURL))
			return
		}
		h.fail(c, err)
		return
	}

	h.log(c).Info("Website added", infralogger.String("website_url", site.WebsiteURL))
	h.publisher.PublishAsync(events.Event{
		EventType:  events.WebsiteCreated,
		WebsiteURL: site.WebsiteURL,
		Payload:    events.WebsitePayload{SiteName: site.SiteName, PageID: site.PageID},
	})

	c.JSON(http.StatusOK, models.WebsiteResponse{
		Success:    true,
		Message:    fmt.Sprintf("Website %s added successfully", site.SiteName),
		WebsiteURL: site.WebsiteURL,
		SiteName:   site.SiteName,
	})
}

func (h *Handler) UpdateWebsite(c *gin.Context) {
	var req models.UpdateWebsiteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	site := importer.NormalizeWebsite(req.Website())
	if msg := importer.ValidateWebsite(site); msg != "" {
		detail(c, http.StatusBadRequest, msg)
		return
	}
	req.OriginalURL = strings.TrimRight(strings.TrimSpace(req.OriginalURL), "/")

	err := h.repo.Update(c.Request.Context(), req.OriginalURL, &site)
	switch {
	case errors.Is(err, repository.ErrWebsiteNotFound):
		detail(c, http.StatusNotFound, fmt.Sprintf("Website %s not found", req.OriginalURL))
		return
	case errors.Is(err, repository.ErrWebsiteExists):
		detail(c, http.StatusBadRequest, fmt.Sprintf("Website %s already exists", site.WebsiteURL))
		return
	case err != nil:
		h.fail(c, err)
		return
	}

	h.log(c).Info("Website updated",
		infralogger.String("original_url", req.OriginalURL),
		infralogger.String("website_url", site.WebsiteURL),
	)
	h.publisher.PublishAsync(events.Event{
		EventType:  events.WebsiteUpdated,
		WebsiteURL: site.WebsiteURL,
		Payload:    events.WebsitePayload{SiteName: site.SiteName, PageID: site.PageID, PreviousURL: req.OriginalURL},
	})

	c.JSON(http.StatusOK, models.WebsiteResponse{
		Success:    true,
		Message:    fmt.Sprintf("Website %s updated successfully", site.SiteName),
		WebsiteURL: site.WebsiteURL,
		SiteName:   site.SiteName,
	})
}

// websiteURLParam reads a URL from a catch-all path parameter, falling back
// to the website_url query parameter.
func websiteURLParam(c *gin.Context) string {
	if v := strings.TrimPrefix(c.Param("website_url"), "/"); v != "" {
		return v
	}
	return c.Query("website_url")
}

func (h *Handler) DeleteWebsite(c *gin.Context) {
	websiteURL := websiteURLParam(c)
	ctx := c.Request.Context()

	site, err := h.repo.Get(ctx, websiteURL)
	if err == nil {
		err = h.repo.Delete(ctx, websiteURL)
	}
	switch {
	case errors.Is(err, repository.ErrWebsiteNotFound):
		detail(c, http.StatusNotFound, fmt.Sprintf("Website %s not found", websiteURL))
		return
	case err != nil:
		h.fail(c, err)
		return
	}

	h.log(c).Info("Website deleted", infralogger.String("website_url", websiteURL))
	h.publisher.PublishAsync(events.Event{EventType: events.WebsiteDeleted, WebsiteURL: websiteURL})

	c.JSON(http.StatusOK, models.WebsiteResponse{
		Success:    true,
		Message:    fmt.Sprintf("Website %s deleted successfully", site.SiteName),
		WebsiteURL: websiteURL,
		SiteName:   site.SiteName,
	})
}

// ConfigInfo reports where the registry was loaded from.
func (h *Handler) ConfigInfo(c *gin.Context) {
	count, err := h.repo.Count(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	info := h.repo.Info()
	c.JSON(http.StatusOK, models.ConfigInfoResponse{
		ConfigSource:         info.Source,
		TotalWebsites:        count,
		EnvironmentAvailable: info.EnvironmentAvailable,
		CSVFileAvailable:     info.CSVFileAvailable,
		LoadedAt:             info.LoadedAt,
	})
}

type metadataRequest struct {
	WebsiteURL string `binding:"required" json:"website_url"`
}

// SuggestMetadata scrapes a homepage for a site name.
func (h *Handler) SuggestMetadata(c *gin.Context) {
	var req metadataRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	meta, err := h.metadata.Extract(c.Request.Context(), req.WebsiteURL)
	if err != nil {
		h.log(c).Warn("Metadata extraction failed",
			infralogger.String("website_url", req.WebsiteURL),
			infralogger.Error(err),
		)
		detail(c, http.StatusBadRequest, err.Error())
		return
	}
	c.JSON(http.StatusOK, meta)
}

// TestConnection probes a registered site's credentials.
func (h *Handler) TestConnection(c *gin.Context) {
	site, err := h.links.Resolve(c.Request.Context(), websiteURLParam(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, h.pages.TestConnection(c.Request.Context(), site))
}
