package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	infralogger "github.com/drijfveer/linkmanager/infrastructure/logger"
	"github.com/drijfveer/linkmanager/internal/models"
	"github.com/drijfveer/linkmanager/internal/repository"
)

// AddLink adds one link. An unknown website is 404; a WordPress failure is
// 400 carrying the failure message.
func (h *Handler) AddLink(c *gin.Context) {
	var req models.LinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	resp, err := h.links.AddLink(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, repository.ErrWebsiteNotFound) {
			detail(c, http.StatusNotFound, "Website configuration not found for "+req.WebsiteURL)
			return
		}
		h.fail(c, err)
		return
	}
	if !resp.Success {
		detail(c, http.StatusBadRequest, resp.Message)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AddBulkLinks adds one link to many websites in order. Per-site failures
// are reported in the results, never as an error status.
func (h *Handler) AddBulkLinks(c *gin.Context) {
	var req models.BulkLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.links.AddBulk(c.Request.Context(), req))
}

// ListLinks lists the anchors on a site's link page.
func (h *Handler) ListLinks(c *gin.Context) {
	websiteURL := c.Query("website_url")
	if websiteURL == "" {
		detail(c, http.StatusBadRequest, "website_url is required")
		return
	}
	pageID := 0
	if raw := c.Query("page_id"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			detail(c, http.StatusBadRequest, fmt.Sprintf("invalid page_id %q", raw))
			return
		}
		pageID = n
	}

	ctx := c.Request.Context()
	site, err := h.links.Resolve(ctx, websiteURL)
	if err != nil {
		h.fail(c, err)
		return
	}
	if pageID == 0 {
		pageID = site.PageID
	}

	links, err := h.pages.ExistingLinks(ctx, site, pageID)
	if err != nil {
		h.log(c).Warn("Listing page links failed",
			infralogger.String("website_url", site.WebsiteURL),
			infralogger.Int("page_id", pageID),
			infralogger.Error(err),
		)
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, models.PageLinksResponse{
		WebsiteURL: site.WebsiteURL,
		PageID:     pageID,
		Links:      links,
		Total:      len(links),
	})
}
