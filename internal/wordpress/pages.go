package wordpress

import (
	"context"
	"errors"
	"fmt"
	"html"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	infraerrors "github.com/drijfveer/linkmanager/infrastructure/errors"
	infralogger "github.com/drijfveer/linkmanager/infrastructure/logger"
	"github.com/drijfveer/linkmanager/internal/models"
)

// Operation names reported to the RequestObserver.
const (
	OpGetPage    = "get_page"
	OpUpdatePage = "update_page"
	OpListPosts  = "list_posts"
	OpCreatePost = "create_post"
	OpUpdatePost = "update_post"
	OpDeletePost = "delete_post"
)

// Rendered is WordPress's {raw, rendered} field pair. raw is only present in
// the edit context.
type Rendered struct {
	Raw      string `json:"raw,omitempty"`
	Rendered string `json:"rendered,omitempty"`
}

// Text prefers the raw value.
func (r Rendered) Text() string {
	if r.Raw != "" {
		return r.Raw
	}
	return r.Rendered
}

type Page struct {
	ID      int      `json:"id"`
	Link    string   `json:"link"`
	Status  string   `json:"status"`
	Title   Rendered `json:"title"`
	Content Rendered `json:"content"`
}

func editContext() url.Values {
	return url.Values{"context": {"edit"}}
}

// ErrPageNotFound wraps a 404 from the pages endpoint.
var ErrPageNotFound = errors.New("wordpress page not found")

// GetPage fetches a page in the edit context so that raw content is present.
func (c *Client) GetPage(ctx context.Context, site *models.Website, pageID int) (*Page, error) {
	var page Page
	if err := c.do(ctx, OpGetPage, site, "GET", "/pages/"+strconv.Itoa(pageID), editContext(), nil, &page); err != nil {
		if code, ok := infraerrors.StatusCode(err); ok && code == http.StatusNotFound {
			return nil, fmt.Errorf("page %d: %w: %w", pageID, ErrPageNotFound, err)
		}
		return nil, err
	}
	return &page, nil
}

// UpdatePageContent replaces the page body.
func (c *Client) UpdatePageContent(ctx context.Context, site *models.Website, pageID int, content string) error {
	body := map[string]string{"content": content}
	return c.do(ctx, OpUpdatePage, site, "POST", "/pages/"+strconv.Itoa(pageID), nil, body, nil)
}

// LinkMarkup renders the snippet appended to a page for one link.
func LinkMarkup(anchorText, linkURL string) string {
	return fmt.Sprintf(`<a href="%s">%s</a><br>`, html.EscapeString(linkURL), html.EscapeString(anchorText))
}

// ContainsLink reports whether content already references linkURL, either
// literally or HTML-escaped.
func ContainsLink(content, linkURL string) bool {
	return strings.Contains(content, linkURL) || strings.Contains(content, html.EscapeString(linkURL))
}

// Messages returned in LinkResponse.
const (
	MsgLinkAdded  = "Link successfully added"
	MsgLinkExists = "Link already exists"
)

// AddLink appends an anchor to a page unless the page already references
// linkURL. pageID <= 0 selects the site's configured page. Failures are
// reported in the response, never as an error.
func (c *Client) AddLink(ctx context.Context, site *models.Website, anchorText, linkURL string, pageID int) models.LinkResponse {
	if pageID <= 0 {
		pageID = site.PageID
	}
	resp := models.LinkResponse{WebsiteURL: site.WebsiteURL, PageID: pageID}
	log := c.logger.With(
		infralogger.String("website_url", site.WebsiteURL),
		infralogger.Int("page_id", pageID),
	)

	page, err := c.GetPage(ctx, site, pageID)
	if err != nil {
		resp.Message = describe("Failed to fetch page", err)
		log.Error("Fetching page failed", infralogger.String("reason", resp.Message), infralogger.Error(err))
		return resp
	}

	content := page.Content.Text()
	if ContainsLink(content, linkURL) {
		log.Debug("Link already present", infralogger.String("link_url", linkURL))
		resp.Success = true
		resp.Message = MsgLinkExists
		return resp
	}

	updated := content + "\n" + LinkMarkup(anchorText, linkURL)
	if err := c.UpdatePageContent(ctx, site, pageID, updated); err != nil {
		resp.Message = describe("Failed to update page", err)
		fields := []infralogger.Field{infralogger.String("reason", resp.Message), infralogger.Error(err)}
		var httpErr *infraerrors.HTTPError
		if errors.As(err, &httpErr) && httpErr.Body != "" {
			fields = append(fields, infralogger.String("response", httpErr.Body))
		}
		log.Error("Updating page failed", fields...)
		return resp
	}

	log.Debug("Link added", infralogger.String("link_url", linkURL))
	resp.Success = true
	resp.LinkAdded = true
	resp.Message = MsgLinkAdded
	return resp
}

// ExistingLinks fetches a page and lists the anchors in its content.
func (c *Client) ExistingLinks(ctx context.Context, site *models.Website, pageID int) ([]models.ExistingLink, error) {
	if pageID <= 0 {
		pageID = site.PageID
	}
	page, err := c.GetPage(ctx, site, pageID)
	if err != nil {
		return nil, err
	}
	return ExtractLinks(page.Content.Text())
}

// TestConnection fetches the site's configured page to verify URL and
// credentials.
func (c *Client) TestConnection(ctx context.Context, site *models.Website) models.ConnectionTestResult {
	page, err := c.GetPage(ctx, site, site.PageID)
	if err == nil {
		title := page.Title.Rendered
		if title == "" {
			title = "Unknown"
		}
		return models.ConnectionTestResult{Success: true, Message: "Connection successful", PageTitle: title, StatusCode: 200}
	}

	if code, ok := infraerrors.StatusCode(err); ok {
		return models.ConnectionTestResult{Message: fmt.Sprintf("HTTP %d", code), StatusCode: code}
	}
	if isTimeout(err) {
		return models.ConnectionTestResult{Message: "Connection timeout", StatusCode: 408}
	}
	return models.ConnectionTestResult{Message: err.Error(), StatusCode: 500}
}
