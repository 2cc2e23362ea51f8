// Package client is a typed client for the link manager REST API.
package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	infrahttp "github.com/drijfveer/linkmanager/infrastructure/http"
	"github.com/drijfveer/linkmanager/internal/importer"
	"github.com/drijfveer/linkmanager/internal/models"
)

const (
	DefaultBaseURL = "http://localhost:8000"
	// DefaultTimeout covers a full server-side bulk request.
	DefaultTimeout = 5 * time.Minute
)

type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    infrahttp.NewClient(infrahttp.ClientConfig{Timeout: timeout, UserAgent: "linkctl/1.0"}),
	}
}

// Health returns the decoded /health body.
func (c *Client) Health(ctx context.Context) (map[string]any, error) {
	out, err := doJSON[map[string]any](ctx, c, http.MethodGet, "/health", nil, nil)
	if err != nil {
		return nil, err
	}
	return *out, nil
}

func (c *Client) ConfigInfo(ctx context.Context) (*models.ConfigInfoResponse, error) {
	return doJSON[models.ConfigInfoResponse](ctx, c, http.MethodGet, "/config-info", nil, nil)
}

func (c *Client) ListWebsites(ctx context.Context) ([]models.PublicWebsite, error) {
	out, err := doJSON[models.WebsiteListResponse](ctx, c, http.MethodGet, "/websites", nil, nil)
	if err != nil {
		return nil, err
	}
	return out.Websites, nil
}

func (c *Client) CreateWebsite(ctx context.Context, req models.WebsiteRequest) (*models.WebsiteResponse, error) {
	return doJSON[models.WebsiteResponse](ctx, c, http.MethodPost, "/websites", nil, req)
}

func (c *Client) UpdateWebsite(ctx context.Context, req models.UpdateWebsiteRequest) (*models.WebsiteResponse, error) {
	return doJSON[models.WebsiteResponse](ctx, c, http.MethodPut, "/websites", nil, req)
}

func (c *Client) DeleteWebsite(ctx context.Context, websiteURL string) (*models.WebsiteResponse, error) {
	return doJSON[models.WebsiteResponse](ctx, c, http.MethodDelete, "/websites/", url.Values{"website_url": {websiteURL}}, nil)
}

func (c *Client) SuggestMetadata(ctx context.Context, websiteURL string) (*models.SiteMetadata, error) {
	return doJSON[models.SiteMetadata](ctx, c, http.MethodPost, "/websites/metadata", nil, map[string]string{"website_url": websiteURL})
}

func (c *Client) TestConnection(ctx context.Context, websiteURL string) (*models.ConnectionTestResult, error) {
	return doJSON[models.ConnectionTestResult](ctx, c, http.MethodGet, "/test-connection/"+escapeSegment(websiteURL), nil, nil)
}

// AddLink satisfies bulk.Submitter.
func (c *Client) AddLink(ctx context.Context, req models.LinkRequest) (models.LinkResponse, error) {
	out, err := doJSON[models.LinkResponse](ctx, c, http.MethodPost, "/add-link", nil, req)
	if err != nil {
		return models.LinkResponse{}, err
	}
	return *out, nil
}

func (c *Client) AddBulkLinks(ctx context.Context, req models.BulkLinkRequest) (*models.BulkLinkResponse, error) {
	return doJSON[models.BulkLinkResponse](ctx, c, http.MethodPost, "/add-bulk-links", nil, req)
}

func (c *Client) ListLinks(ctx context.Context, websiteURL string, pageID int) (*models.PageLinksResponse, error) {
	q := url.Values{"website_url": {websiteURL}}
	if pageID > 0 {
		q.Set("page_id", strconv.Itoa(pageID))
	}
	return doJSON[models.PageLinksResponse](ctx, c, http.MethodGet, "/links", q, nil)
}

// ParseBulk asks the server to parse against its current registry.
func (c *Client) ParseBulk(ctx context.Context, sources, anchors, targets string) (*importer.ParseResult, error) {
	body := map[string]string{"sources": sources, "anchors": anchors, "targets": targets}
	return doJSON[importer.ParseResult](ctx, c, http.MethodPost, "/bulk-import/parse", nil, body)
}

// ParseBulkSheet uploads an .xlsx for server-side parsing.
func (c *Client) ParseBulkSheet(ctx context.Context, filename string, r io.Reader) (*importer.ParseResult, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, fmt.Errorf("copy sheet: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("close form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/bulk-import/sheet", &buf)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return send[importer.ParseResult](c, req)
}

func (c *Client) ListBlogs(ctx context.Context, websiteURL string) ([]models.BlogPost, error) {
	var q url.Values
	if websiteURL != "" {
		q = url.Values{"website_url": {websiteURL}}
	}
	out, err := doJSON[models.BlogListResponse](ctx, c, http.MethodGet, "/blogs", q, nil)
	if err != nil {
		return nil, err
	}
	return out.Blogs, nil
}

func (c *Client) CreateBlog(ctx context.Context, req models.BlogCreateRequest) (*models.BlogPost, error) {
	return doJSON[models.BlogPost](ctx, c, http.MethodPost, "/blogs", nil, req)
}

func (c *Client) UpdateBlog(ctx context.Context, id int, req models.BlogUpdateRequest) (*models.BlogPost, error) {
	return doJSON[models.BlogPost](ctx, c, http.MethodPut, "/blogs/"+strconv.Itoa(id), nil, req)
}

func (c *Client) DeleteBlog(ctx context.Context, id int, websiteURL string, force bool) (*models.WebsiteResponse, error) {
	q := url.Values{"website_url": {websiteURL}}
	if force {
		q.Set("force", "true")
	}
	return doJSON[models.WebsiteResponse](ctx, c, http.MethodDelete, "/blogs/"+strconv.Itoa(id), q, nil)
}
