// Package metadata suggests registry fields from a site's homepage.
package metadata

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	infraerrors "github.com/drijfveer/linkmanager/infrastructure/errors"
	infrahttp "github.com/drijfveer/linkmanager/infrastructure/http"
	infralogger "github.com/drijfveer/linkmanager/infrastructure/logger"
	"github.com/drijfveer/linkmanager/internal/models"
	"github.com/drijfveer/linkmanager/internal/urlmatch"
)

const defaultHTTPTimeout = 15 * time.Second

var ErrInvalidURL = errors.New("invalid URL")

type Extractor struct {
	logger infralogger.Logger
	client *http.Client
}

func NewExtractor(log infralogger.Logger) *Extractor {
	return &Extractor{
		logger: log,
		client: infrahttp.NewClient(infrahttp.ClientConfig{
			Timeout:   defaultHTTPTimeout,
			UserAgent: "Mozilla/5.0 (compatible; linkmanager/1.0)",
		}),
	}
}

// Extract fetches siteURL (https:// is assumed when no scheme is given) and
// suggests a site name and description.
func (e *Extractor) Extract(ctx context.Context, siteURL string) (*models.SiteMetadata, error) {
	normalized := strings.TrimSpace(siteURL)
	if !strings.Contains(normalized, "://") {
		normalized = urlmatch.NormalizeURL(normalized)
	}
	parsed, err := url.Parse(normalized)
	if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return nil, fmt.Errorf("%w: %q", ErrInvalidURL, siteURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, normalized, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", normalized, err)
	}
	defer resp.Body.Close()

	if httpErr := infraerrors.ParseHTTPError(resp); httpErr != nil {
		return nil, httpErr
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse HTML: %w", err)
	}

	meta := &models.SiteMetadata{
		WebsiteURL:  strings.TrimRight(normalized, "/"),
		SiteName:    siteName(doc, parsed),
		Description: metaContent(doc, "meta[property='og:description']", "meta[name='description']"),
	}

	e.logger.Info("Site metadata extracted",
		infralogger.String("url", normalized),
		infralogger.String("site_name", meta.SiteName),
	)
	return meta, nil
}

func siteName(doc *goquery.Document, parsed *url.URL) string {
	if name := metaContent(doc, "meta[property='og:site_name']", "meta[property='og:title']"); name != "" {
		return name
	}
	if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
		return title
	}
	return strings.TrimPrefix(parsed.Hostname(), "www.")
}

// metaContent returns the first non-empty content attribute among selectors.
func metaContent(doc *goquery.Document, selectors ...string) string {
	for _, sel := range selectors {
		if v, ok := doc.Find(sel).First().Attr("content"); ok {
			if v = strings.TrimSpace(v); v != "" {
				return v
			}
		}
	}
	return ""
}
