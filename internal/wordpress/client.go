// Package wordpress talks to the WordPress REST API (wp-json/wp/v2) of the
// registered sites using application-password Basic auth.
package wordpress

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	infraerrors "github.com/drijfveer/linkmanager/infrastructure/errors"
	infrahttp "github.com/drijfveer/linkmanager/infrastructure/http"
	infralogger "github.com/drijfveer/linkmanager/infrastructure/logger"
	"github.com/drijfveer/linkmanager/internal/models"
)

const (
	apiPrefix        = "/wp-json/wp/v2"
	DefaultTimeout   = 30 * time.Second
	DefaultUserAgent = "linkmanager/1.0"
)

// Config tunes the client. Zero values use the defaults above.
type Config struct {
	Timeout   time.Duration `env:"WORDPRESS_TIMEOUT"    yaml:"timeout"`
	UserAgent string        `env:"WORDPRESS_USER_AGENT" yaml:"user_agent"`
}

// RequestObserver is told about every completed or failed REST call. status
// is 0 when no response was received.
type RequestObserver func(operation string, status int, elapsed time.Duration)

// Client is safe for concurrent use.
type Client struct {
	http     *http.Client
	logger   infralogger.Logger
	observer RequestObserver
}

type Option func(*Client)

func WithHTTPClient(c *http.Client) Option { return func(cl *Client) { cl.http = c } }

func WithObserver(o RequestObserver) Option { return func(cl *Client) { cl.observer = o } }

func NewClient(cfg Config, log infralogger.Logger, opts ...Option) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	c := &Client{
		http:   infrahttp.NewClient(infrahttp.ClientConfig{Timeout: cfg.Timeout, UserAgent: cfg.UserAgent}),
		logger: log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// APIBase returns the REST root for a site.
func APIBase(site *models.Website) string {
	return strings.TrimRight(site.WebsiteURL, "/") + apiPrefix
}

// do performs one authenticated call and decodes a JSON body into out when
// out is non-nil. Non-2xx responses come back as *infraerrors.HTTPError.
func (c *Client) do(ctx context.Context, op string, site *models.Website, method, path string, query url.Values, body, out any) error {
	endpoint := APIBase(site) + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s body: %w", op, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("build %s request: %w", op, err)
	}
	req.SetBasicAuth(site.Username, appPassword(site.AppPassword))
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.observe(op, 0, start)
		return fmt.Errorf("%s %s: %w", method, endpoint, err)
	}
	defer resp.Body.Close()
	c.observe(op, resp.StatusCode, start)

	if httpErr := infraerrors.ParseHTTPError(resp); httpErr != nil {
		return httpErr
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", op, err)
	}
	return nil
}

func (c *Client) observe(op string, status int, start time.Time) {
	if c.observer != nil {
		c.observer(op, status, time.Since(start))
	}
}

// appPassword strips the spaces WordPress shows when it issues an
// application password.
func appPassword(p string) string {
	return strings.ReplaceAll(p, " ", "")
}

// Failure classes used in user-facing messages.
const (
	msgTimeout    = "Request timeout"
	msgConnection = "Connection error"
)

// describe turns a transport or HTTP error into the message shown to users.
// prefix is used for HTTP status failures, e.g. "Failed to fetch page".
func describe(prefix string, err error) string {
	if code, ok := infraerrors.StatusCode(err); ok {
		return fmt.Sprintf("%s: HTTP %d", prefix, code)
	}
	if isTimeout(err) {
		return msgTimeout
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) && !errors.Is(err, context.Canceled) {
		return msgConnection
	}
	return "Unexpected error: " + err.Error()
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
