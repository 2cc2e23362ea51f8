// Package http builds outbound HTTP clients with pooled transports.
package http

import (
	"net"
	"net/http"
	"time"
)

const (
	DefaultTimeout             = 30 * time.Second
	defaultMaxIdleConns        = 50
	defaultMaxIdleConnsPerHost = 4
	defaultIdleConnTimeout     = 90 * time.Second
	defaultDialTimeout         = 10 * time.Second
	defaultTLSHandshakeTimeout = 10 * time.Second
)

// ClientConfig tunes NewClient. Zero values fall back to defaults.
type ClientConfig struct {
	Timeout             time.Duration
	MaxIdleConnsPerHost int
	UserAgent           string
	// Transport overrides the pooled transport, mostly for tests.
	Transport http.RoundTripper
}

// NewClient returns a client whose transport stamps UserAgent on every
// request that does not already carry one.
func NewClient(cfg ClientConfig) *http.Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxIdleConnsPerHost <= 0 {
		cfg.MaxIdleConnsPerHost = defaultMaxIdleConnsPerHost
	}

	rt := cfg.Transport
	if rt == nil {
		rt = &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			DialContext:         (&net.Dialer{Timeout: defaultDialTimeout}).DialContext,
			MaxIdleConns:        defaultMaxIdleConns,
			MaxIdleConnsPerHost: cfg.MaxIdleConnsPerHost,
			IdleConnTimeout:     defaultIdleConnTimeout,
			TLSHandshakeTimeout: defaultTLSHandshakeTimeout,
			ForceAttemptHTTP2:   true,
		}
	}
	if cfg.UserAgent != "" {
		rt = &userAgentTransport{next: rt, ua: cfg.UserAgent}
	}

	return &http.Client{Timeout: cfg.Timeout, Transport: rt}
}

type userAgentTransport struct {
	next http.RoundTripper
	ua   string
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") != "" {
		return t.next.RoundTrip(req)
	}
	clone := req.Clone(req.Context())
	clone.Header.Set("User-Agent", t.ua)
	return t.next.RoundTrip(clone)
}
