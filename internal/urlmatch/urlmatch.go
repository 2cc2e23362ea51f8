// Package urlmatch associates arbitrary URLs with registered websites by root
// domain and pulls WordPress page identifiers out of URLs.
//
// Every function is pure. Unparseable input is reported through the boolean
// result, never as an error.
package urlmatch

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/drijfveer/linkmanager/internal/models"
)

// FallbackPageID is used for partner pages and when nothing else names a page.
var FallbackPageID = strconv.Itoa(models.DefaultPageID)

func parse(rawURL string) (*url.URL, bool) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Scheme == "" || u.Host == "" || u.Hostname() == "" {
		return nil, false
	}
	return u, true
}

// IsValidURL reports whether rawURL is absolute with a scheme and a host.
func IsValidURL(rawURL string) bool {
	_, ok := parse(rawURL)
	return ok
}

// RootDomain returns the lowercased hostname of rawURL with one leading
// "www." removed. Ports are dropped; other subdomains are kept.
func RootDomain(rawURL string) (string, bool) {
	u, ok := parse(rawURL)
	if !ok {
		return "", false
	}
	return rootOf(u), true
}

func rootOf(u *url.URL) string {
	host := strings.ToLower(u.Hostname())
	return strings.TrimPrefix(host, "www.")
}

// RootURL is rawURL reduced to scheme://rootdomain.
func RootURL(rawURL string) (string, bool) {
	u, ok := parse(rawURL)
	if !ok {
		return "", false
	}
	return strings.ToLower(u.Scheme) + "://" + rootOf(u), true
}

// NormalizeURL prefixes https:// when raw has no http(s) scheme.
func NormalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	lower := strings.ToLower(raw)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return raw
	}
	return "https://" + raw
}

// Match returns the first website, in slice order, whose root domain equals
// that of rawURL.
func Match(rawURL string, websites []models.Website) (*models.Website, bool) {
	want, ok := RootDomain(rawURL)
	if !ok {
		return nil, false
	}
	for i := range websites {
		if got, ok := RootDomain(websites[i].WebsiteURL); ok && got == want {
			return &websites[i], true
		}
	}
	return nil, false
}

var (
	pathPatterns = []*regexp.Regexp{
		regexp.MustCompile(`/page/(\d+)`),
		regexp.MustCompile(`/p/(\d+)`),
		regexp.MustCompile(`/(\d+)/$`),
	}
	queryPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?:^|&)page_id=(\d+)`),
		regexp.MustCompile(`(?:^|&)p=(\d+)`),
	}
)

// ExtractPageID tries, in order: /page/N, /p/N, a trailing /N/ segment,
// ?page_id=N and ?p=N. Paths mentioning "partners" fall back to
// FallbackPageID.
func ExtractPageID(rawURL string) (string, bool) {
	u, ok := parse(rawURL)
	if !ok {
		return "", false
	}

	path := u.EscapedPath()
	for _, re := range pathPatterns {
		if m := re.FindStringSubmatch(path); m != nil {
			return m[1], true
		}
	}
	for _, re := range queryPatterns {
		if m := re.FindStringSubmatch(u.RawQuery); m != nil {
			return m[1], true
		}
	}

	// "linkpartners" contains "partners".
	if strings.Contains(path, "partners") {
		return FallbackPageID, true
	}
	return "", false
}

// ResolvePageID picks the id extracted from rawURL, then the website's own
// page, then FallbackPageID.
func ResolvePageID(rawURL string, site *models.Website) string {
	if id, ok := ExtractPageID(rawURL); ok {
		return id
	}
	if site != nil && site.PageID > 0 {
		return strconv.Itoa(site.PageID)
	}
	return FallbackPageID
}
