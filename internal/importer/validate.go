package importer

import (
	"strings"

	"github.com/drijfveer/linkmanager/internal/models"
)

// ImportError is a rejected spreadsheet or registry row. Row is the
// spreadsheet row number, header included.
type ImportError struct {
	Row   int    `json:"row"`
	Error string `json:"error"`
}

// ValidateWebsite returns the first problem with w, or "".
func ValidateWebsite(w models.Website) string {
	switch {
	case strings.TrimSpace(w.WebsiteURL) == "":
		return "website_url is required"
	case !strings.HasPrefix(w.WebsiteURL, "http://") && !strings.HasPrefix(w.WebsiteURL, "https://"):
		return "website_url must start with http:// or https://"
	case strings.TrimSpace(w.SiteName) == "":
		return "site_name is required"
	case w.PageID <= 0:
		return "page_id must be a positive integer"
	case strings.TrimSpace(w.Username) == "":
		return "username is required"
	case strings.TrimSpace(w.AppPassword) == "":
		return "app_password is required"
	}
	return ""
}

// NormalizeWebsite trims every field and drops a trailing slash from the URL.
func NormalizeWebsite(w models.Website) models.Website {
	w.WebsiteURL = strings.TrimRight(strings.TrimSpace(w.WebsiteURL), "/")
	w.SiteName = strings.TrimSpace(w.SiteName)
	w.Username = strings.TrimSpace(w.Username)
	w.AppPassword = strings.TrimSpace(w.AppPassword)
	return w
}
