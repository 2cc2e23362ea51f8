package models

import "time"

// DefaultPageID is the WordPress page that receives links when neither the
// URL nor the registry names one.
const DefaultPageID = 49

// Website is one registered WordPress site and the credentials used to edit it.
// WebsiteURL is the registry key.
type Website struct {
	WebsiteURL  string    `db:"website_url"  json:"website_url"`
	SiteName    string    `db:"site_name"    json:"site_name"`
	PageID      int       `db:"page_id"      json:"page_id"`
	Username    string    `db:"username"     json:"username"`
	AppPassword string    `db:"app_password" json:"app_password"`
	CreatedAt   time.Time `db:"created_at"   json:"-"`
	UpdatedAt   time.Time `db:"updated_at"   json:"-"`
}

// PublicWebsite is the credential-free view returned by GET /websites.
type PublicWebsite struct {
	WebsiteURL string `json:"website_url"`
	SiteName   string `json:"site_name"`
	PageID     int    `json:"page_id"`
}

func (w Website) Public() PublicWebsite {
	return PublicWebsite{WebsiteURL: w.WebsiteURL, SiteName: w.SiteName, PageID: w.PageID}
}

// WebsiteRequest is the body of POST /websites.
type WebsiteRequest struct {
	WebsiteURL  string `binding:"required" json:"website_url"`
	SiteName    string `binding:"required" json:"site_name"`
	PageID      int    `binding:"required,gt=0" json:"page_id"`
	Username    string `binding:"required" json:"username"`
	AppPassword string `binding:"required" json:"app_password"`
}

func (r WebsiteRequest) Website() Website {
	return Website{
		WebsiteURL:  r.WebsiteURL,
		SiteName:    r.SiteName,
		PageID:      r.PageID,
		Username:    r.Username,
		AppPassword: r.AppPassword,
	}
}

// UpdateWebsiteRequest is the body of PUT /websites. OriginalURL selects the
// record; WebsiteURL may rename it.
type UpdateWebsiteRequest struct {
	OriginalURL string `binding:"required" json:"original_url"`
	WebsiteRequest
}

// WebsiteResponse acknowledges a registry mutation.
type WebsiteResponse struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	WebsiteURL string `json:"website_url,omitempty"`
	SiteName   string `json:"site_name,omitempty"`
}

// WebsiteListResponse is the body of GET /websites.
type WebsiteListResponse struct {
	Websites []PublicWebsite `json:"websites"`
	Total    int             `json:"total"`
}

// ConfigInfoResponse describes where the registry was loaded from.
type ConfigInfoResponse struct {
	ConfigSource         string    `json:"config_source"`
	TotalWebsites        int       `json:"total_websites"`
	EnvironmentAvailable bool      `json:"environment_available"`
	CSVFileAvailable     bool      `json:"csv_file_available"`
	LoadedAt             time.Time `json:"loaded_at"`
}

// SiteMetadata is a suggestion scraped from a site's homepage.
type SiteMetadata struct {
	WebsiteURL  string `json:"website_url"`
	SiteName    string `json:"site_name"`
	Description string `json:"description,omitempty"`
}
