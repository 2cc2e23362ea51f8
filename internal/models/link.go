package models

// LinkRequest is the body of POST /add-link.
type LinkRequest struct {
	WebsiteURL string `binding:"required" json:"website_url"`
	AnchorText string `binding:"required" json:"anchor_text"`
	LinkURL    string `binding:"required" json:"link_url"`
	// PageID overrides the website's configured page when set.
	PageID *int `json:"page_id,omitempty"`
}

// BulkLinkRequest adds the same link to several websites.
type BulkLinkRequest struct {
	Websites   []string `binding:"required,min=1" json:"website_urls"`
	AnchorText string   `binding:"required"       json:"anchor_text"`
	LinkURL    string   `binding:"required"       json:"link_url"`
	PageID     *int     `json:"page_id,omitempty"`
}

// LinkResponse reports the outcome of one link insertion.
type LinkResponse struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	WebsiteURL string `json:"website_url"`
	PageID     int    `json:"page_id"`
	LinkAdded  bool   `json:"link_added"`
}

// BulkLinkResponse aggregates the sequential results of a bulk request.
type BulkLinkResponse struct {
	Results    []LinkResponse `json:"results"`
	Total      int            `json:"total"`
	Successful int            `json:"successful"`
	Failed     int            `json:"failed"`
}

// ParsedLink is one accepted row of a bulk import. It only lives for the
// duration of an import session.
type ParsedLink struct {
	Line              int    `json:"line"`
	SourceURL         string `json:"source_url"`
	OriginalSourceURL string `json:"original_source_url"`
	AnchorText        string `json:"anchor_text"`
	TargetURL         string `json:"target_url"`
	WebsiteURL        string `json:"website_url"`
	SiteName          string `json:"site_name"`
	PageID            string `json:"page_id"`
}

// ExistingLink is an anchor already present in page content.
type ExistingLink struct {
	Href string `json:"href"`
	Text string `json:"text"`
}

// PageLinksResponse is the body of GET /links.
type PageLinksResponse struct {
	WebsiteURL string         `json:"website_url"`
	PageID     int            `json:"page_id"`
	Links      []ExistingLink `json:"links"`
	Total      int            `json:"total"`
}

// ConnectionTestResult is the outcome of probing a site's credentials.
type ConnectionTestResult struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	PageTitle  string `json:"page_title,omitempty"`
	StatusCode int    `json:"status_code,omitempty"`
}
