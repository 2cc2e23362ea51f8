package models

// BlogPost is a WordPress post as exposed by /blogs.
type BlogPost struct {
	ID         int    `json:"id"`
	Title      string `json:"title"`
	Content    string `json:"content"`
	Excerpt    string `json:"excerpt,omitempty"`
	Slug       string `json:"slug"`
	Status     string `json:"status"`
	Date       string `json:"date,omitempty"`
	Link       string `json:"link,omitempty"`
	Categories []int  `json:"categories,omitempty"`
	Tags       []int  `json:"tags,omitempty"`
	WebsiteURL string `json:"website_url"`
}

type BlogCreateRequest struct {
	WebsiteURL string `binding:"required" json:"website_url"`
	Title      string `binding:"required" json:"title"`
	Content    string `binding:"required" json:"content"`
	Excerpt    string `json:"excerpt,omitempty"`
	Status     string `json:"status,omitempty"`
	Categories []int  `json:"categories,omitempty"`
	Tags       []int  `json:"tags,omitempty"`
}

// BlogUpdateRequest changes only the fields that are set.
type BlogUpdateRequest struct {
	WebsiteURL string  `binding:"required" json:"website_url"`
	Title      *string `json:"title,omitempty"`
	Content    *string `json:"content,omitempty"`
	Excerpt    *string `json:"excerpt,omitempty"`
	Status     *string `json:"status,omitempty"`
	Categories []int   `json:"categories,omitempty"`
	Tags       []int   `json:"tags,omitempty"`
}

type BlogListResponse struct {
	Blogs []BlogPost `json:"blogs"`
	Total int        `json:"total"`
}
