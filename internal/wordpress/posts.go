package wordpress

import (
	"context"
	"net/url"
	"strconv"

	"github.com/drijfveer/linkmanager/internal/models"
)

type Post struct {
	ID         int      `json:"id"`
	Date       string   `json:"date"`
	Slug       string   `json:"slug"`
	Status     string   `json:"status"`
	Link       string   `json:"link"`
	Title      Rendered `json:"title"`
	Content    Rendered `json:"content"`
	Excerpt    Rendered `json:"excerpt"`
	Categories []int    `json:"categories"`
	Tags       []int    `json:"tags"`
}

// PostInput is the write body for posts. Nil fields are left untouched by
// WordPress on update.
type PostInput struct {
	Title      *string `json:"title,omitempty"`
	Content    *string `json:"content,omitempty"`
	Excerpt    *string `json:"excerpt,omitempty"`
	Status     *string `json:"status,omitempty"`
	Slug       *string `json:"slug,omitempty"`
	Categories []int   `json:"categories,omitempty"`
	Tags       []int   `json:"tags,omitempty"`
}

// BlogPost converts a REST post into the API shape for site.
func (p *Post) BlogPost(site *models.Website) models.BlogPost {
	return models.BlogPost{
		ID:         p.ID,
		Title:      p.Title.Text(),
		Content:    p.Content.Text(),
		Excerpt:    p.Excerpt.Text(),
		Slug:       p.Slug,
		Status:     p.Status,
		Date:       p.Date,
		Link:       p.Link,
		Categories: p.Categories,
		Tags:       p.Tags,
		WebsiteURL: site.WebsiteURL,
	}
}

// ListPostsOptions filters ListPosts. Zero values are omitted.
type ListPostsOptions struct {
	Page    int
	PerPage int
	Status  string
	Search  string
}

func (o ListPostsOptions) values() url.Values {
	q := editContext()
	if o.Page > 0 {
		q.Set("page", strconv.Itoa(o.Page))
	}
	if o.PerPage > 0 {
		q.Set("per_page", strconv.Itoa(o.PerPage))
	}
	if o.Status != "" {
		q.Set("status", o.Status)
	}
	if o.Search != "" {
		q.Set("search", o.Search)
	}
	return q
}

func (c *Client) ListPosts(ctx context.Context, site *models.Website, opts ListPostsOptions) ([]Post, error) {
	var posts []Post
	if err := c.do(ctx, OpListPosts, site, "GET", "/posts", opts.values(), nil, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (c *Client) CreatePost(ctx context.Context, site *models.Website, in PostInput) (*Post, error) {
	var post Post
	if err := c.do(ctx, OpCreatePost, site, "POST", "/posts", nil, in, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

func (c *Client) UpdatePost(ctx context.Context, site *models.Website, id int, in PostInput) (*Post, error) {
	var post Post
	if err := c.do(ctx, OpUpdatePost, site, "POST", "/posts/"+strconv.Itoa(id), nil, in, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// DeletePost moves a post to the trash unless force is set.
func (c *Client) DeletePost(ctx context.Context, site *models.Website, id int, force bool) error {
	var q url.Values
	if force {
		q = url.Values{"force": {"true"}}
	}
	return c.do(ctx, OpDeletePost, site, "DELETE", "/posts/"+strconv.Itoa(id), q, nil, nil)
}
