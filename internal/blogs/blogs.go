// Package blogs manages WordPress posts on registered websites.
package blogs

import (
	"context"
	"errors"
	"fmt"
	"strings"

	infralogger "github.com/drijfveer/linkmanager/infrastructure/logger"
	"github.com/drijfveer/linkmanager/internal/models"
	"github.com/drijfveer/linkmanager/internal/wordpress"
)

// DefaultStatus is used when a create request names none.
const DefaultStatus = "draft"

var ErrWebsiteRequired = errors.New("website_url is required")

type Resolver interface {
	Resolve(ctx context.Context, websiteURL string) (*models.Website, error)
}

type Lister interface {
	List(ctx context.Context) ([]models.Website, error)
}

// PostClient is the subset of the WordPress client used here.
type PostClient interface {
	ListPosts(ctx context.Context, site *models.Website, opts wordpress.ListPostsOptions) ([]wordpress.Post, error)
	CreatePost(ctx context.Context, site *models.Website, in wordpress.PostInput) (*wordpress.Post, error)
	UpdatePost(ctx context.Context, site *models.Website, id int, in wordpress.PostInput) (*wordpress.Post, error)
	DeletePost(ctx context.Context, site *models.Website, id int, force bool) error
}

type Service struct {
	resolver Resolver
	sites    Lister
	wp       PostClient
	logger   infralogger.Logger
}

func NewService(resolver Resolver, sites Lister, wp PostClient, log infralogger.Logger) *Service {
	return &Service{resolver: resolver, sites: sites, wp: wp, logger: log}
}

// Slugify lowercases title and joins words with "-".
func Slugify(title string) string {
	return strings.Join(strings.Fields(strings.ToLower(title)), "-")
}

// List returns the posts of one website, or of every registered website when
// websiteURL is empty. In the latter case a failing site is logged and
// skipped.
func (s *Service) List(ctx context.Context, websiteURL string, opts wordpress.ListPostsOptions) ([]models.BlogPost, error) {
	if websiteURL != "" {
		site, err := s.resolver.Resolve(ctx, websiteURL)
		if err != nil {
			return nil, err
		}
		return s.listSite(ctx, site, opts)
	}

	sites, err := s.sites.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list websites: %w", err)
	}
	out := []models.BlogPost{}
	for i := range sites {
		posts, err := s.listSite(ctx, &sites[i], opts)
		if err != nil {
			s.logger.Warn("Listing posts failed",
				infralogger.String("website_url", sites[i].WebsiteURL),
				infralogger.Error(err),
			)
			continue
		}
		out = append(out, posts...)
	}
	return out, nil
}

func (s *Service) listSite(ctx context.Context, site *models.Website, opts wordpress.ListPostsOptions) ([]models.BlogPost, error) {
	posts, err := s.wp.ListPosts(ctx, site, opts)
	if err != nil {
		return nil, fmt.Errorf("list posts on %s: %w", site.WebsiteURL, err)
	}
	out := make([]models.BlogPost, 0, len(posts))
	for i := range posts {
		out = append(out, blogPost(&posts[i], site))
	}
	return out, nil
}

func (s *Service) Create(ctx context.Context, req models.BlogCreateRequest) (*models.BlogPost, error) {
	site, err := s.resolver.Resolve(ctx, req.WebsiteURL)
	if err != nil {
		return nil, err
	}

	status := req.Status
	if status == "" {
		status = DefaultStatus
	}
	slug := Slugify(req.Title)
	in := wordpress.PostInput{
		Title:      &req.Title,
		Content:    &req.Content,
		Status:     &status,
		Slug:       &slug,
		Categories: req.Categories,
		Tags:       req.Tags,
	}
	if req.Excerpt != "" {
		in.Excerpt = &req.Excerpt
	}

	post, err := s.wp.CreatePost(ctx, site, in)
	if err != nil {
		return nil, fmt.Errorf("create post on %s: %w", site.WebsiteURL, err)
	}
	if post.Slug == "" {
		post.Slug = slug
	}

	s.logger.Info("Blog post created",
		infralogger.String("website_url", site.WebsiteURL),
		infralogger.Int("post_id", post.ID),
	)
	out := blogPost(post, site)
	return &out, nil
}

func (s *Service) Update(ctx context.Context, id int, req models.BlogUpdateRequest) (*models.BlogPost, error) {
	site, err := s.resolver.Resolve(ctx, req.WebsiteURL)
	if err != nil {
		return nil, err
	}

	in := wordpress.PostInput{
		Title:      req.Title,
		Content:    req.Content,
		Excerpt:    req.Excerpt,
		Status:     req.Status,
		Categories: req.Categories,
		Tags:       req.Tags,
	}
	if req.Title != nil {
		slug := Slugify(*req.Title)
		in.Slug = &slug
	}

	post, err := s.wp.UpdatePost(ctx, site, id, in)
	if err != nil {
		return nil, fmt.Errorf("update post %d on %s: %w", id, site.WebsiteURL, err)
	}

	s.logger.Info("Blog post updated",
		infralogger.String("website_url", site.WebsiteURL),
		infralogger.Int("post_id", id),
	)
	out := blogPost(post, site)
	return &out, nil
}

// Delete trashes a post, or removes it permanently when force is set.
func (s *Service) Delete(ctx context.Context, id int, websiteURL string, force bool) error {
	if websiteURL == "" {
		return ErrWebsiteRequired
	}
	site, err := s.resolver.Resolve(ctx, websiteURL)
	if err != nil {
		return err
	}
	if err := s.wp.DeletePost(ctx, site, id, force); err != nil {
		return fmt.Errorf("delete post %d on %s: %w", id, site.WebsiteURL, err)
	}

	s.logger.Info("Blog post deleted",
		infralogger.String("website_url", site.WebsiteURL),
		infralogger.Int("post_id", id),
		infralogger.Bool("force", force),
	)
	return nil
}

func blogPost(p *wordpress.Post, site *models.Website) models.BlogPost {
	out := p.BlogPost(site)
	if out.Slug == "" {
		out.Slug = Slugify(out.Title)
	}
	return out
}
