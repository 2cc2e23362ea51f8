// Package handlers implements the link manager REST endpoints.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	infraerrors "github.com/drijfveer/linkmanager/infrastructure/errors"
	infragin "github.com/drijfveer/linkmanager/infrastructure/gin"
	infralogger "github.com/drijfveer/linkmanager/infrastructure/logger"
	"github.com/drijfveer/linkmanager/internal/blogs"
	"github.com/drijfveer/linkmanager/internal/events"
	"github.com/drijfveer/linkmanager/internal/models"
	"github.com/drijfveer/linkmanager/internal/repository"
	"github.com/drijfveer/linkmanager/internal/wordpress"
)

type LinkService interface {
	Resolve(ctx context.Context, websiteURL string) (*models.Website, error)
	AddLink(ctx context.Context, req models.LinkRequest) (models.LinkResponse, error)
	AddBulk(ctx context.Context, req models.BulkLinkRequest) models.BulkLinkResponse
}

type PageClient interface {
	TestConnection(ctx context.Context, site *models.Website) models.ConnectionTestResult
	ExistingLinks(ctx context.Context, site *models.Website, pageID int) ([]models.ExistingLink, error)
}

type BlogService interface {
	List(ctx context.Context, websiteURL string, opts wordpress.ListPostsOptions) ([]models.BlogPost, error)
	Create(ctx context.Context, req models.BlogCreateRequest) (*models.BlogPost, error)
	Update(ctx context.Context, id int, req models.BlogUpdateRequest) (*models.BlogPost, error)
	Delete(ctx context.Context, id int, websiteURL string, force bool) error
}

type MetadataExtractor interface {
	Extract(ctx context.Context, siteURL string) (*models.SiteMetadata, error)
}

// Deps are the collaborators of Handler. Publisher may be nil.
type Deps struct {
	Repo      repository.WebsiteRepository
	Links     LinkService
	Pages     PageClient
	Blogs     BlogService
	Metadata  MetadataExtractor
	Publisher *events.Publisher
	Logger    infralogger.Logger
	Version   string
}

type Handler struct {
	repo      repository.WebsiteRepository
	links     LinkService
	pages     PageClient
	blogs     BlogService
	metadata  MetadataExtractor
	publisher *events.Publisher
	logger    infralogger.Logger
	version   string
}

func New(d Deps) *Handler {
	if d.Logger == nil {
		d.Logger = infralogger.NewNop()
	}
	return &Handler{
		repo:      d.Repo,
		links:     d.Links,
		pages:     d.Pages,
		blogs:     d.Blogs,
		metadata:  d.Metadata,
		publisher: d.Publisher,
		logger:    d.Logger,
		version:   d.Version,
	}
}

// log prefers the request-scoped logger installed by the request ID
// middleware.
func (h *Handler) log(c *gin.Context) infralogger.Logger {
	if _, ok := c.Get(infragin.ContextKeyRequestID); ok {
		return infralogger.FromContext(c.Request.Context())
	}
	return h.logger
}

func detail(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"detail": msg})
}

// fail maps a service error onto a status code and writes it.
func (h *Handler) fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	msg := err.Error()

	switch {
	case errors.Is(err, repository.ErrWebsiteNotFound):
		status, msg = http.StatusNotFound, "Website configuration not found"
	case errors.Is(err, repository.ErrWebsiteExists):
		status = http.StatusBadRequest
	case errors.Is(err, blogs.ErrWebsiteRequired):
		status = http.StatusBadRequest
	case errors.Is(err, wordpress.ErrPageNotFound):
		status = http.StatusNotFound
	default:
		if code, ok := infraerrors.StatusCode(err); ok && code == http.StatusNotFound {
			status = http.StatusNotFound
		}
	}

	if status >= http.StatusInternalServerError {
		h.log(c).Error("Request failed",
			infralogger.String("path", c.FullPath()),
			infralogger.Error(err),
		)
	}
	detail(c, status, msg)
}

func bindError(c *gin.Context, err error) {
	detail(c, http.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
}

// Root reports the service name and version.
func (h *Handler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "WordPress Link Manager API", "version": h.version})
}
