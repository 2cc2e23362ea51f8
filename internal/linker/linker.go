// Package linker resolves a website from the registry and inserts links into
// its WordPress page.
package linker

import (
	"context"
	"errors"
	"fmt"

	infralogger "github.com/drijfveer/linkmanager/infrastructure/logger"
	"github.com/drijfveer/linkmanager/internal/bulk"
	"github.com/drijfveer/linkmanager/internal/events"
	"github.com/drijfveer/linkmanager/internal/metrics"
	"github.com/drijfveer/linkmanager/internal/models"
	"github.com/drijfveer/linkmanager/internal/repository"
	"github.com/drijfveer/linkmanager/internal/urlmatch"
)

// MsgWebsiteNotFound is reported for bulk rows whose website is unknown.
const MsgWebsiteNotFound = "Website configuration not found"

// PageLinker is the WordPress side of link insertion.
type PageLinker interface {
	AddLink(ctx context.Context, site *models.Website, anchorText, linkURL string, pageID int) models.LinkResponse
}

// Service adds links to registered websites, singly or in bulk.
type Service struct {
	repo      repository.WebsiteRepository
	wp        PageLinker
	metrics   *metrics.Metrics
	publisher *events.Publisher
	logger    infralogger.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithMetrics records link outcomes in m.
func WithMetrics(m *metrics.Metrics) Option { return func(s *Service) { s.metrics = m } }

// WithPublisher emits link events through p.
func WithPublisher(p *events.Publisher) Option { return func(s *Service) { s.publisher = p } }

// NewService creates a Service over repo and wp.
func NewService(repo repository.WebsiteRepository, wp PageLinker, log infralogger.Logger, opts ...Option) *Service {
	s := &Service{repo: repo, wp: wp, logger: log}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Resolve finds the website for websiteURL: an exact registry key first, then
// the first website sharing its root domain.
func (s *Service) Resolve(ctx context.Context, websiteURL string) (*models.Website, error) {
	site, err := s.repo.Get(ctx, websiteURL)
	if err == nil {
		return site, nil
	}
	if !errors.Is(err, repository.ErrWebsiteNotFound) {
		return nil, err
	}

	sites, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list websites: %w", err)
	}
	if match, ok := urlmatch.Match(websiteURL, sites); ok {
		return match, nil
	}
	return nil, fmt.Errorf("%s: %w", websiteURL, repository.ErrWebsiteNotFound)
}

// AddLink inserts one link. Only registry failures are returned as errors;
// WordPress failures come back in the response.
func (s *Service) AddLink(ctx context.Context, req models.LinkRequest) (models.LinkResponse, error) {
	site, err := s.Resolve(ctx, req.WebsiteURL)
	if err != nil {
		return models.LinkResponse{}, err
	}

	pageID := site.PageID
	if req.PageID != nil && *req.PageID > 0 {
		pageID = *req.PageID
	}
	if pageID <= 0 {
		pageID = models.DefaultPageID
	}

	resp := s.wp.AddLink(ctx, site, req.AnchorText, req.LinkURL, pageID)
	s.metrics.ObserveLink(resp)
	s.publish(site, pageID, req, resp)

	s.logger.Info("Link request processed",
		infralogger.String("website_url", site.WebsiteURL),
		infralogger.Int("page_id", pageID),
		infralogger.String("link_url", req.LinkURL),
		infralogger.Bool("success", resp.Success),
		infralogger.Bool("link_added", resp.LinkAdded),
		infralogger.String("message", resp.Message),
	)
	return resp, nil
}

func (s *Service) publish(site *models.Website, pageID int, req models.LinkRequest, resp models.LinkResponse) {
	var eventType events.EventType
	switch {
	case resp.LinkAdded:
		eventType = events.LinkAdded
	case !resp.Success:
		eventType = events.LinkFailed
	default:
		return
	}
	s.publisher.PublishAsync(events.Event{
		EventType:  eventType,
		WebsiteURL: site.WebsiteURL,
		Payload: events.LinkPayload{
			PageID:     pageID,
			AnchorText: req.AnchorText,
			LinkURL:    req.LinkURL,
			Message:    resp.Message,
		},
	})
}

// AddBulk adds the same link to every listed website, one after another in
// the given order. A website missing from the registry fails its row only.
func (s *Service) AddBulk(ctx context.Context, req models.BulkLinkRequest) models.BulkLinkResponse {
	s.logger.Info("Starting bulk link addition",
		infralogger.Int("websites", len(req.Websites)),
		infralogger.String("link_url", req.LinkURL),
	)

	rows := make([]bulk.Row, 0, len(req.Websites))
	for i, w := range req.Websites {
		rows = append(rows, bulk.Row{Line: i + 1, Request: models.LinkRequest{
			WebsiteURL: w,
			AnchorText: req.AnchorText,
			LinkURL:    req.LinkURL,
			PageID:     req.PageID,
		}})
	}

	results := make([]models.LinkResponse, 0, len(rows))
	runner := bulk.NewRunner(bulk.SubmitterFunc(func(ctx context.Context, lr models.LinkRequest) (models.LinkResponse, error) {
		resp, err := s.AddLink(ctx, lr)
		if err != nil {
			resp = models.LinkResponse{WebsiteURL: lr.WebsiteURL, Message: failureMessage(err)}
			if lr.PageID != nil {
				resp.PageID = *lr.PageID
			}
			s.logger.Warn("Bulk row failed",
				infralogger.String("website_url", lr.WebsiteURL),
				infralogger.Error(err),
			)
		}
		results = append(results, resp)
		s.metrics.ObserveBulkRow(resp.Success)
		return resp, nil
	}), 0, s.logger)

	summary := runner.Run(ctx, rows, nil)

	s.logger.Info("Bulk link addition finished",
		infralogger.Int("total", summary.Total),
		infralogger.Int("successful", summary.Succeeded),
		infralogger.Int("failed", summary.Failed),
		infralogger.Strings("failed_websites", summary.FailedWebsites()),
	)

	return models.BulkLinkResponse{
		Results:    results,
		Total:      summary.Total,
		Successful: summary.Succeeded,
		Failed:     summary.Failed,
	}
}

func failureMessage(err error) string {
	if errors.Is(err, repository.ErrWebsiteNotFound) {
		return MsgWebsiteNotFound
	}
	return err.Error()
}
