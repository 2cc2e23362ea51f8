package bootstrap

import (
	"context"

	infragin "github.com/drijfveer/linkmanager/infrastructure/gin"
	infralogger "github.com/drijfveer/linkmanager/infrastructure/logger"
	"github.com/drijfveer/linkmanager/internal/api"
	"github.com/drijfveer/linkmanager/internal/blogs"
	"github.com/drijfveer/linkmanager/internal/config"
	"github.com/drijfveer/linkmanager/internal/events"
	"github.com/drijfveer/linkmanager/internal/handlers"
	"github.com/drijfveer/linkmanager/internal/linker"
	"github.com/drijfveer/linkmanager/internal/metadata"
	"github.com/drijfveer/linkmanager/internal/metrics"
	"github.com/drijfveer/linkmanager/internal/wordpress"
)

// SetupHTTPServer creates and configures the HTTP server.
func SetupHTTPServer(
	cfg *config.Config,
	store *Storage,
	publisher *events.Publisher,
	log infralogger.Logger,
) *infragin.Server {
	repo := store.Repo
	count := func(ctx context.Context) (int, error) { return repo.Count(ctx) }

	m := metrics.New()
	m.RegisterWebsiteGauge(func() int {
		n, err := count(context.Background())
		if err != nil {
			return 0
		}
		return n
	})

	wp := wordpress.NewClient(cfg.WordPress, log, wordpress.WithObserver(m.ObserveWordPress))
	links := linker.NewService(repo, wp, log, linker.WithMetrics(m), linker.WithPublisher(publisher))

	h := handlers.New(handlers.Deps{
		Repo:      repo,
		Links:     links,
		Pages:     wp,
		Blogs:     blogs.NewService(links, repo, wp, log),
		Metadata:  metadata.NewExtractor(log),
		Publisher: publisher,
		Logger:    log,
		Version:   Version,
	})

	return api.NewServer(cfg, h, count, api.Options{
		Metrics: m,
		Checks:  store.Checks,
		Version: Version,
	}, log)
}
