// Package api wires the handlers onto the shared gin server.
package api

import (
	"context"

	"github.com/gin-gonic/gin"

	infragin "github.com/drijfveer/linkmanager/infrastructure/gin"
	infralogger "github.com/drijfveer/linkmanager/infrastructure/logger"
	"github.com/drijfveer/linkmanager/internal/config"
	"github.com/drijfveer/linkmanager/internal/handlers"
	"github.com/drijfveer/linkmanager/internal/metrics"
)

const serviceName = "linkmanager"

// HealthGaugeWebsites is the /health field carrying the registry size.
const HealthGaugeWebsites = "websites_loaded"

// Options adds optional pieces to the server.
type Options struct {
	Metrics *metrics.Metrics
	Checks  map[string]infragin.HealthChecker
	Version string
}

// NewServer builds the HTTP server with every route mounted.
func NewServer(cfg *config.Config, h *handlers.Handler, count func(ctx context.Context) (int, error), opts Options, log infralogger.Logger) *infragin.Server {
	builder := infragin.NewServerBuilder(serviceName, cfg.Server.Port).
		WithLogger(log).
		WithHost(cfg.Server.Host).
		WithDebug(cfg.Debug).
		WithVersion(opts.Version).
		WithCORSOrigins(cfg.Server.CORSOrigins).
		WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.IdleTimeout).
		WithHealthGauge(HealthGaugeWebsites, func() int {
			n, err := count(context.Background())
			if err != nil {
				return 0
			}
			return n
		}).
		WithRoutes(func(router *gin.Engine) {
			Routes(router, h, opts.Metrics)
		})

	for name, check := range opts.Checks {
		builder = builder.WithHealthCheck(name, check)
	}
	return builder.Build()
}

// Routes mounts the REST surface on router.
func Routes(router gin.IRouter, h *handlers.Handler, m *metrics.Metrics) {
	router.GET("/", h.Root)
	router.GET("/config-info", h.ConfigInfo)
	if m != nil {
		router.GET("/metrics", gin.WrapH(m.Handler()))
	}

	router.GET("/websites", h.ListWebsites)
	router.POST("/websites", h.CreateWebsite)
	router.PUT("/websites", h.UpdateWebsite)
	router.DELETE("/websites/*website_url", h.DeleteWebsite)
	router.POST("/websites/metadata", h.SuggestMetadata)
	router.GET("/test-connection/*website_url", h.TestConnection)

	router.POST("/add-link", h.AddLink)
	router.POST("/add-bulk-links", h.AddBulkLinks)
	router.GET("/links", h.ListLinks)

	bulkImport := router.Group("/bulk-import")
	bulkImport.POST("/parse", h.ParseBulk)
	bulkImport.POST("/sheet", h.ParseBulkSheet)

	blogsGroup := router.Group("/blogs")
	blogsGroup.GET("", h.ListBlogs)
	blogsGroup.POST("", h.CreateBlog)
	blogsGroup.PUT("/:id", h.UpdateBlog)
	blogsGroup.DELETE("/:id", h.DeleteBlog)
}
