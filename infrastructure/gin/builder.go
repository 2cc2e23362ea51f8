package gin

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/drijfveer/linkmanager/infrastructure/logger"
)

// ServerBuilder assembles a Server with health routes mounted before the
// service routes.
type ServerBuilder struct {
	config *Config
	logger logger.Logger
	routes func(*gin.Engine)
	health HealthOptions
}

func NewServerBuilder(serviceName string, port int) *ServerBuilder {
	return &ServerBuilder{
		config: &Config{ServiceName: serviceName, Port: port},
		health: HealthOptions{
			Checks: make(map[string]HealthChecker),
			Gauges: make(map[string]func() int),
		},
	}
}

func (b *ServerBuilder) WithLogger(log logger.Logger) *ServerBuilder {
	b.logger = log
	return b
}

func (b *ServerBuilder) WithHost(host string) *ServerBuilder {
	b.config.Host = host
	return b
}

func (b *ServerBuilder) WithDebug(debug bool) *ServerBuilder {
	b.config.Debug = debug
	return b
}

func (b *ServerBuilder) WithVersion(version string) *ServerBuilder {
	b.config.ServiceVersion = version
	return b
}

func (b *ServerBuilder) WithCORSOrigins(origins []string) *ServerBuilder {
	if len(origins) > 0 {
		b.config.CORS.Enabled = true
		b.config.CORS.AllowedOrigins = origins
	}
	return b
}

func (b *ServerBuilder) WithTimeouts(read, write, idle time.Duration) *ServerBuilder {
	b.config.ReadTimeout = read
	b.config.WriteTimeout = write
	b.config.IdleTimeout = idle
	return b
}

func (b *ServerBuilder) WithHealthCheck(name string, checker HealthChecker) *ServerBuilder {
	b.health.Checks[name] = checker
	return b
}

// WithHealthGauge reports sample() under name in the /health body.
func (b *ServerBuilder) WithHealthGauge(name string, sample func() int) *ServerBuilder {
	b.health.Gauges[name] = sample
	return b
}

func (b *ServerBuilder) WithRoutes(routes func(*gin.Engine)) *ServerBuilder {
	b.routes = routes
	return b
}

func (b *ServerBuilder) Build() *Server {
	if b.logger == nil {
		b.logger = logger.Must(logger.Config{Development: b.config.Debug})
	}
	b.config.SetDefaults()

	b.health.ServiceName = b.config.ServiceName
	b.health.ServiceVersion = b.config.ServiceVersion
	b.health.StartTime = time.Now()

	return NewServer(b.config, b.logger, func(router *gin.Engine) {
		RegisterHealthRoutes(router, b.health)
		if b.routes != nil {
			b.routes(router)
		}
	})
}
