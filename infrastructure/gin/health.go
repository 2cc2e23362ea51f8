package gin

import (
	"context"
	"encoding/json"
	"net/http"
	"slices"
	"time"

	"github.com/gin-gonic/gin"
)

type HealthStatus string

const (
	HealthStatusHealthy   HealthStatus = "healthy"
	HealthStatusDegraded  HealthStatus = "degraded"
	HealthStatusUnhealthy HealthStatus = "unhealthy"
)

// HealthResponse is the body of GET /health. Gauges are flattened into the
// top-level object next to the fixed fields.
type HealthResponse struct {
	Status    HealthStatus           `json:"status"`
	Service   string                 `json:"service"`
	Version   string                 `json:"version"`
	Timestamp time.Time              `json:"timestamp"`
	Uptime    string                 `json:"uptime"`
	Checks    map[string]CheckResult `json:"checks,omitempty"`
	Gauges    map[string]int         `json:"-"`
}

func (r HealthResponse) MarshalJSON() ([]byte, error) {
	type plain HealthResponse
	base, err := json.Marshal(plain(r))
	if err != nil || len(r.Gauges) == 0 {
		return base, err
	}

	merged := make(map[string]json.RawMessage, len(r.Gauges)+6)
	if err := json.Unmarshal(base, &merged); err != nil {
		return nil, err
	}
	for k, v := range r.Gauges {
		if _, taken := merged[k]; taken {
			continue
		}
		raw, _ := json.Marshal(v)
		merged[k] = raw
	}
	return json.Marshal(merged)
}

type CheckResult struct {
	Status  HealthStatus `json:"status"`
	Message string       `json:"message,omitempty"`
	Latency string       `json:"latency,omitempty"`
}

// HealthChecker probes one dependency.
type HealthChecker func(ctx context.Context) CheckResult

// HealthOptions configures RegisterHealthRoutes.
type HealthOptions struct {
	ServiceName    string
	ServiceVersion string
	StartTime      time.Time
	Checks         map[string]HealthChecker
	// Gauges are sampled on every request and reported as top-level numbers.
	Gauges map[string]func() int
}

// RegisterHealthRoutes mounts GET and HEAD /health.
func RegisterHealthRoutes(router gin.IRoutes, opts HealthOptions) {
	if opts.StartTime.IsZero() {
		opts.StartTime = time.Now()
	}
	router.GET("/health", healthHandler(opts))
	router.HEAD("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
}

func healthHandler(opts HealthOptions) gin.HandlerFunc {
	return func(c *gin.Context) {
		now := time.Now()
		resp := HealthResponse{
			Status:    HealthStatusHealthy,
			Service:   opts.ServiceName,
			Version:   opts.ServiceVersion,
			Timestamp: now.UTC(),
			Uptime:    now.Sub(opts.StartTime).Truncate(time.Second).String(),
		}

		if len(opts.Checks) > 0 {
			resp.Checks = make(map[string]CheckResult, len(opts.Checks))
			for _, name := range sortedKeys(opts.Checks) {
				result := opts.Checks[name](c.Request.Context())
				resp.Checks[name] = result
				resp.Status = worst(resp.Status, result.Status)
			}
		}
		if len(opts.Gauges) > 0 {
			resp.Gauges = make(map[string]int, len(opts.Gauges))
			for name, sample := range opts.Gauges {
				resp.Gauges[name] = sample()
			}
		}

		code := http.StatusOK
		if resp.Status == HealthStatusUnhealthy {
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, resp)
	}
}

func worst(a, b HealthStatus) HealthStatus {
	rank := map[HealthStatus]int{HealthStatusHealthy: 0, HealthStatusDegraded: 1, HealthStatusUnhealthy: 2}
	if rank[b] > rank[a] {
		return b
	}
	return a
}

func sortedKeys(m map[string]HealthChecker) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// PingChecker wraps a ping function. A failing critical dependency marks the
// service unhealthy; a non-critical one only degrades it.
func PingChecker(name string, critical bool, ping func(ctx context.Context) error) HealthChecker {
	return func(ctx context.Context) CheckResult {
		start := time.Now()
		err := ping(ctx)
		latency := time.Since(start).String()
		if err == nil {
			return CheckResult{Status: HealthStatusHealthy, Message: name + " connection OK", Latency: latency}
		}
		status := HealthStatusDegraded
		if critical {
			status = HealthStatusUnhealthy
		}
		return CheckResult{Status: status, Message: name + " connection failed", Latency: latency}
	}
}
