// Package context holds the timeouts shared by startup and shutdown paths.
package context

import (
	"context"
	"time"
)

const (
	ShutdownTimeout = 10 * time.Second
	PingTimeout     = 5 * time.Second
)

// WithShutdownTimeout bounds graceful shutdown.
func WithShutdownTimeout() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), ShutdownTimeout)
}

// WithPingTimeout derives a short-lived context for connectivity checks.
func WithPingTimeout(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return context.WithTimeout(parent, PingTimeout)
}
