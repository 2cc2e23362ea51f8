package logger

import (
	"context"
	"fmt"
	"os"
	"sync"
)

type ctxKey struct{}

// WithContext stores l in ctx.
func WithContext(ctx context.Context, l Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext returns the request-scoped logger, or a shared warn-level
// stderr logger when none was stored.
func FromContext(ctx context.Context) Logger {
	if l, ok := ctx.Value(ctxKey{}).(Logger); ok {
		return l
	}
	return stderrLogger()
}

var (
	fallback     Logger
	fallbackOnce sync.Once
)

func stderrLogger() Logger {
	fallbackOnce.Do(func() {
		l, err := New(Config{Level: string(WarnLevel), OutputPaths: []string{"stderr"}})
		if err != nil {
			fmt.Fprintf(os.Stderr, "logger: fallback unavailable: %v\n", err)
			l = NewNop()
		}
		fallback = l
	})
	return fallback
}
