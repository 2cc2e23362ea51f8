// Package events publishes website and link lifecycle events to a Redis
// stream.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	infralogger "github.com/drijfveer/linkmanager/infrastructure/logger"
)

const asyncPublishTimeout = 5 * time.Second

// Publisher writes events with XADD. A nil *Publisher is a valid no-op.
type Publisher struct {
	client *redis.Client
	log    infralogger.Logger
}

// NewPublisher returns nil when client is nil.
func NewPublisher(client *redis.Client, log infralogger.Logger) *Publisher {
	if client == nil {
		return nil
	}
	if log == nil {
		log = infralogger.NewNop()
	}
	return &Publisher{client: client, log: log}
}

func (p *Publisher) Publish(ctx context.Context, event Event) error {
	if p == nil || p.client == nil {
		return nil
	}

	if event.EventID == uuid.Nil {
		event.EventID = uuid.New()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	result := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: StreamName,
		Values: map[string]any{
			"type":  string(event.EventType),
			"event": string(payload),
		},
	})
	if err := result.Err(); err != nil {
		p.log.Error("Failed to publish event",
			infralogger.String("event_type", string(event.EventType)),
			infralogger.String("website_url", event.WebsiteURL),
			infralogger.Error(err),
		)
		return fmt.Errorf("publish to stream: %w", err)
	}

	p.log.Debug("Published event",
		infralogger.String("event_type", string(event.EventType)),
		infralogger.String("website_url", event.WebsiteURL),
		infralogger.String("stream_id", result.Val()),
	)
	return nil
}

// PublishAsync publishes in the background. Errors are logged only.
func (p *Publisher) PublishAsync(event Event) {
	if p == nil {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), asyncPublishTimeout)
		defer cancel()
		_ = p.Publish(ctx, event)
	}()
}
