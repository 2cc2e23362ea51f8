package events_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	infralogger "github.com/drijfveer/linkmanager/infrastructure/logger"
	"github.com/drijfveer/linkmanager/internal/events"
)

func newRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestNewPublisher_NilClient(t *testing.T) {
	t.Parallel()

	assert.Nil(t, events.NewPublisher(nil, nil))
}

func TestPublisher_NilReceiverIsNoOp(t *testing.T) {
	t.Parallel()

	var pub *events.Publisher
	require.NoError(t, pub.Publish(context.Background(), events.Event{EventType: events.LinkAdded}))
	pub.PublishAsync(events.Event{EventType: events.LinkAdded})
}

func TestPublisher_Publish(t *testing.T) {
	t.Parallel()

	client := newRedis(t)
	pub := events.NewPublisher(client, infralogger.NewNop())

	err := pub.Publish(context.Background(), events.Event{
		EventType:  events.LinkAdded,
		WebsiteURL: "https://example.com",
		Payload:    events.LinkPayload{PageID: 49, AnchorText: "Shoes", LinkURL: "https://shoes.example/"},
	})
	require.NoError(t, err)

	msgs, err := client.XRange(context.Background(), events.StreamName, "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "LINK_ADDED", msgs[0].Values["type"])

	var got struct {
		EventID    uuid.UUID          `json:"event_id"`
		EventType  events.EventType   `json:"event_type"`
		WebsiteURL string             `json:"website_url"`
		Timestamp  time.Time          `json:"timestamp"`
		Payload    events.LinkPayload `json:"payload"`
	}
	raw, ok := msgs[0].Values["event"].(string)
	require.True(t, ok)
	require.NoError(t, json.Unmarshal([]byte(raw), &got))
	assert.NotEqual(t, uuid.Nil, got.EventID)
	assert.False(t, got.Timestamp.IsZero())
	assert.Equal(t, "https://example.com", got.WebsiteURL)
	assert.Equal(t, 49, got.Payload.PageID)
}

func TestPublisher_PublishAsync(t *testing.T) {
	t.Parallel()

	client := newRedis(t)
	pub := events.NewPublisher(client, nil)

	pub.PublishAsync(events.Event{EventType: events.WebsiteDeleted, WebsiteURL: "https://a.example"})

	assert.Eventually(t, func() bool {
		n, err := client.XLen(context.Background(), events.StreamName).Result()
		return err == nil && n == 1
	}, 2*time.Second, 10*time.Millisecond)
}
