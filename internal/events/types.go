package events

import (
	"time"

	"github.com/google/uuid"
)

// StreamName is the Redis stream that carries registry and link events.
const StreamName = "linkmanager-events"

// EventType names what changed in the registry or on a page.
type EventType string

const (
	WebsiteCreated EventType = "WEBSITE_CREATED"
	WebsiteUpdated EventType = "WEBSITE_UPDATED"
	WebsiteDeleted EventType = "WEBSITE_DELETED"
	LinkAdded      EventType = "LINK_ADDED"
	LinkFailed     EventType = "LINK_FAILED"
)

// Event is the envelope written to the stream. Payload is one of the
// payload types below.
type Event struct {
	EventID    uuid.UUID `json:"event_id"`
	EventType  EventType `json:"event_type"`
	WebsiteURL string    `json:"website_url"`
	Timestamp  time.Time `json:"timestamp"`
	Payload    any       `json:"payload,omitempty"`
}

// WebsitePayload accompanies registry events.
type WebsitePayload struct {
	SiteName    string `json:"site_name,omitempty"`
	PageID      int    `json:"page_id,omitempty"`
	PreviousURL string `json:"previous_url,omitempty"`
}

// LinkPayload accompanies link events.
type LinkPayload struct {
	PageID     int    `json:"page_id"`
	AnchorText string `json:"anchor_text"`
	LinkURL    string `json:"link_url"`
	Message    string `json:"message,omitempty"`
}
