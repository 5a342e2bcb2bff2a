// Package events publishes payload handler lifecycle events to Redis Streams
// so the surrounding orchestration can react to configuration changes.
package events

import (
	"time"

	"github.com/google/uuid"
)

// StreamName is the Redis stream for payload events.
const StreamName = "payload-events"

// EventType represents the type of payload event.
type EventType string

const (
	// SourcesChanged indicates a handler's source list was replaced.
	SourcesChanged EventType = "SOURCES_CHANGED"
	// HandlerPublished indicates a handler became reachable.
	HandlerPublished EventType = "HANDLER_PUBLISHED"
)

// PayloadEvent is the envelope for all payload-related events.
type PayloadEvent struct {
	EventID   uuid.UUID `json:"event_id"`
	EventType EventType `json:"event_type"`
	Handler   string    `json:"handler"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload,omitempty"`
}

// SourcesChangedPayload contains data for SOURCES_CHANGED events.
type SourcesChangedPayload struct {
	Count int      `json:"count"`
	Types []string `json:"types"`
}

// HandlerPublishedPayload contains data for HANDLER_PUBLISHED events.
type HandlerPublishedPayload struct {
	Path           string   `json:"path"`
	SupportedTypes []string `json:"supported_types"`
}
