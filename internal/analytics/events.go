package analytics

import (
	"time"

	"github.com/google/uuid"
)

// Event types published to the insights topic.
const (
	EventChatTurn       = "chat_turn"
	EventImageSearch    = "image_search"
	EventRecommendation = "recommendation_served"
	EventWebEnrichment  = "web_enrichment"
	EventSessionStarted = "session_started"
)

// Event is the envelope for every analytics record. Data carries the
// per-type payload.
type Event struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	SessionID string         `json:"session_id"`
	Timestamp time.Time      `json:"timestamp"`
	Data      map[string]any `json:"data,omitempty"`
}

// NewEvent builds an event with a fresh id and timestamp.
func NewEvent(eventType, sessionID string, data map[string]any) Event {
	return Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		SessionID: sessionID,
		Timestamp: time.Now(),
		Data:      data,
	}
}
