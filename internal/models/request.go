// internal/models/request.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// TravelRequest is one raw user turn. Immutable once created.
type TravelRequest struct {
	TurnID     string    `json:"turnId"`
	SessionID  string    `json:"sessionId"`
	TurnIndex  int       `json:"turnIndex"`
	Text       string    `json:"text"`
	ReceivedAt time.Time `json:"receivedAt"`
}

// NewTravelRequest stamps a turn with its identity. TurnIndex is assigned by
// the session when the turn is appended.
func NewTravelRequest(sessionID, text string, now time.Time) TravelRequest {
	return TravelRequest{
		TurnID:     uuid.NewString(),
		SessionID:  sessionID,
		Text:       text,
		ReceivedAt: now,
	}
}

// Turn is one completed exchange recorded in a conversation session.
type Turn struct {
	Request  TravelRequest     `json:"request"`
	Intent   Intent            `json:"intent"`
	Entities ExtractedEntities `json:"entities"`
	Result   CanonicalResult   `json:"result"`
}
