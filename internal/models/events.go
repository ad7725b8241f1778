package models

import "time"

// Event types
const (
	EventTypeOrderPlaced = "ORDER_PLACED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// OrderPlacedEvent published after a checkout succeeds. OrderID is only unique
// within SessionID.
type OrderPlacedEvent struct {
	BaseEvent
	SessionID string `json:"session_id"`
	Order     Order  `json:"order"`
}
