package entities

import "time"

// CacheEventType describes what happened to the shared parse cache.
type CacheEventType string

const (
	CacheEventCleared     CacheEventType = "cleared"
	CacheEventInvalidated CacheEventType = "invalidated"
)

// CacheEvent is broadcast between instances so each can keep its in-memory
// cache tier consistent with the shared one.
type CacheEvent struct {
	ID         string         `json:"id"`
	Type       CacheEventType `json:"type"`
	Key        string         `json:"key,omitempty"`
	InstanceID string         `json:"instance_id"`
	Timestamp  time.Time      `json:"timestamp"`
}
