package types

import "time"

// EventType represents the type of real-time event
type EventType string

const (
	EventVideoUpdated EventType = "video.updated"
)

// Event represents a real-time event that can be sent over WebSocket
type Event struct {
	Type      EventType   `json:"type"`
	Data      interface{} `json:"data"`
	Timestamp string      `json:"timestamp"`
}

// VideoUpdatedEvent tells the owner which asset of a video changed.
type VideoUpdatedEvent struct {
	VideoID      string  `json:"video_id"`
	Asset        string  `json:"asset"`
	ThumbnailURL *string `json:"thumbnail_url"`
	VideoURL     *string `json:"video_url"`
}

// NewEvent creates a new event with the current timestamp
func NewEvent(eventType EventType, data interface{}) *Event {
	return &Event{
		Type:      eventType,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}
