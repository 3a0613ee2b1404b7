package events

import (
	"github.com/princekumarofficial/tubely-service/internal/types"
	"github.com/princekumarofficial/tubely-service/internal/types/video"
)

// Publisher notifies owners about changes to their videos. Publishing is
// best effort and never fails the request that triggered it.
type Publisher interface {
	PublishVideoUpdated(v video.Video, asset string)
}

// WebSocketHub interface for the WebSocket hub
type WebSocketHub interface {
	BroadcastToUser(userID string, event *types.Event)
	IsUserConnected(userID string) bool
}

// EventPublisher implements the Publisher interface
type EventPublisher struct {
	hub WebSocketHub
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(hub WebSocketHub) *EventPublisher {
	return &EventPublisher{
		hub: hub,
	}
}

// PublishVideoUpdated sends a video.updated event to the owner if connected.
func (p *EventPublisher) PublishVideoUpdated(v video.Video, asset string) {
	if !p.hub.IsUserConnected(v.UserID) {
		return
	}

	event := types.NewEvent(types.EventVideoUpdated, &types.VideoUpdatedEvent{
		VideoID:      v.ID,
		Asset:        asset,
		ThumbnailURL: v.ThumbnailURL,
		VideoURL:     v.VideoURL,
	})
	p.hub.BroadcastToUser(v.UserID, event)
}

// Nop discards events; used when no hub is running.
type Nop struct{}

func (Nop) PublishVideoUpdated(video.Video, string) {}
