package entities

import (
	"time"

	"github.com/google/uuid"
)

// ProviderEventType represents the type of provider event
type ProviderEventType string

const (
	ProviderEventTypeCreated ProviderEventType = "created"
	ProviderEventTypeUpdated ProviderEventType = "updated"
	ProviderEventTypeDeleted ProviderEventType = "deleted"
)

// ProviderEvent is published whenever a provider record changes
type ProviderEvent struct {
	ID         string            `json:"id"`
	ProviderID int64             `json:"provider_id"`
	EventType  ProviderEventType `json:"event_type"`
	Timestamp  time.Time         `json:"timestamp"`
}

// NewProviderEvent creates a new provider event
func NewProviderEvent(providerID int64, eventType ProviderEventType) *ProviderEvent {
	return &ProviderEvent{
		ID:         uuid.New().String(),
		ProviderID: providerID,
		EventType:  eventType,
		Timestamp:  time.Now().UTC(),
	}
}
