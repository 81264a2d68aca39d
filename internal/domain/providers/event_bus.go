package providers

import (
	"context"

	"github.com/zatekoja/holistic-provider-directory/internal/domain/entities"
)

// EventBus defines the interface for publishing and subscribing to events
type EventBus interface {
	// Publish publishes an event to all subscribers
	Publish(ctx context.Context, channel string, event *entities.ProviderEvent) error

	// Subscribe subscribes to events on a channel until ctx is done
	Subscribe(ctx context.Context, channel string) (<-chan *entities.ProviderEvent, error)

	// Close closes the event bus and all subscriptions
	Close() error
}

// EventChannelProviderUpdates carries every provider change
const EventChannelProviderUpdates = "provider:updates"
