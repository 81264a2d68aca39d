package events

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/zatekoja/holistic-provider-directory/internal/domain/entities"
	"github.com/zatekoja/holistic-provider-directory/internal/domain/providers"
)

// MemoryEventBus delivers events to subscribers in the same process. It is
// used when Redis is not configured.
type MemoryEventBus struct {
	subs   *fanout
	closed atomic.Bool
}

// NewMemoryEventBus creates an in-process event bus
func NewMemoryEventBus() *MemoryEventBus {
	return &MemoryEventBus{subs: newFanout()}
}

var _ providers.EventBus = (*MemoryEventBus)(nil)

// Publish delivers event to the current subscribers of channel
func (b *MemoryEventBus) Publish(_ context.Context, channel string, event *entities.ProviderEvent) error {
	if event == nil {
		return errors.New("event is nil")
	}
	if b.closed.Load() {
		return errors.New("event bus is closed")
	}
	b.subs.deliver(channel, event)
	return nil
}

// Subscribe returns a channel of events that is closed when ctx is done
func (b *MemoryEventBus) Subscribe(ctx context.Context, channel string) (<-chan *entities.ProviderEvent, error) {
	if b.closed.Load() {
		return nil, errors.New("event bus is closed")
	}
	eventChan, _ := b.subs.add(channel)
	go func() {
		<-ctx.Done()
		b.subs.remove(channel, eventChan)
	}()
	return eventChan, nil
}

// Close closes every subscription
func (b *MemoryEventBus) Close() error {
	b.closed.Store(true)
	for _, channel := range b.subs.channels() {
		b.subs.closeChannel(channel)
	}
	return nil
}
