package events

import (
	"sync"

	"github.com/zatekoja/holistic-provider-directory/internal/domain/entities"
	"github.com/zatekoja/holistic-provider-directory/internal/infrastructure/observability"
)

const subscriberBuffer = 100

// fanout tracks local subscriber channels per bus channel and delivers
// events to them without blocking the publisher.
type fanout struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan *entities.ProviderEvent]struct{}
}

func newFanout() *fanout {
	return &fanout{subscribers: make(map[string]map[chan *entities.ProviderEvent]struct{})}
}

// add registers a new subscriber and returns it with the channel's
// subscriber count after registration.
func (f *fanout) add(channel string) (chan *entities.ProviderEvent, int) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.subscribers[channel] == nil {
		f.subscribers[channel] = make(map[chan *entities.ProviderEvent]struct{})
	}
	eventChan := make(chan *entities.ProviderEvent, subscriberBuffer)
	f.subscribers[channel][eventChan] = struct{}{}
	return eventChan, len(f.subscribers[channel])
}

// remove closes one subscriber and reports how many are left on the channel
func (f *fanout) remove(channel string, eventChan chan *entities.ProviderEvent) (int, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	subscribers, exists := f.subscribers[channel]
	if !exists {
		return 0, false
	}
	if _, ok := subscribers[eventChan]; !ok {
		return len(subscribers), false
	}

	delete(subscribers, eventChan)
	close(eventChan)
	if len(subscribers) == 0 {
		delete(f.subscribers, channel)
	}
	return len(subscribers), true
}

// closeChannel closes every subscriber of channel
func (f *fanout) closeChannel(channel string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for subscriber := range f.subscribers[channel] {
		close(subscriber)
	}
	delete(f.subscribers, channel)
}

func (f *fanout) channels() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()

	out := make([]string, 0, len(f.subscribers))
	for channel := range f.subscribers {
		out = append(out, channel)
	}
	return out
}

// deliver hands event to every subscriber of channel. A full subscriber
// misses the event.
func (f *fanout) deliver(channel string, event *entities.ProviderEvent) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	for subscriber := range f.subscribers[channel] {
		select {
		case subscriber <- event:
		default:
			observability.GetLogger().Warn().
				Str("channel", channel).
				Str("event_id", event.ID).
				Msg("Subscriber channel full, skipping event")
		}
	}
}
