package events

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/zatekoja/staybook/internal/domain/entities"
)

const subscriberBuffer = 100

// fanout delivers events to local subscriber channels. Slow subscribers drop events.
type fanout struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan *entities.MutationEvent]struct{}
}

func newFanout() *fanout {
	return &fanout{subscribers: make(map[string]map[chan *entities.MutationEvent]struct{})}
}

func (f *fanout) add(channel string) (chan *entities.MutationEvent, int) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.subscribers[channel] == nil {
		f.subscribers[channel] = make(map[chan *entities.MutationEvent]struct{})
	}
	events := make(chan *entities.MutationEvent, subscriberBuffer)
	f.subscribers[channel][events] = struct{}{}
	return events, len(f.subscribers[channel])
}

// remove closes events and returns how many subscribers remain on channel
func (f *fanout) remove(channel string, events chan *entities.MutationEvent) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	subscribers, ok := f.subscribers[channel]
	if !ok {
		return 0
	}
	if _, ok := subscribers[events]; !ok {
		return len(subscribers)
	}

	delete(subscribers, events)
	close(events)
	if len(subscribers) == 0 {
		delete(f.subscribers, channel)
	}
	return len(subscribers)
}

func (f *fanout) broadcast(channel string, event *entities.MutationEvent) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	for subscriber := range f.subscribers[channel] {
		select {
		case subscriber <- event:
		default:
			log.Warn().Str("channel", channel).Str("event_id", event.ID).Msg("Subscriber channel full, skipping event")
		}
	}
}

func (f *fanout) closeChannel(channel string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for subscriber := range f.subscribers[channel] {
		close(subscriber)
	}
	delete(f.subscribers, channel)
}

func (f *fanout) closeAll() {
	f.mu.Lock()
	defer f.mu.Unlock()

	for channel, subscribers := range f.subscribers {
		for subscriber := range subscribers {
			close(subscriber)
		}
		delete(f.subscribers, channel)
	}
}
