package services

import (
	"sync"

	"github.com/google/uuid"
)

const ActionStatusChange = "status_change"

// Event is the domain event emitted on every reservation transition.
type Event struct {
	Action     string    `json:"action"`
	EntityID   uuid.UUID `json:"id"`
	Status     string    `json:"status"`
	FacilityID uuid.UUID `json:"-"`
}

// EventBus is a process-local publish/subscribe dispatcher. Handlers run
// synchronously in subscription order; a handler must not block.
type EventBus struct {
	mu       sync.RWMutex
	handlers []func(Event)
}

func NewEventBus() *EventBus {
	return &EventBus{}
}

func (b *EventBus) Subscribe(fn func(Event)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = append(b.handlers, fn)
}

func (b *EventBus) Publish(evt Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, fn := range b.handlers {
		fn(evt)
	}
}
