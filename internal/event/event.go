// Package event handles triggering of operations without direct dependency
package event

import (
	"context"
	"sync"

	"hompulse/console/internal/log"
)

// EventType represents the type of event
type EventType int

const (
	PartnerChanged EventType = iota
	ProductChanged
	RoleChanged
	ConsumerChanged
	LoggedIn
	LoggedOut
)

// String returns the event name used in log records
func (t EventType) String() string {
	switch t {
	case PartnerChanged:
		return "partner_changed"
	case ProductChanged:
		return "product_changed"
	case RoleChanged:
		return "role_changed"
	case ConsumerChanged:
		return "consumer_changed"
	case LoggedIn:
		return "logged_in"
	case LoggedOut:
		return "logged_out"
	default:
		return "unknown"
	}
}

// Event represents an event with its type and associated data
type Event struct {
	Type EventType
	Data interface{}
}

// EventHandler is a function type for event handlers
type EventHandler func(Event)

// EventManager manages event subscriptions and publications.
// Handlers run synchronously on the publishing goroutine, in subscription order.
type EventManager struct {
	subscribers map[EventType][]EventHandler
	mu          sync.RWMutex
	logger      *log.Logger
}

// NewEventManager creates a new EventManager instance
func NewEventManager(logger *log.Logger) *EventManager {
	return &EventManager{
		subscribers: make(map[EventType][]EventHandler),
		logger:      logger,
	}
}

// Subscribe adds a new event handler for a specific event type
func (em *EventManager) Subscribe(eventType EventType, handler EventHandler) {
	em.mu.Lock()
	defer em.mu.Unlock()
	em.subscribers[eventType] = append(em.subscribers[eventType], handler)
}

// Publish sends an event to all subscribed handlers.
// A panicking handler is logged and does not stop the others.
func (em *EventManager) Publish(event Event) {
	if em == nil {
		return
	}
	em.mu.RLock()
	handlers := append([]EventHandler(nil), em.subscribers[event.Type]...)
	em.mu.RUnlock()

	em.logger.Debug(context.Background(), "Publishing event", log.Fields{
		"event":    event.Type.String(),
		"handlers": len(handlers),
	})
	for _, handler := range handlers {
		em.dispatch(handler, event)
	}
}

func (em *EventManager) dispatch(h EventHandler, event Event) {
	defer func() {
		if r := recover(); r != nil {
			em.logger.Error(context.Background(), "Panic in event handler", log.Fields{
				"event": event.Type.String(),
				"panic": r,
			})
		}
	}()
	h(event)
}
