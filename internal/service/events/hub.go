package events

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Type names the kind of change a user record went through.
type Type string

const (
	Created Type = "created"
	Updated Type = "updated"
	Deleted Type = "deleted"
)

// ChangeEvent tells listening grids that the user list changed and should be reloaded.
type ChangeEvent struct {
	ID     string    `json:"id"`
	Type   Type      `json:"type"`
	UserID int       `json:"userId"`
	At     time.Time `json:"at"`
}

// NewChangeEvent stamps an event with a fresh id and the current time.
func NewChangeEvent(kind Type, userID int) ChangeEvent {
	return ChangeEvent{
		ID:     uuid.NewString(),
		Type:   kind,
		UserID: userID,
		At:     time.Now().UTC(),
	}
}

const subscriberBuffer = 16

// Hub fans change events out to every subscriber.
type Hub struct {
	mu     sync.RWMutex
	subs   map[chan ChangeEvent]struct{}
	closed bool
	logger *zap.Logger
}

// NewHub creates an empty hub.
func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		subs:   make(map[chan ChangeEvent]struct{}),
		logger: logger,
	}
}

// Subscribe registers a listener. The returned func unregisters it and closes the channel.
func (h *Hub) Subscribe() (<-chan ChangeEvent, func()) {
	ch := make(chan ChangeEvent, subscriberBuffer)

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			if _, ok := h.subs[ch]; ok {
				delete(h.subs, ch)
				close(ch)
			}
		})
	}
}

// Publish delivers evt to every subscriber. Subscribers with a full buffer miss the event.
func (h *Hub) Publish(evt ChangeEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.subs {
		select {
		case ch <- evt:
		default:
			h.logger.Warn("dropping change event for slow subscriber",
				zap.String("event_id", evt.ID),
				zap.String("type", string(evt.Type)),
			)
		}
	}
}

// Subscribers returns the number of active listeners.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Close disconnects every subscriber. Later subscriptions receive an already closed channel.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for ch := range h.subs {
		delete(h.subs, ch)
		close(ch)
	}
}
