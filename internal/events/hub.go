// Package events delivers named events from the daemon to front-end
// subscribers, one stream per window label.
package events

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
)

// DefaultBuffer is the per-subscriber queue length.
const DefaultBuffer = 256

// Event is a single frame delivered to a subscriber.
type Event struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Hub fans events out to per-label subscribers. Emit never blocks: when a
// subscriber's queue is full the event is dropped for that subscriber.
type Hub struct {
	mu      sync.RWMutex
	subs    map[string]map[*Subscription]struct{}
	buffer  int
	dropped atomic.Uint64
	logger  *slog.Logger
}

// NewHub creates a hub whose subscribers queue up to buffer events.
func NewHub(buffer int, logger *slog.Logger) *Hub {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		subs:   make(map[string]map[*Subscription]struct{}),
		buffer: buffer,
		logger: logger,
	}
}

// Subscription receives events emitted to one label.
type Subscription struct {
	Label string
	C     <-chan Event

	ch   chan Event
	hub  *Hub
	once sync.Once
}

// Subscribe registers a new subscriber for label.
func (h *Hub) Subscribe(label string) *Subscription {
	ch := make(chan Event, h.buffer)
	s := &Subscription{Label: label, C: ch, ch: ch, hub: h}

	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.subs[label]
	if !ok {
		set = make(map[*Subscription]struct{})
		h.subs[label] = set
	}
	set[s] = struct{}{}
	h.logger.Debug("subscriber added", "label", label, "subscribers", len(set))
	return s
}

// Close unregisters the subscription and closes its channel. It is safe to
// call more than once.
func (s *Subscription) Close() {
	s.once.Do(func() {
		h := s.hub
		h.mu.Lock()
		defer h.mu.Unlock()
		if set, ok := h.subs[s.Label]; ok {
			delete(set, s)
			if len(set) == 0 {
				delete(h.subs, s.Label)
			}
		}
		close(s.ch)
	})
}

// Emit delivers event with payload to every subscriber of label. Having no
// subscribers is not an error; only an unencodable payload is.
func (h *Hub) Emit(label, event string, payload any) error {
	ev := Event{Event: event}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode %s payload: %w", event, err)
		}
		ev.Payload = data
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for s := range h.subs[label] {
		select {
		case s.ch <- ev:
		default:
			h.dropped.Add(1)
			h.logger.Debug("event dropped", "label", label, "event", event)
		}
	}
	return nil
}

// Subscribers returns the number of live subscribers for label.
func (h *Hub) Subscribers(label string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[label])
}

// Dropped returns how many deliveries were discarded because a queue was full.
func (h *Hub) Dropped() uint64 {
	return h.dropped.Load()
}
