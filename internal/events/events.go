package events

import (
	"encoding/json"
	"sync"
	"time"

	"studio/internal/metrics"
	"studio/internal/models"
)

const EventStatusChanged = "status_changed"

// StatusPayload is published whenever a booking or admin flow changes state.
type StatusPayload struct {
	Flow    string           `json:"flow"`
	State   models.FlowState `json:"state"`
	OK      bool             `json:"ok"`
	Message string           `json:"message,omitempty"`
}

// Event represents a lightweight client event.
type Event struct {
	Type      string
	Payload   []byte
	CreatedAt time.Time
}

// Decode unmarshals the payload into out.
func (e *Event) Decode(out any) error {
	return json.Unmarshal(e.Payload, out)
}

// EventHandler reacts to an event.
type EventHandler func(event *Event) error

// EventBus provides in-process pub/sub for events.
type EventBus struct {
	subscribers map[string][]EventHandler
	mu          sync.RWMutex
}

// NewEventBus constructs an empty bus.
func NewEventBus() *EventBus {
	return &EventBus{subscribers: make(map[string][]EventHandler)}
}

// Subscribe registers a handler for a given event type.
func (b *EventBus) Subscribe(eventType string, handler EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers[eventType] = append(b.subscribers[eventType], handler)
}

// Publish notifies subscribers of the event type synchronously.
func (b *EventBus) Publish(event *Event) {
	b.mu.RLock()
	handlers := append([]EventHandler(nil), b.subscribers[event.Type]...)
	b.mu.RUnlock()

	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	for _, handler := range handlers {
		_ = handler(event)
	}
}

// PublishJSON serializes the payload and publishes an event. A nil bus is a no-op.
func (b *EventBus) PublishJSON(eventType string, payload interface{}) error {
	if b == nil {
		return nil
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	b.Publish(&Event{Type: eventType, Payload: raw, CreatedAt: time.Now()})
	return nil
}

// Publisher is the publishing half of the bus.
type Publisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

// PublishStatus counts the transition and announces it. pub may be nil.
func PublishStatus(pub Publisher, flow string, st models.Status) {
	metrics.IncFlowStatus(flow, string(st.State))
	if pub == nil {
		return
	}
	_ = pub.PublishJSON(EventStatusChanged, StatusPayload{
		Flow:    flow,
		State:   st.State,
		OK:      st.OK,
		Message: st.Message,
	})
}
