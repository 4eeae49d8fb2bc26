// Package bus provides the application event bus: a thin wrapper over
// asaskevich/EventBus that publishes synchronously in registration order and
// isolates handler panics so one bad subscriber cannot break the emitter.
package bus

import (
	"sync"

	evbus "github.com/asaskevich/EventBus"
	"go.uber.org/zap"
)

// Change event topics emitted by the data store.
const (
	TopicProductsChanged   = "products.changed"
	TopicServicesChanged   = "services.changed"
	TopicComponentsChanged = "components.changed"
	TopicSalesChanged      = "sales.changed"
)

// Handler receives the event payload, which may be nil.
type Handler func(payload interface{})

// Subscription identifies one registration. Two subscriptions are distinct
// even when they carry the same handler function, so method values from
// different receivers subscribe and detach independently.
type Subscription struct {
	bus     *Bus
	topic   string
	handler Handler
}

// Off removes the subscription. Removing twice is a no-op.
func (s *Subscription) Off() {
	b := s.bus
	b.mu.Lock()
	defer b.mu.Unlock()
	list := b.topics[s.topic]
	for i, sub := range list {
		if sub == s {
			b.topics[s.topic] = append(list[:i:i], list[i+1:]...)
			return
		}
	}
}

func (s *Subscription) call(payload interface{}) {
	defer func() {
		if r := recover(); r != nil {
			zap.L().Error("event handler panic",
				zap.String("topic", s.topic), zap.Any("panic", r))
		}
	}()
	s.handler(payload)
}

// Bus is a minimal publish/subscribe registry keyed by event name.
type Bus struct {
	ev evbus.Bus

	mu sync.Mutex
	// topics holds the live subscriptions per event name; one dispatcher per
	// topic is registered on the underlying bus.
	topics map[string][]*Subscription
}

func New() *Bus {
	return &Bus{
		ev:     evbus.New(),
		topics: make(map[string][]*Subscription),
	}
}

// On registers handler for topic and returns its subscription. The same
// handler may be registered more than once; each registration fires and
// detaches on its own.
func (b *Bus) On(topic string, handler Handler) *Subscription {
	sub := &Subscription{bus: b, topic: topic, handler: handler}

	b.mu.Lock()
	defer b.mu.Unlock()
	if _, seen := b.topics[topic]; !seen {
		_ = b.ev.Subscribe(topic, func(payload interface{}) {
			b.dispatch(topic, payload)
		})
	}
	b.topics[topic] = append(b.topics[topic], sub)
	return sub
}

// Emit invokes every handler registered for topic synchronously, in
// registration order. A panicking handler is logged and skipped; the
// remaining handlers still run.
func (b *Bus) Emit(topic string, payload interface{}) {
	b.ev.Publish(topic, payload)
}

func (b *Bus) dispatch(topic string, payload interface{}) {
	b.mu.Lock()
	subs := append([]*Subscription(nil), b.topics[topic]...)
	b.mu.Unlock()

	for _, sub := range subs {
		sub.call(payload)
	}
}
