// ABOUTME: Publish/subscribe hub decoupling the protocol handler from listeners
// ABOUTME: Handlers run in registration order; one failing handler never blocks the rest
package lavaline

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// Handler receives one published event. The concrete type matches the
// EventType it was registered for (see events.go).
type Handler func(event interface{})

// Emitter fans events out to registered handlers. Publish runs handlers
// synchronously in registration order; a panicking handler is logged and
// the remaining handlers still run.
type Emitter struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
	log      logrus.FieldLogger
}

// NewEmitter creates an empty emitter.
func NewEmitter(log logrus.FieldLogger) *Emitter {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Emitter{
		handlers: make(map[EventType][]Handler),
		log:      log.WithField("component", "emitter"),
	}
}

// Subscribe registers a handler for one event kind.
func (e *Emitter) Subscribe(kind EventType, handler Handler) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.handlers[kind] = append(e.handlers[kind], handler)
}

// HasListeners reports whether any handler is registered for the kind.
func (e *Emitter) HasListeners(kind EventType) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.handlers[kind]) > 0
}

// Publish delivers the event to every handler registered for the kind.
func (e *Emitter) Publish(kind EventType, event interface{}) {
	e.mu.RLock()
	handlers := make([]Handler, len(e.handlers[kind]))
	copy(handlers, e.handlers[kind])
	e.mu.RUnlock()

	for _, handler := range handlers {
		e.invoke(kind, handler, event)
	}
}

// invoke isolates a single handler call so a panic cannot take down the
// receive loop or skip later handlers.
func (e *Emitter) invoke(kind EventType, handler Handler, event interface{}) {
	defer func() {
		if r := recover(); r != nil {
			e.log.WithField("event", string(kind)).Errorf("listener panicked: %v", r)
		}
	}()
	handler(event)
}
