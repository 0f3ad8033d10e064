// ABOUTME: Tests for the event dispatcher
// ABOUTME: Verifies ordering, isolation, and listener queries
package lavaline

import "testing"

func TestPublishRunsHandlersInRegistrationOrder(t *testing.T) {
	emitter := NewEmitter(nil)

	var order []int
	for i := 1; i <= 3; i++ {
		i := i
		emitter.Subscribe(EventTrackStart, func(event interface{}) {
			order = append(order, i)
		})
	}

	emitter.Publish(EventTrackStart, TrackStartEvent{})

	if len(order) != 3 {
		t.Fatalf("expected 3 handler invocations, got %d", len(order))
	}
	for i, got := range order {
		if got != i+1 {
			t.Fatalf("handlers ran out of order: %v", order)
		}
	}
}

func TestPanickingHandlerDoesNotBlockOthers(t *testing.T) {
	emitter := NewEmitter(nil)

	var reached bool
	emitter.Subscribe(EventTrackEnd, func(event interface{}) {
		panic("listener bug")
	})
	emitter.Subscribe(EventTrackEnd, func(event interface{}) {
		reached = true
	})

	emitter.Publish(EventTrackEnd, TrackEndEvent{})

	if !reached {
		t.Error("expected the second handler to run despite the first panicking")
	}
}

func TestPublishWithoutListenersIsSafe(t *testing.T) {
	emitter := NewEmitter(nil)
	emitter.Publish(EventTrackStuck, TrackStuckEvent{})
}

func TestHasListeners(t *testing.T) {
	emitter := NewEmitter(nil)

	if emitter.HasListeners(EventError) {
		t.Error("expected no listeners on a fresh emitter")
	}
	emitter.Subscribe(EventError, func(event interface{}) {})
	if !emitter.HasListeners(EventError) {
		t.Error("expected a listener after subscribing")
	}
	if emitter.HasListeners(EventTrackStart) {
		t.Error("listener kinds must not bleed into each other")
	}
}

func TestPublishDeliversOnlyMatchingKind(t *testing.T) {
	emitter := NewEmitter(nil)

	var startCount, endCount int
	emitter.Subscribe(EventTrackStart, func(event interface{}) { startCount++ })
	emitter.Subscribe(EventTrackEnd, func(event interface{}) { endCount++ })

	emitter.Publish(EventTrackStart, TrackStartEvent{})

	if startCount != 1 || endCount != 0 {
		t.Errorf("expected only the TrackStart handler to run, got start=%d end=%d", startCount, endCount)
	}
}
