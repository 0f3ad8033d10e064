// ABOUTME: Tests for the in-memory session registry
// ABOUTME: Verifies keyed access and mutation signaling
package lavaline

import (
	"testing"
	"time"
)

func TestRegistryGetSetRemove(t *testing.T) {
	registry := NewMemoryRegistry()

	if _, ok := registry.Get("g1"); ok {
		t.Fatal("expected empty registry")
	}

	registry.Set("g1", &Node{GuildID: "g1", Volume: DefaultVolume})

	node, ok := registry.Get("g1")
	if !ok {
		t.Fatal("expected node after Set")
	}
	if node.GuildID != "g1" || node.Volume != DefaultVolume {
		t.Errorf("unexpected node: %+v", node)
	}

	registry.Remove("g1")
	if _, ok := registry.Get("g1"); ok {
		t.Error("expected node gone after Remove")
	}
}

func TestRegistryOverwrite(t *testing.T) {
	registry := NewMemoryRegistry()
	registry.Set("g1", &Node{GuildID: "g1", Volume: 100})
	registry.Set("g1", &Node{GuildID: "g1", Volume: 500})

	node, _ := registry.Get("g1")
	if node.Volume != 500 {
		t.Errorf("expected overwrite to win, got volume %d", node.Volume)
	}
}

func TestWatchSignalsOnSet(t *testing.T) {
	registry := NewMemoryRegistry()
	watch := registry.Watch()

	registry.Set("g1", &Node{GuildID: "g1"})

	select {
	case <-watch:
	case <-time.After(time.Second):
		t.Fatal("expected Watch channel closed after Set")
	}
}

func TestWatchSignalsOnRemove(t *testing.T) {
	registry := NewMemoryRegistry()
	registry.Set("g1", &Node{GuildID: "g1"})

	watch := registry.Watch()
	registry.Remove("g1")

	select {
	case <-watch:
	case <-time.After(time.Second):
		t.Fatal("expected Watch channel closed after Remove")
	}
}

func TestWatchReturnsFreshGenerations(t *testing.T) {
	registry := NewMemoryRegistry()

	first := registry.Watch()
	registry.Set("g1", &Node{GuildID: "g1"})
	second := registry.Watch()

	select {
	case <-first:
	default:
		t.Fatal("first generation should be closed")
	}
	select {
	case <-second:
		t.Fatal("second generation should still be open")
	default:
	}
}
