// ABOUTME: Per-guild session state and the registry that owns it
// ABOUTME: Node holds queue/volume/repeat; Registry is the keyed store
package lavaline

import (
	"sync"

	"github.com/lavaline/lavaline-go/pkg/protocol"
)

// DefaultVolume is the volume a fresh node starts with.
const DefaultVolume = 100

// Node is the per-guild session record. The head of Queue is the currently
// playing track once a play frame has been issued for it. Nodes are pure
// data; all behavior lives in the Client.
type Node struct {
	GuildID   string
	Queue     []protocol.Track
	Volume    int
	Repeat    bool
	Connected bool
}

// Registry is the single source of truth for which guild sessions exist.
// Watch returns a channel that is closed on the next Set or Remove, letting
// callers wait for existence changes without polling. Read-modify-write
// sequences across Get and Set are the caller's responsibility to
// serialize.
type Registry interface {
	Get(guildID string) (*Node, bool)
	Set(guildID string, node *Node)
	Remove(guildID string)
	Watch() <-chan struct{}
}

// memoryRegistry is the in-process Registry.
type memoryRegistry struct {
	mu      sync.RWMutex
	nodes   map[string]*Node
	changed chan struct{}
}

// NewMemoryRegistry returns an empty in-memory registry.
func NewMemoryRegistry() Registry {
	return &memoryRegistry{
		nodes:   make(map[string]*Node),
		changed: make(chan struct{}),
	}
}

func (r *memoryRegistry) Get(guildID string) (*Node, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	node, ok := r.nodes[guildID]
	return node, ok
}

func (r *memoryRegistry) Set(guildID string, node *Node) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nodes[guildID] = node
	r.notify()
}

func (r *memoryRegistry) Remove(guildID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.nodes, guildID)
	r.notify()
}

func (r *memoryRegistry) Watch() <-chan struct{} {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.changed
}

// notify wakes every watcher by closing the current generation channel.
// Callers must hold the write lock.
func (r *memoryRegistry) notify() {
	close(r.changed)
	r.changed = make(chan struct{})
}
