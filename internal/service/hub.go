package service

import "sync"

// Factory creates the store for a new identity.
type Factory func(identity string) *Store

type hubEntry struct {
	store *Store
	refs  int
}

// Hub hands out one Store per identity and shares it between concurrent
// sessions of the same player.
// Thread-safe for concurrent access.
type Hub struct {
	factory Factory

	mu     sync.Mutex
	stores map[string]*hubEntry
}

// NewHub creates an empty hub.
func NewHub(factory Factory) *Hub {
	return &Hub{
		factory: factory,
		stores:  make(map[string]*hubEntry),
	}
}

// Acquire returns the store for identity, creating it if needed.
// Every Acquire must be paired with a Release.
func (h *Hub) Acquire(identity string) *Store {
	h.mu.Lock()
	defer h.mu.Unlock()

	e, ok := h.stores[identity]
	if !ok {
		e = &hubEntry{store: h.factory(identity)}
		h.stores[identity] = e
	}
	e.refs++
	return e.store
}

// Release drops one reference. The last release stops auto-play and
// forgets the store.
func (h *Hub) Release(identity string) {
	h.mu.Lock()
	e, ok := h.stores[identity]
	if !ok {
		h.mu.Unlock()
		return
	}
	e.refs--
	last := e.refs <= 0
	if last {
		delete(h.stores, identity)
	}
	h.mu.Unlock()

	if last {
		e.store.Close()
	}
}

// Get retrieves a live store without taking a reference.
func (h *Hub) Get(identity string) (*Store, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	e, ok := h.stores[identity]
	if !ok {
		return nil, false
	}
	return e.store, true
}

// Count returns the number of live stores.
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.stores)
}
