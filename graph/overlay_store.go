// File: overlay_store.go
// Role: Registry mapping agent id -> Overlay, with exclusive-borrow
// semantics so the worker pool in package coherence can safely hand one
// overlay to exactly one goroutine at a time.
package graph

import (
	"sort"
	"sync"
)

// OverlayStore owns the collection of overlays, one per live agent.
type OverlayStore struct {
	substrate *Substrate

	mu       sync.Mutex
	overlays map[string]*Overlay
	borrowed map[string]bool
}

// NewOverlayStore returns an empty store bound to substrate.
func NewOverlayStore(substrate *Substrate) *OverlayStore {
	return &OverlayStore{
		substrate: substrate,
		overlays:  make(map[string]*Overlay),
		borrowed:  make(map[string]bool),
	}
}

// Create registers a fresh, empty overlay for agentID and returns it.
func (s *OverlayStore) Create(agentID string) *Overlay {
	s.mu.Lock()
	defer s.mu.Unlock()
	o := NewOverlay(s.substrate, agentID)
	s.overlays[agentID] = o
	return o
}

// Adopt registers an already-built overlay (e.g. a clone produced by
// Kiln crossover) under its own agent id.
func (s *OverlayStore) Adopt(o *Overlay) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overlays[o.AgentID()] = o
}

// Forget removes an agent's overlay entirely (dissolution). The overlay's
// edges are not salvaged here — callers extract lessons/pathways first.
func (s *OverlayStore) Forget(agentID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.overlays, agentID)
	delete(s.borrowed, agentID)
}

// BorrowOverlay grants the caller exclusive access to agentID's overlay.
// Returns ErrUnknownNode if no overlay is registered, and a plain error if
// the overlay is already borrowed — a double borrow is a caller scheduling
// bug, not a data condition.
func (s *OverlayStore) BorrowOverlay(agentID string) (*Overlay, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.borrowed[agentID] {
		return nil, errAlreadyBorrowed
	}
	o, ok := s.overlays[agentID]
	if !ok {
		return nil, ErrUnknownNode
	}
	s.borrowed[agentID] = true
	return o, nil
}

// Release relinquishes a borrow obtained via BorrowOverlay.
func (s *OverlayStore) Release(agentID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.borrowed, agentID)
}

// AgentIDs returns every registered agent id, sorted.
func (s *OverlayStore) AgentIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.overlays))
	for id := range s.overlays {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

var errAlreadyBorrowed = overlayBorrowedError{}

type overlayBorrowedError struct{}

func (overlayBorrowedError) Error() string { return "graph: overlay already borrowed" }
