// File: substrate.go
// Role: Node identity and anchor data, shared read-mostly across all agents.
// Concurrency:
//   - muAnchors guards the anchor table (written once, by InitAnchors).
//   - muConcepts guards the concept table (written often, by CreateConcept).
// AI-HINT (file):
//   - InitAnchors is one-shot; call it before any Overlay work.
//   - GetNode is the single read path for both node families.

package graph

import (
	"fmt"
	"sort"
	"sync"
)

// AnchorCount is the fixed cardinality required by invariant I1.
const AnchorCount = 19

// Substrate is the shared node/edge store: it owns node identity and anchor
// data exclusively. Agents never mutate it directly except through the
// per-overlay edge operations in overlay.go.
type Substrate struct {
	muAnchors   sync.RWMutex
	anchors     map[string]*VirtueAnchor
	initialized bool

	muConcepts sync.RWMutex
	concepts   map[string]*Concept
	nextID     uint64
}

// NewSubstrate returns an empty, uninitialized Substrate.
func NewSubstrate() *Substrate {
	return &Substrate{
		anchors:  make(map[string]*VirtueAnchor),
		concepts: make(map[string]*Concept),
	}
}

// InitAnchors stores the 19 virtue anchors once. It enforces I1 (exactly 19
// anchors, exactly one Foundation tier, identical set across all agents —
// there being only one substrate makes the "identical across agents" half
// automatic). Calling it twice returns ErrDuplicateAnchor.
//
// Complexity: O(n) where n = len(defs).
func (s *Substrate) InitAnchors(defs []VirtueAnchorDef) error {
	s.muAnchors.Lock()
	defer s.muAnchors.Unlock()

	if s.initialized {
		return ErrDuplicateAnchor
	}
	if len(defs) != AnchorCount {
		return fmt.Errorf("%w: got %d anchors, want %d", ErrInvalidAnchorSet, len(defs), AnchorCount)
	}

	foundationCount := 0
	seen := make(map[string]struct{}, len(defs))
	staged := make(map[string]*VirtueAnchor, len(defs))
	for _, d := range defs {
		if d.ID == "" {
			return fmt.Errorf("%w: anchor with empty id", ErrInvalidAnchorSet)
		}
		if _, dup := seen[d.ID]; dup {
			return fmt.Errorf("%w: duplicate anchor id %q", ErrInvalidAnchorSet, d.ID)
		}
		seen[d.ID] = struct{}{}
		if d.Tier == Foundation {
			foundationCount++
		}
		staged[d.ID] = &VirtueAnchor{
			ID:                 d.ID,
			Name:               d.Name,
			Tier:               d.Tier,
			Cluster:            d.Cluster,
			BaseThreshold:      d.BaseThreshold,
			BaselineActivation: DefaultAnchorBaseline,
		}
	}
	if foundationCount != 1 {
		return fmt.Errorf("%w: found %d Foundation anchors, want exactly 1", ErrInvalidAnchorSet, foundationCount)
	}

	s.anchors = staged
	s.initialized = true
	return nil
}

// Initialized reports whether InitAnchors has completed successfully.
func (s *Substrate) Initialized() bool {
	s.muAnchors.RLock()
	defer s.muAnchors.RUnlock()
	return s.initialized
}

// Anchor returns the stored VirtueAnchor by id, or ErrUnknownNode.
func (s *Substrate) Anchor(id string) (*VirtueAnchor, error) {
	s.muAnchors.RLock()
	defer s.muAnchors.RUnlock()
	a, ok := s.anchors[id]
	if !ok {
		return nil, ErrUnknownNode
	}
	cp := *a
	return &cp, nil
}

// Anchors returns all anchors, sorted by ID ascending, for deterministic
// iteration order downstream (coherence sampling, gestalt embeddings).
func (s *Substrate) Anchors() []*VirtueAnchor {
	s.muAnchors.RLock()
	defer s.muAnchors.RUnlock()

	out := make([]*VirtueAnchor, 0, len(s.anchors))
	for _, a := range s.anchors {
		cp := *a
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// IsAnchor reports whether id names an anchor node.
func (s *Substrate) IsAnchor(id string) bool {
	s.muAnchors.RLock()
	defer s.muAnchors.RUnlock()
	_, ok := s.anchors[id]
	return ok
}

// CreateConcept inserts a new concept node. Idempotent: calling it again
// with the same id updates nothing and returns the existing concept.
// Returns ErrDuplicateAnchor if id collides with an anchor id.
//
// Complexity: O(1) amortized.
func (s *Substrate) CreateConcept(id, name string) (*Concept, error) {
	if id == "" {
		return nil, fmt.Errorf("graph: %w: empty concept id", ErrUnknownNode)
	}
	if s.IsAnchor(id) {
		return nil, fmt.Errorf("graph: CreateConcept(%s): %w", id, ErrDuplicateAnchor)
	}

	s.muConcepts.Lock()
	defer s.muConcepts.Unlock()
	if existing, ok := s.concepts[id]; ok {
		cp := *existing
		return &cp, nil
	}
	c := &Concept{ID: id, Name: name, BaselineActivation: DefaultConceptBaseline}
	s.concepts[id] = c
	cp := *c
	return &cp, nil
}

// PruneConcept removes a concept that has no edges referencing it in any
// overlay. Callers (kiln generation maintenance) are responsible for
// checking isolation first; PruneConcept itself does not scan overlays.
func (s *Substrate) PruneConcept(id string) error {
	s.muConcepts.Lock()
	defer s.muConcepts.Unlock()
	if _, ok := s.concepts[id]; !ok {
		return ErrUnknownNode
	}
	delete(s.concepts, id)
	return nil
}

// Concept returns the stored Concept by id, or ErrUnknownNode.
func (s *Substrate) Concept(id string) (*Concept, error) {
	s.muConcepts.RLock()
	defer s.muConcepts.RUnlock()
	c, ok := s.concepts[id]
	if !ok {
		return nil, ErrUnknownNode
	}
	cp := *c
	return &cp, nil
}

// Concepts returns all concepts, sorted by ID ascending.
func (s *Substrate) Concepts() []*Concept {
	s.muConcepts.RLock()
	defer s.muConcepts.RUnlock()

	out := make([]*Concept, 0, len(s.concepts))
	for _, c := range s.concepts {
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// HasNode reports whether id names either an anchor or a concept.
func (s *Substrate) HasNode(id string) bool {
	if s.IsAnchor(id) {
		return true
	}
	_, err := s.Concept(id)
	return err == nil
}

// GetNode returns a kind-tagged NodeRef for id, the single read path for
// both node families, or ErrUnknownNode.
//
// Complexity: O(1).
func (s *Substrate) GetNode(id string) (NodeRef, error) {
	s.muAnchors.RLock()
	if a, ok := s.anchors[id]; ok {
		ref := NodeRef{
			ID:                 a.ID,
			Kind:               KindAnchor,
			Name:               a.Name,
			BaselineActivation: a.BaselineActivation,
			Tier:               a.Tier,
			Cluster:            a.Cluster,
			BaseThreshold:      a.BaseThreshold,
		}
		s.muAnchors.RUnlock()
		return ref, nil
	}
	s.muAnchors.RUnlock()

	s.muConcepts.RLock()
	defer s.muConcepts.RUnlock()
	if c, ok := s.concepts[id]; ok {
		return NodeRef{
			ID:                 c.ID,
			Kind:               KindConcept,
			Name:               c.Name,
			BaselineActivation: c.BaselineActivation,
		}, nil
	}
	return NodeRef{}, ErrUnknownNode
}
