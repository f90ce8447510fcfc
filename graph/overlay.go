// File: overlay.go
// Role: Per-agent TopologyOverlay — the weighted adjacency one agent owns.
// Concurrency:
//   - mu guards edges/adjOut/adjIn together; all mutating operations on one
//     overlay are serialized through it.
// AI-HINT (file):
//   - Two agents never share a mutable Overlay. Clone() produces an
//     independent copy suitable for Kiln offspring.

package graph

import (
	"fmt"
	"sort"
	"sync"
	"time"
)

// Overlay is one agent's weighted adjacency over the substrate's shared
// node set. It is created with an agent and destroyed with it, except for
// lessons/pathways salvaged to the Knowledge Pool before destruction.
type Overlay struct {
	mu        sync.RWMutex
	agentID   string
	substrate *Substrate

	edges  map[edgeKey]*Edge
	adjOut map[string]map[string]struct{} // src -> set of tgt
	adjIn  map[string]map[string]struct{} // tgt -> set of src
}

// NewOverlay returns an empty overlay bound to substrate for agentID.
func NewOverlay(substrate *Substrate, agentID string) *Overlay {
	return &Overlay{
		agentID:   agentID,
		substrate: substrate,
		edges:     make(map[edgeKey]*Edge),
		adjOut:    make(map[string]map[string]struct{}),
		adjIn:     make(map[string]map[string]struct{}),
	}
}

// AgentID returns the owning agent's id.
func (o *Overlay) AgentID() string { return o.agentID }

// UpsertEdge creates or updates the (src, tgt) edge with the given weight.
// Enforces I2 (no anchor→anchor edge) and I4 (weight confined to [0,1]).
// An existing edge's UseCount/LastUsed are preserved; only Weight changes.
//
// Complexity: O(1) amortized.
func (o *Overlay) UpsertEdge(src, tgt string, weight float64) error {
	if weight < 0 || weight > 1 {
		return fmt.Errorf("graph: UpsertEdge(%s→%s, w=%.4f): %w", src, tgt, weight, ErrWeightOutOfRange)
	}
	if !o.substrate.HasNode(src) {
		return fmt.Errorf("graph: UpsertEdge src=%s: %w", src, ErrUnknownNode)
	}
	if !o.substrate.HasNode(tgt) {
		return fmt.Errorf("graph: UpsertEdge tgt=%s: %w", tgt, ErrUnknownNode)
	}
	if o.substrate.IsAnchor(src) && o.substrate.IsAnchor(tgt) {
		return fmt.Errorf("graph: UpsertEdge(%s→%s): %w", src, tgt, ErrCrossAnchorEdge)
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	key := edgeKey{src, tgt}
	if e, ok := o.edges[key]; ok {
		e.Weight = weight
		return nil
	}
	o.edges[key] = &Edge{Src: src, Tgt: tgt, Weight: weight}
	ensureAdj(o.adjOut, src, tgt)
	ensureAdj(o.adjIn, tgt, src)
	return nil
}

func ensureAdj(m map[string]map[string]struct{}, a, b string) {
	set, ok := m[a]
	if !ok {
		set = make(map[string]struct{})
		m[a] = set
	}
	set[b] = struct{}{}
}

// RemoveEdge deletes the (src, tgt) edge if present. Removing an edge is a
// no-op if it does not exist (idempotent, matching CreateConcept's idiom).
func (o *Overlay) RemoveEdge(src, tgt string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.removeEdgeLocked(src, tgt)
}

func (o *Overlay) removeEdgeLocked(src, tgt string) {
	key := edgeKey{src, tgt}
	if _, ok := o.edges[key]; !ok {
		return
	}
	delete(o.edges, key)
	if set, ok := o.adjOut[src]; ok {
		delete(set, tgt)
	}
	if set, ok := o.adjIn[tgt]; ok {
		delete(set, src)
	}
}

// Edge returns a copy of the (src, tgt) edge, or ErrUnknownNode if absent.
func (o *Overlay) Edge(src, tgt string) (Edge, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	e, ok := o.edges[edgeKey{src, tgt}]
	if !ok {
		return Edge{}, ErrUnknownNode
	}
	return *e, nil
}

// TouchEdge records use (Hebbian reinforcement bookkeeping): bumps
// UseCount and sets LastUsed to now, after clamping the new weight to
// [0, 1]. Returns ErrUnknownNode if the edge does not exist.
func (o *Overlay) TouchEdge(src, tgt string, newWeight float64) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	e, ok := o.edges[edgeKey{src, tgt}]
	if !ok {
		return ErrUnknownNode
	}
	if newWeight < 0 {
		newWeight = 0
	}
	if newWeight > 1 {
		newWeight = 1
	}
	e.Weight = newWeight
	e.UseCount++
	e.LastUsed = time.Now()
	return nil
}

// ScaleEdge multiplies an edge's weight by factor without bumping UseCount
// or LastUsed (used by decay and anti-Hebbian dampening).
func (o *Overlay) ScaleEdge(src, tgt string, factor float64) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	e, ok := o.edges[edgeKey{src, tgt}]
	if !ok {
		return ErrUnknownNode
	}
	e.Weight *= factor
	if e.Weight < 0 {
		e.Weight = 0
	}
	return nil
}

// RestoreEdge reinstates an edge with its full bookkeeping (weight,
// UseCount, LastUsed), used when rehydrating an overlay from the external
// store. The same I2/I4 checks as UpsertEdge apply.
func (o *Overlay) RestoreEdge(e Edge) error {
	if err := o.UpsertEdge(e.Src, e.Tgt, e.Weight); err != nil {
		return err
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	stored := o.edges[edgeKey{e.Src, e.Tgt}]
	stored.UseCount = e.UseCount
	stored.LastUsed = e.LastUsed
	return nil
}

// Neighbors returns the set of node ids adjacent to node in the requested
// direction, sorted for determinism.
//
// Complexity: O(d log d), d = degree of node.
func (o *Overlay) Neighbors(node string, dir Direction) []string {
	o.mu.RLock()
	defer o.mu.RUnlock()

	seen := make(map[string]struct{})
	if dir == Outgoing || dir == Both {
		for n := range o.adjOut[node] {
			seen[n] = struct{}{}
		}
	}
	if dir == Incoming || dir == Both {
		for n := range o.adjIn[node] {
			seen[n] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for n := range seen {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// IterEdges returns every edge satisfying predicate (nil predicate = all),
// sorted by (Src, Tgt) for deterministic iteration order.
func (o *Overlay) IterEdges(predicate func(*Edge) bool) []*Edge {
	o.mu.RLock()
	defer o.mu.RUnlock()

	out := make([]*Edge, 0, len(o.edges))
	for _, e := range o.edges {
		if predicate == nil || predicate(e) {
			cp := *e
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Src != out[j].Src {
			return out[i].Src < out[j].Src
		}
		return out[i].Tgt < out[j].Tgt
	})
	return out
}

// RemoveEdgesBelow removes every edge with Weight < threshold that was not
// used within exemptWithin of now, returning the removed edges. Used by
// dynamics' decay maintenance.
func (o *Overlay) RemoveEdgesBelow(threshold float64, exemptWithin time.Duration, now time.Time) []Edge {
	o.mu.Lock()
	defer o.mu.Unlock()

	var removed []Edge
	for key, e := range o.edges {
		if e.Weight >= threshold {
			continue
		}
		if exemptWithin > 0 && !e.LastUsed.IsZero() && now.Sub(e.LastUsed) < exemptWithin {
			continue
		}
		removed = append(removed, *e)
		delete(o.edges, key)
		if set, ok := o.adjOut[key.src]; ok {
			delete(set, key.tgt)
		}
		if set, ok := o.adjIn[key.tgt]; ok {
			delete(set, key.src)
		}
	}
	// Sorted so downstream decisions over the removed set (decay's
	// reachability-preserving reinstatement) are order-independent of map
	// iteration and therefore reproducible run to run.
	sort.Slice(removed, func(i, j int) bool {
		if removed[i].Src != removed[j].Src {
			return removed[i].Src < removed[j].Src
		}
		return removed[i].Tgt < removed[j].Tgt
	})
	return removed
}

// OverlaySnapshot is an immutable point-in-time view of one overlay's edges.
type OverlaySnapshot struct {
	AgentID string
	Edges   []Edge
}

// Snapshot returns a consistent, immutable copy of the overlay's edges.
func (o *Overlay) Snapshot() OverlaySnapshot {
	return OverlaySnapshot{AgentID: o.agentID, Edges: edgesOf(o.IterEdges(nil))}
}

func edgesOf(ptrs []*Edge) []Edge {
	out := make([]Edge, len(ptrs))
	for i, e := range ptrs {
		out[i] = *e
	}
	return out
}

// Clone returns an independent deep copy of the overlay, suitable as the
// starting overlay for a Kiln offspring (crossover/mutation mutate the
// clone, never the parent).
//
// Complexity: O(E).
func (o *Overlay) Clone(newAgentID string) *Overlay {
	o.mu.RLock()
	defer o.mu.RUnlock()

	out := NewOverlay(o.substrate, newAgentID)
	for key, e := range o.edges {
		ne := *e
		out.edges[key] = &ne
		ensureAdj(out.adjOut, key.src, key.tgt)
		ensureAdj(out.adjIn, key.tgt, key.src)
	}
	return out
}

// EdgeCount returns the number of edges currently in the overlay.
func (o *Overlay) EdgeCount() int {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return len(o.edges)
}
