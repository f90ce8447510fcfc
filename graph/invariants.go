// File: invariants.go
// Role: Post-mutation invariant checks I1, I3 and I4 (I2 is enforced at
//       write time by Overlay.UpsertEdge; I5 lives in package dynamics,
//       since activation values are dynamics' ephemeral run state, not
//       substrate-owned data).
package graph

import (
	"fmt"
	"sort"
)

// CheckAnchorSet verifies I1: exactly AnchorCount anchors, exactly one
// Foundation tier. InitAnchors already enforces this at write time; this
// is the read-time re-check used by the `health` command surface.
func (s *Substrate) CheckAnchorSet() error {
	anchors := s.Anchors()
	if len(anchors) != AnchorCount {
		return &InvariantBroken{Kind: "I1", Detail: fmt.Sprintf("have %d anchors, want %d", len(anchors), AnchorCount)}
	}
	foundationCount := 0
	for _, a := range anchors {
		if a.Tier == Foundation {
			foundationCount++
		}
	}
	if foundationCount != 1 {
		return &InvariantBroken{Kind: "I1", Detail: fmt.Sprintf("have %d Foundation anchors, want 1", foundationCount)}
	}
	return nil
}

// CheckEdgeBounds verifies I4 over one overlay: every edge weight in [0,1].
func (s *Substrate) CheckEdgeBounds(o *Overlay) error {
	for _, e := range o.IterEdges(nil) {
		if e.Weight < 0 || e.Weight > 1 {
			return &InvariantBroken{Kind: "I4", AgentID: o.AgentID(),
				Detail: fmt.Sprintf("edge %s→%s weight %.4f out of [0,1]", e.Src, e.Tgt, e.Weight)}
		}
	}
	return nil
}

// CheckReachability verifies I3: every anchor is reachable from some
// concept along edges of positive weight, within o. Returns the sorted
// list of unreachable anchor ids (empty slice = invariant holds).
//
// Complexity: O(V · E log E) — one BFS seeded from every concept, which
// filters the overlay's full sorted edge list once per dequeued node.
func (s *Substrate) CheckReachability(o *Overlay) []string {
	reached := make(map[string]struct{}, AnchorCount)
	visited := make(map[string]struct{})

	var queue []string
	for _, c := range s.Concepts() {
		queue = append(queue, c.ID)
		visited[c.ID] = struct{}{}
	}

	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		for _, e := range o.IterEdges(func(e *Edge) bool { return e.Src == n && e.Weight > 0 }) {
			if s.IsAnchor(e.Tgt) {
				reached[e.Tgt] = struct{}{}
				continue // anchors are never traversed onward (I2)
			}
			if _, ok := visited[e.Tgt]; !ok {
				visited[e.Tgt] = struct{}{}
				queue = append(queue, e.Tgt)
			}
		}
	}

	var unreachable []string
	for _, a := range s.Anchors() {
		if _, ok := reached[a.ID]; !ok {
			unreachable = append(unreachable, a.ID)
		}
	}
	sort.Strings(unreachable)
	return unreachable
}

// CheckAll runs I1, I4, I3 against one overlay and returns the first
// failure encountered, in that order, or nil if all hold.
func (s *Substrate) CheckAll(o *Overlay) error {
	if err := s.CheckAnchorSet(); err != nil {
		return err
	}
	if err := s.CheckEdgeBounds(o); err != nil {
		return err
	}
	if unreachable := s.CheckReachability(o); len(unreachable) > 0 {
		return &InvariantBroken{Kind: "I3", AgentID: o.AgentID(),
			Detail: fmt.Sprintf("anchors unreachable: %v", unreachable)}
	}
	return nil
}
