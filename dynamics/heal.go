// File: heal.go
// Role: Dead-zone detection and self-healing edge addition
// "Self-healing").
//
// Simplification: dead zones are described as strongly connected
// components of concepts with no outgoing edge to any anchor reachable in
// <=DeadZoneHopLimit hops. This package checks per-concept hop-limited
// reachability instead of full SCC detection — cheaper, and a concept that
// individually cannot reach an anchor within the hop limit is healed the
// same way a whole stranded component would be.
package dynamics

import (
	"math/rand"
	"sort"

	"github.com/ohana-garden/soulkiln/config"
	"github.com/ohana-garden/soulkiln/graph"
)

// HealReport summarizes one self-healing pass.
type HealReport struct {
	DeadZones []string // concept ids that were healed
	Added     int
}

// ApplySelfHealing finds concepts that cannot reach any anchor within
// DeadZoneHopLimit hops and adds a new edge from each to a randomly chosen
// anchor, weighted at HealEdgeWeight. rng is caller-supplied for
// reproducibility, matching ApplyPerturbation.
func ApplySelfHealing(substrate *graph.Substrate, overlay *graph.Overlay, cfg config.Dynamics, rng *rand.Rand) HealReport {
	anchors := substrate.Anchors()
	if len(anchors) == 0 {
		return HealReport{}
	}

	var report HealReport
	for _, c := range substrate.Concepts() {
		if withinHopLimit(overlay, substrate, c.ID, cfg.DeadZoneHopLimit) {
			continue
		}
		target := anchors[rng.Intn(len(anchors))]
		if err := overlay.UpsertEdge(c.ID, target.ID, cfg.HealEdgeWeight); err == nil {
			report.DeadZones = append(report.DeadZones, c.ID)
			report.Added++
		}
	}
	sort.Strings(report.DeadZones)
	return report
}

// withinHopLimit runs a bounded BFS from node, returning true as soon as an
// anchor is reached within limit hops.
func withinHopLimit(overlay *graph.Overlay, substrate *graph.Substrate, node string, limit int) bool {
	type frontierEntry struct {
		id   string
		hops int
	}
	visited := map[string]struct{}{node: {}}
	queue := []frontierEntry{{id: node, hops: 0}}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur.hops >= limit {
			continue
		}
		for _, n := range overlay.Neighbors(cur.id, graph.Outgoing) {
			if substrate.IsAnchor(n) {
				return true
			}
			if _, ok := visited[n]; ok {
				continue
			}
			visited[n] = struct{}{}
			queue = append(queue, frontierEntry{id: n, hops: cur.hops + 1})
		}
	}
	return false
}
