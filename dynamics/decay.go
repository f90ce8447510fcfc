// File: decay.go
// Role: Periodic edge decay and reachability-preserving removal fallback.
package dynamics

import (
	"time"

	"github.com/ohana-garden/soulkiln/config"
	"github.com/ohana-garden/soulkiln/graph"
)

// DecayReport summarizes one decay pass over an overlay.
type DecayReport struct {
	Scaled  int
	Removed int
	Clamped int // would-be removals reinstated at EdgeRemovalThreshold to preserve reachability
}

// ApplyDecay multiplies every edge weight by DecayConstant, then removes
// edges that fall below EdgeRemovalThreshold and have gone unused since
// now-exemptWithin. If a removal would strand an anchor that was reachable
// before the pass (I3), the edge is reinstated at EdgeRemovalThreshold
// instead of being dropped.
func ApplyDecay(substrate *graph.Substrate, overlay *graph.Overlay, cfg config.Dynamics, exemptWithin time.Duration, now time.Time) DecayReport {
	var report DecayReport

	for _, e := range overlay.IterEdges(nil) {
		_ = overlay.ScaleEdge(e.Src, e.Tgt, cfg.DecayConstant)
		report.Scaled++
	}

	before := asSet(substrate.CheckReachability(overlay))

	removed := overlay.RemoveEdgesBelow(cfg.EdgeRemovalThreshold, exemptWithin, now)
	if len(removed) == 0 {
		return report
	}

	after := asSet(substrate.CheckReachability(overlay))
	newlyUnreachable := map[string]struct{}{}
	for a := range after {
		if _, ok := before[a]; !ok {
			newlyUnreachable[a] = struct{}{}
		}
	}
	if len(newlyUnreachable) == 0 {
		report.Removed = len(removed)
		return report
	}

	for _, e := range removed {
		stranded := false
		for _, id := range substrate.CheckReachability(overlay) {
			if _, ok := before[id]; !ok {
				stranded = true
				break
			}
		}
		if !stranded {
			report.Removed++
			continue
		}
		// Some anchor is still stranded; reinstate this edge at the floor
		// weight and re-check on the next iteration rather than reinstate
		// every removed edge indiscriminately.
		_ = overlay.UpsertEdge(e.Src, e.Tgt, cfg.EdgeRemovalThreshold)
		report.Clamped++
	}
	return report
}

func asSet(ids []string) map[string]struct{} {
	out := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		out[id] = struct{}{}
	}
	return out
}
