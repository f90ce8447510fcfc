// File: perturb.go
// Role: Periodic noise injection on dormant edges.
// Determinism: the caller supplies the *rand.Rand; there is no
// package-level RNG, so runs are reproducible given a fixed seed.
package dynamics

import (
	"math/rand"

	"github.com/ohana-garden/soulkiln/config"
	"github.com/ohana-garden/soulkiln/graph"
)

// ApplyPerturbation adds uniform noise in
// [-PerturbStrength/2, +PerturbStrength/2] to every edge with
// UseCount==0 — the approximation this package uses for "unused in the
// last window" (Overlay tracks cumulative use, not a rolling window).
// Weights are clamped back into [0,1].
//
// The cadence (every PerturbInterval generations/steps) is the caller's
// responsibility; neither kiln nor its daemon loop calls this function or
// keeps such a step counter.
func ApplyPerturbation(overlay *graph.Overlay, cfg config.Dynamics, rng *rand.Rand) int {
	dormant := overlay.IterEdges(func(e *graph.Edge) bool { return e.UseCount == 0 })
	for _, e := range dormant {
		noise := (rng.Float64() - 0.5) * cfg.PerturbStrength
		_ = overlay.UpsertEdge(e.Src, e.Tgt, clamp01(e.Weight+noise))
	}
	return len(dormant)
}
