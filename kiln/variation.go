// File: variation.go
// Role: Crossover and mutation over a TopologyOverlay.
package kiln

import (
	"math"
	"math/rand"

	"github.com/ohana-garden/soulkiln/config"
	"github.com/ohana-garden/soulkiln/dynamics"
	"github.com/ohana-garden/soulkiln/graph"
)

// sampleBeta22 draws one Beta(2,2) variate. Gamma(2,1) for an integer
// shape parameter is the sum of 2 iid Exponential(1) draws
// (-log(U1)-log(U2)); Beta(a,b) = X/(X+Y) for X~Gamma(a,1), Y~Gamma(b,1).
// No general Gamma sampler is needed since both shape parameters are 2.
func sampleBeta22(rng *rand.Rand) float64 {
	x := -math.Log(rng.Float64()) - math.Log(rng.Float64())
	y := -math.Log(rng.Float64()) - math.Log(rng.Float64())
	return x / (x + y)
}

// Crossover blends two parent overlays into a fresh overlay for childID:
// per edge, a new alpha ~ Beta(2,2) is drawn and the child's weight is
// alpha*wA + (1-alpha)*wB, where a missing edge in one parent contributes
// weight 0.
func Crossover(substrate *graph.Substrate, a, b *graph.Overlay, childID string, rng *rand.Rand) *graph.Overlay {
	child := graph.NewOverlay(substrate, childID)

	weights := make(map[[2]string][2]float64)
	for _, e := range a.IterEdges(nil) {
		k := [2]string{e.Src, e.Tgt}
		w := weights[k]
		w[0] = e.Weight
		weights[k] = w
	}
	for _, e := range b.IterEdges(nil) {
		k := [2]string{e.Src, e.Tgt}
		w := weights[k]
		w[1] = e.Weight
		weights[k] = w
	}

	for k, w := range weights {
		alpha := sampleBeta22(rng)
		blended := alpha*w[0] + (1-alpha)*w[1]
		if blended < dynamicsRemovalFloor {
			continue
		}
		_ = child.UpsertEdge(k[0], k[1], blended)
	}
	return child
}

// dynamicsRemovalFloor mirrors config.Dynamics.EdgeRemovalThreshold's
// default; Crossover uses the package default rather than taking a config
// parameter since offspring creation happens before the child's own
// maintenance cadence begins.
const dynamicsRemovalFloor = 0.01

// Mutate applies per-edge Gaussian noise, edge addition and edge removal
// to overlay in place, then re-heals any anchor left
// unreachable by the removal pass (I3).
func Mutate(substrate *graph.Substrate, overlay *graph.Overlay, cfg config.Kiln, dcfg config.Dynamics, rng *rand.Rand) {
	for _, e := range overlay.IterEdges(nil) {
		if rng.Float64() < cfg.MutationRate {
			noise := rng.NormFloat64() * cfg.MutationSigma
			_ = overlay.UpsertEdge(e.Src, e.Tgt, clamp01(e.Weight+noise))
		}
	}

	if rng.Float64() < cfg.AddEdgeProb {
		addRandomEdge(substrate, overlay, rng)
	}

	if rng.Float64() < cfg.RemoveEdgeProb {
		removeWeakestEdge(overlay)
	}

	dynamics.ApplySelfHealing(substrate, overlay, dcfg, rng)
	// Self-healing reconnects stranded concepts only; give every anchor
	// that no concept reaches an edge from a random concept (I3).
	if concepts := substrate.Concepts(); len(concepts) > 0 {
		for _, id := range substrate.CheckReachability(overlay) {
			src := concepts[rng.Intn(len(concepts))]
			_ = overlay.UpsertEdge(src.ID, id, dcfg.HealEdgeWeight)
		}
	}
}

func addRandomEdge(substrate *graph.Substrate, overlay *graph.Overlay, rng *rand.Rand) {
	concepts := substrate.Concepts()
	anchors := substrate.Anchors()
	if len(concepts) == 0 || len(anchors) == 0 {
		return
	}
	src := concepts[rng.Intn(len(concepts))]
	tgt := anchors[rng.Intn(len(anchors))]
	_ = overlay.UpsertEdge(src.ID, tgt.ID, rng.Float64())
}

func removeWeakestEdge(overlay *graph.Overlay) {
	edges := overlay.IterEdges(nil)
	if len(edges) == 0 {
		return
	}
	weakest := edges[0]
	for _, e := range edges[1:] {
		if e.Weight < weakest.Weight {
			weakest = e
		}
	}
	overlay.RemoveEdge(weakest.Src, weakest.Tgt)
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
