// File: registry.go
// Role: Contextual threshold computation over the substrate's anchor table.
// AI-HINT (file):
//   - Foundation threshold is the published constant 0.99, never modulated.
//   - Aspirational thresholds are clamp(base + archetype_bonus + generation_bonus, 0.5, 0.95).

package virtue

import (
	"github.com/ohana-garden/soulkiln/agent"
	"github.com/ohana-garden/soulkiln/graph"
)

// FoundationThreshold is the registry's constant: never
// modulated by archetype or generation.
const FoundationThreshold = 0.99

const (
	minAspirationalThreshold = 0.5
	maxAspirationalThreshold = 0.95
	archetypeBonus           = 0.10
	earlyGenerationPenalty   = -0.10
	matureGenerationBonus    = 0.05
	earlyGenerationCeiling   = 3  // g < 3
	matureGenerationFloor    = 10 // g >= 10
)

// Registry is the read-mostly view over a Substrate's anchor table plus
// the archetype/generation bonus tables that derive contextual thresholds.
type Registry struct {
	substrate *graph.Substrate
}

// NewRegistry returns a Registry over substrate. Initialize must be called
// once before List/Threshold/ClusterOf/IsFoundation are meaningful.
func NewRegistry(substrate *graph.Substrate) *Registry {
	return &Registry{substrate: substrate}
}

// Initialize stores the 19 virtue definitions once, delegating to the
// substrate (which owns anchor identity).
func (r *Registry) Initialize(defs []graph.VirtueAnchorDef) error {
	return r.substrate.InitAnchors(defs)
}

// List returns every anchor, sorted by ID ascending.
func (r *Registry) List() []*graph.VirtueAnchor {
	return r.substrate.Anchors()
}

// ClusterOf returns the anchor's cluster, or "" if virtueID is unknown.
func (r *Registry) ClusterOf(virtueID string) string {
	a, err := r.substrate.Anchor(virtueID)
	if err != nil {
		return ""
	}
	return a.Cluster
}

// IsFoundation reports whether virtueID names the single Foundation anchor.
func (r *Registry) IsFoundation(virtueID string) bool {
	a, err := r.substrate.Anchor(virtueID)
	if err != nil {
		return false
	}
	return a.Tier == graph.Foundation
}

// Threshold computes the contextual capture threshold for virtueID given
// an agent's archetype and generation. Returns 0 and false if
// virtueID is unknown.
func (r *Registry) Threshold(virtueID string, arch agent.Archetype, generation int) (float64, bool) {
	a, err := r.substrate.Anchor(virtueID)
	if err != nil {
		return 0, false
	}
	if a.Tier == graph.Foundation {
		return FoundationThreshold, true
	}

	t := a.BaseThreshold + archetypeBonusFor(arch, a.Cluster) + generationBonus(generation)
	if t < minAspirationalThreshold {
		t = minAspirationalThreshold
	}
	if t > maxAspirationalThreshold {
		t = maxAspirationalThreshold
	}
	return t, true
}

// archetypeBonusFor implements archetype_bonus: +0.10 when the anchor's
// cluster matches the agent's archetype's published affinity, else 0.
// Untyped agents and the Foundation anchor's "universal" cluster never
// receive a bonus.
func archetypeBonusFor(arch agent.Archetype, cluster string) float64 {
	if arch == agent.Untyped || arch == "" {
		return 0
	}
	if string(arch) == cluster {
		return archetypeBonus
	}
	return 0
}

// generationBonus implements generation_bonus.
func generationBonus(generation int) float64 {
	switch {
	case generation < earlyGenerationCeiling:
		return earlyGenerationPenalty
	case generation >= matureGenerationFloor:
		return matureGenerationBonus
	default:
		return 0
	}
}
