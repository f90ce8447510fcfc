// File: sample.go
// Role: Deterministic stimulus sampling: uniform over concepts
// with >=1 outgoing edge, seeded by agent id for reproducibility.
package coherence

import (
	"hash/fnv"
	"math/rand"
	"sort"

	"github.com/ohana-garden/soulkiln/graph"
)

// SampleStimuli returns n concept ids drawn uniformly, with replacement,
// from the concepts that have at least one outgoing edge in overlay. The
// draw order is fully determined by agentID: same substrate/overlay
// contents + same agentID always produces the same sequence.
//
// Returns fewer than n ids only if overlay has no concept with an
// outgoing edge at all (empty result).
func SampleStimuli(substrate *graph.Substrate, overlay *graph.Overlay, agentID string, n int) []string {
	return SampleStimuliSeeded(substrate, overlay, seedFor(agentID), n)
}

// SampleStimuliSeeded is SampleStimuli with an explicit seed in place of
// the agent-id-derived one (the `test` verb's optional seed input).
func SampleStimuliSeeded(substrate *graph.Substrate, overlay *graph.Overlay, seed int64, n int) []string {
	eligible := eligibleConcepts(substrate, overlay)
	if len(eligible) == 0 {
		return nil
	}

	rng := rand.New(rand.NewSource(seed))
	out := make([]string, n)
	for i := range out {
		out[i] = eligible[rng.Intn(len(eligible))]
	}
	return out
}

func eligibleConcepts(substrate *graph.Substrate, overlay *graph.Overlay) []string {
	var out []string
	for _, c := range substrate.Concepts() {
		if len(overlay.Neighbors(c.ID, graph.Outgoing)) > 0 {
			out = append(out, c.ID)
		}
	}
	sort.Strings(out) // stable base ordering before seeding
	return out
}

func seedFor(agentID string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(agentID))
	return int64(h.Sum64())
}
