// File: gestalt.go
// Role: ComputeGestalt — the `compute_gestalt(agent) ->
// Gestalt`.
package gestalt

import (
	"github.com/ohana-garden/soulkiln/agent"
	"github.com/ohana-garden/soulkiln/coherence"
	"github.com/ohana-garden/soulkiln/graph"
	"github.com/ohana-garden/soulkiln/virtue"
)

// ComputeGestalt derives a Gestalt from an agent's current overlay and its
// most recent CoherenceReport. report may be nil for a freshly spawned
// agent that has not yet been evaluated; Activations and CharacterSignature
// are then all-zero and Archetype is Untyped.
func ComputeGestalt(substrate *graph.Substrate, registry *virtue.Registry, overlay *graph.Overlay,
	a *agent.Agent, report *coherence.Report) *Gestalt {

	activations := make(map[string]float64, graph.AnchorCount)
	signature := make(map[string]float64, graph.AnchorCount)

	if report != nil {
		for id, v := range report.AnchorActivations {
			activations[id] = v
		}
		total := 0
		for _, c := range report.PerVirtueCaptures {
			total += c
		}
		if total > 0 {
			for id, c := range report.PerVirtueCaptures {
				signature[id] = float64(c) / float64(total)
			}
		}
	}

	tendencies := computeTendencies(signature)
	affinities := clusterAffinities(registry, signature)
	arch := deriveArchetype(affinities)
	relations := relationStats(substrate, overlay)
	embedding := buildEmbedding(registry, activations, tendencies, relations, arch)

	return &Gestalt{
		AgentID:            a.ID,
		Activations:        activations,
		CharacterSignature: signature,
		Tendencies:         tendencies,
		Affinities:         affinities,
		Archetype:          arch,
		Embedding:          embedding,
	}
}
