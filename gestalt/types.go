package gestalt

import "github.com/ohana-garden/soulkiln/agent"

// EmbeddingDim is the fixed embedding width:
// activations(19) || tendencies(10) || relation_stats(8) || archetype_onehot(4).
const EmbeddingDim = 19 + 10 + 8 + 4

// archetypeMargin is the minimum lead the top cluster affinity must hold
// over the runner-up before an agent is assigned that archetype; below it
// the agent is Untyped.
const archetypeMargin = 0.10

// clusterOrder fixes the archetype one-hot's dimension order, used both by
// the embedding and by archetype derivation's argmax.
var clusterOrder = []agent.Archetype{agent.Guardian, agent.Seeker, agent.Servant, agent.Contemplative}

// Gestalt is one agent's derived character summary.
type Gestalt struct {
	AgentID string

	// Activations is the per-anchor activation snapshot from the agent's
	// last evaluation, keyed by virtue id.
	Activations map[string]float64

	// CharacterSignature is the normalized per-anchor capture-count vector
	//: each anchor's share of total captures across the last
	// evaluation's stimuli, keyed by virtue id. Zero-valued (all-zero) if
	// the agent captured nothing.
	CharacterSignature map[string]float64

	// Tendencies holds the ten named behavioral tendencies,
	// each a weighted sum of CharacterSignature over its designated
	// virtues (an Open Question resolution: tendencies read the capture
	// signature, not the raw activation snapshot, since a tendency
	// describes a pattern of outcomes rather than an instantaneous level).
	Tendencies map[string]float64

	// Affinities is the four cluster affinities archetype derivation
	// argmaxes over, exposed for explainability (not itself part of the
	// embedding, which carries only the one-hot winner).
	Affinities map[agent.Archetype]float64

	Archetype agent.Archetype

	// Embedding is the 41-dimensional comparison vector.
	Embedding [EmbeddingDim]float64
}
