// Package agent defines the Agent entity shared across every core
// component. It deliberately carries no behavior of its own —
// the Graph Substrate owns its overlay, the Coherence Evaluator owns its
// reports, the Mercy Machine owns its warnings, the Kiln owns its
// lifecycle transitions. Agent is the common vocabulary they all read.
package agent

// Archetype is the agent's behavioral cluster affinity, derived by
// package gestalt and consumed by package virtue for threshold lookups.
type Archetype string

const (
	Guardian      Archetype = "Guardian"
	Seeker        Archetype = "Seeker"
	Servant       Archetype = "Servant"
	Contemplative Archetype = "Contemplative"
	Untyped       Archetype = "Untyped"
)

// Status is the agent's lifecycle state.
type Status string

const (
	Evolving  Status = "Evolving"
	Bound     Status = "Bound"
	Dissolved Status = "Dissolved"
	// Quarantined marks an agent whose run hit an invariant breach; it is a distinct terminal-pending state between Evolving
	// and Dissolved; consult QuarantineReason for the original fault.
	Quarantined Status = "Quarantined"
)

// Agent is one candidate topology in the population.
type Agent struct {
	ID         string
	Archetype  Archetype
	Generation int
	ParentIDs  []string
	Binding    string // optional external id; "" means unbound
	Status     Status

	// GenerationsSinceGrowth tracks the Kiln's grace-period counter.
	// Reset to 0 whenever a generation's growth delta clears the
	// configured growth threshold.
	GenerationsSinceGrowth int

	// QuarantineReason is set when Status == Quarantined.
	QuarantineReason string
}

// IsSelectable reports whether the agent participates in Kiln selection.
// Bound agents are still tested every generation but skipped for
// selection purposes.
func (a *Agent) IsSelectable() bool {
	return a.Binding == "" && a.Status == Evolving
}
