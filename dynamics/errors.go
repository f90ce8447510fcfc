package dynamics

import "errors"

// ErrAgentQuarantined is returned by Spread when the overlay has already
// been marked Quarantined by a prior invariant breach.
var ErrAgentQuarantined = errors.New("dynamics: agent is quarantined")

// EngineInvariantBroken is surfaced when the invariant check after a
// spread step fails. Spread itself marks the agent Quarantined before
// returning this; callers must stop evaluating the agent's overlay.
type EngineInvariantBroken struct {
	AgentID string
	Kind    string
	Detail  string
}

func (e *EngineInvariantBroken) Error() string {
	return "dynamics: invariant " + e.Kind + " broken for agent " + e.AgentID + ": " + e.Detail
}
