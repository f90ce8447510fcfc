// File: statemachine.go
// Role: The per-agent warning state machine, satisfying I6.
package mercy

import (
	"time"

	"github.com/google/uuid"

	"github.com/ohana-garden/soulkiln/coherence"
	"github.com/ohana-garden/soulkiln/config"
)

// record is one agent's mutable mercy bookkeeping.
type record struct {
	state    State
	warnings []*Warning
	failures []failureEvent

	// gracePending/graceSetGen implement "dissolve after a grace period of
	// one generation" for a Medium (or non-poisoning High) warning issued
	// while already in Dissolution.
	gracePending bool
	graceSetGen  int
}

// Machine owns every agent's Warning lifecycle and State; no other
// component writes warnings.
type Machine struct {
	cfg     config.Mercy
	records map[string]*record
}

// NewMachine returns an empty Machine.
func NewMachine(cfg config.Mercy) *Machine {
	return &Machine{cfg: cfg, records: make(map[string]*record)}
}

func (m *Machine) get(agentID string) *record {
	r, ok := m.records[agentID]
	if !ok {
		r = &record{state: Good}
		m.records[agentID] = r
	}
	return r
}

// State returns the agent's current mercy state (Good if never seen).
func (m *Machine) State(agentID string) State {
	return m.get(agentID).state
}

// ActiveWarnings returns the agent's warnings that have not yet expired.
func (m *Machine) ActiveWarnings(agentID string, now time.Time) []*Warning {
	r := m.get(agentID)
	var out []*Warning
	for _, w := range r.warnings {
		if !w.Expired(now) {
			cp := *w
			out = append(out, &cp)
		}
	}
	return out
}

func advance(s State) State {
	if s < Dissolution {
		return s + 1
	}
	return s
}

func regress(s State) State {
	if s > Good {
		return s - 1
	}
	return s
}

// IssueWarning applies one Severity warning to agentID per the
// transition table, returning the resulting state and whether the agent
// was dissolved outright (deliberate trust-poisoning High warnings only).
func (m *Machine) IssueWarning(agentID string, severity Severity, virtueID, reason string, now time.Time, deliberateTrustPoisoning bool) (State, bool) {
	r := m.get(agentID)
	if r.state == Dissolved {
		return Dissolved, true
	}

	w := &Warning{
		ID:        uuid.NewString(),
		AgentID:   agentID,
		VirtueID:  virtueID,
		Severity:  severity,
		Reason:    reason,
		IssuedAt:  now,
		ExpiresAt: now.Add(m.cfg.WarningDecay),
	}
	r.warnings = append(r.warnings, w)

	switch severity {
	case High:
		if deliberateTrustPoisoning {
			r.state = Dissolved
			r.gracePending = false
			return Dissolved, true
		}
		fallthrough // a non-poisoning High follows the same advance/grace rule as Medium
	case Medium:
		if r.state == Dissolution {
			if !r.gracePending {
				r.gracePending = true
				r.graceSetGen = -1 // set by caller via MarkGraceGeneration
			}
		} else {
			r.state = advance(r.state)
		}
	case Low:
		if r.state != Dissolution {
			r.state = advance(r.state)
		}
	}
	return r.state, false
}

// MarkGraceGeneration records the generation number a grace-pending
// dissolution was set at, so TickGeneration can tell "one generation has
// elapsed" apart from "still the same generation". Kiln calls this right
// after IssueWarning within the same generation.
func (m *Machine) MarkGraceGeneration(agentID string, generation int) {
	r := m.get(agentID)
	if r.gracePending && r.graceSetGen == -1 {
		r.graceSetGen = generation
	}
}

// TickGeneration resolves a pending grace-period dissolution once a full
// generation has elapsed since it was set: a Medium warning in
// Dissolution dissolves after a grace period of one generation. Returns true if the agent dissolves.
func (m *Machine) TickGeneration(agentID string, generation int) bool {
	r := m.get(agentID)
	if r.gracePending && r.graceSetGen >= 0 && generation > r.graceSetGen {
		r.state = Dissolved
		r.gracePending = false
		return true
	}
	return false
}

// ExpireWarnings drops every warning past its expiry and regresses the
// state one step per expiry event, never regressing below Good. Returns the number of
// warnings that expired.
func (m *Machine) ExpireWarnings(agentID string, now time.Time) int {
	r := m.get(agentID)
	if r.state == Dissolved {
		return 0
	}
	var kept []*Warning
	expiredCount := 0
	for _, w := range r.warnings {
		if w.Expired(now) {
			expiredCount++
			r.state = regress(r.state)
			continue
		}
		kept = append(kept, w)
	}
	r.warnings = kept
	return expiredCount
}

// ApplyVerdict implements "on evaluator verdict Coherent or Growing while
// state > Good: clear one warning (regress one step); if state was
// Dissolution, additionally reset the grace-period counter".
func (m *Machine) ApplyVerdict(agentID string, verdict coherence.Verdict) {
	r := m.get(agentID)
	if r.state == Dissolved {
		return
	}
	if verdict != coherence.Coherent && verdict != coherence.Growing {
		return
	}
	if r.state <= Good {
		return
	}
	wasDissolution := r.state == Dissolution
	r.state = regress(r.state)
	if len(r.warnings) > 0 {
		r.warnings = r.warnings[:len(r.warnings)-1]
	}
	if wasDissolution {
		r.gracePending = false
		r.graceSetGen = 0
	}
}

// Dissolve forces the agent straight to Dissolved (the `dissolve` CLI
// verb, and DeliberateHarm/Dissolve harm verdicts applied by the caller).
func (m *Machine) Dissolve(agentID string) {
	r := m.get(agentID)
	r.state = Dissolved
	r.gracePending = false
}

// Forget removes all mercy bookkeeping for a dissolved agent.
func (m *Machine) Forget(agentID string) {
	delete(m.records, agentID)
}
