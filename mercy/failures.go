// File: failures.go
// Role: Rolling per-agent failure ledger — the repetition history
// ClassifyHarm's escalation rules read. Entries age out of the
// warning-decay window, so "repeated N times recently" always means
// within the last WarningDecay duration, not across the agent's lifetime.
package mercy

import "time"

// failureEvent is one recorded failure occurrence.
type failureEvent struct {
	kind string
	at   time.Time
}

// NoteFailure records one failure occurrence for agentID and returns how
// many identical-kind failures now sit within the warning-decay window,
// including this one. Entries older than the window are pruned as a side
// effect, so the ledger never grows past one window's worth of history.
func (m *Machine) NoteFailure(agentID, kind string, now time.Time) int {
	r := m.get(agentID)
	cutoff := now.Add(-m.cfg.WarningDecay)
	kept := r.failures[:0]
	for _, f := range r.failures {
		if f.at.After(cutoff) {
			kept = append(kept, f)
		}
	}
	r.failures = append(kept, failureEvent{kind: kind, at: now})

	count := 0
	for _, f := range r.failures {
		if f.kind == kind {
			count++
		}
	}
	return count
}

// PriorFailures returns how many identical-kind failures agentID already
// has inside the warning-decay window, without recording a new one.
func (m *Machine) PriorFailures(agentID, kind string, now time.Time) int {
	cutoff := now.Add(-m.cfg.WarningDecay)
	count := 0
	for _, f := range m.get(agentID).failures {
		if f.kind == kind && f.at.After(cutoff) {
			count++
		}
	}
	return count
}

// RecentHighWarningOn reports whether agentID holds an unexpired High
// warning naming virtueID.
func (m *Machine) RecentHighWarningOn(agentID, virtueID string, now time.Time) bool {
	for _, w := range m.get(agentID).warnings {
		if w.Severity == High && w.VirtueID == virtueID && !w.Expired(now) {
			return true
		}
	}
	return false
}
