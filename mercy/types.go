package mercy

import "time"

// Severity classifies a Warning.
type Severity string

const (
	Low    Severity = "Low"
	Medium Severity = "Medium"
	High   Severity = "High"
)

// Warning is a time-bounded mark placed by the Mercy Machine that advances
// the agent's dissolution state.
type Warning struct {
	ID        string
	AgentID   string
	VirtueID  string // optional, "" if not virtue-specific
	Severity  Severity
	Reason    string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Expired reports whether the warning's wall-clock expiry has passed.
func (w *Warning) Expired(now time.Time) bool {
	return !now.Before(w.ExpiresAt)
}

// State is the agent's position in the Mercy state machine.
// Its integer value doubles as "number of warnings currently counted
// against the agent" (Good=0 .. Dissolution=3), matching MAX_WARNINGS=3.
type State int

const (
	Good State = iota
	Caution
	Probation
	Dissolution
	Dissolved
)

func (s State) String() string {
	switch s {
	case Good:
		return "Good"
	case Caution:
		return "Caution"
	case Probation:
		return "Probation"
	case Dissolution:
		return "Dissolution"
	case Dissolved:
		return "Dissolved"
	default:
		return "Unknown"
	}
}

// Intent classifies the agent's culpability for an action.
type Intent string

const (
	Imperfection   Intent = "Imperfection"
	DeliberateHarm Intent = "DeliberateHarm"
)

// Recommendation is the harm classifier's suggested response.
type Recommendation string

const (
	Teach    Recommendation = "Teach"
	Warn     Recommendation = "Warn"
	Dissolve Recommendation = "Dissolve"
)

// HarmVerdict is ClassifyHarm's side-effect-free output. The
// caller applies it by calling IssueWarning/Dissolve/knowledge.RecordLesson.
type HarmVerdict struct {
	Intent         Intent
	Severity       Severity
	Recommendation Recommendation
	Reasons        []string
}

// ActionRecord is the input to ClassifyHarm: one trajectory's resolved
// outcome, plus the history the classifier needs to detect repetition.
type ActionRecord struct {
	AgentID     string
	VirtueID    string
	FailureKind string

	// IsFoundationViolation flags a trajectory that should have captured
	// V01 but terminated in a known-harmful pattern, as the outcome
	// resolver determined.
	IsFoundationViolation    bool
	PriorIdenticalViolations int
	RecentHighWarningOnV01   bool

	// PoisonsKnowledge flags lesson content rejected by validation.
	PoisonsKnowledge bool

	// RepeatCountWithinWindow is how many times FailureKind has been
	// recorded for this agent within the warning-decay window, including
	// this occurrence.
	RepeatCountWithinWindow int

	// IsFirstOccurrence marks a first-time aspirational failure or an
	// unintended side effect.
	IsFirstOccurrence bool

	// TaughtBefore marks that a Lesson already exists for this failure
	// kind.
	TaughtBefore bool
}
