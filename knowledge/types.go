package knowledge

import "time"

// LessonKind classifies a Lesson.
type LessonKind string

const (
	Failure LessonKind = "Failure"
	Success LessonKind = "Success"
	Insight LessonKind = "Insight"
	TradeOff LessonKind = "TradeOff"
)

// Lesson is a durable record created by the Mercy Machine or the Kiln at
// dissolution or on a resolved outcome. It persists indefinitely and may
// outlive the agent that produced it.
type Lesson struct {
	ID            string
	Kind          LessonKind
	SourceAgentID string
	VirtueID      string // optional, "" if not virtue-specific
	Description   string
	CreatedAt     time.Time
	AccessCount   int

	// Flagged marks lesson content rejected by validation, either at
	// record time or later via FlagLesson. Flagged lessons are excluded
	// from queries and count against their source agent as knowledge
	// poisoning in harm classification.
	Flagged bool
}

// Pathway is a recorded successful trajectory usable as prior knowledge
//. StartNodeID is the stimulus, AnchorID the captured anchor.
type Pathway struct {
	ID              string
	StartNodeID     string
	AnchorID        string
	Path            []string
	Length          int
	MeanCaptureStep float64
	SuccessRate     float64
	Uses            int
	CreatedAt       time.Time
}

// staleAfterUses and staleRateFloor implement the exclusion rule "Pathways with success_rate < 0.1 after >= 20 uses are marked
// stale and excluded from default queries."
const (
	staleAfterUses = 20
	staleRateFloor = 0.1

	// ewmaSmoothing is the success_rate update factor.
	ewmaSmoothing = 0.1
)

// IsStale reports whether p should be excluded from default queries.
func (p *Pathway) IsStale() bool {
	return p.Uses >= staleAfterUses && p.SuccessRate < staleRateFloor
}
