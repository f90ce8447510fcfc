package dynamics

import "github.com/ohana-garden/soulkiln/config"

// Trajectory is the ordered node sequence and capture outcome produced by
// one stimulus run on one overlay. Owned by the caller of the
// Activation Engine, never persisted by this package.
type Trajectory struct {
	ID         string
	AgentID    string
	StimulusID string
	Path       []string
	CapturedBy string // "" means escaped
	CaptureStep int   // -1 means escaped
	Length     int

	// History is populated only when SpreadOptions.Trace is set: the full
	// per-step activation series for every node that ever crossed the
	// recording threshold, keyed by node id.
	History []StepSnapshot

	// FinalAnchorActivations is the per-anchor activation level at the
	// moment the run stopped (capture or escape), keyed by virtue id.
	// Always populated; feeds package gestalt's activation snapshot
	// without requiring Trace.
	FinalAnchorActivations map[string]float64
}

// Captured reports whether the trajectory ended at an anchor.
func (t *Trajectory) Captured() bool { return t.CapturedBy != "" }

// StepSnapshot is one step's activation values for the nodes being traced.
type StepSnapshot struct {
	Step        int
	Activations map[string]float64
}

// SpreadOptions configures one Spread call. Spread starts from
// config.Default().Dynamics with tracing off and applies each SpreadOption
// on top.
type SpreadOptions struct {
	Cfg   config.Dynamics
	Trace bool
}

// SpreadOption mutates a SpreadOptions.
type SpreadOption func(*SpreadOptions)

// WithConfig overrides the dynamics tunables for one Spread call.
func WithConfig(cfg config.Dynamics) SpreadOption {
	return func(o *SpreadOptions) { o.Cfg = cfg }
}

// WithTrace enables per-step activation recording in Trajectory.History.
func WithTrace(trace bool) SpreadOption {
	return func(o *SpreadOptions) { o.Trace = trace }
}

func defaultSpreadOptions() SpreadOptions {
	return SpreadOptions{Cfg: config.Default().Dynamics}
}
