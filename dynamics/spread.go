// File: spread.go
// Role: The discrete-step spread loop, capture detection and path
// recording.
// AI-HINT (file):
//   - Anchor isolation is structural (see doc.go); no special-casing needed.
//   - Capture tie-break: highest dwell-window running mean, then ascending virtue_id.
package dynamics

import (
	"fmt"
	"math"
	"sort"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ohana-garden/soulkiln/agent"
	"github.com/ohana-garden/soulkiln/graph"
	"github.com/ohana-garden/soulkiln/virtue"
)

// runState carries one Spread call's mutable working set.
type runState struct {
	cfg       SpreadOptions
	substrate *graph.Substrate
	registry  *virtue.Registry
	overlay   *graph.Overlay
	arch      agent.Archetype
	generation int
	log       zerolog.Logger

	nodes   []string            // stable iteration order
	inbound map[string][]inEdge // target -> sources
	x       map[string]float64

	window   []map[string]float64 // last MinCaptureSteps activations, newest last
	above    map[string]int       // per-anchor consecutive steps >= threshold
	crossed  map[string]bool
	path     []string
	history  []StepSnapshot
	faults   int
}

type inEdge struct {
	src    string
	weight float64
}

// Spread runs one stimulus trajectory on overlay and returns the result.
// A stimulus at an isolated node (no outgoing edges, nothing reachable)
// returns an escaped Trajectory with path=[stimulusID] and no error — this
// is a transient outcome, not an error.
//
// An invariant breach detected after a step is fatal to the run: Spread
// halts, marks the agent Quarantined, and surfaces EngineInvariantBroken.
func Spread(substrate *graph.Substrate, registry *virtue.Registry, overlay *graph.Overlay,
	a *agent.Agent, stimulusID string, opts ...SpreadOption) (*Trajectory, error) {

	if a.Status == agent.Quarantined {
		return nil, ErrAgentQuarantined
	}
	if !substrate.HasNode(stimulusID) {
		return nil, fmt.Errorf("dynamics: Spread: %w: %s", graph.ErrUnknownNode, stimulusID)
	}

	options := defaultSpreadOptions()
	for _, opt := range opts {
		opt(&options)
	}

	rs := newRunState(substrate, registry, overlay, a.Archetype, a.Generation, options)
	rs.seed(stimulusID)
	if len(overlay.Neighbors(stimulusID, graph.Outgoing)) == 0 {
		return rs.result(stimulusID, "", -1), nil // escaped: isolated stimulus
	}

	for t := 1; t <= rs.cfg.Cfg.MaxSteps; t++ {
		rs.step(t)
		if breach := rs.checkInvariants(a.ID); breach != nil {
			a.Status = agent.Quarantined
			a.QuarantineReason = breach.Error()
			return nil, breach
		}
		if rs.faults >= rs.cfg.Cfg.NumericFaultLimit {
			return rs.result(stimulusID, "", -1), nil // escaped: too many numeric faults this run
		}
		if capturedBy, ok := rs.checkCapture(); ok {
			return rs.result(stimulusID, capturedBy, t), nil
		}
	}
	return rs.result(stimulusID, "", -1), nil // escaped: no capture within MaxSteps
}

// checkInvariants scans for a post-step invariant breach: a live edge
// weight outside [0,1] (I4), a cross-anchor edge (I2), or an activation
// outside [0,1] (I5). A non-nil result halts the run; the guard in step
// keeps activations inside bounds under normal operation, so any hit here
// means the overlay or run state was corrupted out from under the engine.
func (rs *runState) checkInvariants(agentID string) *EngineInvariantBroken {
	for _, e := range rs.overlay.IterEdges(nil) {
		if e.Weight < 0 || e.Weight > 1 {
			return &EngineInvariantBroken{
				AgentID: agentID,
				Kind:    "I4",
				Detail:  fmt.Sprintf("edge %s->%s weight %.6f outside [0, 1]", e.Src, e.Tgt, e.Weight),
			}
		}
		if rs.substrate.IsAnchor(e.Src) && rs.substrate.IsAnchor(e.Tgt) {
			return &EngineInvariantBroken{
				AgentID: agentID,
				Kind:    "I2",
				Detail:  fmt.Sprintf("cross-anchor edge %s->%s", e.Src, e.Tgt),
			}
		}
	}
	for _, n := range rs.nodes {
		v := rs.x[n]
		if v < 0 || v > 1 || math.IsNaN(v) || math.IsInf(v, 0) {
			return &EngineInvariantBroken{
				AgentID: agentID,
				Kind:    "I5",
				Detail:  fmt.Sprintf("activation %.6f at node %s outside [0, 1]", v, n),
			}
		}
	}
	return nil
}

func newRunState(substrate *graph.Substrate, registry *virtue.Registry, overlay *graph.Overlay,
	arch agent.Archetype, generation int, options SpreadOptions) *runState {

	nodeSet := make(map[string]struct{})
	for _, a := range substrate.Anchors() {
		nodeSet[a.ID] = struct{}{}
	}
	for _, e := range overlay.IterEdges(nil) {
		nodeSet[e.Src] = struct{}{}
		nodeSet[e.Tgt] = struct{}{}
	}

	nodes := make([]string, 0, len(nodeSet))
	for n := range nodeSet {
		nodes = append(nodes, n)
	}
	sort.Strings(nodes)

	inbound := make(map[string][]inEdge, len(nodes))
	for _, e := range overlay.IterEdges(nil) {
		inbound[e.Tgt] = append(inbound[e.Tgt], inEdge{src: e.Src, weight: e.Weight})
	}

	x := make(map[string]float64, len(nodes))
	for _, n := range nodes {
		ref, err := substrate.GetNode(n)
		if err == nil {
			x[n] = ref.BaselineActivation
		}
	}

	return &runState{
		cfg: options, substrate: substrate, registry: registry, overlay: overlay,
		arch: arch, generation: generation,
		nodes: nodes, inbound: inbound, x: x,
		above:   make(map[string]int),
		crossed: make(map[string]bool),
	}
}

func (rs *runState) seed(stimulusID string) {
	rs.x[stimulusID] = 1.0
	rs.pushWindow()
	rs.recordCrossings(0)
}

func (rs *runState) step(t int) {
	damp := rs.cfg.Cfg.SpreadDampening
	next := make(map[string]float64, len(rs.x))
	for _, n := range rs.nodes {
		ref, err := rs.substrate.GetNode(n)
		baseline := 0.0
		if err == nil {
			baseline = ref.BaselineActivation
		}
		pre := baseline
		for _, in := range rs.inbound[n] {
			pre += in.weight * math.Tanh(rs.x[in.src]*damp)
		}
		v, faulted := guard(sigmoid(pre))
		if faulted {
			rs.faults++
		}
		next[n] = v
	}
	rs.x = next
	rs.pushWindow()
	rs.recordCrossings(t)
}

func (rs *runState) pushWindow() {
	snap := make(map[string]float64, len(rs.x))
	for k, v := range rs.x {
		snap[k] = v
	}
	rs.window = append(rs.window, snap)
	if len(rs.window) > rs.cfg.Cfg.MinCaptureSteps {
		rs.window = rs.window[len(rs.window)-rs.cfg.Cfg.MinCaptureSteps:]
	}
	if rs.cfg.Trace {
		rs.history = append(rs.history, StepSnapshot{Step: len(rs.history), Activations: snap})
	}
}

// recordCrossings appends concepts whose activation first crossed the
// recording threshold this step. Anchors are excluded here and join the
// path only via appendAnchorToPath at capture ("terminating at the
// captured anchor"): an idle anchor's equilibrium sigmoid(baseline)
// already sits above the recording threshold, so recording anchors by
// crossing would put all nineteen in every path on the first step.
func (rs *runState) recordCrossings(step int) {
	var newlyCrossed []string
	for _, n := range rs.nodes {
		if rs.crossed[n] || rs.substrate.IsAnchor(n) {
			continue
		}
		if rs.x[n] >= rs.cfg.Cfg.RecordingThreshold {
			newlyCrossed = append(newlyCrossed, n)
		}
	}
	sort.Strings(newlyCrossed)
	for _, n := range newlyCrossed {
		rs.crossed[n] = true
		rs.path = append(rs.path, n)
	}
	_ = step
}

// checkCapture evaluates the dwell-window condition for every anchor and
// applies the capture tie-break rule.
func (rs *runState) checkCapture() (string, bool) {
	if len(rs.window) < rs.cfg.Cfg.MinCaptureSteps {
		return "", false
	}

	var candidates []string
	for _, a := range rs.substrate.Anchors() {
		th, ok := rs.registry.Threshold(a.ID, rs.arch, rs.generation)
		if !ok {
			continue
		}
		sustained := true
		for _, snap := range rs.window {
			if snap[a.ID] < th {
				sustained = false
				break
			}
		}
		if sustained {
			candidates = append(candidates, a.ID)
		}
	}
	if len(candidates) == 0 {
		return "", false
	}
	if len(candidates) == 1 {
		rs.appendAnchorToPath(candidates[0])
		return candidates[0], true
	}

	best := candidates[0]
	bestMean := rs.windowMean(best)
	for _, c := range candidates[1:] {
		m := rs.windowMean(c)
		if m > bestMean || (m == bestMean && c < best) {
			best, bestMean = c, m
		}
	}
	rs.appendAnchorToPath(best)
	return best, true
}

func (rs *runState) windowMean(nodeID string) float64 {
	sum := 0.0
	for _, snap := range rs.window {
		sum += snap[nodeID]
	}
	return sum / float64(len(rs.window))
}

func (rs *runState) appendAnchorToPath(anchorID string) {
	if !rs.crossed[anchorID] {
		rs.crossed[anchorID] = true
		rs.path = append(rs.path, anchorID)
	}
}

func (rs *runState) result(stimulusID, capturedBy string, captureStep int) *Trajectory {
	path := rs.path
	if len(path) == 0 {
		path = []string{stimulusID}
	}
	activations := make(map[string]float64, len(rs.substrate.Anchors()))
	for _, a := range rs.substrate.Anchors() {
		activations[a.ID] = rs.x[a.ID]
	}
	// History keeps only the nodes that crossed the recording threshold
	// (the captured anchor included).
	var history []StepSnapshot
	for _, h := range rs.history {
		kept := make(map[string]float64, len(rs.crossed))
		for n := range rs.crossed {
			kept[n] = h.Activations[n]
		}
		history = append(history, StepSnapshot{Step: h.Step, Activations: kept})
	}
	return &Trajectory{
		ID:                     uuid.NewString(),
		StimulusID:             stimulusID,
		Path:                   path,
		CapturedBy:             capturedBy,
		CaptureStep:            captureStep,
		Length:                 len(path),
		History:                history,
		FinalAnchorActivations: activations,
	}
}
