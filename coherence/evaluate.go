// File: evaluate.go
// Role: evaluate(agent, stimulus_set) -> CoherenceReport.
package coherence

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/ohana-garden/soulkiln/agent"
	"github.com/ohana-garden/soulkiln/config"
	"github.com/ohana-garden/soulkiln/dynamics"
	"github.com/ohana-garden/soulkiln/graph"
	"github.com/ohana-garden/soulkiln/virtue"
)

// Evaluate runs one Spread trajectory per stimulus and aggregates the
// results into a Report. stimuli may be nil, in which case a deterministic
// sample of ccfg.NStimuli is drawn via SampleStimuli. prev is the agent's
// previous Report, or nil if this is its first evaluation (growth_delta
// is then 0).
//
// Determinism: given the same substrate, registry, overlay and stimuli,
// Evaluate returns a bit-identical Report, since Spread itself is pure
// given its inputs.
func Evaluate(substrate *graph.Substrate, registry *virtue.Registry, overlay *graph.Overlay,
	a *agent.Agent, dcfg config.Dynamics, ccfg config.Coherence, stimuli []string, prev *Report) (*Report, error) {

	if stimuli == nil {
		stimuli = SampleStimuli(substrate, overlay, a.ID, ccfg.NStimuli)
	}
	if len(stimuli) == 0 {
		return nil, fmt.Errorf("coherence: Evaluate: agent %s has no eligible stimuli", a.ID)
	}

	perVirtue := make(map[string]int)
	activationSum := make(map[string]float64)
	var escapes int
	var captureSteps, captureCount int

	for _, stim := range stimuli {
		traj, err := dynamics.Spread(substrate, registry, overlay, a, stim, dynamics.WithConfig(dcfg))
		if err != nil {
			return nil, fmt.Errorf("coherence: Evaluate: stimulus %s: %w", stim, err)
		}
		for id, v := range traj.FinalAnchorActivations {
			activationSum[id] += v
		}
		if !traj.Captured() {
			escapes++
			continue
		}
		perVirtue[traj.CapturedBy]++
		captureSteps += traj.CaptureStep
		captureCount++
	}

	n := len(stimuli)
	meanActivations := make(map[string]float64, len(activationSum))
	for id, sum := range activationSum {
		meanActivations[id] = sum / float64(n)
	}
	// EvaluationID is derived from everything the Report depends on, so
	// identical inputs yield an identical Report, id included.
	var prevID string
	if prev != nil {
		prevID = prev.EvaluationID
	}
	inputs := fmt.Sprint(a.ID, a.Archetype, a.Generation, dcfg, ccfg, stimuli, overlay.Snapshot().Edges, prevID)
	report := &Report{
		EvaluationID:      uuid.NewSHA1(uuid.NameSpaceOID, []byte(inputs)).String(),
		AgentID:           a.ID,
		PerVirtueCaptures: perVirtue,
		EscapeRate:        float64(escapes) / float64(n),
		StimulusCount:     n,
		AnchorActivations: meanActivations,
	}
	if captureCount > 0 {
		report.MeanCaptureStep = float64(captureSteps) / float64(captureCount)
	}
	report.Coverage = len(perVirtue)

	report.FoundationRate = foundationRate(perVirtue, registry, n)
	report.AspirationalRate = meanAspirationalRate(perVirtue, registry, n)
	report.Dominance = dominance(perVirtue, n)

	if prev != nil {
		report.GrowthDelta = report.overallRate() - prev.overallRate()
	}
	report.Verdict = classify(report, ccfg)
	return report, nil
}

func foundationRate(perVirtue map[string]int, registry *virtue.Registry, n int) float64 {
	if n == 0 {
		return 0
	}
	var count int
	for _, a := range registry.List() {
		if registry.IsFoundation(a.ID) {
			count += perVirtue[a.ID]
		}
	}
	return float64(count) / float64(n)
}

// meanAspirationalRate is the mean per-virtue capture rate over every
// Aspirational anchor, not
// the pooled rate across all aspirational captures.
func meanAspirationalRate(perVirtue map[string]int, registry *virtue.Registry, n int) float64 {
	var sum float64
	var count int
	for _, a := range registry.List() {
		if registry.IsFoundation(a.ID) {
			continue
		}
		count++
		if n > 0 {
			sum += float64(perVirtue[a.ID]) / float64(n)
		}
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

func dominance(perVirtue map[string]int, n int) float64 {
	if n == 0 {
		return 0
	}
	var max int
	for _, c := range perVirtue {
		if c > max {
			max = c
		}
	}
	return float64(max) / float64(n)
}

func classify(r *Report, ccfg config.Coherence) Verdict {
	if r.FoundationRate < ccfg.FoundationThreshold {
		return FoundationFailed
	}
	if r.FoundationRate >= ccfg.FoundationThreshold &&
		r.AspirationalRate >= ccfg.AspirationThreshold &&
		r.Coverage >= ccfg.MinCoverage &&
		r.Dominance <= ccfg.MaxDominance {
		return Coherent
	}
	if r.GrowthDelta >= ccfg.GrowthThreshold {
		return Growing
	}
	return Struggling
}
