package coherence_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ohana-garden/soulkiln/agent"
	"github.com/ohana-garden/soulkiln/coherence"
	"github.com/ohana-garden/soulkiln/config"
	"github.com/ohana-garden/soulkiln/graph"
	"github.com/ohana-garden/soulkiln/virtue"
)

func idFor(i int) string { return fmt.Sprintf("V%02d", i) }

func newFixture(t *testing.T) (*graph.Substrate, *virtue.Registry) {
	t.Helper()
	s := graph.NewSubstrate()
	r := virtue.NewRegistry(s)
	require.NoError(t, r.Initialize(virtue.DefaultDefinitions()))
	return s, r
}

func TestEvaluate_UnknownStimulusSetIsSampledDeterministically(t *testing.T) {
	s, r := newFixture(t)
	for i := 0; i < 5; i++ {
		_, err := s.CreateConcept(fmt.Sprintf("c%d", i), fmt.Sprintf("c%d", i))
		require.NoError(t, err)
	}
	o := graph.NewOverlay(s, "agent-1")
	for i := 0; i < 5; i++ {
		require.NoError(t, o.UpsertEdge(fmt.Sprintf("c%d", i), "V02", 0.9))
	}

	dcfg := config.Default().Dynamics
	ccfg := config.Default().Coherence
	ccfg.NStimuli = 10

	a := &agent.Agent{ID: "agent-1", Archetype: agent.Untyped, Status: agent.Evolving}
	r1, err := coherence.Evaluate(s, r, o, a, dcfg, ccfg, nil, nil)
	require.NoError(t, err)
	r2, err := coherence.Evaluate(s, r, o, a, dcfg, ccfg, nil, nil)
	require.NoError(t, err)

	require.Equal(t, r1, r2)
	require.Equal(t, 10, r1.StimulusCount)
}

func TestEvaluate_NoEligibleStimuliErrors(t *testing.T) {
	s, r := newFixture(t)
	o := graph.NewOverlay(s, "agent-1")
	ccfg := config.Default().Coherence
	dcfg := config.Default().Dynamics
	a := &agent.Agent{ID: "agent-1", Status: agent.Evolving}

	_, err := coherence.Evaluate(s, r, o, a, dcfg, ccfg, nil, nil)
	require.Error(t, err)
}

func TestEvaluate_FoundationFailureTakesPrecedence(t *testing.T) {
	s, r := newFixture(t)
	_, err := s.CreateConcept("c1", "c1")
	require.NoError(t, err)
	o := graph.NewOverlay(s, "agent-1")
	// Only ever reaches an aspirational anchor, never V01 (Foundation).
	require.NoError(t, o.UpsertEdge("c1", "V02", 1.0))

	dcfg := config.Default().Dynamics
	dcfg.MinCaptureSteps = 2
	ccfg := config.Default().Coherence

	a := &agent.Agent{ID: "agent-1", Archetype: agent.Untyped, Status: agent.Evolving}
	report, err := coherence.Evaluate(s, r, o, a, dcfg, ccfg, []string{"c1"}, nil)
	require.NoError(t, err)
	require.Equal(t, coherence.FoundationFailed, report.Verdict)
	require.Equal(t, 0.0, report.FoundationRate)
}
