package dynamics_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ohana-garden/soulkiln/agent"
	"github.com/ohana-garden/soulkiln/config"
	"github.com/ohana-garden/soulkiln/dynamics"
	"github.com/ohana-garden/soulkiln/graph"
	"github.com/ohana-garden/soulkiln/virtue"
)

func idFor(i int) string { return fmt.Sprintf("V%02d", i) }

func newTestSubstrate(t *testing.T) (*graph.Substrate, *virtue.Registry) {
	t.Helper()
	s := graph.NewSubstrate()
	r := virtue.NewRegistry(s)

	defs := make([]graph.VirtueAnchorDef, 0, graph.AnchorCount)
	for i := 1; i <= graph.AnchorCount; i++ {
		tier := graph.Aspirational
		cluster := "universal"
		threshold := 0.6
		if i == 1 {
			tier = graph.Foundation
			threshold = 0.99
		}
		defs = append(defs, graph.VirtueAnchorDef{
			ID: idFor(i), Name: idFor(i), Tier: tier, Cluster: cluster, BaseThreshold: threshold,
		})
	}
	require.NoError(t, r.Initialize(defs))
	return s, r
}

func newTestAgent() *agent.Agent {
	return &agent.Agent{ID: "agent-1", Archetype: agent.Untyped, Status: agent.Evolving}
}

func TestSpread_IsolatedStimulusEscapes(t *testing.T) {
	s, r := newTestSubstrate(t)
	_, err := s.CreateConcept("c1", "c1")
	require.NoError(t, err)
	o := graph.NewOverlay(s, "agent-1")

	traj, err := dynamics.Spread(s, r, o, newTestAgent(), "c1")
	require.NoError(t, err)
	require.False(t, traj.Captured())
	require.Equal(t, []string{"c1"}, traj.Path)
}

func TestSpread_DirectStrongEdgeCapturesQuickly(t *testing.T) {
	s, r := newTestSubstrate(t)
	_, err := s.CreateConcept("c1", "c1")
	require.NoError(t, err)
	o := graph.NewOverlay(s, "agent-1")
	require.NoError(t, o.UpsertEdge("c1", "V02", 1.0))

	// Default dynamics throughout: a single full-weight concept→anchor
	// edge must capture within the first dwell window.
	traj, err := dynamics.Spread(s, r, o, newTestAgent(), "c1")
	require.NoError(t, err)
	require.True(t, traj.Captured())
	require.Equal(t, "V02", traj.CapturedBy)
	require.GreaterOrEqual(t, traj.CaptureStep, 1)
	require.LessOrEqual(t, traj.CaptureStep, 3)
	require.Equal(t, []string{"c1", "V02"}, traj.Path)
}

func TestSpread_InvariantBreachQuarantines(t *testing.T) {
	s, r := newTestSubstrate(t)
	_, err := s.CreateConcept("c1", "c1")
	require.NoError(t, err)
	o := graph.NewOverlay(s, "agent-1")
	require.NoError(t, o.UpsertEdge("c1", "V02", 1.0))
	// Corrupt the overlay out from under the engine: ScaleEdge performs no
	// upper clamp, so the weight lands outside [0, 1].
	require.NoError(t, o.ScaleEdge("c1", "V02", 5.0))

	a := newTestAgent()
	_, err = dynamics.Spread(s, r, o, a, "c1")

	var breach *dynamics.EngineInvariantBroken
	require.ErrorAs(t, err, &breach)
	require.Equal(t, "I4", breach.Kind)
	require.Equal(t, agent.Quarantined, a.Status)
	require.NotEmpty(t, a.QuarantineReason)
}

func TestSpread_UnknownStimulusErrors(t *testing.T) {
	s, r := newTestSubstrate(t)
	o := graph.NewOverlay(s, "agent-1")
	_, err := dynamics.Spread(s, r, o, newTestAgent(), "missing")
	require.ErrorIs(t, err, graph.ErrUnknownNode)
}

func TestSpread_QuarantinedAgentRejected(t *testing.T) {
	s, r := newTestSubstrate(t)
	o := graph.NewOverlay(s, "agent-1")
	a := newTestAgent()
	a.Status = agent.Quarantined
	_, err := dynamics.Spread(s, r, o, a, "V01")
	require.ErrorIs(t, err, dynamics.ErrAgentQuarantined)
}

func TestSpread_TraceRecordsHistory(t *testing.T) {
	s, r := newTestSubstrate(t)
	_, err := s.CreateConcept("c1", "c1")
	require.NoError(t, err)
	o := graph.NewOverlay(s, "agent-1")
	require.NoError(t, o.UpsertEdge("c1", "V02", 1.0))

	cfg := config.Default().Dynamics
	cfg.MinCaptureSteps = 2
	cfg.MaxSteps = 20

	traj, err := dynamics.Spread(s, r, o, newTestAgent(), "c1", dynamics.WithConfig(cfg), dynamics.WithTrace(true))
	require.NoError(t, err)
	require.NotEmpty(t, traj.History)
}
