package dynamics_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ohana-garden/soulkiln/config"
	"github.com/ohana-garden/soulkiln/dynamics"
	"github.com/ohana-garden/soulkiln/graph"
)

func TestApplyDecay_ScalesAllEdges(t *testing.T) {
	s, _ := newTestSubstrate(t)
	_, err := s.CreateConcept("c1", "c1")
	require.NoError(t, err)
	o := graph.NewOverlay(s, "agent-1")
	require.NoError(t, o.UpsertEdge("c1", "V02", 0.5))

	cfg := config.Default().Dynamics
	cfg.DecayConstant = 0.9
	cfg.EdgeRemovalThreshold = 0 // never remove in this test

	report := dynamics.ApplyDecay(s, o, cfg, time.Hour, time.Now())
	require.Equal(t, 1, report.Scaled)

	e, err := o.Edge("c1", "V02")
	require.NoError(t, err)
	require.InDelta(t, 0.45, e.Weight, 1e-9)
}

func TestApplyDecay_ClampsInsteadOfStrandingAnchor(t *testing.T) {
	s, _ := newTestSubstrate(t)
	_, err := s.CreateConcept("c1", "c1")
	require.NoError(t, err)
	o := graph.NewOverlay(s, "agent-1")
	// The only edge out of c1 is this weak one; removing it would strand
	// every anchor that only c1 could ever reach.
	require.NoError(t, o.UpsertEdge("c1", "V02", 0.02))

	cfg := config.Default().Dynamics
	cfg.DecayConstant = 1.0 // no scaling: the edge keeps its 0.02 weight, below the 0.5 removal floor
	cfg.EdgeRemovalThreshold = 0.5
	cfg.HealEdgeWeight = 0.05

	report := dynamics.ApplyDecay(s, o, cfg, 0, time.Now())
	require.Equal(t, 1, report.Clamped)
	require.Equal(t, 0, report.Removed)

	e, err := o.Edge("c1", "V02")
	require.NoError(t, err)
	require.Equal(t, cfg.EdgeRemovalThreshold, e.Weight)
}
