package dynamics_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ohana-garden/soulkiln/config"
	"github.com/ohana-garden/soulkiln/dynamics"
	"github.com/ohana-garden/soulkiln/graph"
)

func TestApplyPerturbation_OnlyTouchesDormantEdges(t *testing.T) {
	s, _ := newTestSubstrate(t)
	_, err := s.CreateConcept("c1", "c1")
	require.NoError(t, err)
	_, err = s.CreateConcept("c2", "c2")
	require.NoError(t, err)
	o := graph.NewOverlay(s, "agent-1")
	require.NoError(t, o.UpsertEdge("c1", "V02", 0.5)) // dormant: never TouchEdge'd
	require.NoError(t, o.UpsertEdge("c2", "V03", 0.5))
	require.NoError(t, o.TouchEdge("c2", "V03", 0.5)) // used once

	cfg := config.Default().Dynamics
	cfg.PerturbStrength = 0.3
	rng := rand.New(rand.NewSource(1))

	touched := dynamics.ApplyPerturbation(o, cfg, rng)
	require.Equal(t, 1, touched)

	used, err := o.Edge("c2", "V03")
	require.NoError(t, err)
	require.Equal(t, 0.5, used.Weight)
}

func TestApplyPerturbation_ClampsIntoBounds(t *testing.T) {
	s, _ := newTestSubstrate(t)
	_, err := s.CreateConcept("c1", "c1")
	require.NoError(t, err)
	o := graph.NewOverlay(s, "agent-1")
	require.NoError(t, o.UpsertEdge("c1", "V02", 0.99))

	cfg := config.Default().Dynamics
	cfg.PerturbStrength = 5.0 // deliberately huge to force clamping
	rng := rand.New(rand.NewSource(42))

	dynamics.ApplyPerturbation(o, cfg, rng)

	e, err := o.Edge("c1", "V02")
	require.NoError(t, err)
	require.GreaterOrEqual(t, e.Weight, 0.0)
	require.LessOrEqual(t, e.Weight, 1.0)
}
