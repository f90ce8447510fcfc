package dynamics_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ohana-garden/soulkiln/config"
	"github.com/ohana-garden/soulkiln/dynamics"
	"github.com/ohana-garden/soulkiln/graph"
)

func TestApplySelfHealing_StrandedConceptGetsNewEdge(t *testing.T) {
	s, _ := newTestSubstrate(t)
	_, err := s.CreateConcept("orphan", "orphan")
	require.NoError(t, err)
	o := graph.NewOverlay(s, "agent-1")

	cfg := config.Default().Dynamics
	cfg.DeadZoneHopLimit = 3
	cfg.HealEdgeWeight = 0.05
	rng := rand.New(rand.NewSource(7))

	report := dynamics.ApplySelfHealing(s, o, cfg, rng)
	require.Equal(t, 1, report.Added)
	require.Equal(t, []string{"orphan"}, report.DeadZones)
	require.Equal(t, 1, o.EdgeCount())
}

func TestApplySelfHealing_AlreadyConnectedConceptUntouched(t *testing.T) {
	s, _ := newTestSubstrate(t)
	_, err := s.CreateConcept("c1", "c1")
	require.NoError(t, err)
	o := graph.NewOverlay(s, "agent-1")
	require.NoError(t, o.UpsertEdge("c1", "V02", 0.5))

	cfg := config.Default().Dynamics
	cfg.DeadZoneHopLimit = 3
	rng := rand.New(rand.NewSource(7))

	report := dynamics.ApplySelfHealing(s, o, cfg, rng)
	require.Empty(t, report.DeadZones)
	require.Equal(t, 1, o.EdgeCount()) // unchanged
}
