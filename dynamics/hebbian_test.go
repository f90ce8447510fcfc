package dynamics_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ohana-garden/soulkiln/config"
	"github.com/ohana-garden/soulkiln/dynamics"
	"github.com/ohana-garden/soulkiln/graph"
)

func TestApplyHebbian_CapturedPathReinforced(t *testing.T) {
	s, _ := newTestSubstrate(t)
	_, err := s.CreateConcept("c1", "c1")
	require.NoError(t, err)
	o := graph.NewOverlay(s, "agent-1")
	require.NoError(t, o.UpsertEdge("c1", "V02", 0.5))

	before, err := o.Edge("c1", "V02")
	require.NoError(t, err)

	traj := &dynamics.Trajectory{
		Path:        []string{"c1", "V02"},
		CapturedBy:  "V02",
		CaptureStep: 3,
	}
	window := []map[string]float64{
		{"c1": 1.0, "V02": 0.9},
		{"c1": 1.0, "V02": 0.9},
	}

	cfg := config.Default().Dynamics
	dynamics.ApplyHebbian(o, cfg, traj, window)

	after, err := o.Edge("c1", "V02")
	require.NoError(t, err)
	require.Greater(t, after.Weight, before.Weight)
}

func TestApplyHebbian_IgnoresEscapedTrajectory(t *testing.T) {
	s, _ := newTestSubstrate(t)
	_, err := s.CreateConcept("c1", "c1")
	require.NoError(t, err)
	o := graph.NewOverlay(s, "agent-1")
	require.NoError(t, o.UpsertEdge("c1", "V02", 0.5))

	traj := &dynamics.Trajectory{Path: []string{"c1", "V02"}, CaptureStep: -1}
	cfg := config.Default().Dynamics
	dynamics.ApplyHebbian(o, cfg, traj, nil)

	after, err := o.Edge("c1", "V02")
	require.NoError(t, err)
	require.Equal(t, 0.5, after.Weight)
}

func TestApplyAntiHebbian_DampensOnEscapeWhenEnabled(t *testing.T) {
	s, _ := newTestSubstrate(t)
	_, err := s.CreateConcept("c1", "c1")
	require.NoError(t, err)
	o := graph.NewOverlay(s, "agent-1")
	require.NoError(t, o.UpsertEdge("c1", "V02", 0.5))

	traj := &dynamics.Trajectory{Path: []string{"c1", "V02"}, CaptureStep: -1}
	cfg := config.Default().Dynamics
	cfg.AntiHebbianOnEscape = true
	cfg.AntiHebbianFactor = 0.5

	dynamics.ApplyAntiHebbian(o, cfg, traj)

	after, err := o.Edge("c1", "V02")
	require.NoError(t, err)
	require.InDelta(t, 0.25, after.Weight, 1e-9)
}
