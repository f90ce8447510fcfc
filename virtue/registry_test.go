package virtue_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ohana-garden/soulkiln/agent"
	"github.com/ohana-garden/soulkiln/graph"
	"github.com/ohana-garden/soulkiln/virtue"
)

func newTestRegistry(t *testing.T) *virtue.Registry {
	t.Helper()
	s := graph.NewSubstrate()
	r := virtue.NewRegistry(s)
	require.NoError(t, r.Initialize(virtue.DefaultDefinitions()))
	return r
}

func TestDefaultDefinitions_SatisfyCardinalityAndFoundationCount(t *testing.T) {
	r := newTestRegistry(t)
	require.Len(t, r.List(), graph.AnchorCount)

	foundationCount := 0
	for _, a := range r.List() {
		if a.Tier == graph.Foundation {
			foundationCount++
		}
	}
	require.Equal(t, 1, foundationCount)
}

func TestThreshold_FoundationIsConstant(t *testing.T) {
	r := newTestRegistry(t)
	for _, arch := range []agent.Archetype{agent.Guardian, agent.Seeker, agent.Untyped} {
		for _, gen := range []int{0, 5, 50} {
			th, ok := r.Threshold("V01", arch, gen)
			require.True(t, ok)
			require.Equal(t, virtue.FoundationThreshold, th)
		}
	}
}

func TestThreshold_ArchetypeBonusAppliesOnlyToMatchingCluster(t *testing.T) {
	r := newTestRegistry(t)

	guardianOnGuardianVirtue, ok := r.Threshold("V02", agent.Guardian, 5)
	require.True(t, ok)
	seekerOnGuardianVirtue, ok := r.Threshold("V02", agent.Seeker, 5)
	require.True(t, ok)

	require.Greater(t, guardianOnGuardianVirtue, seekerOnGuardianVirtue)
	require.InDelta(t, 0.10, guardianOnGuardianVirtue-seekerOnGuardianVirtue, 1e-9)
}

func TestThreshold_GenerationBonusBreakpoints(t *testing.T) {
	r := newTestRegistry(t)

	early, _ := r.Threshold("V18", agent.Untyped, 0)
	mid, _ := r.Threshold("V18", agent.Untyped, 5)
	mature, _ := r.Threshold("V18", agent.Untyped, 10)

	require.Less(t, early, mid)
	require.Less(t, mid, mature)
}

func TestThreshold_ClampsToPublishedBounds(t *testing.T) {
	s := graph.NewSubstrate()
	r := virtue.NewRegistry(s)
	defs := virtue.DefaultDefinitions()
	// Push one virtue's base far outside [0.5, 0.95] to exercise clamping.
	for i := range defs {
		if defs[i].ID == "V02" {
			defs[i].BaseThreshold = 0.99
		}
	}
	require.NoError(t, r.Initialize(defs))

	th, ok := r.Threshold("V02", agent.Guardian, 10) // +0.10 archetype, +0.05 generation
	require.True(t, ok)
	require.LessOrEqual(t, th, 0.95)
}

func TestThreshold_UnknownVirtueReturnsFalse(t *testing.T) {
	r := newTestRegistry(t)
	_, ok := r.Threshold("V99", agent.Untyped, 0)
	require.False(t, ok)
}

func TestClusterOfAndIsFoundation(t *testing.T) {
	r := newTestRegistry(t)
	require.True(t, r.IsFoundation("V01"))
	require.False(t, r.IsFoundation("V02"))
	require.Equal(t, "Guardian", r.ClusterOf("V02"))
}
