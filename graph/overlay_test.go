package graph_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ohana-garden/soulkiln/graph"
)

func newInitializedSubstrate(t *testing.T) *graph.Substrate {
	t.Helper()
	s := graph.NewSubstrate()
	require.NoError(t, s.InitAnchors(sampleDefs(t)))
	return s
}

func TestUpsertEdge_RejectsCrossAnchorEdge(t *testing.T) {
	s := newInitializedSubstrate(t)
	o := graph.NewOverlay(s, "agent-1")

	err := o.UpsertEdge("V01", "V02", 0.5)
	require.ErrorIs(t, err, graph.ErrCrossAnchorEdge)
}

func TestUpsertEdge_RejectsWeightOutOfRange(t *testing.T) {
	s := newInitializedSubstrate(t)
	o := graph.NewOverlay(s, "agent-1")
	_, err := s.CreateConcept("c1", "c1")
	require.NoError(t, err)

	require.ErrorIs(t, o.UpsertEdge("c1", "V01", 1.5), graph.ErrWeightOutOfRange)
	require.ErrorIs(t, o.UpsertEdge("c1", "V01", -0.1), graph.ErrWeightOutOfRange)
	require.NoError(t, o.UpsertEdge("c1", "V01", 1.0))
}

func TestOverlaysAreIndependentAfterClone(t *testing.T) {
	s := newInitializedSubstrate(t)
	_, err := s.CreateConcept("c1", "c1")
	require.NoError(t, err)

	parent := graph.NewOverlay(s, "parent")
	require.NoError(t, parent.UpsertEdge("c1", "V01", 0.4))

	child := parent.Clone("child")
	require.NoError(t, child.UpsertEdge("c1", "V01", 0.9))

	pe, err := parent.Edge("c1", "V01")
	require.NoError(t, err)
	require.Equal(t, 0.4, pe.Weight) // mutating the clone never touches the parent

	ce, err := child.Edge("c1", "V01")
	require.NoError(t, err)
	require.Equal(t, 0.9, ce.Weight)
}

func TestRemoveEdgesBelow_ExemptsRecentlyUsedEdges(t *testing.T) {
	s := newInitializedSubstrate(t)
	_, err := s.CreateConcept("c1", "c1")
	require.NoError(t, err)

	o := graph.NewOverlay(s, "agent-1")
	require.NoError(t, o.UpsertEdge("c1", "V01", 0.005))
	require.NoError(t, o.TouchEdge("c1", "V01", 0.005)) // marks LastUsed = now

	now := time.Now()
	removed := o.RemoveEdgesBelow(0.01, time.Hour, now)
	require.Empty(t, removed, "recently used edge must be exempt from removal")

	removed = o.RemoveEdgesBelow(0.01, 0, now)
	require.Len(t, removed, 1)
	require.Equal(t, 0, o.EdgeCount())
}

func TestCheckReachability_FlagsUnreachableAnchor(t *testing.T) {
	s := newInitializedSubstrate(t)
	_, err := s.CreateConcept("c1", "c1")
	require.NoError(t, err)

	o := graph.NewOverlay(s, "agent-1")
	require.NoError(t, o.UpsertEdge("c1", "V01", 0.5))

	unreachable := s.CheckReachability(o)
	require.Len(t, unreachable, graph.AnchorCount-1)
	require.NotContains(t, unreachable, "V01")
	require.Contains(t, unreachable, "V02")
}

func TestOverlayStore_BorrowIsExclusive(t *testing.T) {
	s := newInitializedSubstrate(t)
	store := graph.NewOverlayStore(s)
	store.Create("agent-1")

	o, err := store.BorrowOverlay("agent-1")
	require.NoError(t, err)
	require.NotNil(t, o)

	_, err = store.BorrowOverlay("agent-1")
	require.Error(t, err)

	store.Release("agent-1")
	_, err = store.BorrowOverlay("agent-1")
	require.NoError(t, err)
}
