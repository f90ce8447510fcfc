package graph_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ohana-garden/soulkiln/graph"
)

func sampleDefs(t *testing.T) []graph.VirtueAnchorDef {
	t.Helper()
	defs := make([]graph.VirtueAnchorDef, 0, graph.AnchorCount)
	for i := 1; i <= graph.AnchorCount; i++ {
		tier := graph.Aspirational
		if i == 1 {
			tier = graph.Foundation
		}
		defs = append(defs, graph.VirtueAnchorDef{
			ID:            idFor(i),
			Name:          idFor(i),
			Tier:          tier,
			Cluster:       "cluster-a",
			BaseThreshold: 0.8,
		})
	}
	return defs
}

func idFor(i int) string {
	return fmt.Sprintf("V%02d", i)
}

func TestInitAnchors_RequiresExactCardinalityAndSingleFoundation(t *testing.T) {
	s := graph.NewSubstrate()
	require.NoError(t, s.InitAnchors(sampleDefs(t)))
	require.True(t, s.Initialized())
	require.ErrorIs(t, s.InitAnchors(sampleDefs(t)), graph.ErrDuplicateAnchor)

	s2 := graph.NewSubstrate()
	tooFew := sampleDefs(t)[:5]
	require.ErrorIs(t, s2.InitAnchors(tooFew), graph.ErrInvalidAnchorSet)
}

func TestInitAnchors_RejectsZeroOrMultipleFoundation(t *testing.T) {
	defs := sampleDefs(t)
	defs[1].Tier = graph.Foundation // now two Foundation anchors
	s := graph.NewSubstrate()
	require.ErrorIs(t, s.InitAnchors(defs), graph.ErrInvalidAnchorSet)
}

func TestAnchorsAreImmutableAfterInit(t *testing.T) {
	s := graph.NewSubstrate()
	require.NoError(t, s.InitAnchors(sampleDefs(t)))

	before := s.Anchors()
	a, err := s.Anchor("V01")
	require.NoError(t, err)
	a.Name = "mutated-copy-only" // mutating the returned copy...

	after, err := s.Anchor("V01")
	require.NoError(t, err)
	require.NotEqual(t, "mutated-copy-only", after.Name) // ...never touches the store

	require.Equal(t, before, s.Anchors())
}

func TestCreateConcept_RejectsAnchorIDCollision(t *testing.T) {
	s := graph.NewSubstrate()
	require.NoError(t, s.InitAnchors(sampleDefs(t)))

	_, err := s.CreateConcept("V01", "collides-with-anchor")
	require.ErrorIs(t, err, graph.ErrDuplicateAnchor)

	c, err := s.CreateConcept("c1", "courage-in-crisis")
	require.NoError(t, err)
	require.Equal(t, graph.DefaultConceptBaseline, c.BaselineActivation)
}

func TestGetNode_ReturnsKindTaggedRef(t *testing.T) {
	s := graph.NewSubstrate()
	require.NoError(t, s.InitAnchors(sampleDefs(t)))
	_, err := s.CreateConcept("c1", "c1")
	require.NoError(t, err)

	anchorRef, err := s.GetNode("V01")
	require.NoError(t, err)
	require.True(t, anchorRef.IsAnchor())
	require.Equal(t, graph.Foundation, anchorRef.Tier)

	conceptRef, err := s.GetNode("c1")
	require.NoError(t, err)
	require.False(t, conceptRef.IsAnchor())

	_, err = s.GetNode("missing")
	require.ErrorIs(t, err, graph.ErrUnknownNode)
}
