package kiln

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ohana-garden/soulkiln/config"
	"github.com/ohana-garden/soulkiln/graph"
	"github.com/ohana-garden/soulkiln/knowledge"
	"github.com/ohana-garden/soulkiln/logctx"
	"github.com/ohana-garden/soulkiln/mercy"
	"github.com/ohana-garden/soulkiln/virtue"
)

func newTestKiln(t *testing.T, population int) *Kiln {
	t.Helper()
	substrate := graph.NewSubstrate()
	registry := virtue.NewRegistry(substrate)
	require.NoError(t, registry.Initialize(virtue.DefaultDefinitions()))

	overlays := graph.NewOverlayStore(substrate)
	pool := knowledge.NewPool()
	mach := mercy.NewMachine(config.Default().Mercy)

	cfg := config.Default()
	cfg.Kiln.Population = population
	cfg.Kiln.Elites = 1
	cfg.Coherence.NStimuli = 20

	rng := rand.New(rand.NewSource(42))
	k := New(substrate, registry, overlays, pool, mach, cfg, logctx.Nop(), rng)
	require.NoError(t, k.EnsureSeedConcepts())
	return k
}

func TestSpawnAgentSatisfiesReachability(t *testing.T) {
	k := newTestKiln(t, 4)
	a, err := k.SpawnAgent("", nil, "")
	require.NoError(t, err)

	overlay, err := k.Overlays.BorrowOverlay(a.ID)
	require.NoError(t, err)
	defer k.Overlays.Release(a.ID)

	unreachable := k.Substrate.CheckReachability(overlay)
	require.Empty(t, unreachable, "self-healing must make every anchor reachable")
}

func TestRunGenerationProducesReport(t *testing.T) {
	k := newTestKiln(t, 6)
	for i := 0; i < 6; i++ {
		_, err := k.SpawnAgent("", nil, "")
		require.NoError(t, err)
	}

	report, err := k.RunGeneration(context.Background())
	require.NoError(t, err)
	require.Equal(t, 0, report.Generation)
	require.Len(t, report.Verdicts, 6)
	require.Equal(t, 1, k.Generation())
	require.LessOrEqual(t, len(k.Population()), k.Cfg.Kiln.Population)
}

func TestSelectionStrategiesDispatch(t *testing.T) {
	for _, name := range []string{"", "Tournament", "Truncation", "Roulette"} {
		fn, err := SelectionFor(name, 3)
		require.NoError(t, err)
		require.NotNil(t, fn)
	}
	_, err := SelectionFor("Bogus", 3)
	require.Error(t, err)
}

func TestSampleBeta22StaysInUnitRange(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 1000; i++ {
		v := sampleBeta22(rng)
		require.GreaterOrEqual(t, v, 0.0)
		require.LessOrEqual(t, v, 1.0)
	}
}
