package kiln

import (
	"math/rand"
	"sync"

	"github.com/rs/zerolog"

	"github.com/ohana-garden/soulkiln/agent"
	"github.com/ohana-garden/soulkiln/coherence"
	"github.com/ohana-garden/soulkiln/config"
	"github.com/ohana-garden/soulkiln/graph"
	"github.com/ohana-garden/soulkiln/knowledge"
	"github.com/ohana-garden/soulkiln/mercy"
	"github.com/ohana-garden/soulkiln/virtue"
)

// GenerationReport is RunGeneration's return value.
type GenerationReport struct {
	Generation   int
	FitnessMean  float64
	FitnessMax   float64
	FitnessMin   float64
	Verdicts     map[string]coherence.Verdict
	DissolvedIDs []string
	NewIDs       []string
}

// ScoredAgent pairs an Agent with the fitness value selection operates on.
type ScoredAgent struct {
	Agent   *agent.Agent
	Report  *coherence.Report
	Fitness float64
}

// Kiln owns one population's lifecycle across the shared core components.
// It is not safe for concurrent calls to RunGeneration — the generation
// loop is the single-threaded cooperative scheduler driving the pipeline.
type Kiln struct {
	Substrate *graph.Substrate
	Registry  *virtue.Registry
	Overlays  *graph.OverlayStore
	Knowledge *knowledge.Pool
	Mercy     *mercy.Machine
	Cfg       config.Config
	Log       zerolog.Logger

	mu         sync.Mutex
	population []*agent.Agent
	prevReport map[string]*coherence.Report
	generation int
	rng        *rand.Rand
}

// New returns a Kiln over the given core components. rng must be non-nil
// for reproducible crossover, mutation and healing.
func New(substrate *graph.Substrate, registry *virtue.Registry, overlays *graph.OverlayStore,
	pool *knowledge.Pool, mach *mercy.Machine, cfg config.Config, log zerolog.Logger, rng *rand.Rand) *Kiln {
	return &Kiln{
		Substrate:  substrate,
		Registry:   registry,
		Overlays:   overlays,
		Knowledge:  pool,
		Mercy:      mach,
		Cfg:        cfg,
		Log:        log,
		prevReport: make(map[string]*coherence.Report),
		rng:        rng,
	}
}

// Generation returns the current generation counter.
func (k *Kiln) Generation() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.generation
}

// Population returns a copy of the current population slice.
func (k *Kiln) Population() []*agent.Agent {
	k.mu.Lock()
	defer k.mu.Unlock()
	out := make([]*agent.Agent, len(k.population))
	copy(out, k.population)
	return out
}

// fitnessOf derives a scalar fitness from a Report: a weighted blend of
// foundation rate, aspirational rate and coverage breadth, all in
// [0,1]-ish ranges after normalizing coverage by AnchorCount.
func fitnessOf(r *coherence.Report) float64 {
	coverageFrac := float64(r.Coverage) / float64(graph.AnchorCount)
	return 0.4*r.FoundationRate + 0.4*r.AspirationalRate + 0.2*coverageFrac
}
