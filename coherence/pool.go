// File: pool.go
// Role: Worker-pool fan-out of Evaluate across a population. Evaluation
// is embarrassingly parallel over agents: each worker receives an
// immutable view of the registry and an exclusive mutable borrow of one
// agent's overlay.
package coherence

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/ohana-garden/soulkiln/agent"
	"github.com/ohana-garden/soulkiln/config"
	"github.com/ohana-garden/soulkiln/graph"
	"github.com/ohana-garden/soulkiln/virtue"
)

// EvaluatePopulation evaluates every agent in agents concurrently, each
// against its own overlay borrowed exclusively from store. prevReports
// supplies each agent's previous Report for growth_delta, keyed by agent
// id; a missing entry is treated as "no previous report."
//
// Results are collected before returning ("outputs are collected
// before selection, a barrier"); per-agent evaluation order is
// unobservable, but the returned map is keyed by agent id so callers never
// depend on it.
func EvaluatePopulation(ctx context.Context, substrate *graph.Substrate, registry *virtue.Registry,
	store *graph.OverlayStore, ccfg config.Coherence, dcfg config.Dynamics,
	agents []*agent.Agent, prevReports map[string]*Report) (map[string]*Report, error) {

	var mu sync.Mutex
	out := make(map[string]*Report, len(agents))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(poolSize(len(agents)))
	for _, a := range agents {
		a := a
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			overlay, err := store.BorrowOverlay(a.ID)
			if err != nil {
				return fmt.Errorf("coherence: EvaluatePopulation: borrow %s: %w", a.ID, err)
			}
			defer store.Release(a.ID)

			report, err := Evaluate(substrate, registry, overlay, a, dcfg, ccfg, nil, prevReports[a.ID])
			if err != nil {
				return fmt.Errorf("coherence: EvaluatePopulation: %w", err)
			}

			mu.Lock()
			out[a.ID] = report
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// poolSize bounds the worker pool at min(population, GOMAXPROCS).
func poolSize(population int) int {
	limit := runtime.GOMAXPROCS(0)
	if population < limit {
		limit = population
	}
	if limit < 1 {
		limit = 1
	}
	return limit
}
