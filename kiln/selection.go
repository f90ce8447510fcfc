// File: selection.go
// Role: Parent selection strategies as tagged variants dispatched by a
// single function. Each constructor returns a SelectFunc closure;
// SelectionFor dispatches by the config string.
package kiln

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/ohana-garden/soulkiln/agent"
)

// SelectFunc picks n parents from pool (sorted by the caller is not
// assumed) using rng for any randomness.
type SelectFunc func(pool []ScoredAgent, n int, rng *rand.Rand) []*agent.Agent

// SelectionFor dispatches the configured strategy name to its SelectFunc.
// TournamentK is only consulted for "Tournament"; 0 or negative falls back
// to 3.
func SelectionFor(name string, tournamentK int) (SelectFunc, error) {
	switch name {
	case "", "Tournament":
		k := tournamentK
		if k <= 0 {
			k = 3
		}
		return TournamentSelect(k), nil
	case "Truncation":
		return TruncationSelect(), nil
	case "Roulette":
		return RouletteSelect(), nil
	default:
		return nil, fmt.Errorf("kiln: unknown selection strategy %q", name)
	}
}

// TournamentSelect repeatedly draws k candidates uniformly (with
// replacement across draws) and keeps the fittest, n times.
func TournamentSelect(k int) SelectFunc {
	return func(pool []ScoredAgent, n int, rng *rand.Rand) []*agent.Agent {
		if len(pool) == 0 || n <= 0 {
			return nil
		}
		out := make([]*agent.Agent, 0, n)
		for i := 0; i < n; i++ {
			best := pool[rng.Intn(len(pool))]
			for j := 1; j < k; j++ {
				c := pool[rng.Intn(len(pool))]
				if c.Fitness > best.Fitness {
					best = c
				}
			}
			out = append(out, best.Agent)
		}
		return out
	}
}

// TruncationSelect deterministically takes the top-n by fitness, cycling
// through the sorted pool again if n exceeds len(pool).
func TruncationSelect() SelectFunc {
	return func(pool []ScoredAgent, n int, rng *rand.Rand) []*agent.Agent {
		if len(pool) == 0 || n <= 0 {
			return nil
		}
		sorted := make([]ScoredAgent, len(pool))
		copy(sorted, pool)
		sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Fitness > sorted[j].Fitness })

		out := make([]*agent.Agent, n)
		for i := range out {
			out[i] = sorted[i%len(sorted)].Agent
		}
		return out
	}
}

// RouletteSelect draws n parents with probability proportional to
// fitness. If every candidate has zero (or negative, which should not
// occur) fitness, it falls back to a uniform draw to avoid a degenerate
// all-zero wheel.
func RouletteSelect() SelectFunc {
	return func(pool []ScoredAgent, n int, rng *rand.Rand) []*agent.Agent {
		if len(pool) == 0 || n <= 0 {
			return nil
		}
		total := 0.0
		for _, c := range pool {
			if c.Fitness > 0 {
				total += c.Fitness
			}
		}
		out := make([]*agent.Agent, 0, n)
		for i := 0; i < n; i++ {
			if total <= 0 {
				out = append(out, pool[rng.Intn(len(pool))].Agent)
				continue
			}
			pick := rng.Float64() * total
			cum := 0.0
			chosen := pool[len(pool)-1].Agent
			for _, c := range pool {
				if c.Fitness <= 0 {
					continue
				}
				cum += c.Fitness
				if pick <= cum {
					chosen = c.Agent
					break
				}
			}
			out = append(out, chosen)
		}
		return out
	}
}
