// File: cache.go
// Role: Gestalt caching supplement: compute_gestalt
// results are keyed by (agent.id, last_evaluation_id) and memoized, since
// recomputing on every call when the underlying evaluation hasn't changed
// is wasted work the Kiln's generation loop would otherwise pay every tick.
package gestalt

import (
	"sync"

	"github.com/ohana-garden/soulkiln/agent"
	"github.com/ohana-garden/soulkiln/coherence"
	"github.com/ohana-garden/soulkiln/graph"
	"github.com/ohana-garden/soulkiln/virtue"
)

type cacheEntry struct {
	evaluationID string
	g            *Gestalt
}

// Cache memoizes ComputeGestalt per agent, invalidated whenever the
// agent's Report carries a new EvaluationID.
type Cache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
}

// NewCache returns an empty Cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]cacheEntry)}
}

// Compute returns the cached Gestalt for a if report.EvaluationID matches
// the cached entry's, else computes and caches a fresh one. A nil report
// is never cached (always recomputed) since it carries no evaluation id
// to key on.
func (c *Cache) Compute(substrate *graph.Substrate, registry *virtue.Registry, overlay *graph.Overlay,
	a *agent.Agent, report *coherence.Report) *Gestalt {

	if report == nil {
		return ComputeGestalt(substrate, registry, overlay, a, nil)
	}

	c.mu.Lock()
	if e, ok := c.entries[a.ID]; ok && e.evaluationID == report.EvaluationID {
		c.mu.Unlock()
		return e.g
	}
	c.mu.Unlock()

	g := ComputeGestalt(substrate, registry, overlay, a, report)

	c.mu.Lock()
	c.entries[a.ID] = cacheEntry{evaluationID: report.EvaluationID, g: g}
	c.mu.Unlock()
	return g
}

// Forget evicts agentID's cached entry, called when an agent is dissolved.
func (c *Cache) Forget(agentID string) {
	c.mu.Lock()
	delete(c.entries, agentID)
	c.mu.Unlock()
}
