// File: spawn.go
// Role: Agent creation, both for the initial population and for offspring.
package kiln

import (
	"fmt"
	"math/rand"

	"github.com/google/uuid"

	"github.com/ohana-garden/soulkiln/agent"
	"github.com/ohana-garden/soulkiln/dynamics"
	"github.com/ohana-garden/soulkiln/graph"
)

// seedConceptCount is the number of shared stimulus concepts every fresh
// overlay draws its initial sparse edges from.
const seedConceptCount = 12

// sparseEdgeProb is the probability a fresh overlay gets a given
// concept->anchor edge before self-healing patches any remaining gaps.
const sparseEdgeProb = 0.15

// EnsureSeedConcepts creates the shared pool of stimulus concepts new
// agents draw their initial topology from, if they do not already exist.
// Idempotent: CreateConcept itself is idempotent.
func (k *Kiln) EnsureSeedConcepts() error {
	for i := 0; i < seedConceptCount; i++ {
		id := fmt.Sprintf("seed-%02d", i)
		if _, err := k.Substrate.CreateConcept(id, id); err != nil {
			return fmt.Errorf("kiln: EnsureSeedConcepts: %w", err)
		}
	}
	return nil
}

// SpawnAgent creates a new agent with a freshly generated sparse overlay,
// self-healed to satisfy I3, and adds it to the population (the
// `spawn` verb's entry point). archetype may be agent.Untyped;
// parentIDs/binding are optional.
func (k *Kiln) SpawnAgent(archetype agent.Archetype, parentIDs []string, binding string) (*agent.Agent, error) {
	if err := k.EnsureSeedConcepts(); err != nil {
		return nil, err
	}

	a := &agent.Agent{
		ID:         uuid.NewString(),
		Archetype:  archetype,
		Generation: k.Generation(),
		ParentIDs:  parentIDs,
		Binding:    binding,
		Status:     agent.Evolving,
	}

	overlay := k.Overlays.Create(a.ID)
	k.seedSparseTopology(overlay)
	dynamics.ApplySelfHealing(k.Substrate, overlay, k.Cfg.Dynamics, k.rng)
	// Self-healing reconnects stranded concepts only; give every anchor
	// that no concept reaches an edge from a random concept (I3).
	if concepts := k.Substrate.Concepts(); len(concepts) > 0 {
		for _, id := range k.Substrate.CheckReachability(overlay) {
			src := concepts[k.rng.Intn(len(concepts))]
			_ = overlay.UpsertEdge(src.ID, id, k.Cfg.Dynamics.HealEdgeWeight)
		}
	}

	k.mu.Lock()
	k.population = append(k.population, a)
	k.mu.Unlock()
	return a, nil
}

func (k *Kiln) seedSparseTopology(overlay *graph.Overlay) {
	concepts := k.Substrate.Concepts()
	anchors := k.Substrate.Anchors()
	for _, c := range concepts {
		for _, an := range anchors {
			if k.rng.Float64() < sparseEdgeProb {
				_ = overlay.UpsertEdge(c.ID, an.ID, 0.1+k.rng.Float64()*0.4)
			}
		}
	}
}

// Adopt registers an existing agent (rehydrated from the external store)
// into the population without touching its overlay, which the caller has
// already restored into the overlay store.
func (k *Kiln) Adopt(a *agent.Agent) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.population = append(k.population, a)
	if a.Generation > k.generation {
		k.generation = a.Generation
	}
}

// spawnOffspring builds one child from two parents via Crossover+Mutate
// and registers it in the population under a fresh id.
func (k *Kiln) spawnOffspring(parentA, parentB *agent.Agent, rng *rand.Rand) (*agent.Agent, error) {
	overlayA, err := k.Overlays.BorrowOverlay(parentA.ID)
	if err != nil {
		return nil, fmt.Errorf("kiln: spawnOffspring: borrow %s: %w", parentA.ID, err)
	}
	defer k.Overlays.Release(parentA.ID)
	overlayB, err := k.Overlays.BorrowOverlay(parentB.ID)
	if err != nil {
		return nil, fmt.Errorf("kiln: spawnOffspring: borrow %s: %w", parentB.ID, err)
	}
	defer k.Overlays.Release(parentB.ID)

	childID := uuid.NewString()
	child := Crossover(k.Substrate, overlayA, overlayB, childID, rng)
	Mutate(k.Substrate, child, k.Cfg.Kiln, k.Cfg.Dynamics, rng)
	k.Overlays.Adopt(child)

	a := &agent.Agent{
		ID:         childID,
		Archetype:  agent.Untyped,
		Generation: k.generation + 1,
		ParentIDs:  []string{parentA.ID, parentB.ID},
		Status:     agent.Evolving,
	}
	return a, nil
}
