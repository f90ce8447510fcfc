// File: engine.go
// Role: Explicitly passed engine handle:
// substrate, registry, knowledge, mercy and config wired together once per
// CLI invocation, hydrated from and persisted to the external store.
package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/ohana-garden/soulkiln/agent"
	"github.com/ohana-garden/soulkiln/config"
	"github.com/ohana-garden/soulkiln/graph"
	"github.com/ohana-garden/soulkiln/kiln"
	"github.com/ohana-garden/soulkiln/knowledge"
	"github.com/ohana-garden/soulkiln/logctx"
	"github.com/ohana-garden/soulkiln/mercy"
	"github.com/ohana-garden/soulkiln/soulkilnerr"
	"github.com/ohana-garden/soulkiln/store"
	"github.com/ohana-garden/soulkiln/virtue"
)

// engine bundles the core components behind one handle. No package-level
// state: every command builds its own engine and tears it down.
type engine struct {
	cfg config.Config
	log zerolog.Logger

	st        *store.Client
	substrate *graph.Substrate
	registry  *virtue.Registry
	overlays  *graph.OverlayStore
	pool      *knowledge.Pool
	machine   *mercy.Machine
	forge     *kiln.Kiln
}

func loadConfig() (config.Config, error) {
	if flagConfig == "" {
		return config.Default(), nil
	}
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return config.Config{}, fmt.Errorf("%w: %v", soulkilnerr.ErrInvalidConfig, err)
	}
	return cfg, nil
}

func newLogger() zerolog.Logger {
	log := logctx.New("soulkiln", os.Stderr)
	if !flagVerbose {
		log = log.Level(zerolog.InfoLevel)
	}
	return log
}

// connectStore opens the store connection shared by every verb.
func connectStore(ctx context.Context, log zerolog.Logger) (*store.Client, error) {
	return store.New(ctx, store.Options{Addr: flagStoreAddr, GraphName: flagGraphName}, log)
}

// newEngine connects, hydrates anchors/concepts/agents from the store and
// wires the components. When requireInit is set and no anchors exist yet,
// it fails with an error telling the operator to run `soulkiln init`.
func newEngine(ctx context.Context, requireInit bool) (*engine, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	log := newLogger()

	st, err := connectStore(ctx, log)
	if err != nil {
		return nil, err
	}

	e := &engine{
		cfg:       cfg,
		log:       log,
		st:        st,
		substrate: graph.NewSubstrate(),
		pool:      knowledge.NewPool(),
		machine:   mercy.NewMachine(cfg.Mercy),
	}
	e.registry = virtue.NewRegistry(e.substrate)
	e.overlays = graph.NewOverlayStore(e.substrate)
	e.forge = kiln.New(e.substrate, e.registry, e.overlays, e.pool, e.machine,
		cfg, log, rand.New(rand.NewSource(flagSeed)))

	defs, err := st.LoadAnchorDefs(ctx)
	if err != nil {
		st.Close()
		return nil, err
	}
	if len(defs) == 0 {
		if requireInit {
			st.Close()
			return nil, fmt.Errorf("substrate not initialized; run `soulkiln init` first")
		}
		return e, nil
	}
	if err := e.registry.Initialize(defs); err != nil {
		st.Close()
		return nil, fmt.Errorf("hydrate anchors: %w", err)
	}

	if err := e.hydrate(ctx); err != nil {
		st.Close()
		return nil, err
	}
	return e, nil
}

// hydrate restores concepts, agents and their overlays from the store.
func (e *engine) hydrate(ctx context.Context) error {
	concepts, err := e.st.LoadConcepts(ctx)
	if err != nil {
		return err
	}
	for _, c := range concepts {
		if _, err := e.substrate.CreateConcept(c.ID, c.Name); err != nil {
			return fmt.Errorf("hydrate concept %s: %w", c.ID, err)
		}
	}

	agents, err := e.st.LoadAgents(ctx)
	if err != nil {
		return err
	}
	for i := range agents {
		a := agents[i]
		overlay := e.overlays.Create(a.ID)
		edges, err := e.st.LoadOverlayEdges(ctx, a.ID)
		if err != nil {
			return err
		}
		for _, es := range edges {
			restored := graph.Edge{
				Src:      es.SrcID,
				Tgt:      es.TgtID,
				Weight:   es.Weight,
				UseCount: es.UseCount,
			}
			if es.LastUsed > 0 {
				restored.LastUsed = time.Unix(es.LastUsed, 0)
			}
			if err := overlay.RestoreEdge(restored); err != nil {
				return fmt.Errorf("hydrate overlay %s: %w", a.ID, err)
			}
		}
		e.forge.Adopt(&a)
	}

	// Replay still-active warnings in issue order; the mercy state doubles
	// as the active-warning count, so this reconstructs each agent's state.
	warnings, err := e.st.LoadActiveWarnings(ctx, time.Now().Unix())
	if err != nil {
		return err
	}
	for _, w := range warnings {
		e.machine.IssueWarning(w.AgentID, w.Severity, w.VirtueID, w.Reason, w.IssuedAt, false)
	}
	return nil
}

// persist writes the engine's mutable state back as one batch: concepts,
// agents with their overlays, active warnings, lessons and pathways.
func (e *engine) persist(ctx context.Context) error {
	if err := e.st.SaveConcepts(ctx, e.substrate.Concepts()); err != nil {
		return err
	}

	now := time.Now()
	for _, a := range e.forge.Population() {
		if err := e.st.SaveAgent(ctx, a); err != nil {
			return err
		}
		overlay, err := e.overlays.BorrowOverlay(a.ID)
		if err != nil {
			continue // dissolved this run; DeleteAgent already handled it
		}
		snap := overlay.Snapshot()
		e.overlays.Release(a.ID)
		if err := e.st.SaveOverlay(ctx, snap); err != nil {
			return err
		}
		if err := e.st.DeleteAgentWarnings(ctx, a.ID); err != nil {
			return err
		}
		for _, w := range e.machine.ActiveWarnings(a.ID, now) {
			if err := e.st.SaveWarning(ctx, w); err != nil {
				return err
			}
		}
	}

	for _, l := range e.pool.AllLessons() {
		if err := e.st.SaveLesson(ctx, l); err != nil {
			return err
		}
	}
	for _, p := range e.pool.AllPathways() {
		if err := e.st.SavePathway(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

func (e *engine) close() {
	if e.st != nil {
		_ = e.st.Close()
	}
}

// findAgent resolves an agent id in the hydrated population.
func (e *engine) findAgent(id string) (*agent.Agent, error) {
	for _, a := range e.forge.Population() {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", soulkilnerr.ErrUnknownAgent, id)
}
