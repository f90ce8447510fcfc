// Package soulkiln models agent moral alignment as a dynamical system on
// a labeled property graph.
//
// Nineteen fixed virtue anchor nodes act as basins of attraction;
// candidate agents are topologies of weighted edges connecting mutable
// concept nodes to those anchors. Activation injected at a stimulus node
// propagates under a nonlinear update rule; a trajectory is captured when
// activation sustains above threshold at an anchor for a minimum dwell
// time. An evolutionary loop selects topologies whose trajectories
// reliably capture into a well-distributed set of virtues; a mercy
// subsystem modulates dissolution with warnings and growth credit.
//
// The module is organized as flat top-level packages:
//
//	graph/       — typed node/edge store, per-agent topology overlays, invariants
//	virtue/      — the 19 anchors, tiers, contextual thresholds
//	dynamics/    — activation spread, capture, Hebbian update, decay, healing
//	coherence/   — two-tier scoring over sampled stimuli, growth tracking
//	knowledge/   — shared lessons and pathways
//	mercy/       — warning lifecycle, harm classification, verdicts
//	kiln/        — the evolutionary generation loop
//	gestalt/     — derived tendencies, archetype, embedding, comparison
//	matrix/      — dense linear-algebra primitives backing gestalt
//	store/       — persistence adapter over a Cypher-speaking graph engine
//	config/      — TOML engine configuration
//	cmd/soulkiln — the CLI command surface
//
// Everything is driven through explicitly passed handles; there is no
// ambient global state anywhere in the module.
package soulkiln
