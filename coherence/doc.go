// Package coherence is the Coherence Evaluator: two-tier scoring of
// an agent's overlay against a deterministic stimulus sample, with
// contextual thresholds supplied by package virtue and a worker-pool
// fan-out across a population (each worker receives an immutable
// registry snapshot and an exclusive mutable borrow of one agent's
// overlay, obtained from a *graph.OverlayStore).
package coherence
