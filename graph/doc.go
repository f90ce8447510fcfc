// Package graph is the Graph Substrate: the typed node/edge store shared by
// every candidate agent, plus the per-agent topology overlay that makes each
// agent's weighted edge set independent of every other agent's.
//
//	Substrate  — owns node identity and anchor data (immutable once
//	             initialized). One per running engine.
//	Overlay    — owns one agent's weighted adjacency over the substrate's
//	             node set. Never shared between agents.
//
// Anchors (virtue nodes) are created once via Substrate.InitAnchors and
// never altered afterward: the substrate exposes no anchor-mutating
// operation, and a second InitAnchors returns ErrDuplicateAnchor.
// Concepts are created and pruned freely. Edges live entirely inside an
// Overlay, keyed by (src, tgt); two overlays never share a mutable edge.
//
// Concurrency: node identity (Substrate) and each Overlay's edge set guard
// themselves with independent sync.RWMutex locks, so substrate reads never
// contend with overlay mutation and overlays never contend with each other.
package graph
