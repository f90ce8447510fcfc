package graph

import "errors"

// Sentinel errors for the Graph Substrate.
var (
	// ErrAnchorMutation names an attempt to alter an anchor's identity
	// (name, tier, cluster, base threshold) after InitAnchors. No operation
	// in this package returns it: the substrate exposes no anchor-mutating
	// operation, and Anchor/Anchors hand out copies.
	ErrAnchorMutation = errors.New("graph: anchor mutation not permitted")

	// ErrUnknownNode is returned when an operation references a node id
	// that does not exist in the substrate.
	ErrUnknownNode = errors.New("graph: unknown node")

	// ErrDuplicateAnchor is returned when InitAnchors is called more than
	// once, or a concept is created reusing an anchor's id.
	ErrDuplicateAnchor = errors.New("graph: duplicate anchor")

	// ErrNotInitialized is returned when an operation requiring anchors
	// runs before InitAnchors has completed.
	ErrNotInitialized = errors.New("graph: substrate not initialized")

	// ErrCrossAnchorEdge is returned when upsert_edge would connect one
	// anchor directly to another (I2).
	ErrCrossAnchorEdge = errors.New("graph: edges between two anchors are not permitted")

	// ErrWeightOutOfRange is returned when a weight falls outside [0, 1] (I4).
	ErrWeightOutOfRange = errors.New("graph: edge weight outside [0, 1]")

	// ErrInvalidAnchorSet is returned by InitAnchors when the supplied
	// definitions do not satisfy I1 (19 anchors, exactly one Foundation).
	ErrInvalidAnchorSet = errors.New("graph: anchor set violates I1")
)

// InvariantBroken is returned by CheckAnchorSet, CheckEdgeBounds and
// CheckAll when a post-mutation invariant scan fails. Kind names the invariant (e.g. "I3").
type InvariantBroken struct {
	Kind    string
	Detail  string
	AgentID string
}

func (e *InvariantBroken) Error() string {
	if e.AgentID != "" {
		return "graph: invariant " + e.Kind + " broken for agent " + e.AgentID + ": " + e.Detail
	}
	return "graph: invariant " + e.Kind + " broken: " + e.Detail
}
