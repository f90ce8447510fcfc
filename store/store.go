// File: store.go
// Role: The narrow adapter contract any graph engine must meet.
package store

import "context"

// Row is one result row from a Cypher query, column values in select order.
type Row []interface{}

// NodeSpec describes a node for MergeNode: one label plus its properties.
// Unknown labels are rejected by the adapter — the persisted layout is a
// closed set.
type NodeSpec struct {
	Label string
	Key   string // property name the merge matches on, e.g. "id"
	KeyVal interface{}
	Props map[string]interface{}
}

// EdgeSpec describes a :CONNECTS relationship for UpsertEdge. Edges are
// keyed by (src, tgt, agent_id) so per-agent overlays coexist in one
// store.
type EdgeSpec struct {
	SrcID    string
	TgtID    string
	AgentID  string
	Weight   float64
	UseCount int
	LastUsed int64 // unix seconds; 0 means never used
}

// GraphStore is the narrow persistence contract: any engine supporting labeled
// nodes, typed edges with properties, and Cypher-like queries qualifies.
type GraphStore interface {
	CreateIndex(ctx context.Context, label, property string) error
	MergeNode(ctx context.Context, spec NodeSpec) error
	UpsertEdge(ctx context.Context, spec EdgeSpec) error
	Query(ctx context.Context, cypher string, params map[string]interface{}) ([]Row, error)
}

// knownLabels is the closed label set of the persisted state layout.
var knownLabels = map[string]struct{}{
	"VirtueAnchor": {},
	"Concept":      {},
	"Agent":        {},
	"Trajectory":   {},
	"Warning":      {},
	"Lesson":       {},
	"Pathway":      {},
}
