// File: persist.go
// Role: Batched snapshot persistence and startup hydration. All writes
// happen at generation boundaries or at CLI verb boundaries, never inside
// a spread run.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/ohana-garden/soulkiln/agent"
	"github.com/ohana-garden/soulkiln/graph"
	"github.com/ohana-garden/soulkiln/knowledge"
	"github.com/ohana-garden/soulkiln/mercy"
)

// indexSpecs is the documented index set of the persisted state layout.
var indexSpecs = []struct{ label, property string }{
	{"Agent", "id"},
	{"VirtueAnchor", "id"},
	{"Warning", "agent_id"},
	{"Pathway", "anchor_id"},
}

// EnsureIndexes creates the four documented indexes; idempotent.
func (c *Client) EnsureIndexes(ctx context.Context) error {
	for _, s := range indexSpecs {
		if err := c.CreateIndex(ctx, s.label, s.property); err != nil {
			return fmt.Errorf("store: EnsureIndexes(%s.%s): %w", s.label, s.property, err)
		}
	}
	return nil
}

// AnchorsPresent reports whether the store already holds virtue anchors,
// used by `init` to refuse re-initialization without --force.
func (c *Client) AnchorsPresent(ctx context.Context) (bool, error) {
	rows, err := c.Query(ctx, "MATCH (v:VirtueAnchor) RETURN count(v)", nil)
	if err != nil {
		return false, err
	}
	if len(rows) == 0 || len(rows[0]) == 0 {
		return false, nil
	}
	n, ok := toInt64(rows[0][0])
	return ok && n > 0, nil
}

// SaveAnchors persists every anchor node. Called once, at `init`.
func (c *Client) SaveAnchors(ctx context.Context, anchors []*graph.VirtueAnchor) error {
	for _, a := range anchors {
		spec := NodeSpec{
			Label:  "VirtueAnchor",
			Key:    "id",
			KeyVal: a.ID,
			Props: map[string]interface{}{
				"name":                a.Name,
				"tier":                string(a.Tier),
				"cluster":             a.Cluster,
				"base_threshold":      a.BaseThreshold,
				"baseline_activation": a.BaselineActivation,
			},
		}
		if err := c.MergeNode(ctx, spec); err != nil {
			return fmt.Errorf("store: SaveAnchors(%s): %w", a.ID, err)
		}
	}
	return nil
}

// SaveConcepts persists the shared concept nodes.
func (c *Client) SaveConcepts(ctx context.Context, concepts []*graph.Concept) error {
	for _, cn := range concepts {
		spec := NodeSpec{
			Label:  "Concept",
			Key:    "id",
			KeyVal: cn.ID,
			Props: map[string]interface{}{
				"name":                cn.Name,
				"baseline_activation": cn.BaselineActivation,
			},
		}
		if err := c.MergeNode(ctx, spec); err != nil {
			return fmt.Errorf("store: SaveConcepts(%s): %w", cn.ID, err)
		}
	}
	return nil
}

// SaveAgent persists one agent's record.
func (c *Client) SaveAgent(ctx context.Context, a *agent.Agent) error {
	spec := NodeSpec{
		Label:  "Agent",
		Key:    "id",
		KeyVal: a.ID,
		Props: map[string]interface{}{
			"archetype":  string(a.Archetype),
			"generation": a.Generation,
			"parent_ids": a.ParentIDs,
			"binding":    a.Binding,
			"status":     string(a.Status),
		},
	}
	return c.MergeNode(ctx, spec)
}

// SaveOverlay persists every edge of one agent's overlay snapshot.
func (c *Client) SaveOverlay(ctx context.Context, snap graph.OverlaySnapshot) error {
	for _, e := range snap.Edges {
		spec := EdgeSpec{
			SrcID:    e.Src,
			TgtID:    e.Tgt,
			AgentID:  snap.AgentID,
			Weight:   e.Weight,
			UseCount: e.UseCount,
		}
		if !e.LastUsed.IsZero() {
			spec.LastUsed = e.LastUsed.Unix()
		}
		if err := c.UpsertEdge(ctx, spec); err != nil {
			return fmt.Errorf("store: SaveOverlay(%s): %s->%s: %w", snap.AgentID, e.Src, e.Tgt, err)
		}
	}
	return nil
}

// DeleteAgent removes the agent node, its overlay edges, and its warnings.
// Lessons and pathways are deliberately untouched: salvage outlives the
// agent.
func (c *Client) DeleteAgent(ctx context.Context, agentID string) error {
	queries := []string{
		"MATCH ()-[e:CONNECTS {agent_id: $agent_id}]->() DELETE e",
		"MATCH (w:Warning {agent_id: $agent_id}) DELETE w",
		"MATCH (a:Agent {id: $agent_id}) DELETE a",
	}
	params := map[string]interface{}{"agent_id": agentID}
	for _, q := range queries {
		if _, err := c.Query(ctx, q, params); err != nil {
			return fmt.Errorf("store: DeleteAgent(%s): %w", agentID, err)
		}
	}
	return nil
}

// SaveWarning persists one active warning.
func (c *Client) SaveWarning(ctx context.Context, w *mercy.Warning) error {
	spec := NodeSpec{
		Label:  "Warning",
		Key:    "id",
		KeyVal: w.ID,
		Props: map[string]interface{}{
			"agent_id":   w.AgentID,
			"virtue_id":  w.VirtueID,
			"severity":   string(w.Severity),
			"reason":     w.Reason,
			"issued_at":  w.IssuedAt.Unix(),
			"expires_at": w.ExpiresAt.Unix(),
		},
	}
	return c.MergeNode(ctx, spec)
}

// DeleteAgentWarnings removes every persisted warning for one agent,
// called before re-saving the currently active set so expired warnings do
// not accumulate as dead nodes.
func (c *Client) DeleteAgentWarnings(ctx context.Context, agentID string) error {
	_, err := c.Query(ctx, "MATCH (w:Warning {agent_id: $agent_id}) DELETE w",
		map[string]interface{}{"agent_id": agentID})
	return err
}

// LoadActiveWarnings returns every warning not yet expired at now, in
// issue order, for replay into a fresh mercy machine. Because the mercy
// state doubles as the active-warning count, replaying exactly the active
// set reconstructs each agent's state.
func (c *Client) LoadActiveWarnings(ctx context.Context, now int64) ([]mercy.Warning, error) {
	rows, err := c.Query(ctx,
		"MATCH (w:Warning) WHERE w.expires_at > $now "+
			"RETURN w.agent_id, w.virtue_id, w.severity, w.reason, w.issued_at ORDER BY w.issued_at",
		map[string]interface{}{"now": now})
	if err != nil {
		return nil, err
	}
	out := make([]mercy.Warning, 0, len(rows))
	for _, row := range rows {
		if len(row) < 5 {
			return nil, fmt.Errorf("store: LoadActiveWarnings: short row (%d cols)", len(row))
		}
		issued, _ := toInt64(row[4])
		out = append(out, mercy.Warning{
			AgentID:  toString(row[0]),
			VirtueID: toString(row[1]),
			Severity: mercy.Severity(toString(row[2])),
			Reason:   toString(row[3]),
			IssuedAt: time.Unix(issued, 0),
		})
	}
	return out, nil
}

// SaveLesson persists one lesson.
func (c *Client) SaveLesson(ctx context.Context, l *knowledge.Lesson) error {
	spec := NodeSpec{
		Label:  "Lesson",
		Key:    "id",
		KeyVal: l.ID,
		Props: map[string]interface{}{
			"kind":            string(l.Kind),
			"source_agent_id": l.SourceAgentID,
			"virtue_id":       l.VirtueID,
			"description":     l.Description,
			"created_at":      l.CreatedAt.Unix(),
			"access_count":    l.AccessCount,
			"flagged":         l.Flagged,
		},
	}
	return c.MergeNode(ctx, spec)
}

// SavePathway persists one pathway keyed by its (start, anchor) identity.
func (c *Client) SavePathway(ctx context.Context, p *knowledge.Pathway) error {
	spec := NodeSpec{
		Label:  "Pathway",
		Key:    "id",
		KeyVal: p.ID,
		Props: map[string]interface{}{
			"start_node_id":     p.StartNodeID,
			"anchor_id":         p.AnchorID,
			"path":              p.Path,
			"length":            p.Length,
			"mean_capture_step": p.MeanCaptureStep,
			"success_rate":      p.SuccessRate,
			"uses":              p.Uses,
		},
	}
	return c.MergeNode(ctx, spec)
}

// LoadAnchorDefs hydrates the anchor definitions saved by a prior `init`.
func (c *Client) LoadAnchorDefs(ctx context.Context) ([]graph.VirtueAnchorDef, error) {
	rows, err := c.Query(ctx,
		"MATCH (v:VirtueAnchor) RETURN v.id, v.name, v.tier, v.cluster, v.base_threshold ORDER BY v.id", nil)
	if err != nil {
		return nil, err
	}
	defs := make([]graph.VirtueAnchorDef, 0, len(rows))
	for _, row := range rows {
		if len(row) < 5 {
			return nil, fmt.Errorf("store: LoadAnchorDefs: short row (%d cols)", len(row))
		}
		threshold, ok := toFloat64(row[4])
		if !ok {
			return nil, fmt.Errorf("store: LoadAnchorDefs: bad base_threshold %v", row[4])
		}
		defs = append(defs, graph.VirtueAnchorDef{
			ID:            toString(row[0]),
			Name:          toString(row[1]),
			Tier:          graph.Tier(toString(row[2])),
			Cluster:       toString(row[3]),
			BaseThreshold: threshold,
		})
	}
	return defs, nil
}

// LoadConcepts hydrates the shared concept nodes.
func (c *Client) LoadConcepts(ctx context.Context) ([]graph.Concept, error) {
	rows, err := c.Query(ctx, "MATCH (n:Concept) RETURN n.id, n.name ORDER BY n.id", nil)
	if err != nil {
		return nil, err
	}
	out := make([]graph.Concept, 0, len(rows))
	for _, row := range rows {
		if len(row) < 2 {
			return nil, fmt.Errorf("store: LoadConcepts: short row (%d cols)", len(row))
		}
		out = append(out, graph.Concept{ID: toString(row[0]), Name: toString(row[1])})
	}
	return out, nil
}

// LoadAgents hydrates every non-dissolved agent record.
func (c *Client) LoadAgents(ctx context.Context) ([]agent.Agent, error) {
	rows, err := c.Query(ctx,
		"MATCH (a:Agent) WHERE a.status <> 'Dissolved' "+
			"RETURN a.id, a.archetype, a.generation, a.binding, a.status ORDER BY a.id", nil)
	if err != nil {
		return nil, err
	}
	out := make([]agent.Agent, 0, len(rows))
	for _, row := range rows {
		if len(row) < 5 {
			return nil, fmt.Errorf("store: LoadAgents: short row (%d cols)", len(row))
		}
		gen, _ := toInt64(row[2])
		out = append(out, agent.Agent{
			ID:         toString(row[0]),
			Archetype:  agent.Archetype(toString(row[1])),
			Generation: int(gen),
			Binding:    toString(row[3]),
			Status:     agent.Status(toString(row[4])),
		})
	}
	return out, nil
}

// LoadOverlayEdges hydrates one agent's overlay edges as (src, tgt, weight)
// triples for replay into a fresh graph.Overlay.
func (c *Client) LoadOverlayEdges(ctx context.Context, agentID string) ([]EdgeSpec, error) {
	rows, err := c.Query(ctx,
		"MATCH (s)-[e:CONNECTS {agent_id: $agent_id}]->(t) "+
			"RETURN s.id, t.id, e.weight, e.use_count, e.last_used",
		map[string]interface{}{"agent_id": agentID})
	if err != nil {
		return nil, err
	}
	out := make([]EdgeSpec, 0, len(rows))
	for _, row := range rows {
		if len(row) < 5 {
			return nil, fmt.Errorf("store: LoadOverlayEdges: short row (%d cols)", len(row))
		}
		weight, _ := toFloat64(row[2])
		useCount, _ := toInt64(row[3])
		lastUsed, _ := toInt64(row[4])
		out = append(out, EdgeSpec{
			SrcID:    toString(row[0]),
			TgtID:    toString(row[1]),
			AgentID:  agentID,
			Weight:   weight,
			UseCount: int(useCount),
			LastUsed: lastUsed,
		})
	}
	return out, nil
}

// Reply-value coercions: RESP replies surface integers as int64 and
// everything else as strings, so numeric properties may arrive either way.

func toString(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%v", v)
}

func toInt64(v interface{}) (int64, bool) {
	switch x := v.(type) {
	case int64:
		return x, true
	case int:
		return int64(x), true
	case float64:
		return int64(x), true
	case string:
		var n int64
		if _, err := fmt.Sscanf(x, "%d", &n); err == nil {
			return n, true
		}
	}
	return 0, false
}

func toFloat64(v interface{}) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case int64:
		return float64(x), true
	case string:
		var f float64
		if _, err := fmt.Sscanf(x, "%g", &f); err == nil {
			return f, true
		}
	}
	return 0, false
}
