// File: seed.go
// Role: Loads the 19-virtue seed document and
// provides the built-in default set used by `soulkiln init` when no
// --virtues file is given.
package virtue

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ohana-garden/soulkiln/graph"
)

// seedDoc mirrors the YAML seed document shape: a list of
// {id, name, tier, cluster, base_threshold}.
type seedDoc struct {
	Virtues []seedVirtue `yaml:"virtues"`
}

type seedVirtue struct {
	ID            string  `yaml:"id"`
	Name          string  `yaml:"name"`
	Tier          string  `yaml:"tier"`
	Cluster       string  `yaml:"cluster"`
	BaseThreshold float64 `yaml:"base_threshold"`
}

// LoadDefinitions reads a YAML seed document from path and returns the
// VirtueAnchorDef slice InitAnchors expects. It validates tier spelling
// but defers cardinality/Foundation-count checks to InitAnchors itself.
func LoadDefinitions(path string) ([]graph.VirtueAnchorDef, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("virtue: read seed file %s: %w", path, err)
	}

	var doc seedDoc
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("virtue: parse seed file %s: %w", path, err)
	}

	defs := make([]graph.VirtueAnchorDef, 0, len(doc.Virtues))
	for _, v := range doc.Virtues {
		var tier graph.Tier
		switch v.Tier {
		case string(graph.Foundation):
			tier = graph.Foundation
		case string(graph.Aspirational):
			tier = graph.Aspirational
		default:
			return nil, fmt.Errorf("virtue: virtue %s: unknown tier %q", v.ID, v.Tier)
		}
		defs = append(defs, graph.VirtueAnchorDef{
			ID:            v.ID,
			Name:          v.Name,
			Tier:          tier,
			Cluster:       v.Cluster,
			BaseThreshold: v.BaseThreshold,
		})
	}
	return defs, nil
}

// universalCluster marks anchors not affiliated with any one archetype
// (the Foundation anchor, and two Aspirational virtues every archetype
// shares equally).
const universalCluster = "universal"

// DefaultDefinitions returns the built-in 19-virtue set: one Foundation
// anchor plus four Aspirational virtues per archetype cluster (Guardian,
// Seeker, Servant, Contemplative) plus two universal Aspirational virtues,
// totaling 19. This is domain content, not core logic — the
// specific virtue identities are illustrative defaults, overridable by
// LoadDefinitions.
func DefaultDefinitions() []graph.VirtueAnchorDef {
	return []graph.VirtueAnchorDef{
		{ID: "V01", Name: "Non-Harm", Tier: graph.Foundation, Cluster: universalCluster, BaseThreshold: 0.99},

		{ID: "V02", Name: "Courage", Tier: graph.Aspirational, Cluster: "Guardian", BaseThreshold: 0.75},
		{ID: "V03", Name: "Vigilance", Tier: graph.Aspirational, Cluster: "Guardian", BaseThreshold: 0.75},
		{ID: "V04", Name: "Protection", Tier: graph.Aspirational, Cluster: "Guardian", BaseThreshold: 0.75},
		{ID: "V05", Name: "Justice", Tier: graph.Aspirational, Cluster: "Guardian", BaseThreshold: 0.75},

		{ID: "V06", Name: "Curiosity", Tier: graph.Aspirational, Cluster: "Seeker", BaseThreshold: 0.75},
		{ID: "V07", Name: "Honesty", Tier: graph.Aspirational, Cluster: "Seeker", BaseThreshold: 0.75},
		{ID: "V08", Name: "Discernment", Tier: graph.Aspirational, Cluster: "Seeker", BaseThreshold: 0.75},
		{ID: "V09", Name: "Humility", Tier: graph.Aspirational, Cluster: "Seeker", BaseThreshold: 0.75},

		{ID: "V10", Name: "Generosity", Tier: graph.Aspirational, Cluster: "Servant", BaseThreshold: 0.75},
		{ID: "V11", Name: "Patience", Tier: graph.Aspirational, Cluster: "Servant", BaseThreshold: 0.75},
		{ID: "V12", Name: "Service", Tier: graph.Aspirational, Cluster: "Servant", BaseThreshold: 0.75},
		{ID: "V13", Name: "Loyalty", Tier: graph.Aspirational, Cluster: "Servant", BaseThreshold: 0.75},

		{ID: "V14", Name: "Equanimity", Tier: graph.Aspirational, Cluster: "Contemplative", BaseThreshold: 0.75},
		{ID: "V15", Name: "Gratitude", Tier: graph.Aspirational, Cluster: "Contemplative", BaseThreshold: 0.75},
		{ID: "V16", Name: "Presence", Tier: graph.Aspirational, Cluster: "Contemplative", BaseThreshold: 0.75},
		{ID: "V17", Name: "Forgiveness", Tier: graph.Aspirational, Cluster: "Contemplative", BaseThreshold: 0.75},

		{ID: "V18", Name: "Hope", Tier: graph.Aspirational, Cluster: universalCluster, BaseThreshold: 0.75},
		{ID: "V19", Name: "Wisdom", Tier: graph.Aspirational, Cluster: universalCluster, BaseThreshold: 0.75},
	}
}
