// File: archetype.go
// Role: Archetype derivation: argmax over four cluster
// affinities if the leader exceeds the runner-up by >= 0.10, else Untyped.
package gestalt

import (
	"github.com/ohana-garden/soulkiln/agent"
	"github.com/ohana-garden/soulkiln/virtue"
)

// clusterAffinities computes one affinity per archetype cluster: the mean
// character-signature share over that cluster's virtues. Clusters with no
// designated virtues (there are none in the default seed) get affinity 0.
func clusterAffinities(registry *virtue.Registry, signature map[string]float64) map[agent.Archetype]float64 {
	sums := make(map[agent.Archetype]float64, len(clusterOrder))
	counts := make(map[agent.Archetype]int, len(clusterOrder))
	for _, a := range registry.List() {
		cluster := agent.Archetype(a.Cluster)
		if !isClusterArchetype(cluster) {
			continue
		}
		sums[cluster] += signature[a.ID]
		counts[cluster]++
	}

	out := make(map[agent.Archetype]float64, len(clusterOrder))
	for _, c := range clusterOrder {
		if counts[c] > 0 {
			out[c] = sums[c] / float64(counts[c])
		}
	}
	return out
}

func isClusterArchetype(a agent.Archetype) bool {
	for _, c := range clusterOrder {
		if c == a {
			return true
		}
	}
	return false
}

// deriveArchetype applies the argmax-with-margin rule over affinities.
func deriveArchetype(affinities map[agent.Archetype]float64) agent.Archetype {
	leader := clusterOrder[0]
	leaderVal := affinities[leader]
	runnerUpVal := -1.0

	for _, c := range clusterOrder[1:] {
		v := affinities[c]
		switch {
		case v > leaderVal:
			runnerUpVal = leaderVal
			leader, leaderVal = c, v
		case v > runnerUpVal:
			runnerUpVal = v
		}
	}
	if runnerUpVal < 0 {
		runnerUpVal = 0
	}
	if leaderVal-runnerUpVal >= archetypeMargin {
		return leader
	}
	return agent.Untyped
}
