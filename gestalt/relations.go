// File: relations.go
// Role: The 8 relation_stats dimensions of the embedding,
// summarizing an overlay's topology independent of any one stimulus run.
package gestalt

import "github.com/ohana-garden/soulkiln/graph"

const relationStatsDim = 8

// relationStats computes, in fixed order:
//
//	0: edge count, scaled by 1/100 (soft normalization, not a hard cap)
//	1: mean edge weight
//	2: max edge weight
//	3: min edge weight
//	4: mean use count, scaled by 1/50
//	5: fraction of concepts with at least one outgoing edge
//	6: mean out-degree among concepts with outgoing edges, scaled by 1/10
//	7: fraction of anchors reachable (1 - unreachable/AnchorCount)
func relationStats(substrate *graph.Substrate, overlay *graph.Overlay) [relationStatsDim]float64 {
	edges := overlay.IterEdges(nil)
	var stats [relationStatsDim]float64

	stats[0] = clampUnit(float64(len(edges)) / 100.0)
	if len(edges) > 0 {
		var sum, max, useSum float64
		min := edges[0].Weight
		outDeg := make(map[string]int)
		for _, e := range edges {
			sum += e.Weight
			useSum += float64(e.UseCount)
			if e.Weight > max {
				max = e.Weight
			}
			if e.Weight < min {
				min = e.Weight
			}
			outDeg[e.Src]++
		}
		stats[1] = sum / float64(len(edges))
		stats[2] = max
		stats[3] = min
		stats[4] = clampUnit(useSum / float64(len(edges)) / 50.0)

		var degSum float64
		for _, d := range outDeg {
			degSum += float64(d)
		}
		if len(outDeg) > 0 {
			stats[6] = clampUnit(degSum / float64(len(outDeg)) / 10.0)
		}
	}

	concepts := substrate.Concepts()
	if len(concepts) > 0 {
		withOut := 0
		for _, c := range concepts {
			if len(overlay.Neighbors(c.ID, graph.Outgoing)) > 0 {
				withOut++
			}
		}
		stats[5] = float64(withOut) / float64(len(concepts))
	}

	unreachable := substrate.CheckReachability(overlay)
	stats[7] = 1.0 - float64(len(unreachable))/float64(graph.AnchorCount)

	return stats
}

func clampUnit(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
