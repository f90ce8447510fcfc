// File: hebbian.go
// Role: Post-trajectory weight reinforcement.
// A captured trajectory never decreases a traversed edge's weight (P5);
// an escaped trajectory never increases one — optional anti-Hebbian
// dampening only ever scales weight down.
package dynamics

import (
	"github.com/ohana-garden/soulkiln/config"
	"github.com/ohana-garden/soulkiln/graph"
)

// ApplyHebbian reinforces every edge along traj.Path (up to and including
// the captured anchor) using the mean of x_i*x_j over the dwell window
// that produced the capture. traj must be captured; escaped trajectories
// must go through ApplyAntiHebbian instead.
//
// window holds the last MinCaptureSteps per-node activation snapshots
// from the Spread run that produced traj (Trajectory.History when traced,
// or recomputed by the caller); passing the exact dwell window keeps this
// function pure and independent of Spread's internal state.
func ApplyHebbian(overlay *graph.Overlay, cfg config.Dynamics, traj *Trajectory, window []map[string]float64) {
	if !traj.Captured() || len(traj.Path) < 2 {
		return
	}
	for k := 0; k+1 < len(traj.Path); k++ {
		j, i := traj.Path[k], traj.Path[k+1]
		e, err := overlay.Edge(j, i)
		if err != nil {
			continue // path crossing order did not correspond to a direct edge
		}
		delta := cfg.LearningRate * meanProduct(window, i, j)
		newWeight := e.Weight + delta
		if newWeight < 0 {
			newWeight = 0
		}
		if newWeight > 1 {
			newWeight = 1
		}
		_ = overlay.TouchEdge(j, i, newWeight)
	}
}

// ApplyAntiHebbian optionally dampens traversed edges after an escaped
// trajectory.
func ApplyAntiHebbian(overlay *graph.Overlay, cfg config.Dynamics, traj *Trajectory) {
	if traj.Captured() || !cfg.AntiHebbianOnEscape || len(traj.Path) < 2 {
		return
	}
	for k := 0; k+1 < len(traj.Path); k++ {
		j, i := traj.Path[k], traj.Path[k+1]
		_ = overlay.ScaleEdge(j, i, cfg.AntiHebbianFactor)
	}
}

func meanProduct(window []map[string]float64, i, j string) float64 {
	if len(window) == 0 {
		return 0
	}
	sum := 0.0
	for _, snap := range window {
		sum += snap[i] * snap[j]
	}
	return sum / float64(len(window))
}
