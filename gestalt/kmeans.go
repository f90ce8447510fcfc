// File: kmeans.go
// Role: k-means clustering over Gestalt embeddings, k=4 default
// "Comparison": clustering is k-means with k=4 default).
package gestalt

import (
	"fmt"
	"math/rand"

	"github.com/ohana-garden/soulkiln/matrix"
)

// DefaultK is the default cluster count for KMeans.
const DefaultK = 4

// ClusterResult is one converged (or iteration-capped) k-means run.
type ClusterResult struct {
	Assignments []int                      // len(points); index into Centroids
	Centroids   [][EmbeddingDim]float64    // len <= k
}

// KMeans clusters points into k clusters using squared Euclidean distance
// over the embedding space. rng seeds centroid initialization (a uniform
// sample of k distinct points, without replacement) so results are
// reproducible given the same points and rng state. Converges when no
// point's assignment changes between iterations, or after maxIter rounds,
// whichever comes first.
func KMeans(points [][EmbeddingDim]float64, k int, rng *rand.Rand, maxIter int) (*ClusterResult, error) {
	if k <= 0 {
		return nil, fmt.Errorf("gestalt: KMeans: k must be positive, got %d", k)
	}
	if len(points) == 0 {
		return &ClusterResult{}, nil
	}
	if k > len(points) {
		k = len(points)
	}

	centroids := initCentroids(points, k, rng)
	assignments := make([]int, len(points))

	for iter := 0; iter < maxIter; iter++ {
		changed := false
		for i, p := range points {
			nearest, err := nearestCentroid(p, centroids)
			if err != nil {
				return nil, err
			}
			if assignments[i] != nearest {
				assignments[i] = nearest
				changed = true
			}
		}

		next, err := recomputeCentroids(points, assignments, centroids)
		if err != nil {
			return nil, err
		}
		centroids = next

		if !changed && iter > 0 {
			break
		}
	}

	return &ClusterResult{Assignments: assignments, Centroids: centroids}, nil
}

func initCentroids(points [][EmbeddingDim]float64, k int, rng *rand.Rand) [][EmbeddingDim]float64 {
	perm := rng.Perm(len(points))
	out := make([][EmbeddingDim]float64, k)
	for i := 0; i < k; i++ {
		out[i] = points[perm[i]]
	}
	return out
}

func nearestCentroid(p [EmbeddingDim]float64, centroids [][EmbeddingDim]float64) (int, error) {
	best := 0
	bestDist := -1.0
	for i, c := range centroids {
		d, err := squaredDistance(p, c)
		if err != nil {
			return 0, err
		}
		if bestDist < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	return best, nil
}

// squaredDistance computes ||a-b||^2 via matrix.Sub (for a-b) and
// MatVec (dot product of the difference with itself).
func squaredDistance(a, b [EmbeddingDim]float64) (float64, error) {
	am, err := toRowMatrix(a)
	if err != nil {
		return 0, err
	}
	bm, err := toRowMatrix(b)
	if err != nil {
		return 0, err
	}
	diff, err := matrix.Sub(am, bm)
	if err != nil {
		return 0, fmt.Errorf("gestalt: squaredDistance: %w", err)
	}
	diffRow := make([]float64, EmbeddingDim)
	for j := 0; j < EmbeddingDim; j++ {
		diffRow[j], err = diff.At(0, j)
		if err != nil {
			return 0, fmt.Errorf("gestalt: squaredDistance: %w", err)
		}
	}
	dot, err := matrix.MatVec(diff, diffRow)
	if err != nil {
		return 0, fmt.Errorf("gestalt: squaredDistance: %w", err)
	}
	return dot[0], nil
}

// recomputeCentroids averages every cluster's assigned points via
// matrix.Add (running sum) and matrix.Scale (division by count). A
// cluster with no assigned points keeps its previous centroid.
func recomputeCentroids(points [][EmbeddingDim]float64, assignments []int, prev [][EmbeddingDim]float64) ([][EmbeddingDim]float64, error) {
	k := len(prev)
	sums := make([]*matrix.Dense, k)
	counts := make([]int, k)

	for i, cluster := range assignments {
		if sums[cluster] == nil {
			m, err := toRowMatrix(points[i])
			if err != nil {
				return nil, err
			}
			sums[cluster] = m
		} else {
			pm, err := toRowMatrix(points[i])
			if err != nil {
				return nil, err
			}
			next, err := matrix.Add(sums[cluster], pm)
			if err != nil {
				return nil, fmt.Errorf("gestalt: recomputeCentroids: %w", err)
			}
			sums[cluster] = next.(*matrix.Dense)
		}
		counts[cluster]++
	}

	out := make([][EmbeddingDim]float64, k)
	for c := 0; c < k; c++ {
		if counts[c] == 0 {
			out[c] = prev[c]
			continue
		}
		mean, err := matrix.Scale(sums[c], 1.0/float64(counts[c]))
		if err != nil {
			return nil, fmt.Errorf("gestalt: recomputeCentroids: %w", err)
		}
		var row [EmbeddingDim]float64
		for j := 0; j < EmbeddingDim; j++ {
			row[j], err = mean.At(0, j)
			if err != nil {
				return nil, fmt.Errorf("gestalt: recomputeCentroids: %w", err)
			}
		}
		out[c] = row
	}
	return out, nil
}
