// File: embedding.go
// Role: Embedding construction, cosine similarity and convex interpolation
//, built on the matrix package rather
// than hand-rolled vector loops.
package gestalt

import (
	"fmt"

	"github.com/ohana-garden/soulkiln/agent"
	"github.com/ohana-garden/soulkiln/matrix"
	"github.com/ohana-garden/soulkiln/virtue"
)

// buildEmbedding concatenates the four embedding segments in the fixed
// order activations || tendencies || relation_stats || archetype_onehot.
func buildEmbedding(registry *virtue.Registry, activations map[string]float64,
	tendencies map[string]float64, relations [relationStatsDim]float64, arch agent.Archetype) [EmbeddingDim]float64 {

	var out [EmbeddingDim]float64
	i := 0
	for _, a := range registry.List() {
		out[i] = activations[a.ID]
		i++
	}
	for _, name := range tendencyOrder {
		out[i] = tendencies[name]
		i++
	}
	for _, r := range relations {
		out[i] = r
		i++
	}
	for _, c := range clusterOrder {
		if c == arch {
			out[i] = 1
		}
		i++
	}
	return out
}

// toRowMatrix wraps a fixed-size embedding as a 1xN Dense matrix.
func toRowMatrix(v [EmbeddingDim]float64) (*matrix.Dense, error) {
	m, err := matrix.NewDense(1, EmbeddingDim)
	if err != nil {
		return nil, fmt.Errorf("gestalt: toRowMatrix: %w", err)
	}
	for j, x := range v {
		if err := m.Set(0, j, x); err != nil {
			return nil, fmt.Errorf("gestalt: toRowMatrix: %w", err)
		}
	}
	return m, nil
}

// CosineSimilarity computes cosine similarity between two embeddings via
// NormalizeRowsL2 (stacking both as rows of one matrix so a single
// normalization pass handles both) followed by a MatVec dot product.
// Degenerate (all-zero) embeddings normalize to the zero vector and yield
// similarity 0, matching NormalizeRowsL2's "degenerate rows unchanged"
// contract.
func CosineSimilarity(a, b [EmbeddingDim]float64) (float64, error) {
	stacked, err := matrix.NewDense(2, EmbeddingDim)
	if err != nil {
		return 0, fmt.Errorf("gestalt: CosineSimilarity: %w", err)
	}
	for j := 0; j < EmbeddingDim; j++ {
		if err := stacked.Set(0, j, a[j]); err != nil {
			return 0, fmt.Errorf("gestalt: CosineSimilarity: %w", err)
		}
		if err := stacked.Set(1, j, b[j]); err != nil {
			return 0, fmt.Errorf("gestalt: CosineSimilarity: %w", err)
		}
	}

	normalized, _, err := matrix.NormalizeRowsL2(stacked)
	if err != nil {
		return 0, fmt.Errorf("gestalt: CosineSimilarity: %w", err)
	}

	rowA := make([]float64, EmbeddingDim)
	rowB := make([]float64, EmbeddingDim)
	for j := 0; j < EmbeddingDim; j++ {
		rowA[j], err = normalized.At(0, j)
		if err != nil {
			return 0, fmt.Errorf("gestalt: CosineSimilarity: %w", err)
		}
		rowB[j], err = normalized.At(1, j)
		if err != nil {
			return 0, fmt.Errorf("gestalt: CosineSimilarity: %w", err)
		}
	}

	rowAMatrix, err := toRowMatrix([EmbeddingDim]float64(rowA))
	if err != nil {
		return 0, err
	}
	dot, err := matrix.MatVec(rowAMatrix, rowB)
	if err != nil {
		return 0, fmt.Errorf("gestalt: CosineSimilarity: %w", err)
	}
	return dot[0], nil
}

// Interpolate returns the convex combination (1-t)*a + t*b, t clamped to
// [0,1]; no semantic claim is made about intermediate embeddings.
func Interpolate(a, b [EmbeddingDim]float64, t float64) ([EmbeddingDim]float64, error) {
	t = clampUnit(t)

	am, err := toRowMatrix(a)
	if err != nil {
		return [EmbeddingDim]float64{}, err
	}
	bm, err := toRowMatrix(b)
	if err != nil {
		return [EmbeddingDim]float64{}, err
	}

	scaledA, err := matrix.Scale(am, 1-t)
	if err != nil {
		return [EmbeddingDim]float64{}, fmt.Errorf("gestalt: Interpolate: %w", err)
	}
	scaledB, err := matrix.Scale(bm, t)
	if err != nil {
		return [EmbeddingDim]float64{}, fmt.Errorf("gestalt: Interpolate: %w", err)
	}
	summed, err := matrix.Add(scaledA, scaledB)
	if err != nil {
		return [EmbeddingDim]float64{}, fmt.Errorf("gestalt: Interpolate: %w", err)
	}

	var out [EmbeddingDim]float64
	for j := 0; j < EmbeddingDim; j++ {
		out[j], err = summed.At(0, j)
		if err != nil {
			return [EmbeddingDim]float64{}, fmt.Errorf("gestalt: Interpolate: %w", err)
		}
	}
	return out, nil
}
