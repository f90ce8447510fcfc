// File: ops.go
// Role: Elementwise and vector operations over Matrix operands.
package matrix

import (
	"fmt"
	"math"
)

// sameShape validates that a and b agree in both dimensions.
func sameShape(op string, a, b Matrix) error {
	if a.Rows() != b.Rows() || a.Cols() != b.Cols() {
		return fmt.Errorf("matrix: %s: %dx%d vs %dx%d: %w",
			op, a.Rows(), a.Cols(), b.Rows(), b.Cols(), ErrDimensionMismatch)
	}
	return nil
}

// binary applies f elementwise over a and b into a fresh Dense result.
func binary(op string, a, b Matrix, f func(x, y float64) float64) (Matrix, error) {
	if err := sameShape(op, a, b); err != nil {
		return nil, err
	}
	out, err := NewDense(a.Rows(), a.Cols())
	if err != nil {
		return nil, fmt.Errorf("matrix: %s: %w", op, err)
	}
	for r := 0; r < a.Rows(); r++ {
		for c := 0; c < a.Cols(); c++ {
			x, err := a.At(r, c)
			if err != nil {
				return nil, fmt.Errorf("matrix: %s: %w", op, err)
			}
			y, err := b.At(r, c)
			if err != nil {
				return nil, fmt.Errorf("matrix: %s: %w", op, err)
			}
			if err := out.Set(r, c, f(x, y)); err != nil {
				return nil, fmt.Errorf("matrix: %s: %w", op, err)
			}
		}
	}
	return out, nil
}

// Add returns a + b elementwise.
//
// Complexity: O(r·c).
func Add(a, b Matrix) (Matrix, error) {
	return binary("Add", a, b, func(x, y float64) float64 { return x + y })
}

// Sub returns a - b elementwise.
//
// Complexity: O(r·c).
func Sub(a, b Matrix) (Matrix, error) {
	return binary("Sub", a, b, func(x, y float64) float64 { return x - y })
}

// Scale returns alpha·m as a fresh matrix; m is not modified.
//
// Complexity: O(r·c).
func Scale(m Matrix, alpha float64) (Matrix, error) {
	out, err := NewDense(m.Rows(), m.Cols())
	if err != nil {
		return nil, fmt.Errorf("matrix: Scale: %w", err)
	}
	for r := 0; r < m.Rows(); r++ {
		for c := 0; c < m.Cols(); c++ {
			x, err := m.At(r, c)
			if err != nil {
				return nil, fmt.Errorf("matrix: Scale: %w", err)
			}
			if err := out.Set(r, c, alpha*x); err != nil {
				return nil, fmt.Errorf("matrix: Scale: %w", err)
			}
		}
	}
	return out, nil
}

// MatVec returns the matrix-vector product m·x, where len(x) must equal
// m.Cols(). The result has length m.Rows().
//
// Complexity: O(r·c).
func MatVec(m Matrix, x []float64) ([]float64, error) {
	if len(x) != m.Cols() {
		return nil, fmt.Errorf("matrix: MatVec: vector len %d vs %d cols: %w",
			len(x), m.Cols(), ErrDimensionMismatch)
	}
	out := make([]float64, m.Rows())
	for r := 0; r < m.Rows(); r++ {
		sum := 0.0
		for c := 0; c < m.Cols(); c++ {
			v, err := m.At(r, c)
			if err != nil {
				return nil, fmt.Errorf("matrix: MatVec: %w", err)
			}
			sum += v * x[c]
		}
		out[r] = sum
	}
	return out, nil
}

// NormalizeRowsL2 returns a copy of X with each row scaled to unit L2
// norm, together with the original row norms. Degenerate (zero-norm) rows
// are left unchanged and report a norm of 0.
//
// Complexity: O(r·c).
func NormalizeRowsL2(X Matrix) (Matrix, []float64, error) {
	out, err := NewDense(X.Rows(), X.Cols())
	if err != nil {
		return nil, nil, fmt.Errorf("matrix: NormalizeRowsL2: %w", err)
	}
	norms := make([]float64, X.Rows())
	for r := 0; r < X.Rows(); r++ {
		sumSq := 0.0
		for c := 0; c < X.Cols(); c++ {
			v, err := X.At(r, c)
			if err != nil {
				return nil, nil, fmt.Errorf("matrix: NormalizeRowsL2: %w", err)
			}
			sumSq += v * v
		}
		norm := math.Sqrt(sumSq)
		norms[r] = norm
		scale := 1.0
		if norm > 0 {
			scale = 1 / norm
		}
		for c := 0; c < X.Cols(); c++ {
			v, _ := X.At(r, c)
			if err := out.Set(r, c, v*scale); err != nil {
				return nil, nil, fmt.Errorf("matrix: NormalizeRowsL2: %w", err)
			}
		}
	}
	return out, norms, nil
}
