// Package matrix provides the dense linear-algebra primitives the Gestalt
// Analyzer builds on: a row-major Dense matrix, elementwise Add/Sub/Scale,
// matrix-vector products, and L2 row normalization.
//
// The surface is deliberately small. Gestalt embeddings are short fixed
// vectors (ℝ^41) handled as 1×N row matrices; cosine similarity stacks two
// embeddings as the rows of a 2×N matrix so one NormalizeRowsL2 pass
// covers both. Nothing here allocates beyond the result matrix, and every
// operation validates dimensions before touching data.
package matrix
