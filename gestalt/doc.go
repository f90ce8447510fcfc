// Package gestalt computes a Gestalt — a derived character summary — from
// an agent's graph state and its most recent CoherenceReport.
// Every computation here is read-only: gestalt never mutates the substrate,
// an overlay, or an agent's lifecycle state. The embedding/comparison
// arithmetic is built on the matrix package (Dense, Add, Scale,
// MatVec, NormalizeRowsL2) rather than hand-rolled vector loops.
package gestalt
