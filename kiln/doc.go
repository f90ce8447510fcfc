// Package kiln is the evolutionary outer loop: one
// generation evaluates every agent, asks the Mercy Machine for
// verdicts, partitions the population into survivors/watched/dissolution
// candidates, dissolves the latter while salvaging lessons and pathways to
// the Knowledge Pool, then selects parents and produces offspring by
// crossover and mutation over the Graph Substrate.
//
// Scheduling model: RunGeneration is the single-threaded
// cooperative driver; it dispatches coherence evaluation across a worker pool
// internally and Wait()s on it (a barrier) before partitioning survivors.
package kiln
