// Package knowledge is the Knowledge Pool: a shared store of Lessons and
// Pathways, read by the Mercy Machine and the Kiln and written by both at
// dissolution/capture time. Lessons are never removed; pathways are
// removed only by an explicit SweepStale call.
//
// Concurrency: per-key atomic updates; writes are linearizable per key
// (a sync.Map of per-pathway mutexes).
package knowledge
