// Package store is the persistence adapter: a narrow
// Cypher-like interface (CreateIndex, MergeNode, UpsertEdge, Query) over
// an external labeled-property-graph engine. The reference engine is
// FalkorDB, which speaks the Redis wire protocol, so the concrete Client
// rides go-redis and issues GRAPH.QUERY commands.
//
// The core never blocks on this package mid-generation: the Kiln issues
// batched writes at generation boundaries only, and every
// operation retries with exponential backoff up to three attempts before
// surfacing a soulkilnerr.ExternalStoreError.
package store
