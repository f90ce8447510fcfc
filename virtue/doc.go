// Package virtue is the Virtue Registry: the 19 fixed anchors, their
// tiers and clusters, and the contextual threshold function used by the
// Activation Engine's capture detection.
//
// Registry wraps a *graph.Substrate rather than duplicating anchor data —
// the Graph Substrate remains the sole owner of node identity and anchor
// records; this package adds the derived, read-only
// threshold computation the substrate itself does not know how to do.
//
// initialize(definitions) happens once, via Registry.Initialize, which
// delegates to Substrate.InitAnchors; all other operations are reads.
package virtue
