// Package dynamics is the Activation Engine: discrete-step spread of
// activation across one agent's TopologyOverlay, capture detection,
// Hebbian reinforcement, decay, perturbation and self-healing.
//
// This is the numeric core of Soul Kiln. Every entry point takes an
// explicit *graph.Substrate, *virtue.Registry and *graph.Overlay — there
// is no ambient engine-global state.
//
// Anchor isolation falls directly
// out of the Graph Substrate's I2 invariant: since no anchor→anchor edge
// can ever exist in an Overlay, the inbound sum for an anchor target is
// already restricted to concept sources with no special-casing required
// here.
package dynamics
