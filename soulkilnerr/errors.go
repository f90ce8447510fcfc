// Package soulkilnerr is the error taxonomy of the engine: sentinel values
// plus two wrapping types for the cases that carry structured detail
// (invariant breaches, external store failures). Every package in this
// module returns these via errors.Is/errors.As, never bespoke error codes.
package soulkilnerr

import "errors"

// UserError-class sentinels: invalid command, unknown entity, invalid
// config value. Report and exit non-zero; no state change.
var (
	ErrUnknownAgent  = errors.New("soulkiln: unknown agent")
	ErrUnknownNode   = errors.New("soulkiln: unknown node")
	ErrInvalidConfig = errors.New("soulkiln: invalid configuration value")
	ErrAlreadyInit   = errors.New("soulkiln: substrate already initialized")
)

// ErrAnchorMutation is a fatal programming error: abort, never recover.
var ErrAnchorMutation = errors.New("soulkiln: anchor mutation attempted")

// ErrCancelRequested is returned when a cooperative cancellation signal
// was observed before a phase boundary; callers discard in-flight state
// and return the last committed state.
var ErrCancelRequested = errors.New("soulkiln: cancellation requested")

// InvariantBroken is returned when a post-mutation invariant check fails.
// Kind is one of "I1".."I6". The enclosing batch must be rolled back by
// the caller; an agent involved in the breach is quarantined.
type InvariantBroken struct {
	Kind    string
	AgentID string
	Detail  string
}

func (e *InvariantBroken) Error() string {
	msg := "soulkiln: invariant " + e.Kind + " broken"
	if e.AgentID != "" {
		msg += " (agent " + e.AgentID + ")"
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

// ExternalStoreError wraps an underlying persistence failure. Op names the
// adapter operation that failed (create_index, merge_node,
// upsert_edge, query). Callers retry with exponential backoff up to 3
// attempts before surfacing this.
type ExternalStoreError struct {
	Op  string
	Err error
}

func (e *ExternalStoreError) Error() string {
	return "soulkiln: external store error during " + e.Op + ": " + e.Err.Error()
}

func (e *ExternalStoreError) Unwrap() error { return e.Err }

// NumericFault describes a recovered NaN/Inf clamp during activation
// spread. It is not itself a failure: the run continues. Package dynamics
// does not construct or log it; Spread counts its clamps per trajectory
// and aborts the trajectory as escaped once the count reaches
// NumericFaultLimit.
type NumericFault struct {
	NodeID string
	Step   int
}

func (e *NumericFault) Error() string {
	return "soulkiln: numeric fault at node " + e.NodeID + " clamped to [0,1]"
}
