// Package plan maps a committed StateCode to a deterministic actuation
// plan: per-prefix BGP advertise/withdraw and a transit priority.
package plan

import "github.com/mancow2001/mt-gcp-router-management/internal/statecode"

// Priority is the transit provider priority tier a plan requests.
type Priority int

const (
	// PriorityNone means no call to the priority-update endpoint.
	PriorityNone Priority = iota
	PriorityPrimary
	PrioritySecondary
)

func (p Priority) String() string {
	switch p {
	case PriorityPrimary:
		return "PRIMARY"
	case PrioritySecondary:
		return "SECONDARY"
	default:
		return "NONE"
	}
}

// Advertise is a tri-state per-prefix directive: Advertise (true),
// Withdraw (false), or NoOp (the endpoint must not be called at all).
// A plain *bool would let a caller conflate "withdraw" with "don't touch
// this prefix"; this type makes that distinction a compile-time fact.
type Advertise int

const (
	NoOp Advertise = iota
	DoAdvertise
	DoWithdraw
)

func (a Advertise) String() string {
	switch a {
	case DoAdvertise:
		return "ADVERTISE"
	case DoWithdraw:
		return "WITHDRAW"
	default:
		return "NOOP"
	}
}

// Plan is the full actuation directive for one committed state.
type Plan struct {
	State     statecode.StateCode
	Primary   Advertise
	Secondary Advertise
	Priority  Priority
}

// For builds the Plan for a committed state per the §4.9 table. State 0
// always yields the three-way no-op plan.
func For(state statecode.StateCode) Plan {
	switch state {
	case statecode.Nominal:
		return Plan{State: state, Primary: DoAdvertise, Secondary: DoWithdraw, Priority: PriorityPrimary}
	case statecode.LocalDown:
		return Plan{State: state, Primary: DoWithdraw, Secondary: DoWithdraw, Priority: PrioritySecondary}
	case statecode.RemoteDown:
		return Plan{State: state, Primary: DoAdvertise, Secondary: DoAdvertise, Priority: PriorityPrimary}
	case statecode.BothDown:
		return Plan{State: state, Primary: DoAdvertise, Secondary: DoWithdraw, Priority: PrioritySecondary}
	case statecode.BGPDownLocalOut:
		return Plan{State: state, Primary: DoAdvertise, Secondary: DoWithdraw, Priority: PrioritySecondary}
	case statecode.BGPDownNominal:
		return Plan{State: state, Primary: DoAdvertise, Secondary: DoAdvertise, Priority: PriorityPrimary}
	default:
		// State 0: three-way no-op.
		return Plan{State: statecode.Unknown, Primary: NoOp, Secondary: NoOp, Priority: PriorityNone}
	}
}
