package plan

import (
	"testing"

	"github.com/mancow2001/mt-gcp-router-management/internal/statecode"
)

func TestFor_MatchesTable(t *testing.T) {
	tests := []struct {
		state     statecode.StateCode
		primary   Advertise
		secondary Advertise
		priority  Priority
	}{
		{statecode.Unknown, NoOp, NoOp, PriorityNone},
		{statecode.Nominal, DoAdvertise, DoWithdraw, PriorityPrimary},
		{statecode.LocalDown, DoWithdraw, DoWithdraw, PrioritySecondary},
		{statecode.RemoteDown, DoAdvertise, DoAdvertise, PriorityPrimary},
		{statecode.BothDown, DoAdvertise, DoWithdraw, PrioritySecondary},
		{statecode.BGPDownLocalOut, DoAdvertise, DoWithdraw, PrioritySecondary},
		{statecode.BGPDownNominal, DoAdvertise, DoAdvertise, PriorityPrimary},
	}
	for _, tt := range tests {
		got := For(tt.state)
		if got.Primary != tt.primary || got.Secondary != tt.secondary || got.Priority != tt.priority {
			t.Errorf("For(%v) = %+v, want {Primary:%v Secondary:%v Priority:%v}",
				tt.state, got, tt.primary, tt.secondary, tt.priority)
		}
	}
}

// P6: idempotence — re-running the planner for an unchanged state yields
// the identical plan (a precondition for the Actuator reporting NO_CHANGE).
func TestFor_Idempotent(t *testing.T) {
	for s := statecode.Unknown; s <= statecode.BGPDownNominal; s++ {
		a := For(s)
		b := For(s)
		if a != b {
			t.Errorf("For(%v) not idempotent: %+v != %+v", s, a, b)
		}
	}
}
