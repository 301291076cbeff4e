package statecode

import (
	"testing"

	"github.com/mancow2001/mt-gcp-router-management/internal/health"
)

func TestReduce_NamedStates(t *testing.T) {
	tests := []struct {
		name                string
		local, remote, bgp  health.Health
		want                StateCode
	}{
		{"nominal", health.Healthy, health.Healthy, health.Healthy, Nominal},
		{"local_down", health.Unhealthy, health.Healthy, health.Healthy, LocalDown},
		{"remote_down", health.Healthy, health.Unhealthy, health.Healthy, RemoteDown},
		{"both_down", health.Unhealthy, health.Unhealthy, health.Healthy, BothDown},
		{"bgp_down_local_out", health.Unhealthy, health.Healthy, health.Unhealthy, BGPDownLocalOut},
		{"bgp_down_nominal", health.Healthy, health.Healthy, health.Unhealthy, BGPDownNominal},
		{"unlisted_combo", health.Healthy, health.Unhealthy, health.Unhealthy, Unknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Reduce(tt.local, tt.remote, tt.bgp); got != tt.want {
				t.Errorf("Reduce(%v,%v,%v) = %v, want %v", tt.local, tt.remote, tt.bgp, got, tt.want)
			}
		})
	}
}

func TestReduce_AnyUnknownForcesState0(t *testing.T) {
	tests := [][3]health.Health{
		{health.Unknown, health.Healthy, health.Healthy},
		{health.Healthy, health.Unknown, health.Healthy},
		{health.Healthy, health.Healthy, health.Unknown},
		{health.Unknown, health.Unknown, health.Unknown},
	}
	for _, tt := range tests {
		if got := Reduce(tt[0], tt[1], tt[2]); got != Unknown {
			t.Errorf("Reduce(%v) = %v, want Unknown", tt, got)
		}
	}
}

func TestIsVerifiable(t *testing.T) {
	verifiable := map[StateCode]bool{LocalDown: true, RemoteDown: true, BothDown: true}
	for s := Unknown; s <= BGPDownNominal; s++ {
		if got := s.IsVerifiable(); got != verifiable[s] {
			t.Errorf("%v.IsVerifiable() = %v, want %v", s, got, verifiable[s])
		}
	}
}

func TestIsException(t *testing.T) {
	exceptions := map[StateCode]bool{Nominal: true, BothDown: true}
	if !Nominal.IsException(exceptions) {
		t.Error("Nominal should be an exception")
	}
	if !BothDown.IsException(exceptions) {
		t.Error("BothDown should be an exception")
	}
	if LocalDown.IsException(exceptions) {
		t.Error("LocalDown should not be an exception")
	}
	if Nominal.IsException(nil) {
		t.Error("nil exception set should never match")
	}
}
