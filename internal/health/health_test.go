package health

import (
	"errors"
	"testing"
)

func TestHealth_String(t *testing.T) {
	tests := []struct {
		h    Health
		want string
	}{
		{Healthy, "HEALTHY"},
		{Unhealthy, "UNHEALTHY"},
		{Unknown, "UNKNOWN"},
		{Health(99), "UNKNOWN"},
	}
	for _, tt := range tests {
		if got := tt.h.String(); got != tt.want {
			t.Errorf("Health(%d).String() = %q, want %q", tt.h, got, tt.want)
		}
	}
}

func TestHealth_Bool(t *testing.T) {
	if v, ok := Healthy.Bool(); !ok || !v {
		t.Errorf("Healthy.Bool() = (%v, %v), want (true, true)", v, ok)
	}
	if v, ok := Unhealthy.Bool(); !ok || v {
		t.Errorf("Unhealthy.Bool() = (%v, %v), want (false, true)", v, ok)
	}
	if _, ok := Unknown.Bool(); ok {
		t.Error("Unknown.Bool() ok = true, want false")
	}
}

func TestFromBool(t *testing.T) {
	if FromBool(true) != Healthy {
		t.Error("FromBool(true) != Healthy")
	}
	if FromBool(false) != Unhealthy {
		t.Error("FromBool(false) != Unhealthy")
	}
}

func TestClassify(t *testing.T) {
	if got := Classify(errors.New("boom"), true, false); got != Unknown {
		t.Errorf("Classify with error = %v, want Unknown", got)
	}
	if got := Classify(nil, true, false); got != Healthy {
		t.Errorf("Classify(nil, true, false) = %v, want Healthy", got)
	}
	if got := Classify(nil, false, true); got != Unhealthy {
		t.Errorf("Classify(nil, false, true) = %v, want Unhealthy", got)
	}
	if got := Classify(nil, false, false); got != Unknown {
		t.Errorf("Classify(nil, false, false) = %v, want Unknown", got)
	}
}
