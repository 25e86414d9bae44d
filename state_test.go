package rxform

import "testing"

func TestSubmitState_String(t *testing.T) {
	if s := SubmitIdle.String(); s != "idle" {
		t.Errorf("expected 'idle', got %q", s)
	}
	if s := SubmitSubmitted.String(); s != "submitted" {
		t.Errorf("expected 'submitted', got %q", s)
	}
	if s := SubmitState(99).String(); s != "unknown" {
		t.Errorf("expected 'unknown', got %q", s)
	}
}

func TestRegistryState_String(t *testing.T) {
	tests := map[RegistryState]string{
		RegistryLoading:    "loading",
		RegistryHealthy:    "healthy",
		RegistryDegraded:   "degraded",
		RegistryEmpty:      "empty",
		RegistryState(999): "unknown",
	}
	for state, want := range tests {
		if got := state.String(); got != want {
			t.Errorf("expected %q, got %q", want, got)
		}
	}
}
