package viz

import (
	"testing"

	"github.com/ravik-m/qdyn/internal/solve"
	"github.com/ravik-m/qdyn/internal/systems"
)

func TestStepHandlesArbitraryFrameLengths(t *testing.T) {
	reg := systems.NewRegistry()
	sys, err := reg.Get("cavity")
	if err != nil {
		t.Fatalf("building system: %v", err)
	}

	// frame lengths are not multiples of dt, so a fixed-step method would
	// fail on the first frame; NewModel must force adaptive integration
	opts := solve.DefaultOptions()
	opts.Method = solve.MethodRK4
	opts.Dt = 0.01

	m := NewModel(sys, opts)
	for i := 0; i < 3; i++ {
		m.step()
	}
	if m.err != nil {
		t.Fatalf("step failed: %v", m.err)
	}
	if m.t <= 0 {
		t.Errorf("time did not advance, t = %g", m.t)
	}
	if len(m.history) != 3 {
		t.Errorf("history has %d samples, want 3", len(m.history))
	}
}
