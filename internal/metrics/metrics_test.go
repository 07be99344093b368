package metrics

import (
	"math"
	"testing"

	"github.com/ravik-m/qdyn/internal/quantum"
)

func TestNormDrift(t *testing.T) {
	m := NewNormDrift()

	m.Observe(quantum.Basis(4, 0), 0)
	if m.Value() != 0 {
		t.Errorf("normalized ket should have zero drift, got %g", m.Value())
	}

	ket := quantum.Basis(4, 0).Scale(complex(1.1, 0))
	m.Observe(ket, 1)
	if math.Abs(m.Value()-0.1) > 1e-12 {
		t.Errorf("expected drift 0.1, got %g", m.Value())
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("reset should clear drift")
	}
}

func TestTraceDrift(t *testing.T) {
	m := NewTraceDrift()

	m.Observe(quantum.CoherentDM(6, 0.4), 0)
	if m.Value() > 1e-10 {
		t.Errorf("physical state should have ~zero trace drift, got %g", m.Value())
	}

	m.Observe(quantum.Eye(3), 1)
	if math.Abs(m.Value()-2) > 1e-12 {
		t.Errorf("tr I3 = 3, drift should be 2, got %g", m.Value())
	}
}

func TestMinPurity(t *testing.T) {
	m := NewMinPurity()

	m.Observe(quantum.CoherentDM(6, 0.4), 0)
	m.Observe(quantum.MaximallyMixed(4), 1)

	if math.Abs(m.Value()-0.25) > 1e-12 {
		t.Errorf("maximally mixed purity is 1/4, got %g", m.Value())
	}
}

func TestMetricsIgnoreWrongShape(t *testing.T) {
	// kets do not contribute to density-matrix metrics and conversely
	td := NewTraceDrift()
	td.Observe(quantum.Basis(3, 1), 0)
	if td.Value() != 0 {
		t.Error("trace drift should ignore kets")
	}

	nd := NewNormDrift()
	nd.Observe(quantum.MaximallyMixed(3), 0)
	if nd.Value() != 0 {
		t.Error("norm drift should ignore density matrices")
	}
}
