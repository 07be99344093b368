package systems

import (
	"math"
	"testing"

	"github.com/ravik-m/qdyn/internal/quantum"
)

func TestAllSystemsWellFormed(t *testing.T) {
	reg := NewRegistry()
	for _, name := range reg.List() {
		t.Run(name, func(t *testing.T) {
			sys, err := reg.Get(name)
			if err != nil {
				t.Fatalf("get failed: %v", err)
			}

			n := sys.Dim()
			h := sys.Hamiltonian().At(0)
			if h.Rows != n || h.Cols != n {
				t.Errorf("hamiltonian is %dx%d, want %dx%d", h.Rows, h.Cols, n, n)
			}
			if !h.IsHermitian(1e-12) {
				t.Error("hamiltonian is not hermitian")
			}

			psi := sys.InitialState()
			if !quantum.IsKet(psi) || psi.Rows != n {
				t.Errorf("initial state is %dx%d, want %dx1", psi.Rows, psi.Cols, n)
			}
			if math.Abs(quantum.VecNorm(psi.Data)-1) > 1e-10 {
				t.Errorf("initial state norm %g, want 1", quantum.VecNorm(psi.Data))
			}

			jumps := sys.JumpOps()
			etas := sys.Etas()
			if len(jumps) != len(etas) {
				t.Errorf("%d jump ops but %d efficiencies", len(jumps), len(etas))
			}
			for i, l := range jumps {
				if l.Rows != n || l.Cols != n {
					t.Errorf("jump op %d is %dx%d, want %dx%d", i, l.Rows, l.Cols, n, n)
				}
			}

			for _, obs := range sys.Observables() {
				if obs.Op.Rows != n || obs.Op.Cols != n {
					t.Errorf("observable %s is %dx%d, want %dx%d",
						obs.Name, obs.Op.Rows, obs.Op.Cols, n, n)
				}
				if !obs.Op.IsHermitian(1e-12) {
					t.Errorf("observable %s is not hermitian", obs.Name)
				}
			}
		})
	}
}

func TestRegistryConfigure(t *testing.T) {
	reg := NewRegistry()

	sys, err := reg.Configure("cavity", map[string]float64{"kappa": 2.5, "nlevels": 4})
	if err != nil {
		t.Fatalf("configure failed: %v", err)
	}
	c := sys.(*Cavity)
	if c.Kappa != 2.5 {
		t.Errorf("kappa = %g, want 2.5", c.Kappa)
	}
	if c.NLevels != 4 {
		t.Errorf("nlevels = %d, want 4", c.NLevels)
	}

	if _, err := reg.Configure("cavity", map[string]float64{"bogus": 1}); err == nil {
		t.Error("expected error for unknown param")
	}
	if _, err := reg.Configure("nope", nil); err == nil {
		t.Error("expected error for unknown system")
	}
}

func TestQubitChannels(t *testing.T) {
	q := NewQubit()
	q.Gamma = 1
	q.GammaPh = 0.5

	jumps := q.JumpOps()
	if len(jumps) != 2 {
		t.Fatalf("expected 2 channels, got %d", len(jumps))
	}

	etas := q.Etas()
	if etas[1] != 0 {
		t.Errorf("dephasing channel efficiency = %g, want 0", etas[1])
	}

	// emission lowers the excited state onto the ground state
	excited := quantum.Basis(2, 0)
	lowered := jumps[0].MulVec(excited.Data)
	if math.Abs(real(lowered[1])-math.Sqrt(q.Gamma)) > 1e-12 {
		t.Errorf("emission amplitude %g, want %g", real(lowered[1]), math.Sqrt(q.Gamma))
	}
}

func TestJaynesCummingsExcitationConserving(t *testing.T) {
	j := NewJaynesCummings()
	j.Kappa = 0
	j.Gamma = 0

	// total excitation number commutes with H
	nc := j.NLevels
	n := quantum.Eye(2).Kron(quantum.NumberOp(nc))
	pe := quantum.NewMatrixFrom(2, 2, []complex128{1, 0, 0, 0}).Kron(quantum.Eye(nc))
	total := n.Add(pe)

	h := j.Hamiltonian().At(0)
	comm := h.Mul(total).Sub(total.Mul(h))
	if comm.MaxDiff(quantum.NewMatrix(2*nc, 2*nc)) > 1e-10 {
		t.Error("hamiltonian does not conserve total excitation number")
	}
}

func TestKerrRoundsParams(t *testing.T) {
	k := NewKerr()
	if err := k.SetParam("nlevels", 12); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if k.Dim() != 12 {
		t.Errorf("dim = %d, want 12", k.Dim())
	}
	if err := k.SetParam("eta", 1.5); err == nil {
		t.Error("expected error for eta > 1")
	}
}
