package solve

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/ravik-m/qdyn/internal/quantum"
	"github.com/ravik-m/qdyn/internal/timeop"
)

// rotating cavity: H = delta a†a from a coherent state |alpha0>. The state
// stays coherent with alpha(t) = alpha0 exp(-i delta t).
func cavityProblem(n int, delta float64, alpha0 complex128) (timeop.TimeOp, *quantum.Matrix, []*quantum.Matrix) {
	h := timeop.Constant(quantum.NumberOp(n).Scale(complex(delta, 0)))
	psi0 := quantum.Coherent(n, alpha0)

	a := quantum.Destroy(n)
	x := a.Add(a.Dag()).Scale(complex(1/math.Sqrt2, 0))
	p := a.Dag().Sub(a).Scale(complex(0, 1/math.Sqrt2))
	return h, psi0, []*quantum.Matrix{x, p}
}

func uniformGrid(t0, t1 float64, points int) []float64 {
	ts := make([]float64, points)
	for i := range ts {
		ts[i] = t0 + (t1-t0)*float64(i)/float64(points-1)
	}
	return ts
}

func TestSesolveCavity(t *testing.T) {
	n := 8
	delta := 2 * math.Pi
	h, psi0, expOps := cavityProblem(n, delta, 1)
	tsave := uniformGrid(0, 1, 11)

	for _, method := range []Method{MethodRK4, MethodDopri5, MethodPropagator} {
		t.Run(string(method), func(t *testing.T) {
			opts := DefaultOptions()
			opts.Method = method
			opts.Dt = 0.0001

			result, err := Sesolve(context.Background(), h, psi0, tsave, expOps, opts)
			if err != nil {
				t.Fatalf("sesolve failed: %v", err)
			}

			if len(result.States) != len(tsave) {
				t.Fatalf("expected %d states, got %d", len(tsave), len(result.States))
			}

			for i, tt := range tsave {
				alpha := complex(math.Cos(delta*tt), -math.Sin(delta*tt))
				wantX := math.Sqrt2 * real(alpha)
				wantP := math.Sqrt2 * imag(alpha)

				if math.Abs(real(result.Expects[0][i])-wantX) > 1e-4 {
					t.Errorf("t=%g: <X> = %g, want %g", tt, real(result.Expects[0][i]), wantX)
				}
				if math.Abs(real(result.Expects[1][i])-wantP) > 1e-4 {
					t.Errorf("t=%g: <P> = %g, want %g", tt, real(result.Expects[1][i]), wantP)
				}

				wantState := quantum.Coherent(n, alpha)
				if f := quantum.Fidelity(wantState, result.States[i]); f < 1-1e-6 {
					t.Errorf("t=%g: fidelity %g", tt, f)
				}
			}

			if drift := result.Metrics["norm_drift"]; drift > 1e-6 {
				t.Errorf("norm drift %g too large", drift)
			}
		})
	}
}

func TestSesolveRabi(t *testing.T) {
	// resonant Rabi drive H = (omega/2) sigma_x flips |g> -> |e> at t = pi/omega
	omega := 3.0
	h := timeop.Constant(quantum.SigmaX().Scale(complex(omega/2, 0)))
	psi0 := quantum.Basis(2, 0)
	tsave := uniformGrid(0, math.Pi/omega, 5)

	opts := DefaultOptions()
	result, err := Sesolve(context.Background(), h, psi0, tsave, nil, opts)
	if err != nil {
		t.Fatalf("sesolve failed: %v", err)
	}

	final := result.FinalState
	p1 := real(final.Data[1] * complex(real(final.Data[1]), -imag(final.Data[1])))
	if math.Abs(p1-1) > 1e-6 {
		t.Errorf("expected full population transfer, got %g", p1)
	}
}

func TestSesolveTimeDependent(t *testing.T) {
	// pi pulse: H = f(t) sigma_x/2 with a raised cosine envelope. The envelope
	// integrates to amp*gate/2, so amp = 2*pi/gate gives rotation angle pi.
	gate := 1.0
	amp := 2 * math.Pi / gate
	env := timeop.RaisedCosine(amp, gate)
	h := timeop.Modulated(env, quantum.SigmaX().Scale(0.5))
	psi0 := quantum.Basis(2, 0)
	tsave := uniformGrid(0, gate, 3)

	opts := DefaultOptions()
	opts.Dt = 0.001
	result, err := Sesolve(context.Background(), h, psi0, tsave, nil, opts)
	if err != nil {
		t.Fatalf("sesolve failed: %v", err)
	}

	p0 := result.FinalState.Data[0]
	if mag := real(p0)*real(p0) + imag(p0)*imag(p0); mag > 1e-6 {
		t.Errorf("ground population after pi pulse: %g", mag)
	}
}

func TestSesolveValidation(t *testing.T) {
	h := timeop.Constant(quantum.NumberOp(4))
	psi0 := quantum.Basis(4, 0)
	opts := DefaultOptions()

	if _, err := Sesolve(context.Background(), h, psi0, nil, nil, opts); err == nil {
		t.Error("expected error for empty tsave")
	}
	if _, err := Sesolve(context.Background(), h, psi0, []float64{1, 0.5}, nil, opts); err == nil {
		t.Error("expected error for unsorted tsave")
	}
	if _, err := Sesolve(context.Background(), h, quantum.Eye(4), []float64{0, 1}, nil, opts); !errors.Is(err, quantum.ErrNotKet) {
		t.Errorf("expected ErrNotKet, got %v", err)
	}
	if _, err := Sesolve(context.Background(), h, quantum.Basis(3, 0), []float64{0, 1}, nil, opts); !errors.Is(err, quantum.ErrDimensionMismatch) {
		t.Errorf("expected dimension mismatch, got %v", err)
	}

	bad := opts
	bad.Dt = -1
	if _, err := Sesolve(context.Background(), h, psi0, []float64{0, 1}, nil, bad); err == nil {
		t.Error("expected error for negative dt")
	}
}

func TestSesolveFixedStepGrid(t *testing.T) {
	h := timeop.Constant(quantum.NumberOp(2))
	psi0 := quantum.Basis(2, 0)

	opts := DefaultOptions()
	opts.Method = MethodRK4
	opts.Dt = 0.3

	// 0.5 is not a multiple of 0.3
	_, err := Sesolve(context.Background(), h, psi0, []float64{0, 0.5}, nil, opts)
	if err == nil {
		t.Error("expected grid mismatch error")
	}
}

func TestSesolvePropagatorRejectsTimeDependent(t *testing.T) {
	h := timeop.Modulated(func(t float64) complex128 { return complex(t, 0) }, quantum.SigmaZ())
	psi0 := quantum.Basis(2, 0)

	opts := DefaultOptions()
	opts.Method = MethodPropagator

	if _, err := Sesolve(context.Background(), h, psi0, []float64{0, 1}, nil, opts); err == nil {
		t.Error("expected rejection of a time-dependent Hamiltonian")
	}
}

func TestSesolveContextCancellation(t *testing.T) {
	h := timeop.Constant(quantum.NumberOp(16))
	psi0 := quantum.Coherent(16, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	opts := DefaultOptions()
	opts.Method = MethodRK4
	opts.Dt = 1e-6

	_, err := Sesolve(ctx, h, psi0, []float64{0, 1}, nil, opts)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestSesolveSaveStatesOff(t *testing.T) {
	h, psi0, expOps := cavityProblem(8, 1, 0.5)
	tsave := uniformGrid(0, 1, 6)

	opts := DefaultOptions()
	opts.SaveStates = false

	result, err := Sesolve(context.Background(), h, psi0, tsave, expOps, opts)
	if err != nil {
		t.Fatalf("sesolve failed: %v", err)
	}

	if len(result.States) != 0 {
		t.Errorf("expected no stored states, got %d", len(result.States))
	}
	if result.FinalState == nil {
		t.Error("final state should always be present")
	}
	if len(result.Expects[0]) != len(tsave) {
		t.Error("expectation values should be saved at every time")
	}
}
