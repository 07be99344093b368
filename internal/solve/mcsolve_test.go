package solve

import (
	"context"
	"math"
	"testing"

	"github.com/ravik-m/qdyn/internal/quantum"
	"github.com/ravik-m/qdyn/internal/timeop"
)

func TestMcsolveQubitDecay(t *testing.T) {
	// spontaneous emission from |e>: P_e(t) = exp(-gamma t)
	gamma := 1.0
	h := timeop.Constant(quantum.NewMatrix(2, 2))
	jump := []*quantum.Matrix{quantum.SigmaMinus().Scale(complex(math.Sqrt(gamma), 0))}
	excited := quantum.Basis(2, 0) // |e> is the first basis vector
	proj := quantum.NewMatrixFrom(2, 2, []complex128{1, 0, 0, 0})
	tsave := uniformGrid(0, 2, 5)

	opts := DefaultOptions()
	opts.Dt = 0.002
	opts.NTraj = 1000
	opts.Seed = 5

	result, err := Mcsolve(context.Background(), h, jump, excited, tsave, []*quantum.Matrix{proj}, opts)
	if err != nil {
		t.Fatalf("mcsolve failed: %v", err)
	}

	for i, tt := range tsave {
		want := math.Exp(-gamma * tt)
		got := real(result.Expects[0][i])
		if math.Abs(got-want) > 0.06 {
			t.Errorf("t=%g: P_e = %g, want %g", tt, got, want)
		}
	}
}

func TestMcsolveMatchesMesolve(t *testing.T) {
	// averaged jump trajectories reproduce the unconditional master equation
	n := 6
	kappa := 1.0
	h, jump, _, expOps := leakyCavityProblem(n, 0, kappa, 1)
	psi0 := quantum.Coherent(n, 1)
	tsave := uniformGrid(0, 1, 6)

	mcOpts := DefaultOptions()
	mcOpts.Dt = 0.002
	mcOpts.NTraj = 400
	mcOpts.Seed = 9

	mc, err := Mcsolve(context.Background(), h, jump, psi0, tsave, expOps, mcOpts)
	if err != nil {
		t.Fatalf("mcsolve failed: %v", err)
	}

	meOpts := DefaultOptions()
	me, err := Mesolve(context.Background(), h, jump, quantum.KetToDM(psi0), tsave, expOps, meOpts)
	if err != nil {
		t.Fatalf("mesolve failed: %v", err)
	}

	for i := range tsave {
		diff := math.Abs(real(mc.Expects[0][i]) - real(me.Expects[0][i]))
		if diff > 0.1 {
			t.Errorf("t=%g: mcsolve <n> = %g, mesolve <n> = %g",
				tsave[i], real(mc.Expects[0][i]), real(me.Expects[0][i]))
		}
	}

	final := mc.FinalState
	if !final.IsHermitian(1e-9) {
		t.Error("averaged state lost hermiticity")
	}
	if math.Abs(real(final.Trace())-1) > 1e-9 {
		t.Errorf("averaged state trace %g, want 1", real(final.Trace()))
	}
}

func TestMcsolveNoJumps(t *testing.T) {
	// with no jump operators every trajectory is pure Schrödinger evolution
	n := 6
	h, psi0, _ := cavityProblem(n, 2*math.Pi, 1)
	expOps := []*quantum.Matrix{quantum.NumberOp(n)}
	tsave := uniformGrid(0, 1, 5)

	opts := DefaultOptions()
	opts.Dt = 0.001
	opts.NTraj = 2

	result, err := Mcsolve(context.Background(), h, nil, psi0, tsave, expOps, opts)
	if err != nil {
		t.Fatalf("mcsolve failed: %v", err)
	}

	// <n> is conserved by H = delta a†a; the reference value is computed in
	// the truncated space, where |alpha0|^2 is slightly below 1
	want := real(quantum.Expect(quantum.NumberOp(n), psi0))
	for i := range tsave {
		if math.Abs(real(result.Expects[0][i])-want) > 1e-4 {
			t.Errorf("t=%g: <n> = %g, want %g", tsave[i], real(result.Expects[0][i]), want)
		}
	}
}

func TestMcsolveValidation(t *testing.T) {
	h := timeop.Constant(quantum.NewMatrix(2, 2))
	jump := []*quantum.Matrix{quantum.SigmaMinus()}
	tsave := uniformGrid(0, 1, 3)
	opts := DefaultOptions()

	if _, err := Mcsolve(context.Background(), h, jump, quantum.KetToDM(quantum.Basis(2, 0)), tsave, nil, opts); err == nil {
		t.Error("expected rejection of a density-matrix initial state")
	}

	bad := opts
	bad.NTraj = 0
	if _, err := Mcsolve(context.Background(), h, jump, quantum.Basis(2, 0), tsave, nil, bad); err == nil {
		t.Error("expected rejection of zero trajectories")
	}
}
