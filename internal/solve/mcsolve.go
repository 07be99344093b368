package solve

import (
	"context"
	"fmt"
	"math/rand/v2"
	"runtime"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ravik-m/qdyn/internal/quantum"
	"github.com/ravik-m/qdyn/internal/stepper"
	"github.com/ravik-m/qdyn/internal/timeop"
)

// Mcsolve integrates the Monte Carlo jump unraveling of the master equation.
// Each trajectory evolves a ket under the non-Hermitian effective Hamiltonian
//
//	H_eff = H(t) - (i/2) Σ_k L_k†L_k
//
// without renormalization; a quantum jump fires when the decaying norm² drops
// below a uniform random threshold, with the channel drawn proportionally to
// ⟨ψ|L_k†L_k|ψ⟩. The result carries states and expectation values averaged
// over NTraj trajectories; states are density matrices.
func Mcsolve(
	ctx context.Context,
	h timeop.TimeOp,
	jumpOps []*quantum.Matrix,
	psi0 *quantum.Matrix,
	tsave []float64,
	expOps []*quantum.Matrix,
	opts Options,
) (*Result, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if err := checkTsave(tsave); err != nil {
		return nil, err
	}
	if !quantum.IsKet(psi0) {
		return nil, &quantum.StateError{Rows: psi0.Rows, Cols: psi0.Cols, Wrapped: quantum.ErrNotKet}
	}
	if opts.NTraj < 1 {
		return nil, fmt.Errorf("solve: need at least one trajectory, got %d", opts.NTraj)
	}

	n := h.Dim()
	stepCounts := make([]int, len(tsave)-1)
	for i := 1; i < len(tsave); i++ {
		steps, err := fixedStepCount(tsave[i]-tsave[i-1], opts.Dt)
		if err != nil {
			return nil, err
		}
		stepCounts[i-1] = steps
	}

	// L†L terms are time-independent; fold them once
	dags := make([]*quantum.Matrix, len(jumpOps))
	ldl := quantum.NewMatrix(n, n)
	for k, l := range jumpOps {
		dags[k] = l.Dag()
		ldl = ldl.Add(dags[k].Mul(l))
	}
	// -i·(-(i/2) Σ L†L) = -1/2 Σ L†L, added to -iH in the trajectory RHS
	heffAnti := ldl.Scale(complex(-0.5, 0))

	start := time.Now()
	opts.Logger.Debug("mcsolve start",
		zap.Int("dim", n),
		zap.Int("trajectories", opts.NTraj),
		zap.Int("channels", len(jumpOps)))

	trajStates := make([][]*quantum.Matrix, opts.NTraj)
	trajExpects := make([][][]complex128, opts.NTraj)

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(runtime.GOMAXPROCS(0))

	for traj := 0; traj < opts.NTraj; traj++ {
		eg.Go(func() error {
			rng := rand.New(rand.NewPCG(uint64(opts.Seed), uint64(traj)))
			states, expects, err := mcTrajectory(
				egCtx, h, heffAnti, jumpOps, dags, psi0, tsave, stepCounts, expOps, opts, rng)
			if err != nil {
				return fmt.Errorf("trajectory %d: %w", traj, err)
			}
			trajStates[traj] = states
			trajExpects[traj] = expects
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	result := averageTrajectories(tsave, trajStates, trajExpects, opts)
	opts.Logger.Debug("mcsolve done", zap.Duration("elapsed", time.Since(start)))
	return result, nil
}

func mcTrajectory(
	ctx context.Context,
	h timeop.TimeOp,
	heffAnti *quantum.Matrix,
	jumpOps, dags []*quantum.Matrix,
	psi0 *quantum.Matrix,
	tsave []float64,
	stepCounts []int,
	expOps []*quantum.Matrix,
	opts Options,
	rng *rand.Rand,
) (states []*quantum.Matrix, expects [][]complex128, err error) {
	n := psi0.Rows
	rk := stepper.NewRK4()

	f := func(t float64, y, dy []complex128) {
		heff := h.At(t).Scale(-1i).Add(heffAnti)
		for i := 0; i < n; i++ {
			var sum complex128
			row := heff.Data[i*n : (i+1)*n]
			for j, x := range y {
				sum += row[j] * x
			}
			dy[i] = sum
		}
	}

	states = make([]*quantum.Matrix, 0, len(tsave))
	expects = make([][]complex128, 0, len(tsave))

	saveTraj := func(y []complex128) {
		// normalize before saving; the raw ket decays between jumps
		norm := quantum.VecNorm(y)
		data := make([]complex128, n)
		inv := complex(1/norm, 0)
		for i, v := range y {
			data[i] = inv * v
		}
		ket := quantum.NewMatrixFrom(n, 1, data)
		states = append(states, quantum.KetToDM(ket))
		e := make([]complex128, len(expOps))
		for i, op := range expOps {
			e[i] = quantum.Expect(op, ket)
		}
		expects = append(expects, e)
	}

	y := append([]complex128(nil), psi0.Data...)
	t := tsave[0]
	threshold := rng.Float64()
	saveTraj(y)

	for bin, steps := range stepCounts {
		for i := 0; i < steps; i++ {
			select {
			case <-ctx.Done():
				return nil, nil, ctx.Err()
			default:
			}

			y = rk.Step(f, y, t, opts.Dt)
			t += opts.Dt

			if !quantum.VecIsValid(y) {
				return nil, nil, &StepError{Step: i, Time: t, Wrapped: ErrUnstable}
			}

			norm2 := quantum.VecNorm(y)
			norm2 *= norm2
			if norm2 <= threshold {
				y = applyJump(y, jumpOps, dags, rng)
				threshold = rng.Float64()
			}
		}
		t = tsave[bin+1]
		saveTraj(y)
	}
	return states, expects, nil
}

// applyJump draws a collapse channel with weight <psi|L†L|psi>, applies it
// and renormalizes.
func applyJump(y []complex128, jumpOps, dags []*quantum.Matrix, rng *rand.Rand) []complex128 {
	weights := make([]float64, len(jumpOps))
	total := 0.0
	for k, l := range jumpOps {
		ly := l.MulVec(y)
		w := quantum.VecNorm(ly)
		weights[k] = w * w
		total += weights[k]
	}
	if total == 0 {
		return y
	}

	pick := rng.Float64() * total
	k := 0
	for ; k < len(weights)-1; k++ {
		pick -= weights[k]
		if pick <= 0 {
			break
		}
	}

	out := jumpOps[k].MulVec(y)
	norm := quantum.VecNorm(out)
	inv := complex(1/norm, 0)
	for i := range out {
		out[i] *= inv
	}
	return out
}
