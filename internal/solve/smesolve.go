package solve

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"runtime"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ravik-m/qdyn/internal/quantum"
	"github.com/ravik-m/qdyn/internal/timeop"
)

// Smesolve integrates the diffusive stochastic master equation for homodyne
// detection with an Euler-Maruyama scheme:
//
//	dρ = 𝓛(ρ) dt + Σ_k √η_k 𝓗[L_k](ρ) dW_k
//	𝓗[L](ρ) = Lρ + ρL† - tr((L+L†)ρ) ρ
//
// etas are the detection efficiencies in [0, 1], one per jump operator. The
// result carries the trajectory-averaged states and expectation values, the
// per-trajectory homodyne records
//
//	dY_k = √η_k tr((L_k+L_k†)ρ) dt + dW_k
//
// binned between consecutive save times, and the trajectory standard
// deviation of each expectation value.
func Smesolve(
	ctx context.Context,
	h timeop.TimeOp,
	jumpOps []*quantum.Matrix,
	etas []float64,
	state0 *quantum.Matrix,
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
	if len(etas) != len(jumpOps) {
		return nil, fmt.Errorf("solve: got %d efficiencies for %d jump operators", len(etas), len(jumpOps))
	}
	for _, eta := range etas {
		if eta < 0 || eta > 1 {
			return nil, fmt.Errorf("solve: detection efficiency %g outside [0, 1]", eta)
		}
	}
	if opts.NTraj < 1 {
		return nil, fmt.Errorf("solve: need at least one trajectory, got %d", opts.NTraj)
	}

	rho0, err := promoteToDM(state0, h.Dim())
	if err != nil {
		return nil, err
	}

	// precompute the fixed-step layout so all trajectories agree
	stepCounts := make([]int, len(tsave)-1)
	for i := 1; i < len(tsave); i++ {
		steps, err := fixedStepCount(tsave[i]-tsave[i-1], opts.Dt)
		if err != nil {
			return nil, err
		}
		stepCounts[i-1] = steps
	}

	start := time.Now()
	opts.Logger.Debug("smesolve start",
		zap.Int("dim", h.Dim()),
		zap.Int("trajectories", opts.NTraj),
		zap.Int("detectors", len(jumpOps)))

	trajStates := make([][]*quantum.Matrix, opts.NTraj)
	trajExpects := make([][][]complex128, opts.NTraj)
	records := make([][][]float64, opts.NTraj)

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(runtime.GOMAXPROCS(0))

	for traj := 0; traj < opts.NTraj; traj++ {
		eg.Go(func() error {
			rng := rand.New(rand.NewPCG(uint64(opts.Seed), uint64(traj)))
			states, expects, record, err := smeTrajectory(
				egCtx, h, jumpOps, etas, rho0, tsave, stepCounts, expOps, opts, rng)
			if err != nil {
				return fmt.Errorf("trajectory %d: %w", traj, err)
			}
			trajStates[traj] = states
			trajExpects[traj] = expects
			records[traj] = record
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	result := averageTrajectories(tsave, trajStates, trajExpects, opts)
	result.Measurements = records

	opts.Logger.Debug("smesolve done", zap.Duration("elapsed", time.Since(start)))
	return result, nil
}

// smeTrajectory runs one Euler-Maruyama sample path. The state is
// renormalized after every step; the raw scheme conserves the trace only to
// O(dt) and the normalized form is the standard diffusive unraveling.
func smeTrajectory(
	ctx context.Context,
	h timeop.TimeOp,
	jumpOps []*quantum.Matrix,
	etas []float64,
	rho0 *quantum.Matrix,
	tsave []float64,
	stepCounts []int,
	expOps []*quantum.Matrix,
	opts Options,
	rng *rand.Rand,
) (states []*quantum.Matrix, expects [][]complex128, record [][]float64, err error) {
	nDet := len(jumpOps)
	dags := make([]*quantum.Matrix, nDet)
	for k, l := range jumpOps {
		dags[k] = l.Dag()
	}

	states = make([]*quantum.Matrix, 0, len(tsave))
	expects = make([][]complex128, 0, len(tsave))
	record = make([][]float64, nDet)
	for k := range record {
		record[k] = make([]float64, len(tsave)-1)
	}

	saveTraj := func(rho *quantum.Matrix) {
		states = append(states, rho.Clone())
		e := make([]complex128, len(expOps))
		for i, op := range expOps {
			e[i] = quantum.Expect(op, rho)
		}
		expects = append(expects, e)
	}

	rho := rho0.Clone()
	t := tsave[0]
	sqrtDt := math.Sqrt(opts.Dt)
	saveTraj(rho)

	for bin, steps := range stepCounts {
		interval := tsave[bin+1] - tsave[bin]
		for i := 0; i < steps; i++ {
			select {
			case <-ctx.Done():
				return nil, nil, nil, ctx.Err()
			default:
			}

			drift := quantum.Lindbladian(h.At(t), jumpOps, rho).Scale(complex(opts.Dt, 0))
			next := rho.Add(drift)

			for k, l := range jumpOps {
				dw := rng.NormFloat64() * sqrtDt
				sig := homodyneSignal(l, dags[k], rho)
				record[k][bin] += math.Sqrt(etas[k])*sig*opts.Dt + dw

				// eta = 0 detectors contribute pure noise to the record but
				// no backaction on the state
				if etas[k] == 0 {
					continue
				}

				// H[L](rho) dW
				sto := l.Mul(rho).Add(rho.Mul(dags[k]))
				sto = sto.Sub(rho.Scale(complex(sig, 0)))
				next = next.Add(sto.Scale(complex(math.Sqrt(etas[k])*dw, 0)))
			}

			tr := real(next.Trace())
			if tr <= 0 || !next.IsValid() {
				return nil, nil, nil, &StepError{Step: i, Time: t, Wrapped: ErrUnstable}
			}
			rho = next.Scale(complex(1/tr, 0))
			t += opts.Dt
		}
		t = tsave[bin+1]
		// report the time-averaged signal over the bin
		for k := range record {
			record[k][bin] /= interval
		}
		saveTraj(rho)
	}
	return states, expects, record, nil
}

// homodyneSignal is tr((L + L†) rho), the deterministic part of the record.
func homodyneSignal(l, ld, rho *quantum.Matrix) float64 {
	n := rho.Rows
	var tr complex128
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			tr += (l.At(i, j) + ld.At(i, j)) * rho.At(j, i)
		}
	}
	return real(tr)
}
