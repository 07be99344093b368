package solve

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/ravik-m/qdyn/internal/metrics"
	"github.com/ravik-m/qdyn/internal/quantum"
	"github.com/ravik-m/qdyn/internal/timeop"
)

// Mesolve integrates the Lindblad master equation
//
//	dρ/dt = -i[H(t), ρ] + Σ_k (L_k ρ L_k† - ½{L_k†L_k, ρ})
//
// across the tsave grid. A ket initial state is promoted to its projector.
func Mesolve(
	ctx context.Context,
	h timeop.TimeOp,
	jumpOps []*quantum.Matrix,
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

	rho0, err := promoteToDM(state0, h.Dim())
	if err != nil {
		return nil, err
	}
	for _, l := range jumpOps {
		if l.Rows != h.Dim() || !l.IsSquare() {
			return nil, quantum.ErrDimensionMismatch
		}
	}

	start := time.Now()
	opts.Logger.Debug("mesolve start",
		zap.Int("dim", h.Dim()),
		zap.Int("jump_ops", len(jumpOps)),
		zap.String("method", string(opts.Method)),
		zap.Int("save_points", len(tsave)))

	if opts.Method == MethodPropagator {
		return mePropagator(ctx, h, jumpOps, rho0, tsave, expOps, opts)
	}

	n := h.Dim()
	f := func(t float64, y, dy []complex128) {
		rho := quantum.NewMatrixFrom(n, n, y)
		drho := quantum.Lindbladian(h.At(t), jumpOps, rho)
		copy(dy, drho.Data)
	}

	toState := func(y []complex128) *quantum.Matrix {
		return quantum.UnvecDM(y, n)
	}
	expect := expectDMs(expOps, n)

	result, err := integrate(ctx, f, quantum.VecDM(rho0), tsave, opts, toState, expect,
		[]metrics.Metric{metrics.NewTraceDrift(), metrics.NewHermiticityDrift(), metrics.NewMinPurity()})
	if err != nil {
		return result, err
	}

	opts.Logger.Debug("mesolve done",
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("steps", result.StepsTaken))
	return result, nil
}

// mePropagator steps vec(ρ) with exp(𝓛 dt) for a constant Liouvillian.
func mePropagator(
	ctx context.Context,
	h timeop.TimeOp,
	jumpOps []*quantum.Matrix,
	rho0 *quantum.Matrix,
	tsave []float64,
	expOps []*quantum.Matrix,
	opts Options,
) (*Result, error) {
	if !h.IsConstant() {
		return nil, errPropagatorTimeDependent
	}

	n := h.Dim()
	sup := quantum.Liouvillian(h.At(0), jumpOps)
	step := newPropagatorCache(sup)

	expect := expectDMs(expOps, n)
	result := newResult(tsave, len(expOps), opts.SaveStates)

	mets := []metrics.Metric{metrics.NewTraceDrift(), metrics.NewHermiticityDrift(), metrics.NewMinPurity()}
	save := func(y []complex128, t float64) {
		state := quantum.UnvecDM(y, n)
		if opts.SaveStates {
			result.States = append(result.States, state)
		}
		result.FinalState = state
		if e := expect(y); e != nil {
			for i, v := range e {
				result.Expects[i] = append(result.Expects[i], v)
			}
		}
		for _, m := range mets {
			m.Observe(state, t)
		}
	}

	y := quantum.VecDM(rho0)
	save(y, tsave[0])

	for i := 1; i < len(tsave); i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}
		u := step.at(tsave[i] - tsave[i-1])
		y = u.MulVec(y)
		result.StepsTaken++
		save(y, tsave[i])
	}

	for _, m := range mets {
		result.Metrics[m.Name()] = m.Value()
	}
	return result, nil
}

// promoteToDM accepts a ket or a density matrix and returns a density matrix
// of the expected dimension.
func promoteToDM(state *quantum.Matrix, dim int) (*quantum.Matrix, error) {
	switch {
	case quantum.IsKet(state):
		if state.Rows != dim {
			return nil, quantum.ErrDimensionMismatch
		}
		return quantum.KetToDM(state), nil
	case state.IsSquare():
		if state.Rows != dim {
			return nil, quantum.ErrDimensionMismatch
		}
		return state, nil
	default:
		return nil, &quantum.StateError{Rows: state.Rows, Cols: state.Cols, Wrapped: quantum.ErrNotDM}
	}
}

func expectDMs(expOps []*quantum.Matrix, n int) func(y []complex128) []complex128 {
	if len(expOps) == 0 {
		return func([]complex128) []complex128 { return nil }
	}
	return func(y []complex128) []complex128 {
		out := make([]complex128, len(expOps))
		rho := quantum.NewMatrixFrom(n, n, y)
		for i, op := range expOps {
			out[i] = quantum.Expect(op, rho)
		}
		return out
	}
}
