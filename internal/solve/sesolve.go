package solve

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/ravik-m/qdyn/internal/metrics"
	"github.com/ravik-m/qdyn/internal/quantum"
	"github.com/ravik-m/qdyn/internal/timeop"
)

// Sesolve integrates the Schrödinger equation
//
//	dψ/dt = -i H(t) ψ
//
// from psi0 across the tsave grid. expOps, if non-nil, are evaluated at every
// save time.
func Sesolve(
	ctx context.Context,
	h timeop.TimeOp,
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
	if psi0.Rows != h.Dim() {
		return nil, quantum.ErrDimensionMismatch
	}

	start := time.Now()
	opts.Logger.Debug("sesolve start",
		zap.Int("dim", h.Dim()),
		zap.String("method", string(opts.Method)),
		zap.Int("save_points", len(tsave)))

	if opts.Method == MethodPropagator {
		return sePropagator(ctx, h, psi0, tsave, expOps, opts)
	}

	n := h.Dim()
	f := func(t float64, y, dy []complex128) {
		ht := h.At(t)
		for i := 0; i < n; i++ {
			var sum complex128
			row := ht.Data[i*n : (i+1)*n]
			for j, x := range y {
				sum += row[j] * x
			}
			dy[i] = -1i * sum
		}
	}

	toState := func(y []complex128) *quantum.Matrix {
		data := append([]complex128(nil), y...)
		return quantum.NewMatrixFrom(n, 1, data)
	}
	expect := expectKets(expOps)

	result, err := integrate(ctx, f, psi0.Data, tsave, opts, toState, expect,
		[]metrics.Metric{metrics.NewNormDrift()})
	if err != nil {
		return result, err
	}

	opts.Logger.Debug("sesolve done",
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("steps", result.StepsTaken))
	return result, nil
}

// sePropagator steps psi with U = exp(-i H dt) for a constant Hamiltonian,
// caching the exponential between equal save intervals.
func sePropagator(
	ctx context.Context,
	h timeop.TimeOp,
	psi0 *quantum.Matrix,
	tsave []float64,
	expOps []*quantum.Matrix,
	opts Options,
) (*Result, error) {
	if !h.IsConstant() {
		return nil, errPropagatorTimeDependent
	}

	gen := h.At(0).Scale(-1i)
	step := newPropagatorCache(gen)

	expect := expectKets(expOps)
	result := newResult(tsave, len(expOps), opts.SaveStates)

	mets := []metrics.Metric{metrics.NewNormDrift()}
	save := func(y []complex128, t float64) {
		state := quantum.NewMatrixFrom(len(y), 1, append([]complex128(nil), y...))
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

	y := append([]complex128(nil), psi0.Data...)
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

func expectKets(expOps []*quantum.Matrix) func(y []complex128) []complex128 {
	if len(expOps) == 0 {
		return func([]complex128) []complex128 { return nil }
	}
	return func(y []complex128) []complex128 {
		out := make([]complex128, len(expOps))
		ket := quantum.NewMatrixFrom(len(y), 1, y)
		for i, op := range expOps {
			out[i] = quantum.Expect(op, ket)
		}
		return out
	}
}
