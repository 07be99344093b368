package solve

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ravik-m/qdyn/internal/metrics"
	"github.com/ravik-m/qdyn/internal/quantum"
	"github.com/ravik-m/qdyn/internal/stepper"
)

// minStepFraction of the current save interval is the smallest adaptive step
// accepted before the run is aborted.
const minStepFraction = 1e-12

// integrate drives a right-hand side across the tsave grid and saves through
// the toState conversion. It implements the fixed-step and adaptive loops
// shared by Sesolve and Mesolve.
func integrate(
	ctx context.Context,
	f stepper.RHS,
	y0 []complex128,
	tsave []float64,
	opts Options,
	toState func(y []complex128) *quantum.Matrix,
	expect func(y []complex128) []complex128,
	mets []metrics.Metric,
) (*Result, error) {
	nExp := 0
	if e := expect(y0); e != nil {
		nExp = len(e)
	}
	result := newResult(tsave, nExp, opts.SaveStates)

	for _, m := range mets {
		m.Reset()
	}

	save := func(y []complex128, t float64) {
		state := toState(y)
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

	y := append([]complex128(nil), y0...)
	t := tsave[0]
	save(y, t)

	var err error
	switch opts.Method {
	case MethodEuler, MethodRK4:
		var s stepper.Stepper
		if opts.Method == MethodEuler {
			s = stepper.NewEuler()
		} else {
			s = stepper.NewRK4()
		}
		_, err = fixedLoop(ctx, s, f, y, t, tsave[1:], opts, result, save)
	case MethodDopri5:
		_, err = adaptiveLoop(ctx, f, y, t, tsave[1:], opts, result, save)
	default:
		return nil, fmt.Errorf("solve: method %q is not supported here", opts.Method)
	}
	if err != nil {
		return result, err
	}

	for _, m := range mets {
		result.Metrics[m.Name()] = m.Value()
	}
	return result, nil
}

func fixedLoop(
	ctx context.Context,
	s stepper.Stepper,
	f stepper.RHS,
	y []complex128,
	t float64,
	remaining []float64,
	opts Options,
	result *Result,
	save func(y []complex128, t float64),
) ([]complex128, error) {
	for _, tNext := range remaining {
		steps, err := fixedStepCount(tNext-t, opts.Dt)
		if err != nil {
			return y, err
		}
		for i := 0; i < steps; i++ {
			select {
			case <-ctx.Done():
				return y, ctx.Err()
			default:
			}

			y = s.Step(f, y, t, opts.Dt)
			t += opts.Dt
			result.StepsTaken++

			if result.StepsTaken > opts.MaxSteps {
				return y, &StepError{Step: result.StepsTaken, Time: t, Wrapped: ErrMaxSteps}
			}
			if !quantum.VecIsValid(y) {
				return y, &StepError{Step: result.StepsTaken, Time: t, Wrapped: ErrUnstable}
			}
		}
		t = tNext // avoid accumulation drift at save points
		save(y, t)
		opts.Logger.Debug("saved state", zap.Float64("t", t), zap.Int("steps", result.StepsTaken))
	}
	return y, nil
}

func adaptiveLoop(
	ctx context.Context,
	f stepper.RHS,
	y []complex128,
	t float64,
	remaining []float64,
	opts Options,
	result *Result,
	save func(y []complex128, t float64),
) ([]complex128, error) {
	d := stepper.NewDopri5()
	dt := opts.Dt

	for _, tNext := range remaining {
		interval := tNext - t
		for t < tNext {
			select {
			case <-ctx.Done():
				return y, ctx.Err()
			default:
			}

			step := dt
			if t+step > tNext {
				step = tNext - t
			}

			ynew, dtNext, accepted := d.StepAdaptive(f, y, t, step, opts.Rtol, opts.Atol)
			result.StepsTaken++
			if accepted {
				y = ynew
				t += step
			} else {
				result.StepsRejected++
			}
			dt = dtNext

			if result.StepsTaken > opts.MaxSteps {
				return y, &StepError{Step: result.StepsTaken, Time: t, Wrapped: ErrMaxSteps}
			}
			if dt < minStepFraction*interval {
				return y, &StepError{Step: result.StepsTaken, Time: t, Wrapped: ErrStepTooSmall}
			}
			if accepted && !quantum.VecIsValid(y) {
				return y, &StepError{Step: result.StepsTaken, Time: t, Wrapped: ErrUnstable}
			}
		}
		t = tNext
		save(y, t)
		opts.Logger.Debug("saved state",
			zap.Float64("t", t),
			zap.Int("steps", result.StepsTaken),
			zap.Int("rejected", result.StepsRejected))
	}
	return y, nil
}
