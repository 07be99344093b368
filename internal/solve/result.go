package solve

import (
	"errors"
	"fmt"

	"github.com/ravik-m/qdyn/internal/quantum"
)

// Sentinel errors shared by the solvers.
var (
	// ErrUnstable indicates NaN or Inf appeared in the evolving state.
	ErrUnstable = errors.New("solve: state diverged (NaN or Inf)")

	// ErrMaxSteps indicates the step limit was hit before the final save time.
	ErrMaxSteps = errors.New("solve: maximum number of steps reached")

	// ErrStepTooSmall indicates the adaptive controller collapsed the step.
	ErrStepTooSmall = errors.New("solve: adaptive step size below minimum")
)

// StepError wraps a solver error with the step and time it occurred at.
type StepError struct {
	Step    int
	Time    float64
	Wrapped error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (t=%.6g): %v", e.Step, e.Time, e.Wrapped)
}

func (e *StepError) Unwrap() error { return e.Wrapped }

// Result holds the output of a solver run.
type Result struct {
	// Times is the save-time grid the run was evaluated on.
	Times []float64

	// States holds the saved states, kets as n x 1 and density matrices as
	// n x n. Empty except for the final state when SaveStates is false.
	States []*quantum.Matrix

	// Expects holds expectation values, one row per expectation operator,
	// one column per save time.
	Expects [][]complex128

	// ExpectsStd holds the trajectory standard deviation of the real part of
	// each expectation value. Only filled by the stochastic solvers.
	ExpectsStd [][]float64

	// Measurements holds homodyne records from Smesolve, indexed
	// [trajectory][detector][save interval].
	Measurements [][][]float64

	// FinalState is the state at the last save time, always present.
	FinalState *quantum.Matrix

	// Metrics holds conservation diagnostics accumulated over saved states.
	Metrics map[string]float64

	StepsTaken    int
	StepsRejected int
}

func newResult(tsave []float64, nExpOps int, saveStates bool) *Result {
	r := &Result{
		Times:   append([]float64(nil), tsave...),
		Metrics: make(map[string]float64),
	}
	if saveStates {
		r.States = make([]*quantum.Matrix, 0, len(tsave))
	}
	if nExpOps > 0 {
		r.Expects = make([][]complex128, nExpOps)
		for i := range r.Expects {
			r.Expects[i] = make([]complex128, 0, len(tsave))
		}
	}
	return r
}
