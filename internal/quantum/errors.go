package quantum

import (
	"errors"
	"fmt"
)

// Domain errors for quantum-state operations.
var (
	// ErrDimensionMismatch indicates operator/state dimensions that do not agree.
	ErrDimensionMismatch = errors.New("quantum: dimension mismatch")

	// ErrNotKet indicates a state vector was expected.
	ErrNotKet = errors.New("quantum: state is not a ket")

	// ErrNotDM indicates a density matrix was expected.
	ErrNotDM = errors.New("quantum: state is not a density matrix")

	// ErrInvalidState indicates NaN or Inf entries in a state.
	ErrInvalidState = errors.New("quantum: invalid state (NaN or Inf detected)")

	// ErrParameterBounds indicates a parameter value outside its valid range.
	ErrParameterBounds = errors.New("quantum: parameter out of valid bounds")
)

// StateError wraps a state-validation error with the shape that failed.
type StateError struct {
	Rows, Cols int
	Wrapped    error
}

func (e *StateError) Error() string {
	return fmt.Sprintf("%v (shape %dx%d)", e.Wrapped, e.Rows, e.Cols)
}

func (e *StateError) Unwrap() error { return e.Wrapped }
