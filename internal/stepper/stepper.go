// Package stepper provides fixed-step and adaptive Runge-Kutta steppers over
// complex state vectors. The solvers flatten kets and density matrices into
// []complex128 and hand the stepper a right-hand-side function.
package stepper

// RHS evaluates dy/dt at (t, y) into dy. dy is preallocated by the caller.
type RHS func(t float64, y, dy []complex128)

// Stepper advances a state by a single fixed step.
type Stepper interface {
	Step(f RHS, y []complex128, t, dt float64) []complex128
}

// AdaptiveStepper additionally supports error-controlled steps. StepAdaptive
// returns the proposed next step size and whether the step was accepted; on
// rejection the returned state must be discarded.
type AdaptiveStepper interface {
	Stepper
	StepAdaptive(f RHS, y []complex128, t, dt, rtol, atol float64) (ynew []complex128, dtNext float64, accepted bool)
}
