package solve

import (
	"fmt"
	"math"

	"go.uber.org/zap"
)

// Method selects the integration scheme.
type Method string

const (
	// MethodEuler is fixed-step first order.
	MethodEuler Method = "euler"
	// MethodRK4 is fixed-step classical Runge-Kutta.
	MethodRK4 Method = "rk4"
	// MethodDopri5 is the adaptive Dormand-Prince 5(4) pair.
	MethodDopri5 Method = "dopri5"
	// MethodPropagator steps with the exponential of a constant generator.
	MethodPropagator Method = "propagator"
)

// Options configures a solver run.
type Options struct {
	Method Method

	// Dt is the fixed step size (euler and rk4) and the initial step of the
	// adaptive scheme.
	Dt float64

	// Rtol and Atol control the adaptive error norm.
	Rtol float64
	Atol float64

	// MaxSteps bounds the total number of attempted steps.
	MaxSteps int

	// SaveStates selects whether the state is kept at every save time or
	// only at the final one. Expectation values are always saved.
	SaveStates bool

	// Seed feeds the per-trajectory RNG of the stochastic solvers.
	Seed int64

	// NTraj is the trajectory count for smesolve and mcsolve.
	NTraj int

	// Logger receives solver progress at debug level. Defaults to a nop
	// logger.
	Logger *zap.Logger
}

func DefaultOptions() Options {
	return Options{
		Method:     MethodDopri5,
		Dt:         0.01,
		Rtol:       1e-8,
		Atol:       1e-10,
		MaxSteps:   100000,
		SaveStates: true,
		Seed:       1,
		NTraj:      64,
		Logger:     zap.NewNop(),
	}
}

func (o *Options) validate() error {
	if o.Dt <= 0 {
		return fmt.Errorf("solve: dt must be positive, got %g", o.Dt)
	}
	if o.Method == MethodDopri5 && (o.Rtol <= 0 || o.Atol <= 0) {
		return fmt.Errorf("solve: rtol and atol must be positive for the adaptive method")
	}
	if o.MaxSteps <= 0 {
		return fmt.Errorf("solve: max steps must be positive, got %d", o.MaxSteps)
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return nil
}

// checkTsave validates the save time grid: non-empty, non-negative, strictly
// ascending.
func checkTsave(tsave []float64) error {
	if len(tsave) == 0 {
		return fmt.Errorf("solve: tsave must not be empty")
	}
	if tsave[0] < 0 {
		return fmt.Errorf("solve: tsave must contain non-negative values only")
	}
	for i := 1; i < len(tsave); i++ {
		if tsave[i] <= tsave[i-1] {
			return fmt.Errorf("solve: tsave must be sorted in strictly ascending order")
		}
	}
	return nil
}

// fixedStepCount returns the number of dt-sized steps covering an interval,
// rejecting intervals that are not close to a multiple of dt.
func fixedStepCount(interval, dt float64) (int, error) {
	steps := math.Round(interval / dt)
	if steps < 1 || math.Abs(interval-steps*dt) > 1e-9*math.Max(1, interval) {
		return 0, fmt.Errorf("solve: every tsave interval must be a multiple of dt (interval %g, dt %g)", interval, dt)
	}
	return int(steps), nil
}
