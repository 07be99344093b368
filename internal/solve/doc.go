// Package solve provides the quantum dynamics solvers:
//
//   - [Sesolve]: Schrödinger equation for a closed system state vector
//   - [Mesolve]: Lindblad master equation for an open system density matrix
//   - [Smesolve]: diffusive stochastic master equation under continuous
//     homodyne measurement, with measurement records
//   - [Mcsolve]: Monte Carlo quantum jump unraveling
//
// Fixed-step (euler, rk4), adaptive (dopri5) and matrix-exponential
// (propagator, constant generators only) methods are selected through
// [Options]. The stochastic solvers fan trajectories out across CPUs and
// return ensemble averages.
//
// # Thread Safety
//
// The solver functions share no state between calls and may run
// concurrently, but a single call mutates its own buffers and must not be
// raced on its inputs.
package solve
