// Package systems provides ready-made quantum models for simulation.
//
// Each model implements the [System] interface, bundling a Hamiltonian,
// jump operators, a default initial state and named observables:
//
//   - [Cavity]: driven leaky optical cavity
//   - [Qubit]: driven two-level atom with emission and dephasing
//   - [JaynesCummings]: atom-cavity model with vacuum Rabi oscillations
//   - [Kerr]: driven nonlinear oscillator
//
// All models implement [Configurable] for runtime parameter adjustment.
// Use [NewRegistry] to build models by name from config files or CLI flags.
package systems
