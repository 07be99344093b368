// Package quantum provides the dense complex linear algebra and quantum
// primitives the solvers are built on:
//
//   - [Matrix]: dense complex128 matrix with the usual products, the
//     conjugate transpose, Kronecker products and a matrix exponential
//   - operators: [Destroy], [Create], [SigmaX], [Displace], ...
//   - states: [Fock], [Coherent], [ThermalDM], ...
//   - [Expect], [Lindbladian], [Liouvillian]: the building blocks of the
//     Schrödinger and Lindblad right-hand sides
//
// Kets are represented as n x 1 matrices and density matrices as n x n
// matrices, so solver results hold a single state type.
package quantum
