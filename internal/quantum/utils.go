package quantum

import (
	"math"
	"math/cmplx"
)

// IsKet reports whether x has the shape of a state vector.
func IsKet(x *Matrix) bool { return x.Cols == 1 }

// IsDM reports whether x has the shape of a density matrix.
func IsDM(x *Matrix) bool { return x.IsSquare() }

// Expect computes the expectation value of op on a state, as <psi|O|psi> for
// a ket and tr(O rho) for a density matrix. The result is complex; it is real
// for Hermitian operators on physical states.
func Expect(op, state *Matrix) complex128 {
	if IsKet(state) {
		ov := op.MulVec(column(state))
		var sum complex128
		for i, v := range column(state) {
			sum += cmplx.Conj(v) * ov[i]
		}
		return sum
	}
	// tr(O rho) without forming the product matrix
	n := op.Rows
	var tr complex128
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			tr += op.At(i, j) * state.At(j, i)
		}
	}
	return tr
}

func column(ket *Matrix) []complex128 { return ket.Data }

// Purity returns tr(rho²).
func Purity(rho *Matrix) float64 {
	n := rho.Rows
	var tr complex128
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			tr += rho.At(i, j) * rho.At(j, i)
		}
	}
	return real(tr)
}

// Fidelity computes |<a|b>|² for two kets, or <psi|rho|psi> for a ket and a
// density matrix (in either argument order).
func Fidelity(a, b *Matrix) float64 {
	switch {
	case IsKet(a) && IsKet(b):
		var ov complex128
		for i, v := range column(a) {
			ov += cmplx.Conj(v) * column(b)[i]
		}
		return real(ov)*real(ov) + imag(ov)*imag(ov)
	case IsKet(a):
		return real(Expect(b, a))
	case IsKet(b):
		return real(Expect(a, b))
	default:
		// general mixed-state fidelity needs a matrix square root; the
		// solvers only compare against pure references
		panic("quantum: Fidelity of two density matrices is not supported")
	}
}

// Lindbladian applies the Lindblad generator to rho:
//
//	L(rho) = -i[H, rho] + sum_k (L_k rho L_k† - 1/2 {L_k† L_k, rho})
func Lindbladian(h *Matrix, jumpOps []*Matrix, rho *Matrix) *Matrix {
	out := h.Mul(rho).Sub(rho.Mul(h)).Scale(-1i)
	for _, l := range jumpOps {
		ld := l.Dag()
		ldl := ld.Mul(l)
		out = out.Add(l.Mul(rho).Mul(ld))
		out = out.Sub(ldl.Mul(rho).Add(rho.Mul(ldl)).Scale(0.5))
	}
	return out
}

// Liouvillian builds the superoperator matrix acting on vec(rho) with
// row-major vectorization:
//
//	-i(H ⊗ I - I ⊗ Hᵀ) + sum_k [L ⊗ conj(L) - 1/2 (L†L ⊗ I + I ⊗ (L†L)ᵀ)]
func Liouvillian(h *Matrix, jumpOps []*Matrix) *Matrix {
	n := h.Rows
	id := Eye(n)
	sup := h.Kron(id).Sub(id.Kron(h.Transpose())).Scale(-1i)
	for _, l := range jumpOps {
		ld := l.Dag()
		ldl := ld.Mul(l)
		conjL := l.Dag().Transpose()
		sup = sup.Add(l.Kron(conjL))
		sup = sup.Sub(ldl.Kron(id).Add(id.Kron(ldl.Transpose())).Scale(0.5))
	}
	return sup
}

// VecDM flattens a density matrix to a row-major vector.
func VecDM(rho *Matrix) []complex128 {
	out := make([]complex128, len(rho.Data))
	copy(out, rho.Data)
	return out
}

// UnvecDM reshapes a row-major vector back to an n x n density matrix.
func UnvecDM(v []complex128, n int) *Matrix {
	data := make([]complex128, len(v))
	copy(data, v)
	return NewMatrixFrom(n, n, data)
}

// Ptrace traces out one subsystem of a bipartite density matrix with
// dimensions dims = [dA, dB]. keep selects the retained subsystem (0 or 1).
func Ptrace(rho *Matrix, dims [2]int, keep int) (*Matrix, error) {
	dA, dB := dims[0], dims[1]
	if rho.Rows != dA*dB || !rho.IsSquare() {
		return nil, ErrDimensionMismatch
	}
	if keep == 0 {
		out := NewMatrix(dA, dA)
		for i := 0; i < dA; i++ {
			for j := 0; j < dA; j++ {
				var sum complex128
				for k := 0; k < dB; k++ {
					sum += rho.At(i*dB+k, j*dB+k)
				}
				out.Set(i, j, sum)
			}
		}
		return out, nil
	}
	out := NewMatrix(dB, dB)
	for i := 0; i < dB; i++ {
		for j := 0; j < dB; j++ {
			var sum complex128
			for k := 0; k < dA; k++ {
				sum += rho.At(k*dB+i, k*dB+j)
			}
			out.Set(i, j, sum)
		}
	}
	return out, nil
}

// VecNorm returns the Euclidean norm of a complex vector.
func VecNorm(v []complex128) float64 {
	sum := 0.0
	for _, x := range v {
		sum += real(x)*real(x) + imag(x)*imag(x)
	}
	return math.Sqrt(sum)
}

// VecIsValid scans a complex vector for NaN or Inf components.
func VecIsValid(v []complex128) bool {
	for _, x := range v {
		if math.IsNaN(real(x)) || math.IsNaN(imag(x)) ||
			math.IsInf(real(x), 0) || math.IsInf(imag(x), 0) {
			return false
		}
	}
	return true
}
