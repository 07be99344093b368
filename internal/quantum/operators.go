package quantum

import (
	"math"
	"math/cmplx"
)

// Eye returns the n x n identity.
func Eye(n int) *Matrix {
	m := NewMatrix(n, n)
	for i := 0; i < n; i++ {
		m.Set(i, i, 1)
	}
	return m
}

// Destroy returns the bosonic annihilation operator truncated to dim levels.
func Destroy(dim int) *Matrix {
	m := NewMatrix(dim, dim)
	for n := 1; n < dim; n++ {
		m.Set(n-1, n, complex(math.Sqrt(float64(n)), 0))
	}
	return m
}

// Create returns the bosonic creation operator truncated to dim levels.
func Create(dim int) *Matrix {
	return Destroy(dim).Dag()
}

// NumberOp returns a†a.
func NumberOp(dim int) *Matrix {
	m := NewMatrix(dim, dim)
	for n := 0; n < dim; n++ {
		m.Set(n, n, complex(float64(n), 0))
	}
	return m
}

func SigmaX() *Matrix {
	return NewMatrixFrom(2, 2, []complex128{0, 1, 1, 0})
}

func SigmaY() *Matrix {
	return NewMatrixFrom(2, 2, []complex128{0, -1i, 1i, 0})
}

func SigmaZ() *Matrix {
	return NewMatrixFrom(2, 2, []complex128{1, 0, 0, -1})
}

// SigmaMinus lowers |e> = |0> to |g> = |1> in the convention where the
// excited state is the first basis vector.
func SigmaMinus() *Matrix {
	return NewMatrixFrom(2, 2, []complex128{0, 0, 1, 0})
}

func SigmaPlus() *Matrix {
	return NewMatrixFrom(2, 2, []complex128{0, 1, 0, 0})
}

// Displace returns the displacement operator D(alpha) = exp(alpha a† - alpha* a).
func Displace(dim int, alpha complex128) *Matrix {
	a := Destroy(dim)
	gen := a.Dag().Scale(alpha).Sub(a.Scale(cmplx.Conj(alpha)))
	return gen.Expm()
}

// Squeeze returns the squeezing operator S(z) = exp((z* a² - z a†²)/2).
func Squeeze(dim int, z complex128) *Matrix {
	a := Destroy(dim)
	a2 := a.Mul(a)
	gen := a2.Scale(cmplx.Conj(z) / 2).Sub(a2.Dag().Scale(z / 2))
	return gen.Expm()
}

// Parity returns the photon-number parity operator (-1)^(a†a).
func Parity(dim int) *Matrix {
	m := NewMatrix(dim, dim)
	for n := 0; n < dim; n++ {
		if n%2 == 0 {
			m.Set(n, n, 1)
		} else {
			m.Set(n, n, -1)
		}
	}
	return m
}
