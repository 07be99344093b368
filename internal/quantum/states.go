package quantum

// Fock returns the ket of a Fock state, or the ket of a tensor product of
// Fock states when several mode dimensions are given. Kets are n x 1 matrices.
func Fock(dims []int, states []int) (*Matrix, error) {
	if len(dims) != len(states) {
		return nil, ErrDimensionMismatch
	}
	n := 0
	size := 1
	for i, dim := range dims {
		if states[i] < 0 || states[i] >= dim {
			return nil, ErrParameterBounds
		}
		n = dim*n + states[i]
		size *= dim
	}
	ket := NewMatrix(size, 1)
	ket.Data[n] = 1
	return ket, nil
}

// FockDM returns the density matrix of a Fock state.
func FockDM(dims []int, states []int) (*Matrix, error) {
	ket, err := Fock(dims, states)
	if err != nil {
		return nil, err
	}
	return KetToDM(ket), nil
}

// Basis returns the single-mode Fock ket |n> in a dim-level space.
func Basis(dim, n int) *Matrix {
	ket, err := Fock([]int{dim}, []int{n})
	if err != nil {
		panic(err)
	}
	return ket
}

// Coherent returns the ket of a coherent state |alpha>, built by displacing
// the vacuum.
func Coherent(dim int, alpha complex128) *Matrix {
	return Displace(dim, alpha).Mul(Basis(dim, 0))
}

// CoherentDM returns the density matrix of a coherent state.
func CoherentDM(dim int, alpha complex128) *Matrix {
	return KetToDM(Coherent(dim, alpha))
}

// ThermalDM returns the density matrix of a thermal state with mean photon
// number nth, normalized over the truncated space.
func ThermalDM(dim int, nth float64) *Matrix {
	m := NewMatrix(dim, dim)
	if nth <= 0 {
		m.Set(0, 0, 1)
		return m
	}
	r := nth / (1 + nth)
	p := 1.0
	total := 0.0
	for n := 0; n < dim; n++ {
		m.Set(n, n, complex(p, 0))
		total += p
		p *= r
	}
	return m.Scale(complex(1/total, 0))
}

// MaximallyMixed returns I/n.
func MaximallyMixed(dim int) *Matrix {
	return Eye(dim).Scale(complex(1/float64(dim), 0))
}

// KetToDM returns the projector |psi><psi|.
func KetToDM(ket *Matrix) *Matrix {
	return ket.Mul(ket.Dag())
}
