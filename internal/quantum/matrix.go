package quantum

import (
	"math"
	"math/cmplx"
)

// Matrix is a dense complex matrix in row-major layout.
type Matrix struct {
	Rows, Cols int
	Data       []complex128
}

func NewMatrix(rows, cols int) *Matrix {
	return &Matrix{Rows: rows, Cols: cols, Data: make([]complex128, rows*cols)}
}

// NewMatrixFrom builds a matrix from row-major data. The slice is not copied.
func NewMatrixFrom(rows, cols int, data []complex128) *Matrix {
	if len(data) != rows*cols {
		panic("quantum: data length does not match matrix shape")
	}
	return &Matrix{Rows: rows, Cols: cols, Data: data}
}

func (m *Matrix) At(i, j int) complex128     { return m.Data[i*m.Cols+j] }
func (m *Matrix) Set(i, j int, v complex128) { m.Data[i*m.Cols+j] = v }

func (m *Matrix) IsSquare() bool { return m.Rows == m.Cols }

func (m *Matrix) Clone() *Matrix {
	c := NewMatrix(m.Rows, m.Cols)
	copy(c.Data, m.Data)
	return c
}

func (m *Matrix) IsValid() bool {
	for _, v := range m.Data {
		if math.IsNaN(real(v)) || math.IsNaN(imag(v)) ||
			math.IsInf(real(v), 0) || math.IsInf(imag(v), 0) {
			return false
		}
	}
	return true
}

func (m *Matrix) Add(other *Matrix) *Matrix {
	result := NewMatrix(m.Rows, m.Cols)
	for i := range m.Data {
		result.Data[i] = m.Data[i] + other.Data[i]
	}
	return result
}

func (m *Matrix) Sub(other *Matrix) *Matrix {
	result := NewMatrix(m.Rows, m.Cols)
	for i := range m.Data {
		result.Data[i] = m.Data[i] - other.Data[i]
	}
	return result
}

func (m *Matrix) Scale(c complex128) *Matrix {
	result := NewMatrix(m.Rows, m.Cols)
	for i := range m.Data {
		result.Data[i] = c * m.Data[i]
	}
	return result
}

// Mul computes the matrix product m @ other.
func (m *Matrix) Mul(other *Matrix) *Matrix {
	if m.Cols != other.Rows {
		panic("quantum: dimension mismatch in Mul")
	}
	result := NewMatrix(m.Rows, other.Cols)
	for i := 0; i < m.Rows; i++ {
		for k := 0; k < m.Cols; k++ {
			a := m.Data[i*m.Cols+k]
			if a == 0 {
				continue
			}
			row := other.Data[k*other.Cols:]
			out := result.Data[i*other.Cols:]
			for j := 0; j < other.Cols; j++ {
				out[j] += a * row[j]
			}
		}
	}
	return result
}

// MulVec computes m @ v for a column vector v of length m.Cols.
func (m *Matrix) MulVec(v []complex128) []complex128 {
	if m.Cols != len(v) {
		panic("quantum: dimension mismatch in MulVec")
	}
	result := make([]complex128, m.Rows)
	for i := 0; i < m.Rows; i++ {
		var sum complex128
		row := m.Data[i*m.Cols : (i+1)*m.Cols]
		for j, x := range v {
			sum += row[j] * x
		}
		result[i] = sum
	}
	return result
}

// Dag returns the conjugate transpose.
func (m *Matrix) Dag() *Matrix {
	result := NewMatrix(m.Cols, m.Rows)
	for i := 0; i < m.Rows; i++ {
		for j := 0; j < m.Cols; j++ {
			result.Data[j*m.Rows+i] = cmplx.Conj(m.Data[i*m.Cols+j])
		}
	}
	return result
}

func (m *Matrix) Trace() complex128 {
	var tr complex128
	for i := 0; i < m.Rows; i++ {
		tr += m.Data[i*m.Cols+i]
	}
	return tr
}

// Norm returns the Frobenius norm.
func (m *Matrix) Norm() float64 {
	sum := 0.0
	for _, v := range m.Data {
		sum += real(v)*real(v) + imag(v)*imag(v)
	}
	return math.Sqrt(sum)
}

// MaxDiff returns the largest element-wise absolute difference to other.
func (m *Matrix) MaxDiff(other *Matrix) float64 {
	max := 0.0
	for i := range m.Data {
		if d := cmplx.Abs(m.Data[i] - other.Data[i]); d > max {
			max = d
		}
	}
	return max
}

// Kron computes the Kronecker product m ⊗ other.
func (m *Matrix) Kron(other *Matrix) *Matrix {
	result := NewMatrix(m.Rows*other.Rows, m.Cols*other.Cols)
	for i := 0; i < m.Rows; i++ {
		for j := 0; j < m.Cols; j++ {
			a := m.Data[i*m.Cols+j]
			if a == 0 {
				continue
			}
			for k := 0; k < other.Rows; k++ {
				for l := 0; l < other.Cols; l++ {
					result.Data[(i*other.Rows+k)*result.Cols+(j*other.Cols+l)] = a * other.Data[k*other.Cols+l]
				}
			}
		}
	}
	return result
}

// Transpose returns the plain (non-conjugated) transpose.
func (m *Matrix) Transpose() *Matrix {
	result := NewMatrix(m.Cols, m.Rows)
	for i := 0; i < m.Rows; i++ {
		for j := 0; j < m.Cols; j++ {
			result.Data[j*m.Rows+i] = m.Data[i*m.Cols+j]
		}
	}
	return result
}

// IsHermitian reports whether m equals its conjugate transpose within tol.
func (m *Matrix) IsHermitian(tol float64) bool {
	if !m.IsSquare() {
		return false
	}
	for i := 0; i < m.Rows; i++ {
		for j := i; j < m.Cols; j++ {
			if cmplx.Abs(m.At(i, j)-cmplx.Conj(m.At(j, i))) > tol {
				return false
			}
		}
	}
	return true
}

// maxRowSum returns the induced infinity norm (max absolute row sum).
func (m *Matrix) maxRowSum() float64 {
	max := 0.0
	for i := 0; i < m.Rows; i++ {
		sum := 0.0
		for j := 0; j < m.Cols; j++ {
			sum += cmplx.Abs(m.Data[i*m.Cols+j])
		}
		if sum > max {
			max = sum
		}
	}
	return max
}

// Expm computes the matrix exponential e^m by scaling and squaring with a
// Padé(6,6) approximant. Accurate for the generator norms the solvers see;
// the scaling step keeps the argument norm below 0.5.
func (m *Matrix) Expm() *Matrix {
	if !m.IsSquare() {
		panic("quantum: Expm requires a square matrix")
	}
	if !m.IsValid() {
		// an Inf row sum would keep the scaling loop from terminating
		panic("quantum: Expm requires finite entries")
	}
	n := m.Rows

	// scaling: A / 2^s with ||A/2^s||_inf <= 0.5
	s := 0
	norm := m.maxRowSum()
	for norm > 0.5 {
		norm /= 2
		s++
	}
	a := m.Scale(complex(math.Pow(2, -float64(s)), 0))

	// Padé(6,6): N = sum c_k A^k, D = sum (-1)^k c_k A^k
	c := [...]float64{1, 0.5, 5.0 / 44, 1.0 / 66, 1.0 / 792, 1.0 / 15840, 1.0 / 665280}
	num := Eye(n).Scale(complex(c[0], 0))
	den := Eye(n).Scale(complex(c[0], 0))
	pow := Eye(n)
	sign := 1.0
	for k := 1; k <= 6; k++ {
		pow = pow.Mul(a)
		sign = -sign
		term := pow.Scale(complex(c[k], 0))
		num = num.Add(term)
		if sign > 0 {
			den = den.Add(term)
		} else {
			den = den.Sub(term)
		}
	}

	result := den.solve(num)

	// squaring
	for i := 0; i < s; i++ {
		result = result.Mul(result)
	}
	return result
}

// solve returns m^{-1} @ b via Gaussian elimination with partial pivoting.
func (m *Matrix) solve(b *Matrix) *Matrix {
	n := m.Rows
	a := m.Clone()
	x := b.Clone()

	for col := 0; col < n; col++ {
		// pivot
		pivot := col
		best := cmplx.Abs(a.At(col, col))
		for r := col + 1; r < n; r++ {
			if v := cmplx.Abs(a.At(r, col)); v > best {
				best = v
				pivot = r
			}
		}
		if best == 0 {
			panic("quantum: singular matrix in solve")
		}
		if pivot != col {
			a.swapRows(col, pivot)
			x.swapRows(col, pivot)
		}

		inv := 1 / a.At(col, col)
		for r := 0; r < n; r++ {
			if r == col {
				continue
			}
			f := a.At(r, col) * inv
			if f == 0 {
				continue
			}
			for j := col; j < n; j++ {
				a.Set(r, j, a.At(r, j)-f*a.At(col, j))
			}
			for j := 0; j < x.Cols; j++ {
				x.Set(r, j, x.At(r, j)-f*x.At(col, j))
			}
		}
	}

	for r := 0; r < n; r++ {
		inv := 1 / a.At(r, r)
		for j := 0; j < x.Cols; j++ {
			x.Set(r, j, x.At(r, j)*inv)
		}
	}
	return x
}

func (m *Matrix) swapRows(i, j int) {
	ri := m.Data[i*m.Cols : (i+1)*m.Cols]
	rj := m.Data[j*m.Cols : (j+1)*m.Cols]
	for k := range ri {
		ri[k], rj[k] = rj[k], ri[k]
	}
}
