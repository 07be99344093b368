// Package timeop defines time-dependent operators for the solvers. A TimeOp
// is evaluated at arbitrary times t and is closed under sums and scalar
// multiplication, so drives and static terms compose into a single
// Hamiltonian.
package timeop

import (
	"fmt"
	"sort"

	"github.com/ravik-m/qdyn/internal/quantum"
)

// TimeOp is a time-dependent operator O(t).
type TimeOp interface {
	// At evaluates the operator at time t.
	At(t float64) *quantum.Matrix
	// Dim returns the Hilbert space dimension the operator acts on.
	Dim() int
	// IsConstant reports whether O(t) is the same matrix for all t. Solvers
	// use it to select matrix-exponential stepping.
	IsConstant() bool
}

type constantOp struct {
	op *quantum.Matrix
}

// Constant wraps a static operator, O(t) = O for all t.
func Constant(op *quantum.Matrix) TimeOp {
	return &constantOp{op: op}
}

func (c *constantOp) At(_ float64) *quantum.Matrix { return c.op }
func (c *constantOp) Dim() int                     { return c.op.Rows }
func (c *constantOp) IsConstant() bool             { return true }

type pwcOp struct {
	times  []float64
	values []complex128
	op     *quantum.Matrix
	zero   *quantum.Matrix
}

// PWC builds a piecewise-constant operator O(t) = c_k * O for
// t in [times[k], times[k+1]), and the zero matrix outside
// [times[0], times[len-1]). times must be strictly ascending and one element
// longer than values.
func PWC(times []float64, values []complex128, op *quantum.Matrix) (TimeOp, error) {
	if len(times) != len(values)+1 {
		return nil, fmt.Errorf("timeop: need len(times) == len(values)+1, got %d and %d",
			len(times), len(values))
	}
	for i := 1; i < len(times); i++ {
		if times[i] <= times[i-1] {
			return nil, fmt.Errorf("timeop: times must be strictly ascending")
		}
	}
	return &pwcOp{
		times:  times,
		values: values,
		op:     op,
		zero:   quantum.NewMatrix(op.Rows, op.Cols),
	}, nil
}

func (p *pwcOp) At(t float64) *quantum.Matrix {
	if t < p.times[0] || t >= p.times[len(p.times)-1] {
		return p.zero
	}
	// index of the interval containing t
	k := sort.SearchFloat64s(p.times, t)
	if k == len(p.times) || p.times[k] > t {
		k--
	}
	return p.op.Scale(p.values[k])
}

func (p *pwcOp) Dim() int         { return p.op.Rows }
func (p *pwcOp) IsConstant() bool { return false }

type modulatedOp struct {
	f  func(t float64) complex128
	op *quantum.Matrix
}

// Modulated builds O(t) = f(t) * O for a scalar modulation f.
func Modulated(f func(t float64) complex128, op *quantum.Matrix) TimeOp {
	return &modulatedOp{f: f, op: op}
}

func (m *modulatedOp) At(t float64) *quantum.Matrix { return m.op.Scale(m.f(t)) }
func (m *modulatedOp) Dim() int                     { return m.op.Rows }
func (m *modulatedOp) IsConstant() bool             { return false }

type callableOp struct {
	f   func(t float64) *quantum.Matrix
	dim int
}

// Callable builds O(t) = f(t) for an arbitrary matrix-valued f of the given
// dimension.
func Callable(dim int, f func(t float64) *quantum.Matrix) TimeOp {
	return &callableOp{f: f, dim: dim}
}

func (c *callableOp) At(t float64) *quantum.Matrix { return c.f(t) }
func (c *callableOp) Dim() int                     { return c.dim }
func (c *callableOp) IsConstant() bool             { return false }

type sumOp struct {
	terms []TimeOp
}

// Sum combines time operators by addition. A sum of constants stays constant,
// and nested constant terms are pre-folded at evaluation.
func Sum(terms ...TimeOp) TimeOp {
	if len(terms) == 1 {
		return terms[0]
	}
	return &sumOp{terms: terms}
}

func (s *sumOp) At(t float64) *quantum.Matrix {
	out := s.terms[0].At(t).Clone()
	for _, term := range s.terms[1:] {
		out = out.Add(term.At(t))
	}
	return out
}

func (s *sumOp) Dim() int { return s.terms[0].Dim() }

func (s *sumOp) IsConstant() bool {
	for _, term := range s.terms {
		if !term.IsConstant() {
			return false
		}
	}
	return true
}

type scaledOp struct {
	c  complex128
	op TimeOp
}

// Scaled multiplies a time operator by a constant scalar.
func Scaled(c complex128, op TimeOp) TimeOp {
	return &scaledOp{c: c, op: op}
}

func (s *scaledOp) At(t float64) *quantum.Matrix { return s.op.At(t).Scale(s.c) }
func (s *scaledOp) Dim() int                     { return s.op.Dim() }
func (s *scaledOp) IsConstant() bool             { return s.op.IsConstant() }
