package timeop

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/ravik-m/qdyn/internal/quantum"
)

func TestConstant(t *testing.T) {
	op := Constant(quantum.SigmaZ())

	if !op.IsConstant() {
		t.Error("constant op should report IsConstant")
	}
	if op.At(0).MaxDiff(op.At(17.3)) != 0 {
		t.Error("constant op should not vary in time")
	}
	if op.Dim() != 2 {
		t.Errorf("expected dim 2, got %d", op.Dim())
	}
}

func TestPWC(t *testing.T) {
	op, err := PWC([]float64{0, 1, 2}, []complex128{2, -1}, quantum.SigmaX())
	if err != nil {
		t.Fatalf("pwc failed: %v", err)
	}

	tests := []struct {
		t    float64
		want complex128
	}{
		{0.0, 2},
		{0.5, 2},
		{1.0, -1},
		{1.9, -1},
		{2.0, 0},  // right-open final interval
		{-0.1, 0}, // before first interval
		{5.0, 0},
	}
	for _, tt := range tests {
		got := op.At(tt.t).At(0, 1)
		if cmplx.Abs(got-tt.want) > 1e-15 {
			t.Errorf("t=%g: got %v, want %v", tt.t, got, tt.want)
		}
	}
}

func TestPWCValidation(t *testing.T) {
	if _, err := PWC([]float64{0, 1}, []complex128{1, 2}, quantum.SigmaX()); err == nil {
		t.Error("expected length mismatch error")
	}
	if _, err := PWC([]float64{0, 1, 1}, []complex128{1, 2}, quantum.SigmaX()); err == nil {
		t.Error("expected ascending-times error")
	}
}

func TestModulated(t *testing.T) {
	op := Modulated(func(t float64) complex128 {
		return complex(math.Cos(t), 0)
	}, quantum.SigmaX())

	got := op.At(math.Pi).At(0, 1)
	if cmplx.Abs(got+1) > 1e-12 {
		t.Errorf("got %v, want -1", got)
	}
	if op.IsConstant() {
		t.Error("modulated op should not be constant")
	}
}

func TestSumConstantFolding(t *testing.T) {
	a := Constant(quantum.SigmaZ())
	b := Constant(quantum.SigmaX())

	s := Sum(a, b)
	if !s.IsConstant() {
		t.Error("sum of constants should be constant")
	}

	m := Modulated(func(float64) complex128 { return 1 }, quantum.SigmaY())
	if Sum(a, m).IsConstant() {
		t.Error("sum with a modulated term should not be constant")
	}
}

func TestSumEvaluation(t *testing.T) {
	h := Sum(
		Constant(quantum.NumberOp(3)),
		Scaled(0.5, Constant(quantum.Eye(3))),
	)

	got := h.At(0)
	want := quantum.NumberOp(3).Add(quantum.Eye(3).Scale(0.5))
	if got.MaxDiff(want) > 1e-15 {
		t.Errorf("sum differs by %g", got.MaxDiff(want))
	}
}

func TestRaisedCosine(t *testing.T) {
	f := RaisedCosine(2.0, 4.0)

	if f(0) != 0 {
		t.Error("envelope should start at zero")
	}
	if cmplx.Abs(f(2)-2) > 1e-12 {
		t.Errorf("peak should be the amplitude, got %v", f(2))
	}
	if f(5) != 0 {
		t.Error("envelope should vanish after the gate")
	}
}
