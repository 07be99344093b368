package quantum

import (
	"errors"
	"math"
	"math/cmplx"
	"testing"
)

func TestFockSingleMode(t *testing.T) {
	ket, err := Fock([]int{3}, []int{1})
	if err != nil {
		t.Fatalf("fock failed: %v", err)
	}

	if ket.Rows != 3 || ket.Cols != 1 {
		t.Fatalf("expected 3x1, got %dx%d", ket.Rows, ket.Cols)
	}
	if ket.Data[1] != 1 {
		t.Error("expected amplitude 1 at level 1")
	}
}

func TestFockTensorProduct(t *testing.T) {
	ket, err := Fock([]int{3, 2}, []int{1, 0})
	if err != nil {
		t.Fatalf("fock failed: %v", err)
	}

	if ket.Rows != 6 {
		t.Fatalf("expected dim 6, got %d", ket.Rows)
	}
	// index = 2*1 + 0
	if ket.Data[2] != 1 {
		t.Error("expected amplitude 1 at index 2")
	}
}

func TestFockErrors(t *testing.T) {
	if _, err := Fock([]int{3, 2}, []int{1}); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("expected dimension mismatch, got %v", err)
	}
	if _, err := Fock([]int{3}, []int{3}); !errors.Is(err, ErrParameterBounds) {
		t.Errorf("expected bounds error, got %v", err)
	}
}

func TestCoherentState(t *testing.T) {
	dim := 20
	alpha := complex(1.2, -0.4)
	ket := Coherent(dim, alpha)

	if math.Abs(VecNorm(ket.Data)-1) > 1e-10 {
		t.Errorf("coherent state norm %g, want 1", VecNorm(ket.Data))
	}

	// a|alpha> = alpha|alpha>
	n := real(Expect(NumberOp(dim), ket))
	want := real(alpha)*real(alpha) + imag(alpha)*imag(alpha)
	if math.Abs(n-want) > 1e-8 {
		t.Errorf("<n> = %g, want %g", n, want)
	}
}

func TestThermalDM(t *testing.T) {
	dim := 40
	nth := 0.5
	rho := ThermalDM(dim, nth)

	if math.Abs(real(rho.Trace())-1) > 1e-12 {
		t.Errorf("thermal trace %g, want 1", real(rho.Trace()))
	}

	n := real(Expect(NumberOp(dim), rho))
	if math.Abs(n-nth) > 1e-6 {
		t.Errorf("<n> = %g, want %g", n, nth)
	}
}

func TestKetToDM(t *testing.T) {
	ket := Coherent(8, 0.3)
	rho := KetToDM(ket)

	if math.Abs(real(rho.Trace())-1) > 1e-10 {
		t.Error("projector trace should be 1")
	}
	if math.Abs(Purity(rho)-1) > 1e-10 {
		t.Error("projector purity should be 1")
	}
	if cmplx.Abs(Expect(NumberOp(8), rho)-Expect(NumberOp(8), ket)) > 1e-10 {
		t.Error("ket and dm expectations should agree")
	}
}
