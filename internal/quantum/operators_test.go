package quantum

import (
	"math"
	"math/cmplx"
	"testing"
)

func TestDestroyMatrixElements(t *testing.T) {
	a := Destroy(4)

	for n := 1; n < 4; n++ {
		want := complex(math.Sqrt(float64(n)), 0)
		if a.At(n-1, n) != want {
			t.Errorf("a[%d,%d]: got %v, want %v", n-1, n, a.At(n-1, n), want)
		}
	}
}

func TestCommutator(t *testing.T) {
	// [a, a†] = 1 on all but the truncation level
	dim := 8
	a := Destroy(dim)
	comm := a.Mul(a.Dag()).Sub(a.Dag().Mul(a))

	for n := 0; n < dim-1; n++ {
		if cmplx.Abs(comm.At(n, n)-1) > 1e-12 {
			t.Errorf("level %d: [a,a†] = %v, want 1", n, comm.At(n, n))
		}
	}
}

func TestNumberOp(t *testing.T) {
	dim := 5
	n := NumberOp(dim)
	adaga := Create(dim).Mul(Destroy(dim))

	if n.MaxDiff(adaga) > 1e-12 {
		t.Errorf("a†a differs from number op by %g", n.MaxDiff(adaga))
	}
}

func TestPauliAlgebra(t *testing.T) {
	// sigma_x sigma_y = i sigma_z
	got := SigmaX().Mul(SigmaY())
	want := SigmaZ().Scale(1i)

	if got.MaxDiff(want) > 1e-15 {
		t.Error("sigma_x sigma_y != i sigma_z")
	}

	for _, s := range []*Matrix{SigmaX(), SigmaY(), SigmaZ()} {
		if s.Mul(s).MaxDiff(Eye(2)) > 1e-15 {
			t.Error("pauli operator should square to identity")
		}
	}
}

func TestDisplaceUnitary(t *testing.T) {
	d := Displace(12, 0.7+0.3i)
	if d.Mul(d.Dag()).MaxDiff(Eye(12)) > 1e-9 {
		t.Errorf("D D† differs from I by %g", d.Mul(d.Dag()).MaxDiff(Eye(12)))
	}
}

func TestParity(t *testing.T) {
	p := Parity(4)
	vac := Basis(4, 0)
	one := Basis(4, 1)

	if real(Expect(p, vac)) != 1 {
		t.Error("vacuum parity should be +1")
	}
	if real(Expect(p, one)) != -1 {
		t.Error("single photon parity should be -1")
	}
}
