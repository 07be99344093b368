package systems

import (
	"fmt"
	"math"

	"github.com/ravik-m/qdyn/internal/quantum"
	"github.com/ravik-m/qdyn/internal/timeop"
)

// Kerr is a driven nonlinear oscillator:
//
//	H = Δ a†a + (K/2) a†a†aa + ε (a + a†)
//
// with single-photon loss κ. A negative K with a resonant drive is the
// standard setting for Kerr cat states.
type Kerr struct {
	NLevels int
	Delta   float64
	K       float64
	Epsilon float64
	Kappa   float64
	Alpha0  float64
	Eta     float64
}

func NewKerr() *Kerr {
	return &Kerr{
		NLevels: 16,
		Delta:   0,
		K:       -2 * math.Pi,
		Epsilon: math.Pi,
		Kappa:   0.1,
		Alpha0:  0,
		Eta:     1.0,
	}
}

func (k *Kerr) Name() string { return "kerr" }

func (k *Kerr) Dim() int { return k.NLevels }

func (k *Kerr) Hamiltonian() timeop.TimeOp {
	a := quantum.Destroy(k.NLevels)
	ad := a.Dag()
	h := quantum.NumberOp(k.NLevels).Scale(complex(k.Delta, 0))
	h = h.Add(ad.Mul(ad).Mul(a).Mul(a).Scale(complex(k.K/2, 0)))
	if k.Epsilon != 0 {
		h = h.Add(a.Add(ad).Scale(complex(k.Epsilon, 0)))
	}
	return timeop.Constant(h)
}

func (k *Kerr) InitialState() *quantum.Matrix {
	return quantum.Coherent(k.NLevels, complex(k.Alpha0, 0))
}

func (k *Kerr) JumpOps() []*quantum.Matrix {
	if k.Kappa == 0 {
		return nil
	}
	return []*quantum.Matrix{quantum.Destroy(k.NLevels).Scale(complex(math.Sqrt(k.Kappa), 0))}
}

func (k *Kerr) Etas() []float64 {
	if k.Kappa == 0 {
		return nil
	}
	return []float64{k.Eta}
}

func (k *Kerr) Observables() []Observable {
	a := quantum.Destroy(k.NLevels)
	x := a.Add(a.Dag()).Scale(complex(1/math.Sqrt2, 0))
	return []Observable{
		{Name: "n", Op: quantum.NumberOp(k.NLevels)},
		{Name: "x", Op: x},
		{Name: "parity", Op: quantum.Parity(k.NLevels)},
	}
}

func (k *Kerr) GetParams() map[string]float64 {
	return map[string]float64{
		"nlevels": float64(k.NLevels),
		"delta":   k.Delta,
		"k":       k.K,
		"epsilon": k.Epsilon,
		"kappa":   k.Kappa,
		"alpha0":  k.Alpha0,
		"eta":     k.Eta,
	}
}

func (k *Kerr) SetParam(name string, value float64) error {
	switch name {
	case "nlevels":
		if value < 2 {
			return fmt.Errorf("nlevels must be at least 2, got %g", value)
		}
		k.NLevels = int(value)
	case "delta":
		k.Delta = value
	case "k":
		k.K = value
	case "epsilon":
		k.Epsilon = value
	case "kappa":
		if value < 0 {
			return fmt.Errorf("kappa must be non-negative, got %g", value)
		}
		k.Kappa = value
	case "alpha0":
		k.Alpha0 = value
	case "eta":
		if value < 0 || value > 1 {
			return fmt.Errorf("eta must be in [0, 1], got %g", value)
		}
		k.Eta = value
	default:
		return fmt.Errorf("unknown param: %s", name)
	}
	return nil
}
