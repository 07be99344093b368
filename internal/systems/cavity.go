package systems

import (
	"fmt"
	"math"

	"github.com/ravik-m/qdyn/internal/quantum"
	"github.com/ravik-m/qdyn/internal/timeop"
)

// Cavity is a driven, leaky optical cavity in the drive rotating frame:
//
//	H = Δ a†a + ε (a + a†)
//
// with photon loss at rate κ.
type Cavity struct {
	NLevels int
	Delta   float64
	Kappa   float64
	Epsilon float64
	Alpha0  float64
	Eta     float64
}

func NewCavity() *Cavity {
	return &Cavity{
		NLevels: 16,
		Delta:   2 * math.Pi,
		Kappa:   1.0,
		Epsilon: 0.0,
		Alpha0:  1.0,
		Eta:     1.0,
	}
}

func (c *Cavity) Name() string { return "cavity" }

func (c *Cavity) Dim() int { return c.NLevels }

func (c *Cavity) Hamiltonian() timeop.TimeOp {
	a := quantum.Destroy(c.NLevels)
	h := quantum.NumberOp(c.NLevels).Scale(complex(c.Delta, 0))
	if c.Epsilon != 0 {
		h = h.Add(a.Add(a.Dag()).Scale(complex(c.Epsilon, 0)))
	}
	return timeop.Constant(h)
}

func (c *Cavity) InitialState() *quantum.Matrix {
	return quantum.Coherent(c.NLevels, complex(c.Alpha0, 0))
}

func (c *Cavity) JumpOps() []*quantum.Matrix {
	if c.Kappa == 0 {
		return nil
	}
	return []*quantum.Matrix{quantum.Destroy(c.NLevels).Scale(complex(math.Sqrt(c.Kappa), 0))}
}

func (c *Cavity) Etas() []float64 {
	if c.Kappa == 0 {
		return nil
	}
	return []float64{c.Eta}
}

func (c *Cavity) Observables() []Observable {
	a := quantum.Destroy(c.NLevels)
	x := a.Add(a.Dag()).Scale(complex(1/math.Sqrt2, 0))
	p := a.Dag().Sub(a).Scale(complex(0, 1/math.Sqrt2))
	return []Observable{
		{Name: "n", Op: quantum.NumberOp(c.NLevels)},
		{Name: "x", Op: x},
		{Name: "p", Op: p},
	}
}

func (c *Cavity) GetParams() map[string]float64 {
	return map[string]float64{
		"nlevels": float64(c.NLevels),
		"delta":   c.Delta,
		"kappa":   c.Kappa,
		"epsilon": c.Epsilon,
		"alpha0":  c.Alpha0,
		"eta":     c.Eta,
	}
}

func (c *Cavity) SetParam(name string, value float64) error {
	switch name {
	case "nlevels":
		if value < 2 {
			return fmt.Errorf("nlevels must be at least 2, got %g", value)
		}
		c.NLevels = int(value)
	case "delta":
		c.Delta = value
	case "kappa":
		if value < 0 {
			return fmt.Errorf("kappa must be non-negative, got %g", value)
		}
		c.Kappa = value
	case "epsilon":
		c.Epsilon = value
	case "alpha0":
		c.Alpha0 = value
	case "eta":
		if value < 0 || value > 1 {
			return fmt.Errorf("eta must be in [0, 1], got %g", value)
		}
		c.Eta = value
	default:
		return fmt.Errorf("unknown param: %s", name)
	}
	return nil
}
