package systems

import (
	"fmt"
	"math"

	"github.com/ravik-m/qdyn/internal/quantum"
	"github.com/ravik-m/qdyn/internal/timeop"
)

// JaynesCummings couples a two-level atom to a single cavity mode:
//
//	H = ωc a†a + (ωa/2) σz + g (a†σ− + aσ+)
//
// on the atom⊗cavity tensor space, with cavity decay κ and atomic
// emission γ.
type JaynesCummings struct {
	NLevels int // cavity truncation
	OmegaC  float64
	OmegaA  float64
	G       float64
	Kappa   float64
	Gamma   float64
	Eta     float64
}

func NewJaynesCummings() *JaynesCummings {
	return &JaynesCummings{
		NLevels: 8,
		OmegaC:  2 * math.Pi,
		OmegaA:  2 * math.Pi,
		G:       math.Pi / 2,
		Kappa:   0.5,
		Gamma:   0.1,
		Eta:     1.0,
	}
}

func (j *JaynesCummings) Name() string { return "jaynes" }

func (j *JaynesCummings) Dim() int { return 2 * j.NLevels }

func (j *JaynesCummings) Hamiltonian() timeop.TimeOp {
	nc := j.NLevels
	a := quantum.Eye(2).Kron(quantum.Destroy(nc))
	sz := quantum.SigmaZ().Kron(quantum.Eye(nc))
	sm := quantum.SigmaMinus().Kron(quantum.Eye(nc))

	h := a.Dag().Mul(a).Scale(complex(j.OmegaC, 0))
	h = h.Add(sz.Scale(complex(j.OmegaA/2, 0)))
	coupling := a.Dag().Mul(sm).Add(sm.Dag().Mul(a))
	h = h.Add(coupling.Scale(complex(j.G, 0)))
	return timeop.Constant(h)
}

// InitialState is the excited atom with an empty cavity, the starting
// point for vacuum Rabi oscillations.
func (j *JaynesCummings) InitialState() *quantum.Matrix {
	psi, err := quantum.Fock([]int{2, j.NLevels}, []int{0, 0})
	if err != nil {
		panic(err) // dims are validated by SetParam
	}
	return psi
}

func (j *JaynesCummings) JumpOps() []*quantum.Matrix {
	nc := j.NLevels
	var ops []*quantum.Matrix
	if j.Kappa > 0 {
		a := quantum.Eye(2).Kron(quantum.Destroy(nc))
		ops = append(ops, a.Scale(complex(math.Sqrt(j.Kappa), 0)))
	}
	if j.Gamma > 0 {
		sm := quantum.SigmaMinus().Kron(quantum.Eye(nc))
		ops = append(ops, sm.Scale(complex(math.Sqrt(j.Gamma), 0)))
	}
	return ops
}

func (j *JaynesCummings) Etas() []float64 {
	etas := make([]float64, 0, 2)
	if j.Kappa > 0 {
		etas = append(etas, j.Eta)
	}
	if j.Gamma > 0 {
		etas = append(etas, 0) // only the cavity output is monitored
	}
	return etas
}

func (j *JaynesCummings) Observables() []Observable {
	nc := j.NLevels
	return []Observable{
		{Name: "n", Op: quantum.Eye(2).Kron(quantum.NumberOp(nc))},
		{Name: "sz", Op: quantum.SigmaZ().Kron(quantum.Eye(nc))},
	}
}

func (j *JaynesCummings) GetParams() map[string]float64 {
	return map[string]float64{
		"nlevels": float64(j.NLevels),
		"omega_c": j.OmegaC,
		"omega_a": j.OmegaA,
		"g":       j.G,
		"kappa":   j.Kappa,
		"gamma":   j.Gamma,
		"eta":     j.Eta,
	}
}

func (j *JaynesCummings) SetParam(name string, value float64) error {
	switch name {
	case "nlevels":
		if value < 2 {
			return fmt.Errorf("nlevels must be at least 2, got %g", value)
		}
		j.NLevels = int(value)
	case "omega_c":
		j.OmegaC = value
	case "omega_a":
		j.OmegaA = value
	case "g":
		j.G = value
	case "kappa":
		if value < 0 {
			return fmt.Errorf("kappa must be non-negative, got %g", value)
		}
		j.Kappa = value
	case "gamma":
		if value < 0 {
			return fmt.Errorf("gamma must be non-negative, got %g", value)
		}
		j.Gamma = value
	case "eta":
		if value < 0 || value > 1 {
			return fmt.Errorf("eta must be in [0, 1], got %g", value)
		}
		j.Eta = value
	default:
		return fmt.Errorf("unknown param: %s", name)
	}
	return nil
}
