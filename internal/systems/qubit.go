package systems

import (
	"fmt"
	"math"

	"github.com/ravik-m/qdyn/internal/quantum"
	"github.com/ravik-m/qdyn/internal/timeop"
)

// Qubit is a driven two-level atom in the drive rotating frame:
//
//	H = (Δ/2) σz + (Ω/2) σx
//
// with spontaneous emission at rate γ and pure dephasing at rate γφ.
// The excited state is the first basis vector.
type Qubit struct {
	Delta   float64
	Omega   float64
	Gamma   float64
	GammaPh float64
	Eta     float64
}

func NewQubit() *Qubit {
	return &Qubit{
		Delta:   0,
		Omega:   2 * math.Pi,
		Gamma:   1.0,
		GammaPh: 0,
		Eta:     1.0,
	}
}

func (q *Qubit) Name() string { return "qubit" }

func (q *Qubit) Dim() int { return 2 }

func (q *Qubit) Hamiltonian() timeop.TimeOp {
	h := quantum.SigmaZ().Scale(complex(q.Delta/2, 0))
	if q.Omega != 0 {
		h = h.Add(quantum.SigmaX().Scale(complex(q.Omega/2, 0)))
	}
	return timeop.Constant(h)
}

func (q *Qubit) InitialState() *quantum.Matrix {
	return quantum.Basis(2, 1) // ground state
}

func (q *Qubit) JumpOps() []*quantum.Matrix {
	var ops []*quantum.Matrix
	if q.Gamma > 0 {
		ops = append(ops, quantum.SigmaMinus().Scale(complex(math.Sqrt(q.Gamma), 0)))
	}
	if q.GammaPh > 0 {
		ops = append(ops, quantum.SigmaZ().Scale(complex(math.Sqrt(q.GammaPh/2), 0)))
	}
	return ops
}

func (q *Qubit) Etas() []float64 {
	etas := make([]float64, 0, 2)
	if q.Gamma > 0 {
		etas = append(etas, q.Eta)
	}
	if q.GammaPh > 0 {
		etas = append(etas, 0) // dephasing channel is not monitored
	}
	return etas
}

func (q *Qubit) Observables() []Observable {
	return []Observable{
		{Name: "sx", Op: quantum.SigmaX()},
		{Name: "sy", Op: quantum.SigmaY()},
		{Name: "sz", Op: quantum.SigmaZ()},
	}
}

func (q *Qubit) GetParams() map[string]float64 {
	return map[string]float64{
		"delta":    q.Delta,
		"omega":    q.Omega,
		"gamma":    q.Gamma,
		"gamma_ph": q.GammaPh,
		"eta":      q.Eta,
	}
}

func (q *Qubit) SetParam(name string, value float64) error {
	switch name {
	case "delta":
		q.Delta = value
	case "omega":
		q.Omega = value
	case "gamma":
		if value < 0 {
			return fmt.Errorf("gamma must be non-negative, got %g", value)
		}
		q.Gamma = value
	case "gamma_ph":
		if value < 0 {
			return fmt.Errorf("gamma_ph must be non-negative, got %g", value)
		}
		q.GammaPh = value
	case "eta":
		if value < 0 || value > 1 {
			return fmt.Errorf("eta must be in [0, 1], got %g", value)
		}
		q.Eta = value
	default:
		return fmt.Errorf("unknown param: %s", name)
	}
	return nil
}
