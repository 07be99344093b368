// Package metrics provides conservation diagnostics observed along a solver
// trajectory. Each metric accumulates over the saved states of a run and
// reports a single value into the result.
package metrics

import (
	"math"

	"github.com/ravik-m/qdyn/internal/quantum"
)

// Metric observes saved states and reports an aggregate value.
type Metric interface {
	Name() string
	Observe(state *quantum.Matrix, t float64)
	Value() float64
	Reset()
}

// NormDrift tracks the worst deviation of a ket norm from 1.
type NormDrift struct {
	maxDrift float64
}

func NewNormDrift() *NormDrift { return &NormDrift{} }

func (n *NormDrift) Name() string { return "norm_drift" }

func (n *NormDrift) Observe(state *quantum.Matrix, t float64) {
	if !quantum.IsKet(state) {
		return
	}
	drift := math.Abs(quantum.VecNorm(state.Data) - 1)
	n.maxDrift = math.Max(n.maxDrift, drift)
}

func (n *NormDrift) Value() float64 { return n.maxDrift }
func (n *NormDrift) Reset()         { n.maxDrift = 0 }

// TraceDrift tracks the worst deviation of a density matrix trace from 1.
type TraceDrift struct {
	maxDrift float64
}

func NewTraceDrift() *TraceDrift { return &TraceDrift{} }

func (d *TraceDrift) Name() string { return "trace_drift" }

func (d *TraceDrift) Observe(state *quantum.Matrix, t float64) {
	if quantum.IsKet(state) || !state.IsSquare() {
		return
	}
	drift := math.Abs(real(state.Trace()) - 1)
	d.maxDrift = math.Max(d.maxDrift, drift)
}

func (d *TraceDrift) Value() float64 { return d.maxDrift }
func (d *TraceDrift) Reset()         { d.maxDrift = 0 }

// HermiticityDrift tracks how far a density matrix strays from rho = rho†.
type HermiticityDrift struct {
	maxDrift float64
}

func NewHermiticityDrift() *HermiticityDrift { return &HermiticityDrift{} }

func (h *HermiticityDrift) Name() string { return "hermiticity_drift" }

func (h *HermiticityDrift) Observe(state *quantum.Matrix, t float64) {
	if quantum.IsKet(state) || !state.IsSquare() {
		return
	}
	drift := state.MaxDiff(state.Dag())
	h.maxDrift = math.Max(h.maxDrift, drift)
}

func (h *HermiticityDrift) Value() float64 { return h.maxDrift }
func (h *HermiticityDrift) Reset()         { h.maxDrift = 0 }

// MinPurity tracks the lowest tr(rho²) reached along a trajectory.
type MinPurity struct {
	min     float64
	samples int
}

func NewMinPurity() *MinPurity { return &MinPurity{min: 1} }

func (p *MinPurity) Name() string { return "min_purity" }

func (p *MinPurity) Observe(state *quantum.Matrix, t float64) {
	if quantum.IsKet(state) || !state.IsSquare() {
		return
	}
	p.samples++
	p.min = math.Min(p.min, quantum.Purity(state))
}

func (p *MinPurity) Value() float64 { return p.min }

func (p *MinPurity) Reset() {
	p.min = 1
	p.samples = 0
}
