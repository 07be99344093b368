package systems

import (
	"github.com/ravik-m/qdyn/internal/quantum"
	"github.com/ravik-m/qdyn/internal/timeop"
)

// System bundles everything a solver needs to simulate a physical model:
// the Hamiltonian, the dissipation channels, a default initial state and
// a set of named observables worth tracking.
type System interface {
	Name() string
	Dim() int
	Hamiltonian() timeop.TimeOp
	InitialState() *quantum.Matrix
	JumpOps() []*quantum.Matrix
	Etas() []float64
	Observables() []Observable
}

// Observable is an expectation-value operator with a display name.
type Observable struct {
	Name string
	Op   *quantum.Matrix
}

// Configurable is implemented by systems whose parameters can be adjusted
// at runtime, e.g. from a config file or CLI flags.
type Configurable interface {
	GetParams() map[string]float64
	SetParam(name string, value float64) error
}
