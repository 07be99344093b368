package solve

import (
	"errors"
	"math"

	"github.com/ravik-m/qdyn/internal/quantum"
)

var errPropagatorTimeDependent = errors.New(
	"solve: the propagator method requires a time-independent generator")

// propagatorCache memoizes exp(G * dt) for the step sizes seen so far. Save
// grids are usually uniform, so a single exponential covers the whole run.
type propagatorCache struct {
	gen   *quantum.Matrix
	cache map[float64]*quantum.Matrix
}

func newPropagatorCache(gen *quantum.Matrix) *propagatorCache {
	return &propagatorCache{gen: gen, cache: make(map[float64]*quantum.Matrix)}
}

func (p *propagatorCache) at(dt float64) *quantum.Matrix {
	// bucket nearly equal steps together to tolerate float grid jitter
	key := math.Round(dt*1e12) / 1e12
	if u, ok := p.cache[key]; ok {
		return u
	}
	u := p.gen.Scale(complex(dt, 0)).Expm()
	p.cache[key] = u
	return u
}
