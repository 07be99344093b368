package systems

import (
	"fmt"
	"sort"
)

// Registry maps system names to constructors so the CLI and config layer
// can build models by name.
type Registry struct {
	systems map[string]func() System
}

func NewRegistry() *Registry {
	r := &Registry{systems: make(map[string]func() System)}

	r.systems["cavity"] = func() System { return NewCavity() }
	r.systems["qubit"] = func() System { return NewQubit() }
	r.systems["jaynes"] = func() System { return NewJaynesCummings() }
	r.systems["kerr"] = func() System { return NewKerr() }

	return r
}

// Get builds a fresh instance of the named system with default parameters.
func (r *Registry) Get(name string) (System, error) {
	fn, ok := r.systems[name]
	if !ok {
		return nil, fmt.Errorf("unknown system: %s", name)
	}
	return fn(), nil
}

// Configure builds the named system and applies parameter overrides.
func (r *Registry) Configure(name string, params map[string]float64) (System, error) {
	sys, err := r.Get(name)
	if err != nil {
		return nil, err
	}
	if len(params) > 0 {
		cfg, ok := sys.(Configurable)
		if !ok {
			return nil, fmt.Errorf("system %s does not accept parameters", name)
		}
		for k, v := range params {
			if err := cfg.SetParam(k, v); err != nil {
				return nil, fmt.Errorf("system %s: %w", name, err)
			}
		}
	}
	return sys, nil
}

func (r *Registry) List() []string {
	names := make([]string, 0, len(r.systems))
	for name := range r.systems {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
