package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ravik-m/qdyn/internal/solve"
)

const (
	DefaultDt       = 0.01
	DefaultDuration = 10.0
	DefaultPoints   = 101
	DefaultRtol     = 1e-8
	DefaultAtol     = 1e-10
	DefaultNTraj    = 64
)

// Config describes a complete simulation run: which system to build, which
// solver and stepping method to use, and the time grid to save on.
type Config struct {
	System      string             `yaml:"system"`
	Solver      string             `yaml:"solver"` // se, me, sme or mc
	Method      string             `yaml:"method"` // euler, rk4, dopri5 or propagator
	Dt          float64            `yaml:"dt"`
	Rtol        float64            `yaml:"rtol"`
	Atol        float64            `yaml:"atol"`
	Duration    float64            `yaml:"duration"`
	Points      int                `yaml:"points"`
	Seed        int64              `yaml:"seed"`
	NTraj       int                `yaml:"ntraj"`
	Params      map[string]float64 `yaml:"params"`
	Observables []string           `yaml:"observables"` // empty means all
}

func DefaultConfig() *Config {
	return &Config{
		System:   "cavity",
		Solver:   "me",
		Method:   string(solve.MethodDopri5),
		Dt:       DefaultDt,
		Rtol:     DefaultRtol,
		Atol:     DefaultAtol,
		Duration: DefaultDuration,
		Points:   DefaultPoints,
		NTraj:    DefaultNTraj,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	switch c.Solver {
	case "se", "me", "sme", "mc":
	default:
		return fmt.Errorf("unknown solver: %s", c.Solver)
	}
	if c.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %g", c.Duration)
	}
	if c.Points < 2 {
		return fmt.Errorf("need at least 2 save points, got %d", c.Points)
	}
	return nil
}

// Tsave builds the uniform save grid [0, Duration] with Points entries.
func (c *Config) Tsave() []float64 {
	ts := make([]float64, c.Points)
	for i := range ts {
		ts[i] = c.Duration * float64(i) / float64(c.Points-1)
	}
	return ts
}

// ToOptions translates the config into solver options.
func (c *Config) ToOptions() solve.Options {
	opts := solve.DefaultOptions()
	if c.Method != "" {
		opts.Method = solve.Method(c.Method)
	}
	if c.Dt > 0 {
		opts.Dt = c.Dt
	}
	if c.Rtol > 0 {
		opts.Rtol = c.Rtol
	}
	if c.Atol > 0 {
		opts.Atol = c.Atol
	}
	if c.NTraj > 0 {
		opts.NTraj = c.NTraj
	}
	opts.Seed = c.Seed
	return opts
}
