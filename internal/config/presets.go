package config

var Presets = map[string]map[string]*Config{
	"cavity": {
		"decay": {
			System: "cavity", Solver: "me", Method: "dopri5", Duration: 5, Points: 101,
			Params: map[string]float64{"delta": 0, "kappa": 1, "alpha0": 2},
		},
		"rotate": {
			System: "cavity", Solver: "se", Method: "dopri5", Duration: 2, Points: 201,
			Params: map[string]float64{"kappa": 0},
		},
		"homodyne": {
			System: "cavity", Solver: "sme", Method: "euler", Dt: 0.001, Duration: 2,
			Points: 101, NTraj: 100,
			Params: map[string]float64{"delta": 0, "kappa": 1, "alpha0": 2},
		},
	},
	"qubit": {
		"rabi": {
			System: "qubit", Solver: "se", Method: "dopri5", Duration: 2, Points: 201,
			Params: map[string]float64{"gamma": 0},
		},
		"decay": {
			System: "qubit", Solver: "mc", Method: "rk4", Dt: 0.002, Duration: 5,
			Points: 101, NTraj: 500,
			Params: map[string]float64{"omega": 0},
		},
		"dephasing": {
			System: "qubit", Solver: "me", Method: "dopri5", Duration: 4, Points: 101,
			Params: map[string]float64{"omega": 0, "gamma": 0, "gamma_ph": 1},
		},
	},
	"jaynes": {
		"vacuum-rabi": {
			System: "jaynes", Solver: "me", Method: "dopri5", Duration: 10, Points: 201,
		},
		"lossless": {
			System: "jaynes", Solver: "se", Method: "dopri5", Duration: 10, Points: 201,
			Params: map[string]float64{"kappa": 0, "gamma": 0},
		},
	},
	"kerr": {
		"cat": {
			System: "kerr", Solver: "me", Method: "dopri5", Duration: 2, Points: 101,
		},
		"closed": {
			System: "kerr", Solver: "se", Method: "dopri5", Duration: 2, Points: 201,
			Params: map[string]float64{"kappa": 0},
		},
	},
}

func GetPreset(system, preset string) *Config {
	sysPresets, ok := Presets[system]
	if !ok {
		return nil
	}
	cfg, ok := sysPresets[preset]
	if !ok {
		return nil
	}
	out := *cfg
	// callers merge overrides into Params; copy so the table stays pristine
	out.Params = make(map[string]float64, len(cfg.Params))
	for k, v := range cfg.Params {
		out.Params[k] = v
	}
	out.Observables = append([]string(nil), cfg.Observables...)
	if out.Dt == 0 {
		out.Dt = DefaultDt
	}
	if out.Rtol == 0 {
		out.Rtol = DefaultRtol
	}
	if out.Atol == 0 {
		out.Atol = DefaultAtol
	}
	if out.NTraj == 0 {
		out.NTraj = DefaultNTraj
	}
	return &out
}

func ListPresets(system string) []string {
	sysPresets, ok := Presets[system]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(sysPresets))
	for name := range sysPresets {
		names = append(names, name)
	}
	return names
}
