package timeop

import "math"

// Pulse envelope helpers for Modulated operators. Each returns a real-valued
// coefficient function of time.

// FlatTop is a rectangular envelope of the given amplitude, held between
// padTime and padTime+holdTime and zero elsewhere.
func FlatTop(amplitude, padTime, holdTime float64) func(t float64) complex128 {
	return func(t float64) complex128 {
		if t < padTime || t >= padTime+holdTime {
			return 0
		}
		return complex(amplitude, 0)
	}
}

// RaisedCosine is a smooth single-lobe envelope over [0, gateTime]:
// A/2 * (1 - cos(2 pi t / T)).
func RaisedCosine(amplitude, gateTime float64) func(t float64) complex128 {
	return func(t float64) complex128 {
		if t < 0 || t > gateTime {
			return 0
		}
		return complex(amplitude/2*(1-math.Cos(2*math.Pi*t/gateTime)), 0)
	}
}

// GaussianFlatTop is a flat hold with Gaussian rise and fall of width sigma.
func GaussianFlatTop(amplitude, padTime, holdTime, sigma float64) func(t float64) complex128 {
	rise := padTime
	fall := padTime + holdTime
	return func(t float64) complex128 {
		switch {
		case t < rise:
			d := (t - rise) / sigma
			return complex(amplitude*math.Exp(-d*d/2), 0)
		case t > fall:
			d := (t - fall) / sigma
			return complex(amplitude*math.Exp(-d*d/2), 0)
		default:
			return complex(amplitude, 0)
		}
	}
}
