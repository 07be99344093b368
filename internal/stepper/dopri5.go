package stepper

import (
	"math"
	"math/cmplx"
)

// Dormand-Prince 5(4) coefficients
var (
	a2 = 1.0 / 5.0
	a3 = 3.0 / 10.0
	a4 = 4.0 / 5.0
	a5 = 8.0 / 9.0

	b21 = 1.0 / 5.0
	b31 = 3.0 / 40.0
	b32 = 9.0 / 40.0
	b41 = 44.0 / 45.0
	b42 = -56.0 / 15.0
	b43 = 32.0 / 9.0
	b51 = 19372.0 / 6561.0
	b52 = -25360.0 / 2187.0
	b53 = 64448.0 / 6561.0
	b54 = -212.0 / 729.0
	b61 = 9017.0 / 3168.0
	b62 = -355.0 / 33.0
	b63 = 46732.0 / 5247.0
	b64 = 49.0 / 176.0
	b65 = -5103.0 / 18656.0

	c1 = 35.0 / 384.0
	c3 = 500.0 / 1113.0
	c4 = 125.0 / 192.0
	c5 = -2187.0 / 6784.0
	c6 = 11.0 / 84.0

	dc1 = c1 - 5179.0/57600.0
	dc3 = c3 - 7571.0/16695.0
	dc4 = c4 - 393.0/640.0
	dc5 = c5 - -92097.0/339200.0
	dc6 = c6 - 187.0/2100.0
	dc7 = -1.0 / 40.0
)

type Dopri5 struct {
	safety    float64
	minFactor float64
	maxFactor float64

	k1, k2, k3, k4, k5, k6, k7 []complex128
	scratch                    []complex128
	haveK1                     bool
	k1Time                     float64
}

func NewDopri5() *Dopri5 {
	return &Dopri5{
		safety:    0.9,
		minFactor: 0.2,
		maxFactor: 5.0,
	}
}

func (d *Dopri5) ensureScratch(n int) {
	if len(d.k1) != n {
		d.k1 = make([]complex128, n)
		d.k2 = make([]complex128, n)
		d.k3 = make([]complex128, n)
		d.k4 = make([]complex128, n)
		d.k5 = make([]complex128, n)
		d.k6 = make([]complex128, n)
		d.k7 = make([]complex128, n)
		d.scratch = make([]complex128, n)
		d.haveK1 = false
	}
}

func (d *Dopri5) Step(f RHS, y []complex128, t, dt float64) []complex128 {
	ynew, _, _ := d.StepAdaptive(f, y, t, dt, 1e-6, 1e-8)
	return ynew
}

// StepAdaptive takes one embedded 5(4) step. The first stage is reused from
// the previous accepted step when times line up (FSAL).
func (d *Dopri5) StepAdaptive(f RHS, y []complex128, t, dt, rtol, atol float64) ([]complex128, float64, bool) {
	n := len(y)
	d.ensureScratch(n)
	cdt := complex(dt, 0)

	if !d.haveK1 || d.k1Time != t {
		f(t, y, d.k1)
	}

	for i := 0; i < n; i++ {
		d.scratch[i] = y[i] + cdt*complex(b21, 0)*d.k1[i]
	}
	f(t+a2*dt, d.scratch, d.k2)

	for i := 0; i < n; i++ {
		d.scratch[i] = y[i] + cdt*(complex(b31, 0)*d.k1[i]+complex(b32, 0)*d.k2[i])
	}
	f(t+a3*dt, d.scratch, d.k3)

	for i := 0; i < n; i++ {
		d.scratch[i] = y[i] + cdt*(complex(b41, 0)*d.k1[i]+complex(b42, 0)*d.k2[i]+complex(b43, 0)*d.k3[i])
	}
	f(t+a4*dt, d.scratch, d.k4)

	for i := 0; i < n; i++ {
		d.scratch[i] = y[i] + cdt*(complex(b51, 0)*d.k1[i]+complex(b52, 0)*d.k2[i]+complex(b53, 0)*d.k3[i]+complex(b54, 0)*d.k4[i])
	}
	f(t+a5*dt, d.scratch, d.k5)

	for i := 0; i < n; i++ {
		d.scratch[i] = y[i] + cdt*(complex(b61, 0)*d.k1[i]+complex(b62, 0)*d.k2[i]+complex(b63, 0)*d.k3[i]+complex(b64, 0)*d.k4[i]+complex(b65, 0)*d.k5[i])
	}
	f(t+dt, d.scratch, d.k6)

	ynew := make([]complex128, n)
	for i := 0; i < n; i++ {
		ynew[i] = y[i] + cdt*(complex(c1, 0)*d.k1[i]+complex(c3, 0)*d.k3[i]+complex(c4, 0)*d.k4[i]+complex(c5, 0)*d.k5[i]+complex(c6, 0)*d.k6[i])
	}

	f(t+dt, ynew, d.k7)

	// scaled error norm, err <= 1 accepts the step
	errMax := 0.0
	for i := 0; i < n; i++ {
		est := cdt * (complex(dc1, 0)*d.k1[i] + complex(dc3, 0)*d.k3[i] + complex(dc4, 0)*d.k4[i] + complex(dc5, 0)*d.k5[i] + complex(dc6, 0)*d.k6[i] + complex(dc7, 0)*d.k7[i])
		scale := atol + rtol*math.Max(cmplx.Abs(y[i]), cmplx.Abs(ynew[i]))
		if e := cmplx.Abs(est) / scale; e > errMax {
			errMax = e
		}
	}

	var dtNext float64
	if errMax == 0 {
		dtNext = dt * d.maxFactor
	} else {
		factor := d.safety * math.Pow(errMax, -0.2)
		factor = math.Max(d.minFactor, math.Min(d.maxFactor, factor))
		dtNext = dt * factor
	}

	if errMax > 1 {
		d.haveK1 = false
		return nil, dtNext, false
	}

	// FSAL: last stage of the accepted step is the first stage of the next
	copy(d.k1, d.k7)
	d.haveK1 = true
	d.k1Time = t + dt

	return ynew, dtNext, true
}
