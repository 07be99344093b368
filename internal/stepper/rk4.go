package stepper

type RK4 struct {
	k1, k2, k3, k4 []complex128
	scratch        []complex128
}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) ensureScratch(n int) {
	if len(r.k1) != n {
		r.k1 = make([]complex128, n)
		r.k2 = make([]complex128, n)
		r.k3 = make([]complex128, n)
		r.k4 = make([]complex128, n)
		r.scratch = make([]complex128, n)
	}
}

func (r *RK4) Step(f RHS, y []complex128, t, dt float64) []complex128 {
	n := len(y)
	r.ensureScratch(n)
	cdt := complex(dt, 0)

	f(t, y, r.k1)

	for i := 0; i < n; i++ {
		r.scratch[i] = y[i] + cdt*0.5*r.k1[i]
	}
	f(t+dt*0.5, r.scratch, r.k2)

	for i := 0; i < n; i++ {
		r.scratch[i] = y[i] + cdt*0.5*r.k2[i]
	}
	f(t+dt*0.5, r.scratch, r.k3)

	for i := 0; i < n; i++ {
		r.scratch[i] = y[i] + cdt*r.k3[i]
	}
	f(t+dt, r.scratch, r.k4)

	result := make([]complex128, n)
	dt6 := cdt / 6.0
	for i := 0; i < n; i++ {
		result[i] = y[i] + dt6*(r.k1[i]+2*r.k2[i]+2*r.k3[i]+r.k4[i])
	}
	return result
}
