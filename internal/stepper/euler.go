package stepper

type Euler struct {
	dy []complex128
}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Step(f RHS, y []complex128, t, dt float64) []complex128 {
	if len(e.dy) != len(y) {
		e.dy = make([]complex128, len(y))
	}
	f(t, y, e.dy)

	result := make([]complex128, len(y))
	cdt := complex(dt, 0)
	for i := range y {
		result[i] = y[i] + cdt*e.dy[i]
	}
	return result
}
