package stepper

import "testing"

func benchRHS(t float64, y, dy []complex128) {
	for i := range y {
		dy[i] = -1i * y[i]
	}
}

func benchState(n int) []complex128 {
	y := make([]complex128, n)
	y[0] = 1
	return y
}

func BenchmarkEuler(b *testing.B) {
	s := NewEuler()
	y := benchState(64)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		y = s.Step(benchRHS, y, 0, 0.01)
	}
}

func BenchmarkRK4(b *testing.B) {
	s := NewRK4()
	y := benchState(64)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		y = s.Step(benchRHS, y, 0, 0.01)
	}
}

func BenchmarkDopri5(b *testing.B) {
	s := NewDopri5()
	y := benchState(64)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		y = s.Step(benchRHS, y, 0, 0.01)
	}
}
