package analysis

import (
	"fmt"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
)

// Spectrum holds a one-sided power spectrum of a real time series.
type Spectrum struct {
	Freqs []float64 // cycles per unit time
	Power []float64
}

// PowerSpectrum computes the one-sided power spectrum of a uniformly
// sampled expectation-value series. The mean is removed and a Hann window
// applied before the transform, so the zero-frequency bin reflects slow
// drift rather than the DC offset.
func PowerSpectrum(times, values []float64) (*Spectrum, error) {
	if len(times) != len(values) {
		return nil, fmt.Errorf("analysis: %d times for %d values", len(times), len(values))
	}
	if len(times) < 4 {
		return nil, fmt.Errorf("analysis: need at least 4 samples, got %d", len(times))
	}
	dt, err := uniformStep(times)
	if err != nil {
		return nil, err
	}

	n := len(values)
	windowed := make([]float64, n)
	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(n)
	for i, v := range values {
		w := 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n-1)))
		windowed[i] = (v - mean) * w
	}

	fft := fourier.NewFFT(n)
	coeffs := fft.Coefficients(nil, windowed)

	spec := &Spectrum{
		Freqs: make([]float64, len(coeffs)),
		Power: make([]float64, len(coeffs)),
	}
	for i, c := range coeffs {
		spec.Freqs[i] = fft.Freq(i) / dt
		mag := cmplx.Abs(c)
		spec.Power[i] = mag * mag
	}
	return spec, nil
}

// Peak returns the frequency and power of the strongest non-DC bin.
func (s *Spectrum) Peak() (freq, power float64) {
	for i := 1; i < len(s.Power); i++ {
		if s.Power[i] > power {
			freq, power = s.Freqs[i], s.Power[i]
		}
	}
	return freq, power
}

// Autocorrelation computes the normalized autocorrelation of a series up
// to maxLag samples. The zero-lag value is 1 unless the series is constant.
func Autocorrelation(values []float64, maxLag int) ([]float64, error) {
	n := len(values)
	if maxLag < 1 || maxLag >= n {
		return nil, fmt.Errorf("analysis: max lag %d out of range for %d samples", maxLag, n)
	}

	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(n)

	var variance float64
	for _, v := range values {
		d := v - mean
		variance += d * d
	}

	acf := make([]float64, maxLag+1)
	if variance == 0 {
		return acf, nil
	}
	for lag := 0; lag <= maxLag; lag++ {
		var sum float64
		for i := 0; i+lag < n; i++ {
			sum += (values[i] - mean) * (values[i+lag] - mean)
		}
		acf[lag] = sum / variance
	}
	return acf, nil
}

func uniformStep(times []float64) (float64, error) {
	dt := times[1] - times[0]
	if dt <= 0 {
		return 0, fmt.Errorf("analysis: times must be strictly ascending")
	}
	for i := 2; i < len(times); i++ {
		step := times[i] - times[i-1]
		if math.Abs(step-dt) > 1e-9*math.Max(1, dt) {
			return 0, fmt.Errorf("analysis: non-uniform grid at index %d", i)
		}
	}
	return dt, nil
}
