// Package analysis provides post-processing for expectation-value series.
//
//   - [PowerSpectrum]: one-sided power spectrum of a saved observable,
//     exposing oscillation frequencies such as Rabi or vacuum Rabi lines
//   - [Autocorrelation]: normalized autocorrelation up to a chosen lag
//
// Frequencies are reported in cycles per unit time of the save grid:
//
//	spec, err := analysis.PowerSpectrum(result.Times, series)
//	if err == nil {
//	    f, _ := spec.Peak()
//	}
package analysis
