// Package analysis provides spectral tools for magnetization signals.
//
//   - [PowerSpectrum]: magnitude of the one-sided FFT of a real signal
//   - [Frequencies]: bin frequencies matching a power spectrum
//   - [DominantFrequency]: strongest non-DC component, the FMR peak of a PIMM run
//   - [LowPass]: zero-phase FFT low-pass used to rectify spin-diode mixing
//
// # PIMM
//
// A pulse-induced run rings down at the ferromagnetic resonance frequency.
// Its summed mz trace yields that frequency directly:
//
//	spectrum := analysis.PowerSpectrum(res.PIMM)
//	f := analysis.DominantFrequency(spectrum, dt, len(res.PIMM))
package analysis
