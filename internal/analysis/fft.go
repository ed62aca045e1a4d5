package analysis

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/floats"
)

// PowerSpectrum returns |FFT(data)| for the first len(data)/2 bins. Any
// length is accepted.
func PowerSpectrum(data []float64) []float64 {
	if len(data) == 0 {
		return nil
	}
	bins := fft.FFTReal(data)
	ps := make([]float64, len(bins)/2)

	for i := range ps {
		ps[i] = cmplx.Abs(bins[i])
	}

	return ps
}

// Frequencies returns the frequency of each of the n/2 bins of a spectrum of
// n samples taken dt apart.
func Frequencies(n int, dt float64) []float64 {
	f := make([]float64, n/2)
	df := 1 / (float64(n) * dt)
	for i := range f {
		f[i] = float64(i) * df
	}
	return f
}

// DominantFrequency returns the frequency of the largest bin of spectrum,
// ignoring DC. n is the length of the input signal.
func DominantFrequency(spectrum []float64, dt float64, n int) float64 {
	if len(spectrum) < 2 {
		return 0
	}
	k := floats.MaxIdx(spectrum[1:]) + 1
	return float64(k) / (float64(n) * dt)
}

// Hann applies a Hann window, returning a new slice.
func Hann(data []float64) []float64 {
	n := len(data)
	out := make([]float64, n)
	if n == 1 {
		out[0] = data[0]
		return out
	}
	for i, v := range data {
		out[i] = v * 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n-1)))
	}
	return out
}
