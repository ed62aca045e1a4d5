package analysis

import (
	"github.com/mjibson/go-dsp/fft"
)

// LowPass removes every component above cutoff from data sampled at fs. The
// filter acts in the frequency domain, so it has no phase lag and leaves the
// DC term, and therefore the mean, untouched. A cutoff at or above the
// Nyquist frequency returns a copy of data.
func LowPass(data []float64, cutoff, fs float64) []float64 {
	n := len(data)
	out := make([]float64, n)
	if n == 0 {
		return out
	}
	if cutoff >= fs/2 {
		copy(out, data)
		return out
	}

	bins := fft.FFTReal(data)
	df := fs / float64(n)
	for k := 1; k < n; k++ {
		bin := k
		if k > n/2 {
			bin = n - k
		}
		if float64(bin)*df > cutoff {
			bins[k] = 0
		}
	}

	for i, c := range fft.IFFT(bins) {
		out[i] = real(c)
	}
	return out
}
