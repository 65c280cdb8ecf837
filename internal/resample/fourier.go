package resample

import (
	"github.com/tphakala/go-audio-fdm/internal/dft"
	"github.com/tphakala/simd/f64"
)

// Fourier resamples x to num samples in the frequency domain.
//
// The first min(len, num)/2+1 bins of the real spectrum are carried over.
// When that count ends on an even-length Nyquist bin, the bin is halved on
// upsampling (its energy is split between +N/2 and -N/2 of the longer
// spectrum) and doubled on downsampling (the two halves fold together).
// The inverse is scaled by num/len so amplitudes are preserved.
func Fourier(x []float64, num int) []float64 {
	n := len(x)
	if num <= 0 {
		return []float64{}
	}
	if n == 0 {
		return make([]float64, num)
	}
	if n == num {
		out := make([]float64, n)
		copy(out, x)
		return out
	}

	spectrum := dft.Forward(x)
	resampled := make([]complex128, dft.Bins(num))

	kept := min(n, num)
	copy(resampled, spectrum[:kept/2+1])

	if kept%2 == 0 {
		nyq := kept / 2
		if num < n {
			resampled[nyq] *= 2
		} else {
			resampled[nyq] *= 0.5
		}
	}

	// A real sequence has real DC and Nyquist terms.
	resampled[0] = complex(real(resampled[0]), 0)
	if num%2 == 0 {
		last := num / 2
		resampled[last] = complex(real(resampled[last]), 0)
	}

	out := dft.Inverse(resampled, num)
	// Inverse divides by num; undo the forward length instead.
	f64.Scale(out, out, float64(num)/float64(n))
	return out
}
