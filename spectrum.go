package fdm

import (
	"fmt"
	"math/cmplx"

	"github.com/mjibson/go-dsp/window"

	"github.com/tphakala/go-audio-fdm/internal/dft"
)

// Window names an analysis window for ComputeSpectrum.
type Window string

// Supported analysis windows.
const (
	WindowNone     Window = "none"
	WindowHann     Window = "hann"
	WindowHamming  Window = "hamming"
	WindowBlackman Window = "blackman"
)

// Spectrum is a single-sided magnitude spectrum.
type Spectrum struct {
	Freqs      []float64
	Magnitudes []float64
}

// ComputeSpectrum returns bins 0..n/2-1 of the DFT of x as |X[k]|/n at
// frequencies k·fs/n. The Nyquist bin is not included.
func ComputeSpectrum(x []float64, sampleRate int) *Spectrum {
	spec, _ := ComputeSpectrumWindowed(x, sampleRate, WindowNone)
	return spec
}

// ComputeSpectrumWindowed is ComputeSpectrum with an analysis window
// applied to a copy of x first. Magnitudes are still divided by n.
func ComputeSpectrumWindowed(x []float64, sampleRate int, w Window) (*Spectrum, error) {
	n := len(x)
	half := n / 2
	spec := &Spectrum{
		Freqs:      make([]float64, half),
		Magnitudes: make([]float64, half),
	}
	if half == 0 {
		return spec, nil
	}

	frame := x
	if w != WindowNone && w != "" {
		fn, err := windowFunc(w)
		if err != nil {
			return nil, err
		}
		frame = append([]float64(nil), x...)
		window.Apply(frame, fn)
	}

	coeffs := dft.Forward(frame)
	scale := 1 / float64(n)
	binWidth := float64(sampleRate) / float64(n)
	for k := range half {
		spec.Freqs[k] = float64(k) * binWidth
		spec.Magnitudes[k] = cmplx.Abs(coeffs[k]) * scale
	}
	return spec, nil
}

func windowFunc(w Window) (func(int) []float64, error) {
	switch w {
	case WindowHann:
		return window.Hann, nil
	case WindowHamming:
		return window.Hamming, nil
	case WindowBlackman:
		return window.Blackman, nil
	default:
		return nil, fmt.Errorf("%w: unknown window %q", ErrInvalidConfig, w)
	}
}

// Len returns the number of bins.
func (s *Spectrum) Len() int {
	return len(s.Freqs)
}

// Peak returns the frequency and magnitude of the largest bin above DC.
// An empty spectrum returns zeros.
func (s *Spectrum) Peak() (freq, magnitude float64) {
	best := -1
	for k := 1; k < len(s.Magnitudes); k++ {
		if best < 0 || s.Magnitudes[k] > s.Magnitudes[best] {
			best = k
		}
	}
	if best < 0 {
		return 0, 0
	}
	return s.Freqs[best], s.Magnitudes[best]
}

// Decimate reduces the spectrum to at most maxPoints bins by keeping the
// largest magnitude of each bucket, so narrow peaks survive plotting.
// The frequency of a bucket is that of its first bin.
func (s *Spectrum) Decimate(maxPoints int) *Spectrum {
	n := s.Len()
	if maxPoints <= 0 || n <= maxPoints {
		return &Spectrum{
			Freqs:      append([]float64(nil), s.Freqs...),
			Magnitudes: append([]float64(nil), s.Magnitudes...),
		}
	}

	out := &Spectrum{
		Freqs:      make([]float64, maxPoints),
		Magnitudes: make([]float64, maxPoints),
	}
	for b := range maxPoints {
		lo := b * n / maxPoints
		hi := (b + 1) * n / maxPoints
		out.Freqs[b] = s.Freqs[lo]
		for k := lo; k < hi; k++ {
			out.Magnitudes[b] = max(out.Magnitudes[b], s.Magnitudes[k])
		}
	}
	return out
}
