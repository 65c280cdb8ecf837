package fdm

import (
	"math/cmplx"
	"testing"

	"github.com/mjibson/go-dsp/fft"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/go-audio-fdm/internal/testutil"
)

func TestComputeSpectrum_Sine(t *testing.T) {
	// 4410 samples at 44.1 kHz: 10 Hz bins, 1 kHz lands on bin 100.
	x := testutil.Sine(1000, testRate, 0.8, 4410)
	spec := ComputeSpectrum(x, testRate)

	require.Equal(t, 2205, spec.Len())
	assert.InDelta(t, 0.0, spec.Freqs[0], 0)
	assert.InDelta(t, 10.0, spec.Freqs[1], 1e-12)
	assert.InDelta(t, 22040.0, spec.Freqs[2204], 1e-9)

	freq, mag := spec.Peak()
	assert.InDelta(t, 1000, freq, 1e-9)
	assert.InDelta(t, 0.4, mag, 1e-9, "single-sided magnitude is A/2")
	assert.InDelta(t, 0.4, spec.Magnitudes[100], 1e-9)
	assert.Less(t, spec.Magnitudes[300], 1e-9)
}

func TestComputeSpectrum_MatchesGoDSP(t *testing.T) {
	// Non-smooth length to exercise the chirp-z path as well.
	for _, n := range []int{1024, 1031} {
		x := testutil.Sine(3000, testRate, 0.5, n)
		for i := range x {
			x[i] += 0.1 * float64(i%7) / 7
		}
		spec := ComputeSpectrum(x, testRate)
		ref := fft.FFTReal(x)

		require.Equal(t, n/2, spec.Len())
		for k := range spec.Len() {
			want := cmplx.Abs(ref[k]) / float64(n)
			if !assert.InDelta(t, want, spec.Magnitudes[k], 1e-9, "n=%d bin %d", n, k) {
				break
			}
		}
	}
}

func TestComputeSpectrum_OddAndTiny(t *testing.T) {
	assert.Equal(t, 500, ComputeSpectrum(make([]float64, 1001), testRate).Len())
	assert.Equal(t, 0, ComputeSpectrum(nil, testRate).Len())
	assert.Equal(t, 0, ComputeSpectrum([]float64{1}, testRate).Len())

	f, m := ComputeSpectrum(nil, testRate).Peak()
	assert.Zero(t, f)
	assert.Zero(t, m)
}

func TestComputeSpectrum_PeakIgnoresDC(t *testing.T) {
	x := testutil.Sine(2000, testRate, 0.1, 4410)
	for i := range x {
		x[i] += 5
	}
	f, _ := ComputeSpectrum(x, testRate).Peak()
	assert.InDelta(t, 2000, f, 1e-9)
}

func TestComputeSpectrumWindowed(t *testing.T) {
	// 1005 Hz sits between bins and leaks with a rectangular window.
	x := testutil.Sine(1005, testRate, 1, 4410)

	rect, err := ComputeSpectrumWindowed(x, testRate, WindowNone)
	require.NoError(t, err)

	for _, w := range []Window{WindowHann, WindowHamming, WindowBlackman} {
		t.Run(string(w), func(t *testing.T) {
			original := append([]float64(nil), x...)
			spec, err := ComputeSpectrumWindowed(x, testRate, w)
			require.NoError(t, err)
			assert.Equal(t, original, x, "input must not be windowed in place")

			f, _ := spec.Peak()
			assert.InDelta(t, 1005, f, 10)
			// Far from the tone the window suppresses leakage.
			assert.Less(t, spec.Magnitudes[400], rect.Magnitudes[400])
		})
	}

	_, err = ComputeSpectrumWindowed(x, testRate, Window("kaiser"))
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestSpectrum_Decimate(t *testing.T) {
	spec := &Spectrum{
		Freqs:      []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9},
		Magnitudes: []float64{0, 9, 1, 1, 1, 1, 1, 5, 1, 1},
	}

	d := spec.Decimate(5)
	assert.Equal(t, []float64{0, 2, 4, 6, 8}, d.Freqs)
	assert.Equal(t, []float64{9, 1, 1, 5, 1}, d.Magnitudes)

	same := spec.Decimate(20)
	assert.Equal(t, spec.Magnitudes, same.Magnitudes)
	same.Magnitudes[0] = 42
	assert.InDelta(t, 0.0, spec.Magnitudes[0], 0, "decimate must copy")

	assert.Equal(t, spec.Len(), spec.Decimate(0).Len())
}
