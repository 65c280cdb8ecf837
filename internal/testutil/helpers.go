// Package testutil provides reusable test helpers for the FDM pipeline tests.
package testutil

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/dsp/fourier"
)

// Default tolerances for various test scenarios.
const (
	DefaultTolerance = 1e-10
	DBTolerance      = 0.01
)

// halfDivisor is used for finding center indices in symmetric arrays.
const halfDivisor = 2

// AssertSymmetric verifies that a slice is symmetric (s[i] == s[n-1-i]).
func AssertSymmetric(t *testing.T, s []float64, tolerance float64) bool {
	t.Helper()
	n := len(s)
	for i := range n / halfDivisor {
		j := n - 1 - i
		if !assert.InDelta(t, s[i], s[j], tolerance,
			"slice not symmetric at i=%d: s[%d]=%f != s[%d]=%f", i, i, s[i], j, s[j]) {
			return false
		}
	}
	return true
}

// AssertNoNaNOrInf verifies that no elements in the slice are NaN or Inf.
func AssertNoNaNOrInf(t *testing.T, s []float64) bool {
	t.Helper()
	for i, v := range s {
		if math.IsNaN(v) {
			return assert.Fail(t, "found NaN", "s[%d] is NaN", i)
		}
		if math.IsInf(v, 0) {
			return assert.Fail(t, "found Inf", "s[%d] is Inf", i)
		}
	}
	return true
}

// AssertAllInRange verifies that all elements are within [min, max].
func AssertAllInRange(t *testing.T, s []float64, minVal, maxVal float64) bool {
	t.Helper()
	for i, v := range s {
		if v < minVal || v > maxVal {
			return assert.Fail(t, "value out of range",
				"s[%d]=%f is outside range [%f, %f]", i, v, minVal, maxVal)
		}
	}
	return true
}

// AssertPeakNormalized verifies that max|s| equals 1 within tolerance.
func AssertPeakNormalized(t *testing.T, s []float64, tolerance float64) bool {
	t.Helper()
	return assert.InDelta(t, 1.0, PeakAbs(s), tolerance, "signal is not peak normalized")
}

// AssertRelativeError verifies that the relative error between actual and expected is within tolerance.
func AssertRelativeError(t *testing.T, expected, actual, tolerance float64, msgAndArgs ...any) bool {
	t.Helper()
	if expected == 0 {
		return assert.InDelta(t, expected, actual, tolerance, msgAndArgs...)
	}
	relError := math.Abs(actual-expected) / math.Abs(expected)
	return assert.LessOrEqual(t, relError, tolerance,
		"relative error %e exceeds tolerance %e (expected=%f, actual=%f)",
		relError, tolerance, expected, actual)
}

// AssertInRange verifies that a value is within [min, max].
func AssertInRange(t *testing.T, value, minVal, maxVal float64) bool {
	t.Helper()
	if value < minVal || value > maxVal {
		return assert.Fail(t, "value out of range",
			"value %f is outside range [%f, %f]", value, minVal, maxVal)
	}
	return true
}

// Sine returns n samples of amp*sin(2π·freq·i/rate).
func Sine(freq, rate, amp float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = amp * math.Sin(2*math.Pi*freq*float64(i)/rate)
	}
	return out
}

// PeakAbs returns max|s|.
func PeakAbs(s []float64) float64 {
	var peak float64
	for _, v := range s {
		peak = max(peak, math.Abs(v))
	}
	return peak
}

// RMS returns the root mean square of s.
func RMS(s []float64) float64 {
	if len(s) == 0 {
		return 0
	}
	var sum float64
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(s)))
}

// DominantFrequency returns the frequency in Hz of the largest DFT bin
// (excluding DC) of s sampled at rate.
func DominantFrequency(s []float64, rate float64) float64 {
	n := len(s)
	if n < halfDivisor {
		return 0
	}
	coeffs := fourier.NewFFT(n).Coefficients(nil, s)
	best, bestMag := 0, 0.0
	for k := 1; k < len(coeffs); k++ {
		if m := cmplx.Abs(coeffs[k]); m > bestMag {
			best, bestMag = k, m
		}
	}
	return float64(best) * rate / float64(n)
}

// ToneAmplitude estimates the amplitude of the component at freq using a
// single-bin DFT over s.
func ToneAmplitude(s []float64, freq, rate float64) float64 {
	var re, im float64
	for i, v := range s {
		phase := 2 * math.Pi * freq * float64(i) / rate
		re += v * math.Cos(phase)
		im -= v * math.Sin(phase)
	}
	return 2 * math.Hypot(re, im) / float64(len(s))
}
