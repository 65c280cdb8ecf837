// Package filter provides Kaiser-windowed FIR design for the resamplers.
package filter

import (
	"errors"
	"fmt"
	"math"

	"github.com/tphakala/go-audio-fdm/internal/mathutil"
	"github.com/tphakala/simd/f64"
)

const (
	minFilterTaps = 3
	maxFilterTaps = 1<<16 - 1

	// Normalized frequencies are expressed as a fraction of the sample rate,
	// so Nyquist is 0.5.
	nyquistNormalized = 0.5

	sincZeroThreshold = 1e-10
)

// ErrInvalidParams is returned for filter parameters outside their valid range.
var ErrInvalidParams = errors.New("invalid filter parameters")

// KaiserWindow generates a symmetric Kaiser window:
//
//	w[n] = I₀(β·sqrt(1 - ((n - α)/α)²)) / I₀(β),  α = (N-1)/2
//
// The center tap is 1.
func KaiserWindow(length int, beta float64) []float64 {
	if length < 1 {
		return []float64{}
	}

	window := make([]float64, length)
	if length == 1 {
		window[0] = 1
		return window
	}

	alpha := float64(length-1) / 2
	i0Beta := mathutil.BesselI0(beta)
	for n := range length {
		x := (float64(n) - alpha) / alpha
		window[n] = mathutil.BesselI0(beta*math.Sqrt(max(0, 1-x*x))) / i0Beta
	}

	return window
}

// LowPassParams holds parameters for windowed-sinc lowpass design.
type LowPassParams struct {
	// NumTaps is the filter length. Odd lengths give a whole-sample delay.
	NumTaps int

	// Cutoff is the normalized -6 dB frequency in (0, 0.5).
	Cutoff float64

	// Attenuation is the stopband attenuation in dB used to pick β.
	Attenuation float64

	// Gain is the DC gain of the result. Interpolators use the
	// upsampling factor here.
	Gain float64
}

// Validate checks if filter parameters are valid.
func (p *LowPassParams) Validate() error {
	if p.NumTaps < minFilterTaps || p.NumTaps > maxFilterTaps {
		return fmt.Errorf("%w: %d taps (must be %d-%d)", ErrInvalidParams, p.NumTaps, minFilterTaps, maxFilterTaps)
	}
	if p.Cutoff <= 0 || p.Cutoff >= nyquistNormalized {
		return fmt.Errorf("%w: cutoff %f (must be in (0, 0.5))", ErrInvalidParams, p.Cutoff)
	}
	if p.Attenuation < 0 {
		return fmt.Errorf("%w: attenuation %f dB", ErrInvalidParams, p.Attenuation)
	}
	if p.Gain <= 0 {
		return fmt.Errorf("%w: gain %f", ErrInvalidParams, p.Gain)
	}
	return nil
}

// DesignLowPass designs a Kaiser-windowed sinc lowpass FIR with linear phase.
// The coefficients are scaled so they sum to params.Gain.
func DesignLowPass(params LowPassParams) ([]float64, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	window := KaiserWindow(params.NumTaps, mathutil.KaiserBeta(params.Attenuation))
	taps := make([]float64, params.NumTaps)
	center := float64(params.NumTaps-1) / 2

	for n := range taps {
		x := float64(n) - center
		if math.Abs(x) < sincZeroThreshold {
			taps[n] = 2 * params.Cutoff
		} else {
			taps[n] = math.Sin(2*math.Pi*params.Cutoff*x) / (math.Pi * x)
		}
		taps[n] *= window[n]
	}

	if sum := f64.Sum(taps); math.Abs(sum) > sincZeroThreshold {
		f64.Scale(taps, taps, params.Gain/sum)
	}

	return taps, nil
}

// Magnitude evaluates |H(f)| of an FIR at normalized frequency f.
func Magnitude(taps []float64, f float64) float64 {
	var re, im float64
	omega := 2 * math.Pi * f
	for n, h := range taps {
		re += h * math.Cos(omega*float64(n))
		im -= h * math.Sin(omega*float64(n))
	}
	return math.Hypot(re, im)
}

// MagnitudeDB converts linear magnitude to decibels, flooring at -200 dB.
func MagnitudeDB(magnitude float64) float64 {
	const minMagnitude = 1e-10
	return 20 * math.Log10(max(magnitude, minMagnitude))
}

// Polyphase splits a prototype filter into `phases` branches:
// branch p holds taps[p], taps[p+phases], taps[p+2*phases], ...
// Branch lengths differ by at most one when len(taps) is not a multiple
// of phases.
func Polyphase(taps []float64, phases int) [][]float64 {
	if phases < 1 {
		return nil
	}
	bank := make([][]float64, phases)
	for p := range phases {
		n := 0
		if p < len(taps) {
			n = (len(taps) - p + phases - 1) / phases
		}
		branch := make([]float64, n)
		for j := range n {
			branch[j] = taps[p+j*phases]
		}
		bank[p] = branch
	}
	return bank
}
