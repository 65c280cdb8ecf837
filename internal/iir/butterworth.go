// Package iir designs Butterworth filters as cascades of second-order
// sections and runs them over sample buffers.
//
// Design follows the classic analog route: a normalized Butterworth
// prototype is frequency-transformed to the requested response, mapped to
// the z-plane with a prewarped bilinear transform, and factored into
// conjugate-pair biquads. A band-pass of order N therefore has 2N poles.
package iir

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"
	"slices"
	"strings"
)

// Kind selects the filter response.
type Kind int

const (
	// Lowpass passes [0, cutoff].
	Lowpass Kind = iota
	// Highpass passes [cutoff, Nyquist].
	Highpass
	// Bandpass passes [low, high].
	Bandpass
)

// String returns the lowercase name of the response.
func (k Kind) String() string {
	switch k {
	case Lowpass:
		return "lowpass"
	case Highpass:
		return "highpass"
	case Bandpass:
		return "bandpass"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ParseKind converts "lowpass", "highpass" or "bandpass" to a Kind.
func ParseKind(name string) (Kind, error) {
	switch strings.ToLower(name) {
	case "lowpass", "low", "lp":
		return Lowpass, nil
	case "highpass", "high", "hp":
		return Highpass, nil
	case "bandpass", "band", "bp":
		return Bandpass, nil
	default:
		return 0, fmt.Errorf("%w: unknown filter type %q", ErrInvalidParams, name)
	}
}

// ErrInvalidParams is returned for orders or edge frequencies that cannot be
// realized at the given sample rate.
var ErrInvalidParams = errors.New("iir: invalid parameters")

const (
	maxOrder = 16

	// Digital-domain sample rate of the bilinear transform. Edges are
	// prewarped for this rate, so its value cancels out.
	bilinearRate = 2.0

	// Imaginary parts below this are treated as real roots.
	realRootTolerance = 1e-12
)

// zpk is a transfer function in zeros/poles/gain form.
type zpk struct {
	zeros []complex128
	poles []complex128
	gain  float64
}

func (f *zpk) degree() int {
	return len(f.poles) - len(f.zeros)
}

// LowpassDesign designs an order-N Butterworth lowpass with -3 dB at cutoff Hz.
func LowpassDesign(order int, cutoff, sampleRate float64) (Sections, error) {
	return Design(Lowpass, order, cutoff, 0, sampleRate)
}

// HighpassDesign designs an order-N Butterworth highpass with -3 dB at cutoff Hz.
func HighpassDesign(order int, cutoff, sampleRate float64) (Sections, error) {
	return Design(Highpass, order, cutoff, 0, sampleRate)
}

// BandpassDesign designs an order-N Butterworth bandpass with -3 dB at low
// and high Hz.
func BandpassDesign(order int, low, high, sampleRate float64) (Sections, error) {
	return Design(Bandpass, order, low, high, sampleRate)
}

// Design builds the second-order sections for a Butterworth filter.
// For Lowpass and Highpass only f1 is used; Bandpass uses [f1, f2].
func Design(kind Kind, order int, f1, f2, sampleRate float64) (Sections, error) {
	if order < 1 || order > maxOrder {
		return nil, fmt.Errorf("%w: order %d (must be 1-%d)", ErrInvalidParams, order, maxOrder)
	}
	if sampleRate <= 0 {
		return nil, fmt.Errorf("%w: sample rate %v", ErrInvalidParams, sampleRate)
	}
	nyquist := sampleRate / 2
	validEdge := func(f float64) bool { return f > 0 && f < nyquist }

	proto := prototype(order)
	var analog zpk

	switch kind {
	case Lowpass:
		if !validEdge(f1) {
			return nil, fmt.Errorf("%w: cutoff %v Hz outside (0, %v)", ErrInvalidParams, f1, nyquist)
		}
		analog = toLowpass(proto, prewarp(f1, sampleRate))
	case Highpass:
		if !validEdge(f1) {
			return nil, fmt.Errorf("%w: cutoff %v Hz outside (0, %v)", ErrInvalidParams, f1, nyquist)
		}
		analog = toHighpass(proto, prewarp(f1, sampleRate))
	case Bandpass:
		if !validEdge(f1) || !validEdge(f2) || f1 >= f2 {
			return nil, fmt.Errorf("%w: band [%v, %v] Hz outside (0, %v)", ErrInvalidParams, f1, f2, nyquist)
		}
		w1, w2 := prewarp(f1, sampleRate), prewarp(f2, sampleRate)
		analog = toBandpass(proto, math.Sqrt(w1*w2), w2-w1)
	default:
		return nil, fmt.Errorf("%w: unknown kind %v", ErrInvalidParams, kind)
	}

	return toSections(bilinear(analog)), nil
}

// prototype returns the analog Butterworth lowpass with unit cutoff.
func prototype(order int) zpk {
	poles := make([]complex128, 0, order)
	for m := -order + 1; m < order; m += 2 {
		theta := math.Pi * float64(m) / (2 * float64(order))
		poles = append(poles, -cmplx.Exp(complex(0, theta)))
	}
	return zpk{poles: poles, gain: 1}
}

// prewarp maps a digital frequency in Hz to the analog frequency that the
// bilinear transform sends back to it.
func prewarp(freq, sampleRate float64) float64 {
	normalized := freq / (sampleRate / 2)
	return 2 * bilinearRate * math.Tan(math.Pi*normalized/bilinearRate)
}

func toLowpass(f zpk, wo float64) zpk {
	w := complex(wo, 0)
	out := zpk{gain: f.gain * math.Pow(wo, float64(f.degree()))}
	for _, z := range f.zeros {
		out.zeros = append(out.zeros, z*w)
	}
	for _, p := range f.poles {
		out.poles = append(out.poles, p*w)
	}
	return out
}

func toHighpass(f zpk, wo float64) zpk {
	w := complex(wo, 0)
	num, den := complex(1, 0), complex(1, 0)
	out := zpk{}
	for _, z := range f.zeros {
		num *= -z
		out.zeros = append(out.zeros, w/z)
	}
	for _, p := range f.poles {
		den *= -p
		out.poles = append(out.poles, w/p)
	}
	for range f.degree() {
		out.zeros = append(out.zeros, 0)
	}
	out.gain = f.gain * real(num/den)
	return out
}

func toBandpass(f zpk, wo, bw float64) zpk {
	half := complex(bw/2, 0)
	wo2 := complex(wo*wo, 0)
	split := func(roots []complex128) []complex128 {
		out := make([]complex128, 0, 2*len(roots))
		for _, r := range roots {
			r *= half
			out = append(out, r+cmplx.Sqrt(r*r-wo2))
		}
		for _, r := range roots {
			r *= half
			out = append(out, r-cmplx.Sqrt(r*r-wo2))
		}
		return out
	}

	out := zpk{
		zeros: split(f.zeros),
		poles: split(f.poles),
		gain:  f.gain * math.Pow(bw, float64(f.degree())),
	}
	for range f.degree() {
		out.zeros = append(out.zeros, 0)
	}
	return out
}

// bilinear maps an analog zpk to the z-plane. Zeros at infinity land on
// z = -1 (Nyquist).
func bilinear(f zpk) zpk {
	fs2 := complex(2*bilinearRate, 0)
	num, den := complex(1, 0), complex(1, 0)
	out := zpk{}
	for _, z := range f.zeros {
		num *= fs2 - z
		out.zeros = append(out.zeros, (fs2+z)/(fs2-z))
	}
	for _, p := range f.poles {
		den *= fs2 - p
		out.poles = append(out.poles, (fs2+p)/(fs2-p))
	}
	for range f.degree() {
		out.zeros = append(out.zeros, -1)
	}
	out.gain = f.gain * real(num/den)
	return out
}

// quadratics turns roots into monic polynomials [1, c1, c2] of degree two
// (or one, with c2 = 0 and a single leftover real root). Complex roots are
// combined with their conjugate, real roots are paired smallest-with-largest
// so a band-pass gets one zero at DC and one at Nyquist per section.
// Complex pairs come first ordered by increasing radius.
func quadratics(roots []complex128) [][3]float64 {
	var complexRoots []complex128
	var realRoots []float64
	for _, r := range roots {
		switch {
		case math.Abs(imag(r)) <= realRootTolerance:
			realRoots = append(realRoots, real(r))
		case imag(r) > 0:
			complexRoots = append(complexRoots, r)
		}
	}
	slices.SortFunc(complexRoots, func(a, b complex128) int {
		return cmpFloat(cmplx.Abs(a), cmplx.Abs(b))
	})
	slices.Sort(realRoots)

	polys := make([][3]float64, 0, (len(roots)+1)/2)
	for _, r := range complexRoots {
		polys = append(polys, [3]float64{1, -2 * real(r), real(r)*real(r) + imag(r)*imag(r)})
	}
	i, j := 0, len(realRoots)-1
	for ; i < j; i, j = i+1, j-1 {
		a, b := realRoots[i], realRoots[j]
		polys = append(polys, [3]float64{1, -(a + b), a * b})
	}
	if i == j {
		polys = append(polys, [3]float64{1, -realRoots[i], 0})
	}
	return polys
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// toSections pairs numerator and denominator quadratics into biquads and
// folds the overall gain into the first section.
func toSections(f zpk) Sections {
	den := quadratics(f.poles)
	num := quadratics(f.zeros)

	sections := make(Sections, len(den))
	for i := range den {
		b := [3]float64{1, 0, 0}
		if i < len(num) {
			b = num[i]
		}
		sections[i] = Section{
			B0: b[0], B1: b[1], B2: b[2],
			A1: den[i][1], A2: den[i][2],
		}
	}
	if len(sections) > 0 {
		sections[0].B0 *= f.gain
		sections[0].B1 *= f.gain
		sections[0].B2 *= f.gain
	}
	return sections
}
