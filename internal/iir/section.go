package iir

import (
	"math"
	"math/cmplx"
)

// Section holds the coefficients of one second-order section. a0 is
// normalized to 1 and not stored.
//
// Processing uses Direct Form II Transposed:
//
//	y  = B0*x + d0
//	d0 = B1*x - A1*y + d1
//	d1 = B2*x - A2*y
type Section struct {
	B0, B1, B2 float64 // feedforward
	A1, A2     float64 // feedback
}

// Response computes H(e^jω) of the section at freqHz.
func (s Section) Response(freqHz, sampleRate float64) complex128 {
	w := 2 * math.Pi * freqHz / sampleRate
	z1 := cmplx.Exp(complex(0, -w))
	z2 := z1 * z1

	num := complex(s.B0, 0) + complex(s.B1, 0)*z1 + complex(s.B2, 0)*z2
	den := 1 + complex(s.A1, 0)*z1 + complex(s.A2, 0)*z2
	return num / den
}

// Stable reports whether both poles lie strictly inside the unit circle
// (the stability triangle |A2| < 1, |A1| < 1 + A2).
func (s Section) Stable() bool {
	return math.Abs(s.A2) < 1 && math.Abs(s.A1) < 1+s.A2
}

// Sections is a cascade of second-order sections processed in order.
type Sections []Section

// Filter runs x through the cascade with zero initial state and returns a
// new slice of the same length. x is not modified.
func (c Sections) Filter(x []float64) []float64 {
	out := make([]float64, len(x))
	copy(out, x)
	c.FilterInPlace(out)
	return out
}

// FilterInPlace runs buf through the cascade with zero initial state.
func (c Sections) FilterInPlace(buf []float64) {
	for _, s := range c {
		b0, b1, b2 := s.B0, s.B1, s.B2
		a1, a2 := s.A1, s.A2
		var d0, d1 float64
		for i, x := range buf {
			y := b0*x + d0
			d0 = b1*x - a1*y + d1
			d1 = b2*x - a2*y
			buf[i] = y
		}
	}
}

// Response computes the cascaded frequency response at freqHz.
func (c Sections) Response(freqHz, sampleRate float64) complex128 {
	h := complex(1, 0)
	for _, s := range c {
		h *= s.Response(freqHz, sampleRate)
	}
	return h
}

// MagnitudeDB returns 20*log10|H(f)|.
func (c Sections) MagnitudeDB(freqHz, sampleRate float64) float64 {
	return 20 * math.Log10(cmplx.Abs(c.Response(freqHz, sampleRate)))
}

// Stable reports whether every section is stable.
func (c Sections) Stable() bool {
	for _, s := range c {
		if !s.Stable() {
			return false
		}
	}
	return true
}

// Order returns the number of poles in the cascade.
func (c Sections) Order() int {
	n := 0
	for _, s := range c {
		switch {
		case s.A2 != 0:
			n += 2
		case s.A1 != 0:
			n++
		}
	}
	return n
}

// ImpulseResponse returns the first n samples of the cascade's impulse response.
func (c Sections) ImpulseResponse(n int) []float64 {
	if n <= 0 {
		return nil
	}
	ir := make([]float64, n)
	ir[0] = 1
	c.FilterInPlace(ir)
	return ir
}
