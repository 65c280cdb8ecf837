// Package dft provides real-signal FFTs of arbitrary length on top of
// gonum's fourier package.
//
// gonum factors the transform length and runs a generic pass for every
// prime factor other than 2, 3, 4 and 5, which degrades to O(n·p) for a
// large prime p. Lengths whose largest prime factor exceeds
// [MaxDirectPrime] are routed through Bluestein's chirp-z algorithm, which
// uses a power-of-two complex FFT instead.
package dft

import (
	"math"
	"math/cmplx"

	"github.com/tphakala/go-audio-fdm/internal/mathutil"
	"github.com/tphakala/simd/f64"
	"gonum.org/v1/gonum/dsp/fourier"
)

// MaxDirectPrime is the largest prime factor a length may have to be
// transformed by gonum directly.
const MaxDirectPrime = 127

// Bins returns the number of unique bins of a real FFT of length n.
func Bins(n int) int {
	return n/2 + 1
}

// Smooth reports whether n is transformed directly (no chirp-z fallback).
func Smooth(n int) bool {
	return mathutil.LargestPrimeFactor(n) <= MaxDirectPrime
}

// Forward returns the first n/2+1 DFT coefficients of the real sequence x,
// unnormalized (X[0] is the sum of x).
func Forward(x []float64) []complex128 {
	n := len(x)
	switch {
	case n == 0:
		return nil
	case n == 1:
		return []complex128{complex(x[0], 0)}
	case Smooth(n):
		return fourier.NewFFT(n).Coefficients(nil, x)
	}

	seq := make([]complex128, n)
	for i, v := range x {
		seq[i] = complex(v, 0)
	}
	return bluestein(seq, false)[:Bins(n)]
}

// Inverse returns the real sequence of length n whose real FFT is coeffs,
// normalized so Inverse(Forward(x), len(x)) == x. coeffs must hold
// n/2+1 bins.
func Inverse(coeffs []complex128, n int) []float64 {
	switch {
	case n == 0:
		return nil
	case n == 1:
		return []float64{real(coeffs[0])}
	case Smooth(n):
		// gonum's inverse is unnormalized.
		out := fourier.NewFFT(n).Sequence(nil, coeffs[:Bins(n)])
		f64.Scale(out, out, 1/float64(n))
		return out
	}

	// Rebuild the Hermitian spectrum and run a complex inverse.
	full := make([]complex128, n)
	copy(full, coeffs[:Bins(n)])
	for k := Bins(n); k < n; k++ {
		full[k] = cmplx.Conj(coeffs[n-k])
	}
	if n%2 == 0 {
		full[n/2] = complex(real(full[n/2]), 0)
	}
	full[0] = complex(real(full[0]), 0)

	seq := bluestein(full, true)
	out := make([]float64, n)
	scale := 1 / float64(n)
	for i := range out {
		out[i] = real(seq[i]) * scale
	}
	return out
}

// bluestein computes the unnormalized DFT (or inverse DFT when inverse is
// set) of x with the chirp-z identity nk = (n² + k² - (k-n)²)/2.
func bluestein(x []complex128, inverse bool) []complex128 {
	n := len(x)
	m := mathutil.NextPowerOfTwo(2*n - 1)

	sign := -1.0
	if inverse {
		sign = 1.0
	}

	// chirp[k] = exp(sign·iπk²/n); k² is reduced mod 2n to keep the
	// argument small for long transforms.
	chirp := make([]complex128, n)
	for k := range n {
		k2 := (int64(k) * int64(k)) % int64(2*n)
		chirp[k] = cmplx.Exp(complex(0, sign*math.Pi*float64(k2)/float64(n)))
	}

	a := make([]complex128, m)
	for k := range n {
		a[k] = x[k] * chirp[k]
	}
	b := make([]complex128, m)
	b[0] = cmplx.Conj(chirp[0])
	for k := 1; k < n; k++ {
		b[k] = cmplx.Conj(chirp[k])
		b[m-k] = b[k]
	}

	fft := fourier.NewCmplxFFT(m)
	fa := fft.Coefficients(nil, a)
	fb := fft.Coefficients(nil, b)
	for i := range fa {
		fa[i] *= fb[i]
	}
	conv := fft.Sequence(nil, fa)

	out := make([]complex128, n)
	scale := complex(1/float64(m), 0)
	for k := range n {
		out[k] = conv[k] * scale * chirp[k]
	}
	return out
}
