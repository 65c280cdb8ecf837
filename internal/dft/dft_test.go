package dft

import (
	"math"
	"math/cmplx"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func naiveDFT(x []float64) []complex128 {
	n := len(x)
	out := make([]complex128, Bins(n))
	for k := range out {
		var sum complex128
		for i, v := range x {
			sum += complex(v, 0) * cmplx.Exp(complex(0, -2*math.Pi*float64(k*i%n)/float64(n)))
		}
		out[k] = sum
	}
	return out
}

func randomSignal(n int, seed uint64) []float64 {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	x := make([]float64, n)
	for i := range x {
		x[i] = rng.Float64()*2 - 1
	}
	return x
}

func TestSmooth(t *testing.T) {
	assert.True(t, Smooth(22050))
	assert.True(t, Smooth(96000))
	assert.True(t, Smooth(127*4))
	assert.False(t, Smooth(131*4))
	assert.False(t, Smooth(220501))
}

func TestForward_MatchesNaiveDFT(t *testing.T) {
	for _, n := range []int{8, 15, 100, 131, 2 * 131, 3 * 137} {
		x := randomSignal(n, uint64(n))
		got := Forward(x)
		want := naiveDFT(x)
		require.Len(t, got, Bins(n), "n=%d", n)
		for k := range want {
			assert.InDelta(t, real(want[k]), real(got[k]), 1e-8, "n=%d k=%d re", n, k)
			assert.InDelta(t, imag(want[k]), imag(got[k]), 1e-8, "n=%d k=%d im", n, k)
		}
	}
}

func TestInverse_RoundTrip(t *testing.T) {
	for _, n := range []int{1, 2, 9, 64, 131, 262, 1031, 4000} {
		x := randomSignal(n, uint64(n)+7)
		got := Inverse(Forward(x), n)
		require.Len(t, got, n)
		for i := range x {
			assert.InDelta(t, x[i], got[i], 1e-9, "n=%d i=%d", n, i)
		}
	}
}

func TestForward_Empty(t *testing.T) {
	assert.Nil(t, Forward(nil))
	assert.Nil(t, Inverse(nil, 0))
}

func TestForward_SineBin(t *testing.T) {
	// A bin-centred sine puts n/2 magnitude into its bin.
	const n = 1031
	x := make([]float64, n)
	for i := range x {
		x[i] = math.Sin(2 * math.Pi * 50 * float64(i) / n)
	}
	coeffs := Forward(x)
	assert.InDelta(t, n/2.0, cmplx.Abs(coeffs[50]), 1e-6)
	assert.Less(t, cmplx.Abs(coeffs[49]), 1e-6)
}

func BenchmarkForward_PrimeLength(b *testing.B) {
	x := randomSignal(104729, 1)
	for b.Loop() {
		_ = Forward(x)
	}
}
