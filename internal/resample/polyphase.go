package resample

import (
	"fmt"

	"github.com/tphakala/go-audio-fdm/internal/filter"
	"github.com/tphakala/go-audio-fdm/internal/mathutil"
	"github.com/tphakala/simd/f64"
)

const (
	// Zero crossings of the prototype sinc on each side of its center,
	// counted at the lower of the two rates.
	halfZeroCrossings = 16

	// Stopband attenuation of the Kaiser window.
	stopbandAttenuation = 80.0

	// Largest tap count the prototype filter may have.
	maxPrototypeTaps = 1<<16 - 1
)

// polyphaseBank holds the prototype split into up branches, each stored
// time-reversed so a branch lines up with a forward run of input samples.
type polyphaseBank struct {
	up, down int
	delay    int // group delay of the prototype at the upsampled rate
	branches [][]float64
}

func newPolyphaseBank(up, down int) (*polyphaseBank, error) {
	factor := max(up, down)
	half := halfZeroCrossings * factor
	numTaps := 2*half + 1
	if numTaps > maxPrototypeTaps {
		return nil, fmt.Errorf("%w: %d/%d needs %d taps (max %d)",
			ErrInvalidRatio, up, down, numTaps, maxPrototypeTaps)
	}

	taps, err := filter.DesignLowPass(filter.LowPassParams{
		NumTaps:     numTaps,
		Cutoff:      0.5 / float64(factor),
		Attenuation: stopbandAttenuation,
		Gain:        float64(up),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to design prototype filter: %w", err)
	}

	branches := filter.Polyphase(taps, up)
	for _, b := range branches {
		for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
			b[i], b[j] = b[j], b[i]
		}
	}

	return &polyphaseBank{up: up, down: down, delay: half, branches: branches}, nil
}

// Polyphase resamples x by the rational factor up/down. The ratio need not
// be reduced. Output sample m is centered on input time m·down/up.
func Polyphase(x []float64, up, down int) ([]float64, error) {
	if up <= 0 || down <= 0 {
		return nil, fmt.Errorf("%w: %d/%d", ErrInvalidRatio, up, down)
	}
	if g := mathutil.GCD(up, down); g > 1 {
		up, down = up/g, down/g
	}
	if up == down {
		out := make([]float64, len(x))
		copy(out, x)
		return out, nil
	}

	bank, err := newPolyphaseBank(up, down)
	if err != nil {
		return nil, err
	}
	return bank.process(x), nil
}

func (b *polyphaseBank) process(x []float64) []float64 {
	num := len(x) * b.up / b.down
	out := make([]float64, num)
	n := len(x)

	for m := range out {
		// Position in the zero-stuffed signal, shifted by the filter delay.
		t := m*b.down + b.delay
		branch := b.branches[t%b.up]
		k := len(branch)
		if k == 0 {
			continue
		}
		// branch[k-1-j] multiplies x[base-j]; the reversed branch lines up
		// with x[lo : base+1].
		base := t / b.up
		lo := base - k + 1

		if lo >= 0 && base < n {
			out[m] = f64.DotProduct(branch, x[lo:base+1])
			continue
		}

		var acc float64
		for i, h := range branch {
			idx := lo + i
			if idx >= 0 && idx < n {
				acc += h * x[idx]
			}
		}
		out[m] = acc
	}
	return out
}
