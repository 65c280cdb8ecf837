// Package resample converts whole buffers between sample rates.
//
// Two methods are available. Fourier resampling truncates or zero-pads the
// real spectrum of the entire signal, which treats it as periodic and is
// exact for band-limited input. Polyphase resampling runs a Kaiser
// windowed-sinc interpolator at the rational ratio up/down with the group
// delay removed, so output sample m lines up with input time m·down/up.
//
// Both return exactly int(len·out/in) samples.
package resample

import (
	"errors"
	"fmt"
	"sync"

	"github.com/tphakala/go-audio-fdm/internal/dft"
	"github.com/tphakala/go-audio-fdm/internal/mathutil"
)

// Method selects the resampling algorithm.
type Method int

const (
	// MethodAuto uses Fourier when the input and output lengths have only
	// small prime factors, polyphase otherwise.
	MethodAuto Method = iota
	// MethodFourier resamples in the frequency domain.
	MethodFourier
	// MethodPolyphase uses a rational polyphase FIR.
	MethodPolyphase
)

// String returns the method name as used in configuration files.
func (m Method) String() string {
	switch m {
	case MethodAuto:
		return "auto"
	case MethodFourier:
		return "fourier"
	case MethodPolyphase:
		return "polyphase"
	default:
		return fmt.Sprintf("method(%d)", int(m))
	}
}

// ParseMethod converts a method name to a Method.
func ParseMethod(name string) (Method, error) {
	switch name {
	case "", "auto":
		return MethodAuto, nil
	case "fourier", "fft":
		return MethodFourier, nil
	case "polyphase", "poly":
		return MethodPolyphase, nil
	default:
		return 0, fmt.Errorf("%w: unknown method %q", ErrInvalidRatio, name)
	}
}

var (
	// ErrInvalidRatio is returned for non-positive rates or ratios the
	// polyphase filter cannot realize.
	ErrInvalidRatio = errors.New("resample: invalid ratio")
)

// OutputLength returns the number of samples produced when n samples at
// inRate are resampled to outRate.
func OutputLength(n, inRate, outRate int) int {
	if n <= 0 || inRate <= 0 || outRate <= 0 {
		return 0
	}
	return int(int64(n) * int64(outRate) / int64(inRate))
}

// Rate resamples x from inRate to outRate using method.
// Equal rates return a copy. x is never modified.
func Rate(x []float64, inRate, outRate int, method Method) ([]float64, error) {
	if inRate <= 0 || outRate <= 0 {
		return nil, fmt.Errorf("%w: %d Hz -> %d Hz", ErrInvalidRatio, inRate, outRate)
	}
	if inRate == outRate {
		out := make([]float64, len(x))
		copy(out, x)
		return out, nil
	}

	num := OutputLength(len(x), inRate, outRate)
	g := mathutil.GCD(inRate, outRate)
	up, down := outRate/g, inRate/g

	switch method {
	case MethodFourier:
		return Fourier(x, num), nil
	case MethodPolyphase:
		return Polyphase(x, up, down)
	case MethodAuto:
		if dft.Smooth(len(x)) && dft.Smooth(num) {
			return Fourier(x, num), nil
		}
		if out, err := Polyphase(x, up, down); err == nil {
			return out, nil
		}
		// Ratio too fine for a polyphase bank; chirp-z handles any length.
		return Fourier(x, num), nil
	default:
		return nil, fmt.Errorf("%w: unknown method %v", ErrInvalidRatio, method)
	}
}

// Multi resamples every channel. With parallel set, channels run
// concurrently.
func Multi(channels [][]float64, inRate, outRate int, method Method, parallel bool) ([][]float64, error) {
	output := make([][]float64, len(channels))

	if !parallel || len(channels) <= 1 {
		for ch := range channels {
			result, err := Rate(channels[ch], inRate, outRate, method)
			if err != nil {
				return nil, fmt.Errorf("channel %d: %w", ch, err)
			}
			output[ch] = result
		}
		return output, nil
	}

	var wg sync.WaitGroup
	errChan := make(chan error, len(channels))

	for ch := range channels {
		wg.Add(1)
		go func(channel int) {
			defer wg.Done()

			result, err := Rate(channels[channel], inRate, outRate, method)
			if err != nil {
				errChan <- fmt.Errorf("channel %d: %w", channel, err)
				return
			}
			output[channel] = result
		}(ch)
	}

	wg.Wait()
	close(errChan)

	for err := range errChan {
		if err != nil {
			return nil, err
		}
	}

	return output, nil
}
