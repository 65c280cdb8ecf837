package fdm

import (
	"fmt"
	"math"
	"sync"

	"github.com/tphakala/simd/f64"
	"gonum.org/v1/gonum/floats"
)

// forEachSlot runs fn for slots 0..n-1. With parallel set, slots run
// concurrently and the first error is returned after all have finished.
func forEachSlot(n int, parallel bool, fn func(slot int) error) error {
	if !parallel || n <= 1 {
		for slot := range n {
			if err := fn(slot); err != nil {
				return fmt.Errorf("slot %d: %w", slot+1, err)
			}
		}
		return nil
	}

	var wg sync.WaitGroup
	errChan := make(chan error, n)

	for slot := range n {
		wg.Add(1)
		go func(slot int) {
			defer wg.Done()
			if err := fn(slot); err != nil {
				errChan <- fmt.Errorf("slot %d: %w", slot+1, err)
			}
		}(slot)
	}

	wg.Wait()
	close(errChan)

	for err := range errChan {
		if err != nil {
			return err
		}
	}
	return nil
}

// peakAbs returns the largest magnitude over all signals.
func peakAbs(signals ...[]float64) float64 {
	var peak float64
	for _, s := range signals {
		if len(s) > 0 {
			peak = max(peak, floats.Norm(s, math.Inf(1)))
		}
	}
	return peak
}

// normalizePeak scales the signals together so the largest magnitude is
// 1. Silent signals are left as they are.
func normalizePeak(signals ...[]float64) {
	peak := peakAbs(signals...)
	if peak == 0 || math.IsNaN(peak) || math.IsInf(peak, 0) {
		return
	}
	for _, s := range signals {
		f64.Scale(s, s, 1/peak)
	}
}

// carrier returns cos(2π·freq·n/rate) for n in [0, length), scaled by gain.
func carrier(freq, gain float64, sampleRate, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freq / float64(sampleRate)
	for n := range out {
		out[n] = gain * math.Cos(step*float64(n))
	}
	return out
}
