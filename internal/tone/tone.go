// Package tone generates stereo sine test signals.
package tone

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/tphakala/go-audio-fdm/internal/wavio"
)

const (
	// DefaultAmplitude is the peak level of generated tones.
	DefaultAmplitude = 0.5
	// DefaultSampleRate is the rate of generated files.
	DefaultSampleRate = 44100
	// DefaultDuration is the length of generated files in seconds.
	DefaultDuration = 5.0
)

// Pair describes a stereo file with one sine per channel.
type Pair struct {
	Name    string
	LeftHz  float64
	RightHz float64
}

// DemoPairs are the two input files the demo expects when no real
// recordings are supplied.
var DemoPairs = []Pair{
	{Name: "file1.wav", LeftHz: 440, RightHz: 880},
	{Name: "file2.wav", LeftHz: 1200, RightHz: 2400},
}

// Sine returns amplitude·sin(2π·freq·n/rate) for n in [0, samples).
func Sine(freq, amplitude float64, sampleRate, samples int) []float64 {
	out := make([]float64, max(samples, 0))
	step := 2 * math.Pi * freq / float64(sampleRate)
	for n := range out {
		out[n] = amplitude * math.Sin(step*float64(n))
	}
	return out
}

// Stereo returns a planar two-channel buffer of the given duration.
func (p Pair) Stereo(amplitude float64, sampleRate int, seconds float64) [][]float64 {
	samples := int(float64(sampleRate) * seconds)
	return [][]float64{
		Sine(p.LeftHz, amplitude, sampleRate, samples),
		Sine(p.RightHz, amplitude, sampleRate, samples),
	}
}

// Write renders the pair to path as 16-bit PCM. An existing file is left
// untouched and reported with created == false.
func (p Pair) Write(path string, sampleRate int, seconds float64) (created bool, err error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return false, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	if err := wavio.Write(path, p.Stereo(DefaultAmplitude, sampleRate, seconds), sampleRate, wavio.DefaultBitDepth); err != nil {
		return false, err
	}
	return true, nil
}
