package fdm

import (
	"errors"
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/tphakala/go-audio-fdm/internal/iir"
	"github.com/tphakala/go-audio-fdm/internal/resample"
	"github.com/tphakala/go-audio-fdm/internal/wavio"
)

// Common errors returned by the pipeline.
var (
	// ErrInvalidConfig indicates invalid configuration parameters.
	ErrInvalidConfig = errors.New("invalid FDM configuration")

	// ErrInvalidOrder indicates a slot assignment that is not a permutation
	// of the channel numbers 1..4.
	ErrInvalidOrder = errors.New("channel order must use each channel exactly once")

	// ErrNotStereo indicates an input file with fewer than two channels.
	ErrNotStereo = errors.New("input file is not stereo")

	// ErrEmptyInput indicates that no samples are left after alignment.
	ErrEmptyInput = errors.New("input audio is empty")
)

// FilterSpec describes the filter of one slot.
type FilterSpec struct {
	// Type is "lowpass", "highpass" or "bandpass".
	Type string `yaml:"type"`

	// Cutoff is the -3 dB frequency of a lowpass or highpass in Hz.
	Cutoff float64 `yaml:"cutoff,omitempty"`

	// Low and High are the -3 dB edges of a bandpass in Hz.
	Low  float64 `yaml:"low,omitempty"`
	High float64 `yaml:"high,omitempty"`

	// Description is shown next to the filtered spectrum.
	Description string `yaml:"description"`
}

// Design builds the filter at the given sample rate.
func (s FilterSpec) Design(order int, sampleRate float64) (iir.Sections, error) {
	kind, err := iir.ParseKind(s.Type)
	if err != nil {
		return nil, err
	}
	if kind == iir.Bandpass {
		return iir.BandpassDesign(order, s.Low, s.High, sampleRate)
	}
	return iir.Design(kind, order, s.Cutoff, 0, sampleRate)
}

// DefaultFilters returns the four slot filters.
func DefaultFilters() []FilterSpec {
	return []FilterSpec{
		{Type: "lowpass", Cutoff: 2000, Description: "Lowpass (fc=2kHz): Isolates low freq components"},
		{Type: "bandpass", Low: 2000, High: 5000, Description: "Bandpass (2-5kHz): Captures vocal/mid range"},
		{Type: "bandpass", Low: 5000, High: 10000, Description: "Bandpass (5-10kHz): High-mid presence"},
		{Type: "highpass", Cutoff: 10000, Description: "Highpass (fc=10kHz): High frequency detail"},
	}
}

// Config holds the pipeline configuration. Every per-slot list has one
// entry per slot, slot 1 first.
type Config struct {
	// TargetRate is the common rate both input files are resampled to.
	TargetRate int `yaml:"target_rate"`

	// ModulationRate is the rate of the composite signal. Its Nyquist
	// frequency must lie above every carrier.
	ModulationRate int `yaml:"modulation_rate"`

	// FilterOrder is the Butterworth order of every filter. Band-passes
	// have twice as many poles.
	FilterOrder int `yaml:"filter_order"`

	Filters         []FilterSpec `yaml:"filters"`
	Carriers        []float64    `yaml:"carriers"`
	DemodBandwidths []float64    `yaml:"demod_bandwidths"`
	RecoveryCutoffs []float64    `yaml:"recovery_cutoffs"`

	// EdgeMargin keeps demodulation band edges inside (0, Nyquist).
	EdgeMargin float64 `yaml:"edge_margin"`

	// ResampleMethod is "auto", "fourier" or "polyphase".
	ResampleMethod string `yaml:"resample_method"`

	// Parallel processes the four slots concurrently.
	Parallel bool `yaml:"parallel"`

	// BitDepth of written WAV files.
	BitDepth int `yaml:"bit_depth"`
}

// DefaultConfig returns the standard four-slot configuration.
func DefaultConfig() *Config {
	return &Config{
		TargetRate:      DefaultTargetRate,
		ModulationRate:  DefaultModulationRate,
		FilterOrder:     DefaultFilterOrder,
		Filters:         DefaultFilters(),
		Carriers:        slices.Clone(defaultCarriers),
		DemodBandwidths: slices.Clone(defaultDemodBandwidths),
		RecoveryCutoffs: slices.Clone(defaultRecoveryCutoffs),
		EdgeMargin:      DefaultEdgeMargin,
		ResampleMethod:  resample.MethodAuto.String(),
		Parallel:        true,
		BitDepth:        DefaultBitDepth,
	}
}

// LoadConfig reads a YAML file on top of DefaultConfig and validates the
// result. Keys missing from the file keep their default.
func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidConfig, filename, err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Method returns the parsed resampling method.
func (c *Config) Method() resample.Method {
	m, err := resample.ParseMethod(c.ResampleMethod)
	if err != nil {
		return resample.MethodAuto
	}
	return m
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.TargetRate <= 0 || c.ModulationRate <= 0 {
		return fmt.Errorf("%w: sample rates must be positive", ErrInvalidConfig)
	}

	if c.FilterOrder < 1 {
		return fmt.Errorf("%w: filter order must be at least 1", ErrInvalidConfig)
	}

	for name, n := range map[string]int{
		"filters":          len(c.Filters),
		"carriers":         len(c.Carriers),
		"demod_bandwidths": len(c.DemodBandwidths),
		"recovery_cutoffs": len(c.RecoveryCutoffs),
	} {
		if n != NumChannels {
			return fmt.Errorf("%w: %s needs %d entries, got %d", ErrInvalidConfig, name, NumChannels, n)
		}
	}

	for i, spec := range c.Filters {
		if _, err := spec.Design(c.FilterOrder, float64(c.TargetRate)); err != nil {
			return fmt.Errorf("%w: slot %d filter: %w", ErrInvalidConfig, i+1, err)
		}
	}

	nyquist := float64(c.ModulationRate) / 2
	for i, fc := range c.Carriers {
		if fc <= 0 || fc >= nyquist {
			return fmt.Errorf("%w: carrier %d (%v Hz) must be in (0, %v)", ErrInvalidConfig, i+1, fc, nyquist)
		}
		if c.DemodBandwidths[i] <= 0 {
			return fmt.Errorf("%w: demodulation bandwidth %d must be positive", ErrInvalidConfig, i+1)
		}
		if cut := c.RecoveryCutoffs[i]; cut <= 0 || cut >= nyquist {
			return fmt.Errorf("%w: recovery cutoff %d (%v Hz) must be in (0, %v)", ErrInvalidConfig, i+1, cut, nyquist)
		}
	}

	if c.EdgeMargin < 0 || 2*c.EdgeMargin >= nyquist {
		return fmt.Errorf("%w: edge margin %v Hz", ErrInvalidConfig, c.EdgeMargin)
	}

	for i := range c.Carriers {
		low, high := c.demodBand(i)
		if _, err := iir.BandpassDesign(c.FilterOrder, low, high, float64(c.ModulationRate)); err != nil {
			return fmt.Errorf("%w: demodulation band %d: %w", ErrInvalidConfig, i+1, err)
		}
	}

	if _, err := resample.ParseMethod(c.ResampleMethod); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	if !wavio.SupportedBitDepth(c.BitDepth) {
		return fmt.Errorf("%w: bit depth %d (must be 16, 24 or 32)", ErrInvalidConfig, c.BitDepth)
	}

	return nil
}

// demodBand returns the clamped band-pass edges around carrier i.
func (c *Config) demodBand(i int) (low, high float64) {
	nyquist := float64(c.ModulationRate) / 2
	fc, bw := c.Carriers[i], c.DemodBandwidths[i]
	low = max(fc-bw, c.EdgeMargin)
	high = min(fc+bw, nyquist-c.EdgeMargin)
	return low, high
}
