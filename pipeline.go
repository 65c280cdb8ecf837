package fdm

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/tphakala/go-audio-fdm/internal/wavio"
)

// Pipeline runs load, reorder, filter, modulate and demodulate with one
// configuration. A Pipeline holds no per-run state and may be shared.
type Pipeline struct {
	config *Config
	bank   *FilterBank
}

// New validates cfg and designs the slot filters at cfg.TargetRate.
// A nil cfg uses DefaultConfig.
func New(cfg *Config) (*Pipeline, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	bank, err := NewFilterBank(cfg, cfg.TargetRate)
	if err != nil {
		return nil, err
	}
	return &Pipeline{config: cfg, bank: bank}, nil
}

// Config returns the pipeline configuration.
func (p *Pipeline) Config() *Config {
	return p.config
}

// FilterBank returns the slot filters at the target rate.
func (p *Pipeline) FilterBank() *FilterBank {
	return p.bank
}

// Result holds every intermediate signal of one run.
type Result struct {
	// Order[i] is the channel number assigned to slot i+1.
	Order []int
	// Channels are the loaded channels, Ch1 first.
	Channels []Channel
	// Slots are the channels in slot order before filtering.
	Slots []Channel
	// Filtered holds the filter output per slot.
	Filtered [][]float64
	// Descriptions of the slot filters.
	Descriptions []string
	// Modulation holds the composite signal and the upsampled slots.
	Modulation *Modulation
	// Recovered holds the demodulated signal per slot at SampleRate.
	Recovered [][]float64
	// SampleRate of channels, filtered and recovered signals.
	SampleRate int
}

// Run loads both files and processes them with the given slot order.
func (p *Pipeline) Run(file1, file2 string, order []int) (*Result, error) {
	if err := ValidateOrder(order); err != nil {
		return nil, err
	}
	channels, rate, err := LoadChannels(file1, file2, p.config)
	if err != nil {
		return nil, err
	}
	return p.Process(channels, rate, order)
}

// Process runs the pipeline on already loaded channels.
func (p *Pipeline) Process(channels []Channel, sampleRate int, order []int) (*Result, error) {
	slots, err := Reorder(channels, order)
	if err != nil {
		return nil, err
	}
	for _, ch := range slots {
		if len(ch.Data) == 0 {
			return nil, fmt.Errorf("%w: %s", ErrEmptyInput, ch.Label())
		}
	}

	bank := p.bank
	if sampleRate != bank.SampleRate {
		if bank, err = NewFilterBank(p.config, sampleRate); err != nil {
			return nil, err
		}
	}

	data := make([][]float64, len(slots))
	for i, ch := range slots {
		data[i] = ch.Data
	}
	filtered, err := bank.Apply(data, p.config.Parallel)
	if err != nil {
		return nil, fmt.Errorf("failed to filter: %w", err)
	}

	mod, err := Modulate(filtered, sampleRate, p.config)
	if err != nil {
		return nil, fmt.Errorf("failed to modulate: %w", err)
	}

	recovered, err := Demodulate(mod.Composite, mod.Carriers, mod.SampleRate, sampleRate, p.config)
	if err != nil {
		return nil, fmt.Errorf("failed to demodulate: %w", err)
	}

	return &Result{
		Order:        append([]int(nil), order...),
		Channels:     channels,
		Slots:        slots,
		Filtered:     filtered,
		Descriptions: bank.Descriptions(),
		Modulation:   mod,
		Recovered:    recovered,
		SampleRate:   sampleRate,
	}, nil
}

// SlotSummary describes one slot of a result.
type SlotSummary struct {
	Slot            int
	Channel         Channel
	Description     string
	CarrierHz       float64
	FilteredPeakHz  float64
	RecoveredPeakHz float64
}

// Summaries returns the per-slot overview, slot 1 first.
func (r *Result) Summaries() []SlotSummary {
	out := make([]SlotSummary, len(r.Slots))
	for i, ch := range r.Slots {
		filteredPeak, _ := ComputeSpectrum(r.Filtered[i], r.SampleRate).Peak()
		recoveredPeak, _ := ComputeSpectrum(r.Recovered[i], r.SampleRate).Peak()
		out[i] = SlotSummary{
			Slot:            i + 1,
			Channel:         ch,
			Description:     r.Descriptions[i],
			CarrierHz:       r.Modulation.Carriers[i],
			FilteredPeakHz:  filteredPeak,
			RecoveredPeakHz: recoveredPeak,
		}
	}
	return out
}

// RecoveredFileName returns the output name of the recovered signal of slot i.
func (r *Result) RecoveredFileName(slot int) string {
	return fmt.Sprintf(recoveredFileFormat, r.Slots[slot].Number)
}

// FilteredFileName returns the output name of the filtered signal of slot i.
func (r *Result) FilteredFileName(slot int) string {
	return fmt.Sprintf(filteredFileFormat, slot+1)
}

// CompositeFileName returns the output name of the composite signal.
func (r *Result) CompositeFileName() string {
	return compositeFileName
}

// WriteOutputs writes the composite at the modulation rate plus the
// filtered and recovered signals at the channel rate as mono WAV files in
// dir, creating it if needed. Recovered files are named after the original
// channel number of their slot. It returns the written paths.
func (r *Result) WriteOutputs(dir string, bitDepth int) ([]string, error) {
	if err := os.MkdirAll(dir, outputDirPermissions); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	var written []string
	write := func(name string, data []float64, rate int) error {
		path := filepath.Join(dir, name)
		if err := wavio.Write(path, [][]float64{data}, rate, bitDepth); err != nil {
			return fmt.Errorf("failed to write %s: %w", name, err)
		}
		written = append(written, path)
		return nil
	}

	if err := write(r.CompositeFileName(), r.Modulation.Composite, r.Modulation.SampleRate); err != nil {
		return written, err
	}
	for i := range r.Slots {
		if err := write(r.FilteredFileName(i), r.Filtered[i], r.SampleRate); err != nil {
			return written, err
		}
		if err := write(r.RecoveredFileName(i), r.Recovered[i], r.SampleRate); err != nil {
			return written, err
		}
	}
	return written, nil
}
