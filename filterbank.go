package fdm

import (
	"fmt"

	"github.com/tphakala/go-audio-fdm/internal/iir"
)

// FilterBank holds the designed slot filters at one sample rate.
type FilterBank struct {
	Specs      []FilterSpec
	Sections   []iir.Sections
	SampleRate int
}

// NewFilterBank designs the filters of cfg at sampleRate.
func NewFilterBank(cfg *Config, sampleRate int) (*FilterBank, error) {
	bank := &FilterBank{
		Specs:      cfg.Filters,
		Sections:   make([]iir.Sections, len(cfg.Filters)),
		SampleRate: sampleRate,
	}
	for i, spec := range cfg.Filters {
		sos, err := spec.Design(cfg.FilterOrder, float64(sampleRate))
		if err != nil {
			return nil, fmt.Errorf("failed to design slot %d filter: %w", i+1, err)
		}
		bank.Sections[i] = sos
	}
	return bank, nil
}

// Descriptions returns the human-readable filter descriptions, slot 1 first.
func (b *FilterBank) Descriptions() []string {
	out := make([]string, len(b.Specs))
	for i, s := range b.Specs {
		out[i] = s.Description
	}
	return out
}

// ResponseDB returns the gain of the slot filter at freq in dB.
func (b *FilterBank) ResponseDB(slot int, freq float64) float64 {
	return b.Sections[slot].MagnitudeDB(freq, float64(b.SampleRate))
}

// Apply filters slot i with filter i. Inputs are not modified.
func (b *FilterBank) Apply(slots [][]float64, parallel bool) ([][]float64, error) {
	if len(slots) != len(b.Sections) {
		return nil, fmt.Errorf("%w: %d slots for %d filters", ErrInvalidOrder, len(slots), len(b.Sections))
	}
	out := make([][]float64, len(slots))
	err := forEachSlot(len(slots), parallel, func(slot int) error {
		out[slot] = b.Sections[slot].Filter(slots[slot])
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ApplyFilters runs the slot filters of cfg over the reordered channels and
// returns the filtered signals with their descriptions.
func ApplyFilters(slots []Channel, sampleRate int, cfg *Config) ([][]float64, []string, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	bank, err := NewFilterBank(cfg, sampleRate)
	if err != nil {
		return nil, nil, err
	}

	data := make([][]float64, len(slots))
	for i, ch := range slots {
		data[i] = ch.Data
	}
	filtered, err := bank.Apply(data, cfg.Parallel)
	if err != nil {
		return nil, nil, err
	}
	return filtered, bank.Descriptions(), nil
}
