package fdm

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/tphakala/go-audio-fdm/internal/iir"
	"github.com/tphakala/go-audio-fdm/internal/resample"
)

// Modulation is the result of frequency-division multiplexing.
type Modulation struct {
	// Composite is the peak-normalized sum of all modulated slots.
	Composite []float64
	// Carriers are the carrier frequencies in Hz, slot 1 first.
	Carriers []float64
	// SampleRate of Composite and Upsampled.
	SampleRate int
	// Upsampled holds each filtered slot at SampleRate before mixing.
	Upsampled [][]float64
}

// Modulate upsamples every slot to cfg.ModulationRate, multiplies slot i
// by cos(2π·fc_i·n/fs) and sums the products. The sum is scaled to a peak
// of 1 unless it is silent.
func Modulate(slots [][]float64, sampleRate int, cfg *Config) (*Modulation, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if len(slots) != len(cfg.Carriers) {
		return nil, fmt.Errorf("%w: %d slots for %d carriers", ErrInvalidConfig, len(slots), len(cfg.Carriers))
	}
	if len(slots) == 0 || len(slots[0]) == 0 {
		return nil, ErrEmptyInput
	}
	for i := range slots {
		if len(slots[i]) != len(slots[0]) {
			return nil, fmt.Errorf("%w: slot %d has %d samples, slot 1 has %d",
				ErrInvalidConfig, i+1, len(slots[i]), len(slots[0]))
		}
	}

	fsHigh := cfg.ModulationRate
	upsampled := make([][]float64, len(slots))
	modulated := make([][]float64, len(slots))

	err := forEachSlot(len(slots), cfg.Parallel, func(slot int) error {
		up, err := resample.Rate(slots[slot], sampleRate, fsHigh, cfg.Method())
		if err != nil {
			return fmt.Errorf("failed to upsample: %w", err)
		}
		upsampled[slot] = up
		modulated[slot] = floats.MulTo(make([]float64, len(up)), up, carrier(cfg.Carriers[slot], 1, fsHigh, len(up)))
		return nil
	})
	if err != nil {
		return nil, err
	}

	composite := make([]float64, len(modulated[0]))
	for _, m := range modulated {
		floats.Add(composite, m)
	}
	normalizePeak(composite)

	return &Modulation{
		Composite:  composite,
		Carriers:   append([]float64(nil), cfg.Carriers...),
		SampleRate: fsHigh,
		Upsampled:  upsampled,
	}, nil
}

// Demodulate recovers every slot from the composite signal:
//
//  1. band-pass the composite to [fc-bw, fc+bw], clamped to the edge margin
//  2. multiply by 2·cos(2π·fc·n/fs)
//  3. low-pass at the slot's recovery cutoff
//  4. resample from fsHigh to originalRate
//  5. peak-normalize; a silent result stays silent
func Demodulate(composite []float64, carriers []float64, fsHigh, originalRate int, cfg *Config) ([][]float64, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if len(carriers) != len(cfg.DemodBandwidths) {
		return nil, fmt.Errorf("%w: %d carriers for %d bandwidths", ErrInvalidConfig, len(carriers), len(cfg.DemodBandwidths))
	}

	band := *cfg
	band.Carriers = carriers
	band.ModulationRate = fsHigh

	recovered := make([][]float64, len(carriers))
	err := forEachSlot(len(carriers), cfg.Parallel, func(slot int) error {
		low, high := band.demodBand(slot)
		bp, err := iir.BandpassDesign(cfg.FilterOrder, low, high, float64(fsHigh))
		if err != nil {
			return fmt.Errorf("failed to design demodulation band-pass: %w", err)
		}
		lp, err := iir.LowpassDesign(cfg.FilterOrder, cfg.RecoveryCutoffs[slot], float64(fsHigh))
		if err != nil {
			return fmt.Errorf("failed to design recovery low-pass: %w", err)
		}

		isolated := bp.Filter(composite)
		mixed := floats.MulTo(isolated, isolated, carrier(carriers[slot], 2, fsHigh, len(isolated)))
		lp.FilterInPlace(mixed)

		out, err := resample.Rate(mixed, fsHigh, originalRate, cfg.Method())
		if err != nil {
			return fmt.Errorf("failed to downsample: %w", err)
		}
		normalizePeak(out)
		recovered[slot] = out
		return nil
	})
	if err != nil {
		return nil, err
	}
	return recovered, nil
}
