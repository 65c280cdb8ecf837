package fdm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/go-audio-fdm/internal/testutil"
)

func filteredTones(t *testing.T) [][]float64 {
	t.Helper()
	filtered, _, err := ApplyFilters(passbandChannels(), testRate, DefaultConfig())
	require.NoError(t, err)
	return filtered
}

func TestModulate(t *testing.T) {
	cfg := DefaultConfig()
	mod, err := Modulate(filteredTones(t), testRate, cfg)
	require.NoError(t, err)

	wantLen := testSamples * DefaultModulationRate / testRate
	assert.Equal(t, DefaultModulationRate, mod.SampleRate)
	assert.Equal(t, cfg.Carriers, mod.Carriers)
	require.Len(t, mod.Composite, wantLen)
	require.Len(t, mod.Upsampled, NumChannels)
	for i, up := range mod.Upsampled {
		assert.Len(t, up, wantLen, "upsampled slot %d", i+1)
	}

	testutil.AssertNoNaNOrInf(t, mod.Composite)
	testutil.AssertPeakNormalized(t, mod.Composite, 1e-12)

	// DSB-SC puts every tone at fc ± f and nothing at the carrier itself.
	spec := ComputeSpectrum(mod.Composite, mod.SampleRate)
	binAt := func(f float64) float64 {
		return spec.Magnitudes[int(f*float64(len(mod.Composite))/float64(mod.SampleRate)+0.5)]
	}
	tones := []float64{1000, 3500, 7000, 14000}
	for i, fc := range cfg.Carriers {
		lower, upper := binAt(fc-tones[i]), binAt(fc+tones[i])
		assert.Greater(t, lower, 0.02, "lower sideband of carrier %v", fc)
		assert.Greater(t, upper, 0.02, "upper sideband of carrier %v", fc)
		assert.Less(t, binAt(fc), lower/50, "carrier %v must be suppressed", fc)
	}
}

func TestModulate_Silent(t *testing.T) {
	silent := make([][]float64, NumChannels)
	for i := range silent {
		silent[i] = make([]float64, 441)
	}
	mod, err := Modulate(silent, testRate, nil)
	require.NoError(t, err)
	assert.Zero(t, testutil.PeakAbs(mod.Composite))
	testutil.AssertNoNaNOrInf(t, mod.Composite)
}

func TestModulate_Errors(t *testing.T) {
	_, err := Modulate([][]float64{{1}}, testRate, nil)
	require.ErrorIs(t, err, ErrInvalidConfig)

	_, err = Modulate(make([][]float64, NumChannels), testRate, nil)
	require.ErrorIs(t, err, ErrEmptyInput)

	uneven := [][]float64{{1, 2}, {1, 2}, {1}, {1, 2}}
	_, err = Modulate(uneven, testRate, nil)
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestDemodulate_RecoversTones(t *testing.T) {
	cfg := DefaultConfig()
	mod, err := Modulate(filteredTones(t), testRate, cfg)
	require.NoError(t, err)

	recovered, err := Demodulate(mod.Composite, mod.Carriers, mod.SampleRate, testRate, cfg)
	require.NoError(t, err)
	require.Len(t, recovered, NumChannels)

	tones := []float64{1000, 3500, 7000, 14000}
	for i, rec := range recovered {
		require.Len(t, rec, testSamples, "slot %d", i+1)
		testutil.AssertNoNaNOrInf(t, rec)
		testutil.AssertPeakNormalized(t, rec, 1e-12)
		assert.InDelta(t, tones[i], testutil.DominantFrequency(rec, testRate), 20, "slot %d", i+1)
	}
}

func TestDemodulate_SilentStaysSilent(t *testing.T) {
	composite := make([]float64, 9600)
	recovered, err := Demodulate(composite, DefaultConfig().Carriers, DefaultModulationRate, testRate, nil)
	require.NoError(t, err)
	for i, rec := range recovered {
		assert.Len(t, rec, 2205)
		assert.Zero(t, testutil.PeakAbs(rec), "slot %d", i+1)
		testutil.AssertNoNaNOrInf(t, rec)
	}
}

func TestDemodulate_CarrierCountMismatch(t *testing.T) {
	_, err := Demodulate(make([]float64, 10), []float64{10000}, DefaultModulationRate, testRate, nil)
	require.ErrorIs(t, err, ErrInvalidConfig)
}
