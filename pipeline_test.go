package fdm

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/go-audio-fdm/internal/testutil"
	"github.com/tphakala/go-audio-fdm/internal/wavio"
)

func TestNew(t *testing.T) {
	p, err := New(nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultTargetRate, p.Config().TargetRate)
	assert.Len(t, p.FilterBank().Sections, NumChannels)

	bad := DefaultConfig()
	bad.Carriers = nil
	_, err = New(bad)
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestPipeline_RunEndToEnd(t *testing.T) {
	dir := t.TempDir()
	// Slot order 2,1,4,3 means Ch2 feeds the lowpass slot, Ch1 the 2-5 kHz
	// band, Ch4 the 5-10 kHz band and Ch3 the highpass slot.
	file1 := writeStereo(t, dir, "file1.wav", testRate, testSamples, 3500, 1000, 0.5, 0.5)
	file2 := writeStereo(t, dir, "file2.wav", testRate, testSamples, 14000, 7000, 0.5, 0.5)
	order := []int{2, 1, 4, 3}

	p, err := New(DefaultConfig())
	require.NoError(t, err)
	res, err := p.Run(file1, file2, order)
	require.NoError(t, err)

	assert.Equal(t, order, res.Order)
	assert.Equal(t, testRate, res.SampleRate)
	require.Len(t, res.Channels, NumChannels)
	require.Len(t, res.Slots, NumChannels)
	for i, n := range order {
		assert.Equal(t, n, res.Slots[i].Number)
	}
	assert.Equal(t, DefaultConfig().Filters[3].Description, res.Descriptions[3])
	assert.Len(t, res.Modulation.Composite, testSamples*DefaultModulationRate/testRate)

	slotTones := []float64{1000, 3500, 7000, 14000}
	for i, s := range res.Summaries() {
		assert.Equal(t, i+1, s.Slot)
		assert.Equal(t, order[i], s.Channel.Number)
		assert.InDelta(t, DefaultConfig().Carriers[i], s.CarrierHz, 0)
		assert.InDelta(t, slotTones[i], s.FilteredPeakHz, 2, "slot %d filtered", i+1)
		assert.InDelta(t, slotTones[i], s.RecoveredPeakHz, 20, "slot %d recovered", i+1)
	}

	t.Run("write outputs", func(t *testing.T) {
		outDir := filepath.Join(dir, "out")
		paths, err := res.WriteOutputs(outDir, 16)
		require.NoError(t, err)
		assert.Len(t, paths, 1+2*NumChannels)

		composite, err := wavio.Read(filepath.Join(outDir, "composite_signal.wav"))
		require.NoError(t, err)
		assert.Equal(t, DefaultModulationRate, composite.SampleRate)
		assert.Equal(t, 1, composite.NumChannels())
		assert.Equal(t, len(res.Modulation.Composite), composite.NumFrames())

		// recovered_ch_<N> is named after the channel, not the slot.
		rec, err := wavio.Read(filepath.Join(outDir, "recovered_ch_2.wav"))
		require.NoError(t, err)
		assert.Equal(t, testRate, rec.SampleRate)
		assert.Equal(t, testSamples, rec.NumFrames())
		assert.InDelta(t, 1000, testutil.DominantFrequency(rec.Channels[0], testRate), 20)

		for slot := 1; slot <= NumChannels; slot++ {
			_, err := os.Stat(filepath.Join(outDir, res.FilteredFileName(slot-1)))
			assert.NoError(t, err, "filtered_slot_%d.wav", slot)
		}
		assert.Equal(t, "filtered_slot_1.wav", res.FilteredFileName(0))
		assert.Equal(t, "recovered_ch_3.wav", res.RecoveredFileName(3))
	})
}

func TestPipeline_Process(t *testing.T) {
	p, err := New(nil)
	require.NoError(t, err)

	res, err := p.Process(passbandChannels(), testRate, DefaultOrder())
	require.NoError(t, err)
	for i, rec := range res.Recovered {
		testutil.AssertPeakNormalized(t, rec, 1e-12)
		assert.Len(t, rec, testSamples, "slot %d", i+1)
	}

	t.Run("other channel rate redesigns filters", func(t *testing.T) {
		channels := passbandChannels()
		for i := range channels {
			channels[i].Data = testutil.Sine([]float64{1000, 3500, 7000, 14000}[i], 48000, 1, 24000)
		}
		res, err := p.Process(channels, 48000, DefaultOrder())
		require.NoError(t, err)
		assert.Equal(t, 48000, res.SampleRate)
		assert.Len(t, res.Recovered[0], 24000)
		assert.InDelta(t, 1000, testutil.DominantFrequency(res.Recovered[0], 48000), 20)
	})
}

func TestPipeline_Errors(t *testing.T) {
	p, err := New(nil)
	require.NoError(t, err)

	t.Run("invalid order", func(t *testing.T) {
		_, err := p.Run("a.wav", "b.wav", []int{1, 2, 2, 4})
		require.ErrorIs(t, err, ErrInvalidOrder)
	})

	t.Run("missing inputs", func(t *testing.T) {
		dir := t.TempDir()
		_, err := p.Run(filepath.Join(dir, "a.wav"), filepath.Join(dir, "b.wav"), DefaultOrder())
		require.ErrorContains(t, err, "failed to open input file")
	})

	t.Run("empty channels", func(t *testing.T) {
		channels := passbandChannels()
		for i := range channels {
			channels[i].Data = nil
		}
		_, err := p.Process(channels, testRate, DefaultOrder())
		require.ErrorIs(t, err, ErrEmptyInput)
	})
}
