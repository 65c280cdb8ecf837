package fdm

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tphakala/go-audio-fdm/internal/testutil"
	"github.com/tphakala/go-audio-fdm/internal/wavio"
)

const (
	testRate    = 44100
	testSamples = 22050 // 0.5 s; every test tone completes whole cycles
)

// writeStereo writes a stereo tone file and returns its path.
func writeStereo(t *testing.T, dir, name string, rate, samples int, leftHz, rightHz, leftAmp, rightAmp float64) string {
	t.Helper()
	path := filepath.Join(dir, name)
	data := [][]float64{
		testutil.Sine(leftHz, float64(rate), leftAmp, samples),
		testutil.Sine(rightHz, float64(rate), rightAmp, samples),
	}
	require.NoError(t, wavio.Write(path, data, rate, 24))
	return path
}

// passbandChannels returns four channels whose tones sit inside the slot
// filters when assigned in identity order.
func passbandChannels() []Channel {
	tones := []float64{1000, 3500, 7000, 14000}
	names := []string{"File1-L", "File1-R", "File2-L", "File2-R"}
	channels := make([]Channel, NumChannels)
	for i, f := range tones {
		channels[i] = Channel{
			Number:     i + 1,
			Name:       names[i],
			Data:       testutil.Sine(f, testRate, 1, testSamples),
			SourceRate: testRate,
		}
	}
	return channels
}
