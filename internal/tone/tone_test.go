package tone

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/go-audio-fdm/internal/testutil"
	"github.com/tphakala/go-audio-fdm/internal/wavio"
)

func TestSine(t *testing.T) {
	s := Sine(1000, 0.5, 8000, 8)
	require.Len(t, s, 8)
	assert.InDelta(t, 0.0, s[0], 1e-12)
	assert.InDelta(t, 0.5, s[2], 1e-12)
	assert.InDelta(t, -0.5, s[6], 1e-12)

	assert.Empty(t, Sine(1000, 1, 8000, 0))
	assert.Empty(t, Sine(1000, 1, 8000, -5))
}

func TestPair_Stereo(t *testing.T) {
	p := DemoPairs[0]
	buf := p.Stereo(DefaultAmplitude, DefaultSampleRate, 0.5)
	require.Len(t, buf, 2)
	require.Len(t, buf[0], 22050)
	require.Len(t, buf[1], 22050)

	assert.InDelta(t, 440, testutil.DominantFrequency(buf[0], DefaultSampleRate), 2)
	assert.InDelta(t, 880, testutil.DominantFrequency(buf[1], DefaultSampleRate), 2)
	assert.InDelta(t, DefaultAmplitude, testutil.PeakAbs(buf[0]), 1e-3)
}

func TestPair_Write(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DemoPairs[1].Name)

	created, err := DemoPairs[1].Write(path, DefaultSampleRate, 0.25)
	require.NoError(t, err)
	assert.True(t, created)

	audio, err := wavio.Read(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultSampleRate, audio.SampleRate)
	assert.Equal(t, 2, audio.NumChannels())
	assert.Equal(t, 11025, audio.NumFrames())
	assert.InDelta(t, 1200, testutil.DominantFrequency(audio.Channels[0], DefaultSampleRate), 4)
	assert.InDelta(t, 2400, testutil.DominantFrequency(audio.Channels[1], DefaultSampleRate), 4)

	t.Run("existing file is kept", func(t *testing.T) {
		before, err := os.ReadFile(path)
		require.NoError(t, err)

		created, err := DemoPairs[0].Write(path, DefaultSampleRate, 1)
		require.NoError(t, err)
		assert.False(t, created)

		after, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, before, after)
	})
}
