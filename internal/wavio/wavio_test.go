package wavio

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/go-audio-fdm/internal/testutil"
)

const testRate = 44100

func TestWriteRead_RoundTrip(t *testing.T) {
	tests := []struct {
		name     string
		bitDepth int
		channels int
		tol      float64
	}{
		{"16-bit stereo", 16, 2, 1.0 / maxInt16},
		{"24-bit stereo", 24, 2, 1.0 / maxInt24},
		{"32-bit stereo", 32, 2, 1.0 / maxInt32 * 2},
		{"16-bit mono", 16, 1, 1.0 / maxInt16},
		{"24-bit 3ch", 24, 3, 1.0 / maxInt24},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := make([][]float64, tt.channels)
			for ch := range in {
				in[ch] = testutil.Sine(440*float64(ch+1), testRate, 0.9, 1000)
			}

			path := filepath.Join(t.TempDir(), "out.wav")
			require.NoError(t, Write(path, in, testRate, tt.bitDepth))

			got, err := Read(path)
			require.NoError(t, err)
			assert.Equal(t, testRate, got.SampleRate)
			assert.Equal(t, tt.bitDepth, got.BitDepth)
			assert.Equal(t, tt.channels, got.NumChannels())
			assert.Equal(t, 1000, got.NumFrames())
			assert.InDelta(t, 1000.0/testRate, got.Duration(), 1e-12)

			for ch := range in {
				assert.InDeltaSlice(t, in[ch], got.Channels[ch], tt.tol, "channel %d", ch)
			}
		})
	}
}

func TestWrite_DefaultBitDepth(t *testing.T) {
	path := filepath.Join(t.TempDir(), "default.wav")
	require.NoError(t, Write(path, [][]float64{{0.5, -0.5}}, testRate, 0))

	got, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultBitDepth, got.BitDepth)
}

func TestWrite_Clamps(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clip.wav")
	require.NoError(t, Write(path, [][]float64{{2, -3, 0.25}}, testRate, 16))

	got, err := Read(path)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{1, -1, 0.25}, got.Channels[0], 1.0/maxInt16)
}

func TestWrite_HeaderSizes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sizes.wav")
	frames := 123
	in := [][]float64{make([]float64, frames), make([]float64, frames)}
	require.NoError(t, Write(path, in, testRate, 24))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	dataSize := uint32(frames * 2 * bytesPerSample24)
	require.Len(t, raw, wavHeaderSize+int(dataSize))
	assert.Equal(t, "RIFF", string(raw[0:4]))
	assert.Equal(t, "WAVE", string(raw[8:12]))
	assert.Equal(t, wavRiffHeaderSize+dataSize, binary.LittleEndian.Uint32(raw[wavFileSizeOffset:]))
	assert.Equal(t, dataSize, binary.LittleEndian.Uint32(raw[wavDataSizeOffset:]))
}

func TestWriter_MultipleBlocks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blocks.wav")
	w, err := Create(path, testRate, 16, 2)
	require.NoError(t, err)

	full := testutil.Sine(1000, testRate, 0.5, 600)
	for start := 0; start < len(full); start += 200 {
		block := full[start : start+200]
		require.NoError(t, w.WriteFrames([][]float64{block, block}))
	}
	require.NoError(t, w.Close())

	got, err := Read(path)
	require.NoError(t, err)
	assert.InDeltaSlice(t, full, got.Channels[0], 1.0/maxInt16)
	assert.InDeltaSlice(t, full, got.Channels[1], 1.0/maxInt16)
}

func TestWriter_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := Create(filepath.Join(dir, "x.wav"), testRate, 12, 2)
	require.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = Create(filepath.Join(dir, "x.wav"), 0, 16, 2)
	require.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = Create(filepath.Join(dir, "missing", "x.wav"), testRate, 16, 2)
	require.ErrorContains(t, err, "failed to create output file")

	w, err := Create(filepath.Join(dir, "y.wav"), testRate, 16, 2)
	require.NoError(t, err)
	require.Error(t, w.WriteFrames([][]float64{{1}}))
	require.Error(t, w.WriteFrames([][]float64{{1, 2}, {1}}))
	require.NoError(t, w.Close())

	require.ErrorIs(t, Write(filepath.Join(dir, "z.wav"), nil, testRate, 16), ErrUnsupportedFormat)
}

func TestEncode_MatchesFile(t *testing.T) {
	in := [][]float64{
		testutil.Sine(440, testRate, 0.5, 300),
		testutil.Sine(880, testRate, 0.5, 300),
	}
	path := filepath.Join(t.TempDir(), "enc.wav")
	require.NoError(t, Write(path, in, testRate, 16))

	fromFile, err := os.ReadFile(path)
	require.NoError(t, err)
	encoded, err := Encode(in, testRate, 16)
	require.NoError(t, err)
	assert.Equal(t, fromFile, encoded)

	_, err = Encode(nil, testRate, 16)
	require.ErrorIs(t, err, ErrUnsupportedFormat)
	_, err = Encode([][]float64{{1, 2}, {1}}, testRate, 16)
	require.Error(t, err)
}

func TestRead_GoAudioEncoded(t *testing.T) {
	tests := []struct {
		name     string
		bitDepth int
		data     []int
		want     []float64
	}{
		{"8-bit unsigned", 8, []int{128, 128, 255, 0, 64, 192}, []float64{0, 127.0 / 128, -0.5}},
		{"16-bit", 16, []int{0, 0, 32767, -32767, 16384, -16384}, []float64{0, 1, 16384.0 / 32767}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "ga.wav")
			f, err := os.Create(path)
			require.NoError(t, err)

			enc := wav.NewEncoder(f, testRate, tt.bitDepth, 2, 1)
			require.NoError(t, enc.Write(&audio.IntBuffer{
				Format:         &audio.Format{NumChannels: 2, SampleRate: testRate},
				Data:           tt.data,
				SourceBitDepth: tt.bitDepth,
			}))
			require.NoError(t, enc.Close())
			require.NoError(t, f.Close())

			got, err := Read(path)
			require.NoError(t, err)
			assert.Equal(t, tt.bitDepth, got.BitDepth)
			require.Equal(t, 3, got.NumFrames())
			assert.InDeltaSlice(t, tt.want, got.Channels[0], 1e-9)
		})
	}
}

func TestRead_Errors(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing file", func(t *testing.T) {
		_, err := Read(filepath.Join(dir, "nope.wav"))
		require.ErrorContains(t, err, "failed to open input file")
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("not a wav", func(t *testing.T) {
		path := filepath.Join(dir, "text.wav")
		require.NoError(t, os.WriteFile(path, []byte("definitely not RIFF data"), 0o600))
		_, err := Read(path)
		require.ErrorContains(t, err, "invalid WAV file")
	})

	t.Run("float samples", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeHeader(&buf, testRate, 32, 1, 8))
		raw := buf.Bytes()
		binary.LittleEndian.PutUint16(raw[20:22], 3) // WAVE_FORMAT_IEEE_FLOAT
		raw = append(raw, make([]byte, 8)...)

		path := filepath.Join(dir, "float.wav")
		require.NoError(t, os.WriteFile(path, raw, 0o600))
		_, err := Read(path)
		require.Error(t, err)
	})
}

func TestSupportedBitDepth(t *testing.T) {
	assert.True(t, SupportedBitDepth(16))
	assert.True(t, SupportedBitDepth(24))
	assert.True(t, SupportedBitDepth(32))
	assert.False(t, SupportedBitDepth(8))
	assert.False(t, SupportedBitDepth(20))
}
