// Package wavio reads and writes PCM WAV files as planar float64 audio.
package wavio

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-audio/wav"
)

// ErrUnsupportedFormat is returned for WAV encodings other than integer PCM.
var ErrUnsupportedFormat = errors.New("unsupported WAV format")

// Audio is decoded audio in planar layout normalized to [-1, 1].
// All channels have the same length.
type Audio struct {
	Channels   [][]float64
	SampleRate int
	BitDepth   int
}

// NumChannels returns the channel count.
func (a *Audio) NumChannels() int {
	return len(a.Channels)
}

// NumFrames returns the number of samples per channel.
func (a *Audio) NumFrames() int {
	if len(a.Channels) == 0 {
		return 0
	}
	return len(a.Channels[0])
}

// Duration returns the length in seconds.
func (a *Audio) Duration() float64 {
	if a.SampleRate <= 0 {
		return 0
	}
	return float64(a.NumFrames()) / float64(a.SampleRate)
}

// Read decodes an entire PCM WAV file.
func Read(path string) (*Audio, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}
	defer func() { _ = f.Close() }()

	decoder := wav.NewDecoder(f)
	if !decoder.IsValidFile() {
		return nil, fmt.Errorf("invalid WAV file: %s", path)
	}
	if decoder.WavAudioFormat != wavFormatPCM && decoder.WavAudioFormat != wavFormatExtensible {
		return nil, fmt.Errorf("%w: format tag %d in %s", ErrUnsupportedFormat, decoder.WavAudioFormat, path)
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to read audio data: %w", err)
	}

	format := decoder.Format()
	channels := format.NumChannels
	if channels < 1 {
		return nil, fmt.Errorf("invalid WAV file: %s has %d channels", path, channels)
	}
	bitDepth := int(decoder.BitDepth)
	switch bitDepth {
	case bitsPerSample8, bitsPerSample16, bitsPerSample24, bitsPerSample32:
	default:
		return nil, fmt.Errorf("%w: %d-bit samples in %s", ErrUnsupportedFormat, bitDepth, path)
	}

	return &Audio{
		Channels:   deinterleave(buf.Data, channels, bitDepth),
		SampleRate: format.SampleRate,
		BitDepth:   bitDepth,
	}, nil
}

// deinterleave converts interleaved int samples to per-channel floats in [-1, 1].
// A trailing partial frame is dropped.
func deinterleave(data []int, numChannels, bitDepth int) [][]float64 {
	frames := len(data) / numChannels
	result := make([][]float64, numChannels)
	for ch := range result {
		result[ch] = make([]float64, frames)
	}

	invMaxVal := 1 / maxValue(bitDepth)
	offset := 0
	if bitDepth == bitsPerSample8 {
		offset = uint8Offset
	}

	// Fast path for stereo
	if numChannels == stereoChannels {
		left, right := result[0], result[1]
		for i := range frames {
			idx := i * stereoChannels
			left[i] = float64(data[idx]-offset) * invMaxVal
			right[i] = float64(data[idx+1]-offset) * invMaxVal
		}
		return result
	}

	for i := range frames {
		base := i * numChannels
		for ch := range numChannels {
			result[ch][i] = float64(data[base+ch]-offset) * invMaxVal
		}
	}
	return result
}
