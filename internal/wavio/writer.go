package wavio

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/tphakala/simd/f64"
)

// Writer streams PCM data to a WAV file. Sizes in the header are patched
// on Close, so the file is only valid after Close returns.
type Writer struct {
	w          *bufio.Writer
	f          *os.File
	sampleRate int
	bitDepth   int
	channels   int
	maxVal     float64
	dataSize   uint32
	interleave []float64 // scratch for planar -> interleaved
	byteBuf    []byte    // scratch for encoding
}

// Create creates path and writes a WAV header with placeholder sizes.
func Create(path string, sampleRate, bitDepth, channels int) (*Writer, error) {
	if bitDepth == 0 {
		bitDepth = DefaultBitDepth
	}
	if err := checkFormat(sampleRate, bitDepth, channels); err != nil {
		return nil, err
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}

	w := &Writer{
		w:          bufio.NewWriterSize(f, wavWriterBufferSize),
		f:          f,
		sampleRate: sampleRate,
		bitDepth:   bitDepth,
		channels:   channels,
		maxVal:     maxValue(bitDepth),
	}
	if err := writeHeader(w.w, sampleRate, bitDepth, channels, 0); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to write WAV header: %w", err)
	}
	return w, nil
}

func checkFormat(sampleRate, bitDepth, channels int) error {
	if !SupportedBitDepth(bitDepth) {
		return fmt.Errorf("%w: cannot write %d-bit samples", ErrUnsupportedFormat, bitDepth)
	}
	if sampleRate <= 0 || channels < 1 {
		return fmt.Errorf("%w: %d Hz, %d channels", ErrUnsupportedFormat, sampleRate, channels)
	}
	return nil
}

func writeHeader(w io.Writer, sampleRate, bitDepth, channels int, dataSize uint32) error {
	byteRate := sampleRate * channels * (bitDepth / bitsPerByte)
	blockAlign := channels * (bitDepth / bitsPerByte)

	header := make([]byte, wavHeaderSize)

	// RIFF header
	copy(header[0:4], "RIFF")
	binary.LittleEndian.PutUint32(header[4:8], wavRiffHeaderSize+dataSize)
	copy(header[8:12], "WAVE")

	// fmt subchunk
	copy(header[12:16], "fmt ")
	binary.LittleEndian.PutUint32(header[16:20], wavPCMSubchunkSize)
	binary.LittleEndian.PutUint16(header[20:22], wavFormatPCM)
	binary.LittleEndian.PutUint16(header[22:24], uint16(channels))
	binary.LittleEndian.PutUint32(header[24:28], uint32(sampleRate))
	binary.LittleEndian.PutUint32(header[28:32], uint32(byteRate))
	binary.LittleEndian.PutUint16(header[32:34], uint16(blockAlign))
	binary.LittleEndian.PutUint16(header[34:36], uint16(bitDepth))

	// data subchunk
	copy(header[36:40], "data")
	binary.LittleEndian.PutUint32(header[40:44], dataSize)

	_, err := w.Write(header)
	return err
}

// WriteFrames appends planar samples. Every channel must have the same
// length. Samples are clamped to [-1, 1].
func (w *Writer) WriteFrames(channels [][]float64) error {
	if len(channels) != w.channels {
		return fmt.Errorf("expected %d channels, got %d", w.channels, len(channels))
	}
	frames := len(channels[0])
	for ch := range channels {
		if len(channels[ch]) != frames {
			return fmt.Errorf("channel %d has %d samples, want %d", ch, len(channels[ch]), frames)
		}
	}

	samples := w.interleaveFrames(channels, frames)
	buf := w.encode(samples)
	written, err := w.w.Write(buf)
	w.dataSize += uint32(written)
	if err != nil {
		return fmt.Errorf("failed to write audio data: %w", err)
	}
	return nil
}

func (w *Writer) interleaveFrames(channels [][]float64, frames int) []float64 {
	// Fast path for mono
	if w.channels == monoChannels {
		return channels[0]
	}

	total := frames * w.channels
	if cap(w.interleave) < total {
		w.interleave = make([]float64, total)
	}
	dst := w.interleave[:total]

	// Fast path for stereo
	if w.channels == stereoChannels {
		f64.Interleave2(dst, channels[0], channels[1])
		return dst
	}

	for i := range frames {
		base := i * w.channels
		for ch := range w.channels {
			dst[base+ch] = channels[ch][i]
		}
	}
	return dst
}

func (w *Writer) encode(samples []float64) []byte {
	bytesPerSample := w.bitDepth / bitsPerByte
	needed := len(samples) * bytesPerSample
	if cap(w.byteBuf) < needed {
		w.byteBuf = make([]byte, needed)
	}
	buf := w.byteBuf[:needed]

	for i, v := range samples {
		s := int(clamp(v) * w.maxVal)
		switch w.bitDepth {
		case bitsPerSample24:
			buf[i*bytesPerSample24] = byte(s)
			buf[i*bytesPerSample24+1] = byte(s >> bitShift8)
			buf[i*bytesPerSample24+2] = byte(s >> bitShift16)
		case bitsPerSample32:
			binary.LittleEndian.PutUint32(buf[i*bytesPerSample32:], uint32(int32(s)))
		default:
			binary.LittleEndian.PutUint16(buf[i*bytesPerSample16:], uint16(int16(s)))
		}
	}
	return buf
}

func clamp(v float64) float64 {
	if v > 1.0 {
		return 1.0
	} else if v < -1.0 {
		return -1.0
	}
	return v
}

// Close flushes the buffer and updates the WAV header with final sizes.
func (w *Writer) Close() error {
	if err := w.w.Flush(); err != nil {
		_ = w.f.Close()
		return err
	}

	sizeBytes := make([]byte, uint32Size)
	binary.LittleEndian.PutUint32(sizeBytes, wavRiffHeaderSize+w.dataSize)
	if _, err := w.f.WriteAt(sizeBytes, wavFileSizeOffset); err != nil {
		_ = w.f.Close()
		return err
	}
	binary.LittleEndian.PutUint32(sizeBytes, w.dataSize)
	if _, err := w.f.WriteAt(sizeBytes, wavDataSizeOffset); err != nil {
		_ = w.f.Close()
		return err
	}

	return w.f.Close()
}

// Write writes planar audio to path in one go.
func Write(path string, channels [][]float64, sampleRate, bitDepth int) (err error) {
	if len(channels) == 0 {
		return fmt.Errorf("%w: no channels", ErrUnsupportedFormat)
	}
	w, err := Create(path, sampleRate, bitDepth, len(channels))
	if err != nil {
		return err
	}
	// Close output, capturing close errors on success path (important for WAV header updates)
	defer func() {
		if closeErr := w.Close(); err == nil {
			err = closeErr
		}
	}()
	return w.WriteFrames(channels)
}

// Encode returns a complete in-memory WAV file for planar audio.
func Encode(channels [][]float64, sampleRate, bitDepth int) ([]byte, error) {
	if bitDepth == 0 {
		bitDepth = DefaultBitDepth
	}
	if len(channels) == 0 {
		return nil, fmt.Errorf("%w: no channels", ErrUnsupportedFormat)
	}
	if err := checkFormat(sampleRate, bitDepth, len(channels)); err != nil {
		return nil, err
	}

	enc := &Writer{
		sampleRate: sampleRate,
		bitDepth:   bitDepth,
		channels:   len(channels),
		maxVal:     maxValue(bitDepth),
	}
	frames := len(channels[0])
	for ch := range channels {
		if len(channels[ch]) != frames {
			return nil, fmt.Errorf("channel %d has %d samples, want %d", ch, len(channels[ch]), frames)
		}
	}
	data := enc.encode(enc.interleaveFrames(channels, frames))

	var out bytes.Buffer
	out.Grow(wavHeaderSize + len(data))
	if err := writeHeader(&out, sampleRate, bitDepth, len(channels), uint32(len(data))); err != nil {
		return nil, err
	}
	out.Write(data)
	return out.Bytes(), nil
}
