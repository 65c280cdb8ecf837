package fdm

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tphakala/go-audio-fdm/internal/resample"
	"github.com/tphakala/go-audio-fdm/internal/wavio"
)

// Channel is one mono signal taken from an input file.
type Channel struct {
	// Number is the channel number, 1..4.
	Number int
	// Name identifies the source, e.g. "File1-L".
	Name string
	// Data holds the samples at the common rate.
	Data []float64
	// SourceRate is the sample rate of the file the channel came from.
	SourceRate int
}

// Label returns "Ch<N> (<Name>)".
func (c Channel) Label() string {
	return fmt.Sprintf("Ch%d (%s)", c.Number, c.Name)
}

// LoadChannels reads two stereo files and splits them into four channels
// at cfg.TargetRate: Ch1 File1-L, Ch2 File1-R, Ch3 File2-L, Ch4 File2-R.
//
// A file at another rate is resampled to int(len·target/rate) samples.
// Both files are trimmed to the shorter length and each file is scaled so
// its largest sample across both channels is 1. Files with more than two
// channels contribute their first two.
func LoadChannels(file1, file2 string, cfg *Config) ([]Channel, int, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	first, err := loadStereo(file1, cfg)
	if err != nil {
		return nil, 0, err
	}
	second, err := loadStereo(file2, cfg)
	if err != nil {
		return nil, 0, err
	}

	n := min(len(first.data[0]), len(second.data[0]))
	if n == 0 {
		return nil, 0, fmt.Errorf("%w: %s and %s share no samples", ErrEmptyInput, file1, file2)
	}

	channels := make([]Channel, 0, NumChannels)
	for f, file := range []*stereoFile{first, second} {
		pair := [][]float64{file.data[0][:n], file.data[1][:n]}
		normalizePeak(pair...)
		for side := range stereoChannels {
			number := f*stereoChannels + side + 1
			channels = append(channels, Channel{
				Number:     number,
				Name:       ChannelName(number),
				Data:       pair[side],
				SourceRate: file.rate,
			})
		}
	}
	return channels, cfg.TargetRate, nil
}

// ChannelName returns the source of channel number n, e.g. "File2-L" for 3.
func ChannelName(n int) string {
	side := "L"
	if (n-1)%stereoChannels == 1 {
		side = "R"
	}
	return fmt.Sprintf("File%d-%s", (n-1)/stereoChannels+1, side)
}

type stereoFile struct {
	data [][]float64
	rate int
}

func loadStereo(path string, cfg *Config) (*stereoFile, error) {
	audio, err := wavio.Read(path)
	if err != nil {
		return nil, err
	}
	if audio.NumChannels() < stereoChannels {
		return nil, fmt.Errorf("%w: %s has %d channel(s)", ErrNotStereo, path, audio.NumChannels())
	}

	data := audio.Channels[:stereoChannels]
	if audio.SampleRate != cfg.TargetRate {
		data, err = resample.Multi(data, audio.SampleRate, cfg.TargetRate, cfg.Method(), cfg.Parallel)
		if err != nil {
			return nil, fmt.Errorf("failed to resample %s: %w", path, err)
		}
	}
	return &stereoFile{data: data, rate: audio.SampleRate}, nil
}

// ParseOrder parses a slot assignment such as "3,1,2,4" and validates it.
func ParseOrder(s string) ([]int, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	order := make([]int, 0, len(fields))
	for _, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a channel number", ErrInvalidOrder, f)
		}
		order = append(order, n)
	}
	if err := ValidateOrder(order); err != nil {
		return nil, err
	}
	return order, nil
}

// ValidateOrder checks that order lists each channel 1..4 exactly once.
// order[i] is the channel placed in slot i+1.
func ValidateOrder(order []int) error {
	if len(order) != NumChannels {
		return fmt.Errorf("%w: got %d slots, want %d", ErrInvalidOrder, len(order), NumChannels)
	}
	var seen [NumChannels + 1]bool
	for slot, ch := range order {
		if ch < 1 || ch > NumChannels {
			return fmt.Errorf("%w: slot %d has channel %d", ErrInvalidOrder, slot+1, ch)
		}
		if seen[ch] {
			return fmt.Errorf("%w: channel %d selected twice", ErrInvalidOrder, ch)
		}
		seen[ch] = true
	}
	return nil
}

// FormatOrder renders an order as "3,1,2,4".
func FormatOrder(order []int) string {
	parts := make([]string, len(order))
	for i, ch := range order {
		parts[i] = strconv.Itoa(ch)
	}
	return strings.Join(parts, ",")
}

// DefaultOrder returns the identity assignment 1,2,3,4.
func DefaultOrder() []int {
	order := make([]int, NumChannels)
	for i := range order {
		order[i] = i + 1
	}
	return order
}

// Reorder places channels into slots: slot i receives the channel whose
// Number is order[i]. Channels must be the output of LoadChannels.
func Reorder(channels []Channel, order []int) ([]Channel, error) {
	if err := ValidateOrder(order); err != nil {
		return nil, err
	}
	byNumber := make(map[int]Channel, len(channels))
	for _, ch := range channels {
		byNumber[ch.Number] = ch
	}

	slots := make([]Channel, len(order))
	for i, n := range order {
		ch, ok := byNumber[n]
		if !ok {
			return nil, fmt.Errorf("%w: channel %d not loaded", ErrInvalidOrder, n)
		}
		slots[i] = ch
	}
	return slots, nil
}
