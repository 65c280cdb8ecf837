package fdm

// Channel layout
const (
	// NumChannels is the number of channels taken from the two input files.
	NumChannels = 4

	stereoChannels = 2
)

// Default rates
const (
	DefaultTargetRate     = 44100
	DefaultModulationRate = 192000
	DefaultFilterOrder    = 4
	DefaultBitDepth       = 16
)

// Demodulation band-pass edges are kept this far inside (0, Nyquist).
const DefaultEdgeMargin = 100.0

// Default per-slot parameters, slot 1 first.
var (
	defaultCarriers        = []float64{10000, 25000, 45000, 70000}
	defaultDemodBandwidths = []float64{4000, 6000, 10000, 15000}
	defaultRecoveryCutoffs = []float64{2500, 5500, 10500, 15000}
)

// Output file names
const (
	compositeFileName    = "composite_signal.wav"
	recoveredFileFormat  = "recovered_ch_%d.wav"
	filteredFileFormat   = "filtered_slot_%d.wav"
	outputDirPermissions = 0o755
)
