package main

import (
	"log"

	"github.com/spf13/cobra"

	fdm "github.com/tphakala/go-audio-fdm"
	"github.com/tphakala/go-audio-fdm/internal/tone"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "fdm",
	Short: "Frequency-division multiplexing of four audio channels",
	Long: `fdm splits two stereo WAV files into four channels, band-limits each
channel with its slot filter, modulates the slots onto 10, 25, 45 and 70 kHz
carriers at 192 kHz, sums them into one composite signal and demodulates the
composite back into four recovered channels.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "YAML config file (defaults are used when empty)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
}

// loadConfig returns the config file given by --config, or the defaults.
func loadConfig() (*fdm.Config, error) {
	if cfgFile == "" {
		return fdm.DefaultConfig(), nil
	}
	return fdm.LoadConfig(cfgFile)
}

// inputFiles returns the two positional inputs or the generated demo files.
func inputFiles(args []string) (file1, file2 string) {
	if len(args) == 2 {
		return args[0], args[1]
	}
	return tone.DemoPairs[0].Name, tone.DemoPairs[1].Name
}

// inputArgs accepts no inputs or exactly two.
func inputArgs(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return nil
	}
	return cobra.ExactArgs(2)(cmd, args)
}

func logf(format string, args ...any) {
	if verbose {
		log.Printf(format, args...)
	}
}
