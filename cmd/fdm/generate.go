package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/tphakala/go-audio-fdm/internal/tone"
)

var (
	generateDir      string
	generateDuration float64
	generateRate     int
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Write the two stereo test tone files",
	Long: `Writes file1.wav (440 Hz left, 880 Hz right) and file2.wav
(1200 Hz left, 2400 Hz right) as 16-bit PCM. Existing files are kept.`,
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVar(&generateDir, "dir", ".", "Directory to write into")
	generateCmd.Flags().Float64Var(&generateDuration, "duration", tone.DefaultDuration, "Length in seconds")
	generateCmd.Flags().IntVar(&generateRate, "rate", tone.DefaultSampleRate, "Sample rate in Hz")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	if generateDuration <= 0 || generateRate <= 0 {
		return fmt.Errorf("duration and rate must be positive")
	}
	out := cmd.OutOrStdout()
	for _, pair := range tone.DemoPairs {
		path := filepath.Join(generateDir, pair.Name)
		created, err := pair.Write(path, generateRate, generateDuration)
		if err != nil {
			return err
		}
		if created {
			fmt.Fprintf(out, "Created %s (%g Hz / %g Hz)\n", path, pair.LeftHz, pair.RightHz)
		} else {
			fmt.Fprintf(out, "Kept existing %s\n", path)
		}
	}
	return nil
}
