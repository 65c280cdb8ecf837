package main

import (
	"fmt"

	"github.com/spf13/cobra"

	fdm "github.com/tphakala/go-audio-fdm"
)

// Probe frequencies of the response table in Hz.
var probeFrequencies = []float64{100, 500, 1000, 2000, 3000, 5000, 7000, 10000, 14000, 18000}

var filtersRate int

var filtersCmd = &cobra.Command{
	Use:   "filters",
	Short: "Print the slot filter responses",
	Long:  `Designs the four slot filters and prints their magnitude response in dB at fixed probe frequencies.`,
	Args:  cobra.NoArgs,
	RunE:  runFilters,
}

func init() {
	filtersCmd.Flags().IntVar(&filtersRate, "rate", 0, "Sample rate in Hz (config target rate when 0)")
	rootCmd.AddCommand(filtersCmd)
}

func runFilters(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	rate := cfg.TargetRate
	if filtersRate != 0 {
		rate = filtersRate
	}
	bank, err := fdm.NewFilterBank(cfg, rate)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "=== Slot filters (order %d, %d Hz) ===\n", cfg.FilterOrder, rate)
	for i, desc := range bank.Descriptions() {
		sections := bank.Sections[i]
		fmt.Fprintf(out, "\nSlot %d: %s\n", i+1, desc)
		fmt.Fprintf(out, "  Sections: %d, poles: %d, stable: %v\n", len(sections), sections.Order(), sections.Stable())
		for _, f := range probeFrequencies {
			if f >= float64(rate)/2 {
				continue
			}
			fmt.Fprintf(out, "  %8.0f Hz  %8.2f dB\n", f, bank.ResponseDB(i, f))
		}
	}
	return nil
}
