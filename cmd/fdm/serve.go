package main

import (
	"fmt"

	"github.com/spf13/cobra"

	fdm "github.com/tphakala/go-audio-fdm"
	"github.com/tphakala/go-audio-fdm/internal/server"
)

var (
	serveAddr string
	serveBits int
)

var serveCmd = &cobra.Command{
	Use:   "serve [file1.wav file2.wav]",
	Short: "Start the web GUI",
	Long: `Serves a page with four slot selectors and a RUN DSP PIPELINE button.
Each run shows the filtered, composite and recovered spectra with audio
players and a composite download.`,
	Args: inputArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", server.DefaultAddr, "Listen address")
	serveCmd.Flags().IntVar(&serveBits, "bits", 0, "Bit depth of served WAVs (config value when 0)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if serveBits != 0 {
		cfg.BitDepth = serveBits
	}
	p, err := fdm.New(cfg)
	if err != nil {
		return err
	}

	file1, file2 := inputFiles(args)
	var requestLog server.Logf
	if verbose {
		requestLog = logf
	}
	srv := server.New(p, file1, file2, cfg.BitDepth, requestLog)

	fmt.Fprintf(cmd.OutOrStdout(), "Serving %s + %s on %s\n", file1, file2, serveAddr)
	return srv.ListenAndServe(serveAddr)
}
