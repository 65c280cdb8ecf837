// Command fdm multiplexes the four channels of two stereo WAV files onto
// audio-band carriers, demodulates them back and reports the result.
//
// Usage:
//
//	fdm generate                          # write file1.wav and file2.wav test tones
//	fdm run --order 3,1,2,4               # process file1.wav and file2.wav into outputs/
//	fdm run a.wav b.wav --out results     # process other inputs
//	fdm serve --addr :8501                # web GUI
//	fdm filters                           # print the slot filter responses
package main

import "log"

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
