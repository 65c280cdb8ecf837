// Package fdm multiplexes four audio channels onto carriers and recovers
// them again.
//
// Two stereo WAV files provide four channels: Ch1 and Ch2 are the left and
// right channels of the first file, Ch3 and Ch4 those of the second. The
// channels are assigned to four slots, each slot has a fixed Butterworth
// filter and a carrier frequency:
//
//	slot  filter              carrier  demod band       recovery LPF
//	1     lowpass 2 kHz       10 kHz   6-14 kHz         2.5 kHz
//	2     bandpass 2-5 kHz    25 kHz   19-31 kHz        5.5 kHz
//	3     bandpass 5-10 kHz   45 kHz   35-55 kHz        10.5 kHz
//	4     highpass 10 kHz     70 kHz   55-85 kHz        15 kHz
//
// # Pipeline
//
// [Pipeline.Run] performs the whole chain:
//
//  1. Load both files, resample them to the target rate, trim them to a
//     common length and peak-normalize each file ([LoadChannels]).
//  2. Reorder the channels into slots ([Reorder]).
//  3. Filter each slot ([ApplyFilters]).
//  4. Upsample every slot to the modulation rate, multiply by its carrier
//     cosine and sum into a peak-normalized composite ([Modulate]).
//  5. For every carrier: band-pass the composite around it, mix down with
//     2·cos, low-pass, resample back to the original rate and normalize
//     ([Demodulate]).
//
// All steps work on whole buffers. Filters start from zero state.
//
// # Quick Start
//
//	p, err := fdm.New(fdm.DefaultConfig())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	res, err := p.Run("file1.wav", "file2.wav", []int{1, 2, 3, 4})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if _, err := res.WriteOutputs("out", 16); err != nil {
//	    log.Fatal(err)
//	}
//
// Spectra for display come from [ComputeSpectrum].
package fdm
