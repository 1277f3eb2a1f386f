// Package spectrum measures narrow-band levels of rendered audio.
//
// An [Analyzer] applies a Hann window to a fixed-size frame, runs a forward
// FFT and sums the power of the bins around an analysis frequency. Comparing
// the same band of a processor's input and output gives the gain the
// processor applied there, which is how the equalizer's target boost or cut
// is checked on real signals.
package spectrum
