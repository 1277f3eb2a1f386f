// Package design provides RBJ-cookbook biquad coefficient designers.
//
// The detection shapes (bandpass, lowpass, highpass, 0 dB peak) take a
// frequency and Q only. The equalizer shapes (bell, low shelf, high shelf)
// also take a gain. [Basis] splits a design into its frequency/Q terms and
// the gain-dependent recombination, so callers that sweep gain per sample
// pay for the trigonometry once per block.
//
// Frequencies at or above Nyquist are clamped to 0.499 times the sample
// rate instead of being rejected.
package design
