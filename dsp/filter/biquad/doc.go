// Package biquad provides second-order IIR section runtime primitives.
//
// A [Section] runs Direct Form II Transposed processing for one second-order
// section defined by [Coefficients]. [Section32] is the same section in
// single precision with [Coefficients32]. Both expose their coefficients as
// plain fields so a caller can swap them between samples, which is how the
// dynamic equalizer retunes its target filter every sample.
//
// Coefficient design lives in dsp/filter/design.
package biquad
