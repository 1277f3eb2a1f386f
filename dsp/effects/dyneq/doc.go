// Package dyneq implements a per-channel adaptive dynamic equalizer.
//
// Each channel runs a detection filter over the program signal (or an
// external sidechain), follows its absolute value with an attack/release
// envelope, maps the envelope's distance from a threshold to a gain through
// the selected [Mode], and applies that gain to a bell or shelf target
// filter on the program signal. The threshold is either static or learned
// from a one-second sliding window of the envelope's geometric mean.
//
// All gains are in dB. Level and threshold differences are computed on
// natural logarithms and converted with 20/ln(10).
//
// Two kernels exist: a float32 kernel for [FormatFloat32] hosts and a
// float64 kernel for [FormatFloat64] hosts. [Precision] selects one
// explicitly or lets the negotiated format decide. Building with the
// fastmath tag replaces the per-sample log and exp with approximations.
package dyneq
