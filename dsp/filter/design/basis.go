package design

import (
	"math"

	"github.com/cwbudde/algo-dyneq/dsp/filter/biquad"
)

// Basis holds the gain-independent terms of an RBJ design (cos w0, sin w0
// and alpha) for one frequency/Q pair. Re-synthesizing coefficients from a
// Basis for a new amplitude costs a handful of multiplies and at most one
// square root, so it can run every sample.
type Basis struct {
	Cos   float64
	Sin   float64
	Alpha float64
}

// NewBasis computes the basis for freq (Hz, clamped below Nyquist), quality
// factor q and sampleRate. ok is false for a non-positive frequency, Q or
// sample rate.
func NewBasis(freq, q, sampleRate float64) (Basis, bool) {
	w0, ok := normalizedW0(freq, sampleRate)
	if !ok || q <= 0 || math.IsNaN(q) || math.IsInf(q, 0) {
		return Basis{}, false
	}

	sw := math.Sin(w0)

	return Basis{
		Cos:   math.Cos(w0),
		Sin:   sw,
		Alpha: sw / (2 * q),
	}, true
}

// To32 narrows the basis for use with single-precision kernels.
func (b Basis) To32() Basis32 {
	return Basis32{Cos: float32(b.Cos), Sin: float32(b.Sin), Alpha: float32(b.Alpha)}
}

// Coefficients synthesizes filter type t. a is the RBJ amplitude term
// (10^(dB/40)); it is ignored for the detection shapes.
func (b Basis) Coefficients(t Type, a float64) biquad.Coefficients {
	switch t {
	case TypeBandpass:
		sw2 := b.Sin / 2
		return normalizeBiquad(sw2, 0, -sw2, 1+b.Alpha, -2*b.Cos, 1-b.Alpha)
	case TypeLowpass:
		k := 1 - b.Cos
		return normalizeBiquad(k/2, k, k/2, 1+b.Alpha, -2*b.Cos, 1-b.Alpha)
	case TypeHighpass:
		k := 1 + b.Cos
		return normalizeBiquad(k/2, -k, k/2, 1+b.Alpha, -2*b.Cos, 1-b.Alpha)
	case TypePeak:
		return normalizeBiquad(b.Alpha, 0, -b.Alpha, 1+b.Alpha, -2*b.Cos, 1-b.Alpha)
	case TypeBell:
		return b.Bell(a)
	case TypeLowShelf:
		return b.LowShelf(a)
	case TypeHighShelf:
		return b.HighShelf(a)
	default:
		return biquad.Coefficients{}
	}
}

// Bell returns peaking-EQ coefficients for amplitude a.
func (b Basis) Bell(a float64) biquad.Coefficients {
	cw, alpha := b.Cos, b.Alpha

	return normalizeBiquad(
		1+alpha*a, -2*cw, 1-alpha*a,
		1+alpha/a, -2*cw, 1-alpha/a,
	)
}

// LowShelf returns low-shelf coefficients for amplitude a.
func (b Basis) LowShelf(a float64) biquad.Coefficients {
	cw := b.Cos
	beta := 2 * math.Sqrt(a) * b.Alpha

	return normalizeBiquad(
		a*((a+1)-(a-1)*cw+beta),
		2*a*((a-1)-(a+1)*cw),
		a*((a+1)-(a-1)*cw-beta),
		(a+1)+(a-1)*cw+beta,
		-2*((a-1)+(a+1)*cw),
		(a+1)+(a-1)*cw-beta,
	)
}

// HighShelf returns high-shelf coefficients for amplitude a.
func (b Basis) HighShelf(a float64) biquad.Coefficients {
	cw := b.Cos
	beta := 2 * math.Sqrt(a) * b.Alpha

	return normalizeBiquad(
		a*((a+1)+(a-1)*cw+beta),
		-2*a*((a-1)+(a+1)*cw),
		a*((a+1)+(a-1)*cw-beta),
		(a+1)-(a-1)*cw+beta,
		2*((a-1)-(a+1)*cw),
		(a+1)-(a-1)*cw-beta,
	)
}
