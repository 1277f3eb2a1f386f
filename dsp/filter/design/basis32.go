package design

import (
	"math"

	"github.com/cwbudde/algo-dyneq/dsp/filter/biquad"
)

// Basis32 is the single-precision form of [Basis].
type Basis32 struct {
	Cos   float32
	Sin   float32
	Alpha float32
}

// Coefficients synthesizes filter type t in single precision.
func (b Basis32) Coefficients(t Type, a float32) biquad.Coefficients32 {
	switch t {
	case TypeBandpass:
		sw2 := b.Sin / 2
		return normalizeBiquad32(sw2, 0, -sw2, 1+b.Alpha, -2*b.Cos, 1-b.Alpha)
	case TypeLowpass:
		k := 1 - b.Cos
		return normalizeBiquad32(k/2, k, k/2, 1+b.Alpha, -2*b.Cos, 1-b.Alpha)
	case TypeHighpass:
		k := 1 + b.Cos
		return normalizeBiquad32(k/2, -k, k/2, 1+b.Alpha, -2*b.Cos, 1-b.Alpha)
	case TypePeak:
		return normalizeBiquad32(b.Alpha, 0, -b.Alpha, 1+b.Alpha, -2*b.Cos, 1-b.Alpha)
	case TypeBell:
		return b.Bell(a)
	case TypeLowShelf:
		return b.LowShelf(a)
	case TypeHighShelf:
		return b.HighShelf(a)
	default:
		return biquad.Coefficients32{}
	}
}

// Bell returns peaking-EQ coefficients for amplitude a.
func (b Basis32) Bell(a float32) biquad.Coefficients32 {
	cw, alpha := b.Cos, b.Alpha

	return normalizeBiquad32(
		1+alpha*a, -2*cw, 1-alpha*a,
		1+alpha/a, -2*cw, 1-alpha/a,
	)
}

// LowShelf returns low-shelf coefficients for amplitude a.
func (b Basis32) LowShelf(a float32) biquad.Coefficients32 {
	cw := b.Cos
	beta := 2 * sqrt32(a) * b.Alpha

	return normalizeBiquad32(
		a*((a+1)-(a-1)*cw+beta),
		2*a*((a-1)-(a+1)*cw),
		a*((a+1)-(a-1)*cw-beta),
		(a+1)+(a-1)*cw+beta,
		-2*((a-1)+(a+1)*cw),
		(a+1)+(a-1)*cw-beta,
	)
}

// HighShelf returns high-shelf coefficients for amplitude a.
func (b Basis32) HighShelf(a float32) biquad.Coefficients32 {
	cw := b.Cos
	beta := 2 * sqrt32(a) * b.Alpha

	return normalizeBiquad32(
		a*((a+1)+(a-1)*cw+beta),
		-2*a*((a-1)+(a+1)*cw),
		a*((a+1)+(a-1)*cw-beta),
		(a+1)-(a-1)*cw+beta,
		2*((a-1)-(a+1)*cw),
		(a+1)-(a-1)*cw-beta,
	)
}

func sqrt32(x float32) float32 {
	return float32(math.Sqrt(float64(x)))
}

func normalizeBiquad32(b0, b1, b2, a0, a1, a2 float32) biquad.Coefficients32 {
	f := float64(a0)
	if a0 == 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		return biquad.Coefficients32{}
	}

	inv := 1 / a0

	return biquad.Coefficients32{
		B0: b0 * inv,
		B1: b1 * inv,
		B2: b2 * inv,
		A1: a1 * inv,
		A2: a2 * inv,
	}
}
