package design

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-dyneq/dsp/filter/biquad"
)

// maxNyquistRatio keeps the design frequency strictly below Nyquist.
const maxNyquistRatio = 0.499

// Type selects a second-order filter shape.
type Type int

const (
	// TypeBandpass is the constant-skirt-gain bandpass (peak gain = Q).
	TypeBandpass Type = iota
	// TypeLowpass is the RBJ lowpass.
	TypeLowpass
	// TypeHighpass is the RBJ highpass.
	TypeHighpass
	// TypePeak is the constant 0 dB peak-gain bandpass.
	TypePeak
	// TypeBell is the peaking EQ, parameterized by gain.
	TypeBell
	// TypeLowShelf is the low shelf, parameterized by gain.
	TypeLowShelf
	// TypeHighShelf is the high shelf, parameterized by gain.
	TypeHighShelf
)

func (t Type) String() string {
	switch t {
	case TypeBandpass:
		return "bandpass"
	case TypeLowpass:
		return "lowpass"
	case TypeHighpass:
		return "highpass"
	case TypePeak:
		return "peak"
	case TypeBell:
		return "bell"
	case TypeLowShelf:
		return "lowshelf"
	case TypeHighShelf:
		return "highshelf"
	default:
		return fmt.Sprintf("Type(%d)", int(t))
	}
}

// HasGain reports whether the shape takes a gain parameter.
func (t Type) HasGain() bool {
	return t == TypeBell || t == TypeLowShelf || t == TypeHighShelf
}

// Design returns the coefficients for filter type t. gainDB is ignored for
// the detection shapes (bandpass, lowpass, highpass, peak).
func Design(t Type, freq, q, sampleRate, gainDB float64) biquad.Coefficients {
	b, ok := NewBasis(freq, q, sampleRate)
	if !ok {
		return biquad.Coefficients{}
	}

	return b.Coefficients(t, Amplitude(gainDB))
}

// Amplitude converts a gain in dB to the RBJ amplitude term A = 10^(dB/40).
func Amplitude(gainDB float64) float64 {
	return math.Pow(10, gainDB/40)
}

// Lowpass designs a lowpass biquad at freq (Hz) with quality factor q.
func Lowpass(freq, q, sampleRate float64) biquad.Coefficients {
	return Design(TypeLowpass, freq, q, sampleRate, 0)
}

// Highpass designs a highpass biquad at freq (Hz) with quality factor q.
func Highpass(freq, q, sampleRate float64) biquad.Coefficients {
	return Design(TypeHighpass, freq, q, sampleRate, 0)
}

// Bandpass designs a constant-skirt-gain bandpass biquad.
func Bandpass(freq, q, sampleRate float64) biquad.Coefficients {
	return Design(TypeBandpass, freq, q, sampleRate, 0)
}

// PeakDetector designs a bandpass biquad with 0 dB gain at freq.
func PeakDetector(freq, q, sampleRate float64) biquad.Coefficients {
	return Design(TypePeak, freq, q, sampleRate, 0)
}

// Bell designs a peaking-EQ biquad with gain in dB.
func Bell(freq, gainDB, q, sampleRate float64) biquad.Coefficients {
	return Design(TypeBell, freq, q, sampleRate, gainDB)
}

// LowShelf designs a low-shelf biquad with gain in dB.
func LowShelf(freq, gainDB, q, sampleRate float64) biquad.Coefficients {
	return Design(TypeLowShelf, freq, q, sampleRate, gainDB)
}

// HighShelf designs a high-shelf biquad with gain in dB.
func HighShelf(freq, gainDB, q, sampleRate float64) biquad.Coefficients {
	return Design(TypeHighShelf, freq, q, sampleRate, gainDB)
}

// ClampFrequency limits freq to the designable range (0, 0.499*sampleRate].
func ClampFrequency(freq, sampleRate float64) float64 {
	return math.Min(freq, sampleRate*maxNyquistRatio)
}

func normalizedW0(freq, sampleRate float64) (float64, bool) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return 0, false
	}

	if freq <= 0 || math.IsNaN(freq) {
		return 0, false
	}

	return 2 * math.Pi * ClampFrequency(freq, sampleRate) / sampleRate, true
}

func normalizeBiquad(b0, b1, b2, a0, a1, a2 float64) biquad.Coefficients {
	if a0 == 0 || math.IsNaN(a0) || math.IsInf(a0, 0) {
		return biquad.Coefficients{}
	}

	inv := 1 / a0

	return biquad.Coefficients{
		B0: b0 * inv,
		B1: b1 * inv,
		B2: b2 * inv,
		A1: a1 * inv,
		A2: a2 * inv,
	}
}
