package dyneq

import "github.com/cwbudde/algo-dyneq/dsp/core"

// ln10Over20 converts dB to the exponent of e: 10^(dB/20) = e^(dB*ln10/20).
const ln10Over20 = 0.11512925464970229

// MapGain maps the detected level's distance from the threshold, in dB, to
// a target gain in dB before makeup. Ratio 0 makes the mapping a hard
// switch to the range limit. The result is always within [-rangeDB, rangeDB].
//
//	CutBelow    delta < 0   ->  delta/ratio
//	CutAbove    delta > 0   -> -delta/ratio
//	BoostBelow  delta < 0   -> -delta/ratio
//	BoostAbove  delta > 0   ->  delta/ratio
//
// Every other case, and ModeListen, maps to 0 dB.
func MapGain(mode Mode, deltaDB, ratio, rangeDB float64) float64 {
	var g float64

	switch mode {
	case ModeCutBelow:
		if deltaDB < 0 {
			g = deltaDB / ratio
		}
	case ModeCutAbove:
		if deltaDB > 0 {
			g = -deltaDB / ratio
		}
	case ModeBoostBelow:
		if deltaDB < 0 {
			g = -deltaDB / ratio
		}
	case ModeBoostAbove:
		if deltaDB > 0 {
			g = deltaDB / ratio
		}
	}

	return core.Clamp(g, -rangeDB, rangeDB)
}

func mapGain32(mode Mode, deltaDB, ratio, rangeDB float32) float32 {
	var g float32

	switch mode {
	case ModeCutBelow:
		if deltaDB < 0 {
			g = deltaDB / ratio
		}
	case ModeCutAbove:
		if deltaDB > 0 {
			g = -deltaDB / ratio
		}
	case ModeBoostBelow:
		if deltaDB < 0 {
			g = -deltaDB / ratio
		}
	case ModeBoostAbove:
		if deltaDB > 0 {
			g = deltaDB / ratio
		}
	}

	return core.Clamp32(g, -rangeDB, rangeDB)
}
