package dyneq

import (
	"math"
	"testing"
)

func TestMapGain(t *testing.T) {
	tests := []struct {
		name    string
		mode    Mode
		delta   float64
		ratio   float64
		rangeDB float64
		want    float64
	}{
		{"cut below under", ModeCutBelow, -6, 2, 50, -3},
		{"cut below over", ModeCutBelow, 6, 2, 50, 0},
		{"cut above over", ModeCutAbove, 6, 2, 50, -3},
		{"cut above under", ModeCutAbove, -6, 2, 50, 0},
		{"boost below under", ModeBoostBelow, -6, 2, 50, 3},
		{"boost below over", ModeBoostBelow, 6, 2, 50, 0},
		{"boost above over", ModeBoostAbove, 6, 2, 50, 3},
		{"boost above under", ModeBoostAbove, -6, 2, 50, 0},
		{"listen", ModeListen, 12, 1, 50, 0},
		{"at threshold", ModeCutAbove, 0, 1, 50, 0},
		{"clamped cut", ModeCutAbove, 100, 1, 10, -10},
		{"clamped boost", ModeBoostBelow, -100, 1, 10, 10},
		{"ratio zero cut", ModeCutAbove, 0.5, 0, 24, -24},
		{"ratio zero boost", ModeBoostBelow, -0.5, 0, 24, 24},
		{"ratio zero at threshold", ModeCutBelow, 0, 0, 24, 0},
		{"ratio zero inactive side", ModeCutAbove, -3, 0, 24, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MapGain(tt.mode, tt.delta, tt.ratio, tt.rangeDB); got != tt.want {
				t.Fatalf("MapGain = %v, want %v", got, tt.want)
			}

			got32 := mapGain32(tt.mode, float32(tt.delta), float32(tt.ratio), float32(tt.rangeDB))
			if float64(got32) != tt.want {
				t.Fatalf("mapGain32 = %v, want %v", got32, tt.want)
			}
		})
	}
}

func TestMapGainSignAndRange(t *testing.T) {
	for _, mode := range []Mode{ModeCutBelow, ModeCutAbove, ModeBoostBelow, ModeBoostAbove} {
		for _, ratio := range []float64{0, 0.5, 1, 4, 30} {
			for delta := -200.0; delta <= 200; delta += 0.75 {
				g := MapGain(mode, delta, ratio, 40)

				if math.IsNaN(g) || g < -40 || g > 40 {
					t.Fatalf("%v ratio=%v delta=%v: %v out of range", mode, ratio, delta, g)
				}

				cut := mode == ModeCutBelow || mode == ModeCutAbove
				if cut && g > 0 || !cut && g < 0 {
					t.Fatalf("%v ratio=%v delta=%v: wrong sign %v", mode, ratio, delta, g)
				}
			}
		}
	}
}
