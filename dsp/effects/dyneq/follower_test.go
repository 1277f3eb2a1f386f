package dyneq

import (
	"math"
	"testing"
)

func TestSmoothingCoef(t *testing.T) {
	tests := []struct {
		name       string
		ms, sr     float64
		wantApprox float64
	}{
		{"20ms at 48k", 20, 48000, 1.0 / 960},
		{"200ms at 48k", 200, 48000, 1.0 / 9600},
		{"1ms at 8k", 1, 8000, 1.0 / 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SmoothingCoef(tt.ms, tt.sr)
			want := 1 - math.Exp(-1/(0.001*tt.ms*tt.sr))

			if got != want {
				t.Fatalf("SmoothingCoef = %v, want %v", got, want)
			}

			// For long time constants the coefficient approaches 1/(ms*sr/1000).
			if math.Abs(got-tt.wantApprox)/tt.wantApprox > 0.07 {
				t.Fatalf("SmoothingCoef = %v, far from %v", got, tt.wantApprox)
			}
		})
	}
}

func TestFollowerAttackAndRelease(t *testing.T) {
	const attack, release = 0.1, 0.01

	var f Follower64
	for n := 1; n <= 50; n++ {
		got := f.Process(1, attack, release)
		want := 1 - math.Pow(1-attack, float64(n))

		if math.Abs(got-want) > 1e-12 {
			t.Fatalf("attack step %d: %v, want %v", n, got, want)
		}
	}

	f.Reset(1)
	for n := 1; n <= 50; n++ {
		got := f.Process(0, attack, release)
		want := math.Pow(1-release, float64(n))

		if math.Abs(got-want) > 1e-12 {
			t.Fatalf("release step %d: %v, want %v", n, got, want)
		}
	}
}

func TestFollowerHoldsOnEqualInput(t *testing.T) {
	f := Follower64{Value: 0.5}
	if got := f.Process(0.5, 0.3, 0.1); got != 0.5 {
		t.Fatalf("equal input moved follower to %v", got)
	}
}

func TestFollower32ConvergesToConstant(t *testing.T) {
	var f Follower32
	for range 2000 {
		f.Process(0.25, 0.05, 0.005)
	}

	if math.Abs(float64(f.Value)-0.25) > 1e-6 {
		t.Fatalf("Follower32 settled at %v, want 0.25", f.Value)
	}
}
