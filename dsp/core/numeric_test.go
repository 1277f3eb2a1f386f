package core

import (
	"math"
	"testing"
)

func TestClamp(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		min      float64
		max      float64
		expected float64
	}{
		{name: "inside", value: 0.5, min: 0, max: 1, expected: 0.5},
		{name: "below", value: -1, min: 0, max: 1, expected: 0},
		{name: "above", value: 2, min: 0, max: 1, expected: 1},
		{name: "swapped", value: 2, min: 1, max: 0, expected: 1},
		{name: "positive infinity", value: math.Inf(1), min: -50, max: 50, expected: 50},
		{name: "negative infinity", value: math.Inf(-1), min: -50, max: 50, expected: -50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Clamp(tt.value, tt.min, tt.max); got != tt.expected {
				t.Fatalf("Clamp() = %v, want %v", got, tt.expected)
			}

			got32 := Clamp32(float32(tt.value), float32(tt.min), float32(tt.max))
			if got32 != float32(tt.expected) {
				t.Fatalf("Clamp32() = %v, want %v", got32, tt.expected)
			}
		})
	}
}

func TestNearlyEqual(t *testing.T) {
	if !NearlyEqual(1.0, 1.0+1e-13, 1e-12) {
		t.Fatal("expected values to be nearly equal")
	}

	if NearlyEqual(1.0, 1.1, 1e-3) {
		t.Fatal("expected values to differ")
	}

	if !NearlyEqual(0, 0, 0) {
		t.Fatal("zero should equal zero with default epsilon")
	}
}

func TestDBConversions(t *testing.T) {
	db := LinearToDB(DBToLinear(-6))
	if !NearlyEqual(db, -6, 1e-10) {
		t.Fatalf("LinearToDB(DBToLinear(-6)) = %v, want -6", db)
	}

	if !math.IsInf(LinearToDB(0), -1) {
		t.Fatal("expected -Inf for zero")
	}

	if !math.IsNaN(LinearToDB(-1)) {
		t.Fatal("expected NaN for negative input")
	}
}

func TestNepersToDB(t *testing.T) {
	// ln(10) nepers is a factor of ten in amplitude, i.e. 20 dB.
	if got := NepersToDB(math.Ln10); !NearlyEqual(got, 20, 1e-12) {
		t.Fatalf("NepersToDB(ln 10) = %v, want 20", got)
	}

	if got := NepersToDB(math.Log(0.5)); !NearlyEqual(got, LinearToDB(0.5), 1e-12) {
		t.Fatalf("NepersToDB(ln 0.5) = %v, want %v", got, LinearToDB(0.5))
	}

	if got := DBToNepers(NepersToDB(1.25)); !NearlyEqual(got, 1.25, 1e-12) {
		t.Fatalf("round trip = %v", got)
	}
}

func TestIsFinite(t *testing.T) {
	if !IsFinite(1) || IsFinite(math.NaN()) || IsFinite(math.Inf(-1)) {
		t.Fatal("IsFinite mismatch")
	}
}
