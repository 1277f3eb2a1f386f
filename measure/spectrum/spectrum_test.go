package spectrum

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-dyneq/dsp/filter/biquad"
	"github.com/cwbudde/algo-dyneq/dsp/filter/design"
	"github.com/cwbudde/algo-dyneq/internal/testutil"
)

func TestNewAnalyzerRejectsBadSizes(t *testing.T) {
	for _, size := range []int{-4, 0, 1, 3, 1000} {
		if _, err := NewAnalyzer(size); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("NewAnalyzer(%d) error = %v, want ErrInvalidInput", size, err)
		}
	}

	a, err := NewAnalyzer(1024)
	if err != nil {
		t.Fatalf("NewAnalyzer(1024) error = %v", err)
	}

	if a.Size() != 1024 {
		t.Fatalf("Size() = %d", a.Size())
	}
}

func TestSizeFor(t *testing.T) {
	tests := []struct {
		frames, want int
	}{
		{0, 0},
		{1, 0},
		{2, 2},
		{1000, 512},
		{1024, 1024},
		{48000, 32768},
		{10 * MaxSize, MaxSize},
	}

	for _, tt := range tests {
		if got := SizeFor(tt.frames); got != tt.want {
			t.Fatalf("SizeFor(%d) = %d, want %d", tt.frames, got, tt.want)
		}
	}
}

func TestBandPowerLocatesSine(t *testing.T) {
	const (
		sr   = 48000.0
		size = 4096
	)

	a, err := NewAnalyzer(size)
	if err != nil {
		t.Fatal(err)
	}

	x := testutil.DeterministicSine(3000, sr, 0.5, 2*size)

	in, err := a.BandPower(x, 3000, sr, -1)
	if err != nil {
		t.Fatalf("BandPower() error = %v", err)
	}

	off, err := a.BandPower(x, 9000, sr, -1)
	if err != nil {
		t.Fatalf("BandPower() error = %v", err)
	}

	if in <= 0 || off > in*1e-8 {
		t.Fatalf("band power at sine %v, away from it %v", in, off)
	}
}

func TestGainDBOfScaledSignal(t *testing.T) {
	const sr = 44100.0

	a, err := NewAnalyzer(8192)
	if err != nil {
		t.Fatal(err)
	}

	ref := testutil.DeterministicSine(1234, sr, 0.25, 10000)

	for _, k := range []float64{0.1, 0.5, 2, 3.1623} {
		out := make([]float64, len(ref))
		for i, v := range ref {
			out[i] = k * v
		}

		got, err := a.GainDB(ref, out, 1234, sr)
		if err != nil {
			t.Fatalf("GainDB() error = %v", err)
		}

		if want := 20 * math.Log10(k); math.Abs(got-want) > 1e-9 {
			t.Fatalf("scale %v: GainDB = %v, want %v", k, got, want)
		}
	}
}

func TestGainDBMatchesBellResponse(t *testing.T) {
	const (
		sr = 48000.0
		f  = 1500.0
	)

	a, err := NewAnalyzer(16384)
	if err != nil {
		t.Fatal(err)
	}

	ref := testutil.DeterministicSine(f, sr, 0.3, 3*16384)

	for _, gain := range []float64{-12, 6, 18} {
		c := design.Bell(f, gain, 2, sr)

		out := append([]float64(nil), ref...)
		biquad.NewSection(c).ProcessBlock(out)

		got, err := a.GainDB(ref, out, f, sr)
		if err != nil {
			t.Fatalf("GainDB() error = %v", err)
		}

		if want := c.MagnitudeDB(f, sr); math.Abs(got-want) > 0.01 {
			t.Fatalf("bell %v dB: measured %v dB, analytic %v dB", gain, got, want)
		}
	}
}

func TestGainDBErrors(t *testing.T) {
	a, err := NewAnalyzer(256)
	if err != nil {
		t.Fatal(err)
	}

	x := testutil.DeterministicSine(1000, 48000, 0.5, 512)

	if _, err := a.GainDB(make([]float64, 512), x, 1000, 48000); !errors.Is(err, ErrNoSignal) {
		t.Fatalf("silent reference error = %v, want ErrNoSignal", err)
	}

	for _, bad := range []struct{ f, sr float64 }{
		{0, 48000}, {-10, 48000}, {24000, 48000}, {1000, 0}, {1000, math.NaN()},
	} {
		if _, err := a.GainDB(x, x, bad.f, bad.sr); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("f=%v sr=%v error = %v, want ErrInvalidInput", bad.f, bad.sr, err)
		}
	}

	if _, err := a.BandPower(nil, 1000, 48000, 1); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("empty signal error = %v", err)
	}

	if g, err := a.GainDB(x, make([]float64, 512), 1000, 48000); err != nil || !math.IsInf(g, -1) {
		t.Fatalf("silent output = %v, %v; want -Inf", g, err)
	}
}
