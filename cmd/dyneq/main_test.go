package main

import (
	"bytes"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-dyneq/internal/audio"
	"github.com/cwbudde/algo-dyneq/internal/testutil"
	"github.com/cwbudde/algo-dyneq/measure/spectrum"
)

func parseArgs(t *testing.T, argv ...string) *CLI {
	t.Helper()

	var args CLI

	parser, err := kong.New(&args, kong.Name("dyneq"), kong.Exit(func(int) { t.Fatal("unexpected exit") }))
	if err != nil {
		t.Fatalf("kong.New() error = %v", err)
	}

	if _, err := parser.Parse(argv); err != nil {
		t.Fatalf("Parse(%v) error = %v", argv, err)
	}

	return &args
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)

	return l
}

func writeTestWAV(t *testing.T, path string, channels ...[]float64) {
	t.Helper()

	if err := audio.WriteWAV(path, &audio.Buffer{SampleRate: 48000, BitDepth: 24, Channels: channels}); err != nil {
		t.Fatalf("WriteWAV() error = %v", err)
	}
}

// existingInput writes a short silent WAV for flag parsing tests.
func existingInput(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "in.wav")
	writeTestWAV(t, path, make([]float64, 16))

	return path
}

func TestConfigFromFlags(t *testing.T) {
	in := existingInput(t)
	args := parseArgs(t, in, "out.wav",
		"--mode=boostabove", "--dftype=peak", "--tftype=highshelf",
		"--auto=adaptive", "--policy=immediate", "--precision=float",
		"--ratio=3", "--range=12", "--makeup=2", "--threshold=0.5")

	cfg, err := args.config()
	if err != nil {
		t.Fatalf("config() error = %v", err)
	}

	if cfg.Mode.String() != "boostabove" || cfg.DetectionFilter.String() != "peak" || cfg.TargetFilter.String() != "highshelf" {
		t.Fatalf("enums not mapped: %+v", cfg)
	}

	if cfg.Detection.String() != "adaptive" || cfg.Adaptive.String() != "immediate" || cfg.Precision.String() != "float" {
		t.Fatalf("detection not mapped: %+v", cfg)
	}

	if cfg.Ratio != 3 || cfg.Range != 12 || cfg.Makeup != 2 || cfg.Threshold != 0.5 || cfg.Sidechain {
		t.Fatalf("numbers not mapped: %+v", cfg)
	}

	bad := parseArgs(t, in, "out.wav", "--range=0")
	if _, err := bad.config(); err == nil {
		t.Fatal("config() accepted range 0")
	}
}

func TestRunProcessesFile(t *testing.T) {
	for _, precision := range []string{"double", "float"} {
		t.Run(precision, func(t *testing.T) {
			dir := t.TempDir()
			in := filepath.Join(dir, "in.wav")
			out := filepath.Join(dir, "out.wav")

			sine := testutil.DeterministicSine(1000, 48000, 0.25, 24000)
			writeTestWAV(t, in, sine, sine)

			args := parseArgs(t, in, out, "--precision="+precision, "--mode=cutabove", "--threshold=0.01", "--ratio=2",
				"--attack=5", "--release=20", "--block=300")

			var stdout bytes.Buffer
			if err := run(args, &stdout, quietLogger()); err != nil {
				t.Fatalf("run() error = %v", err)
			}

			got, err := audio.ReadWAV(out)
			if err != nil {
				t.Fatal(err)
			}

			if len(got.Channels) != 2 || got.Frames() != len(sine) || got.BitDepth != 24 {
				t.Fatalf("output layout %d ch, %d frames, %d bit", len(got.Channels), got.Frames(), got.BitDepth)
			}

			// The band sits well above the threshold, so it is cut.
			if peak := testutil.PeakAbs(got.Channels[0], len(sine)/2); peak >= 0.2 {
				t.Fatalf("output peak %v, want a cut below 0.25", peak)
			}

			if !strings.Contains(stdout.String(), "gain dB") || !strings.Contains(stdout.String(), "target dB") {
				t.Fatalf("missing report:\n%s", stdout.String())
			}
		})
	}
}

func TestRunWithMonoSidechainAndTrim(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.wav")
	sc := filepath.Join(dir, "sc.wav")
	out := filepath.Join(dir, "out.wav")

	sine := testutil.DeterministicSine(1000, 48000, 0.25, 12000)
	writeTestWAV(t, in, sine, sine)
	writeTestWAV(t, sc, make([]float64, 6000))

	args := parseArgs(t, in, out, "--sidechain="+sc, "--mode=cutabove", "--threshold=0.5", "--trim=-6", "--bits=16", "--dither")
	if err := run(args, io.Discard, quietLogger()); err != nil {
		t.Fatalf("run() error = %v", err)
	}

	got, err := audio.ReadWAV(out)
	if err != nil {
		t.Fatal(err)
	}

	// A silent sidechain never crosses the threshold, leaving only the trim.
	want := 0.25 * math.Pow(10, -6.0/20)
	if peak := testutil.PeakAbs(got.Channels[1], 6000); math.Abs(peak-want) > 2e-3 {
		t.Fatalf("trimmed peak %v, want %v", peak, want)
	}

	if got.BitDepth != 16 {
		t.Fatalf("bit depth %d, want 16", got.BitDepth)
	}
}

func TestAlignSidechainRejectsMismatch(t *testing.T) {
	program := &audio.Buffer{SampleRate: 48000, Channels: [][]float64{make([]float64, 4), make([]float64, 4)}}

	if _, err := alignSidechain(&audio.Buffer{SampleRate: 44100, Channels: [][]float64{{0}}}, program); err == nil {
		t.Fatal("accepted sidechain at a different rate")
	}

	three := &audio.Buffer{SampleRate: 48000, Channels: [][]float64{{0}, {0}, {0}}}
	if _, err := alignSidechain(three, program); err == nil {
		t.Fatal("accepted three-channel sidechain for stereo input")
	}

	long := &audio.Buffer{SampleRate: 48000, Channels: [][]float64{{1, 2, 3, 4, 5, 6}}}

	got, err := alignSidechain(long, program)
	if err != nil {
		t.Fatal(err)
	}

	if len(got) != 2 || len(got[1]) != 4 || got[1][3] != 4 {
		t.Fatalf("aligned sidechain = %v", got)
	}
}

func TestRunRejectsBadBlock(t *testing.T) {
	args := parseArgs(t, existingInput(t), "out.wav", "--block=0")
	if err := run(args, io.Discard, quietLogger()); err == nil {
		t.Fatal("run() accepted block size 0")
	}
}

func TestConfigRejectsBadBits(t *testing.T) {
	in := existingInput(t)

	for _, bits := range []string{"8", "12", "20", "40", "-16"} {
		args := parseArgs(t, in, "out.wav", "--bits="+bits)
		if _, err := args.config(); err == nil {
			t.Fatalf("config() accepted --bits=%s", bits)
		}
	}

	for _, bits := range []string{"0", "16", "24", "32"} {
		args := parseArgs(t, in, "out.wav", "--bits="+bits)
		if _, err := args.config(); err != nil {
			t.Fatalf("config() rejected --bits=%s: %v", bits, err)
		}
	}
}

func TestRunRejectsBadBitsBeforeWriting(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.wav")

	args := parseArgs(t, existingInput(t), out, "--bits=20")
	if err := run(args, io.Discard, quietLogger()); err == nil {
		t.Fatal("run() accepted --bits=20")
	}

	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Fatalf("output written despite bad bit depth: %v", err)
	}
}

func TestTargetGain(t *testing.T) {
	in := testutil.DeterministicSine(1000, 48000, 0.25, 4096)
	out := make([]float64, len(in))

	for i, v := range in {
		out[i] = 0.5 * v
	}

	if g := targetGain(nil, in, out, 1000, 48000); !math.IsNaN(g) {
		t.Fatalf("targetGain without analyzer = %v, want NaN", g)
	}

	a, err := spectrum.NewAnalyzer(spectrum.SizeFor(len(in)))
	if err != nil {
		t.Fatal(err)
	}

	if g := targetGain(a, in, out, 1000, 48000); math.Abs(g-20*math.Log10(0.5)) > 1e-9 {
		t.Fatalf("targetGain = %v, want %v", g, 20*math.Log10(0.5))
	}

	if g := targetGain(a, in, out, 30000, 48000); !math.IsNaN(g) {
		t.Fatalf("targetGain above Nyquist = %v, want NaN", g)
	}
}
