package cli

import (
	"math"
	"strings"
	"testing"

	"github.com/cwbudde/algo-dyneq/dsp/effects/dyneq"
)

func TestRMSDB(t *testing.T) {
	tests := []struct {
		name string
		in   []float64
		want float64
	}{
		{"full scale square", []float64{1, -1, 1, -1}, 0},
		{"half amplitude", []float64{0.5, -0.5}, 20 * math.Log10(0.5)},
		{"silence", []float64{0, 0, 0}, math.Inf(-1)},
		{"empty", nil, math.Inf(-1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RMSDB(tt.in)
			if math.IsInf(tt.want, -1) {
				if !math.IsInf(got, -1) {
					t.Fatalf("RMSDB() = %v, want -Inf", got)
				}

				return
			}

			if math.Abs(got-tt.want) > 1e-9 {
				t.Fatalf("RMSDB() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRenderReport(t *testing.T) {
	if RenderReport(nil) != "" {
		t.Fatal("empty report should render nothing")
	}

	out := RenderReport([]ChannelReport{
		{
			Channel:   0,
			InputDB:   -12.5,
			OutputDB:  -9.25,
			Stats:     dyneq.ChannelStats{LevelDB: -20, ThresholdDB: -30, GainDB: 3.25, WindowFill: 1},
			Detection: dyneq.DetectionAdaptive,
			TargetDB:  4.5,
		},
		{
			Channel:   1,
			InputDB:   math.Inf(-1),
			OutputDB:  math.Inf(-1),
			Detection: dyneq.DetectionOff,
			TargetDB:  math.NaN(),
		},
	})

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("report has %d lines:\n%s", len(lines), out)
	}

	for _, want := range []string{"-12.50", "-9.25", "+3.25", "+4.50", "100%"} {
		if !strings.Contains(lines[1], want) {
			t.Fatalf("row 0 %q missing %q", lines[1], want)
		}
	}

	if !strings.Contains(lines[0], "target dB") {
		t.Fatalf("header = %q", lines[0])
	}

	fields := strings.Fields(lines[2])
	if !strings.Contains(lines[2], "-inf") || fields[len(fields)-2] != "-" || fields[len(fields)-1] != "-" {
		t.Fatalf("row 1 = %q", lines[2])
	}
}
