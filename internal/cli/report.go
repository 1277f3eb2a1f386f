package cli

import (
	"fmt"
	"math"
	"strings"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-dyneq/dsp/effects/dyneq"
)

// ChannelReport summarizes one processed channel.
type ChannelReport struct {
	Channel   int
	InputDB   float64
	OutputDB  float64
	Stats     dyneq.ChannelStats
	Detection dyneq.DetectionMode

	// TargetDB is the measured output/input gain at the target frequency,
	// NaN when it could not be measured.
	TargetDB float64
}

// RMSDB returns the RMS level of x in dBFS, or -Inf for silence.
func RMSDB(x []float64) float64 {
	if len(x) == 0 {
		return math.Inf(-1)
	}

	sq := make([]float64, len(x))
	vecmath.MulBlock(sq, x, x)

	var sum float64
	for _, v := range sq {
		sum += v
	}

	if sum == 0 {
		return math.Inf(-1)
	}

	return 10 * math.Log10(sum/float64(len(x)))
}

// RenderReport formats per-channel results as an aligned table.
func RenderReport(rows []ChannelReport) string {
	if len(rows) == 0 {
		return ""
	}

	headers := []string{"ch", "in dB", "out dB", "level dB", "thresh dB", "gain dB", "target dB", "window"}
	cells := make([][]string, 0, len(rows))

	for _, r := range rows {
		window := "-"
		if r.Detection == dyneq.DetectionOn || r.Detection == dyneq.DetectionAdaptive {
			window = fmt.Sprintf("%.0f%%", 100*r.Stats.WindowFill)
		}

		cells = append(cells, []string{
			fmt.Sprint(r.Channel),
			formatDB(r.InputDB),
			formatDB(r.OutputDB),
			formatDB(r.Stats.LevelDB),
			formatDB(r.Stats.ThresholdDB),
			fmt.Sprintf("%+.2f", r.Stats.GainDB),
			formatGain(r.TargetDB),
			window,
		})
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}

	for _, row := range cells {
		for i, c := range row {
			widths[i] = max(widths[i], len(c))
		}
	}

	var sb strings.Builder

	header := make([]string, len(headers))
	for i, h := range headers {
		header[i] = fmt.Sprintf("%*s", widths[i], h)
	}

	sb.WriteString(HeaderStyle.Render(strings.Join(header, "  ")))
	sb.WriteString("\n")

	for _, row := range cells {
		line := make([]string, len(row))
		for i, c := range row {
			line[i] = fmt.Sprintf("%*s", widths[i], c)
		}

		sb.WriteString(strings.Join(line, "  "))
		sb.WriteString("\n")
	}

	return sb.String()
}

func formatGain(v float64) string {
	switch {
	case math.IsNaN(v):
		return "-"
	case math.IsInf(v, -1):
		return "-inf"
	default:
		return fmt.Sprintf("%+.2f", v)
	}
}

func formatDB(v float64) string {
	if math.IsInf(v, -1) {
		return "-inf"
	}

	return fmt.Sprintf("%.2f", v)
}
