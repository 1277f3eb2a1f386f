package main

import (
	"fmt"
	"io"
	"math"
	"os"

	"github.com/alecthomas/kong"
	"github.com/cwbudde/algo-vecmath"
	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-dyneq/dsp/core"
	"github.com/cwbudde/algo-dyneq/dsp/effects/dyneq"
	"github.com/cwbudde/algo-dyneq/internal/audio"
	"github.com/cwbudde/algo-dyneq/internal/cli"
	"github.com/cwbudde/algo-dyneq/measure/spectrum"
)

var version = "0.1.0"

// CLI defines the command-line interface.
type CLI struct {
	Input     string `arg:"" name:"input" help:"PCM WAV file to process" type:"existingfile"`
	Output    string `arg:"" name:"output" help:"Destination WAV file" type:"path"`
	Sidechain string `short:"s" help:"Sidechain WAV file (mono or same channel count)" type:"existingfile"`

	Threshold  float64 `default:"0" help:"Detection threshold as linear amplitude (0-100)"`
	DFrequency float64 `name:"dfrequency" default:"1000" help:"Detection filter frequency in Hz"`
	DQ         float64 `name:"dqfactor" default:"1" help:"Detection filter Q"`
	TFrequency float64 `name:"tfrequency" default:"1000" help:"Target filter frequency in Hz"`
	TQ         float64 `name:"tqfactor" default:"1" help:"Target filter Q"`
	Attack     float64 `default:"20" help:"Attack time in ms"`
	Release    float64 `default:"200" help:"Release time in ms"`
	Ratio      float64 `default:"1" help:"Gain ratio (0 switches to the range limit)"`
	Makeup     float64 `default:"0" help:"Makeup gain in dB"`
	Range      float64 `default:"50" help:"Maximum gain change in dB"`

	Mode      string `default:"cutbelow" enum:"cutbelow,cutabove,boostbelow,boostabove,listen" help:"Gain mode"`
	DFType    string `name:"dftype" default:"bandpass" enum:"bandpass,lowpass,highpass,peak" help:"Detection filter type"`
	TFType    string `name:"tftype" default:"bell" enum:"bell,lowshelf,highshelf" help:"Target filter type"`
	Auto      string `default:"off" enum:"disabled,off,on,adaptive" help:"Threshold detection mode"`
	Policy    string `default:"gain" enum:"gain,detector,immediate" help:"Adaptive threshold smoothing"`
	Precision string `default:"auto" enum:"auto,float,double" help:"Kernel precision"`
	Bypass    bool   `help:"Pass audio through unchanged"`

	Block   int         `default:"1024" help:"Processing block size in frames"`
	Bits    int         `default:"0" help:"Output bit depth (0 keeps the input depth)"`
	Trim    float64     `default:"0" help:"Output trim in dB"`
	Dither  bool        `help:"Apply TPDF dither when writing the output"`
	Verbose bool        `help:"Log lifecycle events to stderr"`
	Version versionFlag `short:"v" help:"Show version information"`
}

type versionFlag bool

// BeforeReset prints the version before required arguments are checked.
func (versionFlag) BeforeReset(app *kong.Kong, vars kong.Vars) error {
	cli.PrintVersion(app.Stdout, vars["version"])
	app.Exit(0)

	return nil
}

func main() {
	var args CLI

	kong.Parse(&args,
		kong.Name("dyneq"),
		kong.Description("Adaptive dynamic equalizer for WAV files"),
		kong.UsageOnError(),
		kong.Vars{
			"version": version,
		},
		kong.Help(cli.StyledHelpPrinter("Adaptive dynamic equalizer for WAV files")),
	)

	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	logger.SetLevel(logrus.WarnLevel)

	if args.Verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	if err := run(&args, os.Stdout, logger); err != nil {
		cli.PrintError(err.Error())
		os.Exit(1)
	}
}

// config maps the flags onto an equalizer configuration.
func (c *CLI) config() (dyneq.Config, error) {
	cfg := dyneq.DefaultConfig()

	if c.Block < 1 {
		return cfg, fmt.Errorf("block size must be positive: %d", c.Block)
	}

	switch c.Bits {
	case 0, 16, 24, 32:
	default:
		return cfg, fmt.Errorf("output bit depth must be 16, 24 or 32: %d", c.Bits)
	}

	cfg.Threshold = c.Threshold
	cfg.DetectionFrequency = c.DFrequency
	cfg.DetectionQ = c.DQ
	cfg.TargetFrequency = c.TFrequency
	cfg.TargetQ = c.TQ
	cfg.Attack = c.Attack
	cfg.Release = c.Release
	cfg.Ratio = c.Ratio
	cfg.Makeup = c.Makeup
	cfg.Range = c.Range
	cfg.Bypass = c.Bypass
	cfg.Sidechain = c.Sidechain != ""

	var err error

	if cfg.Mode, err = dyneq.ParseMode(c.Mode); err != nil {
		return cfg, err
	}

	if cfg.DetectionFilter, err = dyneq.ParseDetectionFilter(c.DFType); err != nil {
		return cfg, err
	}

	if cfg.TargetFilter, err = dyneq.ParseTargetFilter(c.TFType); err != nil {
		return cfg, err
	}

	if cfg.Detection, err = dyneq.ParseDetectionMode(c.Auto); err != nil {
		return cfg, err
	}

	if cfg.Adaptive, err = dyneq.ParseThresholdPolicy(c.Policy); err != nil {
		return cfg, err
	}

	if cfg.Precision, err = dyneq.ParsePrecision(c.Precision); err != nil {
		return cfg, err
	}

	return cfg, cfg.Validate()
}

func run(args *CLI, stdout io.Writer, logger logrus.FieldLogger) error {
	cfg, err := args.config()
	if err != nil {
		return err
	}

	in, err := audio.ReadWAV(args.Input)
	if err != nil {
		return err
	}

	var sc [][]float64
	if cfg.Sidechain {
		side, err := audio.ReadWAV(args.Sidechain)
		if err != nil {
			return err
		}

		if sc, err = alignSidechain(side, in); err != nil {
			return err
		}
	}

	eq, err := dyneq.New(cfg, dyneq.WithLogger(logger))
	if err != nil {
		return err
	}

	format := dyneq.FormatFloat64
	if cfg.Precision == dyneq.PrecisionNarrow {
		format = dyneq.FormatFloat32
	}

	if err := eq.Allocate(len(in.Channels), float64(in.SampleRate), format); err != nil {
		return err
	}

	out := make([][]float64, len(in.Channels))
	for ch := range out {
		out[ch] = make([]float64, in.Frames())
	}

	if format == dyneq.FormatFloat32 {
		err = process32(eq, out, in.Channels, sc, args.Block)
	} else {
		err = process64(eq, out, in.Channels, sc, args.Block)
	}

	if err != nil {
		return err
	}

	if args.Trim != 0 {
		scale := core.DBToLinear(args.Trim)
		for ch := range out {
			vecmath.ScaleBlock(out[ch], out[ch], scale)
		}
	}

	bits := in.BitDepth
	if args.Bits != 0 {
		bits = args.Bits
	}

	var writeOpts []audio.WriteOption
	if args.Dither {
		writeOpts = append(writeOpts, audio.WithDither(1))
	}

	if err := audio.WriteWAV(args.Output, &audio.Buffer{SampleRate: in.SampleRate, BitDepth: bits, Channels: out}, writeOpts...); err != nil {
		return err
	}

	var analyzer *spectrum.Analyzer
	if size := spectrum.SizeFor(in.Frames()); size > 0 {
		if analyzer, err = spectrum.NewAnalyzer(size); err != nil {
			return err
		}
	}

	rows := make([]cli.ChannelReport, len(out))
	for ch := range out {
		st, err := eq.Stats(ch)
		if err != nil {
			return err
		}

		rows[ch] = cli.ChannelReport{
			Channel:   ch,
			InputDB:   cli.RMSDB(in.Channels[ch]),
			OutputDB:  cli.RMSDB(out[ch]),
			Stats:     st,
			Detection: cfg.Detection,
			TargetDB:  targetGain(analyzer, in.Channels[ch], out[ch], cfg.TargetFrequency, float64(in.SampleRate)),
		}
	}

	cli.PrintKeyValue(stdout, "Input", args.Input)
	cli.PrintKeyValue(stdout, "Output", args.Output)
	cli.PrintKeyValue(stdout, "Format", fmt.Sprintf("%d Hz, %d ch, %.2f s", in.SampleRate, len(in.Channels), in.Duration()))
	cli.PrintKeyValue(stdout, "Kernel", eq.Precision())
	fmt.Fprintln(stdout)
	fmt.Fprint(stdout, cli.RenderReport(rows))

	return nil
}

// targetGain measures the gain applied around the target frequency over the
// end of the file, where the gain has settled. It returns NaN when the band
// cannot be measured.
func targetGain(a *spectrum.Analyzer, in, out []float64, freq, sampleRate float64) float64 {
	if a == nil {
		return math.NaN()
	}

	g, err := a.GainDB(in, out, freq, sampleRate)
	if err != nil {
		return math.NaN()
	}

	return g
}

// alignSidechain matches the sidechain to the program layout. A mono
// sidechain feeds every channel; the length is padded with silence or
// truncated to the program length.
func alignSidechain(side, program *audio.Buffer) ([][]float64, error) {
	if side.SampleRate != program.SampleRate {
		return nil, fmt.Errorf("sidechain sample rate %d differs from input %d", side.SampleRate, program.SampleRate)
	}

	channels := len(program.Channels)
	if len(side.Channels) != 1 && len(side.Channels) != channels {
		return nil, fmt.Errorf("sidechain has %d channels, want 1 or %d", len(side.Channels), channels)
	}

	frames := program.Frames()
	out := make([][]float64, channels)

	for ch := range out {
		src := side.Channels[0]
		if len(side.Channels) == channels {
			src = side.Channels[ch]
		}

		out[ch] = make([]float64, frames)
		copy(out[ch], src)
	}

	return out, nil
}

func process64(eq *dyneq.Equalizer, dst, src, sc [][]float64, block int) error {
	frames := len(src[0])

	for start := 0; start < frames; start += block {
		end := min(start+block, frames)

		if err := eq.Process64(slice(dst, start, end), slice(src, start, end), slice(sc, start, end)); err != nil {
			return err
		}
	}

	return nil
}

func process32(eq *dyneq.Equalizer, dst, src, sc [][]float64, block int) error {
	frames := len(src[0])
	channels := len(src)

	in := make([][]float32, channels)
	out := make([][]float32, channels)

	var side [][]float32
	if sc != nil {
		side = make([][]float32, channels)
	}

	for ch := range channels {
		in[ch] = make([]float32, block)
		out[ch] = make([]float32, block)

		if side != nil {
			side[ch] = make([]float32, block)
		}
	}

	for start := 0; start < frames; start += block {
		n := min(block, frames-start)

		for ch := range channels {
			narrow(in[ch][:n], src[ch][start:start+n])

			if side != nil {
				narrow(side[ch][:n], sc[ch][start:start+n])
			}
		}

		if err := eq.Process32(slice(out, 0, n), slice(in, 0, n), slice(side, 0, n)); err != nil {
			return err
		}

		for ch := range channels {
			for i, v := range out[ch][:n] {
				dst[ch][start+i] = float64(v)
			}
		}
	}

	return nil
}

func narrow(dst []float32, src []float64) {
	for i, v := range src {
		dst[i] = float32(v)
	}
}

// slice returns the [start, end) window of every channel, or nil for nil.
func slice[T any](planar [][]T, start, end int) [][]T {
	if planar == nil {
		return nil
	}

	out := make([][]T, len(planar))
	for ch := range planar {
		out[ch] = planar[ch][start:end]
	}

	return out
}
