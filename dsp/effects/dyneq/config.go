package dyneq

import (
	"fmt"
	"strings"

	"github.com/cwbudde/algo-dyneq/dsp/core"
	"github.com/cwbudde/algo-dyneq/dsp/filter/design"
)

// Parameter bounds.
const (
	MinThreshold = 0.0
	MaxThreshold = 100.0
	MinFrequency = 2.0
	MaxFrequency = 1000000.0
	MinQ         = 0.001
	MaxQ         = 1000.0
	MinTimeMs    = 0.01
	MaxTimeMs    = 2000.0
	MinRatio     = 0.0
	MaxRatio     = 30.0
	MinMakeupDB  = 0.0
	MaxMakeupDB  = 1000.0
	MinRangeDB   = 1.0
	MaxRangeDB   = 2000.0
)

// Mode selects how the detected level drives the target filter gain.
type Mode int

const (
	// ModeCutBelow attenuates while the level is below the threshold.
	ModeCutBelow Mode = iota
	// ModeCutAbove attenuates while the level is above the threshold.
	ModeCutAbove
	// ModeBoostBelow boosts while the level is below the threshold.
	ModeBoostBelow
	// ModeBoostAbove boosts while the level is above the threshold.
	ModeBoostAbove
	// ModeListen outputs the detection-filtered signal.
	ModeListen
)

var modeNames = map[Mode]string{
	ModeCutBelow:   "cutbelow",
	ModeCutAbove:   "cutabove",
	ModeBoostBelow: "boostbelow",
	ModeBoostAbove: "boostabove",
	ModeListen:     "listen",
}

func (m Mode) String() string { return enumString(modeNames, m, "Mode") }

// ParseMode parses a mode name such as "cutabove".
func ParseMode(s string) (Mode, error) { return parseEnum(modeNames, s, "mode") }

// DetectionFilter selects the detection-path filter shape.
type DetectionFilter int

const (
	DetectBandpass DetectionFilter = iota
	DetectLowpass
	DetectHighpass
	DetectPeak
)

var detectionFilterNames = map[DetectionFilter]string{
	DetectBandpass: "bandpass",
	DetectLowpass:  "lowpass",
	DetectHighpass: "highpass",
	DetectPeak:     "peak",
}

func (f DetectionFilter) String() string {
	return enumString(detectionFilterNames, f, "DetectionFilter")
}

// ParseDetectionFilter parses a detection filter name.
func ParseDetectionFilter(s string) (DetectionFilter, error) {
	return parseEnum(detectionFilterNames, s, "detection filter")
}

func (f DetectionFilter) designType() design.Type {
	switch f {
	case DetectLowpass:
		return design.TypeLowpass
	case DetectHighpass:
		return design.TypeHighpass
	case DetectPeak:
		return design.TypePeak
	default:
		return design.TypeBandpass
	}
}

// TargetFilter selects the program-path equalizer shape.
type TargetFilter int

const (
	TargetBell TargetFilter = iota
	TargetLowShelf
	TargetHighShelf
)

var targetFilterNames = map[TargetFilter]string{
	TargetBell:      "bell",
	TargetLowShelf:  "lowshelf",
	TargetHighShelf: "highshelf",
}

func (f TargetFilter) String() string { return enumString(targetFilterNames, f, "TargetFilter") }

// ParseTargetFilter parses a target filter name.
func ParseTargetFilter(s string) (TargetFilter, error) {
	return parseEnum(targetFilterNames, s, "target filter")
}

func (f TargetFilter) designType() design.Type {
	switch f {
	case TargetLowShelf:
		return design.TypeLowShelf
	case TargetHighShelf:
		return design.TypeHighShelf
	default:
		return design.TypeBell
	}
}

// DetectionMode controls where the threshold comes from.
type DetectionMode int

const (
	// DetectionDisabled always uses the static threshold.
	DetectionDisabled DetectionMode = iota
	// DetectionOff uses the static threshold, or holds the last learned
	// threshold when switched to from On or Adaptive.
	DetectionOff
	// DetectionOn adopts the one-second window mean as soon as the window
	// has filled.
	DetectionOn
	// DetectionAdaptive glides the threshold toward the window mean through
	// the configured ThresholdPolicy.
	DetectionAdaptive

	// detectionUnset marks a channel that has not processed a block yet.
	detectionUnset DetectionMode = -1
)

var detectionModeNames = map[DetectionMode]string{
	DetectionDisabled: "disabled",
	DetectionOff:      "off",
	DetectionOn:       "on",
	DetectionAdaptive: "adaptive",
}

func (d DetectionMode) String() string {
	return enumString(detectionModeNames, d, "DetectionMode")
}

// ParseDetectionMode parses a detection mode name.
func ParseDetectionMode(s string) (DetectionMode, error) {
	return parseEnum(detectionModeNames, s, "detection mode")
}

func (d DetectionMode) estimating() bool {
	return d == DetectionOn || d == DetectionAdaptive
}

// Precision selects the kernel floating-point width.
type Precision int

const (
	// PrecisionAuto follows the negotiated sample format.
	PrecisionAuto Precision = iota
	// PrecisionNarrow runs the float32 kernel.
	PrecisionNarrow
	// PrecisionWide runs the float64 kernel.
	PrecisionWide
)

var precisionNames = map[Precision]string{
	PrecisionAuto:   "auto",
	PrecisionNarrow: "float",
	PrecisionWide:   "double",
}

var precisionAliases = map[string]Precision{
	"narrow": PrecisionNarrow,
	"wide":   PrecisionWide,
}

func (p Precision) String() string { return enumString(precisionNames, p, "Precision") }

// ParsePrecision parses "auto", "float"/"narrow" or "double"/"wide".
func ParsePrecision(s string) (Precision, error) {
	if p, ok := precisionAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return p, nil
	}

	return parseEnum(precisionNames, s, "precision")
}

// SampleFormat is the planar sample format negotiated by the host.
type SampleFormat int

const (
	FormatUnknown SampleFormat = iota
	FormatFloat32
	FormatFloat64
)

func (f SampleFormat) String() string {
	switch f {
	case FormatFloat32:
		return "float32"
	case FormatFloat64:
		return "float64"
	default:
		return fmt.Sprintf("SampleFormat(%d)", int(f))
	}
}

// ThresholdPolicy is the rule Adaptive detection uses to move the adopted
// threshold toward the window mean.
type ThresholdPolicy int

const (
	// PolicyGainSmoothed follows the candidate with the gain attack/release pair.
	PolicyGainSmoothed ThresholdPolicy = iota
	// PolicyDetectorSmoothed follows the candidate with the detection attack/release pair.
	PolicyDetectorSmoothed
	// PolicyImmediate replaces the threshold with the candidate every sample.
	PolicyImmediate
)

var thresholdPolicyNames = map[ThresholdPolicy]string{
	PolicyGainSmoothed:     "gain",
	PolicyDetectorSmoothed: "detector",
	PolicyImmediate:        "immediate",
}

func (p ThresholdPolicy) String() string {
	return enumString(thresholdPolicyNames, p, "ThresholdPolicy")
}

// ParseThresholdPolicy parses "gain", "detector" or "immediate".
func ParseThresholdPolicy(s string) (ThresholdPolicy, error) {
	return parseEnum(thresholdPolicyNames, s, "threshold policy")
}

// Config is one generation of equalizer settings. Threshold is a linear
// detection amplitude; its natural logarithm is the static threshold.
// Makeup and Range are in dB, Attack and Release in milliseconds.
type Config struct {
	Threshold          float64
	DetectionFrequency float64
	DetectionQ         float64
	TargetFrequency    float64
	TargetQ            float64
	Attack             float64
	Release            float64
	Ratio              float64
	Makeup             float64
	Range              float64

	Mode            Mode
	DetectionFilter DetectionFilter
	TargetFilter    TargetFilter
	Detection       DetectionMode
	Precision       Precision
	Sidechain       bool

	// Adaptive selects how DetectionAdaptive adopts the window mean.
	Adaptive ThresholdPolicy

	// Bypass passes the input through unchanged while state keeps running.
	Bypass bool
}

// DefaultConfig returns the stock settings: 1 kHz detection and target at
// Q 1, 20 ms attack, 200 ms release, ratio 1, 50 dB range, cut-below mode,
// bandpass detection, bell target, detection off.
func DefaultConfig() Config {
	return Config{
		Threshold:          0,
		DetectionFrequency: 1000,
		DetectionQ:         1,
		TargetFrequency:    1000,
		TargetQ:            1,
		Attack:             20,
		Release:            200,
		Ratio:              1,
		Makeup:             0,
		Range:              50,
		Mode:               ModeCutBelow,
		DetectionFilter:    DetectBandpass,
		TargetFilter:       TargetBell,
		Detection:          DetectionOff,
		Precision:          PrecisionAuto,
		Adaptive:           PolicyGainSmoothed,
	}
}

// Validate checks every parameter against its documented bounds.
//
//nolint:cyclop
func (c Config) Validate() error {
	ranges := []struct {
		name     string
		value    float64
		min, max float64
	}{
		{"threshold", c.Threshold, MinThreshold, MaxThreshold},
		{"detection frequency", c.DetectionFrequency, MinFrequency, MaxFrequency},
		{"detection Q", c.DetectionQ, MinQ, MaxQ},
		{"target frequency", c.TargetFrequency, MinFrequency, MaxFrequency},
		{"target Q", c.TargetQ, MinQ, MaxQ},
		{"attack", c.Attack, MinTimeMs, MaxTimeMs},
		{"release", c.Release, MinTimeMs, MaxTimeMs},
		{"ratio", c.Ratio, MinRatio, MaxRatio},
		{"makeup", c.Makeup, MinMakeupDB, MaxMakeupDB},
		{"range", c.Range, MinRangeDB, MaxRangeDB},
	}

	for _, r := range ranges {
		if !core.IsFinite(r.value) || r.value < r.min || r.value > r.max {
			return fmt.Errorf("%s must be in [%g, %g]: %g", r.name, r.min, r.max, r.value)
		}
	}

	if _, ok := modeNames[c.Mode]; !ok {
		return fmt.Errorf("invalid mode: %d", c.Mode)
	}

	if _, ok := detectionFilterNames[c.DetectionFilter]; !ok {
		return fmt.Errorf("invalid detection filter: %d", c.DetectionFilter)
	}

	if _, ok := targetFilterNames[c.TargetFilter]; !ok {
		return fmt.Errorf("invalid target filter: %d", c.TargetFilter)
	}

	if _, ok := detectionModeNames[c.Detection]; !ok {
		return fmt.Errorf("invalid detection mode: %d", c.Detection)
	}

	if _, ok := precisionNames[c.Precision]; !ok {
		return fmt.Errorf("invalid precision: %d", c.Precision)
	}

	if _, ok := thresholdPolicyNames[c.Adaptive]; !ok {
		return fmt.Errorf("invalid threshold policy: %d", c.Adaptive)
	}

	return nil
}

func enumString[E ~int](names map[E]string, v E, typeName string) string {
	if s, ok := names[v]; ok {
		return s
	}

	return fmt.Sprintf("%s(%d)", typeName, int(v))
}

func parseEnum[E ~int](names map[E]string, s, what string) (E, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for v, name := range names {
		if name == key {
			return v, nil
		}
	}

	return 0, fmt.Errorf("unknown %s: %q", what, s)
}
