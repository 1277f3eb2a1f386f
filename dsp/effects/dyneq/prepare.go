package dyneq

import (
	"math"

	"github.com/cwbudde/algo-dyneq/dsp/core"
	"github.com/cwbudde/algo-dyneq/dsp/filter/biquad"
	"github.com/cwbudde/algo-dyneq/dsp/filter/design"
)

const (
	// envelopeFloor keeps the envelope strictly positive before taking logs.
	envelopeFloor = 1e-9

	// gainTimeScale scales the detection attack/release coefficients into
	// the gain smoothing coefficients.
	gainTimeScale = 0.25

	// narrowGainLimitDB bounds the effective gain of the float32 kernel so
	// the shelf numerators stay finite.
	narrowGainLimitDB = 600.0
)

// SmoothingCoef returns the one-pole coefficient for a time constant of ms
// milliseconds at sampleRate: 1 - exp(-1 / (0.001 * ms * sampleRate)).
func SmoothingCoef(ms, sampleRate float64) float64 {
	return 1 - math.Exp(-1/(0.001*ms*sampleRate))
}

// prepared64 holds everything the kernel derives from one configuration
// generation and the sample rate.
type prepared64 struct {
	detect     biquad.Coefficients
	target     design.Basis
	targetType design.Type

	mode      Mode
	detection DetectionMode
	policy    ThresholdPolicy
	bypass    bool

	thresholdLog float64

	detectAttack, detectRelease float64
	gainAttack, gainRelease     float64

	ratio, rangeDB, makeupDB float64
	makeupLin                float64
	minGain, maxGain         float64
}

type prepared32 struct {
	detect     biquad.Coefficients32
	target     design.Basis32
	targetType design.Type

	mode      Mode
	detection DetectionMode
	policy    ThresholdPolicy
	bypass    bool

	thresholdLog float32

	detectAttack, detectRelease float32
	gainAttack, gainRelease     float32

	ratio, rangeDB, makeupDB float32
	makeupLin                float32
	minGain, maxGain         float32
}

// prepare derives the per-generation coefficients. Frequencies are clamped
// below Nyquist, so a validated cfg always yields finite coefficients.
func prepare(cfg Config, sampleRate float64) prepared64 {
	detectBasis, _ := design.NewBasis(cfg.DetectionFrequency, cfg.DetectionQ, sampleRate)
	targetBasis, _ := design.NewBasis(cfg.TargetFrequency, cfg.TargetQ, sampleRate)

	attack := SmoothingCoef(cfg.Attack, sampleRate)
	release := SmoothingCoef(cfg.Release, sampleRate)

	return prepared64{
		detect:        detectBasis.Coefficients(cfg.DetectionFilter.designType(), 1),
		target:        targetBasis,
		targetType:    cfg.TargetFilter.designType(),
		mode:          cfg.Mode,
		detection:     cfg.Detection,
		policy:        cfg.Adaptive,
		bypass:        cfg.Bypass,
		thresholdLog:  math.Log(math.Max(cfg.Threshold, envelopeFloor)),
		detectAttack:  attack,
		detectRelease: release,
		gainAttack:    attack * gainTimeScale,
		gainRelease:   release * gainTimeScale,
		ratio:         cfg.Ratio,
		rangeDB:       cfg.Range,
		makeupDB:      cfg.Makeup,
		makeupLin:     core.DBToLinear(cfg.Makeup),
		minGain:       core.DBToLinear(cfg.Makeup - cfg.Range),
		maxGain:       core.DBToLinear(cfg.Makeup + cfg.Range),
	}
}

// narrow converts p for the float32 kernel. The gain bounds additionally
// respect narrowGainLimitDB.
func (p prepared64) narrow() prepared32 {
	bound := func(db float64) float32 {
		return float32(core.DBToLinear(core.Clamp(db, -narrowGainLimitDB, narrowGainLimitDB)))
	}

	return prepared32{
		detect:        p.detect.To32(),
		target:        p.target.To32(),
		targetType:    p.targetType,
		mode:          p.mode,
		detection:     p.detection,
		policy:        p.policy,
		bypass:        p.bypass,
		thresholdLog:  float32(p.thresholdLog),
		detectAttack:  float32(p.detectAttack),
		detectRelease: float32(p.detectRelease),
		gainAttack:    float32(p.gainAttack),
		gainRelease:   float32(p.gainRelease),
		ratio:         float32(p.ratio),
		rangeDB:       float32(p.rangeDB),
		makeupDB:      float32(p.makeupDB),
		makeupLin:     bound(p.makeupDB),
		minGain:       bound(p.makeupDB - p.rangeDB),
		maxGain:       bound(p.makeupDB + p.rangeDB),
	}
}
