package dyneq

import (
	"math"

	"github.com/cwbudde/algo-dyneq/dsp/core"
	"github.com/cwbudde/algo-dyneq/dsp/filter/biquad"
)

// channel32 is the float32 per-channel state. The only recursive filter
// state is the detect and program sections. The threshold estimator reads the
// same envelope that drives the gain, so that path carries no delay line of
// its own.
type channel32 struct {
	detect  biquad.Section32
	program biquad.Section32

	envelope Follower32
	gain     float32

	thresholdLog float32
	candidateLog float32
	window       *Window32

	last    DetectionMode
	held    bool
	started bool
}

func newChannel32(windowCapacity int) channel32 {
	return channel32{
		detect:  biquad.Section32{Coefficients32: biquad.Identity().To32()},
		program: biquad.Section32{Coefficients32: biquad.Identity().To32()},
		window:  NewWindow32(windowCapacity),
		last:    detectionUnset,
	}
}

// beginBlock applies detection-mode transitions for the block about to run.
func (c *channel32) beginBlock(p *prepared32) {
	c.detect.Coefficients32 = p.detect

	switch p.detection {
	case DetectionDisabled:
		c.held = false
		c.thresholdLog = p.thresholdLog
	case DetectionOff:
		if c.last.estimating() {
			c.held = true
		}

		if !c.held {
			c.thresholdLog = p.thresholdLog
		}
	case DetectionOn, DetectionAdaptive:
		if !c.last.estimating() {
			if !c.held {
				c.thresholdLog = p.thresholdLog
			}

			c.window.Reset()
		}

		c.held = false
	}

	c.last = p.detection
}

// process runs one block. sc is nil without a sidechain. dst may alias src.
func (c *channel32) process(dst, src, sc []float32, p *prepared32) {
	c.beginBlock(p)

	if !c.started {
		c.gain = p.makeupLin
		c.started = true
	}

	listen := p.mode == ModeListen
	c.program.Coefficients32 = p.target.Coefficients(p.targetType, sqrt32(c.gain))

	for i, x := range src {
		s := x
		if sc != nil {
			s = sc[i]
		}

		d := c.detect.ProcessSample(s)
		env := c.envelope.Value
		if !listen {
			env = c.envelope.Process(abs32(d), p.detectAttack, p.detectRelease)
		}

		env = max(env, envelopeFloor)

		if p.detection.estimating() {
			c.estimate(env, p)
		}

		if !listen {
			delta := nepersToDB32 * (float32(mathLog(float64(env))) - c.thresholdLog)
			target := float32(mathExp(float64((mapGain32(p.mode, delta, p.ratio, p.rangeDB) + p.makeupDB) * ln10Over20)))
			gain := core.Clamp32(follow32(c.gain, target, p.gainAttack, p.gainRelease), p.minGain, p.maxGain)

			if gain != c.gain {
				c.gain = gain
				c.program.Coefficients32 = p.target.Coefficients(p.targetType, sqrt32(gain))
			}
		}

		y := c.program.ProcessSample(x)

		switch {
		case p.bypass:
			dst[i] = x
		case listen:
			dst[i] = d
		default:
			dst[i] = y
		}
	}
}

// estimate feeds the sliding window and moves the adopted threshold.
func (c *channel32) estimate(env float32, p *prepared32) {
	c.window.Push(env)
	c.candidateLog = c.window.MeanLog()

	if !c.window.Filled() {
		return
	}

	if p.detection == DetectionOn {
		c.thresholdLog = c.candidateLog
		return
	}

	switch p.policy {
	case PolicyImmediate:
		c.thresholdLog = c.candidateLog
	case PolicyDetectorSmoothed:
		c.thresholdLog = follow32(c.thresholdLog, c.candidateLog, p.detectAttack, p.detectRelease)
	default:
		c.thresholdLog = follow32(c.thresholdLog, c.candidateLog, p.gainAttack, p.gainRelease)
	}
}

func (c *channel32) stats() ChannelStats {
	return ChannelStats{
		Envelope:    float64(c.envelope.Value),
		LevelDB:     core.LinearToDB(math.Max(float64(c.envelope.Value), envelopeFloor)),
		ThresholdDB: core.NepersToDB(float64(c.thresholdLog)),
		CandidateDB: core.NepersToDB(float64(c.candidateLog)),
		GainDB:      core.LinearToDB(float64(c.gain)),
		WindowFill:  float64(c.window.Len()) / float64(c.window.Cap()),
		Flatness:    float64(c.window.Flatness()),
		Held:        c.held,
	}
}

const nepersToDB32 float32 = 8.685889638065035

func abs32(x float32) float32 {
	if x < 0 {
		return -x
	}

	return x
}

func sqrt32(x float32) float32 {
	return float32(math.Sqrt(float64(x)))
}
