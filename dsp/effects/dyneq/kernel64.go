package dyneq

import (
	"math"

	"github.com/cwbudde/algo-dyneq/dsp/core"
	"github.com/cwbudde/algo-dyneq/dsp/filter/biquad"
)

// channel64 is the float64 per-channel state. The only recursive filter
// state is the detect and program sections. The threshold estimator reads the
// same envelope that drives the gain, so that path carries no delay line of
// its own.
type channel64 struct {
	detect  biquad.Section
	program biquad.Section

	envelope Follower64
	gain     float64

	thresholdLog float64
	candidateLog float64
	window       *Window64

	last    DetectionMode
	held    bool
	started bool
}

func newChannel64(windowCapacity int) channel64 {
	return channel64{
		detect:  biquad.Section{Coefficients: biquad.Identity()},
		program: biquad.Section{Coefficients: biquad.Identity()},
		window:  NewWindow64(windowCapacity),
		last:    detectionUnset,
	}
}

// beginBlock applies detection-mode transitions for the block about to run.
func (c *channel64) beginBlock(p *prepared64) {
	c.detect.Coefficients = p.detect

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
func (c *channel64) process(dst, src, sc []float64, p *prepared64) {
	c.beginBlock(p)

	if !c.started {
		c.gain = p.makeupLin
		c.started = true
	}

	listen := p.mode == ModeListen
	c.program.Coefficients = p.target.Coefficients(p.targetType, math.Sqrt(c.gain))

	for i, x := range src {
		s := x
		if sc != nil {
			s = sc[i]
		}

		d := c.detect.ProcessSample(s)
		env := c.envelope.Value
		if !listen {
			env = c.envelope.Process(math.Abs(d), p.detectAttack, p.detectRelease)
		}

		env = math.Max(env, envelopeFloor)

		if p.detection.estimating() {
			c.estimate(env, p)
		}

		if !listen {
			delta := core.NepersToDB(mathLog(env) - c.thresholdLog)
			target := mathExp((MapGain(p.mode, delta, p.ratio, p.rangeDB) + p.makeupDB) * ln10Over20)
			gain := core.Clamp(follow64(c.gain, target, p.gainAttack, p.gainRelease), p.minGain, p.maxGain)

			if gain != c.gain {
				c.gain = gain
				c.program.Coefficients = p.target.Coefficients(p.targetType, math.Sqrt(gain))
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
func (c *channel64) estimate(env float64, p *prepared64) {
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
		c.thresholdLog = follow64(c.thresholdLog, c.candidateLog, p.detectAttack, p.detectRelease)
	default:
		c.thresholdLog = follow64(c.thresholdLog, c.candidateLog, p.gainAttack, p.gainRelease)
	}
}

func (c *channel64) stats() ChannelStats {
	return ChannelStats{
		Envelope:    c.envelope.Value,
		LevelDB:     core.LinearToDB(math.Max(c.envelope.Value, envelopeFloor)),
		ThresholdDB: core.NepersToDB(c.thresholdLog),
		CandidateDB: core.NepersToDB(c.candidateLog),
		GainDB:      core.LinearToDB(c.gain),
		WindowFill:  float64(c.window.Len()) / float64(c.window.Cap()),
		Flatness:    c.window.Flatness(),
		Held:        c.held,
	}
}
