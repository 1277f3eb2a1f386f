package dyneq

import (
	"fmt"
	"io"
	"math"

	"github.com/sirupsen/logrus"
)

// MaxSampleRate is the highest accepted sample rate in Hz.
const MaxSampleRate = 3072000

// Equalizer is a multi-channel dynamic equalizer. A Config generation
// applies to whole blocks; SetConfig between Process calls takes effect at
// the next block. An Equalizer is not safe for concurrent use, though a
// single Process call may fan channels out through its Dispatcher.
type Equalizer struct {
	cfg        Config
	logger     logrus.FieldLogger
	dispatcher Dispatcher

	allocated  bool
	channels   int
	sampleRate float64
	precision  Precision

	ch64 []channel64
	ch32 []channel32
}

// Option configures an Equalizer.
type Option func(*Equalizer)

// WithLogger sets the lifecycle logger. The default discards output.
func WithLogger(l logrus.FieldLogger) Option {
	return func(e *Equalizer) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithDispatcher sets how channels are scheduled within a block. The
// default is a ParallelDispatcher sized to GOMAXPROCS.
func WithDispatcher(d Dispatcher) Option {
	return func(e *Equalizer) {
		if d != nil {
			e.dispatcher = d
		}
	}
}

// New returns an unallocated Equalizer for cfg.
func New(cfg Config, opts ...Option) (*Equalizer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	quiet := logrus.New()
	quiet.SetOutput(io.Discard)

	e := &Equalizer{
		cfg:        cfg,
		logger:     quiet,
		dispatcher: ParallelDispatcher{},
	}

	for _, opt := range opts {
		opt(e)
	}

	return e, nil
}

// Allocate sizes per-channel state for channels at sampleRate. With
// PrecisionAuto the kernel width follows format; an explicit precision must
// match it. Any previous state is released first.
func (e *Equalizer) Allocate(channels int, sampleRate float64, format SampleFormat) error {
	log := e.logger.WithFields(logrus.Fields{
		"function":    "Equalizer.Allocate",
		"channels":    channels,
		"sample_rate": sampleRate,
		"format":      format.String(),
		"precision":   e.cfg.Precision.String(),
	})

	precision, err := e.resolve(channels, sampleRate, format)
	if err != nil {
		log.WithError(err).Error("Allocation rejected")
		return err
	}

	e.Reset()

	capacity := int(math.Round(sampleRate))

	switch precision {
	case PrecisionNarrow:
		e.ch32 = make([]channel32, channels)
		for ch := range e.ch32 {
			e.ch32[ch] = newChannel32(capacity)
		}
	default:
		e.ch64 = make([]channel64, channels)
		for ch := range e.ch64 {
			e.ch64[ch] = newChannel64(capacity)
		}
	}

	e.allocated = true
	e.channels = channels
	e.sampleRate = sampleRate
	e.precision = precision

	log.WithField("kernel", precision.String()).Info("Equalizer allocated")

	return nil
}

func (e *Equalizer) resolve(channels int, sampleRate float64, format SampleFormat) (Precision, error) {
	if channels < 1 {
		return 0, fmt.Errorf("channels must be positive: %d", channels)
	}

	if math.IsNaN(sampleRate) || sampleRate < 1 || sampleRate > MaxSampleRate {
		return 0, fmt.Errorf("sample rate must be in [1, %d]: %g", MaxSampleRate, sampleRate)
	}

	var native Precision

	switch format {
	case FormatFloat32:
		native = PrecisionNarrow
	case FormatFloat64:
		native = PrecisionWide
	default:
		return 0, fmt.Errorf("unsupported sample format: %v", format)
	}

	if e.cfg.Precision != PrecisionAuto && e.cfg.Precision != native {
		return 0, fmt.Errorf("%w: %v kernel with %v samples", ErrFormatMismatch, e.cfg.Precision, format)
	}

	return native, nil
}

// SetConfig installs a new configuration generation. After Allocate,
// Precision and Sidechain cannot change.
func (e *Equalizer) SetConfig(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	if e.allocated && (cfg.Precision != e.cfg.Precision || cfg.Sidechain != e.cfg.Sidechain) {
		return ErrInitOnlyChanged
	}

	if cfg.Detection != e.cfg.Detection {
		e.logger.WithFields(logrus.Fields{
			"function": "Equalizer.SetConfig",
			"from":     e.cfg.Detection.String(),
			"to":       cfg.Detection.String(),
		}).Debug("Detection mode changed")
	}

	e.cfg = cfg

	return nil
}

// Config returns the current configuration generation.
func (e *Equalizer) Config() Config { return e.cfg }

// Precision returns the allocated kernel width, or PrecisionAuto before
// Allocate.
func (e *Equalizer) Precision() Precision { return e.precision }

// Channels returns the allocated channel count.
func (e *Equalizer) Channels() int { return e.channels }

// SampleRate returns the allocated sample rate.
func (e *Equalizer) SampleRate() float64 { return e.sampleRate }

// Process32 filters one planar float32 block. dst and src hold one slice
// per channel and may be the same slices for in-place processing. sc is
// the sidechain block when Sidechain is enabled and must be nil otherwise.
func (e *Equalizer) Process32(dst, src, sc [][]float32) error {
	if err := e.check(PrecisionNarrow); err != nil {
		return err
	}

	if err := checkPlanar(e.channels, e.cfg.Sidechain, dst, src, sc); err != nil {
		return err
	}

	p := prepare(e.cfg, e.sampleRate).narrow()

	e.dispatcher.Run(e.channels, func(ch int) {
		var side []float32
		if sc != nil {
			side = sc[ch]
		}

		e.ch32[ch].process(dst[ch], src[ch], side, &p)
	})

	return nil
}

// Process64 filters one planar float64 block. See [Equalizer.Process32].
func (e *Equalizer) Process64(dst, src, sc [][]float64) error {
	if err := e.check(PrecisionWide); err != nil {
		return err
	}

	if err := checkPlanar(e.channels, e.cfg.Sidechain, dst, src, sc); err != nil {
		return err
	}

	p := prepare(e.cfg, e.sampleRate)

	e.dispatcher.Run(e.channels, func(ch int) {
		var side []float64
		if sc != nil {
			side = sc[ch]
		}

		e.ch64[ch].process(dst[ch], src[ch], side, &p)
	})

	return nil
}

func (e *Equalizer) check(want Precision) error {
	if !e.allocated {
		return ErrNotAllocated
	}

	if e.precision != want {
		return fmt.Errorf("%w: allocated %v", ErrFormatMismatch, e.precision)
	}

	return nil
}

func checkPlanar[T float32 | float64](channels int, sidechain bool, dst, src, sc [][]T) error {
	if len(src) != channels || len(dst) != channels {
		return fmt.Errorf("%w: want %d, got src %d dst %d", ErrChannelMismatch, channels, len(src), len(dst))
	}

	if sidechain != (sc != nil) {
		return ErrSidechainMismatch
	}

	if sc != nil && len(sc) != channels {
		return fmt.Errorf("%w: want %d, got sidechain %d", ErrChannelMismatch, channels, len(sc))
	}

	n := len(src[0])
	for ch := range channels {
		if len(src[ch]) != n || len(dst[ch]) != n {
			return fmt.Errorf("%w: channel %d", ErrLengthMismatch, ch)
		}

		if sc != nil && len(sc[ch]) != n {
			return fmt.Errorf("%w: sidechain channel %d", ErrLengthMismatch, ch)
		}
	}

	return nil
}

// Stats returns a snapshot of channel ch.
func (e *Equalizer) Stats(ch int) (ChannelStats, error) {
	if !e.allocated {
		return ChannelStats{}, ErrNotAllocated
	}

	if ch < 0 || ch >= e.channels {
		return ChannelStats{}, fmt.Errorf("%w: channel %d of %d", ErrChannelMismatch, ch, e.channels)
	}

	if e.precision == PrecisionNarrow {
		return e.ch32[ch].stats(), nil
	}

	return e.ch64[ch].stats(), nil
}

// Reset releases all per-channel state. Allocate must be called again
// before processing.
func (e *Equalizer) Reset() {
	if e.allocated {
		e.logger.WithFields(logrus.Fields{
			"function": "Equalizer.Reset",
			"channels": e.channels,
		}).Debug("Releasing channel state")
	}

	e.ch64 = nil
	e.ch32 = nil
	e.allocated = false
	e.channels = 0
	e.sampleRate = 0
	e.precision = PrecisionAuto
}
