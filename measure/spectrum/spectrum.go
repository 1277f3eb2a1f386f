package spectrum

import (
	"errors"
	"fmt"
	"math"

	algofft "github.com/cwbudde/algo-fft"
)

const (
	// DefaultCaptureBins is the half-width, in bins, of the band summed
	// around the analysis frequency. It covers the Hann main lobe.
	DefaultCaptureBins = 3

	// MaxSize bounds the frame length chosen by SizeFor.
	MaxSize = 1 << 16
)

var (
	// ErrInvalidInput reports an unusable size, frequency or signal.
	ErrInvalidInput = errors.New("spectrum: invalid input")

	// ErrNoSignal reports a reference band with no energy.
	ErrNoSignal = errors.New("spectrum: no signal in band")
)

// Analyzer computes Hann-windowed band power over frames of a fixed size.
// It is not safe for concurrent use.
type Analyzer struct {
	size   int
	plan   *algofft.Plan[complex128]
	window []float64
	in     []complex128
	out    []complex128
}

// NewAnalyzer creates an analyzer for frames of size samples. size must be
// a power of two of at least 2.
func NewAnalyzer(size int) (*Analyzer, error) {
	if size < 2 || size&(size-1) != 0 {
		return nil, fmt.Errorf("%w: FFT size must be a power of two >= 2: %d", ErrInvalidInput, size)
	}

	plan, err := algofft.NewPlan64(size)
	if err != nil {
		return nil, fmt.Errorf("spectrum: failed to create FFT plan: %w", err)
	}

	window := make([]float64, size)
	for i := range window {
		window[i] = 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(size))
	}

	return &Analyzer{
		size:   size,
		plan:   plan,
		window: window,
		in:     make([]complex128, size),
		out:    make([]complex128, size),
	}, nil
}

// SizeFor returns the largest power of two not above frames, capped at
// MaxSize. It returns 0 when frames is below 2.
func SizeFor(frames int) int {
	if frames < 2 {
		return 0
	}

	size := 2
	for size*2 <= frames && size < MaxSize {
		size *= 2
	}

	return size
}

// Size returns the frame length.
func (a *Analyzer) Size() int { return a.size }

// BandPower returns the windowed power of the bins within captureBins of
// freq. Only the last Size samples of x are analyzed; a shorter x is
// zero-padded. captureBins below 0 selects DefaultCaptureBins.
func (a *Analyzer) BandPower(x []float64, freq, sampleRate float64, captureBins int) (float64, error) {
	center, err := a.bin(freq, sampleRate)
	if err != nil {
		return 0, err
	}

	if len(x) == 0 {
		return 0, fmt.Errorf("%w: empty signal", ErrInvalidInput)
	}

	if captureBins < 0 {
		captureBins = DefaultCaptureBins
	}

	if len(x) > a.size {
		x = x[len(x)-a.size:]
	}

	clear(a.in)

	for i, v := range x {
		a.in[i] = complex(v*a.window[i], 0)
	}

	if err := a.plan.Forward(a.out, a.in); err != nil {
		return 0, fmt.Errorf("spectrum: forward FFT failed: %w", err)
	}

	nyquist := a.size / 2
	lo := max(0, center-captureBins)
	hi := min(nyquist, center+captureBins)

	var power float64
	for k := lo; k <= hi; k++ {
		c := a.out[k]
		power += real(c)*real(c) + imag(c)*imag(c)
	}

	return power, nil
}

// GainDB returns the level of out relative to ref in the band around freq,
// in dB. Both signals are aligned on their last Size samples.
func (a *Analyzer) GainDB(ref, out []float64, freq, sampleRate float64) (float64, error) {
	pRef, err := a.BandPower(ref, freq, sampleRate, DefaultCaptureBins)
	if err != nil {
		return 0, err
	}

	if pRef == 0 {
		return 0, ErrNoSignal
	}

	pOut, err := a.BandPower(out, freq, sampleRate, DefaultCaptureBins)
	if err != nil {
		return 0, err
	}

	if pOut == 0 {
		return math.Inf(-1), nil
	}

	return 10 * math.Log10(pOut/pRef), nil
}

func (a *Analyzer) bin(freq, sampleRate float64) (int, error) {
	if !(sampleRate > 0) || math.IsInf(sampleRate, 0) {
		return 0, fmt.Errorf("%w: sample rate must be positive: %g", ErrInvalidInput, sampleRate)
	}

	if !(freq > 0) || freq >= sampleRate/2 {
		return 0, fmt.Errorf("%w: frequency must be in (0, %g): %g", ErrInvalidInput, sampleRate/2, freq)
	}

	return int(math.Round(freq * float64(a.size) / sampleRate)), nil
}
