// Package audio reads and writes PCM WAV files as planar float64 channels.
package audio

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"os"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const wavFormatPCM = 1

// ErrInvalidWAV is returned for files that are not PCM WAV.
var ErrInvalidWAV = errors.New("audio: not a PCM WAV file")

// Buffer is a planar block of normalized samples in [-1, 1).
type Buffer struct {
	SampleRate int
	BitDepth   int
	Channels   [][]float64
}

// Frames returns the number of samples per channel.
func (b *Buffer) Frames() int {
	if len(b.Channels) == 0 {
		return 0
	}

	return len(b.Channels[0])
}

// Duration returns the buffer length in seconds.
func (b *Buffer) Duration() float64 {
	if b.SampleRate <= 0 {
		return 0
	}

	return float64(b.Frames()) / float64(b.SampleRate)
}

// ReadWAV decodes a 16, 24 or 32-bit PCM WAV file.
func ReadWAV(path string) (*Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidWAV, path)
	}

	if dec.WavAudioFormat != wavFormatPCM {
		return nil, fmt.Errorf("%w: %s uses format %d", ErrInvalidWAV, path, dec.WavAudioFormat)
	}

	pcm, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	bitDepth := int(dec.BitDepth)
	if bitDepth < 16 || bitDepth > 32 {
		return nil, fmt.Errorf("%w: %s has %d-bit samples", ErrInvalidWAV, path, bitDepth)
	}

	channels := pcm.Format.NumChannels
	if channels < 1 {
		return nil, fmt.Errorf("%w: %s has no channels", ErrInvalidWAV, path)
	}

	return &Buffer{
		SampleRate: pcm.Format.SampleRate,
		BitDepth:   bitDepth,
		Channels:   deinterleave(pcm.Data, channels, fullScale(bitDepth)),
	}, nil
}

// WriteOption configures WriteWAV.
type WriteOption func(*writeConfig)

type writeConfig struct {
	rng *rand.Rand
}

// WithDither adds triangular (TPDF) dither of one LSB peak before rounding.
// The seed makes the noise reproducible.
func WithDither(seed int64) WriteOption {
	return func(c *writeConfig) {
		c.rng = rand.New(rand.NewSource(seed))
	}
}

// WriteWAV encodes buf as PCM at buf.BitDepth. Samples outside [-1, 1) are
// clipped.
func WriteWAV(path string, buf *Buffer, opts ...WriteOption) error {
	var cfg writeConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	if len(buf.Channels) == 0 {
		return errors.New("audio: no channels to write")
	}

	if buf.BitDepth < 16 || buf.BitDepth > 32 || buf.BitDepth%8 != 0 {
		return fmt.Errorf("audio: unsupported bit depth %d", buf.BitDepth)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}

	enc := wav.NewEncoder(f, buf.SampleRate, buf.BitDepth, len(buf.Channels), wavFormatPCM)

	pcm := &goaudio.IntBuffer{
		Format: &goaudio.Format{
			NumChannels: len(buf.Channels),
			SampleRate:  buf.SampleRate,
		},
		Data:           interleave(buf.Channels, fullScale(buf.BitDepth), cfg.rng),
		SourceBitDepth: buf.BitDepth,
	}

	if err := enc.Write(pcm); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}

	if err := enc.Close(); err != nil {
		f.Close()
		return fmt.Errorf("finalize %s: %w", path, err)
	}

	return f.Close()
}

func fullScale(bitDepth int) float64 {
	return float64(int64(1) << (bitDepth - 1))
}

func deinterleave(data []int, channels int, scale float64) [][]float64 {
	frames := len(data) / channels
	out := make([][]float64, channels)

	for ch := range out {
		out[ch] = make([]float64, frames)
		for i := range frames {
			out[ch][i] = float64(data[i*channels+ch]) / scale
		}
	}

	return out
}

// interleave quantizes planar samples. A non-nil rng adds TPDF dither in
// LSB units.
func interleave(channels [][]float64, scale float64, rng *rand.Rand) []int {
	frames := len(channels[0])
	out := make([]int, frames*len(channels))

	lo, hi := -scale, scale-1

	for ch, samples := range channels {
		for i := range frames {
			v := 0.0
			if i < len(samples) {
				v = samples[i] * scale
			}

			if rng != nil {
				v += rng.Float64() - rng.Float64()
			}

			v = math.Round(v)

			if math.IsNaN(v) {
				v = 0
			}

			out[i*len(channels)+ch] = int(math.Max(lo, math.Min(hi, v)))
		}
	}

	return out
}
