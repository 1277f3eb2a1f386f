package biquad

import "math"

// Coefficients32 is the single-precision form of [Coefficients].
type Coefficients32 struct {
	B0, B1, B2 float32
	A1, A2     float32
}

// IsFinite reports whether every coefficient is a finite number.
func (c Coefficients32) IsFinite() bool {
	for _, v := range [...]float32{c.B0, c.B1, c.B2, c.A1, c.A2} {
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}

	return true
}

// To64 widens the coefficients to double precision.
func (c Coefficients32) To64() Coefficients {
	return Coefficients{
		B0: float64(c.B0),
		B1: float64(c.B1),
		B2: float64(c.B2),
		A1: float64(c.A1),
		A2: float64(c.A2),
	}
}

// Section32 is a single-precision biquad section in Direct Form II
// Transposed.
type Section32 struct {
	Coefficients32

	d0, d1 float32
}

// NewSection32 returns a Section32 with the given coefficients and zero state.
func NewSection32(c Coefficients32) *Section32 {
	return &Section32{Coefficients32: c}
}

// ProcessSample filters one input sample and returns the output.
func (s *Section32) ProcessSample(x float32) float32 {
	y := s.B0*x + s.d0
	s.d0 = s.B1*x - s.A1*y + s.d1
	s.d1 = s.B2*x - s.A2*y

	return y
}

// ProcessBlock filters a block of samples in-place.
func (s *Section32) ProcessBlock(buf []float32) {
	b0, b1, b2 := s.B0, s.B1, s.B2
	a1, a2 := s.A1, s.A2
	d0, d1 := s.d0, s.d1

	for i, x := range buf {
		y := b0*x + d0
		d0 = b1*x - a1*y + d1
		d1 = b2*x - a2*y
		buf[i] = y
	}

	s.d0, s.d1 = d0, d1
}

// Reset clears the delay line to zero.
func (s *Section32) Reset() {
	s.d0 = 0
	s.d1 = 0
}

// State returns the current delay-line state [d0, d1].
func (s *Section32) State() [2]float32 {
	return [2]float32{s.d0, s.d1}
}

// SetState restores a previously saved delay-line state.
func (s *Section32) SetState(state [2]float32) {
	s.d0 = state[0]
	s.d1 = state[1]
}
