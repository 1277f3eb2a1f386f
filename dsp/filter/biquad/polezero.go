package biquad

import "math/cmplx"

// Poles returns the z-plane poles of the section denominator:
//
//	1 + A1*z^-1 + A2*z^-2 = 0
func (c *Coefficients) Poles() [2]complex128 {
	return monicRoots(c.A1, c.A2)
}

// Stable reports whether both poles lie strictly inside the unit circle.
func (c *Coefficients) Stable() bool {
	for _, p := range c.Poles() {
		if cmplx.Abs(p) >= 1 {
			return false
		}
	}

	return true
}

// monicRoots solves z^2 + b*z + c = 0.
func monicRoots(b, c float64) [2]complex128 {
	sq := cmplx.Sqrt(complex(b*b-4*c, 0))
	return [2]complex128{(complex(-b, 0) + sq) / 2, (complex(-b, 0) - sq) / 2}
}
