package dyneq

// Follower64 is a one-pole attack/release smoother. It moves toward its
// input with the attack coefficient while the input is at or above the
// current value and with the release coefficient otherwise.
type Follower64 struct {
	Value float64
}

// Process advances the follower by one input sample and returns the new value.
func (f *Follower64) Process(x, attack, release float64) float64 {
	f.Value = follow64(f.Value, x, attack, release)
	return f.Value
}

// Reset sets the follower value to v.
func (f *Follower64) Reset(v float64) {
	f.Value = v
}

func follow64(y, x, attack, release float64) float64 {
	coef := release
	if x >= y {
		coef = attack
	}

	return y + coef*(x-y)
}
