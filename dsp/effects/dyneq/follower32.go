package dyneq

// Follower32 is the single-precision form of [Follower64].
type Follower32 struct {
	Value float32
}

// Process advances the follower by one input sample and returns the new value.
func (f *Follower32) Process(x, attack, release float32) float32 {
	f.Value = follow32(f.Value, x, attack, release)
	return f.Value
}

// Reset sets the follower value to v.
func (f *Follower32) Reset(v float32) {
	f.Value = v
}

func follow32(y, x, attack, release float32) float32 {
	coef := release
	if x >= y {
		coef = attack
	}

	return y + coef*(x-y)
}
