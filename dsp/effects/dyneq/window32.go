package dyneq

// Window32 is the single-precision form of [Window64]. Values, logs and
// running sums are all float32.
type Window32 struct {
	values []float32
	logs   []float32

	front  int
	back   int
	size   int
	filled bool

	sum    float32
	logSum float32
}

// NewWindow32 returns an empty window holding up to capacity values.
func NewWindow32(capacity int) *Window32 {
	capacity = max(capacity, 1)

	return &Window32{
		values: make([]float32, capacity),
		logs:   make([]float32, capacity),
	}
}

// Push appends x, evicting the oldest value when the window is full.
// x must be positive.
func (w *Window32) Push(x float32) {
	capacity := len(w.values)
	if w.size == capacity {
		w.sum -= w.values[w.front]
		w.logSum -= w.logs[w.front]
		w.front++

		if w.front == capacity {
			w.front = 0
		}

		w.size--
	}

	lx := float32(mathLog(float64(x)))
	w.values[w.back] = x
	w.logs[w.back] = lx
	w.sum += x
	w.logSum += lx
	w.back++
	w.size++

	if w.back == capacity {
		w.back = 0
		if w.size == capacity {
			w.resum()
		}
	}

	if w.size == capacity {
		w.filled = true
	}
}

func (w *Window32) resum() {
	var sum, logSum float32
	for i := range w.values {
		sum += w.values[i]
		logSum += w.logs[i]
	}

	w.sum, w.logSum = sum, logSum
}

// Len returns the number of values currently held.
func (w *Window32) Len() int { return w.size }

// Cap returns the window capacity.
func (w *Window32) Cap() int { return len(w.values) }

// Full reports whether the window currently holds Cap values.
func (w *Window32) Full() bool { return w.size == len(w.values) }

// Filled reports whether the window has been full at least once since the
// last Reset.
func (w *Window32) Filled() bool { return w.filled }

// Sum returns the running sum of the held values.
func (w *Window32) Sum() float32 { return w.sum }

// LogSum returns the running sum of the natural logarithms of the held values.
func (w *Window32) LogSum() float32 { return w.logSum }

// MeanLog returns the mean of the held log values, the log of their
// geometric mean. It returns 0 for an empty window.
func (w *Window32) MeanLog() float32 {
	if w.size == 0 {
		return 0
	}

	return w.logSum / float32(w.size)
}

// Flatness returns the geometric mean divided by the arithmetic mean of the
// held values, in (0, 1]. It returns 0 for an empty window.
func (w *Window32) Flatness() float32 {
	if w.size == 0 || w.sum <= 0 {
		return 0
	}

	n := float32(w.size)
	f := float32(mathExp(float64(w.logSum/n))) / (w.sum / n)

	return min(f, 1)
}

// Reset empties the window.
func (w *Window32) Reset() {
	clear(w.values)
	clear(w.logs)
	w.front, w.back, w.size = 0, 0, 0
	w.filled = false
	w.sum, w.logSum = 0, 0
}
