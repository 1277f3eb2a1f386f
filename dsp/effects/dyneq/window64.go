package dyneq

// Window64 is a fixed-capacity sliding window over envelope values. It
// keeps two rings, one of the values and one of their natural logarithms,
// with running sums of both so the arithmetic and geometric means over the
// window are available in constant time.
//
// Both sums are recomputed from the rings once per full revolution so
// rounding drift stays bounded over arbitrarily long streams.
type Window64 struct {
	values []float64
	logs   []float64

	front  int
	back   int
	size   int
	filled bool

	sum    float64
	logSum float64
}

// NewWindow64 returns an empty window holding up to capacity values.
// Capacity is clamped to at least 1.
func NewWindow64(capacity int) *Window64 {
	capacity = max(capacity, 1)

	return &Window64{
		values: make([]float64, capacity),
		logs:   make([]float64, capacity),
	}
}

// Push appends x, evicting the oldest value when the window is full.
// x must be positive.
func (w *Window64) Push(x float64) {
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

	lx := mathLog(x)
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

func (w *Window64) resum() {
	var sum, logSum float64
	for i := range w.values {
		sum += w.values[i]
		logSum += w.logs[i]
	}

	w.sum, w.logSum = sum, logSum
}

// Len returns the number of values currently held.
func (w *Window64) Len() int { return w.size }

// Cap returns the window capacity.
func (w *Window64) Cap() int { return len(w.values) }

// Full reports whether the window currently holds Cap values.
func (w *Window64) Full() bool { return w.size == len(w.values) }

// Filled reports whether the window has been full at least once since the
// last Reset.
func (w *Window64) Filled() bool { return w.filled }

// Sum returns the running sum of the held values.
func (w *Window64) Sum() float64 { return w.sum }

// LogSum returns the running sum of the natural logarithms of the held values.
func (w *Window64) LogSum() float64 { return w.logSum }

// MeanLog returns the mean of the held log values, the log of their
// geometric mean. It returns 0 for an empty window.
func (w *Window64) MeanLog() float64 {
	if w.size == 0 {
		return 0
	}

	return w.logSum / float64(w.size)
}

// Flatness returns the geometric mean divided by the arithmetic mean of the
// held values, in (0, 1]. It returns 0 for an empty window.
func (w *Window64) Flatness() float64 {
	if w.size == 0 || w.sum <= 0 {
		return 0
	}

	n := float64(w.size)
	f := mathExp(w.logSum/n) / (w.sum / n)

	return min(f, 1)
}

// Reset empties the window.
func (w *Window64) Reset() {
	clear(w.values)
	clear(w.logs)
	w.front, w.back, w.size = 0, 0, 0
	w.filled = false
	w.sum, w.logSum = 0, 0
}
