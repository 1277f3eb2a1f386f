package dyneq

import (
	"sync/atomic"
	"testing"
)

func TestDispatchersVisitEveryChannelOnce(t *testing.T) {
	dispatchers := []struct {
		name string
		d    Dispatcher
	}{
		{"serial", SerialDispatcher{}},
		{"parallel default", ParallelDispatcher{}},
		{"parallel one", ParallelDispatcher{Workers: 1}},
		{"parallel three", ParallelDispatcher{Workers: 3}},
		{"parallel many", ParallelDispatcher{Workers: 64}},
	}

	for _, tt := range dispatchers {
		for _, n := range []int{0, 1, 2, 7, 16} {
			counts := make([]atomic.Int32, n)

			tt.d.Run(n, func(ch int) {
				counts[ch].Add(1)
			})

			for ch := range counts {
				if got := counts[ch].Load(); got != 1 {
					t.Fatalf("%s n=%d: channel %d ran %d times", tt.name, n, ch, got)
				}
			}
		}
	}
}
