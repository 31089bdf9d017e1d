package fiber

// A WaitGroup is a counter that fibers can wait on.
//
// Calling the Add or Done method of a WaitGroup updates the counter.
// A [Computation] returned by the Wait method completes on the first poll
// at which the counter is zero.
//
// Like a [Signal], a WaitGroup should only be used by the goroutine that
// drives the frame loop.
type WaitGroup struct {
	n int
}

// Add adds delta, which may be negative, to the [WaitGroup] counter.
// If the counter becomes negative, Add panics.
func (wg *WaitGroup) Add(delta int) {
	if wg.n >= 0 {
		wg.n += delta
	}
	if wg.n < 0 {
		panic("fiber(WaitGroup): negative counter")
	}
}

// Done decrements the [WaitGroup] counter by one.
func (wg *WaitGroup) Done() {
	wg.Add(-1)
}

// Count returns the current value of the [WaitGroup] counter.
func (wg *WaitGroup) Count() int {
	return wg.n
}

// Wait returns a [Computation] that completes once the [WaitGroup] counter
// is zero.
func (wg *WaitGroup) Wait() Computation[struct{}] {
	return Func[struct{}](func() (struct{}, bool) {
		return struct{}{}, wg.n == 0
	})
}
