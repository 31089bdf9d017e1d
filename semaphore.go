package fiber

import "slices"

// Semaphore bounds how many fibers use a resource at the same time, e.g.
// how many assets load at once. Callers acquire it with a given weight.
//
// Waiters are served in FIFO order: a waiter that needs a large weight
// holds back later waiters even if they need less.
//
// Like a [Signal], a Semaphore should only be used by the goroutine that
// drives the frame loop.
type Semaphore struct {
	size    int64
	cur     int64
	waiters []*waiter
}

type waiter struct {
	n       int64
	granted bool
}

// NewSemaphore creates a new weighted semaphore with the given maximum
// combined weight.
func NewSemaphore(n int64) *Semaphore {
	return &Semaphore{size: n}
}

// TryAcquire acquires a weight of n without waiting.
// It reports false, and leaves s unchanged, if that is not possible right
// now or if there are waiters.
func (s *Semaphore) TryAcquire(n int64) bool {
	if n < 0 {
		panic("fiber(Semaphore): negative weight")
	}
	if len(s.waiters) == 0 && s.size-s.cur >= n {
		s.cur += n
		return true
	}
	return false
}

// Acquire returns a [Computation] that completes once a weight of n is
// acquired from s.
//
// The returned Computation is a [Stopper]: stopping it while it waits
// removes it from the queue, and stopping it after it has been granted the
// weight but before it has completed gives the weight back.
func (s *Semaphore) Acquire(n int64) Computation[struct{}] {
	if n < 0 {
		panic("fiber(Semaphore): negative weight")
	}
	return &acquire{s: s, n: n}
}

type acquire struct {
	s    *Semaphore
	n    int64
	w    *waiter
	done bool
}

func (a *acquire) Poll() (struct{}, bool) {
	switch {
	case a.done:
	case a.w != nil:
		if !a.w.granted {
			return struct{}{}, false
		}
		a.w = nil
		a.done = true
	case a.s.TryAcquire(a.n):
		a.done = true
	case a.n > a.s.size:
		return struct{}{}, false // Impossible to succeed.
	default:
		a.w = &waiter{n: a.n}
		a.s.waiters = append(a.s.waiters, a.w)
		return struct{}{}, false
	}
	return struct{}{}, true
}

func (a *acquire) Stop() {
	w := a.w
	if w == nil {
		return
	}
	a.w = nil
	if w.granted {
		a.s.Release(w.n)
		return
	}
	a.s.removeWaiter(w)
}

// Release releases the semaphore with a weight of n.
func (s *Semaphore) Release(n int64) {
	if n < 0 {
		panic("fiber(Semaphore): negative weight")
	}
	if s.cur >= 0 {
		s.cur -= n
	}
	if s.cur < 0 {
		panic("fiber(Semaphore): released more than held")
	}
	s.grantWaiters()
}

func (s *Semaphore) grantWaiters() {
	i := 0
	for ; i < len(s.waiters); i++ {
		w := s.waiters[i]
		if s.size-s.cur < w.n {
			break
		}
		s.cur += w.n
		w.granted = true
	}
	s.waiters = slices.Delete(s.waiters, 0, i)
}

func (s *Semaphore) removeWaiter(w *waiter) {
	if i := slices.Index(s.waiters, w); i != -1 {
		s.waiters = slices.Delete(s.waiters, i, i+1)
		if i == 0 {
			s.grantWaiters()
		}
	}
}
