package fiber

import "slices"

// A Computation is a piece of work that advances one step at a time.
//
// Each call to Poll advances the Computation by one step.
// Poll returns true once the Computation is done, along with its value.
// Before that, Poll returns false, meaning that the Computation suspends
// and expects to be polled again, typically on the next frame.
//
// A Computation must not be polled again after it reports done, unless
// its documentation says otherwise.
type Computation[T any] interface {
	Poll() (T, bool)
}

// Func is a function type that implements [Computation].
type Func[T any] func() (T, bool)

// Poll calls f.
func (f Func[T]) Poll() (T, bool) {
	return f()
}

// A Stopper is a [Computation] that holds resources that should be released
// when nobody is going to poll it anymore.
type Stopper interface {
	Stop()
}

type frameYield struct {
	suspended bool
}

func (y *frameYield) Poll() (struct{}, bool) {
	if y.suspended {
		return struct{}{}, true
	}
	y.suspended = true
	return struct{}{}, false
}

// NextFrame returns a [Computation] that suspends exactly once, then
// completes.
//
// NextFrame is the only primitive that actually suspends. Longer waits,
// like [WaitFrames], are built by sequencing it.
func NextFrame() Computation[struct{}] {
	return &frameYield{}
}

// Ready returns a [Computation] that completes with v on the first poll.
func Ready[T any](v T) Computation[T] {
	return Func[T](func() (T, bool) { return v, true })
}

// Do returns a [Computation] that calls f, and then completes, on the first
// poll.
func Do(f func()) Computation[struct{}] {
	return Func[struct{}](func() (struct{}, bool) {
		f()
		return struct{}{}, true
	})
}

// Never returns a [Computation] that never completes.
func Never[T any]() Computation[T] {
	return Func[T](func() (v T, ok bool) { return })
}

// Then returns a [Computation] that first works on c, then switches to
// work on the Computation returned by next, which is given the value of c.
//
// The switch happens within the same poll in which c completes, so no extra
// suspension is introduced between c and its successor.
// Stopping the returned Computation stops whichever of the two it is
// working on, if that one is a [Stopper].
func Then[T, U any](c Computation[T], next func(v T) Computation[U]) Computation[U] {
	if next == nil {
		panic("Then(nil): undefined behavior")
	}
	return &then[T, U]{c: c, next: next}
}

type then[T, U any] struct {
	c    Computation[T]
	next func(v T) Computation[U]
	d    Computation[U]
}

func (t *then[T, U]) Poll() (u U, ok bool) {
	if t.d == nil {
		v, ok := t.c.Poll()
		if !ok {
			return u, false
		}
		t.c, t.d = nil, t.next(v)
		t.next = nil
	}
	return t.d.Poll()
}

func (t *then[T, U]) Stop() {
	switch {
	case t.d != nil:
		stop(t.d)
	case t.c != nil:
		stop(t.c)
	}
}

func stop[T any](c Computation[T]) {
	if s, ok := c.(Stopper); ok {
		s.Stop()
	}
}

// Map returns a [Computation] that works on c, then completes with f
// applied to the value of c.
func Map[T, U any](c Computation[T], f func(v T) U) Computation[U] {
	return Then(c, func(v T) Computation[U] { return Ready(f(v)) })
}

// Chain returns a [Computation] that works on each of the provided
// Computations in sequence.
// When one Computation completes, Chain works on the next one within the
// same poll.
// Stopping the returned Computation stops the one it is working on, if
// that one is a [Stopper].
func Chain(s ...Computation[struct{}]) Computation[struct{}] {
	return &chain{s: slices.Clone(s)}
}

type chain struct {
	s []Computation[struct{}]
}

func (c *chain) Poll() (struct{}, bool) {
	for len(c.s) != 0 {
		if _, ok := c.s[0].Poll(); !ok {
			return struct{}{}, false
		}
		c.s[0] = nil
		c.s = c.s[1:]
	}
	return struct{}{}, true
}

func (c *chain) Stop() {
	if len(c.s) != 0 {
		stop(c.s[0])
	}
}

// WaitFrames returns a [Computation] that suspends exactly n times, then
// completes.
func WaitFrames(n int) Computation[struct{}] {
	var y frameYield
	return Func[struct{}](func() (struct{}, bool) {
		for n > 0 {
			if _, ok := y.Poll(); !ok {
				return struct{}{}, false
			}
			y.suspended = false
			n--
		}
		return struct{}{}, true
	})
}
