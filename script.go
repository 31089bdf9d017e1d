package fiber

import "iter"

// A Yield is handed to the body of a [Script] to let it suspend.
//
// A Yield must not escape the body, nor be used by other goroutines.
type Yield struct {
	yield   func(struct{}) bool
	stopped bool
}

type scriptStopped struct{}

// Await works on c until it completes, suspending the script every time c
// suspends, and returns the value of c.
// If the script is stopped while awaiting c, c is stopped too, if it is
// a [Stopper].
func Await[T any](y *Yield, c Computation[T]) T {
	for {
		if v, ok := c.Poll(); ok {
			return v
		}
		if !y.yield(struct{}{}) {
			stop(c)
			y.stopped = true
			panic(scriptStopped{})
		}
	}
}

// NextFrame suspends the script until the next poll.
func (y *Yield) NextFrame() {
	Await(y, NextFrame())
}

// WaitFrames suspends the script n times.
func (y *Yield) WaitFrames(n int) {
	Await(y, WaitFrames(n))
}

// A ScriptComputation is a [Computation] written as straight-line Go code.
// See [Script].
type ScriptComputation[T any] struct {
	next  func() (struct{}, bool)
	stop  func()
	value T
	done  bool
}

// Script returns a [Computation] that runs body as a coroutine.
//
// The first poll starts body. Every time body suspends, through y, the poll
// returns; the next poll continues body from where it suspended. When body
// returns, the poll that observed it completes with the returned value.
//
// Each script is backed by a coroutine (see [iter.Pull]); one should call
// the Stop method, or discard the [Fiber] wrapping it, if the script is
// abandoned before it completes.
// A panic in body propagates to the caller of Poll.
func Script[T any](body func(y *Yield) T) *ScriptComputation[T] {
	if body == nil {
		panic("Script(nil): undefined behavior")
	}
	s := new(ScriptComputation[T])
	s.next, s.stop = iter.Pull(func(yield func(struct{}) bool) {
		y := Yield{yield: yield}
		defer func() {
			if y.stopped {
				_ = recover()
			}
		}()
		s.value = body(&y)
		s.done = true
	})
	return s
}

// Poll continues the script until it suspends or returns.
func (s *ScriptComputation[T]) Poll() (v T, ok bool) {
	if s.done {
		return s.value, true
	}
	if s.next == nil {
		return v, false
	}
	if _, more := s.next(); more {
		return v, false
	}
	s.next, s.stop = nil, nil
	if s.done {
		return s.value, true
	}
	return v, false
}

// Stop abandons the script.
// A stopped script never completes.
func (s *ScriptComputation[T]) Stop() {
	if s.stop != nil {
		s.stop()
		s.next, s.stop = nil, nil
	}
}
