package fiber

import "fmt"

// A Fiber is an owned handle to a suspended [Computation].
//
// A Fiber does not run by itself. Whoever owns it, usually a frame loop,
// steps it by calling the Resume method, typically once per frame, until it
// yields a value. Each Resume advances the wrapped Computation by exactly
// one step.
//
// The value of a Fiber can be taken exactly once. After that, the Fiber is
// [Finalized]: Resume always returns false and Complete panics.
//
// A Fiber has no teardown hook. Dropping a Fiber simply drops the wrapped
// Computation; any cleanup must be encoded in the Computation itself, or be
// requested explicitly with the Discard method.
//
// A Fiber is not safe for concurrent use.
type Fiber[T any] struct {
	c Computation[T]
	completion[T]
}

// Spawn creates a [Pending] [Fiber] that wraps c.
func Spawn[T any](c Computation[T]) *Fiber[T] {
	if c == nil {
		panic("Spawn(nil): undefined behavior")
	}
	return &Fiber[T]{c: c}
}

// FromValue creates a [Completed] [Fiber] that carries v.
// The next call to Resume returns v.
func FromValue[T any](v T) *Fiber[T] {
	f := new(Fiber[T])
	f.set(v)
	return f
}

// Status returns the current [Status] of f.
func (f *Fiber[T]) Status() Status {
	return f.status
}

// Resume gives control to f.
//
// If f is [Pending], Resume advances the wrapped [Computation] by one step.
// If that step completes the Computation, Resume takes its value right away
// and returns it, leaving f [Finalized].
// If f is [Completed], Resume takes and returns its value.
// Otherwise, Resume returns false.
func (f *Fiber[T]) Resume() (v T, ok bool) {
	switch f.status {
	case Pending:
		if v, ok = f.c.Poll(); !ok || f.status != Pending {
			return v, false
		}
		f.c = nil
		f.set(v)
		return f.take()
	case Completed:
		f.c = nil
		return f.take()
	}
	return v, false
}

// Poll is equivalent to Resume.
// It makes a [Fiber] a [Computation] itself, so that one can nest a Fiber
// inside another.
func (f *Fiber[T]) Poll() (T, bool) {
	return f.Resume()
}

// Complete resumes f until it yields a value, and returns that value.
//
// Complete busy-loops; it must only be used on a Fiber that is known to
// complete soon. It panics with [ErrFinalized] if f has been [Finalized]
// before the call, or is discarded while Complete is resuming it.
func (f *Fiber[T]) Complete() T {
	if f.status == Finalized {
		panic(fmt.Errorf("Complete: %w", ErrFinalized))
	}
	for {
		if v, ok := f.Resume(); ok {
			return v
		}
		if f.status == Finalized {
			panic(fmt.Errorf("Complete: %w", ErrFinalized))
		}
	}
}

// Discard marks f exhausted without producing a value.
// If the wrapped [Computation] is a [Stopper], Discard stops it.
// After Discard, f is [Finalized].
func (f *Fiber[T]) Discard() {
	if s, ok := f.c.(Stopper); ok {
		s.Stop()
	}
	var zero T
	f.c = nil
	f.value = zero
	f.status = Finalized
}

// Stop is equivalent to Discard.
// It makes a [Fiber] a [Stopper], so that discarding a Fiber also discards
// the ones nested inside it.
func (f *Fiber[T]) Stop() {
	f.Discard()
}
