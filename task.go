package fiber

import (
	"fmt"
	"sync"
)

// A Task is a handle to a value that is produced elsewhere, by a backend
// callback or by a [Scheduler], rather than by stepping a [Computation].
//
// A Task has the same lifecycle as a [Fiber]: it starts either [Pending] or
// [Completed], and becomes [Finalized] once its value is taken.
// The value of a Task can be taken exactly once.
//
// Unlike a Fiber, a Task is safe for concurrent use, so that its value can
// be produced on one goroutine and taken on another.
type Task[T any] struct {
	mu   sync.Mutex
	work func() T
	completion[T]
}

// FromResult creates a [Completed] [Task] that carries v.
func FromResult[T any](v T) *Task[T] {
	t := new(Task[T])
	t.set(v)
	return t
}

// NewTask creates a [Pending] [Task] to be settled by the Resolve method.
func NewTask[T any]() *Task[T] {
	return new(Task[T])
}

// Defer creates a [Pending] [Task] whose value is produced by calling work
// from a continuation scheduled on s.
// If s is nil, the [Scheduler] returned by [Current] is used.
//
// The next call to s.Process runs work and settles the Task.
// Calling the Complete method before that runs work right away instead;
// the scheduled continuation then does nothing.
// Either way, work runs at most once.
func Defer[T any](s *Scheduler, work func() T) *Task[T] {
	if work == nil {
		panic("Defer(nil): undefined behavior")
	}
	if s == nil {
		s = Current()
	}
	t := &Task[T]{work: work}
	s.Schedule(t.run)
	return t
}

func (t *Task[T]) run() {
	t.mu.Lock()
	work := t.work
	t.work = nil
	t.mu.Unlock()

	if work != nil {
		t.Resolve(work())
	}
}

// Resolve settles t with v.
// It reports false, and does nothing, if t was not [Pending].
// Resolving a deferred Task drops the work that has not yet run.
func (t *Task[T]) Resolve(v T) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.status != Pending {
		return false
	}
	t.work = nil
	t.set(v)
	return true
}

// Status returns the current [Status] of t.
func (t *Task[T]) Status() Status {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status
}

// Resume takes and returns the value of t if t is [Completed], leaving t
// [Finalized]. Otherwise, Resume returns false.
func (t *Task[T]) Resume() (v T, ok bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.status != Completed {
		return v, false
	}
	return t.take()
}

// Poll is equivalent to Resume.
// It makes a [Task] a [Computation], so that a [Fiber] can await it.
func (t *Task[T]) Poll() (T, bool) {
	return t.Resume()
}

// Complete waits for t to settle, and returns its value.
//
// If t was created by [Defer] and its work has not yet started, Complete
// runs the work on the calling goroutine. Otherwise, Complete busy-loops
// until somebody resolves t.
// Complete panics with [ErrFinalized] if t is, or becomes, [Finalized]
// without returning the value to this caller, e.g. because another caller
// of Complete took it first.
func (t *Task[T]) Complete() T {
	if t.Status() == Finalized {
		panic(fmt.Errorf("Complete: %w", ErrFinalized))
	}
	for {
		if v, ok := t.Resume(); ok {
			return v
		}
		if t.Status() == Finalized {
			panic(fmt.Errorf("Complete: %w", ErrFinalized))
		}
		t.run()
	}
}
