package fiber

import (
	"sync"

	"go.uber.org/zap"
)

// A Scheduler is a queue of continuations that runs them once per frame.
//
// Continuations added by the Schedule method are queued into the active
// side of an internal [SwapBuffer].
// The Process method, usually called once per frame by whoever drives the
// frame loop, swaps the sides and runs every continuation that was queued
// before the swap, in FIFO order.
// A continuation that schedules further continuations while running does
// not make Process run longer: the new ones land in the side that is now
// active and only run on the next call to Process.
// In other words, each call to Process runs a closed snapshot of work.
//
// Continuations are run with no lock held, so they are free to call
// Schedule.
//
// The zero value is an empty Scheduler ready to use.
// One would usually create a Scheduler once at startup and hand it to every
// subsystem that defers work, or use the process-wide one returned by
// [Current].
type Scheduler struct {
	mu  sync.Mutex
	buf SwapBuffer[func()]

	processing sync.Mutex
	pc         paniccatcher

	logger *zap.Logger
}

// An Option configures a [Scheduler].
type Option func(s *Scheduler)

// WithLogger sets the logger of a [Scheduler].
// Without one, a Scheduler logs to the package logger (see [Logger]).
func WithLogger(l *zap.Logger) Option {
	return func(s *Scheduler) {
		s.logger = l
	}
}

// WithCapacity preallocates room for n continuations on both sides of
// a [Scheduler]'s queue.
func WithCapacity(n int) Option {
	return func(s *Scheduler) {
		s.buf = *NewSwapBuffer[func()](n)
	}
}

// NewScheduler creates a [Scheduler].
func NewScheduler(opts ...Option) *Scheduler {
	s := new(Scheduler)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var current = sync.OnceValue(func() *Scheduler {
	return NewScheduler()
})

// Current returns the process-wide [Scheduler], creating it on first use.
// It lives for the rest of the process.
func Current() *Scheduler {
	return current()
}

func (s *Scheduler) log() *zap.Logger {
	if s.logger != nil {
		return s.logger
	}
	return Logger()
}

// Schedule queues f to be run by the next call to Process.
// Nil continuations are ignored.
//
// Schedule is safe for concurrent use.
// Continuations scheduled concurrently are run in the order in which they
// were queued.
func (s *Scheduler) Schedule(f func()) {
	if f == nil {
		return
	}
	s.mu.Lock()
	s.buf.Push(f)
	s.mu.Unlock()
}

// Pending returns the number of continuations waiting for the next call to
// Process.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Len()
}

// Process runs every continuation that was scheduled before the call, in
// the order they were scheduled, and returns how many ran.
// Continuations scheduled during the call are left for the next call.
//
// If a continuation panics, Process keeps running the rest of the snapshot
// and then panics with a [*PanicError] that carries every panic value.
// If a continuation calls [runtime.Goexit], Process still runs the rest of
// the snapshot, logs whatever panicked, and then lets the calling goroutine
// exit.
//
// Calls to Process are serialized. Process must not be called from within
// a continuation.
func (s *Scheduler) Process() (n int) {
	s.processing.Lock()
	defer s.processing.Unlock()

	s.mu.Lock()
	s.buf.Swap()
	q := s.buf.back()
	s.mu.Unlock()

	// q is only ever touched by Process, which holds s.processing.
	defer func() {
		clear(*q)
		*q = (*q)[:0]
	}()

	log := s.log()

	defer func() {
		if s.pc.goexit {
			s.report(log, n)
			log.Warn("continuation called runtime.Goexit; the goroutine exits after the snapshot",
				zap.Int("count", n),
			)
			s.pc.Reset()
		}
	}()

	s.runFrom(q, &n)

	s.report(log, n)

	if len(s.pc.items) != 0 {
		defer s.pc.Reset()
		s.pc.Rethrow()
	}

	return n
}

// runFrom runs (*q)[*i:], advancing *i past each continuation before
// running it. If a continuation calls runtime.Goexit, the remaining ones
// are run while the goroutine unwinds.
func (s *Scheduler) runFrom(q *[]func(), i *int) {
	defer func() {
		if *i < len(*q) {
			s.runFrom(q, i)
		}
	}()
	for *i < len(*q) {
		f := (*q)[*i]
		(*q)[*i] = nil
		*i++
		s.pc.TryCatch(f)
	}
}

func (s *Scheduler) report(log *zap.Logger, n int) {
	if ce := log.Check(zap.DebugLevel, "processed continuations"); ce != nil {
		ce.Write(zap.Int("count", n), zap.Int("pending", s.Pending()))
	}
	for _, p := range s.pc.items {
		log.Error("continuation panicked",
			zap.Any("panic", p.value),
			zap.ByteString("stack", p.stack),
		)
	}
}
