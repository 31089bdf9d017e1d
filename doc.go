// Package fiber is a frame-synchronous execution core for programs that
// run in ticks, like games: it lets multi-step logic span many frames
// without threads, without a lock per step, and without a general-purpose
// async runtime.
//
// There are two ways to defer work.
//
// # Fibers: Logic That Spans Frames
//
// A [Computation] is a piece of work that advances one step per poll.
// A [Fiber] owns one Computation and is stepped manually, by calling its
// Resume method, usually once per frame, until it yields a value.
//
// The only thing that actually suspends is [NextFrame]: it suspends exactly
// once, then completes. Everything else is built by sequencing it:
// [WaitFrames], [Chain], [Then], or a [Script], in which one writes
// straight-line Go code and suspends with [Await]:
//
//	f := fiber.Spawn(fiber.Script(func(y *fiber.Yield) int {
//		y.NextFrame()
//		y.NextFrame()
//		y.NextFrame()
//		return 42
//	}))
//
// The first three calls to f.Resume return false; the fourth returns 42.
//
// The value of a Fiber can be taken exactly once. Forcing completion of
// a Fiber whose value has already been taken is a programming error, and
// panics with [ErrFinalized].
//
// A Fiber is also a Computation, so fibers nest.
//
// # The Scheduler: Fire and Forget
//
// A [Scheduler] holds continuations, functions with no arguments, in
// a [SwapBuffer]. The Schedule method queues a continuation and is safe to
// call from any goroutine, e.g. from a backend callback. The Process
// method, called once per frame, runs every continuation that was queued
// before the call.
//
// A continuation may schedule more continuations. Those are not run by the
// same call to Process; they wait for the next one. Each call to Process
// thus runs a closed snapshot of work, at most one frame's backlog, no
// matter how much work that backlog enqueues.
//
// A [Task] is a handle to a value produced by a Scheduler (see [Defer]) or
// by whoever calls its Resolve method. It has the same lifecycle as a Fiber
// and can be awaited by one.
//
// # Driving Frames
//
// Both fibers and the Scheduler are driven from outside, by the frame loop.
// A [Loop] does exactly that: each Tick resumes every fiber it owns once,
// then processes its Scheduler once.
//
// # Concurrency
//
// Everything here runs on the goroutine that drives the frame loop, except
// [Scheduler.Schedule], [Scheduler.Pending] and the methods of [Task],
// which are safe for concurrent use. There is no parallelism, preemption or
// cancellation: a Computation runs until it suspends or completes, and
// canceling one only means to stop resuming it.
package fiber
