package fiber

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// A Loop drives fibers and a [Scheduler], one frame at a time.
//
// Each call to the Tick method resumes every live [Fiber] exactly once, in
// the order they were started, drops the ones that have finished, and then
// calls [Scheduler.Process] once.
// Fibers started during a tick are first resumed on the next tick.
//
// A Loop is not safe for concurrent use. To start a fiber from another
// goroutine, schedule the call on the Loop's Scheduler:
//
//	sched.Schedule(func() { loop.Go(c) })
type Loop struct {
	sched     *Scheduler
	logger    *zap.Logger
	maxFrames uint64
	untilIdle bool

	fibers  SwapBuffer[*loopFiber]
	spawned []*loopFiber
	byID    map[uuid.UUID]*loopFiber
	frame   uint64
	ticking bool
}

type loopFiber struct {
	id uuid.UUID
	f  *Fiber[struct{}]
}

// A LoopOption configures a [Loop].
type LoopOption func(l *Loop)

// WithLoopLogger sets the logger of a [Loop].
// Without one, a Loop logs to the package logger (see [Logger]).
func WithLoopLogger(l *zap.Logger) LoopOption {
	return func(lp *Loop) {
		lp.logger = l
	}
}

// WithMaxFrames makes [Loop.Run] return after n frames in total.
// Zero means no limit.
func WithMaxFrames(n uint64) LoopOption {
	return func(l *Loop) {
		l.maxFrames = n
	}
}

// WithStopWhenIdle makes [Loop.Run] return once a tick leaves no live fiber
// and no pending continuation behind.
func WithStopWhenIdle() LoopOption {
	return func(l *Loop) {
		l.untilIdle = true
	}
}

// NewLoop creates a [Loop] that processes s once per frame.
// If s is nil, the [Scheduler] returned by [Current] is used.
func NewLoop(s *Scheduler, opts ...LoopOption) *Loop {
	if s == nil {
		s = Current()
	}
	l := &Loop{sched: s, byID: make(map[uuid.UUID]*loopFiber)}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Loop) log() *zap.Logger {
	if l.logger != nil {
		return l.logger
	}
	return Logger()
}

// Scheduler returns the [Scheduler] that l processes.
func (l *Loop) Scheduler() *Scheduler {
	return l.sched
}

// Frame returns the number of ticks l has run.
func (l *Loop) Frame() uint64 {
	return l.frame
}

// Live returns the number of fibers that l is driving.
func (l *Loop) Live() int {
	return len(l.byID)
}

// Go spawns a [Fiber] that works on c and hands it over to l.
// The returned id identifies the fiber in logs and for Cancel.
func (l *Loop) Go(c Computation[struct{}]) uuid.UUID {
	lf := &loopFiber{id: uuid.New(), f: Spawn(c)}
	l.byID[lf.id] = lf

	if l.ticking {
		l.spawned = append(l.spawned, lf)
	} else {
		l.fibers.Push(lf)
	}

	if ce := l.log().Check(zap.DebugLevel, "fiber started"); ce != nil {
		ce.Write(zap.Stringer("fiber", lf.id), zap.Uint64("frame", l.frame))
	}

	return lf.id
}

// Cancel stops resuming the fiber identified by id and discards it.
// It reports false if no such fiber is live.
func (l *Loop) Cancel(id uuid.UUID) bool {
	lf, ok := l.byID[id]
	if !ok {
		return false
	}
	delete(l.byID, id)
	lf.f.Discard()
	l.log().Debug("fiber canceled", zap.Stringer("fiber", id), zap.Uint64("frame", l.frame))
	return true
}

// Tick runs one frame: it resumes every live fiber once, then processes
// the Scheduler.
//
// If a fiber panics, the fiber is dropped and Tick panics after putting
// the remaining fibers back; the Scheduler is not processed in that frame.
func (l *Loop) Tick() {
	l.frame++
	l.ticking = true

	l.fibers.Swap()
	q := l.fibers.back()
	i := 0

	var cur *loopFiber

	defer func() {
		if cur != nil {
			delete(l.byID, cur.id)
			l.log().Error("fiber panicked", zap.Stringer("fiber", cur.id), zap.Uint64("frame", l.frame))
		}

		for _, lf := range (*q)[i:] {
			if lf != nil {
				l.fibers.Push(lf)
			}
		}
		clear(*q)
		*q = (*q)[:0]

		for _, lf := range l.spawned {
			l.fibers.Push(lf)
		}
		clear(l.spawned)
		l.spawned = l.spawned[:0]

		l.ticking = false
	}()

	log := l.log()

	for ; i < len(*q); i++ {
		lf := (*q)[i]
		(*q)[i] = nil

		if lf.f.Status() == Finalized {
			continue // Canceled.
		}

		cur = lf
		_, done := lf.f.Resume()
		cur = nil

		if done {
			delete(l.byID, lf.id)
			if ce := log.Check(zap.DebugLevel, "fiber finished"); ce != nil {
				ce.Write(zap.Stringer("fiber", lf.id), zap.Uint64("frame", l.frame))
			}
			continue
		}

		if lf.f.Status() != Finalized {
			l.fibers.Push(lf)
		}
	}

	l.sched.Process()
}

// Idle reports whether l has no live fiber and its Scheduler has no
// pending continuation.
func (l *Loop) Idle() bool {
	return l.Live() == 0 && l.sched.Pending() == 0
}

// Run calls Tick every interval until ctx is done.
//
// Run returns ctx.Err() if ctx is done, or nil if l is configured to stop
// after a number of frames or when idle, and that happens.
func (l *Loop) Run(ctx context.Context, interval time.Duration) error {
	tk := time.NewTicker(interval)
	defer tk.Stop()

	log := l.log()
	log.Info("frame loop started", zap.Duration("interval", interval), zap.Int("fibers", l.Live()))

	for {
		if l.maxFrames != 0 && l.frame >= l.maxFrames {
			log.Info("frame loop reached its frame limit", zap.Uint64("frame", l.frame))
			return nil
		}

		select {
		case <-ctx.Done():
			log.Info("frame loop stopped", zap.Uint64("frame", l.frame), zap.Error(ctx.Err()))
			return ctx.Err()
		case <-tk.C:
			l.Tick()
		}

		if l.untilIdle && l.Idle() {
			log.Info("frame loop is idle", zap.Uint64("frame", l.frame))
			return nil
		}
	}
}
