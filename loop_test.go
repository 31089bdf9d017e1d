package fiber_test

import (
	"context"
	"slices"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/b97tsk/fiber"
)

func TestLoop(t *testing.T) {
	t.Run("Tick", func(t *testing.T) {
		var s fiber.Scheduler
		loop := fiber.NewLoop(&s)

		var events []string
		record := func(e string) fiber.Computation[struct{}] {
			return fiber.Do(func() { events = append(events, e) })
		}

		loop.Go(fiber.Chain(record("a1"), fiber.NextFrame(), record("a2")))
		loop.Go(fiber.Chain(record("b1"), fiber.WaitFrames(2), record("b2")))
		s.Schedule(func() { events = append(events, "c") })

		loop.Tick()

		if want := []string{"a1", "b1", "c"}; !slices.Equal(events, want) {
			t.Fatalf("frame 1: %v, want %v", events, want)
		}
		if loop.Live() != 2 {
			t.Fatalf("Live() = %d, want 2", loop.Live())
		}

		loop.Tick()
		loop.Tick()

		if want := []string{"a1", "b1", "c", "a2", "b2"}; !slices.Equal(events, want) {
			t.Fatalf("frame 3: %v, want %v", events, want)
		}
		if !loop.Idle() || loop.Frame() != 3 {
			t.Fatalf("Idle() = %v, Frame() = %d", loop.Idle(), loop.Frame())
		}
	})
	t.Run("GoDuringTick", func(t *testing.T) {
		loop := fiber.NewLoop(new(fiber.Scheduler))

		var childRuns int

		loop.Go(fiber.Do(func() {
			loop.Go(fiber.Do(func() { childRuns++ }))
		}))

		loop.Tick()

		if childRuns != 0 {
			t.Fatal("A fiber started during a tick ran in the same tick.")
		}

		loop.Tick()

		if childRuns != 1 || loop.Live() != 0 {
			t.Fatalf("childRuns = %d, Live() = %d", childRuns, loop.Live())
		}
	})
	t.Run("Cancel", func(t *testing.T) {
		loop := fiber.NewLoop(new(fiber.Scheduler))

		var polls int
		id := loop.Go(fiber.Func[struct{}](func() (struct{}, bool) {
			polls++
			return struct{}{}, false
		}))

		loop.Tick()

		if !loop.Cancel(id) {
			t.Fatal("Cancel did not find the fiber.")
		}
		if loop.Cancel(id) {
			t.Fatal("Cancel found a canceled fiber.")
		}

		loop.Tick()

		if polls != 1 || loop.Live() != 0 {
			t.Fatalf("polls = %d, Live() = %d", polls, loop.Live())
		}
	})
	t.Run("Panic", func(t *testing.T) {
		core, logs := observer.New(zapcore.ErrorLevel)
		loop := fiber.NewLoop(new(fiber.Scheduler), fiber.WithLoopLogger(zap.New(core)))

		var after int

		loop.Go(fiber.Do(func() { panic("boom") }))
		loop.Go(fiber.Chain(fiber.NextFrame(), fiber.Do(func() { after++ })))

		mustPanic(t, func() { loop.Tick() })

		if loop.Live() != 1 {
			t.Fatalf("Live() = %d, want 1", loop.Live())
		}
		if logs.FilterMessage("fiber panicked").Len() != 1 {
			t.Fatal("The panic was not logged.")
		}

		loop.Tick()
		loop.Tick()

		if after != 1 {
			t.Fatalf("after = %d, want 1", after)
		}
	})
	t.Run("RunMaxFrames", func(t *testing.T) {
		loop := fiber.NewLoop(new(fiber.Scheduler), fiber.WithMaxFrames(5))

		loop.Go(fiber.Never[struct{}]())

		if err := loop.Run(context.Background(), time.Millisecond); err != nil {
			t.Fatal(err)
		}
		if loop.Frame() != 5 {
			t.Fatalf("Frame() = %d, want 5", loop.Frame())
		}
	})
	t.Run("RunUntilIdle", func(t *testing.T) {
		var s fiber.Scheduler
		loop := fiber.NewLoop(&s, fiber.WithStopWhenIdle())

		var deferred bool

		loop.Go(fiber.Chain(
			fiber.WaitFrames(3),
			fiber.Do(func() { s.Schedule(func() { deferred = true }) }),
		))

		if err := loop.Run(context.Background(), time.Millisecond); err != nil {
			t.Fatal(err)
		}
		if !deferred || loop.Frame() != 4 {
			t.Fatalf("deferred = %v, Frame() = %d", deferred, loop.Frame())
		}
	})
	t.Run("RunCanceled", func(t *testing.T) {
		loop := fiber.NewLoop(new(fiber.Scheduler))

		ctx, cancel := context.WithCancel(context.Background())

		loop.Go(fiber.Chain(fiber.WaitFrames(2), fiber.Do(cancel)))

		if err := loop.Run(ctx, time.Millisecond); err != context.Canceled {
			t.Fatalf("Run() = %v, want context.Canceled", err)
		}
	})
}
