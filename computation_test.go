package fiber_test

import (
	"slices"
	"testing"

	"github.com/b97tsk/fiber"
)

// polls returns how many polls c takes to complete, giving up after limit.
func polls[T any](c fiber.Computation[T], limit int) (n int, v T) {
	for n < limit {
		n++
		var ok bool
		if v, ok = c.Poll(); ok {
			return n, v
		}
	}
	return -1, v
}

func TestComputation(t *testing.T) {
	t.Run("WaitFrames", func(t *testing.T) {
		for frames := range 5 {
			if n, _ := polls(fiber.WaitFrames(frames), 100); n != frames+1 {
				t.Errorf("WaitFrames(%d) took %d polls, want %d", frames, n, frames+1)
			}
		}
	})
	t.Run("Chain", func(t *testing.T) {
		var log []string

		c := fiber.Chain(
			fiber.Do(func() { log = append(log, "a") }),
			fiber.NextFrame(),
			fiber.Do(func() { log = append(log, "b") }),
			fiber.Do(func() { log = append(log, "c") }),
			fiber.WaitFrames(2),
			fiber.Do(func() { log = append(log, "d") }),
		)

		if _, ok := c.Poll(); ok || !slices.Equal(log, []string{"a"}) {
			t.Fatalf("after poll 1: %v", log)
		}
		if _, ok := c.Poll(); ok || !slices.Equal(log, []string{"a", "b", "c"}) {
			t.Fatalf("after poll 2: %v", log)
		}
		if _, ok := c.Poll(); ok {
			t.Fatal("poll 3 completed early")
		}
		if _, ok := c.Poll(); !ok || !slices.Equal(log, []string{"a", "b", "c", "d"}) {
			t.Fatalf("after poll 4: %v", log)
		}
	})
	t.Run("ChainEmpty", func(t *testing.T) {
		if n, _ := polls(fiber.Chain(), 10); n != 1 {
			t.Fatalf("empty Chain took %d polls, want 1", n)
		}
	})
	t.Run("Then", func(t *testing.T) {
		c := fiber.Then(fiber.Then(fiber.NextFrame(), func(struct{}) fiber.Computation[int] {
			return fiber.Ready(20)
		}), func(v int) fiber.Computation[string] {
			return fiber.Map(fiber.NextFrame(), func(struct{}) string {
				return string(rune('A' + v))
			})
		})

		n, v := polls(c, 10)

		if n != 3 || v != "U" {
			t.Fatalf("got %q after %d polls, want \"U\" after 3", v, n)
		}
	})
	t.Run("Never", func(t *testing.T) {
		if n, _ := polls(fiber.Never[int](), 1000); n != -1 {
			t.Fatal("Never completed.")
		}
	})
}

func TestScript(t *testing.T) {
	t.Run("ThreeFrames", func(t *testing.T) {
		f := fiber.Spawn(fiber.Script(func(y *fiber.Yield) int {
			y.NextFrame()
			y.NextFrame()
			y.NextFrame()
			return 42
		}))

		for i := range 3 {
			if _, ok := f.Resume(); ok {
				t.Fatalf("call %d returned a value", i+1)
			}
		}

		if v, ok := f.Resume(); !ok || v != 42 {
			t.Fatalf("call 4 = %d, %v, want 42, true", v, ok)
		}
		if _, ok := f.Resume(); ok {
			t.Fatal("call 5 returned a value")
		}
	})
	t.Run("Await", func(t *testing.T) {
		inner := fiber.Spawn(fiber.Script(func(y *fiber.Yield) string {
			y.WaitFrames(2)
			return "inner"
		}))

		var steps []string

		f := fiber.Spawn(fiber.Script(func(y *fiber.Yield) string {
			steps = append(steps, "start")
			s := fiber.Await(y, inner)
			steps = append(steps, s)
			return s + "+outer"
		}))

		n, v := polls[string](f, 10)

		if n != 3 || v != "inner+outer" {
			t.Fatalf("got %q after %d polls, want \"inner+outer\" after 3", v, n)
		}
		if !slices.Equal(steps, []string{"start", "inner"}) {
			t.Fatalf("steps = %v", steps)
		}
	})
	t.Run("Immediate", func(t *testing.T) {
		if v := fiber.Spawn(fiber.Script(func(*fiber.Yield) int { return 1 })).Complete(); v != 1 {
			t.Fatalf("Complete() = %d, want 1", v)
		}
	})
	t.Run("Stop", func(t *testing.T) {
		var cleaned, resumed bool

		s := fiber.Script(func(y *fiber.Yield) int {
			defer func() { cleaned = true }()
			y.NextFrame()
			resumed = true
			return 1
		})

		if _, ok := s.Poll(); ok {
			t.Fatal("Script did not suspend.")
		}

		s.Stop()

		if !cleaned {
			t.Fatal("Stop did not unwind the script.")
		}
		if resumed {
			t.Fatal("Stop resumed the script.")
		}
		if _, ok := s.Poll(); ok {
			t.Fatal("A stopped script completed.")
		}
	})
	t.Run("Panic", func(t *testing.T) {
		f := fiber.Spawn(fiber.Script(func(y *fiber.Yield) int {
			y.NextFrame()
			panic("boom")
		}))

		f.Resume()

		if v := mustPanic(t, func() { f.Resume() }); v != "boom" {
			t.Fatalf("panicked with %v, want \"boom\"", v)
		}
	})
}
