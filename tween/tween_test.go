package tween_test

import (
	"math"
	"testing"
	"time"

	"github.com/b97tsk/fiber"
	"github.com/b97tsk/fiber/tween"
)

func TestEvaluate(t *testing.T) {
	a := tween.Animation{Duration: 100 * time.Millisecond, Step: 30 * time.Millisecond}

	var got []float64
	f := fiber.Spawn(tween.Evaluate(a, func(p float64) { got = append(got, p) }))

	var suspends int
	for {
		if _, ok := f.Resume(); ok {
			break
		}
		suspends++
	}

	if suspends != a.Frames() || suspends != 4 {
		t.Fatalf("suspended %d times, want %d", suspends, a.Frames())
	}

	want := []float64{0, 0.3, 0.6, 0.9, 1}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-9 {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestTo(t *testing.T) {
	t.Run("Float", func(t *testing.T) {
		v := float32(0)

		fiber.Spawn(tween.To(&v, 1, tween.Animation{})).Complete()

		if v != 1 {
			t.Fatalf("v = %v, want 1", v)
		}
	})
	t.Run("Int", func(t *testing.T) {
		v := 10
		prev := v

		f := fiber.Spawn(tween.To(&v, -10, tween.Animation{Curve: tween.EaseInOut}))
		for {
			_, ok := f.Resume()
			if v > prev {
				t.Fatalf("value went from %d up to %d", prev, v)
			}
			prev = v
			if ok {
				break
			}
		}

		if v != -10 {
			t.Fatalf("v = %d, want -10", v)
		}
	})
	t.Run("StartsOnFirstPoll", func(t *testing.T) {
		v := 0.0
		c := tween.To(&v, 10, tween.Animation{Duration: 2 * time.Millisecond, Step: time.Millisecond})

		v = 4

		c.Poll()

		if v != 4 {
			t.Fatalf("v = %v, want 4", v)
		}

		c.Poll()

		if v != 7 {
			t.Fatalf("v = %v, want 7", v)
		}
	})
}

func TestCurves(t *testing.T) {
	for _, name := range []string{"linear", "ease-in", "ease-out", "ease-in-out"} {
		c, ok := tween.CurveByName(name)
		if !ok {
			t.Fatalf("CurveByName(%q) not found", name)
		}
		if c(0) != 0 || c(1) != 1 {
			t.Errorf("%s: c(0) = %v, c(1) = %v", name, c(0), c(1))
		}
		for i := range 20 {
			x, next := float64(i)/20, float64(i+1)/20
			if c(next) < c(x) {
				t.Errorf("%s is not monotonic at %v", name, x)
			}
		}
	}

	if _, ok := tween.CurveByName("bounce"); ok {
		t.Error("CurveByName found an unknown curve.")
	}
}

func TestLerp(t *testing.T) {
	if v := tween.Lerp(uint8(0), 255, 0.5); v != 128 {
		t.Errorf("Lerp(0, 255, 0.5) = %d, want 128", v)
	}
	if v := tween.Lerp(-1.0, 1.0, 0.25); v != -0.5 {
		t.Errorf("Lerp(-1, 1, 0.25) = %v, want -0.5", v)
	}
}
