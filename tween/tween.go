// Package tween animates values over many frames.
//
// A tween is a [fiber.Computation] that updates something once per poll and
// suspends in between, so it is driven by whatever drives the fiber that
// runs it, usually a [fiber.Loop].
package tween

import (
	"math"
	"time"

	"github.com/b97tsk/fiber"
)

// A Curve maps normalized time, from 0 to 1, to normalized progress.
type Curve func(t float64) float64

// Linear progresses at a constant rate.
func Linear(t float64) float64 { return t }

// EaseIn starts slow and speeds up.
func EaseIn(t float64) float64 { return t * t }

// EaseOut starts fast and slows down.
func EaseOut(t float64) float64 { return t * (2 - t) }

// EaseInOut starts slow, speeds up, then slows down.
func EaseInOut(t float64) float64 {
	if t < 0.5 {
		return 2 * t * t
	}
	return -1 + (4-2*t)*t
}

// CurveByName returns the Curve with the given name, one of "linear",
// "ease-in", "ease-out" and "ease-in-out".
func CurveByName(name string) (Curve, bool) {
	switch name {
	case "linear":
		return Linear, true
	case "ease-in":
		return EaseIn, true
	case "ease-out":
		return EaseOut, true
	case "ease-in-out":
		return EaseInOut, true
	}
	return nil, false
}

// Defaults for the zero fields of an [Animation].
const (
	DefaultDuration = time.Second
	DefaultStep     = 16 * time.Millisecond
)

// An Animation describes how a tween evaluates over time.
//
// Zero fields take defaults: a Duration of [DefaultDuration], a Step of
// [DefaultStep] and a [Linear] Curve.
type Animation struct {
	// Duration is how long the tween lasts.
	Duration time.Duration
	// Step is how much time passes per frame.
	Step time.Duration
	Curve Curve
}

func (a Animation) withDefaults() Animation {
	if a.Duration <= 0 {
		a.Duration = DefaultDuration
	}
	if a.Step <= 0 {
		a.Step = DefaultStep
	}
	if a.Curve == nil {
		a.Curve = Linear
	}
	return a
}

// Frames returns how many times a tween of a suspends before it completes.
func (a Animation) Frames() int {
	a = a.withDefaults()
	return int((a.Duration + a.Step - 1) / a.Step)
}

// Evaluate returns a [fiber.Computation] that calls body with the curve of a
// evaluated at the current normalized time, then advances time by one step
// and suspends, until the duration of a has elapsed.
//
// The poll that completes the Computation calls body one last time with
// the curve evaluated at 1, so that whatever body animates lands exactly on
// its target.
func Evaluate(a Animation, body func(progress float64)) fiber.Computation[struct{}] {
	a = a.withDefaults()
	var elapsed time.Duration
	return fiber.Func[struct{}](func() (struct{}, bool) {
		if elapsed >= a.Duration {
			body(a.Curve(1))
			return struct{}{}, true
		}
		body(a.Curve(float64(elapsed) / float64(a.Duration)))
		elapsed += a.Step
		return struct{}{}, false
	})
}

// Number is the set of types that can be tweened.
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr |
		~float32 | ~float64
}

// Lerp interpolates linearly between a and b.
// Results for integer types are rounded to the nearest integer.
func Lerp[V Number](a, b V, t float64) V {
	v := float64(a) + (float64(b)-float64(a))*t
	if half := 0.5; V(half) == 0 {
		v = math.Round(v)
	}
	return V(v)
}

// To returns a [fiber.Computation] that tweens *dst to target.
// The starting value is read from dst on the first poll.
func To[V Number](dst *V, target V, a Animation) fiber.Computation[struct{}] {
	var start V
	var started bool
	return Evaluate(a, func(progress float64) {
		if !started {
			start, started = *dst, true
		}
		*dst = Lerp(start, target, progress)
	})
}
