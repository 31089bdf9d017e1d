package fiber

import (
	"fmt"
	"runtime/debug"
	"slices"
	"strings"
	"sync/atomic"
)

// A paniccatcher runs functions one after another, collecting whatever
// they panic with, so that one bad continuation does not prevent the rest
// of a snapshot from running.
//
// runtime.Goexit cannot be stopped; TryCatch only records that it happened.
type paniccatcher struct {
	items  []panicitem
	goexit bool
}

func (pc *paniccatcher) Reset() {
	clear(pc.items)
	pc.items = pc.items[:0]
	pc.goexit = false
}

// Rethrow panics with a [PanicError] if anything was caught.
func (pc *paniccatcher) Rethrow() {
	if len(pc.items) != 0 {
		panic(&PanicError{items: slices.Clone(pc.items)})
	}
}

// TryCatch calls f and reports whether f returned normally.
func (pc *paniccatcher) TryCatch(f func()) (returned bool) {
	defer func() {
		if returned {
			return
		}
		v := recover()
		if v == nil {
			pc.goexit = true // Still unwinding; nothing to recover.
			return
		}
		pc.items = append(pc.items, panicitem{value: v, stack: debug.Stack()})
	}()
	f()
	return true
}

// A PanicError is what [Scheduler.Process] panics with after running
// a snapshot in which one or more continuations panicked.
//
// PanicError unwraps to every panic value that was an error.
type PanicError struct {
	items []panicitem
	errs  atomic.Pointer[[]error]
}

type panicitem struct {
	value any
	stack []byte
}

// Values returns the panic values, in the order they were caught.
func (pe *PanicError) Values() []any {
	vs := make([]any, len(pe.items))
	for i, p := range pe.items {
		vs[i] = p.value
	}
	return vs
}

func (pe *PanicError) Error() string {
	vs := pe.Values()

	var b strings.Builder
	fmt.Fprintf(&b, "fiber: %d continuation(s) panicked:", len(vs))
	for i, v := range vs {
		fmt.Fprintf(&b, "\n(%d/%d) panic: %v\n\n%s", i+1, len(vs), v, pe.items[i].stack)
	}
	return b.String()
}

func (pe *PanicError) Unwrap() []error {
	if p := pe.errs.Load(); p != nil {
		return *p
	}
	var errs []error
	for _, v := range pe.Values() {
		if err, ok := v.(error); ok {
			errs = append(errs, err)
		}
	}
	pe.errs.Store(&errs)
	return errs
}
