package fiber

import "iter"

// A SwapBuffer is a container with two interchangeable backing buffers,
// one of which is active at a time.
//
// Every method, except Swap and ClearAll, works on the active buffer only.
// Swap flips which buffer is active; it never copies, moves or allocates
// elements. This lets one side be drained while new elements keep being
// pushed into the other side.
//
// The zero value is an empty SwapBuffer ready to use.
// A SwapBuffer is not safe for concurrent use.
type SwapBuffer[E any] struct {
	bufs   [2][]E
	active uint8
}

// NewSwapBuffer creates a [SwapBuffer] with both buffers preallocated to
// hold n elements.
func NewSwapBuffer[E any](n int) *SwapBuffer[E] {
	return &SwapBuffer[E]{bufs: [2][]E{make([]E, 0, n), make([]E, 0, n)}}
}

func (b *SwapBuffer[E]) buf() *[]E {
	return &b.bufs[b.active]
}

// back returns the inactive buffer.
func (b *SwapBuffer[E]) back() *[]E {
	return &b.bufs[b.active^1]
}

// Len returns the number of elements in the active buffer.
func (b *SwapBuffer[E]) Len() int {
	return len(*b.buf())
}

// Cap returns the capacity of the active buffer.
func (b *SwapBuffer[E]) Cap() int {
	return cap(*b.buf())
}

// Empty reports whether the active buffer is empty.
func (b *SwapBuffer[E]) Empty() bool {
	return b.Len() == 0
}

// Push appends v to the active buffer.
func (b *SwapBuffer[E]) Push(v E) {
	s := b.buf()
	*s = append(*s, v)
}

// Pop removes and returns the last element of the active buffer.
// It reports false if the active buffer is empty.
func (b *SwapBuffer[E]) Pop() (v E, ok bool) {
	s := b.buf()
	n := len(*s)
	if n == 0 {
		return v, false
	}
	(*s)[n-1], v = v, (*s)[n-1]
	*s = (*s)[:n-1]
	return v, true
}

// Drain returns an iterator that removes and yields every element of
// the active buffer, in insertion order.
//
// Once the iteration finishes, or is stopped early, the buffer that was
// active when the iteration started is emptied. Elements that were not
// yielded are discarded.
// The buffer is captured when the iteration starts, so Drain keeps working
// on the same side even if Swap is called during the iteration.
func (b *SwapBuffer[E]) Drain() iter.Seq[E] {
	return func(yield func(E) bool) {
		drain(b.buf(), yield)
	}
}

func drain[E any](s *[]E, yield func(E) bool) {
	defer func() {
		clear(*s)
		*s = (*s)[:0]
	}()
	for i := 0; i < len(*s); i++ {
		var v E
		(*s)[i], v = v, (*s)[i]
		if !yield(v) {
			return
		}
	}
}

// All returns an iterator over index-value pairs of the active buffer.
func (b *SwapBuffer[E]) All() iter.Seq2[int, E] {
	return func(yield func(int, E) bool) {
		for i, v := range *b.buf() {
			if !yield(i, v) {
				return
			}
		}
	}
}

// Values returns an iterator over pointers to the elements of the active
// buffer, through which elements can be modified in place.
func (b *SwapBuffer[E]) Values() iter.Seq[*E] {
	return func(yield func(*E) bool) {
		s := *b.buf()
		for i := range s {
			if !yield(&s[i]) {
				return
			}
		}
	}
}

// Slice returns the active buffer.
// The returned slice is only valid until the next call that modifies b.
func (b *SwapBuffer[E]) Slice() []E {
	return *b.buf()
}

// Clear removes every element of the active buffer.
func (b *SwapBuffer[E]) Clear() {
	s := b.buf()
	clear(*s)
	*s = (*s)[:0]
}

// ClearAll removes every element of both buffers.
func (b *SwapBuffer[E]) ClearAll() {
	for i := range b.bufs {
		clear(b.bufs[i])
		b.bufs[i] = b.bufs[i][:0]
	}
}

// Swap flips which buffer is active.
func (b *SwapBuffer[E]) Swap() {
	b.active ^= 1
}
