package fiber

import "errors"

// Status is the completion lifecycle of a [Fiber] or a [Task].
//
// A Status only ever moves forward: from Pending to Completed, and from
// Completed (or Pending, when discarded) to Finalized.
type Status uint8

const (
	// Pending means no value has been produced yet.
	Pending Status = iota
	// Completed means a value has been produced but not yet taken.
	Completed
	// Finalized means the value has been taken, or the handle has been
	// marked exhausted. No value can ever be produced again.
	Finalized
)

func (s Status) String() string {
	switch s {
	case Pending:
		return "Pending"
	case Completed:
		return "Completed"
	case Finalized:
		return "Finalized"
	default:
		return "Status(?)"
	}
}

// ErrFinalized is the panic value of forcing completion on a handle that
// is already [Finalized], which means its value has been consumed before.
var ErrFinalized = errors.New("fiber: already finalized")

// A completion carries a Status and, while Completed, the value.
type completion[T any] struct {
	status Status
	value  T
}

func (c *completion[T]) set(v T) {
	c.value = v
	c.status = Completed
}

// take finalizes c, returning the value iff c was Completed.
func (c *completion[T]) take() (v T, ok bool) {
	if c.status == Completed {
		c.value, v, ok = v, c.value, true
	}
	c.status = Finalized
	return v, ok
}
