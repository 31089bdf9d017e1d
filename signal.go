package fiber

// A Signal lets fibers wait for something to happen.
//
// A [Computation] returned by the Wait method completes on the first poll
// after the Notify method is called.
//
// A Signal is not safe for concurrent use. It should only be used by the
// goroutine that drives the frame loop. To notify a Signal from elsewhere,
// schedule its Notify method on a [Scheduler]:
//
//	sched.Schedule(sig.Notify)
type Signal struct {
	gen uint64
}

// Notify completes every [Computation] that is waiting for s.
func (s *Signal) Notify() {
	s.gen++
}

// Wait returns a [Computation] that completes on the first poll after s is
// notified.
// Notifications that happened before Wait is called do not count.
func (s *Signal) Wait() Computation[struct{}] {
	gen := s.gen
	return Func[struct{}](func() (struct{}, bool) {
		return struct{}{}, s.gen != gen
	})
}

// A State is a [Signal] that carries a value.
// To retrieve the value, call the Get method.
//
// Calling the Set method of a State updates the value and completes every
// [Computation] that is waiting for the State.
//
// Like a Signal, a State should only be used by the goroutine that drives
// the frame loop.
type State[T any] struct {
	Signal
	value T
}

// NewState creates a new [State] with its initial value set to v.
func NewState[T any](v T) *State[T] {
	return &State[T]{value: v}
}

// Get retrieves the value of s.
func (s *State[T]) Get() T {
	return s.value
}

// Set updates the value of s and notifies s.
func (s *State[T]) Set(v T) {
	s.value = v
	s.Notify()
}

// Update sets the value of s to f(s.Get()) and notifies s.
func (s *State[T]) Update(f func(v T) T) {
	s.Set(f(s.value))
}

// Changed returns a [Computation] that completes with the value of s on the
// first poll after s is set.
func (s *State[T]) Changed() Computation[T] {
	return Map(s.Wait(), func(struct{}) T { return s.value })
}
