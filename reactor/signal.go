package reactor

// Signal is a typed handle on a mutable leaf node of the graph. The
// zero Signal is not usable; obtain one from NewSignal or MakeSignal.
type Signal[T comparable] struct {
	sys *System
	key key
}

// MakeSignal creates a signal owned by sys, holding initial, using ==
// to decide whether a Set actually changed the value.
func MakeSignal[T comparable](sys *System, initial T) Signal[T] {
	sys.assertOwner()
	equal := func(a, b any) bool { return a.(T) == b.(T) }
	k := sys.newOwnedNode(newSignalNode(initial, equal))
	return Signal[T]{sys: sys, key: k}
}

// NewSignal creates a signal on the package-level default System.
func NewSignal[T comparable](initial T) Signal[T] {
	return MakeSignal(Default(), initial)
}

// Get reads the signal's current value, linking it as a dependency of
// whatever Computed or Effect is currently running.
func (s Signal[T]) Get() T {
	return s.sys.readSignal(s.key).(T)
}

// Peek reads the signal's current value without linking a dependency.
func (s Signal[T]) Peek() T {
	return s.sys.peekSignal(s.key).(T)
}

// Set writes a new value, propagating to dependents and flushing
// immediately unless called inside a Batch.
func (s Signal[T]) Set(value T) error {
	return s.sys.writeSignal(s.key, value)
}

// Update reads the current value, applies fn, and writes the result
// back in one step.
func (s Signal[T]) Update(fn func(T) T) error {
	return s.Set(fn(s.Peek()))
}
