package reactor

// Computed is a typed handle on a derived, lazily-recomputed node: its
// update function runs only when Get or Peek pulls a stale value, never
// eagerly on a dependency's write.
type Computed[T comparable] struct {
	sys *System
	key key
}

// MakeComputed creates a computed owned by sys, deriving its value from
// update. update is called with no arguments and reads whatever
// Signals/Computeds it needs through their own Get methods, which is
// how it gets tracked as a dependent of them.
func MakeComputed[T comparable](sys *System, update func() (T, error)) Computed[T] {
	sys.assertOwner()
	wrapped := func() (any, error) { return update() }
	equal := func(a, b any) bool {
		// a is nil before the first recompute: nothing cached yet, so
		// the first result always counts as a change.
		av, ok := a.(T)
		if !ok {
			return false
		}
		return av == b.(T)
	}
	k := sys.newOwnedNode(newComputedNode(wrapped, equal))
	return Computed[T]{sys: sys, key: k}
}

// NewComputed creates a computed on the package-level default System.
func NewComputed[T comparable](update func() (T, error)) Computed[T] {
	return MakeComputed(Default(), update)
}

// Get brings the computed up to date (recomputing if necessary),
// linking it as a dependency of whatever is currently tracking, and
// returns its value. An error from the underlying update function is
// returned here and also reported to the System's OnError, if set.
func (c Computed[T]) Get() (T, error) {
	v, err := c.sys.readComputed(c.key)
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

// Peek behaves like Get but does not link a dependency.
func (c Computed[T]) Peek() (T, error) {
	v, err := c.sys.peekComputed(c.key)
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}
