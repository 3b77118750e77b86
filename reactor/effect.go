package reactor

// Effect is a handle on a node whose function is run for its side
// effects rather than its return value, whenever any of its tracked
// dependencies change. It runs once, synchronously, at creation, to
// establish its initial dependency set.
type Effect struct {
	sys *System
	key key
}

// MakeEffect creates and immediately runs fn once, owned by sys. fn may
// return a cleanup closure, run before each subsequent re-run and on
// Dispose.
func MakeEffect(sys *System, fn func() (func(), error)) (Effect, error) {
	if err := sys.checkOwner(); err != nil {
		return Effect{}, err
	}
	k := sys.newOwnedNode(newEffectNode(fn))
	e := Effect{sys: sys, key: k}
	if err := sys.runEffect(k); err != nil {
		return e, err
	}
	return e, nil
}

// NewEffect creates an effect on the package-level default System.
func NewEffect(fn func() (func(), error)) (Effect, error) {
	return MakeEffect(Default(), fn)
}

// Dispose tears down the effect: its cleanup callbacks run, its
// children (any nested scopes/effects created during its last run) are
// torn down, and its node is removed from the graph. Disposing twice is
// a no-op.
func (e Effect) Dispose() error {
	if err := e.sys.checkOwner(); err != nil {
		return err
	}
	if !e.sys.nodes.contains(e.key) {
		return nil
	}
	e.sys.disposeNode(e.key)
	return nil
}
