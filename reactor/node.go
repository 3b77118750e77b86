package reactor

// kind tags which variant a node is. Hot paths (propagate, update) never
// switch on kind; it exists for construction, teardown, and debugging
// only — everything that matters to scheduling is carried in flags.
type kind uint8

const (
	kindSignal kind = iota
	kindComputed
	kindEffect
	kindScope
)

// node is the single representation for every graph participant. Which
// fields are meaningful depends on kind: Signal uses value/version;
// Computed uses value/updateFn/version; Effect uses effectFn/cleanup; Scope uses
// none beyond the lists below.
type node struct {
	kind  kind
	flags flags

	// Dependency list: producers this node reads during its last tracked
	// run, in access order.
	depsHead, depsTail key
	// depsCursor is the tracking-protocol cursor: the next dep link
	// expected to be reused while this node is (re)running. Valid only
	// while this node is the active subscriber.
	depsCursor key

	// Subscriber list: consumers that read this node.
	subsHead, subsTail key

	// value holds the committed value (Signal, Computed). A batched write
	// commits here immediately — propagation/queuing happens the same way
	// whether or not a batch is open — and only the effect drain that
	// observes the new value is deferred to end_batch; there is no
	// separate pending-value buffer to stage.
	value   any
	version uint64

	equal func(a, b any) bool

	// updateFn recomputes a Computed's value from its dependencies.
	updateFn func() (any, error)

	// effectFn runs an Effect's side effect and optionally returns a
	// cleanup to run before the next re-run or on disposal.
	effectFn func() (func(), error)
	cleanup  func()

	// onCleanup holds callbacks registered against this node (effect or
	// scope) via OnCleanup, run LIFO on teardown or before re-run.
	onCleanup []func()

	// Scope/ownership tree: parent is the scope that owns this node (or
	// zeroKey for the implicit root). firstChild/nextSibling/prevSibling
	// thread the parent's children list, used for bulk teardown and for
	// "effects created during a previous run must be cleaned up before
	// the next run" (spec §4.7).
	parent                          key
	firstChild, prevSib, nextSib    key
}

func newSignalNode(initial any, equal func(a, b any) bool) node {
	return node{
		kind:  kindSignal,
		flags: flagMutable,
		value: initial,
		equal: equal,
	}
}

func newComputedNode(update func() (any, error), equal func(a, b any) bool) node {
	return node{
		kind:     kindComputed,
		flags:    flagWatching | flagDirty,
		updateFn: update,
		equal:    equal,
	}
}

func newEffectNode(fn func() (func(), error)) node {
	return node{
		kind:     kindEffect,
		flags:    flagWatching | flagDirty,
		effectFn: fn,
	}
}

func newScopeNode() node {
	return node{
		kind:  kindScope,
		flags: flagWatching,
	}
}
