package reactor

// flags is the orthogonal bitset every node's state machine is built
// from. Hot paths dispatch on these bits rather than on node kind, so
// the common case (a clean signal read, a clean effect re-check) avoids
// a type switch.
type flags uint8

const (
	// flagMutable marks a producer whose value is set externally (a
	// signal). It never participates in dirty/pending accounting.
	flagMutable flags = 1 << iota
	// flagWatching marks a node that subscribes to producers: computed,
	// effect, or scope.
	flagWatching
	// flagRecursedCheck marks a node whose own subscriber list a propagate
	// call is sweeping, for the duration of that call: a re-entrant
	// propagate that reaches the node again (a cycle) stops there instead
	// of re-walking its subscribers.
	flagRecursedCheck
	// flagRecursed marks a dependency that checkDirty is currently
	// bringing up to date, for the duration of that descent: a cycle back
	// to it is treated as clean rather than re-entered.
	flagRecursed
	// flagDirty marks a node that must recompute on next read: at least
	// one dependency definitely changed.
	flagDirty
	// flagPending marks a node that may be dirty; verify by walking deps.
	flagPending
	// flagQueued marks a node present in the pending-effect queue exactly
	// once.
	flagQueued
)

func (f flags) has(bit flags) bool { return f&bit != 0 }
func (f flags) any(bits flags) bool { return f&bits != 0 }

func (f *flags) set(bit flags)   { *f |= bit }
func (f *flags) clear(bit flags) { *f &^= bit }
