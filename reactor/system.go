package reactor

// Phase names the point in the propagation algorithm a user callback
// failed in, passed to OnError.
type Phase uint8

const (
	// PhaseRecompute names a Computed's update function.
	PhaseRecompute Phase = iota
	// PhaseEffect names an Effect's function.
	PhaseEffect
	// PhaseScope names a Scope's setup function.
	PhaseScope
)

func (p Phase) String() string {
	switch p {
	case PhaseRecompute:
		return "recompute"
	case PhaseEffect:
		return "effect"
	case PhaseScope:
		return "scope"
	default:
		return "unknown"
	}
}

// trackFrame is one entry of the active-subscriber stack: re-entering
// tracking (a nested computed read during another computed's recompute,
// a nested effect, scope setup inside scope setup) pushes a frame and
// restores it on exit, rather than clobbering a single slot.
type trackFrame struct {
	sub    key
	cursor key
}

// System is the single process-wide (per-instance) context described in
// spec.md §4.2: the active subscriber, batch depth, queued effects, and
// the reentrancy guard around flush. A System is driven by one goroutine
// at a time; see concurrency.go for the defensive check.
type System struct {
	nodes *arena[node]
	links *arena[link]

	activeSub    key
	stack        []trackFrame
	currentScope key
	ownerDepth   int

	batchDepth int

	queued      []key
	notifyIndex int
	notifyDepth int

	cycle uint64

	root key

	// OnError, if set, is invoked whenever a recompute or effect function
	// returns a non-nil error (scope setup functions return no error). The graph remains usable
	// afterwards; the error is also returned from whichever public call
	// triggered the failing flush/recompute.
	OnError func(phase Phase, err error)

	owner    int64
	hasOwner bool
}

// New creates an empty System with its own implicit root scope, so every
// signal/computed/effect/scope created without an explicit parent scope
// is still owned by something and can be torn down in bulk.
func New() *System {
	s := &System{
		nodes: newArena[node](64),
		links: newArena[link](64),
	}
	s.root = s.nodes.insert(newScopeNode())
	s.currentScope = s.root
	return s
}

var defaultSystem = New()

// Default returns the package-level System used by the unqualified
// Signal/Computed/Effect/Scope/Batch/OnCleanup helpers, mirroring the
// teacher's defaultScheduler convenience.
func Default() *System { return defaultSystem }

func (s *System) reportError(phase Phase, err error) {
	if err == nil {
		return
	}
	if s.OnError != nil {
		s.OnError(phase, err)
	}
}
