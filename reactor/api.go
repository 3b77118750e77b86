package reactor

// Batch runs fn against the package-level default System inside a batch:
// writes commit immediately and the effect flush runs once on return.
func Batch(fn func()) error {
	return Default().Batch(fn)
}

// StartBatch increments the default System's batch depth.
func StartBatch() {
	Default().StartBatch()
}

// EndBatch decrements the default System's batch depth, flushing if it
// reaches zero.
func EndBatch() error {
	return Default().EndBatch()
}

// OnCleanup registers cb against the default System's innermost active
// effect or scope.
func OnCleanup(cb func()) error {
	return Default().OnCleanup(cb)
}

// NewScope creates a scope on the package-level default System.
func NewScope(setup func()) (*ScopeHandle, error) {
	return Default().MakeScope(setup)
}
