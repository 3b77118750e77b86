package reactor

import "errors"

// Misuse-fatal errors (spec.md §7): the caller did something the API
// contract forbids. These are returned, never panicked, so a caller's
// own tests can assert on them.
var (
	// ErrUnbalancedBatch is returned by EndBatch when called without a
	// matching StartBatch.
	ErrUnbalancedBatch = errors.New("reactor: end_batch without matching start_batch")

	// ErrNoActiveOwner is returned by OnCleanup when there is no active
	// effect or scope to register the callback against.
	ErrNoActiveOwner = errors.New("reactor: on_cleanup has no active effect or scope")

	// ErrUseAfterCleanup is returned by ScopeHandle.Cleanup on a scope
	// that was already cleaned up, and by OnCleanup when the current
	// owner node no longer exists. Signal and Computed handles whose node
	// was removed panic instead, and Effect.Dispose on a removed effect
	// is a no-op.
	ErrUseAfterCleanup = errors.New("reactor: use of node after cleanup")
)

// ErrConcurrentAccess is the Concurrency-fatal error of spec.md §7: a
// second goroutine touched this System while another was mid-operation.
var ErrConcurrentAccess = errors.New("reactor: concurrent access to a single-owner System")
