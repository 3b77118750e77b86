package reactor

import "github.com/petermattis/goid"

// checkOwner is the defensive, implementation-defined detection spec.md
// §7 calls for under "Concurrency-fatal": the graph is specified to be
// driven by a single thread of control at a time, and this is cheap
// enough to check on every public entry point. It binds lazily to
// whichever goroutine makes the first call, the same way
// AnatoleLucet/sig's getActiveOwner binds its owner table to goid.Get()
// rather than requiring an explicit thread handle up front.
func (s *System) checkOwner() error {
	gid := goid.Get()
	if !s.hasOwner {
		s.owner = gid
		s.hasOwner = true
		return nil
	}
	if s.owner != gid {
		return ErrConcurrentAccess
	}
	return nil
}

// assertOwner panics on the same condition checkOwner reports as an
// error, for read paths (Signal.Get/Peek) where threading an error
// return through every arithmetic expression a caller writes would
// cost more in ergonomics than a concurrency bug already costs in
// correctness. Every mutating entry point still returns the error
// normally via checkOwner.
func (s *System) assertOwner() {
	if err := s.checkOwner(); err != nil {
		panic(err)
	}
}
