// Package reactor implements a fine-grained reactive signal graph: a
// dependency-tracking propagation engine built on the push-pull model.
//
// Producers (signals, computed nodes) and consumers (computed nodes,
// effects, scopes) form a directed bipartite graph whose edges are
// discovered dynamically while a subscriber runs and collapsed lazily
// when a value is read. Writing a signal pushes dirty/pending marks
// through its subscribers and queues any effects reached; reading a
// computed pulls its dependencies up to date before returning a value.
//
// A System is not safe for concurrent use from multiple goroutines; it
// is driven by a single goroutine at a time, and checks that this holds.
package reactor
