package reactor

import (
	"fmt"

	mapset "github.com/deckarep/golang-set/v2"
)

// Verify walks the whole graph checking the structural invariants
// spec.md §3 and §8 rely on but never re-checks on the hot path: every
// link in a node's dependency list names that node as its subscriber and
// every link in its subscriber list names it as its producer, no node's
// deps/subs list contains a duplicate producer/subscriber, every live
// link is reachable from some node's dependency list, and every node
// flagged QUEUED is present in the not-yet-drained part of the effect
// queue. It is a diagnostic for tests
// and debugging, not something production code calls, the same way
// flimsy's Signal/Observer pair is checked for symmetric registration
// in its own test suite rather than on every read.
func Verify(sys *System) error {
	seenLinks := mapset.NewThreadUnsafeSet[key]()

	for idx := range sys.nodes.slots {
		nk := key{idx: uint32(idx), gen: sys.nodes.gens[idx]}
		if !sys.nodes.occupied[idx] {
			continue
		}
		n := sys.nodes.mustGet(nk)

		depProducers := mapset.NewThreadUnsafeSet[key]()
		for l := n.depsHead; l.valid(); {
			edge := sys.links.mustGet(l)
			if edge.subscriber != nk {
				return fmt.Errorf("reactor: link %v in node %v's dep list has subscriber %v", l, nk, edge.subscriber)
			}
			if depProducers.Contains(edge.producer) {
				return fmt.Errorf("reactor: node %v depends on producer %v twice", nk, edge.producer)
			}
			depProducers.Add(edge.producer)
			seenLinks.Add(l)
			l = edge.nextDep
		}

		subSubscribers := mapset.NewThreadUnsafeSet[key]()
		for l := n.subsHead; l.valid(); {
			edge := sys.links.mustGet(l)
			if edge.producer != nk {
				return fmt.Errorf("reactor: link %v in node %v's sub list has producer %v", l, nk, edge.producer)
			}
			if subSubscribers.Contains(edge.subscriber) {
				return fmt.Errorf("reactor: node %v has subscriber %v linked twice", nk, edge.subscriber)
			}
			subSubscribers.Add(edge.subscriber)
			l = edge.nextSub
		}

		if n.flags.has(flagQueued) {
			found := false
			for _, qk := range sys.queued[sys.notifyIndex:] {
				if qk == nk {
					found = true
					break
				}
			}
			if !found {
				return fmt.Errorf("reactor: node %v flagged QUEUED but absent from the pending queue", nk)
			}
		}
	}

	for idx := range sys.links.slots {
		if !sys.links.occupied[idx] {
			continue
		}
		lk := key{idx: uint32(idx), gen: sys.links.gens[idx]}
		if !seenLinks.Contains(lk) {
			return fmt.Errorf("reactor: link %v exists but is reachable from no node's dep list", lk)
		}
	}

	return nil
}
