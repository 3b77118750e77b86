package reactor

// propagate walks producerKey's subscriber list, marking each reached
// node dirty (certain == true: a value is known to have changed) or
// pending (certain == false: propagation is flowing through a node whose
// own value has not yet been verified) per spec.md §4.4. A node with
// subscribers of its own recurses with certain == false, since whether
// *its* value actually changed is still unknown until it is recomputed;
// a terminal node (no subscribers of its own: an effect, or a computed
// nothing subscribes to) is queued for the next flush instead. flush
// runs the queued effects and leaves such a computed to recompute on its
// next read.
//
// flagRecursedCheck marks producerKey itself for the duration of this
// call: a re-entrant propagate reaching producerKey again as someone
// else's subscriber (a cycle) sees the bit set and stops there instead
// of re-walking producerKey's subscriber list a second time while the
// first walk is still in progress. The bit is cleared again before
// propagate returns, so it never lingers to shadow an unrelated, later
// propagation pass that reaches the same node on its own merits.
func (s *System) propagate(producerKey key, certain bool) {
	producer := s.nodes.mustGet(producerKey)
	producer.flags.set(flagRecursedCheck)
	defer producer.flags.clear(flagRecursedCheck)

	for l := producer.subsHead; l.valid(); {
		edge := s.links.mustGet(l)
		subKey := edge.subscriber
		l = edge.nextSub

		sub := s.nodes.mustGet(subKey)
		flags := sub.flags

		switch {
		case flags.has(flagDirty):
			// already fully dirty; nothing stronger to mark

		case flags.has(flagRecursedCheck):
			// sub is an ancestor of producerKey in this same call chain
			// (a cycle): it is already mid-sweep of its own subscriber
			// list further up the stack, so walking into it again here
			// would just retrace that sweep.

		case !flags.any(flagDirty | flagPending):
			if certain {
				sub.flags.set(flagDirty)
			} else {
				sub.flags.set(flagPending)
			}

			if !sub.flags.has(flagWatching) {
				continue
			}
			if sub.subsHead.valid() {
				s.propagate(subKey, false)
			} else if !sub.flags.has(flagQueued) {
				sub.flags.set(flagQueued)
				s.enqueue(subKey)
			}

		case flags.has(flagPending) && certain:
			sub.flags.set(flagDirty)
			sub.flags.clear(flagPending)
			if sub.flags.has(flagWatching) && !sub.subsHead.valid() && !sub.flags.has(flagQueued) {
				sub.flags.set(flagQueued)
				s.enqueue(subKey)
			}
		}
	}
}

// shallowPropagate upgrades already-PENDING subscribers to DIRTY without
// re-walking the whole subtree. Nothing in the package calls it: when
// checkDirty confirms that a dependency actually changed, that
// dependency's recompute upgrades its subscribers through
// propagate(k, true).
func (s *System) shallowPropagate(producerKey key) {
	producer := s.nodes.mustGet(producerKey)
	for l := producer.subsHead; l.valid(); {
		edge := s.links.mustGet(l)
		subKey := edge.subscriber
		l = edge.nextSub

		sub := s.nodes.mustGet(subKey)
		if sub.flags.has(flagPending) && !sub.flags.has(flagDirty) {
			sub.flags.set(flagDirty)
			sub.flags.clear(flagPending)
			if sub.flags.has(flagWatching) && !sub.subsHead.valid() && !sub.flags.has(flagQueued) {
				sub.flags.set(flagQueued)
				s.enqueue(subKey)
			}
		}
	}
}

// enqueue appends an effect/scope node to the pending-effect queue. The
// flagQueued check at every call site keeps membership to at most once,
// satisfying spec.md §3 invariant 5.
func (s *System) enqueue(k key) {
	s.queued = append(s.queued, k)
}
