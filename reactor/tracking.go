package reactor

// startTracking resets a subscriber's dependency cursor to the head of
// its existing dep list and clears the transient propagation flags so a
// fresh run can re-derive them. It must be paired with endTracking.
func (s *System) startTracking(sub key) {
	n := s.nodes.mustGet(sub)
	n.depsCursor = zeroKey
	n.flags.clear(flagRecursed | flagRecursedCheck)
}

// endTracking trims the stale tail of a subscriber's dependency list:
// whatever wasn't reused by link() during this run is no longer a live
// dependency (a conditional branch not taken), and is unlinked from both
// lists and dropped.
func (s *System) endTracking(sub key) {
	n := s.nodes.mustGet(sub)

	var stale key
	if n.depsCursor.valid() {
		stale = s.links.mustGet(n.depsCursor).nextDep
	} else {
		stale = n.depsHead
	}

	for stale.valid() {
		next := s.links.mustGet(stale).nextDep
		s.unlink(stale)
		stale = next
	}

	if n.depsCursor.valid() {
		s.links.mustGet(n.depsCursor).nextDep = zeroKey
		n.depsTail = n.depsCursor
	} else {
		n.depsHead = zeroKey
		n.depsTail = zeroKey
	}
}

// link implements the tracking protocol of spec.md §4.3: a producer read
// during subscriber sub's run reports itself here. The cursor is reused
// in place when the access pattern matches the previous run exactly (the
// common case), searched-and-moved when dependencies were reordered, and
// allocated fresh only for a genuinely new dependency.
func (s *System) link(producer, sub key) {
	subNode := s.nodes.mustGet(sub)
	version := s.nodes.mustGet(producer).version

	cursor := subNode.depsCursor
	if cursor.valid() {
		cur := s.links.mustGet(cursor)
		if cur.producer == producer {
			// same producer read again right after the last one (e.g.
			// a.Get() + a.Get()): the cursor already names this edge,
			// so there is nothing to advance or search for.
			return
		}
		if next := cur.nextDep; next.valid() {
			if nextEdge := s.links.mustGet(next); nextEdge.producer == producer {
				nextEdge.version = version
				subNode.depsCursor = next
				return
			}
			if found := s.findAndMoveDep(sub, next, producer, cursor); found {
				s.links.mustGet(subNode.depsCursor).version = version
				return
			}
		}
		// a producer already read earlier in this run (a.Get(), b.Get(),
		// a.Get()) has its edge at or before the cursor: reuse it.
		for l := subNode.depsHead; l.valid(); {
			edge := s.links.mustGet(l)
			if edge.producer == producer {
				return
			}
			if l == cursor {
				break
			}
			l = edge.nextDep
		}
	} else if head := subNode.depsHead; head.valid() {
		if headEdge := s.links.mustGet(head); headEdge.producer == producer {
			headEdge.version = version
			subNode.depsCursor = head
			return
		}
		if found := s.findAndMoveDep(sub, head, producer, zeroKey); found {
			s.links.mustGet(subNode.depsCursor).version = version
			return
		}
	}

	s.linkNew(producer, sub)
}

// findAndMoveDep searches forward from start for an existing edge to
// producer and, if found, moves it to sit right after prevCursor
// (preserving the invariant that a subscriber's dep list order is its
// access order). Reports whether it found and moved an edge.
func (s *System) findAndMoveDep(sub, start, producer, prevCursor key) bool {
	for l := start; l.valid(); {
		edge := s.links.mustGet(l)
		if edge.producer == producer {
			s.unlinkDepOnly(l)
			s.insertDepAfter(sub, prevCursor, l)
			s.nodes.mustGet(sub).depsCursor = l
			return true
		}
		l = edge.nextDep
	}
	return false
}

// linkNew allocates a fresh edge, inserting it at the subscriber's
// cursor position and appending it to the producer's subscriber list.
func (s *System) linkNew(producer, sub key) {
	k := s.links.insert(link{producer: producer, subscriber: sub, version: s.nodes.mustGet(producer).version})

	subNode := s.nodes.mustGet(sub)
	cursor := subNode.depsCursor
	if cursor.valid() {
		s.insertDepAfter(sub, cursor, k)
	} else {
		old := subNode.depsHead
		s.links.mustGet(k).nextDep = old
		if old.valid() {
			s.links.mustGet(old).prevDep = k
		} else {
			subNode.depsTail = k
		}
		subNode.depsHead = k
	}
	subNode.depsCursor = k

	depNode := s.nodes.mustGet(producer)
	tail := depNode.subsTail
	s.links.mustGet(k).prevSub = tail
	if tail.valid() {
		s.links.mustGet(tail).nextSub = k
	} else {
		depNode.subsHead = k
	}
	depNode.subsTail = k
}

// insertDepAfter splices link l into sub's dependency list immediately
// after prev (or at the head if prev is zero).
func (s *System) insertDepAfter(sub, prev, l key) {
	subNode := s.nodes.mustGet(sub)
	edge := s.links.mustGet(l)

	if prev.valid() {
		prevEdge := s.links.mustGet(prev)
		edge.nextDep = prevEdge.nextDep
		edge.prevDep = prev
		prevEdge.nextDep = l
	} else {
		edge.nextDep = subNode.depsHead
		edge.prevDep = zeroKey
		subNode.depsHead = l
	}

	if edge.nextDep.valid() {
		s.links.mustGet(edge.nextDep).prevDep = l
	} else {
		subNode.depsTail = l
	}
}

// unlinkDepOnly removes l from its subscriber's dependency list without
// touching the producer's subscriber list, used when moving an edge to
// a new position within the same dependency list.
func (s *System) unlinkDepOnly(l key) {
	edge := s.links.mustGet(l)
	sub := s.nodes.mustGet(edge.subscriber)

	if edge.prevDep.valid() {
		s.links.mustGet(edge.prevDep).nextDep = edge.nextDep
	} else {
		sub.depsHead = edge.nextDep
	}
	if edge.nextDep.valid() {
		s.links.mustGet(edge.nextDep).prevDep = edge.prevDep
	} else {
		sub.depsTail = edge.prevDep
	}
}

// unlink fully removes link l from both the dependency list it belongs
// to and the subscriber list it belongs to, and returns it to the pool.
func (s *System) unlink(l key) {
	edge, ok := s.links.get(l)
	if !ok {
		return
	}
	producer, subscriber := edge.producer, edge.subscriber
	prevDep, nextDep := edge.prevDep, edge.nextDep
	prevSub, nextSub := edge.prevSub, edge.nextSub

	if sub, ok := s.nodes.get(subscriber); ok {
		if nextDep.valid() {
			s.links.mustGet(nextDep).prevDep = prevDep
		} else {
			sub.depsTail = prevDep
		}
		if prevDep.valid() {
			s.links.mustGet(prevDep).nextDep = nextDep
		} else {
			sub.depsHead = nextDep
		}
	}

	var producerNowUnwatched bool
	if dep, ok := s.nodes.get(producer); ok {
		if nextSub.valid() {
			s.links.mustGet(nextSub).prevSub = prevSub
		} else {
			dep.subsTail = prevSub
		}
		if prevSub.valid() {
			s.links.mustGet(prevSub).nextSub = nextSub
		} else {
			dep.subsHead = nextSub
			if !nextSub.valid() {
				producerNowUnwatched = true
			}
		}
	}

	s.links.remove(l)

	if producerNowUnwatched {
		s.onUnwatched(producer)
	}
}

// onUnwatched is called when a node's last subscriber link is removed.
// A computed with no subscribers left is invalidated (its next read must
// fully recompute) but not removed: it may still be read directly.
func (s *System) onUnwatched(k key) {
	n, ok := s.nodes.get(k)
	if !ok || n.kind != kindComputed {
		return
	}
	n.flags.set(flagDirty)
}
