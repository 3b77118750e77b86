package reactor

// ensureUpToDate implements the pull phase of spec.md §4.5: a DIRTY node
// recomputes unconditionally; a PENDING node is only recomputed once its
// dependency chain is confirmed to have actually changed; a clean node
// is a no-op.
func (s *System) ensureUpToDate(k key) error {
	n := s.nodes.mustGet(k)

	if n.flags.has(flagDirty) {
		return s.recompute(k)
	}
	if n.flags.has(flagPending) {
		if s.checkDirty(k) {
			return s.recompute(k)
		}
		n.flags.clear(flagPending)
	}
	return nil
}

// checkDirty walks k's dependency list, recursively bringing any
// WATCHING dependency up to date first, and reports whether any
// dependency's version moved since the link was last confirmed live.
// flagRecursed guards the recursive descent: a dependency already being
// checked higher up the same call stack (a cycle) is treated as clean
// rather than re-entered.
func (s *System) checkDirty(k key) bool {
	n := s.nodes.mustGet(k)
	dirty := false

	for l := n.depsHead; l.valid(); {
		edge := s.links.mustGet(l)
		depKey := edge.producer
		dep := s.nodes.mustGet(depKey)

		if dep.flags.has(flagWatching) && dep.flags.any(flagDirty|flagPending) && !dep.flags.has(flagRecursed) {
			dep.flags.set(flagRecursed)
			_ = s.ensureUpToDate(depKey)
			dep.flags.clear(flagRecursed)
		}

		if edge.version != dep.version {
			edge.version = dep.version
			dirty = true
			break
		}

		l = edge.nextDep
	}

	return dirty
}

// recompute runs a Computed node's update function inside tracking,
// trims stale dependencies, and — if the result differs from the cached
// value under the node's equality function — bumps its version and
// propagates a certain (value-level) change to its subscribers.
//
// On a failing update function, the active subscriber and tracking
// cursor are restored and DIRTY/PENDING are cleared before the error is
// surfaced, per spec.md §7's restoration requirement for user-callback
// failures.
func (s *System) recompute(k key) error {
	n := s.nodes.mustGet(k)

	s.pushFrame(k)
	s.startTracking(k)
	newValue, err := n.updateFn()
	s.endTracking(k)
	s.popFrame()

	if err != nil {
		n.flags.clear(flagDirty | flagPending)
		s.reportError(PhaseRecompute, err)
		return err
	}

	changed := n.equal == nil || !n.equal(n.value, newValue)
	n.value = newValue
	n.flags.clear(flagDirty | flagPending)

	if changed {
		n.version++
		if n.subsHead.valid() {
			s.propagate(k, true)
		}
	}

	return nil
}

// pushFrame makes k the active tracking subscriber, saving the previous
// active subscriber and its tracking cursor. The cursor only needs
// saving here to cover the self-reentrant case (spec.md §4.3's "if S is
// already active_sub"): startTracking(k) below resets k's cursor, which
// would otherwise clobber the outer run's position when k == the
// previous active subscriber.
func (s *System) pushFrame(k key) {
	prev := s.activeSub
	var prevCursor key
	if prev.valid() {
		prevCursor = s.nodes.mustGet(prev).depsCursor
	}
	s.stack = append(s.stack, trackFrame{sub: prev, cursor: prevCursor})
	s.activeSub = k
}

func (s *System) popFrame() {
	last := len(s.stack) - 1
	frame := s.stack[last]
	s.stack = s.stack[:last]
	s.activeSub = frame.sub
	if frame.sub.valid() {
		s.nodes.mustGet(frame.sub).depsCursor = frame.cursor
	}
}
