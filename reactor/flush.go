package reactor

// StartBatch increments the batch depth: writes during a batch still
// propagate (pushing dirty/pending marks and queuing effects) but do not
// flush until the matching EndBatch brings the depth back to zero.
// Nesting is allowed.
func (s *System) StartBatch() {
	s.assertOwner()
	s.batchDepth++
}

// EndBatch decrements the batch depth and, once it reaches zero, flushes
// the effect queue. Returns ErrUnbalancedBatch if called without a
// matching StartBatch, and the first user-callback error flush
// encountered, if any.
func (s *System) EndBatch() error {
	if err := s.checkOwner(); err != nil {
		return err
	}
	if s.batchDepth == 0 {
		return ErrUnbalancedBatch
	}
	s.batchDepth--
	if s.batchDepth == 0 {
		return s.flush()
	}
	return nil
}

// Batch runs fn inside a batch, flushing once on return: writes commit
// immediately, but the effect flush is deferred, so each affected effect
// observes the final values and runs at most once (spec.md §8's
// batch-atomicity property).
func (s *System) Batch(fn func()) error {
	if err := s.checkOwner(); err != nil {
		return err
	}
	s.StartBatch()
	fn()
	return s.EndBatch()
}

// maybeFlush flushes immediately if not inside a batch, matching every
// write/recompute site in spec.md §4.6 ("flush runs when batch_depth ==
// 0 and there are queued effects").
func (s *System) maybeFlush() error {
	if s.batchDepth == 0 {
		return s.flush()
	}
	return nil
}

// flush drains the effect queue FIFO. notifyDepth guards against
// reentrant drains: a flush triggered by an effect that is itself
// running inside an outer flush returns immediately, and the effect it
// would have run is picked up by the outer loop instead, since both
// share the same queue and cursor.
func (s *System) flush() error {
	if s.notifyDepth > 0 {
		return nil
	}
	s.notifyDepth++
	defer func() { s.notifyDepth-- }()

	var firstErr error
	for s.notifyIndex < len(s.queued) {
		k := s.queued[s.notifyIndex]
		s.notifyIndex++

		n, ok := s.nodes.get(k)
		if !ok || !n.flags.has(flagWatching) || !n.flags.has(flagQueued) {
			// detached, cleaned up, or already handled: skip on pop
			// (spec.md §5's cancellation-safety requirement)
			continue
		}
		n.flags.clear(flagQueued)

		if !n.flags.any(flagDirty | flagPending) {
			continue
		}

		var err error
		if n.kind == kindEffect {
			if n.flags.has(flagPending) && !n.flags.has(flagDirty) {
				if !s.checkDirty(k) {
					// none of the effect's dependencies actually changed
					// value (e.g. a computed recomputed to an equal
					// result) — clear PENDING and skip the run, matching
					// spec.md §4.5's PENDING path for any WATCHING node,
					// effects included.
					n.flags.clear(flagPending)
					continue
				}
				n.flags.set(flagDirty)
			}
			err = s.runEffect(k)
		} else {
			// a computed with no subscribers of its own is queued by
			// propagate like an effect, but is not recomputed here: it
			// stays DIRTY/PENDING and recomputes on its next read.
			continue
		}
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	s.queued = s.queued[:0]
	s.notifyIndex = 0
	return firstErr
}
