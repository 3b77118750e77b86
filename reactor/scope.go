package reactor

// linkChild attaches child to parent's children list, at the head,
// matching spec.md §4.7's "children are appended to the scope's
// [ownership] list" — insertion order doesn't matter for correctness,
// only that cleanup reaches every child, so head-insertion keeps this
// O(1).
func (s *System) linkChild(parent, child key) {
	if !parent.valid() {
		return
	}
	p := s.nodes.mustGet(parent)
	c := s.nodes.mustGet(child)
	c.parent = parent
	c.nextSib = p.firstChild
	c.prevSib = zeroKey
	if p.firstChild.valid() {
		s.nodes.mustGet(p.firstChild).prevSib = child
	}
	p.firstChild = child
}

// unlinkChild detaches child from its parent's children list without
// touching the child's own subtree.
func (s *System) unlinkChild(child key) {
	c, ok := s.nodes.get(child)
	if !ok {
		return
	}
	parent, prev, next := c.parent, c.prevSib, c.nextSib

	if prev.valid() {
		s.nodes.mustGet(prev).nextSib = next
	} else if p, ok := s.nodes.get(parent); ok && p.firstChild == child {
		p.firstChild = next
	}
	if next.valid() {
		s.nodes.mustGet(next).prevSib = prev
	}
	c.prevSib, c.nextSib, c.parent = zeroKey, zeroKey, zeroKey
}

// newOwnedNode inserts n into the arena under the current scope and
// returns its key.
func (s *System) newOwnedNode(n node) key {
	k := s.nodes.insert(n)
	s.linkChild(s.currentScope, k)
	return k
}

// OnCleanup registers cb against the innermost active effect or scope,
// to run (LIFO, alongside any other registered cleanups) before that
// owner's next re-run and on its teardown. Returns ErrNoActiveOwner if
// there is no active effect or scope — i.e. it was called outside any
// Effect/Scope setup function.
func (s *System) OnCleanup(cb func()) error {
	if err := s.checkOwner(); err != nil {
		return err
	}
	if s.ownerDepth == 0 {
		return ErrNoActiveOwner
	}
	owner := s.currentScope
	n, ok := s.nodes.get(owner)
	if !ok {
		return ErrUseAfterCleanup
	}
	n.onCleanup = append(n.onCleanup, cb)
	return nil
}

// runOwnerCleanup fires k's registered OnCleanup callbacks LIFO and
// clears the list, then runs the single cleanup closure an effect's own
// function may have returned (this is the teacher's convention too:
// AnatoleLucet/sig's effect.clean and alien's runEffectScope both treat
// "returned cleanup" and "registered cleanup" as the same kind of thing,
// just two ways to supply it).
func (s *System) runOwnerCleanup(k key) {
	n, ok := s.nodes.get(k)
	if !ok {
		return
	}
	cbs := n.onCleanup
	n.onCleanup = nil
	for i := len(cbs) - 1; i >= 0; i-- {
		cbs[i]()
	}
	if n.cleanup != nil {
		cu := n.cleanup
		n.cleanup = nil
		cu()
	}
}

// disposeChildren recursively tears down every child of k — cleanup
// callbacks, then links, then arena removal — before k's own body is
// allowed to run again or k itself is disposed. This is what makes a
// re-run of an effect or a cleanup of a scope bulk-teardown its
// subtree rather than leaking the previous run's nested effects.
func (s *System) disposeChildren(k key) {
	n, ok := s.nodes.get(k)
	if !ok {
		return
	}
	child := n.firstChild
	for child.valid() {
		next := s.nodes.mustGet(child).nextSib
		s.disposeNode(child)
		child = next
	}
}

// disposeNode fully tears down a single node: its children, its own
// cleanup callbacks, every link touching it, its membership in the
// parent's children list, and finally the arena slot itself. Safe to
// call on an already-removed key (no-op).
func (s *System) disposeNode(k key) {
	n, ok := s.nodes.get(k)
	if !ok {
		return
	}

	s.disposeChildren(k)
	s.runOwnerCleanup(k)

	for l := n.depsHead; l.valid(); {
		edge := s.links.mustGet(l)
		next := edge.nextDep
		s.unlink(l)
		l = next
	}
	for l := n.subsHead; l.valid(); {
		edge := s.links.mustGet(l)
		next := edge.nextSub
		s.unlink(l)
		l = next
	}

	s.unlinkChild(k)
	n.flags = 0
	s.nodes.remove(k)
}

// runEffect re-runs an effect's function: first tearing down children and
// cleanups left over from its previous run (spec.md §4.7's
// cleanup-before-rerun), then tracking a fresh dependency set while
// running effectFn, and finally storing whatever cleanup it returns for
// next time. Errors are restored-then-surfaced the same way recompute
// does: flags are cleared regardless of outcome, so a failing effect
// doesn't get stuck permanently DIRTY.
func (s *System) runEffect(k key) error {
	n := s.nodes.mustGet(k)

	s.disposeChildren(k)
	s.runOwnerCleanup(k)

	prevScope := s.currentScope
	s.currentScope = k
	s.ownerDepth++

	s.pushFrame(k)
	s.startTracking(k)
	cleanup, err := n.effectFn()
	s.endTracking(k)
	s.popFrame()

	s.ownerDepth--
	s.currentScope = prevScope

	n.flags.clear(flagDirty | flagPending)

	if err != nil {
		s.reportError(PhaseEffect, err)
		return err
	}
	n.cleanup = cleanup
	return nil
}

// MakeScope runs setup with a fresh scope node as the current scope:
// effects and nested scopes created during setup are owned by it and
// torn down together on Cleanup, per spec.md §4.7. It never participates
// in dependency tracking itself — scope capture and tracking are
// distinct protocols, so reads inside setup do not link to anything.
func (s *System) MakeScope(setup func()) (*ScopeHandle, error) {
	if err := s.checkOwner(); err != nil {
		return nil, err
	}

	k := s.newOwnedNode(newScopeNode())

	prevScope := s.currentScope
	s.currentScope = k
	s.ownerDepth++
	s.pushFrame(zeroKey)
	setup()
	s.popFrame()
	s.ownerDepth--
	s.currentScope = prevScope

	return &ScopeHandle{sys: s, key: k}, nil
}

// ScopeHandle is the only observable surface of a scope: Cleanup. After
// Cleanup, any further operation on the handle fails with
// ErrUseAfterCleanup.
type ScopeHandle struct {
	sys *System
	key key
}

// Cleanup fires cleanup callbacks LIFO, recursively tears down every
// child effect/scope, drains all of the scope's own links, and removes
// the scope node. Calling Cleanup again afterwards returns
// ErrUseAfterCleanup.
func (h *ScopeHandle) Cleanup() error {
	if err := h.sys.checkOwner(); err != nil {
		return err
	}
	if !h.sys.nodes.contains(h.key) {
		return ErrUseAfterCleanup
	}
	h.sys.disposeNode(h.key)
	return nil
}
