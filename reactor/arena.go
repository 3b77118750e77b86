package reactor

// key is a stable, generation-tagged reference into an arena slot. Two
// keys compare equal only if they name the same slot at the same
// generation, so a key captured before a slot was removed and reused
// never silently aliases the new occupant.
type key struct {
	idx uint32
	gen uint32
}

var zeroKey key

func (k key) valid() bool { return k != zeroKey }

// arena is a stable-key store with O(1) insert/remove. Removed slots are
// pushed onto a free list and reused only after their generation counter
// has been bumped, so a dangling key is detectable rather than silently
// wrong. It backs both the node table and the link pool: every
// cross-reference in this package is a key, never a pointer, which is
// what lets the otherwise-cyclic producer/subscriber graph live in value
// slices instead of a web of Go pointers the GC has to chase.
type arena[T any] struct {
	slots     []T
	gens      []uint32
	occupied  []bool
	freeList  []uint32
}

// newArena reserves index 0 as a permanently-dead slot, never handed out
// by insert and never added to the free list. Without this, the first
// real insert would return key{idx:0, gen:0}, which is bit-identical to
// zeroKey — the sentinel valid() and every list-walk loop treat as
// "nothing here". Reserving index 0 means idx 0 is never a live key, so
// zeroKey can never alias a real one.
func newArena[T any](capacity int) *arena[T] {
	a := &arena[T]{
		slots:    make([]T, 1, capacity+1),
		gens:     make([]uint32, 1, capacity+1),
		occupied: make([]bool, 1, capacity+1),
	}
	return a
}

func (a *arena[T]) insert(v T) key {
	if n := len(a.freeList); n > 0 {
		idx := a.freeList[n-1]
		a.freeList = a.freeList[:n-1]
		a.slots[idx] = v
		a.occupied[idx] = true
		return key{idx: idx, gen: a.gens[idx]}
	}

	idx := uint32(len(a.slots))
	a.slots = append(a.slots, v)
	a.gens = append(a.gens, 0)
	a.occupied = append(a.occupied, true)
	return key{idx: idx, gen: 0}
}

func (a *arena[T]) get(k key) (*T, bool) {
	if !k.valid() || int(k.idx) >= len(a.slots) || !a.occupied[k.idx] || a.gens[k.idx] != k.gen {
		return nil, false
	}
	return &a.slots[k.idx], true
}

// mustGet panics when k does not resolve. Inside the engine that is a
// logic error (a key minted by this arena that was never removed must
// always resolve); from outside it is reached by a Signal or Computed
// handle used after its node was removed, since those handles do not
// check for removal before calling into the arena.
func (a *arena[T]) mustGet(k key) *T {
	v, ok := a.get(k)
	if !ok {
		panic("reactor: stale arena key")
	}
	return v
}

func (a *arena[T]) remove(k key) {
	if !k.valid() || int(k.idx) >= len(a.slots) || !a.occupied[k.idx] || a.gens[k.idx] != k.gen {
		return
	}
	a.occupied[k.idx] = false
	a.gens[k.idx]++
	var zero T
	a.slots[k.idx] = zero
	a.freeList = append(a.freeList, k.idx)
}

func (a *arena[T]) contains(k key) bool {
	_, ok := a.get(k)
	return ok
}

func (a *arena[T]) len() int {
	return len(a.slots) - 1 - len(a.freeList)
}
