package reactor

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestBasicChain covers the signal -> computed -> effect propagation
// path end to end.
func TestBasicChain(t *testing.T) {
	sys := New()

	count := MakeSignal(sys, 1)
	doubled := MakeComputed(sys, func() (int, error) {
		return count.Get() * 2, nil
	})

	var observed int
	_, err := MakeEffect(sys, func() (func(), error) {
		v, err := doubled.Get()
		observed = v
		return nil, err
	})
	require.NoError(t, err)
	assert.Equal(t, 2, observed, "effect must run once at creation")

	require.NoError(t, count.Set(5))
	assert.Equal(t, 10, observed, "effect must re-run after its dependency changes")

	require.NoError(t, Verify(sys))
}

// TestBatchCoalescing covers spec.md §8's batch-atomicity property: an
// effect depending on two signals written inside one batch sees both
// writes and runs exactly once.
func TestBatchCoalescing(t *testing.T) {
	sys := New()

	a := MakeSignal(sys, 1)
	b := MakeSignal(sys, 10)

	runs := 0
	var sum int
	_, err := MakeEffect(sys, func() (func(), error) {
		runs++
		sum = a.Get() + b.Get()
		return nil, nil
	})
	require.NoError(t, err)
	require.Equal(t, 1, runs)

	err = sys.Batch(func() {
		require.NoError(t, a.Set(2))
		require.NoError(t, b.Set(20))
	})
	require.NoError(t, err)

	assert.Equal(t, 2, runs, "batched writes must trigger exactly one re-run")
	assert.Equal(t, 22, sum)
}

// TestConditionalDependencies covers dynamic dependency shrinkage: when
// a branch stops being taken, the signal it used to read is no longer a
// tracked dependency and no longer triggers re-runs.
func TestConditionalDependencies(t *testing.T) {
	sys := New()

	useA := MakeSignal(sys, true)
	a := MakeSignal(sys, "a-value")
	b := MakeSignal(sys, "b-value")

	runs := 0
	var observed string
	_, err := MakeEffect(sys, func() (func(), error) {
		runs++
		if useA.Get() {
			observed = a.Get()
		} else {
			observed = b.Get()
		}
		return nil, nil
	})
	require.NoError(t, err)
	require.Equal(t, 1, runs)
	require.Equal(t, "a-value", observed)

	require.NoError(t, useA.Set(false))
	assert.Equal(t, "b-value", observed)
	assert.Equal(t, 2, runs)

	// a is no longer tracked: writing it must not trigger a re-run.
	require.NoError(t, a.Set("a-changed"))
	assert.Equal(t, 2, runs, "dropped dependency must not re-trigger the effect")

	require.NoError(t, Verify(sys))
}

// TestScopeCleanup covers bulk teardown: disposing a scope tears down
// every effect created during its setup, and their cleanup callbacks
// run.
func TestScopeCleanup(t *testing.T) {
	sys := New()

	count := MakeSignal(sys, 0)
	cleanupsRun := 0
	runs := 0

	scope, err := sys.MakeScope(func() {
		_, err := MakeEffect(sys, func() (func(), error) {
			runs++
			count.Get()
			return func() { cleanupsRun++ }, nil
		})
		require.NoError(t, err)
	})
	require.NoError(t, err)
	require.Equal(t, 1, runs)
	require.Equal(t, 0, cleanupsRun)

	require.NoError(t, scope.Cleanup())
	assert.Equal(t, 1, cleanupsRun, "disposing the scope must run the child effect's cleanup")

	// the child effect is gone: further writes to its dependency must not
	// cause any further runs.
	require.NoError(t, count.Set(99))
	assert.Equal(t, 1, runs)
}

// TestDiamondDependency covers a diamond-shaped graph: a single signal
// feeds two computeds that both feed one effect, which must still run
// exactly once per actual change, not once per path.
func TestDiamondDependency(t *testing.T) {
	sys := New()

	base := MakeSignal(sys, 2)
	left := MakeComputed(sys, func() (int, error) { return base.Get() + 1, nil })
	right := MakeComputed(sys, func() (int, error) { return base.Get() * 10, nil })

	runs := 0
	var total int
	_, err := MakeEffect(sys, func() (func(), error) {
		runs++
		l, err := left.Get()
		if err != nil {
			return nil, err
		}
		r, err := right.Get()
		if err != nil {
			return nil, err
		}
		total = l + r
		return nil, nil
	})
	require.NoError(t, err)
	require.Equal(t, 1, runs)
	require.Equal(t, 23, total)

	require.NoError(t, base.Set(3))
	assert.Equal(t, 2, runs, "a diamond must coalesce to a single re-run")
	assert.Equal(t, 34, total)
}

// TestDeepChain covers a long linear chain of computeds, exercising the
// pull-phase recursion in ensureUpToDate/checkDirty at depth.
func TestDeepChain(t *testing.T) {
	const depth = 1000
	sys := New()

	root := MakeSignal(sys, 1)

	prev := func() (int, error) { return root.Get(), nil }
	chain := make([]Computed[int], depth)
	for i := 0; i < depth; i++ {
		p := prev
		c := MakeComputed(sys, func() (int, error) {
			v, err := p()
			return v + 1, err
		})
		chain[i] = c
		prev = func() (int, error) { return c.Get() }
	}

	v, err := chain[depth-1].Get()
	require.NoError(t, err)
	assert.Equal(t, 1+depth, v)

	require.NoError(t, root.Set(10))
	v, err = chain[depth-1].Get()
	require.NoError(t, err)
	assert.Equal(t, 10+depth, v)

	require.NoError(t, Verify(sys))
}

// TestEqualityShortCircuit covers spec.md's equal-value non-error:
// writing a signal to the value it already holds must not propagate or
// re-run dependents.
func TestEqualityShortCircuit(t *testing.T) {
	sys := New()

	s := MakeSignal(sys, 7)
	runs := 0
	_, err := MakeEffect(sys, func() (func(), error) {
		runs++
		s.Get()
		return nil, nil
	})
	require.NoError(t, err)
	require.Equal(t, 1, runs)

	require.NoError(t, s.Set(7))
	assert.Equal(t, 1, runs, "setting a signal to its current value must not re-run dependents")
}

// TestEffectErrorRestoresState covers spec.md §7: a failing effect
// surfaces its error through OnError and through the triggering call,
// and leaves the engine usable for the next write.
func TestEffectErrorRestoresState(t *testing.T) {
	sys := New()
	wantErr := errors.New("boom")

	var reported error
	sys.OnError = func(phase Phase, err error) {
		if phase == PhaseEffect {
			reported = err
		}
	}

	trigger := MakeSignal(sys, false)
	_, err := MakeEffect(sys, func() (func(), error) {
		if trigger.Get() {
			return nil, wantErr
		}
		return nil, nil
	})
	require.NoError(t, err)

	err = trigger.Set(true)
	assert.ErrorIs(t, err, wantErr)
	assert.ErrorIs(t, reported, wantErr)

	// the system must remain usable afterwards.
	require.NoError(t, trigger.Set(false))
}

// TestOnCleanupOutsideOwnerFails covers spec.md's misuse-fatal case.
func TestOnCleanupOutsideOwnerFails(t *testing.T) {
	sys := New()
	err := sys.OnCleanup(func() {})
	assert.ErrorIs(t, err, ErrNoActiveOwner)
}

// TestUnbalancedEndBatchFails covers spec.md's misuse-fatal case.
func TestUnbalancedEndBatchFails(t *testing.T) {
	sys := New()
	err := sys.EndBatch()
	assert.ErrorIs(t, err, ErrUnbalancedBatch)
}
