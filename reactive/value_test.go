package reactive_test

import (
	"math"
	"slices"
	"testing"

	"github.com/delaneyj/realm/reactive"
	"github.com/delaneyj/realm/tick"
	"github.com/stretchr/testify/assert"
)

func newTestRuntime() (*reactive.Runtime, *tick.Manual) {
	sched := tick.NewManual()
	return reactive.NewRuntime(reactive.WithScheduler(sched)), sched
}

func TestValueNotifiesOnlyOnChange(t *testing.T) {
	rt, _ := newTestRuntime()
	v := reactive.NewValue(rt.Root(), 0)

	callCount := 0
	v.Observe(reactive.NewListener(func() { callCount++ }))

	for _, next := range []int{1, 1, 2, 2, 3, 1} {
		v.Set(next)
	}
	assert.Equal(t, 4, callCount)
	assert.Equal(t, 1, v.Get())

	v.Set(1, true)
	v.Set(1, true)
	assert.Equal(t, 6, callCount)
}

func TestValueNaNIsUnchanged(t *testing.T) {
	type ratio float32

	rt, _ := newTestRuntime()
	f := reactive.NewValue(rt.Root(), 0.5)
	r := reactive.NewValue(rt.Root(), ratio(0))

	callCount := 0
	f.Observe(reactive.NewListener(func() { callCount++ }))
	r.Observe(reactive.NewListener(func() { callCount++ }))

	assert.True(t, f.Set(math.NaN()))
	assert.False(t, f.Set(math.NaN()))
	assert.True(t, r.Set(ratio(math.NaN())))
	assert.False(t, r.Set(ratio(math.NaN())))
	assert.Equal(t, 2, callCount)

	assert.True(t, f.Set(0.25))
	assert.True(t, f.Set(math.NaN(), true))
	assert.Equal(t, 4, callCount)
}

func TestValueForceWithLateObserver(t *testing.T) {
	rt, _ := newTestRuntime()
	v := reactive.NewValue(rt.Root(), 0)
	v.Set(100)

	callCount := 0
	v.Observe(reactive.NewListener(func() { callCount++ }))
	v.Set(100, true)
	assert.Equal(t, 1, callCount)
}

func TestValueApplyAndEmit(t *testing.T) {
	rt, _ := newTestRuntime()
	v := reactive.NewValue(rt.Root(), 2)

	callCount := 0
	v.Observe(reactive.NewListener(func() { callCount++ }))

	assert.True(t, v.Apply(func(n int) int { return n * 3 }))
	assert.Equal(t, 6, v.Get())
	assert.False(t, v.Apply(func(n int) int { return n }))
	assert.Equal(t, 1, callCount)

	v.Emit()
	assert.Equal(t, 2, callCount)
	assert.Equal(t, 6, v.Get())
}

func TestValueNotifiesInObserverOrder(t *testing.T) {
	rt, _ := newTestRuntime()
	v := reactive.NewValue(rt.Root(), "")

	var order []int
	for i := range 4 {
		v.Observe(reactive.NewListener(func() { order = append(order, i) }))
	}
	v.Set("x")
	assert.Equal(t, []int{0, 1, 2, 3}, order)
}

func TestValueFunc(t *testing.T) {
	rt, _ := newTestRuntime()
	v := reactive.NewValueFunc(rt.Root(), []string{"a"}, func(a, b []string) bool {
		return slices.Equal(a, b)
	})

	callCount := 0
	v.Observe(reactive.NewListener(func() { callCount++ }))
	v.Set([]string{"a"})
	assert.Equal(t, 0, callCount)
	v.Set([]string{"a", "b"})
	assert.Equal(t, 1, callCount)

	always := reactive.NewValueFunc(rt.Root(), []int{}, nil)
	always.Observe(reactive.NewListener(func() { callCount++ }))
	always.Set(nil)
	always.Set(nil)
	assert.Equal(t, 3, callCount)
}

func TestValueObserveIsIdempotent(t *testing.T) {
	rt, _ := newTestRuntime()
	v := reactive.NewValue(rt.Root(), 0)

	callCount := 0
	l := reactive.NewListener(func() { callCount++ })
	v.Observe(l)
	v.Observe(l)
	assert.Equal(t, 1, v.Observers())

	v.Set(1)
	assert.Equal(t, 1, callCount)

	v.Unobserve(l)
	v.Set(2)
	assert.Equal(t, 1, callCount)
	assert.Equal(t, 0, v.Observers())
}

func TestValueDestroy(t *testing.T) {
	rt, _ := newTestRuntime()
	root := rt.Root()
	v := reactive.NewValue(root, 0)
	v.Observe(reactive.NewListener(func() {}))
	assert.Len(t, root.Objects(), 1)
	assert.Equal(t, root.ID(), rt.Owner(v))

	v.Destroy()
	assert.Nil(t, v.Scope())
	assert.Equal(t, 0, v.Observers())
	assert.Empty(t, root.Objects())
	assert.Zero(t, rt.Owner(v))
}
