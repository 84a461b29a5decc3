package reactive

import (
	"math"
	"reflect"
)

// Value is mutable leaf state. Set notifies observers synchronously; it
// never defers.
type Value[T any] struct {
	owned
	observers
	value T
	equal func(a, b T) bool
}

// NewValue creates a Value that treats v == current as "unchanged". NaN
// counts as equal to NaN, so re-setting it does not notify.
func NewValue[T comparable](s *Scope, v T) *Value[T] {
	return NewValueFunc(s, v, same[T])
}

// same is == except that two float NaNs match.
func same[T comparable](a, b T) bool {
	if a == b {
		return true
	}
	ra, rb := reflect.ValueOf(a), reflect.ValueOf(b)
	switch ra.Kind() {
	case reflect.Float32, reflect.Float64:
		return math.IsNaN(ra.Float()) && math.IsNaN(rb.Float())
	}
	return false
}

// NewValueFunc creates a Value with a custom identity test, for types that
// are not comparable. A nil equal makes every Set notify.
func NewValueFunc[T any](s *Scope, v T, equal func(a, b T) bool) *Value[T] {
	val := &Value[T]{
		observers: newObservers(),
		value:     v,
		equal:     equal,
	}
	s.register(val)
	return val
}

func (v *Value[T]) Get() T {
	return v.value
}

// Set stores next and notifies observers when it differs from the current
// value or force is true. It reports whether observers were notified.
func (v *Value[T]) Set(next T, force ...bool) bool {
	if !isForced(force) && v.equal != nil && v.equal(v.value, next) {
		return false
	}
	v.value = next
	v.notify()
	return true
}

func (v *Value[T]) Apply(fn func(T) T, force ...bool) bool {
	return v.Set(fn(v.value), force...)
}

// Emit notifies observers without changing the value.
func (v *Value[T]) Emit() {
	v.notify()
}

func (v *Value[T]) Destroy() {
	v.set.Clear()
	v.release(v)
}

func isForced(force []bool) bool {
	return len(force) > 0 && force[0]
}
