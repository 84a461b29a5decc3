package reactive

import "github.com/delaneyj/realm/ordered"

// Target is anything that can be told an upstream source changed. Update
// must be cheap; derived objects queue their real work.
type Target interface {
	Update()
}

// Source notifies its observers. Observers are compared by identity, so
// the same Target observes a source at most once.
type Source interface {
	Emit()
	Observe(t Target)
	Unobserve(t Target)
}

type observers struct {
	set *ordered.Set[Target]
}

func newObservers() observers {
	return observers{set: ordered.New[Target]()}
}

func (o *observers) Observe(t Target) {
	o.set.Add(t)
}

func (o *observers) Unobserve(t Target) {
	o.set.Remove(t)
}

// Observers returns the number of registered targets.
func (o *observers) Observers() int {
	return o.set.Len()
}

// notify calls Update on a snapshot so observers may add or remove edges
// while being notified.
func (o *observers) notify() {
	for _, t := range o.set.Slice() {
		t.Update()
	}
}

// owned is the scope back-reference every built-in object carries.
type owned struct {
	scope *Scope
}

func (o *owned) setScope(s *Scope) {
	o.scope = s
}

// Scope returns the owning scope, or nil once destroyed.
func (o *owned) Scope() *Scope {
	return o.scope
}

func (o *owned) release(self Object) {
	if o.scope != nil {
		o.scope.Release(self)
		o.scope = nil
	}
}

// Listener is a Target that calls fn synchronously on every notification.
// It is how code outside the reactive graph watches a source without
// waiting for a drain.
type Listener struct {
	fn func()
}

func NewListener(fn func()) *Listener {
	return &Listener{fn: fn}
}

func (l *Listener) Update() {
	if l.fn != nil {
		l.fn()
	}
}

func on(t Target, sources []Source) {
	for _, src := range sources {
		src.Observe(t)
	}
}

func off(t Target, sources []Source) {
	for _, src := range sources {
		src.Unobserve(t)
	}
}
