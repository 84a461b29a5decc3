package reactive

// Expr is a memoized value derived from upstream sources. It is both a
// Target (Update queues a recompute) and a Source (the recompute notifies
// its own observers inside the drain, so chains of any depth settle in one
// tick).
type Expr[T any] struct {
	owned
	observers
	value     T
	recompute func(old T) T
	task      *Task
}

func NewExpr[T any](s *Scope, recompute func(old T) T, initial T) *Expr[T] {
	e := &Expr[T]{
		observers: newObservers(),
		value:     initial,
		recompute: recompute,
	}
	e.task = NewTask(e.run)
	s.register(e)
	return e
}

// On makes e observe every source and returns e for chaining.
func (e *Expr[T]) On(sources ...Source) *Expr[T] {
	on(e, sources)
	return e
}

func (e *Expr[T]) Off(sources ...Source) *Expr[T] {
	off(e, sources)
	return e
}

// Update queues a recompute on the owning scope's update queue. Repeated
// updates before the drain coalesce into one recompute. Updating a
// destroyed Expr does nothing.
func (e *Expr[T]) Update() {
	if e.scope == nil {
		return
	}
	e.scope.updates.Push(e.task)
}

func (e *Expr[T]) run() {
	if e.recompute == nil {
		return
	}
	e.value = e.recompute(e.value)
	e.notify()
}

func (e *Expr[T]) Emit() {
	e.notify()
}

func (e *Expr[T]) Get() T {
	return e.value
}

// Poke stores v without notifying anyone. Observers only see it after the
// next Emit or recompute.
func (e *Expr[T]) Poke(v T) {
	e.value = v
}

func (e *Expr[T]) Destroy() {
	e.set.Clear()
	e.recompute = nil
	e.release(e)
}
