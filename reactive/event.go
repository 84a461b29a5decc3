package reactive

// Event broadcasts out of band from the dependency graph: Publish delivers
// straight to the handlers routed under its type, with no batching.
type Event[T comparable, M any] struct {
	owned
	typ T
}

func NewEvent[T comparable, M any](s *Scope, typ T) *Event[T, M] {
	ev := &Event[T, M]{typ: typ}
	s.register(ev)
	return ev
}

func (ev *Event[T, M]) Type() T {
	return ev.typ
}

// Subscribe routes ev's type to h in the owning scope.
func (ev *Event[T, M]) Subscribe(h Handler[T, M]) {
	Subscribe(ev.scope.router, ev.typ, h)
}

func (ev *Event[T, M]) Unsubscribe(h Handler[T, M]) {
	Unsubscribe(ev.scope.router, ev.typ, h)
}

// Publish dispatches payload synchronously and returns the number of
// handlers called. Publishing with no handlers, or after Destroy, is a
// no-op.
func (ev *Event[T, M]) Publish(payload M) int {
	if ev.scope == nil {
		return 0
	}
	n := Dispatch(ev.scope.router, Message[T, M]{Type: ev.typ, Payload: payload})
	ev.scope.rt.hooks.EventPublished(n)
	return n
}

func (ev *Event[T, M]) Destroy() {
	ev.release(ev)
}
