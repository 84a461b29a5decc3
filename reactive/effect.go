package reactive

// Effect runs a side effect after its sources change. It is a pure sink:
// it observes but nobody observes it.
type Effect struct {
	owned
	fn   func()
	task *Task
}

func NewEffect(s *Scope, fn func()) *Effect {
	e := &Effect{fn: fn}
	e.task = NewTask(e.run)
	s.register(e)
	return e
}

func (e *Effect) On(sources ...Source) *Effect {
	on(e, sources)
	return e
}

func (e *Effect) Off(sources ...Source) *Effect {
	off(e, sources)
	return e
}

// Update queues the executor on the owning scope's update queue.
func (e *Effect) Update() {
	if e.scope == nil {
		return
	}
	e.scope.updates.Push(e.task)
}

func (e *Effect) run() {
	if e.fn != nil {
		e.fn()
	}
}

func (e *Effect) Destroy() {
	e.fn = nil
	e.release(e)
}

// EventEffect is an Effect whose executor receives the event message that
// triggered it. As a Handler it queues one task per delivered message, so
// no payload is coalesced away; as a Target it runs with a zero message.
type EventEffect[T comparable, M any] struct {
	owned
	fn     func(Message[T, M])
	task   *Task
	listen []T
}

func NewEventEffect[T comparable, M any](s *Scope, fn func(Message[T, M])) *EventEffect[T, M] {
	e := &EventEffect[T, M]{fn: fn}
	e.task = NewTask(func() { e.run(Message[T, M]{}) })
	s.register(e)
	return e
}

func (e *EventEffect[T, M]) On(sources ...Source) *EventEffect[T, M] {
	on(e, sources)
	return e
}

func (e *EventEffect[T, M]) Off(sources ...Source) *EventEffect[T, M] {
	off(e, sources)
	return e
}

// Listen subscribes e to typ in the owning scope's router. Destroy
// unsubscribes everything Listen added.
func (e *EventEffect[T, M]) Listen(types ...T) *EventEffect[T, M] {
	if e.scope == nil {
		return e
	}
	for _, typ := range types {
		Subscribe[T, M](e.scope.router, typ, e)
		e.listen = append(e.listen, typ)
	}
	return e
}

func (e *EventEffect[T, M]) Unlisten(types ...T) *EventEffect[T, M] {
	if e.scope == nil {
		return e
	}
	for _, typ := range types {
		Unsubscribe[T, M](e.scope.router, typ, e)
	}
	return e
}

func (e *EventEffect[T, M]) Update() {
	if e.scope == nil {
		return
	}
	e.scope.updates.Push(e.task)
}

func (e *EventEffect[T, M]) HandleEvent(msg Message[T, M]) {
	if e.scope == nil {
		return
	}
	e.scope.updates.Push(NewTask(func() { e.run(msg) }))
}

func (e *EventEffect[T, M]) run(msg Message[T, M]) {
	if e.fn != nil {
		e.fn(msg)
	}
}

func (e *EventEffect[T, M]) Destroy() {
	if e.scope != nil {
		e.Unlisten(e.listen...)
	}
	e.listen = nil
	e.fn = nil
	e.release(e)
}
