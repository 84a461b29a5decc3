package reactive

// Signal propagates "something changed" without carrying data.
type Signal struct {
	owned
	observers
	fn   func()
	task *Task
}

// NewSignal creates a Signal. fn may be nil, in which case Update queues
// nothing and only Emit notifies.
func NewSignal(s *Scope, fn func()) *Signal {
	sig := &Signal{
		observers: newObservers(),
		fn:        fn,
	}
	sig.task = NewTask(sig.run)
	s.register(sig)
	return sig
}

func (sig *Signal) On(sources ...Source) *Signal {
	on(sig, sources)
	return sig
}

func (sig *Signal) Off(sources ...Source) *Signal {
	off(sig, sources)
	return sig
}

// Update queues fn followed by a notification of the signal's observers.
func (sig *Signal) Update() {
	if sig.scope == nil || sig.fn == nil {
		return
	}
	sig.scope.updates.Push(sig.task)
}

func (sig *Signal) run() {
	if sig.fn == nil {
		return
	}
	sig.fn()
	sig.notify()
}

func (sig *Signal) Emit() {
	sig.notify()
}

func (sig *Signal) Destroy() {
	sig.set.Clear()
	sig.fn = nil
	sig.release(sig)
}
