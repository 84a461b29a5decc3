// Package tick provides the cooperative schedulers that decide when deferred
// reactive work runs.
//
// A tick is the point at which all synchronously reachable work is done and
// callbacks scheduled for "later" are flushed, before any timer or I/O
// driven callback gets a turn. Manual makes the tick an explicit call, which
// is what tests and batch tools want. Loop runs on a go-eventloop loop
// and treats scheduled callbacks as microtasks drained after every
// macrotask.
package tick

import (
	"errors"
	"fmt"
)

// Scheduler defers a callback to the next tick. Implementations run
// callbacks in the order they were scheduled, and callbacks scheduled while
// a tick is being flushed run within that same flush.
type Scheduler interface {
	Schedule(fn func())
}

var (
	ErrLoopClosed  = errors.New("realm/tick: loop closed")
	ErrLoopRunning = errors.New("realm/tick: loop already running")
)

// PanicError wraps a value recovered from a task run by a Loop.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("realm/tick: task panicked: %v", e.Value)
}

func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// Manual is a Scheduler drained by explicit calls to Tick.
// It is not safe for concurrent use.
type Manual struct {
	pending []func()
}

func NewManual() *Manual {
	return &Manual{}
}

func (m *Manual) Schedule(fn func()) {
	m.pending = append(m.pending, fn)
}

// Pending returns the number of callbacks waiting for the next tick.
func (m *Manual) Pending() int {
	return len(m.pending)
}

// Tick runs scheduled callbacks in order until none remain, including ones
// scheduled by the callbacks themselves, and returns how many ran. A
// panicking callback propagates; callbacks after it stay pending.
func (m *Manual) Tick() int {
	ran := 0
	for len(m.pending) > 0 {
		fn := m.pending[0]
		m.pending[0] = nil
		m.pending = m.pending[1:]
		ran++
		fn()
	}
	m.pending = nil
	return ran
}
