package tick

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime/debug"
	"sync/atomic"

	"github.com/joeycumines/go-eventloop"
)

type LoopOption func(*Loop)

// WithLogger sets the logger used for recovered task panics and dropped
// microtasks.
func WithLogger(logger *slog.Logger) LoopOption {
	return func(l *Loop) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithPanicHandler is called on the loop goroutine with every recovered
// task panic.
func WithPanicHandler(fn func(*PanicError)) LoopOption {
	return func(l *Loop) {
		l.onPanic = fn
	}
}

// Loop is a single consumer event loop backed by go-eventloop. Macrotasks
// enter through Submit from any goroutine; microtasks enter through
// Schedule from the loop goroutine and all of them run after the current
// macrotask, before the next one.
type Loop struct {
	el      *eventloop.Loop
	logger  *slog.Logger
	onPanic func(*PanicError)

	started atomic.Bool
	done    chan struct{}
}

func NewLoop(opts ...LoopOption) (*Loop, error) {
	el, err := eventloop.New(eventloop.WithStrictMicrotaskOrdering(true))
	if err != nil {
		return nil, fmt.Errorf("realm/tick: new loop: %w", err)
	}

	l := &Loop{
		el:     el,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// Submit queues fn as a macrotask. Safe for concurrent use. Once the loop
// has terminated every call returns ErrLoopClosed; a nil return means fn
// will run, even if the loop is already shutting down.
func (l *Loop) Submit(fn func()) error {
	if err := l.el.Submit(l.guard(fn)); err != nil {
		return closedErr(err)
	}
	return nil
}

// Schedule queues fn as a microtask. It must only be called from the loop
// goroutine, which is where all reactive code driven by this loop runs.
func (l *Loop) Schedule(fn func()) {
	if err := l.el.ScheduleMicrotask(l.guard(fn)); err != nil {
		l.logger.Warn("microtask dropped", slog.Any("error", err))
	}
}

// Run processes tasks until ctx is done or Shutdown is called. Either way,
// tasks accepted before termination still run before Run returns.
func (l *Loop) Run(ctx context.Context) error {
	if !l.started.CompareAndSwap(false, true) {
		if l.el.State() == eventloop.StateTerminated {
			return ErrLoopClosed
		}
		return ErrLoopRunning
	}
	defer close(l.done)

	err := l.el.Run(ctx)
	switch {
	case errors.Is(err, eventloop.ErrLoopAlreadyRunning):
		return ErrLoopRunning
	case errors.Is(err, eventloop.ErrLoopTerminated):
		return ErrLoopClosed
	}
	return err
}

// Shutdown stops accepting tasks and waits for Run to return. It is
// idempotent and also succeeds when the loop already stopped on its own.
func (l *Loop) Shutdown(ctx context.Context) error {
	err := l.el.Shutdown(ctx)
	if l.started.CompareAndSwap(false, true) {
		// never ran
		close(l.done)
	}
	if err != nil && !errors.Is(err, eventloop.ErrLoopTerminated) {
		return err
	}
	select {
	case <-l.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Done is closed once Run has returned, or at Shutdown if Run never started.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

// guard recovers fn's panics before they reach the library, which would
// only print them.
func (l *Loop) guard(fn func()) func() {
	return func() {
		defer func() {
			if r := recover(); r != nil {
				perr := &PanicError{Value: r, Stack: debug.Stack()}
				l.logger.Error("task panicked", slog.Any("panic", r))
				if l.onPanic != nil {
					l.onPanic(perr)
				}
			}
		}()
		fn()
	}
}

func closedErr(err error) error {
	if errors.Is(err, eventloop.ErrLoopTerminated) {
		return fmt.Errorf("%w: %w", ErrLoopClosed, err)
	}
	return err
}
