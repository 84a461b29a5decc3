package reactive

import (
	"errors"
	"fmt"
)

var (
	// ErrConsistency marks a scope teardown that left owned objects or child
	// scopes behind. It is always raised as a panic.
	ErrConsistency = errors.New("realm: scope consistency violation")

	// ErrDestroyed is returned (or panicked with, for construction on a dead
	// scope) when a destroyed scope is used.
	ErrDestroyed = errors.New("realm: scope destroyed")

	// ErrUnknownScope is returned by Runtime.Scope for handles it never issued.
	ErrUnknownScope = errors.New("realm: unknown scope")

	// ErrRoute marks a handler registered under an event type with a
	// different message type than the one being published.
	ErrRoute = errors.New("realm: handler does not accept message")
)

type ConsistencyError struct {
	Scope     ScopeID
	What      string
	Remaining int
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("%s: scope %d still has %d %s after destroy", ErrConsistency, e.Scope, e.Remaining, e.What)
}

func (e *ConsistencyError) Unwrap() error { return ErrConsistency }

type RouteError struct {
	Tag     any
	Handler any
	Message any
}

func (e *RouteError) Error() string {
	return fmt.Sprintf("%s: %T registered under %v cannot handle %T", ErrRoute, e.Handler, e.Tag, e.Message)
}

func (e *RouteError) Unwrap() error { return ErrRoute }
