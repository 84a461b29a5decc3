package reactive

import (
	"github.com/cespare/xxhash/v2"
	"github.com/delaneyj/realm/ordered"
)

// Message is what an event publishes and what handlers receive.
type Message[T comparable, M any] struct {
	Type    T
	Payload M
}

// Handler receives messages routed under the event type it was subscribed
// with. Handlers are compared by identity, so implement it on a pointer.
type Handler[T comparable, M any] interface {
	HandleEvent(msg Message[T, M])
}

type HandlerFunc[T comparable, M any] struct {
	fn func(Message[T, M])
}

// NewHandler wraps fn so it can be subscribed and later unsubscribed.
func NewHandler[T comparable, M any](fn func(Message[T, M])) *HandlerFunc[T, M] {
	return &HandlerFunc[T, M]{fn: fn}
}

func (h *HandlerFunc[T, M]) HandleEvent(msg Message[T, M]) {
	h.fn(msg)
}

// EventType derives a stable tag from an event name, for callers that want
// numeric tags without keeping a registry of constants.
func EventType(name string) uint64 {
	return xxhash.Sum64String(name)
}

// Router maps event type tags to ordered handler sets. Sets are created on
// first subscription and removed when they become empty.
type Router struct {
	routes map[any]*ordered.Set[any]
}

func NewRouter() *Router {
	return &Router{routes: map[any]*ordered.Set[any]{}}
}

func Subscribe[T comparable, M any](r *Router, typ T, h Handler[T, M]) {
	set, ok := r.routes[typ]
	if !ok {
		set = ordered.New[any]()
		r.routes[typ] = set
	}
	set.Add(h)
}

func Unsubscribe[T comparable, M any](r *Router, typ T, h Handler[T, M]) {
	set, ok := r.routes[typ]
	if !ok {
		return
	}
	set.Remove(h)
	if set.Len() == 0 {
		delete(r.routes, typ)
	}
}

// Dispatch delivers msg synchronously to a snapshot of the handlers under
// msg.Type and returns how many were called. A handler subscribed under
// the same tag with a different message type panics with *RouteError.
func Dispatch[T comparable, M any](r *Router, msg Message[T, M]) int {
	set, ok := r.routes[msg.Type]
	if !ok {
		return 0
	}
	handlers := set.Slice()
	for _, raw := range handlers {
		h, ok := raw.(Handler[T, M])
		if !ok {
			panic(&RouteError{Tag: msg.Type, Handler: raw, Message: msg})
		}
		h.HandleEvent(msg)
	}
	return len(handlers)
}

// RemoveAll drops every handler under the given tags, or every handler
// when called without tags.
func (r *Router) RemoveAll(tags ...any) {
	if len(tags) == 0 {
		clear(r.routes)
		return
	}
	for _, tag := range tags {
		delete(r.routes, tag)
	}
}

// Len returns the number of handlers under tag.
func (r *Router) Len(tag any) int {
	if set, ok := r.routes[tag]; ok {
		return set.Len()
	}
	return 0
}

// Routes returns the number of tags with at least one handler.
func (r *Router) Routes() int {
	return len(r.routes)
}
