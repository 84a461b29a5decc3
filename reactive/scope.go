package reactive

import (
	"fmt"
	"log/slog"
	"slices"

	mapset "github.com/deckarep/golang-set/v2"
)

// Object is anything a scope can own. Destroy must release the object from
// its scope (see Scope.Release); a scope that still owns an object after
// calling its Destroy panics. Implement it on a pointer type.
type Object interface {
	Destroy()
}

type scopedObject interface {
	Object
	setScope(s *Scope)
}

type ScopeOption func(*scopeConfig)

type scopeConfig struct {
	context any
}

// WithContext attaches an opaque payload to the new scope. If the payload
// has a Destroy() method it is called when the scope is destroyed.
func WithContext(ctx any) ScopeOption {
	return func(c *scopeConfig) {
		c.context = ctx
	}
}

// Scope is a node of the ownership tree and the scheduling context of the
// objects it owns.
type Scope struct {
	rt        *Runtime
	id        ScopeID
	parent    ScopeID
	children  mapset.Set[ScopeID]
	objects   mapset.Set[Object]
	context   any
	onDestroy []func()
	destroyed bool

	updates *TaskQueue
	effects *TaskQueue
	tasks   *TaskQueue
	router  *Router
}

func newScope(rt *Runtime, id, parent ScopeID, ctx any) *Scope {
	s := &Scope{
		rt:       rt,
		id:       id,
		parent:   parent,
		children: mapset.NewThreadUnsafeSet[ScopeID](),
		objects:  mapset.NewThreadUnsafeSet[Object](),
		context:  ctx,
		router:   NewRouter(),
	}
	s.effects = NewTaskQueue(onDrain(rt.drained(id, QueueEffect)))
	s.updates = NewTaskQueue(
		SelfScheduling(rt.scheduler),
		ChainTo(s.effects),
		onDrain(rt.drained(id, QueueUpdate)),
	)
	s.tasks = NewTaskQueue(onDrain(rt.drained(id, QueueTasks)))
	return s
}

func (s *Scope) ID() ScopeID         { return s.id }
func (s *Scope) Runtime() *Runtime   { return s.rt }
func (s *Scope) Context() any        { return s.context }
func (s *Scope) Destroyed() bool     { return s.destroyed }
func (s *Scope) Router() *Router     { return s.router }
func (s *Scope) Updates() *TaskQueue { return s.updates }
func (s *Scope) Effects() *TaskQueue { return s.effects }
func (s *Scope) Tasks() *TaskQueue   { return s.tasks }

// Parent returns nil for a root scope and for a detached one.
func (s *Scope) Parent() *Scope {
	if s.parent == 0 {
		return nil
	}
	return s.rt.scopes[s.parent]
}

// Children returns the live child scopes ordered by handle.
func (s *Scope) Children() []*Scope {
	ids := s.children.ToSlice()
	slices.Sort(ids)
	children := make([]*Scope, 0, len(ids))
	for _, id := range ids {
		if child, ok := s.rt.scopes[id]; ok {
			children = append(children, child)
		}
	}
	return children
}

// Objects returns the owned objects in no particular order.
func (s *Scope) Objects() []Object {
	return s.objects.ToSlice()
}

// ContextOf returns the scope's context payload if it is a C.
func ContextOf[C any](s *Scope) (C, bool) {
	c, ok := s.context.(C)
	return c, ok
}

func (s *Scope) CreateChild(opts ...ScopeOption) *Scope {
	s.mustLive()
	cfg := &scopeConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	child := s.rt.newScope(s.id, cfg.context)
	s.children.Add(child.id)
	return child
}

// Adopt makes s the owner of obj, taking it away from any previous owner.
func (s *Scope) Adopt(obj Object) {
	s.mustLive()
	if prev, ok := s.rt.owners[obj]; ok && prev != s.id {
		if owner, ok := s.rt.scopes[prev]; ok {
			owner.objects.Remove(obj)
		}
	}
	s.objects.Add(obj)
	s.rt.owners[obj] = s.id
	if so, ok := obj.(scopedObject); ok {
		so.setScope(s)
	}
}

// Release drops obj from the scope without destroying it. Object
// implementations call it from Destroy.
func (s *Scope) Release(obj Object) {
	s.objects.Remove(obj)
	if s.rt.owners[obj] == s.id {
		delete(s.rt.owners, obj)
	}
}

// OnDestroy registers fn to run during Destroy, after owned objects are
// gone and the context payload has been torn down.
func (s *Scope) OnDestroy(fn func()) {
	s.mustLive()
	s.onDestroy = append(s.onDestroy, fn)
}

// AfterSettle runs t on the effect queue once the update queue reaches its
// next fixpoint, scheduling an update drain if none is pending.
func (s *Scope) AfterSettle(t *Task) {
	s.effects.Push(t)
	s.updates.Schedule()
}

// Sync is the update queue's Sync: closed once updates and effects are
// both drained.
func (s *Scope) Sync() <-chan struct{} {
	return s.updates.Sync()
}

// Destroy tears the subtree down: child scopes, then owned objects, then
// the context payload and OnDestroy hooks, then detaches from the parent.
// Anything left behind by a child or an object is a bug in that
// implementation and panics with *ConsistencyError.
func (s *Scope) Destroy() {
	if s.destroyed {
		return
	}

	for _, child := range s.Children() {
		child.Destroy()
	}
	if n := s.children.Cardinality(); n > 0 {
		panic(&ConsistencyError{Scope: s.id, What: "child scopes", Remaining: n})
	}

	for _, obj := range s.objects.ToSlice() {
		obj.Destroy()
	}
	if n := s.objects.Cardinality(); n > 0 {
		panic(&ConsistencyError{Scope: s.id, What: "reactive objects", Remaining: n})
	}

	if d, ok := s.context.(interface{ Destroy() }); ok {
		d.Destroy()
	}
	s.context = nil

	hooks := s.onDestroy
	s.onDestroy = nil
	for _, fn := range hooks {
		fn()
	}

	if parent := s.Parent(); parent != nil {
		parent.children.Remove(s.id)
	}
	s.parent = 0
	s.router.RemoveAll()
	s.destroyed = true
	s.rt.dropScope(s)
}

func (s *Scope) register(obj scopedObject) {
	s.Adopt(obj)
}

func (s *Scope) mustLive() {
	if s.destroyed {
		panic(fmt.Errorf("scope %d: %w", s.id, ErrDestroyed))
	}
}

func (s *Scope) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Uint64("id", uint64(s.id)),
		slog.Uint64("parent", uint64(s.parent)),
		slog.Int("children", s.children.Cardinality()),
		slog.Int("objects", s.objects.Cardinality()),
	)
}
