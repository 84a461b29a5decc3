package reactive

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/delaneyj/realm/tick"
)

// ScopeID is a stable handle into a Runtime's scope arena. Zero is never
// issued and means "no scope".
type ScopeID uint64

type RuntimeOption func(*Runtime)

// WithScheduler sets the scheduler that update queues drain on. The default
// is a tick.Manual, reachable through Runtime.Scheduler.
func WithScheduler(s tick.Scheduler) RuntimeOption {
	return func(rt *Runtime) {
		if s != nil {
			rt.scheduler = s
		}
	}
}

func WithHooks(h Hooks) RuntimeOption {
	return func(rt *Runtime) {
		if h != nil {
			rt.hooks = h
		}
	}
}

// WithLogger sets the logger for scope lifecycle and drain records, all
// logged at debug level. The default discards.
func WithLogger(logger *slog.Logger) RuntimeOption {
	return func(rt *Runtime) {
		if logger != nil {
			rt.logger = logger
		}
	}
}

// WithRootContext attaches a context payload to the root scope.
func WithRootContext(ctx any) RuntimeOption {
	return func(rt *Runtime) {
		rt.rootContext = ctx
	}
}

// Runtime owns the scope arena and the scheduler. A process creates one
// and passes its Root (or children of it) to everything that builds
// reactive objects.
type Runtime struct {
	scheduler   tick.Scheduler
	hooks       Hooks
	logger      *slog.Logger
	rootContext any

	lastID ScopeID
	scopes map[ScopeID]*Scope
	owners map[Object]ScopeID
	root   *Scope
}

func NewRuntime(opts ...RuntimeOption) *Runtime {
	rt := &Runtime{
		scheduler: tick.NewManual(),
		hooks:     NopHooks{},
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		scopes:    map[ScopeID]*Scope{},
		owners:    map[Object]ScopeID{},
	}
	for _, opt := range opts {
		opt(rt)
	}
	rt.root = rt.newScope(0, rt.rootContext)
	rt.rootContext = nil
	return rt
}

func (rt *Runtime) Root() *Scope {
	return rt.root
}

func (rt *Runtime) Scheduler() tick.Scheduler {
	return rt.scheduler
}

// Scope resolves a handle. Handles of destroyed scopes return ErrDestroyed.
func (rt *Runtime) Scope(id ScopeID) (*Scope, error) {
	if s, ok := rt.scopes[id]; ok {
		return s, nil
	}
	if id != 0 && id <= rt.lastID {
		return nil, fmt.Errorf("scope %d: %w", id, ErrDestroyed)
	}
	return nil, fmt.Errorf("scope %d: %w", id, ErrUnknownScope)
}

// Len returns the number of live scopes, root included.
func (rt *Runtime) Len() int {
	return len(rt.scopes)
}

// Owner returns the handle of the scope owning obj, or zero.
func (rt *Runtime) Owner(obj Object) ScopeID {
	return rt.owners[obj]
}

func (rt *Runtime) newScope(parent ScopeID, ctx any) *Scope {
	rt.lastID++
	s := newScope(rt, rt.lastID, parent, ctx)
	rt.scopes[s.id] = s
	rt.logger.Debug("scope created", slog.Uint64("scope", uint64(s.id)), slog.Uint64("parent", uint64(parent)))
	rt.hooks.ScopeCreated(s.id)
	return s
}

func (rt *Runtime) dropScope(s *Scope) {
	delete(rt.scopes, s.id)
	rt.logger.Debug("scope destroyed", slog.Uint64("scope", uint64(s.id)))
	rt.hooks.ScopeDestroyed(s.id)
}

func (rt *Runtime) drained(id ScopeID, kind QueueKind) func(passes, tasks int) {
	return func(passes, tasks int) {
		// a drain scheduled while the previous one was running finds the
		// queue empty
		if tasks == 0 {
			return
		}
		rt.logger.Debug("queue drained",
			slog.Uint64("scope", uint64(id)),
			slog.String("queue", kind.String()),
			slog.Int("passes", passes),
			slog.Int("tasks", tasks),
		)
		rt.hooks.QueueDrained(kind, passes, tasks)
	}
}
