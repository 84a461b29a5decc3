// Package reactive is an explicit, push based reactivity layer.
//
// Sources (Value, Expr, Signal) notify their observers synchronously. An
// observer is a Target (Expr, Effect, Signal, or a Listener) whose Update
// does not recompute inline; it pushes a task onto the update queue of the
// scope that owns it. The update queue drains at the next tick of the
// runtime's scheduler, and because a recompute notifies its own observers
// synchronously inside the drain, a chain of derivations of any depth
// settles within one drain. When the update queue reaches a fixpoint the
// effect queue chained to it runs, so work placed there only ever sees
// settled state.
//
// Edges are explicit:
//
//	count := reactive.NewValue(scope, 1)
//	double := reactive.NewExpr(scope, func(int) int { return count.Get() * 2 }, 2).On(count)
//	reactive.NewEffect(scope, func() { fmt.Println(double.Get()) }).On(double)
//
//	count.Set(2)
//	sched.Tick() // double recomputes, then the effect prints 4
//
// Ownership is a tree of scopes kept in the Runtime's arena. Destroying a
// scope destroys its children, then the objects it owns, then runs its
// teardown hooks. Events are a separate broadcast channel routed through
// the owning scope's Router and never go through the queues.
//
// Everything here assumes a single logical thread. Use a tick.Manual
// scheduler and call Tick, or run all reactive code on a tick.Loop.
package reactive
