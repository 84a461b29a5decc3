package reactive

// QueueKind names the three queues every scope owns.
type QueueKind uint8

const (
	QueueUpdate QueueKind = iota + 1
	QueueEffect
	QueueTasks
)

func (k QueueKind) String() string {
	switch k {
	case QueueUpdate:
		return "update"
	case QueueEffect:
		return "effect"
	case QueueTasks:
		return "tasks"
	default:
		return "unknown"
	}
}

// Hooks observes the runtime. All methods are called synchronously on the
// reactive goroutine and must not call back into the runtime.
type Hooks interface {
	ScopeCreated(id ScopeID)
	ScopeDestroyed(id ScopeID)
	// QueueDrained follows every drain that ran at least one task.
	QueueDrained(kind QueueKind, passes, tasks int)
	EventPublished(handlers int)
}

// NopHooks ignores everything.
type NopHooks struct{}

func (NopHooks) ScopeCreated(ScopeID)             {}
func (NopHooks) ScopeDestroyed(ScopeID)           {}
func (NopHooks) QueueDrained(QueueKind, int, int) {}
func (NopHooks) EventPublished(int)               {}
