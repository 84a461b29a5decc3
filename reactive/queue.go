package reactive

import (
	"context"

	"github.com/delaneyj/realm/ordered"
	"github.com/delaneyj/realm/tick"
)

// Task is a queueable callback. Queues compare tasks by pointer, so pushing
// the same *Task twice before a drain runs it once.
type Task struct {
	fn func()
}

func NewTask(fn func()) *Task {
	return &Task{fn: fn}
}

func (t *Task) Run() {
	if t.fn != nil {
		t.fn()
	}
}

type QueueOption func(*TaskQueue)

// SelfScheduling makes Push schedule a drain on s when none is pending.
func SelfScheduling(s tick.Scheduler) QueueOption {
	return func(q *TaskQueue) {
		q.scheduler = s
	}
}

// ChainTo drains next every time this queue reaches a fixpoint.
func ChainTo(next *TaskQueue) QueueOption {
	return func(q *TaskQueue) {
		q.next = next
	}
}

func onDrain(fn func(passes, tasks int)) QueueOption {
	return func(q *TaskQueue) {
		q.onDrain = fn
	}
}

// TaskQueue is a deduplicating, insertion ordered list of pending tasks.
type TaskQueue struct {
	tasks     *ordered.Set[*Task]
	scheduler tick.Scheduler
	next      *TaskQueue
	scheduled bool
	waiters   []chan struct{}
	onDrain   func(passes, tasks int)
}

func NewTaskQueue(opts ...QueueOption) *TaskQueue {
	q := &TaskQueue{tasks: ordered.New[*Task]()}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Push appends t, or moves it to the end if it is already queued. The
// latest push decides where t runs; it never runs twice for one drain.
func (q *TaskQueue) Push(t *Task) {
	q.tasks.MoveToBack(t)
	if q.scheduler != nil {
		q.Schedule()
	}
}

// Schedule asks the scheduler for one drain at the next tick unless one is
// already pending. Queues without a scheduler ignore it.
func (q *TaskQueue) Schedule() {
	if q.scheduler == nil || q.scheduled {
		return
	}
	q.scheduled = true
	q.scheduler.Schedule(q.scheduledProcess)
}

func (q *TaskQueue) scheduledProcess() {
	q.scheduled = false
	q.Process()
}

// Process drains the queue to a fixpoint: it runs a snapshot of the queued
// tasks and repeats while running them queued more. Then it drains the
// chained queue and releases Sync waiters.
//
// A panicking task propagates and the rest of its snapshot is dropped.
func (q *TaskQueue) Process() {
	passes, ran := 0, 0
	for q.tasks.Len() > 0 {
		snapshot := q.tasks.Slice()
		q.tasks.Clear()
		passes++
		for _, t := range snapshot {
			ran++
			t.Run()
		}
	}
	if q.next != nil {
		q.next.Process()
	}
	q.release()
	if q.onDrain != nil {
		q.onDrain(passes, ran)
	}
}

// Sync returns a channel closed once this queue and its chained queue are
// both empty after a drain. It is already closed when both are empty now.
// Call it from the goroutine that owns the queue; the channel itself can be
// waited on anywhere.
func (q *TaskQueue) Sync() <-chan struct{} {
	ch := make(chan struct{})
	if q.idle() {
		close(ch)
		return ch
	}
	q.waiters = append(q.waiters, ch)
	return ch
}

func (q *TaskQueue) Len() int {
	return q.tasks.Len()
}

// Scheduled reports whether a drain is pending on the scheduler.
func (q *TaskQueue) Scheduled() bool {
	return q.scheduled
}

func (q *TaskQueue) idle() bool {
	return q.tasks.Len() == 0 && (q.next == nil || q.next.tasks.Len() == 0)
}

func (q *TaskQueue) release() {
	if len(q.waiters) == 0 || !q.idle() {
		return
	}
	waiters := q.waiters
	q.waiters = nil
	for _, ch := range waiters {
		close(ch)
	}
}

// Wait blocks until ch is closed or ctx is done.
func Wait(ctx context.Context, ch <-chan struct{}) error {
	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
