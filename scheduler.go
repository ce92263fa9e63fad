// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package fibersched

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/flowkit/fibersched/internal/treiber"
)

// TaskScheduler is the public entry point: a fixed pool of worker goroutines
// (ThreadContext) driving a fixed pool of fibers (FiberContext) over
// per-worker run queues, with per-group and global completion accounting.
type TaskScheduler struct {
	config Config

	threads []*ThreadContext
	fibers  []*FiberContext

	freeFibers treiber.Stack[*FiberContext]
	awaiters   []treiber.Stack[*FiberContext]

	groupStats []*groupStats
	allStats   *groupStats

	roundRobin atomic.Uint64
	closed     atomic.Bool
	shutdown   chan struct{}
	wg         sync.WaitGroup
}

// New returns a TaskScheduler configured with DefaultConfig.
func New() *TaskScheduler {
	return NewWithConfig(DefaultConfig())
}

// NewWithConfig returns a TaskScheduler built from cfg, with zero or
// negative fields replaced by DefaultConfig's values.
func NewWithConfig(cfg Config) *TaskScheduler {
	cfg.applyDefaults()

	sched := &TaskScheduler{
		config:     cfg,
		awaiters:   make([]treiber.Stack[*FiberContext], cfg.GroupCount),
		groupStats: make([]*groupStats, cfg.GroupCount),
		allStats:   newGroupStats(),
		shutdown:   make(chan struct{}),
	}
	for i := range sched.groupStats {
		sched.groupStats[i] = newGroupStats()
	}

	sched.fibers = make([]*FiberContext, cfg.FiberPoolSize)
	for i := range sched.fibers {
		fc := newFiberContext(i, sched)
		sched.fibers[i] = fc
		sched.freeFibers.Push(fc)
		go fc.driverLoop(sched.shutdown)
	}

	workerCount := runtime.NumCPU() - 2
	if workerCount < 1 {
		workerCount = 1
	}
	if workerCount > cfg.MaxThreadCount {
		workerCount = cfg.MaxThreadCount
	}

	sched.threads = make([]*ThreadContext, workerCount)
	for i := range sched.threads {
		tc := newThreadContext(i, sched)
		sched.threads[i] = tc
		sched.wg.Add(1)
		go tc.run(sched.shutdown, &sched.wg)
	}

	return sched
}

// Close signals every worker and fiber goroutine to exit and waits for the
// workers to do so. Close is intended to be called once the scheduler is
// idle (every submitted group has drained); it makes no attempt to unwind
// tasks still parked on WaitGroupAndYield or RunSubtasksAndYield.
func (sched *TaskScheduler) Close() error {
	if sched.closed.Swap(true) {
		return ErrSchedulerClosed
	}
	close(sched.shutdown)
	sched.wg.Wait()
	return nil
}

// GetWorkerCount returns the fixed number of worker goroutines.
func (sched *TaskScheduler) GetWorkerCount() int {
	return len(sched.threads)
}

// IsEmpty reports whether every worker's run queue is currently empty. This
// is a point-in-time snapshot: a true result does not imply no fiber is
// parked awaiting a group or a child.
func (sched *TaskScheduler) IsEmpty() bool {
	for _, tc := range sched.threads {
		if !tc.queue.IsEmpty() {
			return false
		}
	}
	return true
}

// IsWorkerThread reports whether ctx is (or descends from) a context handed
// to a task body by this scheduler. See FiberContext.Context for the caveat
// that this only works if ctx is that exact context or a child of it.
func (sched *TaskScheduler) IsWorkerThread(ctx context.Context) bool {
	owner, _ := ctx.Value(workerMarkerKey{}).(*TaskScheduler)
	return owner == sched
}

// RunTasks submits buckets to group, distributing each bucket to one worker's
// run queue round-robin. It does not block: it returns once every task has
// been published, not once any of them have run. Passing zero tasks overall
// is a silent no-op.
func (sched *TaskScheduler) RunTasks(_ context.Context, group TaskGroup, buckets ...TaskBucket) error {
	return sched.runTasks(group, buckets, nil)
}

// runTasks is RunTasks' internal form, additionally threading the spawning
// fiber (nil for external callers) through as each task's Parent so that the
// last child to finish can resume it.
func (sched *TaskScheduler) runTasks(group TaskGroup, buckets []TaskBucket, parent *FiberContext) error {
	if sched.closed.Load() {
		return ErrSchedulerClosed
	}
	if group < 0 || int(group) >= sched.config.GroupCount {
		return ErrInvalidGroup
	}

	var total int64
	for _, bucket := range buckets {
		for _, t := range bucket {
			if !t.Desc.Valid() {
				return ErrInvalidTask
			}
			total++
		}
	}
	if total == 0 {
		return nil
	}

	// Reset-then-increment: the done-event is reset and the counter bumped
	// before anything is published to a worker queue, so a concurrent
	// waiter can never observe a window where neither the event nor the
	// counter reflects the work about to run.
	sched.allStats.reserve(total)
	sched.groupStats[group].reserve(total)
	if parent != nil {
		parent.children.Add(total)
	}

	for _, bucket := range buckets {
		if len(bucket) == 0 {
			continue
		}
		items := make([]workItem, len(bucket))
		for i, t := range bucket {
			t.Group = group
			t.Parent = parent
			items[i] = workItem{task: t}
		}
		idx := sched.nextThread()
		sched.threads[idx].queue.PushRange(items)
	}
	return nil
}

func (sched *TaskScheduler) nextThread() int {
	return int(sched.roundRobin.Add(1)-1) % len(sched.threads)
}

// WaitGroup blocks the calling goroutine — which must NOT be a worker-driven
// task, see IsWorkerThread — until group's in-progress count reaches zero,
// ctx is canceled, or timeout elapses (a non-positive timeout means no
// timeout). Returns false immediately if called from within a worker-driven
// task, since a task body must use FiberContext.WaitGroupAndYield instead.
func (sched *TaskScheduler) WaitGroup(ctx context.Context, group TaskGroup, timeout time.Duration) bool {
	if sched.IsWorkerThread(ctx) {
		return false
	}
	if group < 0 || int(group) >= sched.config.GroupCount {
		return false
	}
	return waitOn(ctx, sched.groupStats[group].Done(), timeout)
}

// WaitAll is WaitGroup's whole-scheduler counterpart, blocking until every
// group's in-progress count has reached zero.
func (sched *TaskScheduler) WaitAll(ctx context.Context, timeout time.Duration) bool {
	if sched.IsWorkerThread(ctx) {
		return false
	}
	return waitOn(ctx, sched.allStats.Done(), timeout)
}

func waitOn(ctx context.Context, done <-chan struct{}, timeout time.Duration) bool {
	var timeoutCh <-chan time.Time
	if timeout > 0 {
		t := time.NewTimer(timeout)
		defer t.Stop()
		timeoutCh = t.C
	}
	select {
	case <-done:
		return true
	case <-ctx.Done():
		return false
	case <-timeoutCh:
		return false
	}
}

func (sched *TaskScheduler) requestFiberContext(task GroupedTask) *FiberContext {
	fc, ok := sched.freeFibers.Pop()
	if !ok {
		panic("fibersched: fiber pool exhausted")
	}
	fc.task = task.Desc
	fc.group = task.Group
	fc.parent = task.Parent
	return fc
}

func (sched *TaskScheduler) releaseFiberContext(fc *FiberContext) {
	fc.reset()
	sched.freeFibers.Push(fc)
}

// driveFiber binds fc to tc, resumes it for one run span, and handles
// whatever it yields back: StatusFinished tears the fiber down and propagates
// completion to group accounting and a waiting parent; StatusAwaitingGroup
// and StatusAwaitingChild simply release the worker to pick up other work,
// since fc is already parked on the structure that will eventually restore
// it (an awaiter stack, or nothing — the parent is restored by its last
// child directly).
func (sched *TaskScheduler) driveFiber(tc *ThreadContext, fc *FiberContext) {
	fc.thread.Store(tc)
	fc.ctx = context.WithValue(context.Background(), workerMarkerKey{}, sched)
	fc.status.Store(int32(StatusRunning))

	fc.resumeCh <- struct{}{}
	status := <-fc.yieldCh

	switch status {
	case StatusFinished:
		sched.onFiberFinished(fc)
	case StatusAwaitingGroup, StatusAwaitingChild:
		// Parked. Nothing further for this worker to do; it loops back to
		// its own queue. fc may already be resumed on another worker by the
		// time this one checks; status is the value yielded to THIS drive
		// span, not whatever fc.status currently holds.
	default:
		panic("fibersched: fiber yielded in an unexpected status")
	}
}

func (sched *TaskScheduler) onFiberFinished(fc *FiberContext) {
	group := fc.group
	parent := fc.parent

	if sched.groupStats[group].finish() {
		sched.restoreAwaitingTasks(group)
		sched.config.Hooks.groupDrained(group)
	}
	sched.allStats.finish()

	sched.releaseFiberContext(fc)

	if parent != nil && parent.children.Add(-1) == 0 {
		sched.scheduleResume(parent)
	}
}

// restoreAwaitingTasks drains every fiber parked on group's awaiter stack
// and reschedules each one, round-robin, onto a worker's run queue as a
// resume item. PopAll returns
// the parked fibers in LIFO order, which is preserved into the order they
// are handed to scheduleResume (and therefore, modulo worker interleaving,
// the order they next run) — this is what makes the awaiter structure a
// stack rather than a queue.
func (sched *TaskScheduler) restoreAwaitingTasks(group TaskGroup) {
	parked := sched.awaiters[group].PopAll()
	for _, fc := range parked {
		sched.scheduleResume(fc)
	}
}

func (sched *TaskScheduler) scheduleResume(fc *FiberContext) {
	idx := sched.nextThread()
	sched.threads[idx].queue.PushBack(workItem{resume: fc})
}
