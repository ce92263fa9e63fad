// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package fibersched

import (
	"sync"

	"github.com/flowkit/fibersched/internal/runqueue"
	"github.com/flowkit/fibersched/internal/timerpool"
)

// workItem is whatever a ThreadContext's run queue actually carries: either
// a freshly submitted GroupedTask (requiring a fiber to be checked out of
// the pool) or a back-reference to an already-bound FiberContext that is
// being restored after a group drained or a child finished. Folding both
// into one queue element type means a worker's dispatch loop never needs to
// distinguish "new work" from "resumed work" beyond this one switch.
type workItem struct {
	task   GroupedTask
	resume *FiberContext
}

// ThreadContext is a worker: a long-lived goroutine that pulls work from its
// own FIFO and drives whichever fiber that work is bound to, one at a time,
// blocking rather than spinning while that fiber runs.
type ThreadContext struct {
	id        int
	scheduler *TaskScheduler
	queue     *runqueue.Queue[workItem]
	timers    timerpool.TimerPool
}

func newThreadContext(id int, scheduler *TaskScheduler) *ThreadContext {
	tc := &ThreadContext{
		id:        id,
		scheduler: scheduler,
		queue:     runqueue.New[workItem](scheduler.config.TaskQueueCapacity),
	}
	tc.timers.Init()
	return tc
}

// run is the worker's dispatch loop. It exits only once shutdown is closed
// and its own queue is observed empty.
func (tc *ThreadContext) run(shutdown <-chan struct{}, wg *sync.WaitGroup) {
	defer wg.Done()

	hooks := tc.scheduler.config.Hooks
	hooks.workerStart(tc.id)
	defer hooks.workerStop(tc.id)

	timer := tc.timers.Get()
	defer tc.timers.Put(timer)

	for {
		item, ok := tc.queue.TryPop()
		if !ok {
			select {
			case <-shutdown:
				return
			default:
			}
			tc.timers.Rearm(timer, tc.scheduler.config.WorkerWakeTimeout)
			select {
			case <-tc.queue.Wake():
			case <-timer.C:
			case <-shutdown:
				return
			}
			continue
		}
		tc.execute(item)
	}
}

// execute binds item to a FiberContext — checking a fresh one out of the
// free-list for newly submitted work, or reusing the one already carried by
// a restore — and drives it for exactly one run span.
func (tc *ThreadContext) execute(item workItem) {
	sched := tc.scheduler
	var fc *FiberContext
	if item.resume != nil {
		fc = item.resume
	} else {
		fc = sched.requestFiberContext(item.task)
	}
	sched.driveFiber(tc, fc)
}
