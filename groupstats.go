// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package fibersched

import (
	"sync/atomic"

	"github.com/flowkit/fibersched/internal/event"
)

// groupStats is the per-group (and global "all groups") completion
// accounting: an atomic in-progress counter plus a manual-reset "all done"
// event, reset before the counter is incremented on every submit so that a
// concurrent waiter either observes the event still signaled (pre-submit)
// or the counter already non-zero (post-submit) — never a window where
// neither is true.
type groupStats struct {
	inProgress atomic.Int64
	done       event.ManualReset
}

func newGroupStats() *groupStats {
	gs := &groupStats{}
	// Start signaled: a group that has never been submitted to is
	// vacuously "all done", matching GroupStats' stated invariant.
	gs.done.Signal()
	return gs
}

// reserve resets the done-event (if a prior cohort had fully drained) and
// adds n to the in-progress counter. Must be called before the corresponding
// tasks are published to any worker's run queue.
func (gs *groupStats) reserve(n int64) {
	if n == 0 {
		return
	}
	gs.done.Reset()
	gs.inProgress.Add(n)
}

// finish decrements the in-progress counter by one, signaling the done-event
// and reporting true if this was the last outstanding task.
func (gs *groupStats) finish() bool {
	v := gs.inProgress.Add(-1)
	if v < 0 {
		panic("fibersched: group in-progress counter went negative")
	}
	if v == 0 {
		gs.done.Signal()
		return true
	}
	return false
}

// Done returns the channel a waiter should select on.
func (gs *groupStats) Done() <-chan struct{} {
	return gs.done.Done()
}
