// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

// Package runqueue implements the per-worker runnable-task FIFO: a
// mutex-guarded ring buffer (github.com/gammazero/deque) paired with an
// auto-reset wake channel, so a worker blocked on an empty queue is woken by
// the next push rather than having to poll. Every push signals the channel;
// signals that arrive while one is already pending are coalesced into it.
package runqueue

import (
	"sync"

	"github.com/gammazero/deque"
)

// Queue is a bounded-capacity-hint, unbounded-growth FIFO safe for one
// consumer and any number of producers.
type Queue[T any] struct {
	mu   sync.Mutex
	buf  deque.Deque[T]
	wake chan struct{}
}

// New returns a ready-to-use Queue. capacityHint (the TaskQueueCapacity
// field of the scheduler's configuration) is accepted but not used: nothing
// is preallocated from it and it is not enforced as a limit — the
// underlying deque starts empty and grows as needed.
func New[T any](capacityHint int) *Queue[T] {
	return &Queue[T]{
		wake: make(chan struct{}, 1),
	}
}

// PushBack appends v and signals the wake channel.
func (q *Queue[T]) PushBack(v T) {
	q.mu.Lock()
	q.buf.PushBack(v)
	q.mu.Unlock()
	q.signal()
}

// PushRange appends every element of vs as a single batch and signals the
// wake channel once, so a whole task batch is published atomically with
// respect to other pushers.
func (q *Queue[T]) PushRange(vs []T) {
	if len(vs) == 0 {
		return
	}
	q.mu.Lock()
	for _, v := range vs {
		q.buf.PushBack(v)
	}
	q.mu.Unlock()
	q.signal()
}

func (q *Queue[T]) signal() {
	select {
	case q.wake <- struct{}{}:
	default:
	}
}

// TryPop removes and returns the front element, or ok=false if the queue is
// currently empty.
func (q *Queue[T]) TryPop() (v T, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.buf.Len() == 0 {
		return v, false
	}
	return q.buf.PopFront(), true
}

// IsEmpty reports whether the queue currently holds no elements. Advisory
// only: a concurrent pusher may invalidate the result immediately.
func (q *Queue[T]) IsEmpty() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.buf.Len() == 0
}

// Wake returns the channel a consumer should select on (with a timeout) after
// observing an empty queue from TryPop, to avoid busy-polling.
func (q *Queue[T]) Wake() <-chan struct{} {
	return q.wake
}
