// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package runqueue

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestQueue_FIFOOrder(t *testing.T) {
	chk := require.New(t)
	q := New[int](0)

	q.PushBack(1)
	q.PushBack(2)
	q.PushBack(3)

	for _, want := range []int{1, 2, 3} {
		v, ok := q.TryPop()
		chk.True(ok)
		chk.Equal(want, v)
	}
	_, ok := q.TryPop()
	chk.False(ok)
}

func TestQueue_PushRangeIsOneBatch(t *testing.T) {
	chk := require.New(t)
	q := New[int](0)

	q.PushRange([]int{1, 2, 3})
	chk.False(q.IsEmpty())

	for _, want := range []int{1, 2, 3} {
		v, ok := q.TryPop()
		chk.True(ok)
		chk.Equal(want, v)
	}
	chk.True(q.IsEmpty())
}

func TestQueue_WakeSignalsOnPushFromEmpty(t *testing.T) {
	chk := require.New(t)
	q := New[int](0)

	select {
	case <-q.Wake():
		chk.Fail("wake channel should not be signaled before any push")
	default:
	}

	q.PushBack(1)

	select {
	case <-q.Wake():
	case <-time.After(time.Second):
		chk.Fail("expected wake signal after push")
	}
}

func TestQueue_ConcurrentPushers(t *testing.T) {
	chk := require.New(t)
	q := New[int](0)

	const n = 500
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			q.PushBack(i)
		}(i)
	}
	wg.Wait()

	count := 0
	for {
		_, ok := q.TryPop()
		if !ok {
			break
		}
		count++
	}
	chk.Equal(n, count)
}
