// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package event

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestManualReset_ZeroValueUnsignaled(t *testing.T) {
	chk := require.New(t)
	var e ManualReset

	select {
	case <-e.Done():
		chk.Fail("zero value must start unsignaled")
	default:
	}
}

func TestManualReset_SignalWakesExistingAndFutureWaiters(t *testing.T) {
	chk := require.New(t)
	var e ManualReset

	done1 := e.Done()
	e.Signal()

	select {
	case <-done1:
	default:
		chk.Fail("Done() channel captured before Signal should become closed")
	}

	select {
	case <-e.Done():
	default:
		chk.Fail("Done() called after Signal should already be closed")
	}
}

func TestManualReset_ResetAfterSignalIsFreshChannel(t *testing.T) {
	chk := require.New(t)
	var e ManualReset

	e.Signal()
	old := e.Done()

	e.Reset()
	fresh := e.Done()

	chk.NotEqual(old, fresh)
	select {
	case <-old:
	default:
		chk.Fail("channel captured before Reset keeps reporting its original signaled state")
	}
	select {
	case <-fresh:
		chk.Fail("fresh channel after Reset must start unsignaled")
	default:
	}
}

func TestManualReset_SignalIdempotent(t *testing.T) {
	chk := require.New(t)
	var e ManualReset
	e.Signal()
	chk.NotPanics(func() { e.Signal() })
}

func TestManualReset_ConcurrentSignalAndWait(t *testing.T) {
	chk := require.New(t)
	var e ManualReset

	var wg sync.WaitGroup
	results := make([]bool, 20)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			select {
			case <-e.Done():
				results[i] = true
			case <-time.After(time.Second):
				results[i] = false
			}
		}(i)
	}

	time.Sleep(5 * time.Millisecond)
	e.Signal()
	wg.Wait()

	for i, ok := range results {
		chk.True(ok, "waiter %d did not observe signal", i)
	}
}
