// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package treiber

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStack_PushPopOrderIsLIFO(t *testing.T) {
	chk := require.New(t)
	var s Stack[int]

	s.Push(1)
	s.Push(2)
	s.Push(3)

	v, ok := s.Pop()
	chk.True(ok)
	chk.Equal(3, v)

	v, ok = s.Pop()
	chk.True(ok)
	chk.Equal(2, v)

	v, ok = s.Pop()
	chk.True(ok)
	chk.Equal(1, v)

	_, ok = s.Pop()
	chk.False(ok)
}

func TestStack_PopAllDrainsInLIFOOrder(t *testing.T) {
	chk := require.New(t)
	var s Stack[int]
	for i := 1; i <= 5; i++ {
		s.Push(i)
	}
	got := s.PopAll()
	chk.Equal([]int{5, 4, 3, 2, 1}, got)

	_, ok := s.Pop()
	chk.False(ok)
	chk.Nil(s.PopAll())
}

func TestStack_ConcurrentPushPop(t *testing.T) {
	chk := require.New(t)
	var s Stack[int]

	const n = 1000
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			s.Push(i)
		}(i)
	}
	wg.Wait()

	seen := make(map[int]bool)
	for {
		v, ok := s.Pop()
		if !ok {
			break
		}
		chk.False(seen[v], "value %d popped twice", v)
		seen[v] = true
	}
	chk.Len(seen, n)
}
