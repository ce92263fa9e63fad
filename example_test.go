// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package fibersched_test

import (
	"context"
	"fmt"
	"sync"
	"time"

	fibersched "github.com/flowkit/fibersched"
)

// Minimal example that runs a handful of tasks in one group and waits for
// them to drain.
func Example() {
	sched := fibersched.New()
	defer sched.Close()

	var mu sync.Mutex
	var greetings []string

	newTask := func(s string) fibersched.TaskDesc {
		return fibersched.TaskDesc{
			Fn: func(_ *fibersched.FiberContext, _ any) {
				mu.Lock()
				greetings = append(greetings, s)
				mu.Unlock()
			},
		}
	}

	const group fibersched.TaskGroup = 0
	bucket := fibersched.TaskBucket{
		{Desc: newTask("Hello")},
		{Desc: newTask("world!")},
	}
	if err := sched.RunTasks(context.Background(), group, bucket); err != nil {
		panic(err)
	}

	sched.WaitGroup(context.Background(), group, 5*time.Second)
	fmt.Println(len(greetings))
	// Output: 2
}
