// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package fibersched

// TaskFunc is the callable bound to a task. It receives the FiberContext
// driving it (used to call WaitGroupAndYield / RunSubtasksAndYield) and the
// opaque user-data handle supplied at submission time. TaskFunc carries no
// return value: a task's only channel back to the caller is whatever it
// does with userData, since the scheduler never catches or propagates
// task-body failures — a panicking task crashes the process.
type TaskFunc func(fc *FiberContext, userData any)

// TaskDesc is an opaque task: a callable plus a user-data handle. It is a
// value type, safe to copy.
type TaskDesc struct {
	Fn       TaskFunc
	UserData any
}

// Valid reports whether the descriptor carries a callable.
func (d TaskDesc) Valid() bool {
	return d.Fn != nil
}

// TaskGroup identifies a logical batch of tasks for the purposes of
// collective waiting. Valid values lie in [0, Config.GroupCount).
type TaskGroup int32

// GroupUndefined is the distinguished "no group" value used to initialize
// FiberContext slots that are not bound to any task.
const GroupUndefined TaskGroup = -1

// GroupedTask is a TaskDesc tagged with its destination group and, when
// enqueued from within a running task, a back-reference to the fiber that
// spawned it.
type GroupedTask struct {
	Desc   TaskDesc
	Group  TaskGroup
	Parent *FiberContext
}

// TaskBucket is a contiguous batch of GroupedTask dispatched to a single
// worker by RunTasks. The caller's slice is not retained past the call.
type TaskBucket []GroupedTask
