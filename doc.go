// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

// Package fibersched provides a fixed-size pool of worker goroutines driving
// a fixed-size pool of cooperative fibers. Callers submit grouped batches of
// tasks with RunTasks and can block an external goroutine on a group's
// completion with WaitGroup, or block on every group at once with WaitAll.
//
// Tasks are opaque callables (TaskFunc) bound to an arbitrary user-data
// handle; a running task receives the FiberContext driving it, through which
// it can suspend itself without blocking its worker in two ways: waiting for
// an unrelated group of tasks to drain (WaitGroupAndYield), or spawning a
// batch of child tasks and waiting for all of them to finish
// (RunSubtasksAndYield). Suspension works by parking the task's goroutine on
// a channel receive and handing the worker back to the scheduler to drive a
// different fiber; resuming a parked task is a channel send on the same
// pair, which is why a fiber pool member that is merely waiting never ties
// up a worker the way a blocked OS thread would.
//
// fibersched never retries, cancels, or recovers a task body on the
// caller's behalf: a panicking task crashes the process after its
// lifecycle hooks observe it, matching the scheduler's single
// responsibility of dispatch and completion accounting, not fault
// isolation. See the obs package for optional zap/OpenTelemetry-backed
// Hooks.
package fibersched
