// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package fibersched

import "time"

// Config is a validated set of tuning parameters applied by NewWithConfig.
type Config struct {
	// MaxThreadCount upper-bounds the worker pool; the actual worker count
	// computed by NewWithConfig is also scaled to the host's CPU count, so
	// this field is a ceiling, not a target.
	MaxThreadCount int
	// FiberPoolSize is the fixed number of preallocated fibers. Exhaustion
	// is fatal; the pool is never resized.
	FiberPoolSize int
	// GroupCount bounds valid TaskGroup values to [0, GroupCount).
	GroupCount int
	// TaskQueueCapacity is passed to each worker's run queue as a size hint.
	// The run queue does not use it: it neither preallocates from it nor
	// limits its length by it.
	TaskQueueCapacity int
	// WorkerWakeTimeout bounds how long an idle worker waits on its wake
	// channel before re-checking its FIFO and exit state.
	WorkerWakeTimeout time.Duration
	// Hooks, if non-nil, receives scheduler and task lifecycle callbacks for
	// logging, metrics, and tracing (see the obs package). A nil Hooks is a
	// valid, fully no-op value.
	Hooks *Hooks
}

// DefaultConfig returns the configuration used by New.
func DefaultConfig() Config {
	return Config{
		MaxThreadCount:    64,
		FiberPoolSize:     256,
		GroupCount:        32,
		TaskQueueCapacity: 4096,
		WorkerWakeTimeout: 2 * time.Second,
	}
}

func (c *Config) applyDefaults() {
	d := DefaultConfig()
	if c.MaxThreadCount <= 0 {
		c.MaxThreadCount = d.MaxThreadCount
	}
	if c.FiberPoolSize <= 0 {
		c.FiberPoolSize = d.FiberPoolSize
	}
	if c.GroupCount <= 0 {
		c.GroupCount = d.GroupCount
	}
	if c.TaskQueueCapacity <= 0 {
		c.TaskQueueCapacity = d.TaskQueueCapacity
	}
	if c.WorkerWakeTimeout <= 0 {
		c.WorkerWakeTimeout = d.WorkerWakeTimeout
	}
}
