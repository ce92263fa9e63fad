// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package fibersched

import "github.com/flowkit/fibersched/internal/cerr"

// Submission-time errors returned by RunTasks. These are caller mistakes
// discoverable without bringing down a process that may host more than one
// TaskScheduler, unlike the scheduler's other programmer-contract
// violations (invalid worker-pool usage, fiber pool exhaustion), which
// panic instead.
const (
	ErrInvalidGroup    = cerr.Error("fibersched: invalid task group")
	ErrInvalidTask     = cerr.Error("fibersched: task descriptor is not valid")
	ErrSchedulerClosed = cerr.Error("fibersched: scheduler is closed")
)
