// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

// Package obs builds a fibersched.Hooks backed by go.uber.org/zap for
// structured logging, go.opentelemetry.io/otel for metrics, and
// go.opentelemetry.io/otel/trace for spans. A task body can suspend itself
// (WaitGroupAndYield, RunSubtasksAndYield) without leaving the fiber's own
// goroutine, so a span opened in OnTaskStart and closed in OnTaskFinish
// covers the whole lifetime, parked time included, rather than a single
// uninterrupted run.
package obs

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	fibersched "github.com/flowkit/fibersched"
	"github.com/flowkit/fibersched/internal/cerr"
)

const instrumentationName = "fibersched"

// ErrMetricsSetup is returned by Hooks if the configured MeterProvider
// refuses to construct one of the instruments; this should not happen with
// the standard SDK meter implementations but is checked rather than
// ignored, since a silently-nil instrument would panic on first
// Add/Record.
const ErrMetricsSetup = cerr.Error("obs: failed to construct OpenTelemetry instruments")

// Hooks builds a *fibersched.Hooks that logs through logger, records metrics
// through otel.GetMeterProvider(), and opens a span per task through
// otel.GetTracerProvider(). Passing a nil logger falls back to zap.L().
func Hooks(logger *zap.Logger) (*fibersched.Hooks, error) {
	if logger == nil {
		logger = zap.L()
	}
	logger = logger.Named("fibersched")

	meter := otel.GetMeterProvider().Meter(instrumentationName)
	tracer := otel.GetTracerProvider().Tracer(instrumentationName)

	taskCount, err := meter.Int64Counter("fibersched.task.count")
	if err != nil {
		return nil, ErrMetricsSetup
	}
	taskDuration, err := meter.Float64Histogram("fibersched.task.duration_seconds")
	if err != nil {
		return nil, ErrMetricsSetup
	}
	taskPanics, err := meter.Int64Counter("fibersched.task.panics")
	if err != nil {
		return nil, ErrMetricsSetup
	}
	workers, err := meter.Int64UpDownCounter("fibersched.workers.active")
	if err != nil {
		return nil, ErrMetricsSetup
	}

	bg := context.Background()

	return &fibersched.Hooks{
		OnWorkerStart: func(workerID int) {
			workers.Add(bg, 1)
			logger.Debug("worker started", zap.Int("worker_id", workerID))
		},
		OnWorkerStop: func(workerID int) {
			workers.Add(bg, -1)
			logger.Debug("worker stopped", zap.Int("worker_id", workerID))
		},
		OnTaskStart: func(group fibersched.TaskGroup) any {
			taskCount.Add(bg, 1)
			_, span := tracer.Start(bg, "fibersched.task")
			logger.Debug("task starting", zap.Int32("group", int32(group)))
			return span
		},
		OnTaskFinish: func(group fibersched.TaskGroup, duration time.Duration, handle any) {
			taskDuration.Record(bg, duration.Seconds())
			if span, ok := handle.(oteltrace.Span); ok {
				span.End()
			}
			logger.Debug("task finished",
				zap.Int32("group", int32(group)),
				zap.Duration("duration", duration))
		},
		OnTaskPanic: func(group fibersched.TaskGroup, recovered any, handle any) {
			taskPanics.Add(bg, 1)
			if span, ok := handle.(oteltrace.Span); ok {
				span.SetStatus(codes.Error, "task panicked")
				span.RecordError(fmt.Errorf("task panicked: %v", recovered))
				span.End()
			}
			logger.Error("task panicked",
				zap.Int32("group", int32(group)),
				zap.Any("recovered", recovered))
		},
		OnGroupDrained: func(group fibersched.TaskGroup) {
			logger.Debug("group drained", zap.Int32("group", int32(group)))
		},
	}, nil
}
