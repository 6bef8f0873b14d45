// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package element

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

var (
	tracer = otel.Tracer("jscst.element")
	meter  = otel.Meter("jscst.element")
)

var (
	buildLatency metric.Float64Histogram
	buildTotal   metric.Int64Counter
	nodeCount    metric.Int64Histogram

	metricsOnce sync.Once
	metricsErr  error
)

// initMetrics initializes the metrics. Safe to call multiple times.
func initMetrics() error {
	metricsOnce.Do(func() {
		var err error

		buildLatency, err = meter.Float64Histogram(
			"cst_build_duration_seconds",
			metric.WithDescription("Duration of element tree construction"),
			metric.WithUnit("s"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		buildTotal, err = meter.Int64Counter(
			"cst_build_total",
			metric.WithDescription("Total number of tree builds"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		nodeCount, err = meter.Int64Histogram(
			"cst_build_node_count",
			metric.WithDescription("Nodes per built tree"),
		)
		if err != nil {
			metricsErr = err
			return
		}
	})
	return metricsErr
}

func recordBuildMetrics(ctx context.Context, duration time.Duration, nodes int, success bool) {
	if err := initMetrics(); err != nil {
		return
	}
	attrs := metric.WithAttributes(attribute.Bool("success", success))
	buildLatency.Record(ctx, duration.Seconds(), attrs)
	buildTotal.Add(ctx, 1, attrs)
	if success {
		nodeCount.Record(ctx, int64(nodes))
	}
}

func startBuildSpan(ctx context.Context, tokens int) (context.Context, trace.Span) {
	return tracer.Start(ctx, "element.Build",
		trace.WithAttributes(attribute.Int("token_count", tokens)),
	)
}
