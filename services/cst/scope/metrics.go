// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package scope

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
	tracer = otel.Tracer("jscst.scope")
	meter  = otel.Meter("jscst.scope")
)

var (
	analysisLatency metric.Float64Histogram
	scopeCount      metric.Int64Histogram
	unresolvedTotal metric.Int64Counter

	metricsOnce sync.Once
	metricsErr  error
)

// initMetrics initializes the metrics. Safe to call multiple times.
func initMetrics() error {
	metricsOnce.Do(func() {
		var err error

		analysisLatency, err = meter.Float64Histogram(
			"scope_analysis_duration_seconds",
			metric.WithDescription("Duration of scope analysis"),
			metric.WithUnit("s"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		scopeCount, err = meter.Int64Histogram(
			"scope_count_per_program",
			metric.WithDescription("Scopes created per analyzed program"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		unresolvedTotal, err = meter.Int64Counter(
			"scope_unresolved_references_total",
			metric.WithDescription("References left unresolved after ambient binding"),
		)
		if err != nil {
			metricsErr = err
			return
		}
	})
	return metricsErr
}

func recordAnalysisMetrics(ctx context.Context, duration time.Duration, scopes, unresolved int, success bool) {
	if err := initMetrics(); err != nil {
		return
	}

	attrs := metric.WithAttributes(attribute.Bool("success", success))
	analysisLatency.Record(ctx, duration.Seconds(), attrs)
	if success {
		scopeCount.Record(ctx, int64(scopes))
		unresolvedTotal.Add(ctx, int64(unresolved))
	}
}

func startAnalysisSpan(ctx context.Context, programID string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "scope.Analyze",
		trace.WithAttributes(attribute.String("program_id", programID)),
	)
}
