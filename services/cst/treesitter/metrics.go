// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package treesitter

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Package-level tracer and meter for the grammar parser binding.
var (
	tracer = otel.Tracer("jscst.treesitter")
	meter  = otel.Meter("jscst.treesitter")
)

var (
	parseLatency metric.Float64Histogram
	parseTotal   metric.Int64Counter
	tokensTotal  metric.Int64Histogram

	metricsOnce sync.Once
	metricsErr  error
)

// initMetrics initializes the metrics. Safe to call multiple times.
func initMetrics() error {
	metricsOnce.Do(func() {
		var err error

		parseLatency, err = meter.Float64Histogram(
			"treesitter_parse_duration_seconds",
			metric.WithDescription("Duration of tree-sitter parse and conversion"),
			metric.WithUnit("s"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		parseTotal, err = meter.Int64Counter(
			"treesitter_parse_total",
			metric.WithDescription("Total number of tree-sitter parses"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		tokensTotal, err = meter.Int64Histogram(
			"treesitter_tokens_per_file",
			metric.WithDescription("Raw tokens produced per parsed file"),
		)
		if err != nil {
			metricsErr = err
			return
		}
	})
	return metricsErr
}

func recordParseMetrics(ctx context.Context, duration time.Duration, tokens int, success bool) {
	if err := initMetrics(); err != nil {
		return
	}

	attrs := metric.WithAttributes(attribute.Bool("success", success))
	parseLatency.Record(ctx, duration.Seconds(), attrs)
	parseTotal.Add(ctx, 1, attrs)
	if success {
		tokensTotal.Record(ctx, int64(tokens))
	}
}

func startParseSpan(ctx context.Context, size int) (context.Context, trace.Span) {
	return tracer.Start(ctx, "treesitter.Parse",
		trace.WithAttributes(attribute.Int("content_size", size)),
	)
}
