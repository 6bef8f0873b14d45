// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package plugin

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("jscst.plugin")

// Prometheus metrics for plugin acquisition, labeled by plugin name.
var (
	cacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "jscst_plugin_cache_hits_total",
		Help: "Plugin acquisitions served from the cache",
	}, []string{"plugin"})

	cacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "jscst_plugin_cache_misses_total",
		Help: "Plugin acquisitions that ran an analysis",
	}, []string{"plugin"})

	analysesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "jscst_plugin_analyses_total",
		Help: "Completed plugin analyses by outcome",
	}, []string{"plugin", "outcome"})

	analysisDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "jscst_plugin_analysis_duration_seconds",
		Help:    "Time spent in plugin analyses",
		Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
	}, []string{"plugin"})
)
