// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package parser

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const tracerName = "jscst.parser"

var (
	parsesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "jscst_parser_parses_total",
		Help: "Source parses by outcome",
	}, []string{"outcome"})

	parseDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "jscst_parser_parse_duration_seconds",
		Help:    "End-to-end parse duration, grammar parser to checked tree",
		Buckets: prometheus.ExponentialBuckets(0.0005, 4, 8),
	})

	violations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "jscst_parser_violations_total",
		Help: "Parses rejected by the strict-mode and module checks",
	}, []string{"kind"})
)

func recordParse(d time.Duration, err error) {
	parseDuration.Observe(d.Seconds())
	if err != nil {
		parsesTotal.WithLabelValues("error").Inc()
		return
	}
	parsesTotal.WithLabelValues("ok").Inc()
}
