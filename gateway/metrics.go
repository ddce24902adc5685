// Copyright 2025 DBAssist
// SPDX-License-Identifier: Apache-2.0

package gateway

import "github.com/prometheus/client_golang/prometheus"

// Prometheus metrics
var (
	promInputChecks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dbassist_gateway_input_checks_total",
			Help: "Total input-side validations by outcome",
		},
		[]string{"outcome"},
	)
	promOutputChecks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dbassist_gateway_output_checks_total",
			Help: "Total output-side validations by outcome",
		},
		[]string{"outcome"},
	)
	promBlocked = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dbassist_gateway_blocked_total",
			Help: "Total blocked messages by pipeline stage",
		},
		[]string{"stage"},
	)
	promCheckDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dbassist_gateway_check_duration_milliseconds",
			Help:    "Validation pipeline duration in milliseconds",
			Buckets: []float64{1, 2, 5, 10, 20, 50, 100, 200, 500},
		},
		[]string{"side"},
	)
)

func init() {
	prometheus.MustRegister(promInputChecks)
	prometheus.MustRegister(promOutputChecks)
	prometheus.MustRegister(promBlocked)
	prometheus.MustRegister(promCheckDuration)
}
