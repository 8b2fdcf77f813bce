// Filmatlas - Movie Catalog Aggregation and Recommendation Matching
// Copyright 2026 Filmatlas Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/filmatlas/filmatlas

// Package metrics exposes Prometheus instrumentation for the build
// pipeline and the matcher API.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Pipeline metrics
	ChunksProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "filmatlas_chunks_processed_total",
			Help: "Total number of chunk files folded into the aggregates",
		},
		[]string{"kind"}, // "catalog", "ratings"
	)

	ChunksSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "filmatlas_chunks_skipped_total",
			Help: "Total number of chunk files skipped as already processed",
		},
		[]string{"kind"},
	)

	BuildDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "filmatlas_build_duration_seconds",
			Help:    "Duration of full pipeline builds in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	FilesGenerated = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "filmatlas_files_generated",
			Help: "Number of recommendation files emitted by the last build",
		},
		[]string{"type"}, // "segment", "mood", "genre", "era", "fallback"
	)

	// Matcher metrics
	MatchRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "filmatlas_match_requests_total",
			Help: "Total number of match queries by resolution tier",
		},
		[]string{"tier"}, // "direct", "keyword", "fallback"
	)

	MatchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "filmatlas_match_duration_seconds",
			Help:    "Match query resolution time in seconds",
			Buckets: []float64{0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
	)

	// API metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "filmatlas_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "filmatlas_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)
)

// RecordAPIRequest records one finished API request.
func RecordAPIRequest(method, endpoint string, statusCode int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(statusCode)).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordMatch records one resolved match query.
func RecordMatch(tier string, duration time.Duration) {
	MatchRequests.WithLabelValues(tier).Inc()
	MatchDuration.Observe(duration.Seconds())
}
