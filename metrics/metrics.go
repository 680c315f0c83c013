// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package metrics holds the Prometheus collectors exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "toasty_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "status"})

	SessionsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "toasty_sessions_created_total",
		Help: "Total number of voting sessions created",
	})

	CodeCollisionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "toasty_session_code_collisions_total",
		Help: "Total number of generated session codes that were already taken",
	})

	VotesCastTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "toasty_votes_cast_total",
		Help: "Total number of votes recorded, by category",
	}, []string{"category"})

	BallotsRejectedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "toasty_ballots_rejected_total",
		Help: "Total number of rejected ballot submissions, by reason",
	}, []string{"reason"})

	PollsClosedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "toasty_polls_closed_total",
		Help: "Total number of close-polls requests that were applied",
	})
)
