// Package observability provides metrics and tracing.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "askme_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// VotesTotal counts applied votes by target kind and resulting state.
	VotesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "askme_votes_total",
		Help: "Total number of votes applied by target and resulting state",
	}, []string{"target", "state"})

	// VoteRejections counts rejected vote and correctness requests by reason.
	VoteRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "askme_vote_rejections_total",
		Help: "Total number of rejected vote or correctness requests",
	}, []string{"endpoint", "code"})

	// RankingQueryLatency records ranking query latency by view.
	RankingQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "askme_ranking_query_latency_seconds",
		Help:    "Ranking query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"view"})

	// CacheLookups counts cache-aside lookups by result (hit, miss, error).
	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "askme_cache_lookups_total",
		Help: "Cache-aside lookups by result",
	}, []string{"result"})

	// WebSocketConnectionsTotal is the gauge of active WebSocket connections.
	WebSocketConnectionsTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "askme_websocket_connections_total",
		Help: "Total number of active WebSocket connections",
	})

	// WebSocketBackpressureDrops counts messages dropped due to backpressure by hub and reason.
	WebSocketBackpressureDrops = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "askme_websocket_backpressure_drops_total",
		Help: "Total number of WebSocket messages dropped due to backpressure",
	}, []string{"hub", "reason"})
)

// VoteState labels the stored vote value for VotesTotal.
func VoteState(value int) string {
	switch {
	case value > 0:
		return "like"
	case value < 0:
		return "dislike"
	default:
		return "neutral"
	}
}

// TrackRanking returns a function that records the latency of a ranking view when called.
func TrackRanking(view string) func() {
	start := time.Now()
	return func() {
		RankingQueryLatency.WithLabelValues(view).Observe(time.Since(start).Seconds())
	}
}
