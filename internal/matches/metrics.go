// internal/matches/metrics.go

package matches

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	proposalsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "matching_proposals_total",
			Help: "Total number of match proposals created",
		},
	)

	proposalRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "matching_proposal_rejections_total",
			Help: "Proposals refused, by reason",
		},
		[]string{"reason"},
	)

	matchesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "matching_matches_total",
			Help: "Total number of mutual matches",
		},
	)

	transitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "matching_transitions_total",
			Help: "Status transitions, by resulting status",
		},
		[]string{"status"},
	)

	expiredTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "matching_expired_total",
			Help: "Pending matches expired by the sweep",
		},
	)

	compatibilityScores = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "matching_compatibility_scores",
			Help:    "Distribution of compatibility scores",
			Buckets: prometheus.LinearBuckets(0, 0.1, 11),
		},
	)

	sweepDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "matching_expiry_sweep_seconds",
			Help: "Duration of the expiry sweep",
		},
	)
)

func RecordProposal() {
	proposalsTotal.Inc()
}

func RecordRejection(reason string) {
	proposalRejections.WithLabelValues(reason).Inc()
}

func RecordMatch() {
	matchesTotal.Inc()
}

func RecordTransition(status Status) {
	transitionsTotal.WithLabelValues(string(status)).Inc()
}

func RecordExpired(n int64) {
	expiredTotal.Add(float64(n))
	transitionsTotal.WithLabelValues(string(StatusExpired)).Add(float64(n))
}

func RecordCompatibilityScore(score float64) {
	compatibilityScores.Observe(score)
}

func RecordSweepDuration(d time.Duration) {
	sweepDuration.Observe(d.Seconds())
}
