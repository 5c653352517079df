package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// ProofsAccepted counts proofs that passed verification and were stored
var ProofsAccepted = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "scoreproof_proofs_accepted_total",
		Help: "Total number of proof submissions accepted and stored",
	},
)

// ProofsRejected counts rejected submissions by reason (invalid/duplicate/malformed)
var ProofsRejected = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "scoreproof_proofs_rejected_total",
		Help: "Total number of proof submissions rejected",
	},
	[]string{"reason"},
)

// VerifyLatency records latency distribution for proof verification
var VerifyLatency = prometheus.NewHistogram(
	prometheus.HistogramOpts{
		Name:    "scoreproof_verify_latency_seconds",
		Help:    "Latency in seconds of a single proof verification",
		Buckets: prometheus.DefBuckets,
	},
)

// Database connection pool gauges
var (
	DBOpenConns = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "scoreproof_db_open_connections",
			Help: "Number of open connections in the DB pool",
		},
	)

	DBInUseConns = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "scoreproof_db_in_use_connections",
			Help: "Number of in-use connections in the DB pool",
		},
	)
)

func init() {
	prometheus.MustRegister(ProofsAccepted, ProofsRejected, VerifyLatency)
	prometheus.MustRegister(DBOpenConns, DBInUseConns)
}
