// Package metrics registers chainnode's prometheus collectors, following the
// teacher's per-service metrics.go convention (services/miner/metrics.go,
// services/blockvalidation/metrics.go) rather than one shared, less
// discoverable metrics file.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	BlocksMined = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "chainnode",
		Name:      "blocks_mined_total",
		Help:      "Blocks successfully mined and accepted by this node.",
	})

	BlocksAccepted = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "chainnode",
		Name:      "blocks_accepted_total",
		Help:      "Blocks received from peers and accepted onto the local chain.",
	})

	BlocksRejected = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "chainnode",
		Name:      "blocks_rejected_total",
		Help:      "Blocks received from peers and rejected.",
	})

	TransactionsAdmitted = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "chainnode",
		Name:      "transactions_admitted_total",
		Help:      "Transactions accepted into the mempool.",
	})

	TransactionsRejected = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "chainnode",
		Name:      "transactions_rejected_total",
		Help:      "Transactions rejected on mempool admission.",
	})

	MempoolSize = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "chainnode",
		Name:      "mempool_size",
		Help:      "Current number of pending transactions.",
	})

	KnownPeers = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "chainnode",
		Name:      "known_peers",
		Help:      "Current number of peers in the registry.",
	})
)

func init() {
	prometheus.MustRegister(
		BlocksMined,
		BlocksAccepted,
		BlocksRejected,
		TransactionsAdmitted,
		TransactionsRejected,
		MempoolSize,
		KnownPeers,
	)
}
