package vm

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/spacemeshos/go-ballot/metrics"
)

const namespace = "vm"

var (
	transactionsApplied = metrics.NewCounter(
		"transactions",
		namespace,
		"number of applied transactions",
		[]string{"method", "status"},
	)
	applyDuration = metrics.NewHistogramWithBuckets(
		"apply_duration",
		namespace,
		"duration of a single transaction application in seconds",
		[]string{},
		prometheus.ExponentialBuckets(0.0001, 2, 16),
	).WithLabelValues()
)
