package sql

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/spacemeshos/go-ballot/metrics"
)

const namespace = "database"

var connWaitLatency = metrics.NewHistogramWithBuckets(
	"conn_wait_latency",
	namespace,
	"Time spent waiting for a connection from the pool, in seconds",
	[]string{},
	prometheus.ExponentialBuckets(0.00001, 2, 20),
).WithLabelValues()
