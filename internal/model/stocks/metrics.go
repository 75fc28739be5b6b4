package stocks

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var snapshotLookups = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "smartsaver",
		Subsystem: "stocks",
		Name:      "snapshot_lookups_total",
	},
	[]string{"result"},
)
