package forecast

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var cacheLookups = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "smartsaver",
		Subsystem: "forecast",
		Name:      "cache_lookups_total",
	},
	[]string{"hit"},
)

func observeCache(hit bool) {
	cacheLookups.WithLabelValues(strconv.FormatBool(hit)).Inc()
}
