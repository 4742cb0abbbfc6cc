// Copyright 2019-2021 Trellis LDP.
// This software is released under an MIT/X11 open source license.

package ldpserver

import (
	"github.com/prometheus/client_golang/prometheus"
)

var requestsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "trellis_http_requests_total",
		Help: "Count of LDP requests served, by method and status code.",
	},
	[]string{"method", "code"},
)

func init() {
	prometheus.MustRegister(requestsTotal)
}
