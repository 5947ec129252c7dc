package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	ResultOK       = "ok"
	ResultRejected = "rejected"
	ResultError    = "error"

	KindFunds = "funds"
	KindGas   = "gas"
)

var (
	SignRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tailwind_sign_requests",
			Help: ": number of sign requests by sign mode and result",
		},
		[]string{"mode", "result"},
	)

	Declarations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tailwind_declarations",
			Help: ": number of negotiation hints received",
		},
		[]string{"kind"},
	)

	DiscoveryDispatches = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tailwind_discovery_dispatches",
			Help: ": number of readiness signals dispatched",
		},
	)

	ProviderConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "tailwind_provider_connections",
			Help: ": number of open provider connections",
		},
	)
)
