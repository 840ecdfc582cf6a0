package worker

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var refreshTotal = promauto.NewCounterVec(prometheus.CounterOpts{ //nolint:gochecknoglobals
	Name: "p2p_market_refresh_total",
	Help: "Background snapshot refresh attempts by direction and status.",
}, []string{"direction", "status"})
