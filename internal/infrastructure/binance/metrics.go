package binance

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

//nolint:gochecknoglobals
var (
	fetchedPages = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "p2p_market_binance_pages_fetched_total",
		Help: "Successfully fetched search pages per trade direction.",
	}, []string{"direction"})

	droppedRecords = promauto.NewCounter(prometheus.CounterOpts{
		Name: "p2p_market_binance_records_dropped_total",
		Help: "Raw advertisements dropped during normalization.",
	})
)
