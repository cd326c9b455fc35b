package extract

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeOK          = "ok"
	outcomeIncomplete  = "incomplete"
	outcomeUnavailable = "unavailable"
)

var extractions = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "splitexpenses",
		Subsystem: "extraction",
		Name:      "requests_total",
	},
	[]string{"outcome"},
)

func observeExtraction(outcome string) {
	extractions.WithLabelValues(outcome).Inc()
}
