package ledger

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var submittedTransactions = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "splitexpenses",
		Subsystem: "ledger",
		Name:      "submitted_transactions_total",
	},
	[]string{"path", "success"},
)

func observeSubmit(path string, success bool) {
	submittedTransactions.
		WithLabelValues(path, strconv.FormatBool(success)).
		Inc()
}
