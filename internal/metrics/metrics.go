// Package metrics exposes Prometheus instrumentation for ledger operations.
package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ThaiKG/personal-accounting-bot/internal/ledger"
)

var (
	// OperationsTotal counts ledger operations by name and outcome.
	OperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ledger",
		Name:      "operations_total",
		Help:      "Total ledger operations by operation and status.",
	}, []string{"operation", "status"})

	// TransactionAbortsTotal counts operations that failed at commit time,
	// i.e. after validation passed.
	TransactionAbortsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "ledger",
		Name:      "transaction_aborts_total",
		Help:      "Total transactions rolled back due to storage failures.",
	})
)

// RecordOperation tallies one finished operation.
func RecordOperation(operation string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
		if errors.Is(err, ledger.ErrTransactionAborted) {
			TransactionAbortsTotal.Inc()
		}
	}
	OperationsTotal.WithLabelValues(operation, status).Inc()
}
